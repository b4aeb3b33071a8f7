package api

type RetentionAction struct {
	CustomerId       string  `json:"customer_id"`
	Contract         string  `json:"contract"`
	ChurnProbability float64 `json:"churn_probability"`
	Priority         string  `json:"priority"`
	Action           string  `json:"action"`
}

type PriorityCounts struct {
	Critical int `json:"critical"`
	High     int `json:"high"`
	Medium   int `json:"medium"`
}

// RetentionPlan is the ranked action list. SkippedRows reports upload rows
// dropped under the skip policy; it is empty for plans built from stored
// snapshots.
type RetentionPlan struct {
	Counts      PriorityCounts    `json:"counts"`
	Actions     []RetentionAction `json:"actions"`
	SkippedRows []RowError        `json:"skipped_rows,omitempty"`
}
