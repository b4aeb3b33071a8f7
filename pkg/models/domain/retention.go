package domain

type Priority string

const (
	PriorityMedium   Priority = "Medium"
	PriorityHigh     Priority = "High"
	PriorityCritical Priority = "Critical"
)

// RetentionAction pairs one at-risk customer with the recommended
// intervention for their priority tier.
type RetentionAction struct {
	Customer ScoredCustomer
	Priority Priority
	Action   string
}

// PriorityCounts summarizes a retention plan by priority.
type PriorityCounts struct {
	Critical int
	High     int
	Medium   int
}

// RetentionPlan is the ranked output of the retention ranker: actions ordered
// by descending churn probability, ties broken by ascending customer id.
// Low-risk customers are excluded.
type RetentionPlan struct {
	Actions []RetentionAction
	Counts  PriorityCounts
}
