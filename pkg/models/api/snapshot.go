package api

import "time"

type TierDistribution struct {
	Low      int `json:"low"`
	Medium   int `json:"medium"`
	High     int `json:"high"`
	Critical int `json:"critical"`
}

type SnapshotSummary struct {
	Id                  string           `json:"id"`
	Owner               string           `json:"owner"`
	CreatedAt           time.Time        `json:"created_at"`
	TotalCustomers      int              `json:"total_customers"`
	ChurnRate           float64          `json:"churn_rate"`
	TotalMonthlyRevenue float64          `json:"total_monthly_revenue"`
	RevenueAtRisk       float64          `json:"revenue_at_risk"`
	Tiers               TierDistribution `json:"risk_tiers"`
}

type Customer struct {
	Id               string  `json:"id"`
	Gender           string  `json:"gender"`
	SeniorCitizen    bool    `json:"senior_citizen"`
	Partner          bool    `json:"partner"`
	Dependents       bool    `json:"dependents"`
	TenureMonths     int     `json:"tenure_months"`
	PhoneService     bool    `json:"phone_service"`
	InternetService  string  `json:"internet_service"`
	TechSupport      bool    `json:"tech_support"`
	PaperlessBilling bool    `json:"paperless_billing"`
	Contract         string  `json:"contract"`
	PaymentMethod    string  `json:"payment_method"`
	MonthlyCharges   float64 `json:"monthly_charges"`
	TotalCharges     float64 `json:"total_charges"`
	ChurnProbability float64 `json:"churn_probability"`
	RiskTier         string  `json:"risk_tier"`
	Segment          string  `json:"segment"`
}

type RowError struct {
	Row    int    `json:"row"`
	Column string `json:"column"`
	Reason string `json:"reason"`
}

// IngestResult is returned from a successful dataset upload. SkippedRows is
// only populated when the upload ran with the skip policy.
type IngestResult struct {
	Snapshot    SnapshotSummary `json:"snapshot"`
	SkippedRows []RowError      `json:"skipped_rows,omitempty"`
}

type Error struct {
	Error string     `json:"error"`
	Rows  []RowError `json:"rows,omitempty"`
}
