package store

import "time"

// Snapshot is the persisted aggregate row.
type Snapshot struct {
	ID                  string
	Owner               string
	CreatedAt           time.Time
	TotalCustomers      int
	ChurnRate           float64
	TotalMonthlyRevenue float64
	RevenueAtRisk       float64
	TierLow             int
	TierMedium          int
	TierHigh            int
	TierCritical        int
}

// Customer is one scored customer row persisted alongside its snapshot.
type Customer struct {
	SnapshotID       string
	CustomerID       string
	Gender           string
	SeniorCitizen    bool
	Partner          bool
	Dependents       bool
	TenureMonths     int
	PhoneService     bool
	InternetService  string
	TechSupport      bool
	PaperlessBilling bool
	Contract         string
	PaymentMethod    string
	MonthlyCharges   float64
	TotalCharges     float64
	ChurnProbability float64
	RiskTier         string
	Segment          string
}
