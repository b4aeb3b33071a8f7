package domain

// RiskTier is the ordinal classification of a churn probability.
type RiskTier string

const (
	TierLow      RiskTier = "low"
	TierMedium   RiskTier = "medium"
	TierHigh     RiskTier = "high"
	TierCritical RiskTier = "critical"
)

// AtRisk reports whether the tier contributes to revenue at risk.
func (t RiskTier) AtRisk() bool {
	return t == TierHigh || t == TierCritical
}

// Churning reports whether the tier counts towards the dataset churn rate.
func (t RiskTier) Churning() bool {
	return t != TierLow
}

type Contract string

const (
	ContractMonthToMonth Contract = "Month-to-month"
	ContractOneYear      Contract = "One year"
	ContractTwoYear      Contract = "Two year"
)

// CustomerRecord is one uploaded row after validation.
type CustomerRecord struct {
	ID               string
	Gender           string
	SeniorCitizen    bool
	Partner          bool
	Dependents       bool
	TenureMonths     int
	PhoneService     bool
	InternetService  string // "DSL", "Fiber optic" or "No"
	TechSupport      bool
	PaperlessBilling bool
	Contract         Contract
	PaymentMethod    string
	MonthlyCharges   float64
	TotalCharges     float64
}

// ScoredCustomer is a CustomerRecord plus the oracle's churn probability,
// the derived risk tier and the risk/value segment assigned at snapshot time.
type ScoredCustomer struct {
	CustomerRecord

	ChurnProbability float64 // in [0,1]
	Tier             RiskTier
	Segment          string
}
