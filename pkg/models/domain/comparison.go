package domain

type ComparisonStatus string

const (
	StatusImproved ComparisonStatus = "improved"
	StatusDeclined ComparisonStatus = "declined"
	StatusStable   ComparisonStatus = "stable"
)

// ComparisonReport carries the deltas between a baseline snapshot and a later
// one, computed as target minus baseline. It is derived on demand and never
// persisted.
type ComparisonReport struct {
	Baseline Snapshot
	Target   Snapshot

	CustomerChange    int
	ChurnRateChange   float64
	RevenueChange     float64
	RiskRevenueChange float64
	// AnnualProfitLoss annualizes the monthly revenue and risk shifts:
	// (RiskRevenueChange + RevenueChange) * 12.
	AnnualProfitLoss float64

	Status ComparisonStatus
	// LowConfidence is set when either snapshot covers fewer customers than
	// the configured minimum sample size.
	LowConfidence bool
}
