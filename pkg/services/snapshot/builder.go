// Package snapshot aggregates one scored dataset into an immutable Snapshot.
package snapshot

import (
	"time"

	"github.com/de-tools/churn-scope/pkg/models/domain"
)

// Segment labels, risk crossed with value. Risk splits at the high tier,
// value at the dataset's mean monthly charge.
const (
	SegmentLowRiskHighValue  = "Low Risk, High Value"
	SegmentLowRiskLowValue   = "Low Risk, Low Value"
	SegmentHighRiskHighValue = "High Risk, High Value"
	SegmentHighRiskLowValue  = "High Risk, Low Value"
)

// Build aggregates the scored dataset in a single pass, in input order, so
// re-running on the same input yields identical results. It also assigns the
// risk/value segment to each customer; the returned slice is a copy, the
// input is not mutated. The snapshot id is assigned by the store on save.
func Build(
	owner string,
	createdAt time.Time,
	customers []domain.ScoredCustomer,
) (domain.Snapshot, []domain.ScoredCustomer) {
	snap := domain.Snapshot{
		Owner:          owner,
		CreatedAt:      createdAt,
		TotalCustomers: len(customers),
	}

	churning := 0
	for _, c := range customers {
		snap.TotalMonthlyRevenue += c.MonthlyCharges
		if c.Tier.AtRisk() {
			snap.RevenueAtRisk += c.MonthlyCharges
		}
		if c.Tier.Churning() {
			churning++
		}
		switch c.Tier {
		case domain.TierLow:
			snap.Tiers.Low++
		case domain.TierMedium:
			snap.Tiers.Medium++
		case domain.TierHigh:
			snap.Tiers.High++
		case domain.TierCritical:
			snap.Tiers.Critical++
		}
	}

	if snap.TotalCustomers > 0 {
		snap.ChurnRate = float64(churning) / float64(snap.TotalCustomers)
	}

	meanCharge := 0.0
	if snap.TotalCustomers > 0 {
		meanCharge = snap.TotalMonthlyRevenue / float64(snap.TotalCustomers)
	}

	segmented := make([]domain.ScoredCustomer, len(customers))
	for i, c := range customers {
		c.Segment = segmentFor(c, meanCharge)
		segmented[i] = c
	}

	return snap, segmented
}

func segmentFor(c domain.ScoredCustomer, meanCharge float64) string {
	highRisk := c.Tier.AtRisk()
	highValue := c.MonthlyCharges >= meanCharge
	switch {
	case highRisk && highValue:
		return SegmentHighRiskHighValue
	case highRisk:
		return SegmentHighRiskLowValue
	case highValue:
		return SegmentLowRiskHighValue
	default:
		return SegmentLowRiskLowValue
	}
}
