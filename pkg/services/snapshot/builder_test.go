package snapshot

import (
	"testing"
	"time"

	"github.com/de-tools/churn-scope/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scoredCustomer(id string, probability, monthly float64, tier domain.RiskTier) domain.ScoredCustomer {
	return domain.ScoredCustomer{
		CustomerRecord: domain.CustomerRecord{
			ID:             id,
			MonthlyCharges: monthly,
		},
		ChurnProbability: probability,
		Tier:             tier,
	}
}

func TestBuild(t *testing.T) {
	createdAt := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	customers := []domain.ScoredCustomer{
		scoredCustomer("A-1", 0.10, 20, domain.TierLow),
		scoredCustomer("A-2", 0.35, 40, domain.TierMedium),
		scoredCustomer("A-3", 0.55, 80, domain.TierHigh),
		scoredCustomer("A-4", 0.90, 100, domain.TierCritical),
	}

	t.Run("aggregates in one pass", func(t *testing.T) {
		snap, segmented := Build("acme", createdAt, customers)

		assert.Equal(t, "acme", snap.Owner)
		assert.Equal(t, createdAt, snap.CreatedAt)
		assert.Equal(t, 4, snap.TotalCustomers)
		assert.Equal(t, 240.0, snap.TotalMonthlyRevenue)
		assert.Equal(t, 180.0, snap.RevenueAtRisk)
		// medium + high + critical over total
		assert.Equal(t, 0.75, snap.ChurnRate)
		assert.Equal(t, domain.TierDistribution{Low: 1, Medium: 1, High: 1, Critical: 1}, snap.Tiers)
		require.Len(t, segmented, 4)
	})

	t.Run("assigns risk and value segments", func(t *testing.T) {
		_, segmented := Build("acme", createdAt, customers)

		// Mean charge is 60: A-1 and A-2 are low value, A-3 and A-4 high.
		assert.Equal(t, SegmentLowRiskLowValue, segmented[0].Segment)
		assert.Equal(t, SegmentLowRiskLowValue, segmented[1].Segment)
		assert.Equal(t, SegmentHighRiskHighValue, segmented[2].Segment)
		assert.Equal(t, SegmentHighRiskHighValue, segmented[3].Segment)
	})

	t.Run("does not mutate the input", func(t *testing.T) {
		_, _ = Build("acme", createdAt, customers)
		assert.Empty(t, customers[0].Segment)
	})

	t.Run("idempotent on identical input", func(t *testing.T) {
		first, _ := Build("acme", createdAt, customers)
		second, _ := Build("acme", createdAt, customers)
		assert.Equal(t, first, second)
	})

	t.Run("empty dataset has zero churn rate", func(t *testing.T) {
		snap, segmented := Build("acme", createdAt, nil)

		assert.Equal(t, 0, snap.TotalCustomers)
		assert.Equal(t, 0.0, snap.ChurnRate)
		assert.Equal(t, 0.0, snap.TotalMonthlyRevenue)
		assert.Empty(t, segmented)
	})
}
