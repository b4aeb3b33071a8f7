package scoring

import (
	"context"

	"github.com/de-tools/churn-scope/pkg/models/domain"
)

// Scorer turns validated customer records into scored customers. A scorer
// either scores the whole batch or fails it: partial results are never
// returned, so a snapshot can never be built on inconsistent scoring.
type Scorer interface {
	ScoreBatch(ctx context.Context, records []domain.CustomerRecord) ([]domain.ScoredCustomer, error)
}

// Tier cut points. These are the dashboard's probability bins and partition
// [0,1] completely: low [0,0.30), medium [0.30,0.50), high [0.50,0.70),
// critical [0.70,1].
const (
	tierMediumFrom   = 0.30
	tierHighFrom     = 0.50
	tierCriticalFrom = 0.70
)

// TierFor maps a churn probability to its risk tier. It is the single source
// of truth for the tier partition.
func TierFor(p float64) domain.RiskTier {
	switch {
	case p >= tierCriticalFrom:
		return domain.TierCritical
	case p >= tierHighFrom:
		return domain.TierHigh
	case p >= tierMediumFrom:
		return domain.TierMedium
	default:
		return domain.TierLow
	}
}

func scored(rec domain.CustomerRecord, probability float64) domain.ScoredCustomer {
	return domain.ScoredCustomer{
		CustomerRecord:   rec,
		ChurnProbability: probability,
		Tier:             TierFor(probability),
	}
}
