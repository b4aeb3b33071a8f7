package scoring

import (
	"context"

	"github.com/de-tools/churn-scope/pkg/models/domain"
)

// HeuristicScorer is the dashboard's offline fallback model. It never fails,
// which makes it useful for scoring datasets without a live prediction
// service and for deterministic tests.
type HeuristicScorer struct{}

func NewHeuristicScorer() *HeuristicScorer {
	return &HeuristicScorer{}
}

func (s *HeuristicScorer) ScoreBatch(
	_ context.Context,
	records []domain.CustomerRecord,
) ([]domain.ScoredCustomer, error) {
	result := make([]domain.ScoredCustomer, 0, len(records))
	for _, rec := range records {
		result = append(result, scored(rec, heuristicProbability(rec)))
	}
	return result, nil
}

func heuristicProbability(rec domain.CustomerRecord) float64 {
	p := 0.2
	if rec.Contract == domain.ContractMonthToMonth {
		p += 0.3
	}
	if rec.TenureMonths < 12 {
		p += 0.2
	}
	if rec.InternetService == "Fiber optic" {
		p += 0.1
	}
	if rec.PaymentMethod == "Electronic check" {
		p += 0.1
	}
	if p > 0.95 {
		p = 0.95
	}
	return p
}
