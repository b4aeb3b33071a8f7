// Package compare computes the financially-meaningful delta between two
// snapshots of the same customer base.
package compare

import (
	"context"

	"github.com/de-tools/churn-scope/pkg/models/domain"
)

// Settings contains configurable thresholds for comparison analysis.
type Settings struct {
	// MinSampleSize is the customer count below which a snapshot is too
	// small to compare with confidence (default: 30).
	MinSampleSize int
}

func DefaultSettings() Settings {
	return Settings{MinSampleSize: 30}
}

// SnapshotReader is the slice of the history service the engine needs.
type SnapshotReader interface {
	Get(ctx context.Context, id string) (domain.Snapshot, error)
}

type Engine struct {
	snapshots SnapshotReader
	settings  Settings
}

func NewEngine(snapshots SnapshotReader, settings Settings) *Engine {
	return &Engine{snapshots: snapshots, settings: settings}
}

// Compare loads both snapshots and reports target minus baseline. Input
// order is caller intent; the engine does not enforce chronology.
func (e *Engine) Compare(ctx context.Context, baselineID, targetID string) (domain.ComparisonReport, error) {
	baseline, err := e.snapshots.Get(ctx, baselineID)
	if err != nil {
		return domain.ComparisonReport{}, err
	}
	target, err := e.snapshots.Get(ctx, targetID)
	if err != nil {
		return domain.ComparisonReport{}, err
	}
	return Diff(baseline, target, e.settings), nil
}

// Diff is the pure comparison: identical inputs always produce identical
// reports. The annual profit/loss estimate annualizes both the revenue shift
// and the revenue-at-risk shift.
func Diff(baseline, target domain.Snapshot, settings Settings) domain.ComparisonReport {
	report := domain.ComparisonReport{
		Baseline:          baseline,
		Target:            target,
		CustomerChange:    target.TotalCustomers - baseline.TotalCustomers,
		ChurnRateChange:   target.ChurnRate - baseline.ChurnRate,
		RevenueChange:     target.TotalMonthlyRevenue - baseline.TotalMonthlyRevenue,
		RiskRevenueChange: target.RevenueAtRisk - baseline.RevenueAtRisk,
	}
	report.AnnualProfitLoss = report.RiskRevenueChange*12 + report.RevenueChange*12
	report.Status = classify(report.ChurnRateChange, report.AnnualProfitLoss)
	report.LowConfidence = baseline.TotalCustomers < settings.MinSampleSize ||
		target.TotalCustomers < settings.MinSampleSize
	return report
}

// classify partitions every (churn delta, profit/loss) combination into
// exactly one status: improved needs falling churn without an annualized
// loss, declined needs rising churn with a loss, everything else is stable.
func classify(churnRateChange, profitLoss float64) domain.ComparisonStatus {
	switch {
	case churnRateChange < 0 && profitLoss >= 0:
		return domain.StatusImproved
	case churnRateChange > 0 && profitLoss < 0:
		return domain.StatusDeclined
	default:
		return domain.StatusStable
	}
}
