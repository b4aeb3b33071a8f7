package adapters

import (
	"github.com/de-tools/churn-scope/pkg/models/api"
	"github.com/de-tools/churn-scope/pkg/models/domain"
)

func MapComparisonDomainToApi(r domain.ComparisonReport) api.ComparisonReport {
	return api.ComparisonReport{
		Baseline:          MapSnapshotDomainToApi(r.Baseline),
		Target:            MapSnapshotDomainToApi(r.Target),
		CustomerChange:    r.CustomerChange,
		ChurnRateChange:   r.ChurnRateChange,
		RevenueChange:     r.RevenueChange,
		RiskRevenueChange: r.RiskRevenueChange,
		AnnualProfitLoss:  r.AnnualProfitLoss,
		Status:            string(r.Status),
		LowConfidence:     r.LowConfidence,
	}
}

func MapRetentionPlanDomainToApi(p domain.RetentionPlan) api.RetentionPlan {
	actions := make([]api.RetentionAction, 0, len(p.Actions))
	for _, a := range p.Actions {
		actions = append(actions, api.RetentionAction{
			CustomerId:       a.Customer.ID,
			Contract:         string(a.Customer.Contract),
			ChurnProbability: a.Customer.ChurnProbability,
			Priority:         string(a.Priority),
			Action:           a.Action,
		})
	}
	return api.RetentionPlan{
		Counts: api.PriorityCounts{
			Critical: p.Counts.Critical,
			High:     p.Counts.High,
			Medium:   p.Counts.Medium,
		},
		Actions: actions,
	}
}
