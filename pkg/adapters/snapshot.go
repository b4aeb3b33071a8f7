package adapters

import (
	"github.com/de-tools/churn-scope/pkg/models/api"
	"github.com/de-tools/churn-scope/pkg/models/domain"
	"github.com/de-tools/churn-scope/pkg/models/store"
)

func MapSnapshotDomainToApi(s domain.Snapshot) api.SnapshotSummary {
	return api.SnapshotSummary{
		Id:                  s.ID,
		Owner:               s.Owner,
		CreatedAt:           s.CreatedAt,
		TotalCustomers:      s.TotalCustomers,
		ChurnRate:           s.ChurnRate,
		TotalMonthlyRevenue: s.TotalMonthlyRevenue,
		RevenueAtRisk:       s.RevenueAtRisk,
		Tiers: api.TierDistribution{
			Low:      s.Tiers.Low,
			Medium:   s.Tiers.Medium,
			High:     s.Tiers.High,
			Critical: s.Tiers.Critical,
		},
	}
}

func MapSnapshotDomainToStore(s domain.Snapshot) store.Snapshot {
	return store.Snapshot{
		ID:                  s.ID,
		Owner:               s.Owner,
		CreatedAt:           s.CreatedAt,
		TotalCustomers:      s.TotalCustomers,
		ChurnRate:           s.ChurnRate,
		TotalMonthlyRevenue: s.TotalMonthlyRevenue,
		RevenueAtRisk:       s.RevenueAtRisk,
		TierLow:             s.Tiers.Low,
		TierMedium:          s.Tiers.Medium,
		TierHigh:            s.Tiers.High,
		TierCritical:        s.Tiers.Critical,
	}
}

func MapSnapshotStoreToDomain(s store.Snapshot) domain.Snapshot {
	return domain.Snapshot{
		ID:                  s.ID,
		Owner:               s.Owner,
		CreatedAt:           s.CreatedAt,
		TotalCustomers:      s.TotalCustomers,
		ChurnRate:           s.ChurnRate,
		TotalMonthlyRevenue: s.TotalMonthlyRevenue,
		RevenueAtRisk:       s.RevenueAtRisk,
		Tiers: domain.TierDistribution{
			Low:      s.TierLow,
			Medium:   s.TierMedium,
			High:     s.TierHigh,
			Critical: s.TierCritical,
		},
	}
}

func MapCustomerDomainToStore(snapshotID string, c domain.ScoredCustomer) store.Customer {
	return store.Customer{
		SnapshotID:       snapshotID,
		CustomerID:       c.ID,
		Gender:           c.Gender,
		SeniorCitizen:    c.SeniorCitizen,
		Partner:          c.Partner,
		Dependents:       c.Dependents,
		TenureMonths:     c.TenureMonths,
		PhoneService:     c.PhoneService,
		InternetService:  c.InternetService,
		TechSupport:      c.TechSupport,
		PaperlessBilling: c.PaperlessBilling,
		Contract:         string(c.Contract),
		PaymentMethod:    c.PaymentMethod,
		MonthlyCharges:   c.MonthlyCharges,
		TotalCharges:     c.TotalCharges,
		ChurnProbability: c.ChurnProbability,
		RiskTier:         string(c.Tier),
		Segment:          c.Segment,
	}
}

func MapCustomerStoreToDomain(c store.Customer) domain.ScoredCustomer {
	return domain.ScoredCustomer{
		CustomerRecord: domain.CustomerRecord{
			ID:               c.CustomerID,
			Gender:           c.Gender,
			SeniorCitizen:    c.SeniorCitizen,
			Partner:          c.Partner,
			Dependents:       c.Dependents,
			TenureMonths:     c.TenureMonths,
			PhoneService:     c.PhoneService,
			InternetService:  c.InternetService,
			TechSupport:      c.TechSupport,
			PaperlessBilling: c.PaperlessBilling,
			Contract:         domain.Contract(c.Contract),
			PaymentMethod:    c.PaymentMethod,
			MonthlyCharges:   c.MonthlyCharges,
			TotalCharges:     c.TotalCharges,
		},
		ChurnProbability: c.ChurnProbability,
		Tier:             domain.RiskTier(c.RiskTier),
		Segment:          c.Segment,
	}
}

func MapCustomerDomainToApi(c domain.ScoredCustomer) api.Customer {
	return api.Customer{
		Id:               c.ID,
		Gender:           c.Gender,
		SeniorCitizen:    c.SeniorCitizen,
		Partner:          c.Partner,
		Dependents:       c.Dependents,
		TenureMonths:     c.TenureMonths,
		PhoneService:     c.PhoneService,
		InternetService:  c.InternetService,
		TechSupport:      c.TechSupport,
		PaperlessBilling: c.PaperlessBilling,
		Contract:         string(c.Contract),
		PaymentMethod:    c.PaymentMethod,
		MonthlyCharges:   c.MonthlyCharges,
		TotalCharges:     c.TotalCharges,
		ChurnProbability: c.ChurnProbability,
		RiskTier:         string(c.Tier),
		Segment:          c.Segment,
	}
}
