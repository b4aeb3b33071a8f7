package api

type ComparisonReport struct {
	Baseline          SnapshotSummary `json:"baseline"`
	Target            SnapshotSummary `json:"target"`
	CustomerChange    int             `json:"customer_change"`
	ChurnRateChange   float64         `json:"churn_rate_change"`
	RevenueChange     float64         `json:"revenue_change"`
	RiskRevenueChange float64         `json:"risk_revenue_change"`
	AnnualProfitLoss  float64         `json:"annual_profit_loss"`
	Status            string          `json:"status"`
	LowConfidence     bool            `json:"low_confidence"`
}
