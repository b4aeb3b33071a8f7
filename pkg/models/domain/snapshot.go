package domain

import "time"

// TierDistribution counts customers per risk tier within one snapshot.
type TierDistribution struct {
	Low      int
	Medium   int
	High     int
	Critical int
}

// Snapshot is the immutable aggregate over one scored dataset at one point
// in time. ChurnRate is the fraction of customers at medium-or-above risk;
// it is 0 for an empty dataset.
type Snapshot struct {
	ID                  string
	Owner               string
	CreatedAt           time.Time
	TotalCustomers      int
	ChurnRate           float64
	TotalMonthlyRevenue float64
	RevenueAtRisk       float64
	Tiers               TierDistribution
}
