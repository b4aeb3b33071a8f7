// Package retention ranks at-risk customers into priority tiers with
// recommended actions.
package retention

import (
	"sort"

	"github.com/de-tools/churn-scope/pkg/models/domain"
)

// Rank orders at-risk customers by descending churn probability, ties broken
// by ascending customer id so the output is deterministic. Low-risk
// customers never appear in the plan.
func Rank(customers []domain.ScoredCustomer, policy ActionPolicy) domain.RetentionPlan {
	plan := domain.RetentionPlan{Actions: make([]domain.RetentionAction, 0, len(customers))}

	for _, c := range customers {
		priority, ok := priorityFor(c.Tier)
		if !ok {
			continue
		}
		plan.Actions = append(plan.Actions, domain.RetentionAction{
			Customer: c,
			Priority: priority,
			Action:   policy.Action(priority, c.Contract, DominantService(c.CustomerRecord)),
		})
		switch priority {
		case domain.PriorityCritical:
			plan.Counts.Critical++
		case domain.PriorityHigh:
			plan.Counts.High++
		case domain.PriorityMedium:
			plan.Counts.Medium++
		}
	}

	sort.Slice(plan.Actions, func(i, j int) bool {
		a, b := plan.Actions[i], plan.Actions[j]
		if a.Customer.ChurnProbability != b.Customer.ChurnProbability {
			return a.Customer.ChurnProbability > b.Customer.ChurnProbability
		}
		return a.Customer.ID < b.Customer.ID
	})

	return plan
}

func priorityFor(tier domain.RiskTier) (domain.Priority, bool) {
	switch tier {
	case domain.TierCritical:
		return domain.PriorityCritical, true
	case domain.TierHigh:
		return domain.PriorityHigh, true
	case domain.TierMedium:
		return domain.PriorityMedium, true
	default:
		return "", false
	}
}
