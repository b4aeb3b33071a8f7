package retention

import "github.com/de-tools/churn-scope/pkg/models/domain"

// Dominant service attribute values, derived from the record's service flags.
const (
	ServiceFiber     = "Fiber optic"
	ServiceDSL       = "DSL"
	ServicePhoneOnly = "Phone only"
	ServiceNone      = "No services"
)

// ActionPolicy chooses the recommended intervention for an at-risk customer.
// It is business policy, kept as data behind this interface so the rule set
// can change without touching the ranking algorithm.
type ActionPolicy interface {
	Action(priority domain.Priority, contract domain.Contract, service string) string
}

// RuleKey addresses one entry in the policy table. An empty Service matches
// any service attribute for that (priority, contract) pair.
type RuleKey struct {
	Priority domain.Priority
	Contract domain.Contract
	Service  string
}

// TablePolicy looks actions up with a fallback chain: exact
// (priority, contract, service) first, then (priority, contract), then the
// priority default.
type TablePolicy struct {
	rules    map[RuleKey]string
	defaults map[domain.Priority]string
}

func NewTablePolicy(rules map[RuleKey]string, defaults map[domain.Priority]string) *TablePolicy {
	return &TablePolicy{rules: rules, defaults: defaults}
}

func (p *TablePolicy) Action(priority domain.Priority, contract domain.Contract, service string) string {
	if action, ok := p.rules[RuleKey{Priority: priority, Contract: contract, Service: service}]; ok {
		return action
	}
	if action, ok := p.rules[RuleKey{Priority: priority, Contract: contract}]; ok {
		return action
	}
	return p.defaults[priority]
}

// DefaultPolicy is the rule set shipped with the dashboard: escalate
// month-to-month fiber customers hardest, keep longer contracts on lighter
// touch.
func DefaultPolicy() *TablePolicy {
	rules := map[RuleKey]string{
		{domain.PriorityCritical, domain.ContractMonthToMonth, ServiceFiber}: "Offer contract upgrade discount and assign dedicated support",
		{domain.PriorityCritical, domain.ContractMonthToMonth, ""}:           "Offer contract upgrade discount",
		{domain.PriorityCritical, domain.ContractOneYear, ""}:                "Assign dedicated support contact",
		{domain.PriorityHigh, domain.ContractMonthToMonth, ""}:               "Schedule retention check-in call",
		{domain.PriorityHigh, domain.ContractOneYear, ""}:                    "Review pricing options",
		{domain.PriorityMedium, domain.ContractMonthToMonth, ServiceFiber}:   "Offer service quality review",
	}
	defaults := map[domain.Priority]string{
		domain.PriorityCritical: "Immediate outreach by account manager",
		domain.PriorityHigh:     "Schedule retention check-in call",
		domain.PriorityMedium:   "Include in next engagement campaign",
	}
	return NewTablePolicy(rules, defaults)
}

// DominantService reduces the record's service flags to the single attribute
// the policy table keys on.
func DominantService(rec domain.CustomerRecord) string {
	switch rec.InternetService {
	case ServiceFiber:
		return ServiceFiber
	case ServiceDSL:
		return ServiceDSL
	}
	if rec.PhoneService {
		return ServicePhoneOnly
	}
	return ServiceNone
}
