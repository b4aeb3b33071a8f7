package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/template"

	"github.com/de-tools/churn-scope/pkg/models/domain"
)

type TableConfig struct {
	IDWidth       int
	ValueWidth    int
	PriorityWidth int
	ActionWidth   int
}

func DefaultTableConfig() TableConfig {
	return TableConfig{
		IDWidth:       14,
		ValueWidth:    12,
		PriorityWidth: 10,
		ActionWidth:   54,
	}
}

type Reporter struct {
	writer io.Writer
	config TableConfig
}

func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{
		writer: writer,
		config: DefaultTableConfig(),
	}
}

const snapshotTmpl = `
Snapshot {{.ID}} (owner: {{.Owner}})

Created:            {{.CreatedAt.Format "2006-01-02 15:04:05"}}
Total Customers:    {{.TotalCustomers}}
Churn Rate:         {{printf "%.1f%%" (pct .ChurnRate)}}
Monthly Revenue:    {{printf "USD %.2f" .TotalMonthlyRevenue}}
Revenue at Risk:    {{printf "USD %.2f" .RevenueAtRisk}}
Risk Tiers:         low={{.Tiers.Low}} medium={{.Tiers.Medium}} high={{.Tiers.High}} critical={{.Tiers.Critical}}
`

func (r *Reporter) HandleSnapshot(snap domain.Snapshot) error {
	t, err := template.New("snapshot").Funcs(r.funcMap()).Parse(snapshotTmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}
	return t.Execute(r.writer, snap)
}

const historyTmpl = `
Snapshots for {{.Owner}} ({{len .Snapshots}} total, most recent first)
{{range .Snapshots}}
{{.CreatedAt.Format "2006-01-02 15:04"}}  {{.ID}}  customers={{.TotalCustomers}} churn={{printf "%.1f%%" (pct .ChurnRate)}} revenue={{printf "%.2f" .TotalMonthlyRevenue}}
{{- end}}
`

func (r *Reporter) HandleHistory(owner string, snapshots []domain.Snapshot) error {
	t, err := template.New("history").Funcs(r.funcMap()).Parse(historyTmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}
	return t.Execute(r.writer, struct {
		Owner     string
		Snapshots []domain.Snapshot
	}{Owner: owner, Snapshots: snapshots})
}

const comparisonTmpl = `
Comparison: {{.Baseline.ID}} -> {{.Target.ID}}{{if .LowConfidence}}  [low confidence: small sample]{{end}}

Customers:          {{signedInt .CustomerChange}}
Churn Rate:         {{printf "%+.2f pp" (pct .ChurnRateChange)}}
Monthly Revenue:    {{printf "%+.2f" .RevenueChange}}
Revenue at Risk:    {{printf "%+.2f" .RiskRevenueChange}}
Annual Profit/Loss: {{printf "%+.2f" .AnnualProfitLoss}}

Status: {{.Status}}
`

func (r *Reporter) HandleComparison(report domain.ComparisonReport) error {
	t, err := template.New("comparison").Funcs(r.funcMap()).Parse(comparisonTmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}
	return t.Execute(r.writer, report)
}

const retentionTmpl = `
Retention Plan: critical={{.Counts.Critical}} high={{.Counts.High}} medium={{.Counts.Medium}}

{{separator}}
{{formatRow "CustomerID" "Probability" "Priority" "Recommended Action"}}
{{separator}}
{{range .Actions}}{{formatRow .Customer.ID (prob .Customer.ChurnProbability) .Priority .Action}}
{{end}}{{separator}}
`

func (r *Reporter) HandleRetention(plan domain.RetentionPlan) error {
	t, err := template.New("retention").Funcs(r.funcMap()).Parse(retentionTmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}
	return t.Execute(r.writer, plan)
}

// WriteRetentionCSV exports the plan in the dashboard's download format.
func WriteRetentionCSV(w io.Writer, plan domain.RetentionPlan) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"CustomerID", "Contract", "Churn_Probability", "Priority", "Action"}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, a := range plan.Actions {
		record := []string{
			a.Customer.ID,
			string(a.Customer.Contract),
			strconv.FormatFloat(a.Customer.ChurnProbability, 'f', 4, 64),
			string(a.Priority),
			a.Action,
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write row for %s: %w", a.Customer.ID, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

func (r *Reporter) funcMap() template.FuncMap {
	return template.FuncMap{
		"pct": func(v float64) float64 { return v * 100 },
		"prob": func(v float64) string {
			return strconv.FormatFloat(v, 'f', 3, 64)
		},
		"signedInt": func(v int) string {
			return fmt.Sprintf("%+d", v)
		},
		"formatRow": func(id string, value interface{}, priority interface{}, action string) string {
			return fmt.Sprintf("| %-*s | %-*v | %-*v | %-*s |",
				r.config.IDWidth, id,
				r.config.ValueWidth, value,
				r.config.PriorityWidth, priority,
				r.config.ActionWidth, action)
		},
		"separator": func() string {
			return fmt.Sprintf("+%s+%s+%s+%s+",
				strings.Repeat("-", r.config.IDWidth+2),
				strings.Repeat("-", r.config.ValueWidth+2),
				strings.Repeat("-", r.config.PriorityWidth+2),
				strings.Repeat("-", r.config.ActionWidth+2))
		},
	}
}
