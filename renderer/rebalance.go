package renderer

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/etnz/depot"
)

// RebalanceReport is a struct to represent a rebalancing proposal in json.
// Numbers are handled using the exact types (Money, Percent) so that they
// already contain basic renderers (SignedString etc.)
type RebalanceReport struct {
	// Date of the underlying statement.
	Date string `json:"date"`
	// TotalValue is the depot total the percentages refer to.
	TotalValue depot.Money `json:"totalValue"`
	// Changes, biggest move first.
	Changes []RebalanceChange `json:"changes"`
	// Buys and Sells are the action items, in change order.
	Buys  []RebalanceChange `json:"buys"`
	Sells []RebalanceChange `json:"sells"`
}

// RebalanceChange represents a single proposed move.
type RebalanceChange struct {
	Ticker         string        `json:"ticker"`
	Recommendation string        `json:"recommendation,omitempty"`
	Current        depot.Percent `json:"current"`
	Target         depot.Percent `json:"target"`
	Change         depot.Percent `json:"change"`
	Value          depot.Money   `json:"value"`
}

// NewRebalanceReport creates a new RebalanceReport from a rebalancing run.
func NewRebalanceReport(date string, r *depot.Rebalance) *RebalanceReport {
	report := &RebalanceReport{
		Date:       date,
		TotalValue: r.TotalValue,
		Changes:    make([]RebalanceChange, 0, len(r.Changes)),
	}
	for _, c := range r.Changes {
		change := RebalanceChange{
			Ticker:         c.Ticker,
			Recommendation: c.Recommendation,
			Current:        c.Current,
			Target:         c.Target,
			Change:         c.Change,
			Value:          c.Value,
		}
		report.Changes = append(report.Changes, change)
		switch {
		case c.Value.IsPositive():
			report.Buys = append(report.Buys, change)
		case c.Value.IsNegative():
			report.Sells = append(report.Sells, change)
		}
	}
	return report
}

// rebalanceMarkdownTemplate is the template for rendering a RebalanceReport in Markdown.
const rebalanceMarkdownTemplate = `# Rebalancing Proposal on {{ .Date }}

Total Depot Value: **{{ .TotalValue }}**

{{- if .Changes }}

## Allocation Changes

| Ticker | Recommendation | Current | Target | Change | Amount |
|:---|:---|---:|---:|---:|---:|
{{- range .Changes }}
| {{ .Ticker }} | {{ .Recommendation }} | {{ .Current }} | {{ .Target }} | {{ .Change.SignedString }} | {{ .Value.SignedString }} |
{{- end }}
{{- end -}}

{{- if .Buys }}

## Buy

{{- range .Buys }}
- {{ .Ticker }}: buy {{ .Value }} to move from {{ .Current }} to {{ .Target }}
{{- end }}
{{- end -}}

{{- if .Sells }}

## Sell

{{- range .Sells }}
- {{ .Ticker }}: sell {{ .Value.Abs }} to move from {{ .Current }} to {{ .Target }}
{{- end }}
{{- end }}

Targets are heuristic, derived from the recommendation labels. Review each
move before trading.
`

// RenderRebalance renders the RebalanceReport struct to a markdown string using a text/template.
func RenderRebalance(r *RebalanceReport) string {
	tmpl := template.Must(template.New("rebalance").Parse(rebalanceMarkdownTemplate))
	var b strings.Builder
	if err := tmpl.Execute(&b, r); err != nil {
		return fmt.Sprintf("Error executing template: %v", err)
	}
	return b.String()
}
