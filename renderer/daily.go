package renderer

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/etnz/depot"
)

// DailyReport is a struct to represent the daily monitor output in json.
type DailyReport struct {
	// Date of the monitored statement.
	Date string `json:"date"`
	// TotalValue of the aggregated holdings.
	TotalValue depot.Money `json:"totalValue"`
	// Holdings, one row per ticker.
	Holdings []DailyHolding `json:"holdings"`
	// Alerts raised by the monitor, may be empty.
	Alerts []DailyAlert `json:"alerts,omitempty"`
}

// DailyHolding represents one aggregated ticker row.
type DailyHolding struct {
	Ticker      string         `json:"ticker"`
	Name        string         `json:"name"`
	Shares      depot.Quantity `json:"shares"`
	Price       depot.Money    `json:"price"`
	Value       depot.Money    `json:"value"`
	Weight      depot.Percent  `json:"weight"`
	PriceChange string         `json:"priceChange,omitempty"`
}

// DailyAlert represents one monitor alert.
type DailyAlert struct {
	Severity string `json:"severity"`
	Ticker   string `json:"ticker"`
	Message  string `json:"message"`
	Action   string `json:"action"`
}

// NewDailyReport creates a new DailyReport from the monitor results.
func NewDailyReport(date string, holdings []depot.Holding, alerts []depot.Alert) *DailyReport {
	r := &DailyReport{
		Date:     date,
		Holdings: make([]DailyHolding, 0, len(holdings)),
	}
	for _, h := range holdings {
		row := DailyHolding{
			Ticker: h.Ticker,
			Name:   h.Name,
			Shares: h.Shares,
			Price:  h.Price,
			Value:  h.Value,
			Weight: h.Weight,
		}
		if h.HasPrevious {
			row.PriceChange = h.PriceChange.SignedString()
		}
		r.TotalValue = r.TotalValue.Add(h.Value)
		r.Holdings = append(r.Holdings, row)
	}
	for _, a := range alerts {
		r.Alerts = append(r.Alerts, DailyAlert{
			Severity: a.Severity,
			Ticker:   a.Ticker,
			Message:  a.Message,
			Action:   a.Action,
		})
	}
	return r
}

// dailyMarkdownTemplate is the template for rendering a DailyReport in Markdown.
const dailyMarkdownTemplate = `# Daily Depot Monitor on {{ .Date }}

Total Depot Value: **{{ .TotalValue }}**

{{- if .Alerts }}

## Alerts

{{- range .Alerts }}
- **{{ .Severity }}** {{ .Ticker }}: {{ .Message }}
  {{ .Action }}
{{- end }}
{{- end -}}

{{- if .Holdings }}

## Holdings

| Ticker | Name | Shares | Price | Change | Value | Weight |
|:---|:---|---:|---:|---:|---:|---:|
{{- range .Holdings }}
| {{ .Ticker }} | {{ .Name }} | {{ .Shares }} | {{ .Price }} | {{ if .PriceChange }}{{ .PriceChange }}{{ else }}-{{ end }} | {{ .Value }} | {{ .Weight }} |
{{- end }}
{{- end }}
`

// RenderDaily renders the DailyReport struct to a markdown string using a text/template.
func RenderDaily(r *DailyReport) string {
	tmpl := template.Must(template.New("daily").Parse(dailyMarkdownTemplate))
	var b strings.Builder
	if err := tmpl.Execute(&b, r); err != nil {
		return fmt.Sprintf("Error executing template: %v", err)
	}
	return b.String()
}
