package renderer

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/etnz/depot"
)

// Holdings is a struct to represent the statement content in json.
type Holdings struct {
	// Date of the statement.
	Date string `json:"date"`
	// TotalValue is the stated depot total, or the sum of positions when the
	// statement does not state one.
	TotalValue depot.Money `json:"totalValue"`
	// Positions in statement order.
	Positions []HoldingsPosition `json:"positions"`
}

// HoldingsPosition represents a single statement line.
type HoldingsPosition struct {
	Designation string         `json:"designation"`
	ISIN        string         `json:"isin,omitempty"`
	Shares      depot.Quantity `json:"shares"`
	Price       depot.Money    `json:"price"`
	Value       depot.Money    `json:"value"`
	Weight      depot.Percent  `json:"weight"`
}

// NewHoldings creates a new Holdings struct from a parsed statement.
func NewHoldings(s *depot.Statement) *Holdings {
	h := &Holdings{
		Date:      s.Date.String(),
		Positions: make([]HoldingsPosition, 0, len(s.Positions)),
	}

	var sum depot.Money
	for _, p := range s.Positions {
		value := p.CurrentValue()
		sum = sum.Add(value)
		h.Positions = append(h.Positions, HoldingsPosition{
			Designation: p.Designation(),
			ISIN:        p.ISIN(),
			Shares:      p.Shares(),
			Price:       p.CurrentPrice(),
			Value:       value,
			Weight:      p.Weight(),
		})
	}

	if stated, ok := s.StatedTotal(); ok {
		h.TotalValue = depot.EUR(depot.LooseFloat(stated))
	} else {
		h.TotalValue = sum
	}
	return h
}

// holdingsMarkdownTemplate is the template for rendering a Holdings report in Markdown.
const holdingsMarkdownTemplate = `# Depot Statement on {{ .Date }}

Total Depot Value: **{{ .TotalValue }}**

{{- if .Positions }}

| Security | ISIN | Shares | Price | Value | Weight |
|:---|:---|---:|---:|---:|---:|
{{- range .Positions }}
| {{ .Designation }} | {{ .ISIN }} | {{ .Shares }} | {{ .Price }} | {{ .Value }} | {{ .Weight }} |
{{- end }}
{{- end }}
`

// RenderHoldings renders the Holdings struct to a markdown string using a text/template.
func RenderHoldings(h *Holdings) string {
	tmpl := template.Must(template.New("holdings").Parse(holdingsMarkdownTemplate))
	var b strings.Builder
	if err := tmpl.Execute(&b, h); err != nil {
		return fmt.Sprintf("Error executing template: %v", err)
	}
	return b.String()
}
