package renderer

import (
	"fmt"
	"sort"
	"strings"
	"text/template"

	"github.com/etnz/depot"
)

// AnalysisSummary is a struct to represent a set of research notes in json.
type AnalysisSummary struct {
	Rows []AnalysisRow `json:"rows"`
}

// AnalysisRow represents the extracted fields of one research note.
type AnalysisRow struct {
	Ticker         string        `json:"ticker"`
	Recommendation string        `json:"recommendation"`
	CurrentPrice   float64       `json:"currentPrice,omitempty"`
	IntrinsicValue float64       `json:"intrinsicValue,omitempty"`
	MarginOfSafety depot.Percent `json:"marginOfSafety,omitempty"`
	Method         string        `json:"method,omitempty"`
}

// NewAnalysisSummary creates a new AnalysisSummary from loaded research
// notes, sorted by ticker.
func NewAnalysisSummary(analyses map[string]*depot.Analysis) *AnalysisSummary {
	s := &AnalysisSummary{Rows: make([]AnalysisRow, 0, len(analyses))}
	for _, a := range analyses {
		s.Rows = append(s.Rows, AnalysisRow{
			Ticker:         a.Ticker,
			Recommendation: a.Recommendation,
			CurrentPrice:   a.PriceTargets.CurrentPrice,
			IntrinsicValue: a.PriceTargets.IntrinsicValue,
			MarginOfSafety: a.PriceTargets.MarginOfSafety,
			Method:         a.PriceTargets.ValuationMethod,
		})
	}
	sort.Slice(s.Rows, func(i, j int) bool { return s.Rows[i].Ticker < s.Rows[j].Ticker })
	return s
}

// analysisMarkdownTemplate is the template for rendering an AnalysisSummary in Markdown.
const analysisMarkdownTemplate = `# Research Notes

| Ticker | Recommendation | Price | Intrinsic Value | Margin of Safety | Method |
|:---|:---|---:|---:|---:|:---|
{{- range .Rows }}
| {{ .Ticker }} | {{ .Recommendation }} | {{ printf "%.2f" .CurrentPrice }} | {{ printf "%.2f" .IntrinsicValue }} | {{ .MarginOfSafety }} | {{ .Method }} |
{{- end }}
`

// RenderAnalysisSummary renders the AnalysisSummary struct to a markdown string using a text/template.
func RenderAnalysisSummary(s *AnalysisSummary) string {
	tmpl := template.Must(template.New("analysis").Parse(analysisMarkdownTemplate))
	var b strings.Builder
	if err := tmpl.Execute(&b, s); err != nil {
		return fmt.Sprintf("Error executing template: %v", err)
	}
	return b.String()
}
