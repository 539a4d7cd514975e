package depot

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// An Analysis is the structured content of one LLM-written research note,
// one markdown file per ticker.
type Analysis struct {
	Ticker         string
	Recommendation string
	Rating         Rating
	Summary        string
	Strengths      []string
	Weaknesses     []string
	PriceTargets   PriceTargets
	Rationale      string
	// Raw keeps the full markdown for rendering and prompting.
	Raw string
}

// PriceTargets are the valuation figures of a research note.
type PriceTargets struct {
	CurrentPrice    float64
	IntrinsicValue  float64
	MarginOfSafety  Percent
	ValuationMethod string
}

var (
	recommendationRe = regexp.MustCompile(`(?mi)^(?:#{1,2}\s*)?Recommendation:?\s*(.+)$`)
	listItemRe       = regexp.MustCompile(`(?m)^[-*]\s*(.+)$`)
	currentPriceRe   = regexp.MustCompile(`(?i)Current Price:?\s*\**\s*[$€£¥]?\s*([0-9][0-9.,]*)`)
	intrinsicRe      = regexp.MustCompile(`(?i)Intrinsic Value:?\s*\**\s*[$€£¥]?\s*([0-9][0-9.,]*)`)
	marginRe         = regexp.MustCompile(`(?i)Margin of Safety:?\s*\**\s*([+-]?[0-9][0-9.,]*)\s*%`)
	methodRe         = regexp.MustCompile(`(?i)Valuation Methods?:?\s*\**\s*(.+)`)
)

// ParseAnalysis extracts the structured fields of a research note. Notes are
// LLM output, so the structure is advisory: every extraction degrades to the
// zero value when its section or line is missing, and the recommendation
// falls back to a document-wide scan.
func ParseAnalysis(md string) *Analysis {
	a := &Analysis{Raw: md}
	sections := markdownSections(md)

	for title, body := range sections {
		switch {
		case strings.Contains(title, "recommendation"):
			a.Recommendation = firstLine(body)
		case strings.Contains(title, "summary"):
			a.Summary = strings.TrimSpace(body)
		case strings.Contains(title, "strength"):
			a.Strengths = listItems(body)
		case strings.Contains(title, "weakness"), strings.Contains(title, "risk"):
			a.Weaknesses = listItems(body)
		case strings.Contains(title, "rationale"):
			a.Rationale = strings.TrimSpace(body)
		}
	}

	if a.Recommendation == "" {
		if m := recommendationRe.FindStringSubmatch(md); m != nil {
			a.Recommendation = strings.TrimSpace(m[1])
		}
	}
	a.Recommendation = normalizeRecommendation(a.Recommendation)
	a.Rating = ClassifyRecommendation(a.Recommendation)

	if m := currentPriceRe.FindStringSubmatch(md); m != nil {
		a.PriceTargets.CurrentPrice = plainFloat(m[1])
	}
	if m := intrinsicRe.FindStringSubmatch(md); m != nil {
		a.PriceTargets.IntrinsicValue = plainFloat(m[1])
	}
	if m := marginRe.FindStringSubmatch(md); m != nil {
		a.PriceTargets.MarginOfSafety = Percent(plainFloat(m[1]))
	}
	if m := methodRe.FindStringSubmatch(md); m != nil {
		a.PriceTargets.ValuationMethod = strings.TrimSpace(strings.Trim(m[1], "* "))
	}
	return a
}

// markdownSections splits a note into heading-titled sections. Titles are
// lowercased; the body is the source text between a heading and the next one.
func markdownSections(md string) map[string]string {
	content := []byte(md)
	root := goldmark.DefaultParser().Parse(text.NewReader(content))

	type section struct {
		title string
		start int
	}
	var heads []section

	ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		h, ok := n.(*ast.Heading)
		if !ok || h.Lines().Len() == 0 {
			return ast.WalkContinue, nil
		}
		seg := h.Lines().At(0)
		heads = append(heads, section{
			title: strings.ToLower(strings.TrimSpace(string(seg.Value(content)))),
			start: seg.Stop,
		})
		return ast.WalkContinue, nil
	})

	sections := make(map[string]string, len(heads))
	for i, h := range heads {
		stop := len(md)
		if i+1 < len(heads) {
			// The next heading line starts before its segment; back up to the
			// preceding newline so the '#' markers stay out of this body.
			next := strings.LastIndex(md[:heads[i+1].start], "\n#")
			if next >= h.start {
				stop = next
			}
		}
		if _, dup := sections[h.title]; !dup {
			sections[h.title] = md[h.start:stop]
		}
	}
	return sections
}

func firstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		if t := strings.TrimSpace(strings.Trim(line, "* ")); t != "" {
			return t
		}
	}
	return ""
}

func listItems(s string) []string {
	var items []string
	for _, m := range listItemRe.FindAllStringSubmatch(s, -1) {
		if t := strings.TrimSpace(m[1]); t != "" {
			items = append(items, t)
		}
	}
	return items
}

// plainFloat parses a US formatted number, dropping thousands commas.
func plainFloat(s string) float64 {
	v, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(s), ",", ""), 64)
	if err != nil {
		return 0
	}
	return v
}

// normalizeRecommendation collapses a free-form recommendation line to its
// canonical keyword, keeping the raw text only when no keyword matches.
func normalizeRecommendation(s string) string {
	u := strings.ToUpper(strings.TrimSpace(s))
	switch {
	case strings.Contains(u, "STRONG BUY"):
		return "STRONG BUY"
	case strings.Contains(u, "BUY"):
		return "BUY"
	case strings.Contains(u, "STRONG SELL"):
		return "STRONG SELL"
	case strings.Contains(u, "SELL"):
		return "SELL"
	case strings.Contains(u, "HOLD"):
		return "HOLD"
	case u == "":
		return "HOLD"
	}
	return strings.TrimSpace(s)
}

// LoadAnalyses reads all research notes of a directory, one "<ticker>.md"
// per file. Underscores in file names stand for periods ("BRK_B.md" holds
// BRK.B) because periods clash with the extension separator.
func LoadAnalyses(dir string) (map[string]*Analysis, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.md"))
	if err != nil {
		return nil, fmt.Errorf("cannot scan analysis dir %q: %w", dir, err)
	}
	analyses := make(map[string]*Analysis)
	for _, file := range files {
		content, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("cannot read analysis %q: %w", file, err)
		}
		ticker := strings.TrimSuffix(filepath.Base(file), ".md")
		ticker = strings.ReplaceAll(ticker, "_", ".")
		a := ParseAnalysis(string(content))
		a.Ticker = ticker
		analyses[ticker] = a
	}
	return analyses, nil
}

// Recommendations projects loaded analyses to the ticker→recommendation map
// the rebalancer consumes.
func Recommendations(analyses map[string]*Analysis) map[string]string {
	recs := make(map[string]string, len(analyses))
	for ticker, a := range analyses {
		recs[ticker] = a.Recommendation
	}
	return recs
}
