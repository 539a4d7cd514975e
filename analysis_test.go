package depot

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleAnalysis = `# Microsoft Corporation (MSFT)

## Recommendation

**STRONG BUY**

## Summary

Dominant cloud and productivity franchise with durable pricing power.

## Strengths

- Azure growth above 25% year over year
- Net cash balance sheet
- Recurring revenue above 90% of total

## Weaknesses

- Regulatory scrutiny in the EU
- Capex ramp compresses free cash flow

## Price Analysis

Current Price: $410.20
Intrinsic Value: $485.00
Margin of Safety: 15.4%
Valuation Method: Discounted cash flow

## Investment Rationale

The moat around enterprise software distribution remains intact.
`

func TestParseAnalysis(t *testing.T) {
	a := ParseAnalysis(sampleAnalysis)

	if got, want := a.Recommendation, "STRONG BUY"; got != want {
		t.Errorf("recommendation = %q, want %q", got, want)
	}
	if got, want := a.Rating, RatingBuy; got != want {
		t.Errorf("rating = %v, want %v", got, want)
	}
	if got, want := a.Summary, "Dominant cloud and productivity franchise with durable pricing power."; got != want {
		t.Errorf("summary = %q, want %q", got, want)
	}
	if got, want := len(a.Strengths), 3; got != want {
		t.Fatalf("got %d strengths, want %d", got, want)
	}
	if got, want := a.Strengths[0], "Azure growth above 25% year over year"; got != want {
		t.Errorf("strength = %q, want %q", got, want)
	}
	if got, want := len(a.Weaknesses), 2; got != want {
		t.Fatalf("got %d weaknesses, want %d", got, want)
	}
	if got, want := a.PriceTargets.CurrentPrice, 410.20; got != want {
		t.Errorf("current price = %v, want %v", got, want)
	}
	if got, want := a.PriceTargets.IntrinsicValue, 485.00; got != want {
		t.Errorf("intrinsic value = %v, want %v", got, want)
	}
	if got, want := a.PriceTargets.MarginOfSafety, Percent(15.4); !got.Equal(want) {
		t.Errorf("margin of safety = %v, want %v", got, want)
	}
	if got, want := a.PriceTargets.ValuationMethod, "Discounted cash flow"; got != want {
		t.Errorf("valuation method = %q, want %q", got, want)
	}
	if got, want := a.Rationale, "The moat around enterprise software distribution remains intact."; got != want {
		t.Errorf("rationale = %q, want %q", got, want)
	}
}

func TestParseAnalysisInlineRecommendation(t *testing.T) {
	// Notes without a dedicated section still carry a recommendation line.
	a := ParseAnalysis("Quick take on NVDA.\n\nRecommendation: Sell into strength\n")
	if got, want := a.Recommendation, "SELL"; got != want {
		t.Errorf("recommendation = %q, want %q", got, want)
	}
	if got, want := a.Rating, RatingSell; got != want {
		t.Errorf("rating = %v, want %v", got, want)
	}
}

func TestParseAnalysisEmpty(t *testing.T) {
	a := ParseAnalysis("")
	if got, want := a.Recommendation, "HOLD"; got != want {
		t.Errorf("recommendation = %q, want %q", got, want)
	}
	if got, want := a.Rating, RatingHold; got != want {
		t.Errorf("rating = %v, want %v", got, want)
	}
}

func TestLoadAnalyses(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"MSFT.md":  "## Recommendation\n\nBUY\n",
		"BRK_B.md": "## Recommendation\n\nHOLD\n",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	analyses, err := LoadAnalyses(dir)
	if err != nil {
		t.Fatalf("LoadAnalyses failed: %v", err)
	}
	if got, want := len(analyses), 2; got != want {
		t.Fatalf("got %d analyses, want %d", got, want)
	}
	if _, ok := analyses["MSFT"]; !ok {
		t.Errorf("MSFT analysis missing")
	}
	// Underscores in file names stand for periods in tickers.
	if _, ok := analyses["BRK.B"]; !ok {
		t.Errorf("BRK.B analysis missing")
	}

	recs := Recommendations(analyses)
	if got, want := recs["MSFT"], "BUY"; got != want {
		t.Errorf("MSFT recommendation = %q, want %q", got, want)
	}
}
