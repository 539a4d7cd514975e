package agent

import (
	"strings"
	"testing"

	"github.com/etnz/depot"
)

func TestCompanyPrompt(t *testing.T) {
	info := depot.TickerInfo{Ticker: "MSFT", Exchange: "NasdaqGS"}
	company := &depot.Company{
		Name:         "Microsoft",
		MarketCapUSD: 3.1e12,
		Statements: []depot.CompanyStatement{
			{Area: "HEALTH", Severity: "none", Description: "Net cash position", Value: true},
			{Area: "RISKS", Severity: "major", Description: "Should not appear", Value: false},
		},
	}
	quote := &depot.Quote{Current: 410.20, Open: 405, High: 412, Low: 404, PreviousClose: 408}

	prompt := CompanyPrompt(info, company, quote)

	for _, want := range []string{
		"Microsoft",
		"ticker MSFT on NasdaqGS",
		"Net cash position",
		"410.20",
		"## Recommendation",
		"## Price Analysis",
		"Intrinsic Value:",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt misses %q", want)
		}
	}
	if strings.Contains(prompt, "Should not appear") {
		t.Errorf("prompt contains a false statement")
	}

	// The requested structure must round-trip through the note parser.
	note := "## Recommendation\n\nBUY\n\n## Price Analysis\n\nCurrent Price: $410.20\nIntrinsic Value: $485.00\n"
	a := depot.ParseAnalysis(note)
	if a.Rating != depot.RatingBuy {
		t.Errorf("sample note in prompt structure does not parse: %v", a.Rating)
	}
}

func TestOptimizationPrompt(t *testing.T) {
	holdings := []depot.Holding{
		{Ticker: "MSFT", Name: "Microsoft", Shares: depot.Q(100), Price: depot.EUR(410.20), Value: depot.EUR(41020), Weight: 69.4},
	}
	analyses := map[string]*depot.Analysis{
		"MSFT": {Ticker: "MSFT", Recommendation: "STRONG BUY", Summary: "Durable moat.",
			PriceTargets: depot.PriceTargets{CurrentPrice: 410.20, IntrinsicValue: 485, MarginOfSafety: 15.4}},
	}

	prompt := OptimizationPrompt(holdings, analyses)

	for _, want := range []string{
		"## Current Positions",
		"| MSFT | Microsoft |",
		"### MSFT: STRONG BUY",
		"Durable moat.",
		"Abgeltungsteuer",
		"concentration risk",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt misses %q", want)
		}
	}
}
