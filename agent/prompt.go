package agent

import (
	"fmt"
	"strings"

	"github.com/etnz/depot"
)

// CompanyPrompt builds the research prompt for one company. The requested
// section structure mirrors what depot.ParseAnalysis extracts, so the note
// written by the analyst feeds straight back into the toolchain.
func CompanyPrompt(info depot.TickerInfo, company *depot.Company, quote *depot.Quote) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Write a research note on %s (ticker %s", companyName(info, company), info.Ticker)
	if info.Exchange != "" {
		fmt.Fprintf(&b, " on %s", info.Exchange)
	}
	b.WriteString(").\n\n")

	if company != nil {
		fmt.Fprintf(&b, "Fundamental data:\n- Market cap: %.0f USD\n", company.MarketCapUSD)
		for _, s := range company.Statements {
			if !s.Value {
				continue
			}
			fmt.Fprintf(&b, "- [%s/%s] %s\n", s.Area, s.Severity, s.Description)
		}
		b.WriteString("\n")
	}
	if quote != nil {
		fmt.Fprintf(&b, "Latest quote: %.2f (open %.2f, high %.2f, low %.2f, previous close %.2f)\n\n",
			quote.Current, quote.Open, quote.High, quote.Low, quote.PreviousClose)
	}

	b.WriteString(`Structure the note with exactly these markdown sections:

## Recommendation

One label: STRONG BUY, BUY, HOLD, SELL or STRONG SELL.

## Summary

Two or three sentences on the investment case.

## Strengths

A bulleted list.

## Weaknesses

A bulleted list, include the main risks.

## Price Analysis

Current Price: $<value>
Intrinsic Value: $<value>
Margin of Safety: <value>%
Valuation Method: <method>

## Investment Rationale

The reasoning behind the recommendation, for a long-term investor.
`)
	return b.String()
}

func companyName(info depot.TickerInfo, company *depot.Company) string {
	if company != nil && company.Name != "" {
		return company.Name
	}
	return info.Ticker
}

// OptimizationPrompt builds the portfolio-wide prompt: the current holdings,
// the per-ticker research conclusions, and the constraints of a German
// private investor.
func OptimizationPrompt(holdings []depot.Holding, analyses map[string]*depot.Analysis) string {
	var b strings.Builder

	b.WriteString("Review and optimize the following stock depot.\n\n")
	b.WriteString("## Current Positions\n\n")
	b.WriteString("| Ticker | Name | Shares | Price | Value | Weight |\n")
	b.WriteString("|:---|:---|---:|---:|---:|---:|\n")
	for _, h := range holdings {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s |\n",
			h.Ticker, h.Name, h.Shares, h.Price, h.Value, h.Weight)
	}

	if len(analyses) > 0 {
		b.WriteString("\n## Research Conclusions\n\n")
		for _, h := range holdings {
			a, ok := analyses[h.Ticker]
			if !ok {
				continue
			}
			fmt.Fprintf(&b, "### %s: %s\n\n", a.Ticker, a.Recommendation)
			if a.Summary != "" {
				b.WriteString(a.Summary + "\n\n")
			}
			if a.PriceTargets.IntrinsicValue > 0 {
				fmt.Fprintf(&b, "Intrinsic value %.2f against price %.2f (margin of safety %s).\n\n",
					a.PriceTargets.IntrinsicValue, a.PriceTargets.CurrentPrice, a.PriceTargets.MarginOfSafety)
			}
		}
	}

	b.WriteString(`
## Constraints

The owner is a private investor in Germany:
- Capital gains are taxed at the flat Abgeltungsteuer rate; frequent churn is costly.
- Prefer accumulating positions over many small trades; transaction fees are per order.
- USD positions carry EUR/USD currency risk; call it out where it is material.
- Dividends from US holdings are subject to withholding tax; factor the net yield.

Propose a target allocation in percent, the concrete buy and sell orders to
reach it, and the reasoning per position. Flag any position above 15% of the
depot as a concentration risk.
`)
	return b.String()
}
