package depot

import (
	"fmt"
	"log"
)

// A Holding is one ticker-level line of the daily monitor. Unlike statement
// positions, holdings are aggregated: several broker lines of the same
// security collapse into one holding.
type Holding struct {
	Ticker string
	Name   string
	Shares Quantity
	// Price is the per-share price of the first statement line seen for this
	// ticker. Lines of the same security can differ slightly in price when
	// the broker snapshots them at different times; the first one wins.
	Price  Money
	Value  Money
	Weight Percent

	// PreviousPrice and PriceChange compare against the last stored close.
	// HasPrevious is false on the first day a ticker is seen.
	PreviousPrice Money
	PriceChange   Percent
	HasPrevious   bool
}

// AggregateHoldings collapses statement positions into per-ticker holdings,
// in first-seen statement order. Unresolvable designations are dropped with
// a warning, zero-share lines are skipped. Weights are recomputed from the
// aggregate, not taken from the broker columns.
func AggregateHoldings(stmt *Statement, tickers TickerTable) []Holding {
	var order []string
	byTicker := make(map[string]*Holding)

	for _, p := range stmt.Positions {
		designation := p.Designation()
		info, ok := tickers.Resolve(designation)
		if !ok {
			log.Printf("warning: no ticker known for %q, dropping position", designation)
			continue
		}
		shares := p.Shares()
		if shares.IsZero() {
			continue
		}
		h, seen := byTicker[info.Ticker]
		if !seen {
			h = &Holding{
				Ticker: info.Ticker,
				Name:   designation,
				Price:  p.CurrentPrice(),
			}
			byTicker[info.Ticker] = h
			order = append(order, info.Ticker)
		}
		h.Shares = h.Shares.Add(shares)
		h.Value = h.Value.Add(p.CurrentValue())
	}

	var total float64
	for _, ticker := range order {
		total += byTicker[ticker].Value.AsFloat()
	}

	holdings := make([]Holding, 0, len(order))
	for _, ticker := range order {
		h := byTicker[ticker]
		if total > 0 {
			h.Weight = Percent(h.Value.AsFloat() / total * 100)
		}
		holdings = append(holdings, *h)
	}
	return holdings
}

// Alert severities and types used by the daily monitor.
const (
	AlertBuy  = "BUY_OPPORTUNITY"
	AlertRisk = "CONCENTRATION_RISK"

	SeverityMedium = "MEDIUM"
	SeverityHigh   = "HIGH"
)

// An Alert is one actionable observation of the daily monitor.
type Alert struct {
	Type     string
	Severity string
	Ticker   string
	Message  string
	Action   string
}

// alert thresholds, in percent
const (
	dropAlert     = -5.0
	dropAlertHigh = -10.0
	weightAlert   = 15.0
)

// DetectAlerts scans holdings for price drops and concentration. A day-over-day
// drop beyond 5% is a buy opportunity (high severity beyond 10%); a weight
// above 15% of the depot is a concentration risk.
func DetectAlerts(holdings []Holding) []Alert {
	var alerts []Alert
	for _, h := range holdings {
		if h.HasPrevious && float64(h.PriceChange) < dropAlert {
			severity := SeverityMedium
			if float64(h.PriceChange) < dropAlertHigh {
				severity = SeverityHigh
			}
			alerts = append(alerts, Alert{
				Type:     AlertBuy,
				Severity: severity,
				Ticker:   h.Ticker,
				Message:  fmt.Sprintf("%s dropped %s since the last close (%s -> %s)", h.Ticker, h.PriceChange, h.PreviousPrice, h.Price),
				Action:   fmt.Sprintf("Review %s for a buying opportunity", h.Ticker),
			})
		}
		if float64(h.Weight) > weightAlert {
			alerts = append(alerts, Alert{
				Type:     AlertRisk,
				Severity: SeverityMedium,
				Ticker:   h.Ticker,
				Message:  fmt.Sprintf("%s is %s of the depot, above the %.0f%% concentration threshold", h.Ticker, h.Weight, weightAlert),
				Action:   fmt.Sprintf("Consider trimming %s to reduce concentration", h.Ticker),
			})
		}
	}
	return alerts
}

// CompareWithHistory fills the PreviousPrice, PriceChange and HasPrevious
// fields of each holding from the last close stored in the history database.
func CompareWithHistory(holdings []Holding, history *History) ([]Holding, error) {
	for i := range holdings {
		h := &holdings[i]
		previous, ok, err := history.LastClose(h.Ticker)
		if err != nil {
			return nil, fmt.Errorf("cannot read last close of %s: %w", h.Ticker, err)
		}
		if !ok || !previous.IsPositive() {
			continue
		}
		h.PreviousPrice = previous
		h.HasPrevious = true
		h.PriceChange = Percent((h.Price.AsFloat() - previous.AsFloat()) / previous.AsFloat() * 100)
	}
	return holdings, nil
}
