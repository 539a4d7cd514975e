package depot

import (
	"log"
	"sort"
)

// RebalanceConfig tunes the heuristic target allocation.
type RebalanceConfig struct {
	// BuyBoost multiplies the current weight of positions rated buy.
	BuyBoost float64
	// SellReduction multiplies the current weight of positions rated sell.
	SellReduction float64
	// FallbackTotal is used when the statement neither states a total nor
	// carries summable position values.
	FallbackTotal Money
}

// DefaultRebalanceConfig returns the standard heuristic: buys grow by half,
// sells shrink by half, holds stay put.
func DefaultRebalanceConfig() RebalanceConfig {
	return RebalanceConfig{
		BuyBoost:      1.5,
		SellReduction: 0.5,
		FallbackTotal: EUR(220575.80),
	}
}

// Allocation is one position's current share of the depot.
type Allocation struct {
	Ticker string
	Name   string
	// Percent is the depot weight as the statement states it, not
	// recomputed from Value and the depot total.
	Percent        Percent
	Value          Money
	Recommendation string
}

// AllocationChange is the proposed move for one position.
type AllocationChange struct {
	Ticker         string
	Name           string
	Recommendation string
	Current        Percent
	Target         Percent
	Change         Percent
	// Value is the euro amount to move, positive for buys.
	Value Money
}

// Rebalance is the full result of a rebalancing run.
type Rebalance struct {
	TotalValue Money
	Current    []Allocation
	Targets    map[string]Percent
	Changes    []AllocationChange
}

// Rebalance computes target allocations for the statement's positions.
//
// Designations that the ticker table cannot resolve are dropped with a
// warning. When the same ticker appears on several statement lines, the last
// line wins. recs maps tickers to free-form recommendation strings; a ticker
// without a recommendation is treated as hold.
//
// explicitTotal overrides the depot total when non-nil; it accepts a Money,
// a number, or a European amount string. Otherwise the statement's stated
// total is used, then the sum of position values, then cfg.FallbackTotal.
// The stated-total tier covers the common case where callers would
// otherwise read the summary themselves and pass it explicitly.
func (cfg RebalanceConfig) Rebalance(stmt *Statement, tickers TickerTable, recs map[string]string, explicitTotal any) *Rebalance {
	total := cfg.resolveTotal(stmt, explicitTotal)

	// Collect positions in statement order, last line wins per ticker.
	var order []string
	byTicker := make(map[string]Allocation)
	for _, p := range stmt.Positions {
		designation := p.Designation()
		info, ok := tickers.Resolve(designation)
		if !ok {
			log.Printf("warning: no ticker known for %q, dropping position", designation)
			continue
		}
		if _, seen := byTicker[info.Ticker]; !seen {
			order = append(order, info.Ticker)
		}
		byTicker[info.Ticker] = Allocation{
			Ticker:  info.Ticker,
			Name:    designation,
			Percent: p.Weight(),
			Value:   p.CurrentValue(),
		}
	}

	r := &Rebalance{TotalValue: total, Targets: make(map[string]Percent)}

	// Heuristic targets before normalization.
	preliminary := make(map[string]float64, len(order))
	var sum float64
	for _, ticker := range order {
		a := byTicker[ticker]
		a.Recommendation = recs[ticker]
		byTicker[ticker] = a

		factor := 1.0
		switch ClassifyRecommendation(a.Recommendation) {
		case RatingBuy:
			factor = cfg.BuyBoost
		case RatingSell:
			factor = cfg.SellReduction
		}
		preliminary[ticker] = float64(a.Percent) * factor
		sum += preliminary[ticker]
		r.Current = append(r.Current, a)
	}

	// Normalize targets to 100%. A degenerate (zero) sum keeps the
	// preliminary values as they are.
	scale := 1.0
	if sum != 0 {
		scale = 100 / sum
	}
	for _, ticker := range order {
		target := Percent(preliminary[ticker] * scale)
		r.Targets[ticker] = target

		a := byTicker[ticker]
		change := target - a.Percent
		r.Changes = append(r.Changes, AllocationChange{
			Ticker:         ticker,
			Name:           a.Name,
			Recommendation: a.Recommendation,
			Current:        a.Percent,
			Target:         target,
			Change:         change,
			Value:          EUR(float64(change) / 100 * total.AsFloat()),
		})
	}

	// Biggest moves first; ties keep statement order.
	sort.SliceStable(r.Changes, func(i, j int) bool {
		return r.Changes[i].Change.Abs() > r.Changes[j].Change.Abs()
	})
	return r
}

// resolveTotal picks the depot total: explicit override, then the
// statement's stated total, then the sum of position values, then the
// configured fallback.
func (cfg RebalanceConfig) resolveTotal(stmt *Statement, explicit any) Money {
	if explicit != nil {
		if m, ok := explicit.(Money); ok {
			if m.IsPositive() {
				return m
			}
		} else if v := LooseFloat(explicit); v > 0 {
			return EUR(v)
		}
	}
	if stated, ok := stmt.StatedTotal(); ok {
		if v := LooseFloat(stated); v > 0 {
			return EUR(v)
		}
	}
	var sum float64
	for _, p := range stmt.Positions {
		sum += p.CurrentValue().AsFloat()
	}
	if sum > 0 {
		return EUR(sum)
	}
	log.Printf("warning: statement has no usable total, using fallback %s", cfg.FallbackTotal)
	return cfg.FallbackTotal
}
