package depot

import (
	"math"
	"testing"
)

// testStatement builds a statement with one position per
// (designation, weight percent, value) triple, in the given order.
func testStatement(positions ...[3]any) *Statement {
	s := &Statement{Summary: map[string]any{}}
	for _, p := range positions {
		s.Positions = append(s.Positions, Position{fields: map[string]any{
			"Bezeichnung":     p[0],
			"Anteil im Depot": p[1],
			"Wert in EUR":     p[2],
		}})
	}
	return s
}

func TestRebalanceEndToEnd(t *testing.T) {
	stmt := testStatement(
		[3]any{"MICROSOFT    DL-,00000625", 10.0, 10000.0},
		[3]any{"NVIDIA CORP.      DL-,001", 10.0, 10000.0},
	)
	recs := map[string]string{"MSFT": "BUY", "NVDA": "SELL"}

	r := DefaultRebalanceConfig().Rebalance(stmt, DefaultTickers(), recs, EUR(100000))

	// Each position is 10% of the depot. The buy is boosted to 15, the sell
	// reduced to 5, and normalization scales [15, 5] to [75, 25].
	if got, want := r.Targets["MSFT"], Percent(75); !got.Equal(want) {
		t.Errorf("MSFT target = %v, want %v", got, want)
	}
	if got, want := r.Targets["NVDA"], Percent(25); !got.Equal(want) {
		t.Errorf("NVDA target = %v, want %v", got, want)
	}

	if len(r.Changes) != 2 {
		t.Fatalf("got %d changes, want 2", len(r.Changes))
	}
	// The bigger move comes first.
	if got, want := r.Changes[0].Ticker, "MSFT"; got != want {
		t.Errorf("first change = %q, want %q", got, want)
	}
	if got, want := r.Changes[0].Change, Percent(65); !got.Equal(want) {
		t.Errorf("MSFT change = %v, want %v", got, want)
	}
	if got, want := r.Changes[1].Change, Percent(-15); !got.Equal(want) {
		t.Errorf("NVDA change = %v, want %v", got, want)
	}
	if got, want := r.Changes[0].Value, EUR(65000); !got.Equal(want) {
		t.Errorf("MSFT change value = %v, want %v", got, want)
	}
}

func TestRebalanceUsesStatedWeight(t *testing.T) {
	// The broker's stated weight is authoritative even when it disagrees
	// with value/total (rounding, cash in the depot, fallback totals): a
	// 10% position worth 5000 in a 100000 depot stays a 10% position.
	stmt := testStatement([3]any{"MSFT", 10.0, 5000.0})
	recs := map[string]string{"MSFT": "STRONG BUY"}

	r := DefaultRebalanceConfig().Rebalance(stmt, DefaultTickers(), recs, EUR(100000))
	if got, want := r.Current[0].Percent, Percent(10); !got.Equal(want) {
		t.Errorf("current percent = %v, want %v", got, want)
	}
	if got, want := r.Current[0].Value, EUR(5000); !got.Equal(want) {
		t.Errorf("current value = %v, want %v", got, want)
	}
	if got, want := r.Changes[0].Change, Percent(90); !got.Equal(want) {
		t.Errorf("change = %v, want %v", got, want)
	}
	if got, want := r.Changes[0].Value, EUR(90000); !got.Equal(want) {
		t.Errorf("change value = %v, want %v", got, want)
	}
}

func TestRebalancePreliminaryBoost(t *testing.T) {
	// A single strong buy at 10% is boosted to 15 before normalization; as
	// the only position it then normalizes to 100.
	stmt := testStatement([3]any{"MSFT", 10.0, 10000.0})
	recs := map[string]string{"MSFT": "STRONG BUY"}

	r := DefaultRebalanceConfig().Rebalance(stmt, DefaultTickers(), recs, EUR(100000))
	if got, want := r.Targets["MSFT"], Percent(100); !got.Equal(want) {
		t.Errorf("MSFT target = %v, want %v", got, want)
	}
}

func TestRebalanceTargetsSumTo100(t *testing.T) {
	stmt := testStatement(
		[3]any{"MSFT", 51.1, 41020.0},
		[3]any{"NVDA", 22.5, 18075.0},
		[3]any{"ALV", 26.4, 21232.0},
	)
	recs := map[string]string{"MSFT": "BUY", "NVDA": "HOLD", "ALV": "SELL"}

	r := DefaultRebalanceConfig().Rebalance(stmt, DefaultTickers(), recs, nil)
	var sum float64
	for _, target := range r.Targets {
		sum += float64(target)
	}
	if math.Abs(sum-100) > 1e-9 {
		t.Errorf("targets sum to %v, want 100", sum)
	}
}

func TestRebalanceSortOrder(t *testing.T) {
	// Weights and recommendations chosen to produce changes of magnitude
	// [small buy, large sell, tiny buy]; the output must order them by
	// magnitude descending.
	stmt := testStatement(
		[3]any{"MSFT", 10.0, 10000.0},
		[3]any{"NVDA", 60.0, 60000.0},
		[3]any{"ALV", 30.0, 30000.0},
	)
	recs := map[string]string{"NVDA": "SELL"}

	r := DefaultRebalanceConfig().Rebalance(stmt, DefaultTickers(), recs, EUR(100000))
	for i := 1; i < len(r.Changes); i++ {
		if r.Changes[i].Change.Abs() > r.Changes[i-1].Change.Abs() {
			t.Errorf("changes not sorted by magnitude: %v before %v",
				r.Changes[i-1].Change, r.Changes[i].Change)
		}
	}
	if got, want := r.Changes[0].Ticker, "NVDA"; got != want {
		t.Errorf("first change = %q, want %q", got, want)
	}
}

func TestRebalanceHoldPortfolioUnchanged(t *testing.T) {
	// All holds with weights summing to 100%: normalization is a no-op and
	// every change is zero.
	stmt := testStatement(
		[3]any{"MSFT", 60.0, 60000.0},
		[3]any{"NVDA", 40.0, 40000.0},
	)

	r := DefaultRebalanceConfig().Rebalance(stmt, DefaultTickers(), nil, EUR(100000))
	for _, c := range r.Changes {
		if !c.Change.Equal(0) {
			t.Errorf("%s change = %v, want 0", c.Ticker, c.Change)
		}
	}
}

func TestRebalanceDropsUnresolvable(t *testing.T) {
	stmt := testStatement(
		[3]any{"MSFT", 50.0, 50000.0},
		[3]any{"UNKNOWN SECURITY XY", 50.0, 50000.0},
	)

	r := DefaultRebalanceConfig().Rebalance(stmt, DefaultTickers(), nil, nil)
	if got, want := len(r.Changes), 1; got != want {
		t.Fatalf("got %d changes, want %d", got, want)
	}
	if got, want := r.Changes[0].Ticker, "MSFT"; got != want {
		t.Errorf("change ticker = %q, want %q", got, want)
	}
}

func TestRebalanceLastLineWins(t *testing.T) {
	stmt := testStatement(
		[3]any{"MSFT", 10.0, 10000.0},
		[3]any{"MICROSOFT    DL-,00000625", 20.0, 20000.0},
	)

	r := DefaultRebalanceConfig().Rebalance(stmt, DefaultTickers(), nil, EUR(100000))
	if got, want := len(r.Current), 1; got != want {
		t.Fatalf("got %d allocations, want %d", got, want)
	}
	if got, want := r.Current[0].Percent, Percent(20); !got.Equal(want) {
		t.Errorf("MSFT percent = %v, want %v", got, want)
	}
	if got, want := r.Current[0].Value, EUR(20000); !got.Equal(want) {
		t.Errorf("MSFT value = %v, want %v", got, want)
	}
}

func TestResolveTotal(t *testing.T) {
	cfg := DefaultRebalanceConfig()

	t.Run("explicit", func(t *testing.T) {
		stmt := testStatement([3]any{"MSFT", 1.0, 1000.0})
		if got, want := cfg.resolveTotal(stmt, "220.575,80 EUR"), EUR(220575.80); !got.Equal(want) {
			t.Errorf("got %v, want %v", got, want)
		}
	})
	t.Run("stated", func(t *testing.T) {
		stmt := testStatement([3]any{"MSFT", 1.0, 1000.0})
		stmt.Summary["Depotbestand in EUR"] = 50000.0
		if got, want := cfg.resolveTotal(stmt, nil), EUR(50000); !got.Equal(want) {
			t.Errorf("got %v, want %v", got, want)
		}
	})
	t.Run("summed", func(t *testing.T) {
		stmt := testStatement([3]any{"MSFT", 1.0, 1000.0}, [3]any{"NVDA", 2.0, 2000.0})
		if got, want := cfg.resolveTotal(stmt, nil), EUR(3000); !got.Equal(want) {
			t.Errorf("got %v, want %v", got, want)
		}
	})
	t.Run("fallback", func(t *testing.T) {
		stmt := testStatement()
		if got, want := cfg.resolveTotal(stmt, nil), cfg.FallbackTotal; !got.Equal(want) {
			t.Errorf("got %v, want %v", got, want)
		}
	})
}
