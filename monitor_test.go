package depot

import "testing"

func monitorStatement() *Statement {
	return &Statement{Positions: []Position{
		{fields: map[string]any{
			"Bezeichnung":    "MICROSOFT    DL-,00000625",
			"Stück/Nominale": int64(60),
			"akt. Kurs":      410.20,
			"Wert in EUR":    24612.00,
		}},
		{fields: map[string]any{
			"Bezeichnung":    "MICROSOFT    DL-,00000625",
			"Stück/Nominale": int64(40),
			"akt. Kurs":      410.25,
			"Wert in EUR":    16410.00,
		}},
		{fields: map[string]any{
			"Bezeichnung":    "NVIDIA CORP.      DL-,001",
			"Stück/Nominale": int64(100),
			"akt. Kurs":      120.50,
			"Wert in EUR":    12050.00,
		}},
		{fields: map[string]any{
			"Bezeichnung":    "NOT A KNOWN SECURITY",
			"Stück/Nominale": int64(10),
			"akt. Kurs":      1.00,
			"Wert in EUR":    10.00,
		}},
	}}
}

func TestAggregateHoldings(t *testing.T) {
	holdings := AggregateHoldings(monitorStatement(), DefaultTickers())

	if got, want := len(holdings), 2; got != want {
		t.Fatalf("got %d holdings, want %d", got, want)
	}

	msft := holdings[0]
	if got, want := msft.Ticker, "MSFT"; got != want {
		t.Errorf("first holding = %q, want %q", got, want)
	}
	// Two broker lines collapse into one holding.
	if got, want := msft.Shares, Q(100); !got.Equal(want) {
		t.Errorf("MSFT shares = %v, want %v", got, want)
	}
	if got, want := msft.Value, EUR(41022.00); !got.Equal(want) {
		t.Errorf("MSFT value = %v, want %v", got, want)
	}
	// The first line's price wins over the second's.
	if got, want := msft.Price, EUR(410.20); !got.Equal(want) {
		t.Errorf("MSFT price = %v, want %v", got, want)
	}

	// Weights are recomputed from the aggregate total.
	total := 41022.00 + 12050.00
	if got, want := msft.Weight, Percent(41022.00/total*100); !got.Equal(want) {
		t.Errorf("MSFT weight = %v, want %v", got, want)
	}
	if got, want := holdings[1].Ticker, "NVDA"; got != want {
		t.Errorf("second holding = %q, want %q", got, want)
	}
}

func TestDetectAlerts(t *testing.T) {
	holdings := []Holding{
		{Ticker: "MSFT", Weight: 40, Price: EUR(410), PreviousPrice: EUR(440), PriceChange: -6.8, HasPrevious: true},
		{Ticker: "NVDA", Weight: 10, Price: EUR(100), PreviousPrice: EUR(120), PriceChange: -16.7, HasPrevious: true},
		{Ticker: "ALV", Weight: 10, Price: EUR(265), PreviousPrice: EUR(264), PriceChange: 0.4, HasPrevious: true},
		{Ticker: "GTLB", Weight: 5, Price: EUR(40), PriceChange: -50, HasPrevious: false},
	}

	alerts := DetectAlerts(holdings)

	byTicker := make(map[string][]Alert)
	for _, a := range alerts {
		byTicker[a.Ticker] = append(byTicker[a.Ticker], a)
	}

	// MSFT triggers both a drop alert and a concentration alert.
	if got, want := len(byTicker["MSFT"]), 2; got != want {
		t.Fatalf("MSFT got %d alerts, want %d", got, want)
	}
	if got, want := byTicker["MSFT"][0].Type, AlertBuy; got != want {
		t.Errorf("MSFT alert type = %q, want %q", got, want)
	}
	if got, want := byTicker["MSFT"][0].Severity, SeverityMedium; got != want {
		t.Errorf("MSFT drop severity = %q, want %q", got, want)
	}
	if got, want := byTicker["MSFT"][1].Type, AlertRisk; got != want {
		t.Errorf("MSFT alert type = %q, want %q", got, want)
	}

	// A drop beyond 10% is high severity.
	if got, want := len(byTicker["NVDA"]), 1; got != want {
		t.Fatalf("NVDA got %d alerts, want %d", got, want)
	}
	if got, want := byTicker["NVDA"][0].Severity, SeverityHigh; got != want {
		t.Errorf("NVDA drop severity = %q, want %q", got, want)
	}

	// Small moves and small weights stay quiet.
	if got := len(byTicker["ALV"]); got != 0 {
		t.Errorf("ALV got %d alerts, want none", got)
	}
	// Without a previous close, no drop alert can fire.
	if got := len(byTicker["GTLB"]); got != 0 {
		t.Errorf("GTLB got %d alerts, want none", got)
	}
}
