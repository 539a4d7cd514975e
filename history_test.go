package depot

import (
	"path/filepath"
	"testing"

	"github.com/etnz/depot/date"
)

func testHistory(t *testing.T) *History {
	t.Helper()
	h, err := OpenHistory(filepath.Join(t.TempDir(), "depot", "history.db"))
	if err != nil {
		t.Fatalf("OpenHistory failed: %v", err)
	}
	t.Cleanup(func() { h.Close() })
	return h
}

func TestHistorySaveAndLastClose(t *testing.T) {
	h := testHistory(t)

	day1 := date.New(2026, 2, 27)
	day2 := date.New(2026, 2, 28)

	if err := h.SaveDay(day1, []Holding{
		{Ticker: "MSFT", Name: "Microsoft", Shares: Q(100), Price: EUR(400.00), Value: EUR(40000.00), Weight: 40},
	}); err != nil {
		t.Fatalf("SaveDay failed: %v", err)
	}
	if err := h.SaveDay(day2, []Holding{
		{Ticker: "MSFT", Name: "Microsoft", Shares: Q(100), Price: EUR(410.20), Value: EUR(41020.00), Weight: 41},
	}); err != nil {
		t.Fatalf("SaveDay failed: %v", err)
	}

	price, ok, err := h.LastClose("MSFT")
	if err != nil {
		t.Fatalf("LastClose failed: %v", err)
	}
	if !ok {
		t.Fatalf("LastClose found no row")
	}
	if want := EUR(410.20); !price.Equal(want) {
		t.Errorf("last close = %v, want %v", price, want)
	}

	if _, ok, err := h.LastClose("NVDA"); err != nil || ok {
		t.Errorf("LastClose for unknown ticker = (%v, %v), want no row", ok, err)
	}
}

func TestHistorySaveDayIsIdempotent(t *testing.T) {
	h := testHistory(t)

	day := date.New(2026, 2, 28)
	for _, price := range []float64{400.00, 410.20} {
		if err := h.SaveDay(day, []Holding{
			{Ticker: "MSFT", Name: "Microsoft", Shares: Q(100), Price: EUR(price), Value: EUR(price * 100), Weight: 41},
		}); err != nil {
			t.Fatalf("SaveDay failed: %v", err)
		}
	}

	days, prices, err := h.Closes("MSFT")
	if err != nil {
		t.Fatalf("Closes failed: %v", err)
	}
	if got, want := len(days), 1; got != want {
		t.Fatalf("got %d rows, want %d", got, want)
	}
	if want := EUR(410.20); !prices[0].Equal(want) {
		t.Errorf("price = %v, want %v", prices[0], want)
	}
}

func TestHistoryCompare(t *testing.T) {
	h := testHistory(t)

	if err := h.SaveDay(date.New(2026, 2, 27), []Holding{
		{Ticker: "MSFT", Name: "Microsoft", Shares: Q(100), Price: EUR(400.00), Value: EUR(40000.00), Weight: 40},
	}); err != nil {
		t.Fatalf("SaveDay failed: %v", err)
	}

	holdings := []Holding{
		{Ticker: "MSFT", Price: EUR(380.00)},
		{Ticker: "NVDA", Price: EUR(120.50)},
	}
	holdings, err := CompareWithHistory(holdings, h)
	if err != nil {
		t.Fatalf("CompareWithHistory failed: %v", err)
	}

	msft := holdings[0]
	if !msft.HasPrevious {
		t.Fatalf("MSFT should have a previous close")
	}
	if want := EUR(400.00); !msft.PreviousPrice.Equal(want) {
		t.Errorf("previous price = %v, want %v", msft.PreviousPrice, want)
	}
	if want := Percent(-5); !msft.PriceChange.Equal(want) {
		t.Errorf("price change = %v, want %v", msft.PriceChange, want)
	}

	if holdings[1].HasPrevious {
		t.Errorf("NVDA has no history and should have no previous close")
	}
}

func TestHistoryAlerts(t *testing.T) {
	h := testHistory(t)

	day := date.New(2026, 2, 28)
	alerts := []Alert{
		{Type: AlertBuy, Severity: SeverityHigh, Ticker: "NVDA", Message: "drop", Action: "review"},
	}
	if err := h.SaveAlerts(day, alerts); err != nil {
		t.Fatalf("SaveAlerts failed: %v", err)
	}
	// A second day's alerts append rather than replace.
	if err := h.SaveAlerts(day, alerts); err != nil {
		t.Fatalf("SaveAlerts failed: %v", err)
	}

	var n int
	if err := h.db.QueryRow(`SELECT COUNT(*) FROM alerts`).Scan(&n); err != nil {
		t.Fatal(err)
	}
	if got, want := n, 2; got != want {
		t.Errorf("got %d alerts, want %d", got, want)
	}
}
