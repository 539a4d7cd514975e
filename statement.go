package depot

import (
	"github.com/etnz/depot/date"
)

// A Statement is one point-in-time depot snapshot as exported by the broker.
// It is reconstructed from the source file on every read and never persisted
// as an object.
type Statement struct {
	// Summary holds the header lines of the semicolon dialect, keyed by the
	// text before the first delimiter. Values are float64 for EUR amounts and
	// percentages, plain trimmed strings otherwise.
	Summary map[string]any

	// Positions in statement order, including positions whose designation is
	// not resolvable to a ticker (resolution happens downstream).
	Positions []Position

	// Date of the statement, extracted from the summary (DD.MM.YYYY) or
	// defaulted to the parse day.
	Date date.Date
}

// Position is one holding line of a statement. Cells keep the header names of
// the source dialect; the accessors below bridge the German and English
// column names and coerce defensively.
type Position struct {
	fields map[string]any
}

// columnAliases maps the canonical (German) column name to the names it can
// carry in either statement dialect.
var columnAliases = map[string][]string{
	"Bezeichnung":          {"Bezeichnung", "Security"},
	"WKN":                  {"WKN"},
	"ISIN":                 {"ISIN"},
	"Stück/Nominale":       {"Stück/Nominale", "Shares"},
	"Einstandskurs":        {"Einstandskurs", "Purchase Price (EUR)"},
	"akt. Kurs":            {"akt. Kurs", "Current Price (EUR)"},
	"Einstandswert in EUR": {"Einstandswert in EUR", "Purchase Value (EUR)"},
	"Wert in EUR":          {"Wert in EUR", "Market Value (EUR)"},
	"Anteil im Depot":      {"Anteil im Depot", "Weight"},
}

// Get returns the raw cell for the canonical column name, trying all dialect
// aliases. The second return is false when no alias is present or the cell
// was empty.
func (p Position) Get(key string) (any, bool) {
	aliases, ok := columnAliases[key]
	if !ok {
		aliases = []string{key}
	}
	for _, a := range aliases {
		if v, ok := p.fields[a]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func (p Position) stringField(key string) string {
	v, ok := p.Get(key)
	if !ok {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

// Designation returns the raw security name as printed by the broker.
func (p Position) Designation() string { return p.stringField("Bezeichnung") }

// ISIN returns the position's ISIN, passthrough only.
func (p Position) ISIN() string { return p.stringField("ISIN") }

// WKN returns the position's WKN, passthrough only.
func (p Position) WKN() string { return p.stringField("WKN") }

// Shares returns the number of shares held.
func (p Position) Shares() Quantity {
	v, _ := p.Get("Stück/Nominale")
	return Q(LooseFloat(v))
}

// PurchasePrice returns the per-share purchase price.
func (p Position) PurchasePrice() Money {
	v, _ := p.Get("Einstandskurs")
	return EUR(LooseFloat(v))
}

// CurrentPrice returns the current per-share price.
func (p Position) CurrentPrice() Money {
	v, _ := p.Get("akt. Kurs")
	return EUR(LooseFloat(v))
}

// PurchaseValue returns the total purchase value as stated by the broker,
// not recomputed from shares and price, to match the broker's own rounding.
func (p Position) PurchaseValue() Money {
	v, _ := p.Get("Einstandswert in EUR")
	return EUR(LooseFloat(v))
}

// CurrentValue returns the current total value as stated by the broker.
func (p Position) CurrentValue() Money {
	v, _ := p.Get("Wert in EUR")
	return EUR(LooseFloat(v))
}

// Weight returns the position's share of the total depot value as stated by
// the broker. Weights across a statement should sum to roughly 100, but the
// broker figure is informative only and is not validated here.
func (p Position) Weight() Percent {
	v, _ := p.Get("Anteil im Depot")
	return Percent(LooseFloat(v))
}

// StatedTotal returns the total depot value printed in the statement summary,
// if any. The value may still be a string when the summary line could not be
// coerced; callers pass it through the rebalancer's own coercion.
func (s *Statement) StatedTotal() (any, bool) {
	for _, key := range []string{"Depotbestand in EUR", "Depotwert in EUR", "Gesamtwert in EUR"} {
		if v, ok := s.Summary[key]; ok {
			return v, true
		}
	}
	return nil, false
}
