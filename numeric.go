package depot

import (
	"fmt"
	"log"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// This file is the single home for locale-flexible numeric coercion. Broker
// statements print European amounts ("1.234,56 EUR"), LLM extractions hand
// back loosely typed strings, and both feed the same parsing funnel here.

var leadingNumberRe = regexp.MustCompile(`[+-]?[0-9][0-9.]*`)

// ParseEuroAmount parses a European formatted amount such as "220.575,80 EUR"
// or "1.234,56" into an exact decimal. Every character that is not a digit,
// comma or period is dropped first, then periods are treated as thousands
// separators and the comma as the decimal point.
func ParseEuroAmount(s string) (decimal.Decimal, error) {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' || r == ',' || r == '.' {
			b.WriteRune(r)
		}
	}
	cleaned := strings.ReplaceAll(b.String(), ".", "")
	cleaned = strings.ReplaceAll(cleaned, ",", ".")
	if cleaned == "" {
		return decimal.Zero, fmt.Errorf("no numeric content in %q", s)
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("cannot parse amount %q: %w", s, err)
	}
	return d, nil
}

// ParseDecimalComma parses a plain number that may use a comma as the decimal
// separator ("12,34", "+3,5", "12.34"). No thousands separators are handled;
// use ParseEuroAmount for full European amounts.
func ParseDecimalComma(s string) (float64, error) {
	cleaned := strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	cleaned = strings.TrimPrefix(cleaned, "+")
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("cannot parse number %q: %w", s, err)
	}
	return v, nil
}

// ParsePercentValue parses the leading signed numeric run of a percentage
// string ("+3,5%", "12.5 %") into its float value.
func ParsePercentValue(s string) (float64, error) {
	cleaned := strings.ReplaceAll(s, ",", ".")
	match := leadingNumberRe.FindString(cleaned)
	if match == "" {
		return 0, fmt.Errorf("no percent value in %q", s)
	}
	v, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0, fmt.Errorf("cannot parse percent %q: %w", s, err)
	}
	return v, nil
}

// LooseFloat defensively coerces a statement cell to a float. Cells keep
// whatever type the parser gave them, and downstream recommendation data may
// arrive as strings, so every numeric consumer re-parses here. Unparseable
// values become 0 with a logged warning, never an error.
func LooseFloat(v any) float64 {
	switch x := v.(type) {
	case nil:
		return 0
	case float64:
		return x
	case int64:
		return float64(x)
	case int:
		return float64(x)
	case string:
		if strings.Contains(x, "%") {
			p, err := ParsePercentValue(x)
			if err != nil {
				log.Printf("warning: cannot coerce %q to a number, using 0", x)
				return 0
			}
			return p
		}
		d, err := ParseEuroAmount(x)
		if err != nil {
			log.Printf("warning: cannot coerce %q to a number, using 0", x)
			return 0
		}
		f, _ := d.Float64()
		return f
	default:
		log.Printf("warning: cannot coerce %T value to a number, using 0", v)
		return 0
	}
}
