package depot

import (
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/etnz/depot/date"
)

// This file decodes the two observed statement dialects:
//
//   - the German semicolon export, with up to ten summary lines
//     ("Depotbestand in EUR;220.575,80 EUR") before a
//     "Position;Bezeichnung;WKN;ISIN;..." header row,
//   - the English comma export with a "Security,ISIN,Shares,..." header row
//     and quoted fields (designations contain commas).
//
// Failure semantics: only an unreadable file is an error. A missing header
// yields a statement with zero positions, malformed lines and cells are
// skipped with a logged warning.

// disclaimerPrefix marks the legal boilerplate that ends the tabular section
// of the German export.
const disclaimerPrefix = "Diese Aufstellung"

var (
	intCellRe     = regexp.MustCompile(`^[+-]?\d+$`)
	floatCellRe   = regexp.MustCompile(`^[+-]?\d+[.,]\d+$`)
	germanDateRe  = regexp.MustCompile(`(\d{2}\.\d{2}\.\d{4})`)
	semicolonHead = "Position;Bezeichnung;WKN;ISIN"
)

// LoadStatement reads and decodes a statement file. An unreadable file is the
// only hard failure; every other problem degrades to a partial (possibly
// empty) statement.
func LoadStatement(path string) (*Statement, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read statement %q: %w", path, err)
	}
	return DecodeStatement(string(content)), nil
}

// DecodeStatement decodes statement content. It never fails: the worst case
// is a statement with an empty position list.
func DecodeStatement(content string) *Statement {
	lines := strings.Split(content, "\n")

	delim := detectDelimiter(lines)
	summary, day := extractSummary(lines, delim)

	s := &Statement{Summary: summary, Date: day}

	headerIdx := findHeaderLine(lines, delim)
	if headerIdx < 0 {
		log.Printf("error: no column header found in statement, returning empty position list")
		return s
	}

	headers := splitLine(lines[headerIdx], delim)
	for i := range headers {
		headers[i] = strings.TrimSpace(headers[i])
	}

	s.Positions = parsePositions(lines[headerIdx+1:], headers, delim)
	return s
}

// detectDelimiter applies the dialect heuristic: comma only when the first
// line contains a comma and no semicolon; ambiguous files default to
// semicolon.
func detectDelimiter(lines []string) string {
	if len(lines) > 0 && strings.Contains(lines[0], ",") && !strings.Contains(lines[0], ";") {
		return ","
	}
	return ";"
}

// extractSummary scans the first 10 lines of a semicolon statement for
// "key;value" pairs and coerces the values. The statement date is taken from
// the first summary value matching DD.MM.YYYY; without one, today is used.
func extractSummary(lines []string, delim string) (map[string]any, date.Date) {
	summary := make(map[string]any)
	day := date.Today()
	dated := false

	if delim != ";" {
		return summary, day
	}
	for i := 0; i < 10 && i < len(lines); i++ {
		if !strings.Contains(lines[i], delim) {
			continue
		}
		key, value, _ := strings.Cut(lines[i], delim)
		summary[key] = summaryValue(value)

		if dated {
			continue
		}
		if m := germanDateRe.FindString(value); m != "" {
			if d, err := parseGermanDate(m); err == nil {
				day = d
				dated = true
			}
		}
	}
	return summary, day
}

// summaryValue converts one summary cell: EUR amounts and percentages become
// float64, anything else stays a trimmed string.
func summaryValue(value string) any {
	value = strings.TrimSpace(value)
	switch {
	case strings.Contains(value, "EUR"):
		d, err := ParseEuroAmount(value)
		if err != nil {
			return value
		}
		f, _ := d.Float64()
		return f
	case strings.Contains(value, "%"):
		p, err := ParsePercentValue(value)
		if err != nil {
			return value
		}
		return p
	}
	return value
}

func parseGermanDate(s string) (date.Date, error) {
	parts := strings.Split(s, ".")
	if len(parts) != 3 {
		return date.Date{}, fmt.Errorf("invalid date %q", s)
	}
	return date.Parse(fmt.Sprintf("%s-%s-%s", parts[2], parts[1], parts[0]))
}

// findHeaderLine locates the row that starts the tabular section, or -1.
func findHeaderLine(lines []string, delim string) int {
	if delim == ";" {
		for i, line := range lines {
			if strings.HasPrefix(line, semicolonHead) {
				return i
			}
		}
	} else {
		for i, line := range lines {
			if strings.Contains(line, "Security") && strings.Contains(line, "ISIN") && strings.Contains(line, "Shares") {
				return i
			}
		}
	}
	// If no dialect header matches but line 0 looks delimited, use it.
	if len(lines) > 0 && strings.Contains(lines[0], delim) {
		return 0
	}
	return -1
}

// splitLine splits one row. The comma dialect quotes fields (designations
// contain commas), so it goes through a real CSV reader; the semicolon
// dialect is split naively, as the broker never quotes it.
func splitLine(line, delim string) []string {
	if delim == "," {
		r := csv.NewReader(strings.NewReader(line))
		r.FieldsPerRecord = -1
		values, err := r.Read()
		if err != nil {
			log.Printf("warning: cannot split line %q: %v", line, err)
			return strings.Split(line, delim)
		}
		return values
	}
	return strings.Split(line, delim)
}

// parsePositions reads rows until a blank line or the disclaimer marker.
// Rows with fewer cells than headers are skipped.
func parsePositions(lines []string, headers []string, delim string) []Position {
	var positions []Position
	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, disclaimerPrefix) {
			break
		}
		values := splitLine(line, delim)
		if len(values) < len(headers) {
			log.Printf("warning: skipping short row (%d cells, want %d): %q", len(values), len(headers), line)
			continue
		}
		positions = append(positions, newPosition(headers, values))
	}
	return positions
}

func newPosition(headers, values []string) Position {
	fields := make(map[string]any, len(headers))
	for j, header := range headers {
		if j >= len(values) {
			break
		}
		value := strings.TrimSpace(values[j])
		if value == "" {
			fields[header] = nil
			continue
		}
		fields[header] = coerceCell(header, value)
	}
	return Position{fields: fields}
}

// coerceCell types one cell. Plain integers and decimals are converted
// generically; the named German columns get bespoke European normalization
// even when the generic patterns do not match (leading '+', thousands
// separators). Everything else stays a string.
func coerceCell(header, value string) any {
	switch {
	case intCellRe.MatchString(value):
		n, err := strconv.ParseInt(value, 10, 64)
		if err == nil {
			return n
		}
	case floatCellRe.MatchString(value):
		f, err := ParseDecimalComma(value)
		if err == nil {
			return f
		}
	}

	switch header {
	case "Veränderung in %":
		if strings.HasPrefix(value, "+") {
			if f, err := ParseDecimalComma(value); err == nil {
				return f
			}
		}
	case "Veränderung in EUR":
		if strings.HasPrefix(value, "+") {
			if d, err := ParseEuroAmount(value); err == nil {
				f, _ := d.Float64()
				return f
			}
		}
	case "Anteil im Depot", "Einstandskurs", "akt. Kurs":
		if f, err := ParseDecimalComma(value); err == nil {
			return f
		}
		log.Printf("warning: cannot parse %q cell %q, keeping text", header, value)
	case "Einstandswert in EUR", "Wert in EUR":
		if d, err := ParseEuroAmount(value); err == nil {
			f, _ := d.Float64()
			return f
		}
		log.Printf("warning: cannot parse %q cell %q, keeping text", header, value)
	}

	return value
}
