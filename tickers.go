package depot

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
)

// TickerInfo identifies one security on its reference exchange.
type TickerInfo struct {
	Ticker   string `json:"ticker"`
	Exchange string `json:"exchange"`
}

// TickerTable maps broker designations (and common spellings) to tickers.
// Keys are matched case-sensitively on the exact designation first, then on
// the trimmed designation.
type TickerTable map[string]TickerInfo

// Resolve maps a broker designation to its ticker. The second return is false
// when the designation is unknown.
func (t TickerTable) Resolve(designation string) (TickerInfo, bool) {
	if info, ok := t[designation]; ok {
		return info, true
	}
	if info, ok := t[strings.TrimSpace(designation)]; ok {
		return info, true
	}
	return TickerInfo{}, false
}

// DefaultTickers returns the built-in designation table. It covers the raw
// broker designations (fixed-width padding included), the plain company
// names, and the tickers themselves so that already-resolved names map to
// themselves.
func DefaultTickers() TickerTable {
	return TickerTable{
		// Broker designations, verbatim including padding.
		"ALLIANZ SE NA O.N.":            {Ticker: "ALV", Exchange: "XETRA"},
		"BERKSH. H.B NEW DL-,00333":     {Ticker: "BRK.B", Exchange: "NYSE"},
		"GITLAB INC. CL.A DL-,0000025":  {Ticker: "GTLB", Exchange: "NasdaqGS"},
		"NVIDIA CORP.      DL-,001":     {Ticker: "NVDA", Exchange: "NasdaqGS"},
		"MICROSOFT    DL-,00000625":     {Ticker: "MSFT", Exchange: "NasdaqGS"},
		"ALPHABET INC.CL C DL-,001":     {Ticker: "GOOG", Exchange: "NasdaqGS"},
		"CROWDSTRIKE HLD. DL-,0005":     {Ticker: "CRWD", Exchange: "NasdaqGS"},
		"ADVANCED MIC.DEV.  DL-,01":     {Ticker: "AMD", Exchange: "NasdaqGS"},
		"NUTANIX INC. A":                {Ticker: "NTNX", Exchange: "NasdaqGS"},
		"ASML HOLDING    EO -,09":       {Ticker: "ASML", Exchange: "NasdaqGS"},
		"TAIWAN SEMICON.MANU.ADR/5":     {Ticker: "TSM", Exchange: "NYSE"},

		// Common names.
		"Allianz":      {Ticker: "ALV", Exchange: "XETRA"},
		"Berkshire":    {Ticker: "BRK.B", Exchange: "NYSE"},
		"GitLab":       {Ticker: "GTLB", Exchange: "NasdaqGS"},
		"NVIDIA":       {Ticker: "NVDA", Exchange: "NasdaqGS"},
		"Microsoft":    {Ticker: "MSFT", Exchange: "NasdaqGS"},
		"Alphabet":     {Ticker: "GOOG", Exchange: "NasdaqGS"},
		"CrowdStrike":  {Ticker: "CRWD", Exchange: "NasdaqGS"},
		"Nutanix":      {Ticker: "NTNX", Exchange: "NasdaqGS"},
		"TSMC":         {Ticker: "TSM", Exchange: "NYSE"},
		"AMD Inc":      {Ticker: "AMD", Exchange: "NasdaqGS"},
		"ASML Holding": {Ticker: "ASML", Exchange: "NasdaqGS"},

		// Tickers map to themselves, so pre-resolved names pass through.
		"ALV":   {Ticker: "ALV", Exchange: "XETRA"},
		"BRK.B": {Ticker: "BRK.B", Exchange: "NYSE"},
		"GTLB":  {Ticker: "GTLB", Exchange: "NasdaqGS"},
		"NVDA":  {Ticker: "NVDA", Exchange: "NasdaqGS"},
		"MSFT":  {Ticker: "MSFT", Exchange: "NasdaqGS"},
		"GOOG":  {Ticker: "GOOG", Exchange: "NasdaqGS"},
		"CRWD":  {Ticker: "CRWD", Exchange: "NasdaqGS"},
		"AMD":   {Ticker: "AMD", Exchange: "NasdaqGS"},
		"NTNX":  {Ticker: "NTNX", Exchange: "NasdaqGS"},
		"ASML":  {Ticker: "ASML", Exchange: "NasdaqGS"},
		"TSM":   {Ticker: "TSM", Exchange: "NYSE"},
	}
}

// tickerEntry is the JSONL wire format of one table row.
type tickerEntry struct {
	Name     string `json:"name"`
	Ticker   string `json:"ticker"`
	Exchange string `json:"exchange"`
}

// LoadTickers reads a ticker table in JSONL format, one object per line:
//
//	{"name":"MICROSOFT    DL-,00000625","ticker":"MSFT","exchange":"NasdaqGS"}
//
// Blank lines are skipped. Any malformed line fails the whole load.
func LoadTickers(r io.Reader) (TickerTable, error) {
	table := make(TickerTable)
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		var e tickerEntry
		if err := json.Unmarshal([]byte(text), &e); err != nil {
			return nil, fmt.Errorf("invalid ticker entry on line %d: %w", line, err)
		}
		if e.Name == "" || e.Ticker == "" {
			return nil, fmt.Errorf("incomplete ticker entry on line %d: name and ticker are required", line)
		}
		table[e.Name] = TickerInfo{Ticker: e.Ticker, Exchange: e.Exchange}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("cannot read ticker table: %w", err)
	}
	return table, nil
}

// WriteTickers writes the table in the same JSONL format LoadTickers reads.
// Rows are written in lexical name order so exports are diffable.
func WriteTickers(w io.Writer, table TickerTable) error {
	names := make([]string, 0, len(table))
	for name := range table {
		names = append(names, name)
	}
	sort.Strings(names)
	enc := json.NewEncoder(w)
	for _, name := range names {
		info := table[name]
		if err := enc.Encode(tickerEntry{Name: name, Ticker: info.Ticker, Exchange: info.Exchange}); err != nil {
			return fmt.Errorf("cannot write ticker entry %q: %w", name, err)
		}
	}
	return nil
}
