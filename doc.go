// Package depot turns raw brokerage depot statements into structured
// positions, allocation advice and daily monitoring reports.
//
// The core functionalities include:
//   - Statement Parsing: Decoding the delimited-text exports produced by the
//     broker (German semicolon dialect with an embedded summary header, and
//     an English comma dialect) into normalized positions, tolerant of the
//     European number format (1.234,56).
//   - Ticker Resolution: Mapping the broker's security designations to ticker
//     symbols and exchanges through an injected lookup table.
//   - Rebalancing: Deriving target allocations and concrete buy/sell deltas
//     from externally supplied BUY/HOLD/SELL recommendations, using a simple
//     boost/reduction heuristic (not an optimizer).
//   - Analysis Extraction: Reading the markdown responses of an LLM analyst
//     and pulling out recommendations, price targets and section content.
//   - Daily Monitoring: Aggregating holdings per ticker, comparing them with
//     a local history database and raising price-drop and concentration
//     alerts.
//
// This package serves as the foundational logic for the `dpt` command-line
// tool. All operations are pure transformations of one statement snapshot;
// nothing here keeps shared mutable state.
package depot
