// Package cmd implements the CLI application to manage a stock depot.
package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"

	"github.com/etnz/depot"
	"github.com/google/subcommands"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&holdingsCmd{}, "statement")
	c.Register(&tickersCmd{}, "statement")

	c.Register(&rebalanceCmd{}, "allocation")
	c.Register(&dailyCmd{}, "allocation")

	c.Register(&fetchCmd{}, "research")
	c.Register(&analyzeCmd{}, "research")
	c.Register(&optimizeCmd{}, "research")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var tickersFile = flag.String("tickers-file", "", "Path to a ticker table file (JSONL format). Uses the built-in table when missing")
var historyFile = flag.String("history-db", "depot-history.db", "Path to the daily monitor history database (SQLite)")

// LoadTickerTable loads the ticker table from the app tickers file.
func LoadTickerTable() depot.TickerTable {
	if *tickersFile == "" {
		return depot.DefaultTickers()
	}
	f, err := os.Open(*tickersFile)
	if errors.Is(err, fs.ErrNotExist) {
		log.Printf("warning: ticker table %q does not exist, using the built-in table", *tickersFile)
		return depot.DefaultTickers()
	}
	if err != nil {
		log.Printf("warning: cannot open ticker table %q (%v), using the built-in table", *tickersFile, err)
		return depot.DefaultTickers()
	}
	defer f.Close()

	table, err := depot.LoadTickers(f)
	if err != nil {
		log.Printf("warning: cannot read ticker table %q (%v), using the built-in table", *tickersFile, err)
		return depot.DefaultTickers()
	}
	return table
}

// OpenHistory opens the app history database.
func OpenHistory() (*depot.History, error) {
	return depot.OpenHistory(*historyFile)
}

// loadStatement reads the statement given on the command line.
func loadStatement(f *flag.FlagSet) (*depot.Statement, subcommands.ExitStatus) {
	if f.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Error: expected exactly one statement file, got %d\n", f.NArg())
		return nil, subcommands.ExitUsageError
	}
	s, err := depot.LoadStatement(f.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading statement: %v\n", err)
		return nil, subcommands.ExitFailure
	}
	return s, subcommands.ExitSuccess
}
