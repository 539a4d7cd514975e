package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/depot"
	"github.com/etnz/depot/renderer"
	"github.com/google/subcommands"
)

// dailyCmd holds the flags for the 'daily' subcommand.
type dailyCmd struct {
	dryRun bool
}

func (*dailyCmd) Name() string     { return "daily" }
func (*dailyCmd) Synopsis() string { return "run the daily depot monitor on a statement" }
func (*dailyCmd) Usage() string {
	return `dpt daily [-n] <statement.csv>

  Aggregates the statement's positions per ticker, compares prices against
  the last stored close, raises drop and concentration alerts, and stores
  the day in the history database.
`
}

func (c *dailyCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.dryRun, "n", false, "do not store the day in the history database")
}

func (c *dailyCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, status := loadStatement(f)
	if status != subcommands.ExitSuccess {
		return status
	}

	holdings := depot.AggregateHoldings(s, LoadTickerTable())

	history, err := OpenHistory()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening history: %v\n", err)
		return subcommands.ExitFailure
	}
	defer history.Close()

	holdings, err = depot.CompareWithHistory(holdings, history)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error comparing with history: %v\n", err)
		return subcommands.ExitFailure
	}

	alerts := depot.DetectAlerts(holdings)

	if !c.dryRun {
		if err := history.SaveDay(s.Date, holdings); err != nil {
			fmt.Fprintf(os.Stderr, "Error storing the day: %v\n", err)
			return subcommands.ExitFailure
		}
		if err := history.SaveAlerts(s.Date, alerts); err != nil {
			fmt.Fprintf(os.Stderr, "Error storing alerts: %v\n", err)
			return subcommands.ExitFailure
		}
	}

	printMarkdown(renderer.RenderDaily(renderer.NewDailyReport(s.Date.String(), holdings, alerts)))
	return subcommands.ExitSuccess
}
