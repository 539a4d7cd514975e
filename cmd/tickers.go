package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/depot"
	"github.com/google/subcommands"
)

// tickersCmd holds the flags for the 'tickers' subcommand.
type tickersCmd struct {
	export bool
}

func (*tickersCmd) Name() string     { return "tickers" }
func (*tickersCmd) Synopsis() string { return "list or export the designation to ticker table" }
func (*tickersCmd) Usage() string {
	return `dpt tickers [-export] [<designation>...]

  Without arguments, lists the ticker table in use. With designations,
  resolves each one. With -export, writes the table in the JSONL format
  that -tickers-file reads, to seed a custom table.
`
}

func (c *tickersCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.export, "export", false, "write the table as JSONL to stdout")
}

func (c *tickersCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	table := LoadTickerTable()

	if c.export {
		if err := depot.WriteTickers(os.Stdout, table); err != nil {
			fmt.Fprintf(os.Stderr, "Error exporting ticker table: %v\n", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}

	if f.NArg() > 0 {
		status := subcommands.ExitSuccess
		for _, designation := range f.Args() {
			info, ok := table.Resolve(designation)
			if !ok {
				fmt.Printf("%s: unknown\n", designation)
				status = subcommands.ExitFailure
				continue
			}
			fmt.Printf("%s: %s (%s)\n", designation, info.Ticker, info.Exchange)
		}
		return status
	}

	if err := depot.WriteTickers(os.Stdout, table); err != nil {
		fmt.Fprintf(os.Stderr, "Error listing ticker table: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
