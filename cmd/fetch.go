package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/depot"
	"github.com/google/subcommands"
)

// fetchCmd holds the flags for the 'fetch' subcommand.
type fetchCmd struct {
	quoteOnly bool
}

func (*fetchCmd) Name() string     { return "fetch" }
func (*fetchCmd) Synopsis() string { return "fetch fundamentals and a quote for a ticker" }
func (*fetchCmd) Usage() string {
	return `dpt fetch [-q] <ticker>

  Fetches the company fundamentals from Simply Wall St and the live quote
  from Finnhub, and prints them as JSON. Responses are cached on disk for
  the day.
`
}

func (c *fetchCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.quoteOnly, "q", false, "fetch only the quote, skip the fundamentals")
}

func (c *fetchCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Error: expected exactly one ticker, got %d\n", f.NArg())
		return subcommands.ExitUsageError
	}

	info, ok := LoadTickerTable().Resolve(f.Arg(0))
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: unknown ticker %q\n", f.Arg(0))
		return subcommands.ExitFailure
	}

	payload := struct {
		Company *depot.Company `json:"company,omitempty"`
		Quote   *depot.Quote   `json:"quote,omitempty"`
	}{}

	if !c.quoteOnly {
		company, err := depot.FetchCompany(info)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error fetching fundamentals: %v\n", err)
			return subcommands.ExitFailure
		}
		payload.Company = company
	}

	quote, err := depot.FetchQuote(info.Ticker)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error fetching quote: %v\n", err)
		return subcommands.ExitFailure
	}
	payload.Quote = quote

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(payload); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding result: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
