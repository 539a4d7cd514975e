package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/etnz/depot"
	"github.com/etnz/depot/agent"
	"github.com/google/subcommands"
	"google.golang.org/genai"
)

// analyzeCmd holds the flags for the 'analyze' subcommand.
type analyzeCmd struct {
	analysesDir string
	skipFetch   bool
}

func (*analyzeCmd) Name() string     { return "analyze" }
func (*analyzeCmd) Synopsis() string { return "write a research note for a ticker using the analyst" }
func (*analyzeCmd) Usage() string {
	return `dpt analyze [-analyses <dir>] [-no-fetch] <ticker>...

  Asks the research analyst for a structured note on each ticker, grounded
  with fundamentals and a live quote, and stores the notes in the analyses
  directory where 'rebalance' and 'optimize' pick them up.
`
}

func (c *analyzeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.analysesDir, "analyses", "analyses", "Directory to store the research notes in")
	f.BoolVar(&c.skipFetch, "no-fetch", false, "do not fetch fundamentals and quotes, prompt from the ticker alone")
}

func (c *analyzeCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintf(os.Stderr, "Error: expected at least one ticker\n")
		return subcommands.ExitUsageError
	}
	if err := os.MkdirAll(c.analysesDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating analyses directory: %v\n", err)
		return subcommands.ExitFailure
	}

	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating the genai client: %v\n", err)
		return subcommands.ExitFailure
	}
	analyst := agent.NewAnalyst()
	if err := analyst.Start(ctx, client); err != nil {
		fmt.Fprintf(os.Stderr, "Error starting the analyst: %v\n", err)
		return subcommands.ExitFailure
	}

	table := LoadTickerTable()
	for _, arg := range f.Args() {
		info, ok := table.Resolve(arg)
		if !ok {
			fmt.Fprintf(os.Stderr, "Error: unknown ticker %q, skipping\n", arg)
			continue
		}

		var company *depot.Company
		var quote *depot.Quote
		if !c.skipFetch {
			if company, err = depot.FetchCompany(info); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: no fundamentals for %s: %v\n", info.Ticker, err)
			}
			if quote, err = depot.FetchQuote(info.Ticker); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: no quote for %s: %v\n", info.Ticker, err)
			}
		}

		note, err := analyst.Ask(ctx, agent.CompanyPrompt(info, company, quote))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error asking the analyst about %s: %v\n", info.Ticker, err)
			return subcommands.ExitFailure
		}

		// Periods clash with the extension separator in note file names.
		name := strings.ReplaceAll(info.Ticker, ".", "_") + ".md"
		path := filepath.Join(c.analysesDir, name)
		if err := os.WriteFile(path, []byte(note), 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing note for %s: %v\n", info.Ticker, err)
			return subcommands.ExitFailure
		}

		a := depot.ParseAnalysis(note)
		fmt.Printf("%s: %s (%s)\n", info.Ticker, a.Recommendation, path)
	}
	return subcommands.ExitSuccess
}
