package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/depot"
	"github.com/etnz/depot/agent"
	"github.com/google/subcommands"
	"google.golang.org/genai"
)

// optimizeCmd holds the flags for the 'optimize' subcommand.
type optimizeCmd struct {
	analysesDir string
	promptOnly  bool
	outputFile  string
}

func (*optimizeCmd) Name() string     { return "optimize" }
func (*optimizeCmd) Synopsis() string { return "ask the analyst for a depot-wide optimization" }
func (*optimizeCmd) Usage() string {
	return `dpt optimize [-analyses <dir>] [-p] [-o <file>] <statement.csv>

  Builds a depot-wide optimization prompt from the statement, the research
  notes and the constraints of a German private investor, and asks the
  analyst for a target allocation. With -p the prompt is printed instead,
  to be pasted into any assistant.
`
}

func (c *optimizeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.analysesDir, "analyses", "analyses", "Directory of research notes, one <ticker>.md per security")
	f.BoolVar(&c.promptOnly, "p", false, "print the prompt instead of asking the analyst")
	f.StringVar(&c.outputFile, "o", "", "Write the response to this file instead of the terminal")
}

func (c *optimizeCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, status := loadStatement(f)
	if status != subcommands.ExitSuccess {
		return status
	}

	holdings := depot.AggregateHoldings(s, LoadTickerTable())

	analyses := map[string]*depot.Analysis{}
	if loaded, err := depot.LoadAnalyses(c.analysesDir); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: cannot load research notes: %v\n", err)
	} else {
		analyses = loaded
	}

	prompt := agent.OptimizationPrompt(holdings, analyses)
	if c.promptOnly {
		fmt.Println(prompt)
		return subcommands.ExitSuccess
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

	response, err := analyst.Ask(ctx, prompt)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error asking the analyst: %v\n", err)
		return subcommands.ExitFailure
	}

	if c.outputFile != "" {
		if err := os.WriteFile(c.outputFile, []byte(response), 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing response: %v\n", err)
			return subcommands.ExitFailure
		}
		fmt.Printf("Wrote optimization to %s\n", c.outputFile)
		return subcommands.ExitSuccess
	}

	printMarkdown(response)
	return subcommands.ExitSuccess
}
