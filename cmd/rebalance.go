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

// rebalanceCmd holds the flags for the 'rebalance' subcommand.
type rebalanceCmd struct {
	analysesDir string
	total       string
	boost       float64
	reduction   float64
	outputFile  string
}

func (*rebalanceCmd) Name() string { return "rebalance" }
func (*rebalanceCmd) Synopsis() string {
	return "propose target allocations from research recommendations"
}
func (*rebalanceCmd) Usage() string {
	return `dpt rebalance [-analyses <dir>] [-total <amount>] [-o <file>] <statement.csv>

  Computes heuristic target allocations for the statement's positions: buys
  are boosted, sells reduced, and the targets normalized to 100%. The
  recommendations come from the research notes in the analyses directory.
`
}

func (c *rebalanceCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.analysesDir, "analyses", "analyses", "Directory of research notes, one <ticker>.md per security")
	f.StringVar(&c.total, "total", "", "Override the depot total value, e.g. \"220.575,80\". Uses the statement total by default")
	f.Float64Var(&c.boost, "boost", 1.5, "Factor applied to the current weight of buy-rated positions")
	f.Float64Var(&c.reduction, "reduction", 0.5, "Factor applied to the current weight of sell-rated positions")
	f.StringVar(&c.outputFile, "o", "", "Write the markdown report to this file instead of the terminal")
}

func (c *rebalanceCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, status := loadStatement(f)
	if status != subcommands.ExitSuccess {
		return status
	}

	recs := map[string]string{}
	if analyses, err := depot.LoadAnalyses(c.analysesDir); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: cannot load research notes: %v\n", err)
	} else {
		recs = depot.Recommendations(analyses)
	}

	cfg := depot.DefaultRebalanceConfig()
	cfg.BuyBoost = c.boost
	cfg.SellReduction = c.reduction

	var explicitTotal any
	if c.total != "" {
		explicitTotal = c.total
	}

	r := cfg.Rebalance(s, LoadTickerTable(), recs, explicitTotal)
	md := renderer.RenderRebalance(renderer.NewRebalanceReport(s.Date.String(), r))

	if c.outputFile != "" {
		if err := os.WriteFile(c.outputFile, []byte(md), 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing report: %v\n", err)
			return subcommands.ExitFailure
		}
		fmt.Printf("Wrote rebalancing proposal to %s\n", c.outputFile)
		return subcommands.ExitSuccess
	}

	printMarkdown(md)
	return subcommands.ExitSuccess
}
