package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/etnz/depot/cmd"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// completion describes the command tree for shell completion. It must run
// before flag.Parse, and exits the process when invoked by the shell.
func completion() {
	statement := &complete.Command{Args: predict.Files("*.csv")}
	c := &complete.Command{
		Sub: map[string]*complete.Command{
			"holdings":  statement,
			"rebalance": statement,
			"daily":     statement,
			"optimize":  statement,
			"analyze":   {Args: predict.Something},
			"fetch":     {Args: predict.Something},
			"tickers":   {Args: predict.Something},
		},
		Flags: map[string]complete.Predictor{
			"tickers-file": predict.Files("*.jsonl"),
			"history-db":   predict.Files("*.db"),
		},
	}
	c.Complete("dpt")
}

func main() {
	completion()

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))

	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	cmd.Register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
