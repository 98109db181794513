package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"

	"github.com/etnz/vendas/cmd"
)

func main() {
	// exits when invoked by the shell for completion.
	completion().Complete("vendas")

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cmd.Register(commander)

	flag.Parse()

	if name := flag.Arg(0); name != "" && !builtin(name) {
		if found, code := cmd.RunExtension(name, flag.Args()[1:]); found {
			os.Exit(code)
		}
	}
	os.Exit(int(commander.Execute(context.Background())))
}

// builtin reports whether name is a subcommand of this binary.
func builtin(name string) bool {
	switch name {
	case "help", "flags", "commands":
		return true
	}
	for _, c := range cmd.Commands() {
		if c.Name() == name {
			return true
		}
	}
	return false
}

// valuePredictors complete flag values that have a known set of values.
var valuePredictors = map[string]complete.Predictor{
	"period":    predict.Set{"day", "week", "month", "year"},
	"data-file": predict.Files("*.json"),
	"config":    predict.Files("*.yaml"),
}

// completion describes the command line for shell completion, from the flags
// each subcommand declares.
func completion() *complete.Command {
	root := &complete.Command{
		Sub: map[string]*complete.Command{},
		Flags: map[string]complete.Predictor{
			"config":    valuePredictors["config"],
			"data-file": valuePredictors["data-file"],
			"v":         predict.Nothing,
			"plain":     predict.Nothing,
		},
	}
	for _, c := range cmd.Commands() {
		fs := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
		c.SetFlags(fs)
		sub := &complete.Command{Flags: map[string]complete.Predictor{}}
		fs.VisitAll(func(f *flag.Flag) {
			p, ok := valuePredictors[f.Name]
			if !ok {
				p = predict.Something
			}
			sub.Flags[f.Name] = p
		})
		root.Sub[c.Name()] = sub
	}
	return root
}
