package cmd

import (
	"flag"

	"github.com/etnz/networth/docs"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// snapshotFiles predicts snapshot file names.
var snapshotFiles = predict.Or(predict.Files("*.json"), predict.Files("*.yaml"), predict.Files("*.yml"))

// Completion returns the shell completion of the application commands.
// Calling its Complete method completes the command line when invoked by
// the shell, and installs the completion when COMP_INSTALL=1.
func Completion(commands []subcommands.Command) *complete.Command {
	root := &complete.Command{
		Sub:   make(map[string]*complete.Command),
		Flags: flagPredictors(flag.CommandLine),
	}
	for _, c := range commands {
		f := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
		c.SetFlags(f)
		root.Sub[c.Name()] = &complete.Command{
			Flags: flagPredictors(f),
			Args:  argsPredictor(c.Name()),
		}
	}
	return root
}

func flagPredictors(f *flag.FlagSet) map[string]complete.Predictor {
	flags := make(map[string]complete.Predictor)
	f.VisitAll(func(fl *flag.Flag) {
		switch {
		case isBool(fl):
			flags[fl.Name] = predict.Nothing
		case fl.Name == "o" || fl.Name == "env-file":
			flags[fl.Name] = predict.Files("*")
		default:
			flags[fl.Name] = predict.Something
		}
	})
	return flags
}

func isBool(fl *flag.Flag) bool {
	b, ok := fl.Value.(interface{ IsBoolFlag() bool })
	return ok && b.IsBoolFlag()
}

func argsPredictor(name string) complete.Predictor {
	switch name {
	case "summary", "project", "fmt":
		return snapshotFiles
	case "topic":
		return predict.Set(append(docs.All(), docs.Readme, "*"))
	default:
		return predict.Something
	}
}
