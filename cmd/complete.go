package cmd

import (
	"context"
	"flag"
	"slices"

	"github.com/etnz/cashbook"
	"github.com/etnz/cashbook/docs"
	"github.com/etnz/cashbook/snapshot"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// flagPredictors predict the value of flags, by flag name. Other flags
// accept anything.
var flagPredictors = map[string]complete.Predictor{
	"kind":       predict.Set(kinds),
	"name":       complete.PredictFunc(predictSnapshots),
	"o":          predict.Files("*.xlsx"),
	"p":          predict.Set{"day", "week", "month", "year"},
	"backend":    predict.Set{"file", "dir", "redis", "sql", "memory"},
	"sql-driver": predict.Set{"mysql", "postgres"},
	"file":       predict.Files("*.json"),
	"dir":        predict.Dirs("*"),
}

// argPredictors predict the positional arguments, by subcommand name.
var argPredictors = map[string]complete.Predictor{
	"import":   predict.Files("*.xlsx"),
	"settings": predict.Set(cashbook.SettingNames()),
	"topic":    complete.PredictFunc(predictTopics),
}

func predictTopics(string) []string {
	topics, _ := docs.GetAllTopics()
	return topics
}

// Completion returns the shell completion of the application. Global flags
// are read from fs.
func Completion(fs *flag.FlagSet) *complete.Command {
	root := &complete.Command{
		Sub:   map[string]*complete.Command{},
		Flags: flagsOf(fs),
	}
	for _, c := range Commands {
		f := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
		c.SetFlags(f)
		sub := &complete.Command{Flags: flagsOf(f), Args: predict.Nothing}
		if p, ok := argPredictors[c.Name()]; ok {
			sub.Args = p
		}
		root.Sub[c.Name()] = sub
	}
	for _, name := range []string{"help", "flags", "commands"} {
		root.Sub[name] = &complete.Command{Args: predict.Nothing}
	}
	return root
}

func flagsOf(f *flag.FlagSet) map[string]complete.Predictor {
	flags := map[string]complete.Predictor{}
	f.VisitAll(func(fl *flag.Flag) {
		if p, ok := flagPredictors[fl.Name]; ok {
			flags[fl.Name] = p
			return
		}
		if b, ok := fl.Value.(interface{ IsBoolFlag() bool }); ok && b.IsBoolFlag() {
			flags[fl.Name] = predict.Nothing
			return
		}
		flags[fl.Name] = predict.Something
	})
	return flags
}

// predictSnapshots lists the saved snapshots of every kind, from the backend
// configured by the environment.
func predictSnapshots(prefix string) []string {
	ctx := context.Background()
	backend, closeFn, err := OpenBackend(ctx, LoadConfig())
	if err != nil {
		return nil
	}
	defer closeFn()

	s := snapshot.New(backend)
	var names []string
	for _, ns := range []snapshot.Namespace{snapshot.InventoryNamespace, snapshot.LedgerNamespace} {
		list, err := s.List(ctx, ns)
		if err != nil {
			return nil
		}
		names = append(names, list...)
	}
	slices.Sort(names)
	return slices.Compact(names)
}
