package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/cashbook"
	"github.com/etnz/cashbook/renderer"
	"github.com/google/subcommands"
)

type settingsCmd struct{}

func (*settingsCmd) Name() string     { return "settings" }
func (*settingsCmd) Synopsis() string { return "display or change the settings" }
func (*settingsCmd) Usage() string {
	return `cb settings [<name> <value>]

  Without arguments, displays the settings. With a name and a value, changes
  that setting first. Settings are:

  language   the language of the user interface.
  theme      light or dark, used to render reports in the terminal.
  mode       point (1.234,50) or comma (1,234.50).
  currency   the symbol printed before amounts, or an ISO code ("EUR").

`
}

func (c *settingsCmd) SetFlags(f *flag.FlagSet) {}

func (c *settingsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 0 && f.NArg() != 2 {
		fmt.Fprintln(os.Stderr, "settings expects no argument, or a name and a value")
		return subcommands.ExitUsageError
	}
	b, err := openBook(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer b.Close()

	if f.NArg() == 2 {
		if err := b.settings.Set(f.Arg(0), f.Arg(1)); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v (settings are %s)\n", err, strings.Join(cashbook.SettingNames(), ", "))
			return subcommands.ExitFailure
		}
		if err := b.settings.Save(ctx, b.backend); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
	}
	b.printMarkdown(renderer.Settings(b.settings))
	return subcommands.ExitSuccess
}
