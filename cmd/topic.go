package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/cashbook/docs"
	"github.com/google/subcommands"
)

type topicCmd struct{}

func (*topicCmd) Name() string     { return "topic" }
func (*topicCmd) Synopsis() string { return "show documentation" }
func (*topicCmd) Usage() string {
	return `cb topic [<topic>...]

  Shows the documentation of the topics, '*' for all of them. Without
  arguments, lists the topics.

`
}

func (c *topicCmd) SetFlags(f *flag.FlagSet) {}

func (c *topicCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	topics := f.Args()
	if len(topics) == 0 {
		topics = []string{"readme"}
	}
	doc, err := docs.GetTopics(topics...)
	if err != nil {
		all, _ := docs.GetAllTopics()
		fmt.Fprintf(os.Stderr, "Error reading doc: %v (topics are %s)\n", err, strings.Join(all, ", "))
		return subcommands.ExitFailure
	}
	printMarkdown(doc, "")
	return subcommands.ExitSuccess
}
