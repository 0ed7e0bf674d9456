package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/cashbook"
	"github.com/etnz/cashbook/renderer"
	"github.com/etnz/cashbook/snapshot"
	"github.com/google/subcommands"
)

// Snapshot kinds, as named on the command line.
const (
	kindInventory = "inventory"
	kindLedger    = "ledger"
)

var kinds = []string{kindInventory, kindLedger}

// snapshotter is what inventories and ledgers share about snapshots.
type snapshotter interface {
	Save(ctx context.Context, name string) error
	Load(ctx context.Context, name string) error
	Snapshots(ctx context.Context) ([]string, error)
	DeleteSnapshot(ctx context.Context, name string) error
}

// namespace returns the snapshot namespace of kind.
func namespace(kind string) (snapshot.Namespace, error) {
	switch kind {
	case kindInventory:
		return snapshot.InventoryNamespace, nil
	case kindLedger:
		return snapshot.LedgerNamespace, nil
	default:
		return "", fmt.Errorf("unknown kind %q, want inventory or ledger", kind)
	}
}

// open opens the working copy of kind.
func (b *book) open(ctx context.Context, kind string) (snapshotter, error) {
	switch kind {
	case kindInventory:
		return cashbook.OpenInventory(ctx, b.store)
	case kindLedger:
		return cashbook.OpenLedger(ctx, b.store)
	default:
		return nil, fmt.Errorf("unknown kind %q, want inventory or ledger", kind)
	}
}

func kindFlag(f *flag.FlagSet, kind *string) {
	f.StringVar(kind, "kind", kindInventory, "Kind of snapshot: inventory or ledger.")
}

type saveCmd struct {
	kind string
	name string
}

func (*saveCmd) Name() string     { return "save" }
func (*saveCmd) Synopsis() string { return "save the inventory or the ledger as a named snapshot" }
func (*saveCmd) Usage() string {
	return `cb save [-kind inventory|ledger] -name <name>

  Saves a copy of the current inventory (or ledger) under a name.
  A snapshot with the same name is replaced.

`
}

func (c *saveCmd) SetFlags(f *flag.FlagSet) {
	kindFlag(f, &c.kind)
	f.StringVar(&c.name, "name", "", "Name of the snapshot.")
}

func (c *saveCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	b, err := openBook(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer b.Close()

	s, err := b.open(ctx, c.kind)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if err := s.Save(ctx, c.name); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving %s: %v\n", c.kind, err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(stdout, "Saved %s %q\n", c.kind, c.name)
	return subcommands.ExitSuccess
}

type loadCmd struct {
	kind string
	name string
}

func (*loadCmd) Name() string     { return "load" }
func (*loadCmd) Synopsis() string { return "replace the inventory or the ledger by a named snapshot" }
func (*loadCmd) Usage() string {
	return `cb load [-kind inventory|ledger] -name <name>

  Replaces the current inventory (or ledger) by the snapshot. The current
  one is lost unless it was saved before.

`
}

func (c *loadCmd) SetFlags(f *flag.FlagSet) {
	kindFlag(f, &c.kind)
	f.StringVar(&c.name, "name", "", "Name of the snapshot.")
}

func (c *loadCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	b, err := openBook(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer b.Close()

	s, err := b.open(ctx, c.kind)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if err := s.Load(ctx, c.name); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(stdout, "Loaded %s %q\n", c.kind, c.name)
	return subcommands.ExitSuccess
}

type snapshotsCmd struct {
	kind  string
	query string
}

func (*snapshotsCmd) Name() string     { return "snapshots" }
func (*snapshotsCmd) Synopsis() string { return "list the saved snapshots" }
func (*snapshotsCmd) Usage() string {
	return `cb snapshots [-kind inventory|ledger] [-q <text>]

  Lists the names of the saved snapshots, optionally only those containing
  the text, ignoring case.

`
}

func (c *snapshotsCmd) SetFlags(f *flag.FlagSet) {
	kindFlag(f, &c.kind)
	f.StringVar(&c.query, "q", "", "Only list names containing this text.")
}

func (c *snapshotsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ns, err := namespace(c.kind)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	b, err := openBook(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer b.Close()

	names, err := b.store.Search(ctx, ns, c.query)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	b.printMarkdown(renderer.Snapshots(c.kind, names))
	return subcommands.ExitSuccess
}

type snapshotRmCmd struct {
	kind string
	name string
}

func (*snapshotRmCmd) Name() string     { return "snapshot-rm" }
func (*snapshotRmCmd) Synopsis() string { return "delete a named snapshot" }
func (*snapshotRmCmd) Usage() string {
	return `cb snapshot-rm [-kind inventory|ledger] -name <name>

  Deletes the snapshot. Deleting a snapshot that does not exist succeeds.

`
}

func (c *snapshotRmCmd) SetFlags(f *flag.FlagSet) {
	kindFlag(f, &c.kind)
	f.StringVar(&c.name, "name", "", "Name of the snapshot.")
}

func (c *snapshotRmCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	b, err := openBook(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer b.Close()

	s, err := b.open(ctx, c.kind)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if err := s.DeleteSnapshot(ctx, c.name); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(stdout, "Deleted %s %q\n", c.kind, c.name)
	return subcommands.ExitSuccess
}

type queryCmd struct {
	kind string
	name string
}

func (*queryCmd) Name() string     { return "query" }
func (*queryCmd) Synopsis() string { return "extract values from a snapshot with a JSONPath expression" }
func (*queryCmd) Usage() string {
	return `cb query [-kind inventory|ledger] -name <name> <jsonpath>

  Evaluates the JSONPath expression on the stored snapshot and prints the
  result as JSON.

Usage Examples:
$ cb query -name march '$[*].name'
$ cb query -kind ledger -name q1 '$.entries[?(@.expense > 100)].description'

`
}

func (c *queryCmd) SetFlags(f *flag.FlagSet) {
	kindFlag(f, &c.kind)
	f.StringVar(&c.name, "name", "", "Name of the snapshot.")
}

func (c *queryCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "query expects exactly one JSONPath expression")
		return subcommands.ExitUsageError
	}
	ns, err := namespace(c.kind)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	b, err := openBook(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer b.Close()

	v, err := b.store.Query(ctx, ns, c.name, f.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Fprintln(stdout, string(out))
	return subcommands.ExitSuccess
}
