package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/cashbook"
	"github.com/etnz/cashbook/date"
	"github.com/etnz/cashbook/renderer"
	"github.com/google/subcommands"
)

func entryIDs(l *cashbook.Ledger) []string {
	var ids []string
	for _, e := range l.Entries() {
		ids = append(ids, e.ID)
	}
	return ids
}

// entryFlags are the flags shared by entry-add and entry-edit.
type entryFlags struct {
	date, desc, income, expense string
}

func (e *entryFlags) set(f *flag.FlagSet, defaultDate string) {
	f.StringVar(&e.date, "d", defaultDate, "Date of the entry (YYYY-MM-DD).")
	f.StringVar(&e.desc, "desc", "", "Description.")
	f.StringVar(&e.income, "in", "", "Income amount.")
	f.StringVar(&e.expense, "out", "", "Expense amount.")
}

func (e *entryFlags) draft() (cashbook.EntryDraft, error) {
	d := cashbook.EntryDraft{Description: e.desc, Income: e.income, Expense: e.expense}
	if e.date == "" {
		return d, nil
	}
	on, err := date.Parse(e.date)
	if err != nil {
		return d, err
	}
	d.Date = on
	return d, nil
}

type entryAddCmd struct {
	entryFlags
}

func (*entryAddCmd) Name() string     { return "entry-add" }
func (*entryAddCmd) Synopsis() string { return "record an income or an expense in the ledger" }
func (*entryAddCmd) Usage() string {
	return `cb entry-add [-d <date>] -desc <description> [-in <amount>] [-out <amount>]

  Records a dated entry. The description is required, and at least one of
  income or expense must be a non zero amount. The date defaults to today.

Usage Examples:
$ cb entry-add -desc "Morning sales" -in 250
$ cb entry-add -d 2024-01-31 -desc "Rent" -out 900

`
}

func (c *entryAddCmd) SetFlags(f *flag.FlagSet) { c.entryFlags.set(f, date.Today().String()) }

func (c *entryAddCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	draft, err := c.draft()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitFailure
	}
	b, err := openBook(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer b.Close()

	l, err := cashbook.OpenLedger(ctx, b.store)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	e, err := l.AddEntry(ctx, draft)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error adding entry: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(stdout, "Added entry %s on %s: %s\n", renderer.Short(e.ID), e.Date, b.settings.Format(e.DailyBalance()))
	return subcommands.ExitSuccess
}

type entryEditCmd struct {
	id string
	entryFlags
}

func (*entryEditCmd) Name() string     { return "entry-edit" }
func (*entryEditCmd) Synopsis() string { return "replace an entry of the ledger" }
func (*entryEditCmd) Usage() string {
	return `cb entry-edit -id <id> [-d <date>] [-desc <description>] [-in <amount>] [-out <amount>]

  Replaces the entry, keeping its place among entries of the same day.
  Fields not given keep their current value.

`
}

func (c *entryEditCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "Id (or id prefix) of the entry.")
	c.entryFlags.set(f, "")
}

func (c *entryEditCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	draft, err := c.draft()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitFailure
	}
	b, err := openBook(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer b.Close()

	l, err := cashbook.OpenLedger(ctx, b.store)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	id, err := resolveID(c.id, entryIDs(l))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	current, _ := l.Entry(id)
	if draft.Date.IsZero() {
		draft.Date = current.Date
	}
	if draft.Description == "" {
		draft.Description = current.Description
	}
	if draft.Income == "" {
		draft.Income = current.Income.String()
	}
	if draft.Expense == "" {
		draft.Expense = current.Expense.String()
	}
	if err := l.EditEntry(ctx, id, draft); err != nil {
		fmt.Fprintf(os.Stderr, "Error editing entry: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(stdout, "Updated entry %s\n", renderer.Short(id))
	return subcommands.ExitSuccess
}

type entryRmCmd struct {
	id string
}

func (*entryRmCmd) Name() string     { return "entry-rm" }
func (*entryRmCmd) Synopsis() string { return "remove an entry from the ledger" }
func (*entryRmCmd) Usage() string {
	return `cb entry-rm -id <id>

  Removes the entry. The id can be shortened to any unambiguous prefix.

`
}

func (c *entryRmCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "Id (or id prefix) of the entry.")
}

func (c *entryRmCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	b, err := openBook(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer b.Close()

	l, err := cashbook.OpenLedger(ctx, b.store)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	id, err := resolveID(c.id, entryIDs(l))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := l.RemoveEntry(ctx, id); err != nil {
		fmt.Fprintf(os.Stderr, "Error removing entry: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(stdout, "Removed entry %s\n", renderer.Short(id))
	return subcommands.ExitSuccess
}

type openingCmd struct {
	amount string
}

func (*openingCmd) Name() string     { return "opening" }
func (*openingCmd) Synopsis() string { return "set the opening balance of the ledger" }
func (*openingCmd) Usage() string {
	return `cb opening -amount <amount>

  Sets the balance before the first entry. A value that is not a number
  reads 0.

`
}

func (c *openingCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.amount, "amount", "", "Opening balance.")
}

func (c *openingCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	b, err := openBook(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer b.Close()

	l, err := cashbook.OpenLedger(ctx, b.store)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if err := l.SetOpeningBalance(ctx, c.amount); err != nil {
		fmt.Fprintf(os.Stderr, "Error setting the opening balance: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(stdout, "Opening balance is %s\n", b.settings.Format(l.OpeningBalance()))
	return subcommands.ExitSuccess
}

type ledgerCmd struct {
	period string
	start  string
	end    string
}

func (*ledgerCmd) Name() string     { return "ledger" }
func (*ledgerCmd) Synopsis() string { return "display the ledger with daily and running balances" }
func (*ledgerCmd) Usage() string {
	return `cb ledger [-p <period> | -s <start_date>] [-d <end_date>]

  Displays entries in chronological order, entries of the same day in the
  order they were recorded, with their daily balance and the running balance.
  By default the whole ledger is displayed. With -p (day, week, month, year)
  only the period containing the end date, with -s from the start date.

`
}

func (c *ledgerCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.period, "p", "", "Predefined period (day, week, month, year).")
	f.StringVar(&c.start, "s", "", "The start date of a custom range. Overrides -p.")
	f.StringVar(&c.end, "d", "", "The end date (defaults to today with -p).")
}

// dateRange returns the range selected by the flags.
func (c *ledgerCmd) dateRange() (date.Range, error) {
	var end date.Date
	if c.end != "" {
		var err error
		if end, err = date.Parse(c.end); err != nil {
			return date.Range{}, err
		}
	}
	switch {
	case c.start != "":
		start, err := date.Parse(c.start)
		if err != nil {
			return date.Range{}, err
		}
		return date.NewRange(start, end), nil
	case c.period != "":
		p, err := date.ParsePeriod(c.period)
		if err != nil {
			return date.Range{}, err
		}
		if end.IsZero() {
			end = date.Today()
		}
		return date.PeriodRange(end, p), nil
	default:
		return date.NewRange(date.Date{}, end), nil
	}
}

func (c *ledgerCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	r, err := c.dateRange()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	b, err := openBook(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer b.Close()

	l, err := cashbook.OpenLedger(ctx, b.store)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	b.printMarkdown(renderer.Ledger("Ledger", l, r, b.settings))
	return subcommands.ExitSuccess
}
