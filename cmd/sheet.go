package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/etnz/cashbook"
	"github.com/etnz/cashbook/sheet"
	"github.com/google/subcommands"
)

type exportCmd struct {
	kind   string
	output string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "export the inventory or the ledger to a spreadsheet" }
func (*exportCmd) Usage() string {
	return `cb export [-kind inventory|ledger] [-o <file.xlsx>]

  Writes the current inventory (or ledger, with its daily and running
  balances) to an .xlsx workbook. The file defaults to <kind>.xlsx.

`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	kindFlag(f, &c.kind)
	f.StringVar(&c.output, "o", "", "Output file.")
}

func (c *exportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if _, err := namespace(c.kind); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	output := c.output
	if output == "" {
		output = c.kind + ".xlsx"
	}

	b, err := openBook(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer b.Close()

	w, err := os.Create(output)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating %q: %v\n", output, err)
		return subcommands.ExitFailure
	}
	defer w.Close()

	switch c.kind {
	case kindInventory:
		var inv *cashbook.Inventory
		if inv, err = cashbook.OpenInventory(ctx, b.store); err == nil {
			err = sheet.WriteInventory(w, inv.Products())
		}
	case kindLedger:
		var l *cashbook.Ledger
		if l, err = cashbook.OpenLedger(ctx, b.store); err == nil {
			err = sheet.WriteLedger(w, l)
		}
	}
	if err == nil {
		err = w.Close()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error exporting %s: %v\n", c.kind, err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(stdout, "Exported %s to %s\n", c.kind, output)
	return subcommands.ExitSuccess
}

type importCmd struct {
	kind string
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "add products or entries from a spreadsheet" }
func (*importCmd) Usage() string {
	return `cb import [-kind inventory|ledger] <file.xlsx>

  Reads the first sheet of the workbook and adds every row to the current
  inventory (or ledger).

  Inventory rows are: name, quantity, unit cost, unit price.
  Ledger rows are: date, description, income, expense. A row without date
  labelled "Opening balance" sets the opening balance from its last column.

  Rows are validated like any other input: invalid rows are reported and
  skipped, the others are added.

`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	kindFlag(f, &c.kind)
}

func (c *importCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "import expects exactly one spreadsheet file")
		return subcommands.ExitUsageError
	}
	if _, err := namespace(c.kind); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	r, err := os.Open(f.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer r.Close()

	b, err := openBook(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer b.Close()

	var added, skipped int
	switch c.kind {
	case kindInventory:
		added, skipped, err = importProducts(ctx, b, r)
	case kindLedger:
		added, skipped, err = importLedger(ctx, b, r)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error importing %s: %v\n", f.Arg(0), err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(stdout, "Imported %d rows, skipped %d\n", added, skipped)
	if skipped > 0 {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func importProducts(ctx context.Context, b *book, r io.Reader) (added, skipped int, err error) {
	drafts, err := sheet.ReadProducts(r)
	if err != nil {
		return 0, 0, err
	}
	inv, err := cashbook.OpenInventory(ctx, b.store)
	if err != nil {
		return 0, 0, err
	}
	for i, d := range drafts {
		if _, err := inv.Add(ctx, d); err != nil {
			if errors.Is(err, cashbook.ErrValidation) {
				fmt.Fprintf(os.Stderr, "Skipping product %d (%q): %v\n", i+1, d.Name, err)
				skipped++
				continue
			}
			return added, skipped, err
		}
		added++
	}
	return added, skipped, nil
}

func importLedger(ctx context.Context, b *book, r io.Reader) (added, skipped int, err error) {
	content, err := sheet.ReadLedger(r)
	if err != nil {
		return 0, 0, err
	}
	l, err := cashbook.OpenLedger(ctx, b.store)
	if err != nil {
		return 0, 0, err
	}
	if content.Opening != "" {
		if err := l.SetOpeningBalance(ctx, content.Opening); err != nil {
			return 0, 0, err
		}
	}
	for i, d := range content.Entries {
		if _, err := l.AddEntry(ctx, d); err != nil {
			if errors.Is(err, cashbook.ErrValidation) {
				fmt.Fprintf(os.Stderr, "Skipping entry %d (%q): %v\n", i+1, d.Description, err)
				skipped++
				continue
			}
			return added, skipped, err
		}
		added++
	}
	return added, skipped, nil
}
