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

// resolveID finds the id starting with prefix among ids. The prefix must be
// unambiguous, reports display the first renderer.ShortIDLen characters.
func resolveID(prefix string, ids []string) (string, error) {
	if prefix == "" {
		return "", fmt.Errorf("missing -id")
	}
	var found []string
	for _, id := range ids {
		if id == prefix {
			return id, nil
		}
		if strings.HasPrefix(id, prefix) {
			found = append(found, id)
		}
	}
	switch len(found) {
	case 0:
		return "", fmt.Errorf("no id starts with %q", prefix)
	case 1:
		return found[0], nil
	default:
		return "", fmt.Errorf("%q is ambiguous, %d ids start with it", prefix, len(found))
	}
}

func productIDs(inv *cashbook.Inventory) []string {
	var ids []string
	for _, p := range inv.Products() {
		ids = append(ids, p.ID)
	}
	return ids
}

// productFlags are the flags shared by product-add and product-edit.
type productFlags struct {
	name, qty, cost, price string
}

func (p *productFlags) set(f *flag.FlagSet) {
	f.StringVar(&p.name, "name", "", "Product name.")
	f.StringVar(&p.qty, "qty", "", "Quantity in stock.")
	f.StringVar(&p.cost, "cost", "", "Unit cost.")
	f.StringVar(&p.price, "price", "", "Unit price.")
}

func (p *productFlags) draft() cashbook.ProductDraft {
	return cashbook.ProductDraft{Name: p.name, Quantity: p.qty, Cost: p.cost, Price: p.price}
}

type productAddCmd struct {
	productFlags
}

func (*productAddCmd) Name() string     { return "product-add" }
func (*productAddCmd) Synopsis() string { return "add a product to the inventory" }
func (*productAddCmd) Usage() string {
	return `cb product-add -name <name> -qty <quantity> -cost <unit cost> -price <unit price>

  Adds a product to the inventory. All fields are required. Numbers are read
  leniently: "3 bags" reads 3, and a value that is not a number reads 0.

`
}

func (c *productAddCmd) SetFlags(f *flag.FlagSet) { c.productFlags.set(f) }

func (c *productAddCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	b, err := openBook(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer b.Close()

	inv, err := cashbook.OpenInventory(ctx, b.store)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	p, err := inv.Add(ctx, c.draft())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error adding product: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(stdout, "Added product %s %q (%s)\n", renderer.Short(p.ID), p.Name, p.Classify())
	return subcommands.ExitSuccess
}

type productEditCmd struct {
	id string
	productFlags
}

func (*productEditCmd) Name() string     { return "product-edit" }
func (*productEditCmd) Synopsis() string { return "replace a product of the inventory" }
func (*productEditCmd) Usage() string {
	return `cb product-edit -id <id> [-name <name>] [-qty <quantity>] [-cost <unit cost>] [-price <unit price>]

  Replaces the product. Fields not given keep their current value. The id can
  be shortened to any unambiguous prefix.

`
}

func (c *productEditCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "Id (or id prefix) of the product.")
	c.productFlags.set(f)
}

func (c *productEditCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	b, err := openBook(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer b.Close()

	inv, err := cashbook.OpenInventory(ctx, b.store)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	id, err := resolveID(c.id, productIDs(inv))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	current, _ := inv.Product(id)
	draft := c.draft()
	if draft.Name == "" {
		draft.Name = current.Name
	}
	if draft.Quantity == "" {
		draft.Quantity = fmt.Sprint(current.Quantity)
	}
	if draft.Cost == "" {
		draft.Cost = current.Cost.String()
	}
	if draft.Price == "" {
		draft.Price = current.Price.String()
	}
	if err := inv.Edit(ctx, id, draft); err != nil {
		fmt.Fprintf(os.Stderr, "Error editing product: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(stdout, "Updated product %s\n", renderer.Short(id))
	return subcommands.ExitSuccess
}

type productRmCmd struct {
	id string
}

func (*productRmCmd) Name() string     { return "product-rm" }
func (*productRmCmd) Synopsis() string { return "remove a product from the inventory" }
func (*productRmCmd) Usage() string {
	return `cb product-rm -id <id>

  Removes the product. The id can be shortened to any unambiguous prefix.

`
}

func (c *productRmCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "Id (or id prefix) of the product.")
}

func (c *productRmCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	b, err := openBook(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer b.Close()

	inv, err := cashbook.OpenInventory(ctx, b.store)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	id, err := resolveID(c.id, productIDs(inv))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := inv.Remove(ctx, id); err != nil {
		fmt.Fprintf(os.Stderr, "Error removing product: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(stdout, "Removed product %s\n", renderer.Short(id))
	return subcommands.ExitSuccess
}

type productsCmd struct {
	query string
}

func (*productsCmd) Name() string     { return "products" }
func (*productsCmd) Synopsis() string { return "display the inventory with profits and totals" }
func (*productsCmd) Usage() string {
	return `cb products [-q <query>]

  Displays every product with its line cost, revenue and profit, then the
  totals of the inventory. With -q, only the products whose name contains the
  query (ignoring case) are displayed and totaled.

`
}

func (c *productsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.query, "q", "", "Only display products whose name contains this text.")
}

func (c *productsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	b, err := openBook(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer b.Close()

	inv, err := cashbook.OpenInventory(ctx, b.store)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	title := "Inventory"
	if c.query != "" {
		inv = cashbook.NewInventory(nil, inv.Search(c.query)...)
		title = fmt.Sprintf("Inventory matching %q", c.query)
	}
	b.printMarkdown(renderer.Inventory(title, inv.Products(), inv.Aggregates(), b.settings))
	return subcommands.ExitSuccess
}
