package cashbook

import (
	"context"
	"errors"
	"fmt"
	"log"
	"slices"
	"strings"

	"github.com/etnz/cashbook/snapshot"
	"github.com/etnz/cashbook/storage"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Inventory is the product book.
//
// Every change is written to the working copy of the store. When that write
// fails, the change stays applied in memory and the error is returned: the
// caller knows the inventory on disk is behind.
type Inventory struct {
	store    *snapshot.Store // nil for a purely in-memory inventory
	products []Product
}

// NewInventory returns an inventory holding products. It does not read
// store, see OpenInventory.
func NewInventory(store *snapshot.Store, products ...Product) *Inventory {
	return &Inventory{store: store, products: append([]Product{}, products...)}
}

// OpenInventory returns the inventory held in the working copy of store. A
// store without a working copy opens an empty inventory.
func OpenInventory(ctx context.Context, store *snapshot.Store) (*Inventory, error) {
	inv := NewInventory(store)
	if store == nil {
		return inv, nil
	}
	var products []Product
	err := store.GetWorking(ctx, snapshot.ProductsKey, &products)
	if errors.Is(err, storage.ErrNotFound) {
		return inv, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot open inventory: %w", err)
	}
	inv.products = append(inv.products, products...)
	return inv, nil
}

// parseProduct validates a draft. Every field is required, then numbers are
// read with ParseIntOrZero and ParseDecimalOrZero.
func parseProduct(d ProductDraft) (Product, error) {
	fields := []struct{ name, value string }{
		{"name", d.Name}, {"quantity", d.Quantity}, {"cost", d.Cost}, {"price", d.Price},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return Product{}, invalid(f.name, "required")
		}
	}
	p := Product{
		Name:     strings.TrimSpace(d.Name),
		Quantity: ParseIntOrZero(d.Quantity),
		Cost:     ParseDecimalOrZero(d.Cost),
		Price:    ParseDecimalOrZero(d.Price),
	}
	if p.Quantity < 0 {
		return Product{}, invalid("quantity", fmt.Sprintf("%d is negative", p.Quantity))
	}
	return p.withTotals(), nil
}

// Add creates a product from draft, with a new id.
func (inv *Inventory) Add(ctx context.Context, draft ProductDraft) (Product, error) {
	p, err := parseProduct(draft)
	if err != nil {
		return Product{}, err
	}
	p.ID = uuid.NewString()
	inv.products = append(inv.products, p)
	return p, inv.persist(ctx)
}

// Edit replaces the product id by draft. Editing an unknown id does nothing.
func (inv *Inventory) Edit(ctx context.Context, id string, draft ProductDraft) error {
	p, err := parseProduct(draft)
	if err != nil {
		return err
	}
	p.ID = id
	found := false
	for i := range inv.products {
		if inv.products[i].ID == id {
			inv.products[i] = p
			found = true
		}
	}
	if !found {
		return nil
	}
	return inv.persist(ctx)
}

// Remove deletes the product id. Removing an unknown id does nothing.
func (inv *Inventory) Remove(ctx context.Context, id string) error {
	n := len(inv.products)
	inv.products = slices.DeleteFunc(inv.products, func(p Product) bool { return p.ID == id })
	if len(inv.products) == n {
		return nil
	}
	return inv.persist(ctx)
}

// Products returns a copy of the products, in insertion order.
func (inv *Inventory) Products() []Product { return slices.Clone(inv.products) }

// Product returns the product id.
func (inv *Inventory) Product(id string) (Product, bool) {
	i := slices.IndexFunc(inv.products, func(p Product) bool { return p.ID == id })
	if i < 0 {
		return Product{}, false
	}
	return inv.products[i], true
}

// Len returns the number of products.
func (inv *Inventory) Len() int { return len(inv.products) }

// Aggregates sums the stored totals of every product.
func (inv *Inventory) Aggregates() Totals {
	t := Totals{TotalCost: decimal.Zero, TotalRevenue: decimal.Zero}
	for _, p := range inv.products {
		t.TotalCost = t.TotalCost.Add(p.TotalCost)
		t.TotalRevenue = t.TotalRevenue.Add(p.TotalPrice)
	}
	t.TotalProfit = t.TotalRevenue.Sub(t.TotalCost)
	return t
}

// Search returns the products whose name contains query, ignoring case.
func (inv *Inventory) Search(query string) []Product {
	query = strings.ToLower(query)
	var found []Product
	for _, p := range inv.products {
		if strings.Contains(strings.ToLower(p.Name), query) {
			found = append(found, p)
		}
	}
	return found
}

// Save saves the inventory as the snapshot name.
func (inv *Inventory) Save(ctx context.Context, name string) error {
	if inv.store == nil {
		return ErrNoStore
	}
	return inv.store.Save(ctx, snapshot.InventoryNamespace, name, inv.snapshot())
}

// Load replaces the inventory by the snapshot name, and makes it the working
// copy. On failure the inventory is left unchanged.
func (inv *Inventory) Load(ctx context.Context, name string) error {
	if inv.store == nil {
		return ErrNoStore
	}
	var products []Product
	if err := inv.store.Load(ctx, snapshot.InventoryNamespace, name, &products); err != nil {
		return fmt.Errorf("cannot load inventory %q: %w", name, err)
	}
	if products == nil {
		products = []Product{}
	}
	if err := inv.store.PutWorking(ctx, snapshot.ProductsKey, products); err != nil {
		return fmt.Errorf("cannot load inventory %q: %w", name, err)
	}
	inv.products = products
	log.Printf("load-inventory name=%q products=%d", name, len(products))
	return nil
}

// Snapshots lists the saved inventories.
func (inv *Inventory) Snapshots(ctx context.Context) ([]string, error) {
	if inv.store == nil {
		return nil, ErrNoStore
	}
	return inv.store.List(ctx, snapshot.InventoryNamespace)
}

// DeleteSnapshot deletes the saved inventory name.
func (inv *Inventory) DeleteSnapshot(ctx context.Context, name string) error {
	if inv.store == nil {
		return ErrNoStore
	}
	return inv.store.Delete(ctx, snapshot.InventoryNamespace, name)
}

func (inv *Inventory) snapshot() []Product {
	return append([]Product{}, inv.products...)
}

// persist writes the working copy.
func (inv *Inventory) persist(ctx context.Context) error {
	if inv.store == nil {
		return nil
	}
	if err := inv.store.PutWorking(ctx, snapshot.ProductsKey, inv.snapshot()); err != nil {
		return fmt.Errorf("inventory changed but not saved: %w", err)
	}
	return nil
}
