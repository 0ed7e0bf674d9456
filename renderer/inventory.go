package renderer

import (
	"github.com/etnz/cashbook"
)

// InventoryReport is the data of the inventory report.
type InventoryReport struct {
	Title    string
	Products []cashbook.Product
	Totals   cashbook.Totals
}

// Inventory renders products and their aggregate totals.
//
// Profits and losses are displayed as absolute amounts next to their label.
func Inventory(title string, products []cashbook.Product, totals cashbook.Totals, s *cashbook.Settings) string {
	if title == "" {
		title = "Inventory"
	}
	partials := map[string]string{
		"inventory_products": "inventory_products.md",
		"inventory_totals":   "inventory_totals.md",
	}
	return renderTemplate("inventory", "inventory.md", partials, s, &InventoryReport{
		Title:    title,
		Products: products,
		Totals:   totals,
	})
}
