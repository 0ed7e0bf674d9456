package cashbook

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/etnz/cashbook/date"
	"github.com/shopspring/decimal"
)

func init() {
	// amounts are written as JSON numbers, the way the stores have always held them.
	decimal.MarshalJSONWithoutQuotes = true
}

// This file contains the JSON codec of the books.
//
// Products, entries and the ledger are written with their struct tags. They
// are read back through dedicated local structs whose numeric fields are
// "loose": older saves hold numbers as strings ("12.5") or omit them, and
// they must still load.

// loose is a number read leniently: a JSON number, a string read with
// ParseDecimalOrZero, or null.
type loose struct {
	decimal.Decimal
}

func (l *loose) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		l.Decimal = decimal.Zero
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		l.Decimal = ParseDecimalOrZero(s)
	default:
		d, err := decimal.NewFromString(string(data))
		if err != nil {
			return fmt.Errorf("invalid number %s: %w", data, err)
		}
		l.Decimal = d
	}
	return nil
}

// UnmarshalJSON reads a product.
func (p *Product) UnmarshalJSON(data []byte) error {
	var jp struct {
		ID         string `json:"id"`
		Name       string `json:"name"`
		Quantity   loose  `json:"quantity"`
		Cost       loose  `json:"cost"`
		Price      loose  `json:"price"`
		TotalCost  *loose `json:"totalCost"`
		TotalPrice *loose `json:"totalPrice"`
	}
	if err := json.Unmarshal(data, &jp); err != nil {
		return err
	}
	*p = Product{
		ID:       jp.ID,
		Name:     jp.Name,
		Quantity: int(jp.Quantity.IntPart()),
		Cost:     jp.Cost.Decimal,
		Price:    jp.Price.Decimal,
	}
	// Missing totals count as zero in the aggregates, as they always did.
	if jp.TotalCost != nil {
		p.TotalCost = jp.TotalCost.Decimal
	}
	if jp.TotalPrice != nil {
		p.TotalPrice = jp.TotalPrice.Decimal
	}
	return nil
}

// UnmarshalJSON reads a ledger entry. Entries of the first releases use
// the fecha, descripcion, ingresos and egresos keys; they are read when the
// current keys are missing.
func (e *Entry) UnmarshalJSON(data []byte) error {
	var je struct {
		ID          string    `json:"id"`
		Date        date.Date `json:"date"`
		Description *string   `json:"description"`
		Income      *loose    `json:"income"`
		Expense     *loose    `json:"expense"`

		Fecha       date.Date `json:"fecha"`
		Descripcion string    `json:"descripcion"`
		Ingresos    *loose    `json:"ingresos"`
		Egresos     *loose    `json:"egresos"`
	}
	if err := json.Unmarshal(data, &je); err != nil {
		return err
	}
	*e = Entry{
		ID:          je.ID,
		Date:        je.Date,
		Description: je.Descripcion,
		Income:      firstOf(je.Income, je.Ingresos),
		Expense:     firstOf(je.Expense, je.Egresos),
	}
	if e.Date.IsZero() {
		e.Date = je.Fecha
	}
	if je.Description != nil {
		e.Description = *je.Description
	}
	return nil
}

// firstOf returns the first number present, or zero.
func firstOf(numbers ...*loose) decimal.Decimal {
	for _, n := range numbers {
		if n != nil {
			return n.Decimal
		}
	}
	return decimal.Zero
}

// ledgerData is the persisted form of a Ledger, both as working copy and as
// snapshot.
type ledgerData struct {
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	Entries        []Entry         `json:"entries"`
}

func (d *ledgerData) UnmarshalJSON(data []byte) error {
	var jd struct {
		OpeningBalance *loose  `json:"openingBalance"`
		SaldoInicial   *loose  `json:"saldoInicial"` // first releases, with Spanish entry keys
		Entries        []Entry `json:"entries"`
	}
	if err := json.Unmarshal(data, &jd); err != nil {
		return err
	}
	switch {
	case jd.OpeningBalance != nil:
		d.OpeningBalance = jd.OpeningBalance.Decimal
	case jd.SaldoInicial != nil:
		d.OpeningBalance = jd.SaldoInicial.Decimal
	default:
		d.OpeningBalance = decimal.Zero
	}
	d.Entries = jd.Entries
	return nil
}
