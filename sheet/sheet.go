// Package sheet exports the books to .xlsx spreadsheets and reads products
// and entries back from them.
//
// Reading is lenient: the first row is skipped when it looks like a header,
// blank rows are ignored and cells are returned as drafts, so that the
// engines validate them like any other user input.
package sheet

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/etnz/cashbook"
	"github.com/etnz/cashbook/date"
	"github.com/xuri/excelize/v2"
)

// Sheet names.
const (
	InventorySheet = "Inventory"
	LedgerSheet    = "Ledger"
)

var (
	inventoryHeader = []any{"Product", "Quantity", "Unit Cost", "Unit Price", "Total Cost", "Total Price"}
	ledgerHeader    = []any{"Date", "Description", "Income", "Expense", "Daily", "Balance"}
)

// openingLabel marks the opening balance row of a ledger sheet.
const openingLabel = "Opening balance"

// newFile returns a workbook with a single sheet named name.
func newFile(name string) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), name); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

// writeRows writes rows on sheet, starting at A1.
func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("cannot write row %d: %w", i+1, err)
		}
	}
	return nil
}

// WriteInventory writes products as an .xlsx workbook to w.
func WriteInventory(w io.Writer, products []cashbook.Product) error {
	f, err := newFile(InventorySheet)
	if err != nil {
		return err
	}
	defer f.Close()

	rows := [][]any{inventoryHeader}
	for _, p := range products {
		rows = append(rows, []any{
			p.Name,
			p.Quantity,
			p.Cost.InexactFloat64(),
			p.Price.InexactFloat64(),
			p.TotalCost.InexactFloat64(),
			p.TotalPrice.InexactFloat64(),
		})
	}
	if err := writeRows(f, InventorySheet, rows); err != nil {
		return err
	}
	f.SetColWidth(InventorySheet, "A", "A", 30)
	return f.Write(w)
}

// WriteLedger writes the ledger, in chronological order with running
// balances, as an .xlsx workbook to w. The first row after the header holds
// the opening balance.
func WriteLedger(w io.Writer, l *cashbook.Ledger) error {
	f, err := newFile(LedgerSheet)
	if err != nil {
		return err
	}
	defer f.Close()

	rows := [][]any{
		ledgerHeader,
		{"", openingLabel, nil, nil, nil, l.OpeningBalance().InexactFloat64()},
	}
	for e, balance := range l.Balances() {
		rows = append(rows, []any{
			e.Date.String(),
			e.Description,
			e.Income.InexactFloat64(),
			e.Expense.InexactFloat64(),
			e.DailyBalance().InexactFloat64(),
			balance.InexactFloat64(),
		})
	}
	if err := writeRows(f, LedgerSheet, rows); err != nil {
		return err
	}
	f.SetColWidth(LedgerSheet, "B", "B", 40)
	return f.Write(w)
}

// readRows returns the non blank rows of the first sheet of the workbook in r,
// without the header. Each row is numbered as in the spreadsheet.
func readRows(r io.Reader, header string) ([]row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("cannot read workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheet")
	}
	all, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("cannot read sheet %q: %w", sheets[0], err)
	}

	var rows []row
	for i, cells := range all {
		if i == 0 && len(cells) > 0 && strings.EqualFold(strings.TrimSpace(cells[0]), header) {
			continue
		}
		r := row{n: i + 1, cells: cells}
		if r.blank() {
			continue
		}
		rows = append(rows, r)
	}
	return rows, nil
}

type row struct {
	n     int
	cells []string
}

// cell returns the trimmed i-th cell, or "" past the end of the row.
func (r row) cell(i int) string {
	if i >= len(r.cells) {
		return ""
	}
	return strings.TrimSpace(r.cells[i])
}

func (r row) blank() bool {
	for i := range r.cells {
		if r.cell(i) != "" {
			return false
		}
	}
	return true
}

// ReadProducts reads product drafts from the first sheet of the workbook in
// r: name, quantity, unit cost and unit price in the first four columns.
func ReadProducts(r io.Reader) ([]cashbook.ProductDraft, error) {
	rows, err := readRows(r, inventoryHeader[0].(string))
	if err != nil {
		return nil, err
	}
	drafts := make([]cashbook.ProductDraft, 0, len(rows))
	for _, row := range rows {
		drafts = append(drafts, cashbook.ProductDraft{
			Name:     row.cell(0),
			Quantity: row.cell(1),
			Cost:     row.cell(2),
			Price:    row.cell(3),
		})
	}
	return drafts, nil
}

// Ledger is the content of a ledger sheet.
type Ledger struct {
	Opening string // raw opening balance, "" if the sheet has none
	Entries []cashbook.EntryDraft
}

// ReadLedger reads entry drafts from the first sheet of the workbook in r:
// date, description, income and expense in the first four columns. A row
// labelled "Opening balance" without a date, as written by WriteLedger, sets
// the opening balance from its last column.
func ReadLedger(r io.Reader) (*Ledger, error) {
	rows, err := readRows(r, ledgerHeader[0].(string))
	if err != nil {
		return nil, err
	}
	l := &Ledger{}
	for _, row := range rows {
		if row.cell(0) == "" && strings.EqualFold(row.cell(1), openingLabel) {
			l.Opening = row.cell(len(ledgerHeader) - 1)
			continue
		}
		day, err := parseDay(row.cell(0))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row.n, err)
		}
		l.Entries = append(l.Entries, cashbook.EntryDraft{
			Date:        day,
			Description: row.cell(1),
			Income:      row.cell(2),
			Expense:     row.cell(3),
		})
	}
	return l, nil
}

// parseDay reads a date cell, either as text or as a spreadsheet serial
// number.
func parseDay(s string) (date.Date, error) {
	if d, err := date.Parse(s); err == nil {
		return d, nil
	}
	serial, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return date.Date{}, fmt.Errorf("invalid date %q", s)
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return date.Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return date.New(t.Date()), nil
}
