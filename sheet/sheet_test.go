package sheet

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/etnz/cashbook"
	"github.com/etnz/cashbook/date"
	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

func TestInventoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	inv := cashbook.NewInventory(nil)
	inv.Add(ctx, cashbook.ProductDraft{Name: "Coffee", Quantity: "3", Cost: "2.5", Price: "4"})
	inv.Add(ctx, cashbook.ProductDraft{Name: "Cups", Quantity: "100", Cost: "0.1", Price: "0.25"})

	var buf bytes.Buffer
	if err := WriteInventory(&buf, inv.Products()); err != nil {
		t.Fatalf("WriteInventory: %v", err)
	}
	drafts, err := ReadProducts(&buf)
	if err != nil {
		t.Fatalf("ReadProducts: %v", err)
	}

	restored := cashbook.NewInventory(nil)
	for _, d := range drafts {
		if _, err := restored.Add(ctx, d); err != nil {
			t.Fatalf("Add(%+v): %v", d, err)
		}
	}
	// Ids are new, everything else survives.
	strip := func(ps []cashbook.Product) []cashbook.Product {
		for i := range ps {
			ps[i].ID = ""
		}
		return ps
	}
	if diff := cmp.Diff(strip(inv.Products()), strip(restored.Products())); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestLedgerRoundTrip(t *testing.T) {
	ctx := context.Background()
	l := cashbook.NewLedger(nil, decimal.NewFromInt(100))
	l.AddEntry(ctx, cashbook.EntryDraft{Date: date.MustParse("2024-01-02"), Description: "sales", Income: "50"})
	l.AddEntry(ctx, cashbook.EntryDraft{Date: date.MustParse("2024-01-01"), Description: "rent", Expense: "20.5"})

	var buf bytes.Buffer
	if err := WriteLedger(&buf, l); err != nil {
		t.Fatalf("WriteLedger: %v", err)
	}
	got, err := ReadLedger(&buf)
	if err != nil {
		t.Fatalf("ReadLedger: %v", err)
	}
	if got.Opening != "100" {
		t.Errorf("Opening = %q, want 100", got.Opening)
	}
	want := []cashbook.EntryDraft{
		{Date: date.MustParse("2024-01-01"), Description: "rent", Income: "0", Expense: "20.5"},
		{Date: date.MustParse("2024-01-02"), Description: "sales", Income: "50", Expense: "0"},
	}
	if diff := cmp.Diff(want, got.Entries); diff != "" {
		t.Errorf("entries mismatch (-want +got):\n%s", diff)
	}
}

// workbook builds an .xlsx with rows on its first sheet.
func workbook(t *testing.T, rows [][]any) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	if err := writeRows(f, f.GetSheetName(0), rows); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatal(err)
	}
	return &buf
}

func TestReadProductsLenient(t *testing.T) {
	buf := workbook(t, [][]any{
		{"Tea", "2"}, // no header, missing cells
		{},
		{"  Rice ", 5, 1.5, 2},
	})
	got, err := ReadProducts(buf)
	if err != nil {
		t.Fatal(err)
	}
	want := []cashbook.ProductDraft{
		{Name: "Tea", Quantity: "2"},
		{Name: "Rice", Quantity: "5", Cost: "1.5", Price: "2"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ReadProducts mismatch (-want +got):\n%s", diff)
	}
}

func TestReadLedgerDates(t *testing.T) {
	buf := workbook(t, [][]any{
		{"date", "description", "income", "expense"},
		{"2024-3-1", "text date", "10"},
		{45292, "serial date", "", "5"},
	})
	got, err := ReadLedger(buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Entries) != 2 {
		t.Fatalf("entries = %v", got.Entries)
	}
	if d := got.Entries[0].Date; d != date.MustParse("2024-03-01") {
		t.Errorf("text date = %v", d)
	}
	if d := got.Entries[1].Date; d != date.MustParse("2024-01-01") {
		t.Errorf("serial date = %v", d)
	}

	_, err = ReadLedger(workbook(t, [][]any{{"yesterday", "x", "1"}}))
	if err == nil || !strings.Contains(err.Error(), "row 1") {
		t.Errorf("ReadLedger error = %v, want the row number", err)
	}
}

func TestReadGarbage(t *testing.T) {
	if _, err := ReadProducts(strings.NewReader("not a workbook")); err == nil {
		t.Error("ReadProducts must fail on a non workbook")
	}
}
