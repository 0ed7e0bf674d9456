package renderer

import (
	"github.com/etnz/cashbook"
	"github.com/etnz/cashbook/date"
	"github.com/shopspring/decimal"
)

// LedgerRow is an entry with the running balance after it.
type LedgerRow struct {
	cashbook.Entry
	Balance decimal.Decimal
}

// LedgerReport is the data of the ledger report, restricted to a range of days.
type LedgerReport struct {
	Title   string
	Range   date.Range
	Opening decimal.Decimal // balance before the first row
	Rows    []LedgerRow
	Income  decimal.Decimal
	Expense decimal.Decimal
	Closing decimal.Decimal // balance after the last row
}

// NewLedgerReport computes the report of l over the days in r.
//
// Running balances are always those of the whole ledger: entries before r
// are folded into the opening balance of the report.
func NewLedgerReport(title string, l *cashbook.Ledger, r date.Range) *LedgerReport {
	if title == "" {
		title = "Ledger"
	}
	rep := &LedgerReport{
		Title:   title,
		Range:   r,
		Opening: l.OpeningBalance(),
		Income:  decimal.Zero,
		Expense: decimal.Zero,
	}
	rep.Closing = rep.Opening
	for e, balance := range l.Balances() {
		switch {
		case !r.From.IsZero() && e.Date.Before(r.From):
			rep.Opening, rep.Closing = balance, balance
		case r.Contains(e.Date):
			rep.Rows = append(rep.Rows, LedgerRow{Entry: e, Balance: balance})
			rep.Income = rep.Income.Add(e.Income)
			rep.Expense = rep.Expense.Add(e.Expense)
			rep.Closing = balance
		}
	}
	return rep
}

// Ledger renders the entries of l within r in chronological order, with their
// daily and running balances. Use the zero Range for the whole ledger.
func Ledger(title string, l *cashbook.Ledger, r date.Range, s *cashbook.Settings) string {
	return RenderLedger(NewLedgerReport(title, l, r), s)
}

// RenderLedger renders a LedgerReport to a markdown string.
func RenderLedger(rep *LedgerReport, s *cashbook.Settings) string {
	partials := map[string]string{
		"ledger_entries": "ledger_entries.md",
		"ledger_summary": "ledger_summary.md",
	}
	return renderTemplate("ledger", "ledger.md", partials, s, rep)
}
