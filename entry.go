package cashbook

import (
	"github.com/etnz/cashbook/date"
	"github.com/shopspring/decimal"
)

// Entry is a dated cash movement of the ledger.
type Entry struct {
	ID          string          `json:"id"`
	Date        date.Date       `json:"date"`
	Description string          `json:"description"`
	Income      decimal.Decimal `json:"income"`
	Expense     decimal.Decimal `json:"expense"`
}

// DailyBalance is Income - Expense.
func (e Entry) DailyBalance() decimal.Decimal { return e.Income.Sub(e.Expense) }

// EntryDraft is an entry as typed by the user, before parsing.
type EntryDraft struct {
	Date        date.Date
	Description string
	Income      string
	Expense     string
}

// LedgerSummary holds the totals of a ledger.
type LedgerSummary struct {
	Opening decimal.Decimal
	Income  decimal.Decimal
	Expense decimal.Decimal
	Closing decimal.Decimal // Opening + Income - Expense
}
