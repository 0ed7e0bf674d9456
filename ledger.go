package cashbook

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log"
	"slices"
	"strings"

	"github.com/etnz/cashbook/snapshot"
	"github.com/etnz/cashbook/storage"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Ledger is the cash-flow book: an opening balance and a list of entries.
//
// Entries are kept in insertion order. The chronological order, used to
// display entries and to compute running balances, is a view sorted by date
// where entries of the same day keep their insertion order.
//
// Like Inventory, every change is written to the working copy of the store,
// and a failed write leaves the change applied in memory.
type Ledger struct {
	store   *snapshot.Store // nil for a purely in-memory ledger
	opening decimal.Decimal
	entries []Entry
}

// NewLedger returns a ledger with an opening balance and entries. It does not
// read store, see OpenLedger.
func NewLedger(store *snapshot.Store, opening decimal.Decimal, entries ...Entry) *Ledger {
	return &Ledger{store: store, opening: opening, entries: append([]Entry{}, entries...)}
}

// OpenLedger returns the ledger held in the working copy of store. A store
// without a working copy opens an empty ledger.
func OpenLedger(ctx context.Context, store *snapshot.Store) (*Ledger, error) {
	l := NewLedger(store, decimal.Zero)
	if store == nil {
		return l, nil
	}
	var data ledgerData
	err := store.GetWorking(ctx, snapshot.LedgerKey, &data)
	if errors.Is(err, storage.ErrNotFound) {
		return l, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot open ledger: %w", err)
	}
	l.opening = data.OpeningBalance
	l.entries = append(l.entries, data.Entries...)
	return l, nil
}

// parseEntry validates a draft: a date and a description are required,
// amounts are read with ParseDecimalOrZero, cannot be negative, and are not
// both zero.
func parseEntry(d EntryDraft) (Entry, error) {
	if d.Date.IsZero() {
		return Entry{}, invalid("date", "required")
	}
	if strings.TrimSpace(d.Description) == "" {
		return Entry{}, invalid("description", "required")
	}
	e := Entry{
		Date:        d.Date,
		Description: strings.TrimSpace(d.Description),
		Income:      ParseDecimalOrZero(d.Income),
		Expense:     ParseDecimalOrZero(d.Expense),
	}
	if e.Income.IsNegative() {
		return Entry{}, invalid("income", "negative amount")
	}
	if e.Expense.IsNegative() {
		return Entry{}, invalid("expense", "negative amount")
	}
	if e.Income.IsZero() && e.Expense.IsZero() {
		return Entry{}, invalid("amount", "income or expense is required")
	}
	return e, nil
}

// AddEntry creates an entry from draft, with a new id, at the end of the
// insertion order.
func (l *Ledger) AddEntry(ctx context.Context, draft EntryDraft) (Entry, error) {
	e, err := parseEntry(draft)
	if err != nil {
		return Entry{}, err
	}
	e.ID = uuid.NewString()
	l.entries = append(l.entries, e)
	return e, l.persist(ctx)
}

// EditEntry replaces the entry id by draft, keeping its id and its place in
// the insertion order. Editing an unknown id does nothing.
func (l *Ledger) EditEntry(ctx context.Context, id string, draft EntryDraft) error {
	e, err := parseEntry(draft)
	if err != nil {
		return err
	}
	e.ID = id
	found := false
	for i := range l.entries {
		if l.entries[i].ID == id {
			l.entries[i] = e
			found = true
		}
	}
	if !found {
		return nil
	}
	return l.persist(ctx)
}

// RemoveEntry deletes the entry id. Removing an unknown id does nothing.
func (l *Ledger) RemoveEntry(ctx context.Context, id string) error {
	n := len(l.entries)
	l.entries = slices.DeleteFunc(l.entries, func(e Entry) bool { return e.ID == id })
	if len(l.entries) == n {
		return nil
	}
	return l.persist(ctx)
}

// SetOpeningBalance sets the opening balance, read with ParseDecimalOrZero.
func (l *Ledger) SetOpeningBalance(ctx context.Context, raw string) error {
	l.opening = ParseDecimalOrZero(raw)
	return l.persist(ctx)
}

// OpeningBalance returns the balance before the first entry.
func (l *Ledger) OpeningBalance() decimal.Decimal { return l.opening }

// Len returns the number of entries.
func (l *Ledger) Len() int { return len(l.entries) }

// Entry returns the entry id.
func (l *Ledger) Entry(id string) (Entry, bool) {
	i := slices.IndexFunc(l.entries, func(e Entry) bool { return e.ID == id })
	if i < 0 {
		return Entry{}, false
	}
	return l.entries[i], true
}

// Entries iterates over entries in insertion order.
func (l *Ledger) Entries() iter.Seq2[int, Entry] {
	return slices.All(l.entries)
}

// chronological returns a sorted copy of the entries.
func (l *Ledger) chronological() []Entry {
	sorted := slices.Clone(l.entries)
	slices.SortStableFunc(sorted, func(a, b Entry) int { return a.Date.Compare(b.Date) })
	return sorted
}

// Chronological iterates over entries by date, entries of the same day in
// insertion order. The sort happens each time the sequence is iterated, and
// never changes the ledger.
func (l *Ledger) Chronological() iter.Seq2[int, Entry] {
	return func(yield func(int, Entry) bool) {
		for i, e := range l.chronological() {
			if !yield(i, e) {
				return
			}
		}
	}
}

// RunningBalance returns the balance after the i-th entry of the
// chronological order: the opening balance plus the daily balances of
// entries 0 to i. It returns false if there is no such entry.
func (l *Ledger) RunningBalance(i int) (decimal.Decimal, bool) {
	if i < 0 || i >= len(l.entries) {
		return decimal.Decimal{}, false
	}
	balance := l.opening
	for _, e := range l.chronological()[:i+1] {
		balance = balance.Add(e.DailyBalance())
	}
	return balance, true
}

// Balances iterates over entries in chronological order with the running
// balance after each.
func (l *Ledger) Balances() iter.Seq2[Entry, decimal.Decimal] {
	return func(yield func(Entry, decimal.Decimal) bool) {
		balance := l.opening
		for _, e := range l.chronological() {
			balance = balance.Add(e.DailyBalance())
			if !yield(e, balance) {
				return
			}
		}
	}
}

// Summary returns the totals of the ledger.
func (l *Ledger) Summary() LedgerSummary {
	s := LedgerSummary{Opening: l.opening, Income: decimal.Zero, Expense: decimal.Zero}
	for _, e := range l.entries {
		s.Income = s.Income.Add(e.Income)
		s.Expense = s.Expense.Add(e.Expense)
	}
	s.Closing = s.Opening.Add(s.Income).Sub(s.Expense)
	return s
}

// Save saves the ledger as the snapshot name.
func (l *Ledger) Save(ctx context.Context, name string) error {
	if l.store == nil {
		return ErrNoStore
	}
	return l.store.Save(ctx, snapshot.LedgerNamespace, name, l.data())
}

// Load replaces the ledger by the snapshot name, and makes it the working
// copy. On failure the ledger is left unchanged.
func (l *Ledger) Load(ctx context.Context, name string) error {
	if l.store == nil {
		return ErrNoStore
	}
	var data ledgerData
	if err := l.store.Load(ctx, snapshot.LedgerNamespace, name, &data); err != nil {
		return fmt.Errorf("cannot load ledger %q: %w", name, err)
	}
	if data.Entries == nil {
		data.Entries = []Entry{}
	}
	if err := l.store.PutWorking(ctx, snapshot.LedgerKey, data); err != nil {
		return fmt.Errorf("cannot load ledger %q: %w", name, err)
	}
	l.opening, l.entries = data.OpeningBalance, data.Entries
	log.Printf("load-ledger name=%q entries=%d", name, len(data.Entries))
	return nil
}

// Snapshots lists the saved ledgers.
func (l *Ledger) Snapshots(ctx context.Context) ([]string, error) {
	if l.store == nil {
		return nil, ErrNoStore
	}
	return l.store.List(ctx, snapshot.LedgerNamespace)
}

// DeleteSnapshot deletes the saved ledger name.
func (l *Ledger) DeleteSnapshot(ctx context.Context, name string) error {
	if l.store == nil {
		return ErrNoStore
	}
	return l.store.Delete(ctx, snapshot.LedgerNamespace, name)
}

func (l *Ledger) data() ledgerData {
	return ledgerData{OpeningBalance: l.opening, Entries: append([]Entry{}, l.entries...)}
}

// persist writes the working copy.
func (l *Ledger) persist(ctx context.Context) error {
	if l.store == nil {
		return nil
	}
	if err := l.store.PutWorking(ctx, snapshot.LedgerKey, l.data()); err != nil {
		return fmt.Errorf("ledger changed but not saved: %w", err)
	}
	return nil
}
