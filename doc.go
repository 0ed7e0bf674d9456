// Package cashbook keeps the books of a small business: a product inventory
// with cost, price and profit figures, and a cash-flow ledger of dated income
// and expense entries with a running balance.
//
// Both books are edited through engines (Inventory and Ledger) that validate
// user input, keep a "working copy" up to date in a snapshot.Store after each
// change, and save or restore named snapshots. The storage itself is pluggable
// (see package storage): a JSON file, a directory, Redis or a SQL table.
//
// Amounts are decimal.Decimal values and are displayed through FormatAmount,
// using the decimal mode and currency symbol of the user's Settings.
//
// This package serves as the foundational logic for the `cb` command-line
// tool.
package cashbook
