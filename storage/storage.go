// Package storage defines the flat key-value contract every cashbook backend
// honors, and its implementations.
//
// Keys map to string values. Whatever the physical medium (a map in memory, a
// JSON document, a directory of files, a Redis server or a SQL table) a
// backend must behave the same: a Set is observed by the next Get, Keys lists
// exactly the keys Set and not yet Removed, and Remove of an absent key
// succeeds.
package storage

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotFound is returned by Get when the key does not exist.
var ErrNotFound = errors.New("key not found")

// Backend is a flat key-value store.
type Backend interface {
	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error
	// Get returns the value stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) (string, error)
	// Keys returns all the keys currently stored, sorted.
	Keys(ctx context.Context) ([]string, error)
	// Remove deletes key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error
}

// Error reports a failure of the underlying medium (I/O, permission, network).
//
// It never wraps ErrNotFound: a missing key and a broken backend are
// distinct conditions.
type Error struct {
	Op  string // "set", "get", "keys" or "remove"
	Key string // empty for "keys"
	Err error
}

func (e *Error) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("storage %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func wrap(op, key string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Key: key, Err: err}
}
