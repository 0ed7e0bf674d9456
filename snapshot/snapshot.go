// Package snapshot saves, lists, loads and deletes named JSON snapshots on a
// storage.Backend.
//
// Snapshots of different kinds live side by side in the same flat key space,
// each kind under its own Namespace prefix. Besides named snapshots, the key
// space holds a few reserved keys: one "working copy" per kind, updated after
// every change, and the settings. Reserved keys are never listed as
// snapshots.
package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"slices"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/cashbook/storage"
)

// Namespace is the key prefix of a snapshot kind.
type Namespace string

// Namespaces used by the book. The values match the keys of existing stores
// and must not change.
const (
	InventoryNamespace Namespace = "BalanceApp_main_"
	LedgerNamespace    Namespace = "BalanceApp_menu_"
)

// Reserved keys.
const (
	ProductsKey = "productData" // working copy of the inventory
	LedgerKey   = "menuData"    // working copy of the ledger

	LanguageKey       = "language"
	ThemeKey          = "theme"
	DecimalModeKey    = "conversionMode"
	CurrencySymbolKey = "currencySymbol"
)

var reserved = []string{ProductsKey, LedgerKey, LanguageKey, ThemeKey, DecimalModeKey, CurrencySymbolKey}

// IsReserved reports whether key is a working copy or a settings key.
func IsReserved(key string) bool { return slices.Contains(reserved, key) }

// ErrEmptyName is returned when saving a snapshot without a name.
var ErrEmptyName = errors.New("snapshot name is empty")

// ParseError reports a stored value that is not valid JSON, or that does not
// have the expected shape.
type ParseError struct {
	Key string
	Err error
}

func (e *ParseError) Error() string { return fmt.Sprintf("cannot parse %q: %v", e.Key, e.Err) }
func (e *ParseError) Unwrap() error { return e.Err }

// Store manages snapshots on a backend.
type Store struct {
	backend storage.Backend
}

// New returns a Store on top of backend.
func New(backend storage.Backend) *Store {
	return &Store{backend: backend}
}

// Backend returns the underlying backend.
func (s *Store) Backend() storage.Backend { return s.backend }

func key(ns Namespace, name string) string { return string(ns) + name }

// Save writes payload as JSON under the snapshot name. An existing snapshot
// with the same name is silently replaced.
func (s *Store) Save(ctx context.Context, ns Namespace, name string, payload any) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyName
	}
	if err := s.put(ctx, key(ns, name), payload); err != nil {
		return err
	}
	log.Printf("save-snapshot ns=%q name=%q", ns, name)
	return nil
}

// List returns the names of the snapshots in ns, sorted. Reserved keys are
// never part of the result.
func (s *Store) List(ctx context.Context, ns Namespace) ([]string, error) {
	keys, err := s.backend.Keys(ctx)
	if err != nil {
		return nil, fmt.Errorf("cannot list %q snapshots: %w", ns, err)
	}
	names := []string{}
	for _, k := range keys {
		if IsReserved(k) || !strings.HasPrefix(k, string(ns)) {
			continue
		}
		if name := strings.TrimPrefix(k, string(ns)); name != "" {
			names = append(names, name)
		}
	}
	return names, nil
}

// Search is List restricted to the names containing query, ignoring case.
func (s *Store) Search(ctx context.Context, ns Namespace, query string) ([]string, error) {
	names, err := s.List(ctx, ns)
	if err != nil {
		return nil, err
	}
	query = strings.ToLower(query)
	return slices.DeleteFunc(names, func(name string) bool {
		return !strings.Contains(strings.ToLower(name), query)
	}), nil
}

// Load decodes the snapshot name into v.
//
// It returns an error matching storage.ErrNotFound if the snapshot does not
// exist, and a *ParseError if its content cannot be decoded into v. Load never
// writes to the backend.
func (s *Store) Load(ctx context.Context, ns Namespace, name string, v any) error {
	return s.get(ctx, key(ns, name), v)
}

// Delete removes the snapshot name. Deleting a missing snapshot succeeds.
func (s *Store) Delete(ctx context.Context, ns Namespace, name string) error {
	if err := s.backend.Remove(ctx, key(ns, name)); err != nil {
		return fmt.Errorf("cannot delete snapshot %q: %w", name, err)
	}
	log.Printf("delete-snapshot ns=%q name=%q", ns, name)
	return nil
}

// PutWorking writes the working copy stored under a reserved key.
func (s *Store) PutWorking(ctx context.Context, key string, payload any) error {
	return s.put(ctx, key, payload)
}

// GetWorking decodes the working copy stored under a reserved key, with the
// same errors as Load.
func (s *Store) GetWorking(ctx context.Context, key string, v any) error {
	return s.get(ctx, key, v)
}

// Query evaluates a JSONPath expression (e.g. "$.entries[0].description")
// against the raw content of a snapshot, without decoding it into domain
// types.
func (s *Store) Query(ctx context.Context, ns Namespace, name, path string) (any, error) {
	var doc any
	if err := s.get(ctx, key(ns, name), &doc); err != nil {
		return nil, err
	}
	v, err := jsonpath.Get(path, doc)
	if err != nil {
		return nil, fmt.Errorf("cannot evaluate %q on snapshot %q: %w", path, name, err)
	}
	return v, nil
}

func (s *Store) put(ctx context.Context, key string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("cannot encode %q: %w", key, err)
	}
	if err := s.backend.Set(ctx, key, string(data)); err != nil {
		return fmt.Errorf("cannot write %q: %w", key, err)
	}
	return nil
}

func (s *Store) get(ctx context.Context, key string, v any) error {
	raw, err := s.backend.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("cannot read %q: %w", key, err)
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return &ParseError{Key: key, Err: err}
	}
	return nil
}
