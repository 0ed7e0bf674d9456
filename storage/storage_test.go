package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

// testBackend runs the behavior every Backend must share.
func testBackend(t *testing.T, b Backend) {
	t.Helper()
	ctx := context.Background()

	t.Run("get missing", func(t *testing.T) {
		_, err := b.Get(ctx, "missing")
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("Get(missing) error = %v, want ErrNotFound", err)
		}
		var serr *Error
		if errors.As(err, &serr) {
			t.Errorf("Get(missing) must not be a storage error: %v", err)
		}
	})

	t.Run("set then get", func(t *testing.T) {
		values := map[string]string{
			"productData":           `[{"id":"1","name":"Pen"}]`,
			"BalanceApp_main_april": `[]`,
			"language":              "es",
			"unicode":               "señal €",
		}
		for k, v := range values {
			if err := b.Set(ctx, k, v); err != nil {
				t.Fatalf("Set(%q) error: %v", k, err)
			}
		}
		for k, want := range values {
			got, err := b.Get(ctx, k)
			if err != nil {
				t.Fatalf("Get(%q) error: %v", k, err)
			}
			if got != want {
				t.Errorf("Get(%q) = %q, want %q", k, got, want)
			}
		}
	})

	t.Run("overwrite", func(t *testing.T) {
		if err := b.Set(ctx, "theme", "light"); err != nil {
			t.Fatal(err)
		}
		if err := b.Set(ctx, "theme", "dark"); err != nil {
			t.Fatal(err)
		}
		got, err := b.Get(ctx, "theme")
		if err != nil {
			t.Fatal(err)
		}
		if got != "dark" {
			t.Errorf("Get(theme) = %q, want last write %q", got, "dark")
		}
	})

	t.Run("keys reflect set and remove", func(t *testing.T) {
		if err := b.Remove(ctx, "unicode"); err != nil {
			t.Fatalf("Remove(unicode) error: %v", err)
		}
		keys, err := b.Keys(ctx)
		if err != nil {
			t.Fatalf("Keys() error: %v", err)
		}
		want := []string{"BalanceApp_main_april", "language", "productData", "theme"}
		if !slices.Equal(keys, want) {
			t.Errorf("Keys() = %v, want %v", keys, want)
		}
	})

	t.Run("keys with path separators", func(t *testing.T) {
		odd := []string{"BalanceApp_main_2024/01", `BalanceApp_menu_a\b`, "BalanceApp_main_50%2F", "BalanceApp_main_.."}
		for _, k := range odd {
			if err := b.Set(ctx, k, k); err != nil {
				t.Fatalf("Set(%q) error: %v", k, err)
			}
			got, err := b.Get(ctx, k)
			if err != nil {
				t.Fatalf("Get(%q) error: %v", k, err)
			}
			if got != k {
				t.Errorf("Get(%q) = %q", k, got)
			}
		}
		keys, err := b.Keys(ctx)
		if err != nil {
			t.Fatal(err)
		}
		for _, k := range odd {
			if !slices.Contains(keys, k) {
				t.Errorf("Keys() = %v, missing %q", keys, k)
			}
			if err := b.Remove(ctx, k); err != nil {
				t.Errorf("Remove(%q) error: %v", k, err)
			}
		}
	})

	t.Run("remove is idempotent", func(t *testing.T) {
		if err := b.Remove(ctx, "never-set"); err != nil {
			t.Errorf("Remove(never-set) error: %v", err)
		}
		if err := b.Remove(ctx, "language"); err != nil {
			t.Errorf("Remove(language) error: %v", err)
		}
		if err := b.Remove(ctx, "language"); err != nil {
			t.Errorf("second Remove(language) error: %v", err)
		}
		if _, err := b.Get(ctx, "language"); !errors.Is(err, ErrNotFound) {
			t.Errorf("Get after Remove error = %v, want ErrNotFound", err)
		}
	})
}

func TestMap(t *testing.T) {
	testBackend(t, NewMap())
}

func TestFile(t *testing.T) {
	testBackend(t, NewFile(filepath.Join(t.TempDir(), "store.json")))
}

func TestDir(t *testing.T) {
	testBackend(t, NewDir(filepath.Join(t.TempDir(), "book")))
}

func TestDirLayout(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	d := NewDir(root)

	if err := d.Set(ctx, "menuData", `{"openingBalance":100}`); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(filepath.Join(root, "menuData.json"))
	if err != nil {
		t.Fatalf("value must be stored in <key>.json: %v", err)
	}
	if string(data) != `{"openingBalance":100}` {
		t.Errorf("file content = %q, want the value verbatim", data)
	}

	// Foreign files are not keys.
	if err := os.WriteFile(filepath.Join(root, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(filepath.Join(root, "sub.json"), 0o755); err != nil {
		t.Fatal(err)
	}
	keys, err := d.Keys(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(keys, []string{"menuData"}) {
		t.Errorf("Keys() = %v, want [menuData]", keys)
	}

	// Separators never leave the root folder.
	if err := d.Set(ctx, "../escape", "x"); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(root, "..%2Fescape.json")); err != nil {
		t.Errorf("key ../escape must be stored in the root folder: %v", err)
	}
	if _, err := os.Stat(filepath.Join(filepath.Dir(root), "escape.json")); err == nil {
		t.Error("key ../escape was written outside the root folder")
	}
}

func TestDirMissingRoot(t *testing.T) {
	d := NewDir(filepath.Join(t.TempDir(), "does", "not", "exist"))
	keys, err := d.Keys(context.Background())
	if err != nil {
		t.Fatalf("Keys() on a missing folder error: %v", err)
	}
	if len(keys) != 0 {
		t.Errorf("Keys() = %v, want none", keys)
	}
}

func TestFileCorrupted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	f := NewFile(path)

	_, err := f.Get(context.Background(), "productData")
	var serr *Error
	if !errors.As(err, &serr) {
		t.Fatalf("Get on a corrupted document error = %v, want a storage error", err)
	}
	if errors.Is(err, ErrNotFound) {
		t.Error("a corrupted document must not look like a missing key")
	}
	if _, err := f.Keys(context.Background()); err == nil {
		t.Error("Keys on a corrupted document must fail")
	}
}

func TestFileSharedBetweenInstances(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "store.json")
	if err := NewFile(path).Set(ctx, "currencySymbol", "€"); err != nil {
		t.Fatal(err)
	}
	got, err := NewFile(path).Get(ctx, "currencySymbol")
	if err != nil {
		t.Fatal(err)
	}
	if got != "€" {
		t.Errorf("Get = %q, want %q", got, "€")
	}
}

func TestParseDialect(t *testing.T) {
	if _, err := ParseDialect("sqlite", ""); err == nil {
		t.Error("ParseDialect(sqlite) expected an error")
	}
	if _, err := ParseDialect("mysql", "store; DROP TABLE x"); err == nil {
		t.Error("ParseDialect with an invalid table name expected an error")
	}
	d, err := ParseDialect("postgres", "")
	if err != nil {
		t.Fatal(err)
	}
	if d.Name != "postgres" {
		t.Errorf("dialect name = %q, want postgres", d.Name)
	}
}
