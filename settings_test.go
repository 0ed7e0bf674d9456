package cashbook

import (
	"context"
	"errors"
	"testing"

	"github.com/etnz/cashbook/storage"
	"github.com/google/go-cmp/cmp"
)

func TestDefaultSettings(t *testing.T) {
	want := &Settings{Language: "en", Theme: "light", DecimalMode: PointMode, CurrencySymbol: "$"}
	if diff := cmp.Diff(want, DefaultSettings()); diff != "" {
		t.Errorf("DefaultSettings mismatch (-want +got):\n%s", diff)
	}
	if got := DefaultSettings().Format(D(1234.5)); got != "$1.234,50" {
		t.Errorf("Format = %q", got)
	}
}

func TestSettingsSet(t *testing.T) {
	tests := []struct {
		name, value string
		want        string // value after Set, "" when Set must fail
	}{
		{"language", "es", "es"},
		{"language", " ", ""},
		{"theme", "dark", "dark"},
		{"theme", "blue", ""},
		{"mode", "comma", "comma"},
		{"mode", "dot", ""},
		{"currency", "EUR", "€"},
		{"currency", "JPY", "¥"},
		{"currency", "€", "€"},
		{"currency", "R$", "R$"},
		{"currency", "", ""},
		{"colour", "red", ""},
	}
	for _, test := range tests {
		s := DefaultSettings()
		err := s.Set(test.name, test.value)
		if test.want == "" {
			if !errors.Is(err, ErrValidation) {
				t.Errorf("Set(%q, %q) error = %v, want a validation error", test.name, test.value, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("Set(%q, %q) unexpected error: %v", test.name, test.value, err)
			continue
		}
		if got, _ := s.Get(test.name); got != test.want {
			t.Errorf("Set(%q, %q) then Get = %q, want %q", test.name, test.value, got, test.want)
		}
	}
}

func TestSettingsPersistence(t *testing.T) {
	ctx := context.Background()
	b := storage.NewMap()

	s := DefaultSettings()
	s.Set("mode", "comma")
	s.Set("currency", "GBP")
	if err := s.Save(ctx, b); err != nil {
		t.Fatal(err)
	}

	// Values are bare strings, not JSON.
	if raw, _ := b.Get(ctx, "conversionMode"); raw != "comma" {
		t.Errorf("conversionMode = %q, want comma", raw)
	}
	if raw, _ := b.Get(ctx, "currencySymbol"); raw != "£" {
		t.Errorf("currencySymbol = %q, want £", raw)
	}

	got, err := LoadSettings(ctx, b)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(s, got); diff != "" {
		t.Errorf("LoadSettings mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadSettingsDefaults(t *testing.T) {
	ctx := context.Background()
	b := storage.NewMap()
	b.Set(ctx, "theme", "purple")
	b.Set(ctx, "language", "fr")

	got, err := LoadSettings(ctx, b)
	if err != nil {
		t.Fatal(err)
	}
	want := DefaultSettings()
	want.Language = "fr"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("LoadSettings mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadSettingsStorageError(t *testing.T) {
	b := newFlaky()
	b.broken = true
	_, err := LoadSettings(context.Background(), b)
	var serr *storage.Error
	if !errors.As(err, &serr) {
		t.Errorf("LoadSettings error = %v, want a storage error", err)
	}
}
