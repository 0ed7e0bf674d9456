package cashbook

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/etnz/cashbook/snapshot"
	"github.com/etnz/cashbook/storage"
	"github.com/shopspring/decimal"
)

// Themes.
const (
	LightTheme = "light"
	DarkTheme  = "dark"
)

// Settings are the user's display preferences. They are passed explicitly to
// whatever formats amounts or renders reports.
type Settings struct {
	Language       string
	Theme          string
	DecimalMode    DecimalMode
	CurrencySymbol string
}

// DefaultSettings returns the settings of a fresh install.
func DefaultSettings() *Settings {
	return &Settings{
		Language:       "en",
		Theme:          LightTheme,
		DecimalMode:    PointMode,
		CurrencySymbol: "$",
	}
}

// Format formats amount with these settings.
func (s *Settings) Format(amount decimal.Decimal) string {
	return FormatAmount(amount, s.DecimalMode, s.CurrencySymbol)
}

// setting binds a setting name to its storage key and field.
type setting struct {
	name string
	key  string
	ptr  func(*Settings) *string
}

var settings = []setting{
	{"language", snapshot.LanguageKey, func(s *Settings) *string { return &s.Language }},
	{"theme", snapshot.ThemeKey, func(s *Settings) *string { return &s.Theme }},
	{"mode", snapshot.DecimalModeKey, func(s *Settings) *string { return (*string)(&s.DecimalMode) }},
	{"currency", snapshot.CurrencySymbolKey, func(s *Settings) *string { return &s.CurrencySymbol }},
}

// SettingNames lists the names accepted by Set.
func SettingNames() []string {
	names := make([]string, len(settings))
	for i, x := range settings {
		names[i] = x.name
	}
	return names
}

// LoadSettings reads the settings stored in backend. Absent (or unusable)
// values keep their default.
func LoadSettings(ctx context.Context, backend storage.Backend) (*Settings, error) {
	s := DefaultSettings()
	for _, x := range settings {
		v, err := backend.Get(ctx, x.key)
		if errors.Is(err, storage.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("cannot load setting %q: %w", x.name, err)
		}
		// An unusable value keeps the default.
		_ = s.Set(x.name, v)
	}
	return s, nil
}

// Save writes the settings to backend, as bare strings.
func (s *Settings) Save(ctx context.Context, backend storage.Backend) error {
	for _, x := range settings {
		if err := backend.Set(ctx, x.key, *x.ptr(s)); err != nil {
			return fmt.Errorf("cannot save setting %q: %w", x.name, err)
		}
	}
	return nil
}

// Get returns the value of the setting name.
func (s *Settings) Get(name string) (string, error) {
	for _, x := range settings {
		if x.name == name {
			return *x.ptr(s), nil
		}
	}
	return "", invalid("setting", fmt.Sprintf("unknown setting %q", name))
}

// Set validates and changes the setting name.
//
// The currency accepts an ISO 4217 code, replaced by its symbol ("EUR" is
// stored as "€"), or any literal symbol.
func (s *Settings) Set(name, value string) error {
	value = strings.TrimSpace(value)
	switch name {
	case "language":
		if value == "" {
			return invalid(name, "empty language")
		}
		s.Language = value
	case "theme":
		if value != LightTheme && value != DarkTheme {
			return invalid(name, fmt.Sprintf("%q is neither %q nor %q", value, LightTheme, DarkTheme))
		}
		s.Theme = value
	case "mode":
		m, err := ParseDecimalMode(value)
		if err != nil {
			return invalid(name, err.Error())
		}
		s.DecimalMode = m
	case "currency":
		if value == "" {
			return invalid(name, "empty currency symbol")
		}
		s.CurrencySymbol = currencySymbol(value)
	default:
		return invalid("setting", fmt.Sprintf("unknown setting %q", name))
	}
	return nil
}

// currencySymbol resolves ISO currency codes to their symbol.
func currencySymbol(v string) string {
	if len(v) != 3 || strings.ToUpper(v) != v {
		return v
	}
	if c := money.GetCurrency(v); c != nil && c.Grapheme != "" {
		return c.Grapheme
	}
	return v
}
