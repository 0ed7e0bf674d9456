package cashbook

import (
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// DecimalMode selects the separators used to display amounts.
type DecimalMode string

const (
	// PointMode groups thousands with "." and separates decimals with ",": 1.234,50
	PointMode DecimalMode = "point"
	// CommaMode groups thousands with "," and separates decimals with ".": 1,234.50
	CommaMode DecimalMode = "comma"
)

// ParseDecimalMode parses "point" or "comma".
func ParseDecimalMode(s string) (DecimalMode, error) {
	switch DecimalMode(s) {
	case PointMode, CommaMode:
		return DecimalMode(s), nil
	default:
		return "", fmt.Errorf("unknown decimal mode %q, want %q or %q", s, PointMode, CommaMode)
	}
}

// separators returns the decimal and thousand separators. Unknown modes read
// as PointMode.
func (m DecimalMode) separators() (dec, thousand string) {
	if m == CommaMode {
		return ".", ","
	}
	return ",", "."
}

// FormatAmount formats amount with two fraction digits, rounded half away
// from zero, thousands grouped, and prefixed with symbol.
//
//	FormatAmount(1234.5, PointMode, "$") == "$1.234,50"
//	FormatAmount(1234.5, CommaMode, "$") == "$1,234.50"
//
// The symbol always comes first, a negative amount keeps its minus sign
// after it: "$-20,00".
func FormatAmount(amount decimal.Decimal, mode DecimalMode, symbol string) string {
	dec, thousand := mode.separators()
	amount = amount.Round(2)
	if amount.IsNegative() {
		symbol += "-"
	}
	cents := amount.Abs().Shift(2).BigInt()
	if !cents.IsInt64() {
		return symbol + formatBig(amount.Abs(), dec, thousand)
	}
	f := money.NewFormatter(2, dec, thousand, symbol, "$1")
	return f.Format(cents.Int64())
}

// formatBig formats a non negative amount whose cents do not fit in an int64.
func formatBig(amount decimal.Decimal, dec, thousand string) string {
	intPart, frac, _ := strings.Cut(amount.StringFixed(2), ".")
	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteString(thousand)
		}
		b.WriteRune(r)
	}
	return b.String() + dec + frac
}

// FormatNullAmount is FormatAmount where a missing amount formats as zero.
func FormatNullAmount(amount decimal.NullDecimal, mode DecimalMode, symbol string) string {
	if !amount.Valid {
		return FormatAmount(decimal.Zero, mode, symbol)
	}
	return FormatAmount(amount.Decimal, mode, symbol)
}
