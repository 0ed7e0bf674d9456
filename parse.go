package cashbook

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// numericPrefix matches the leading number of a user input, "12.5kg" reads 12.5.
var numericPrefix = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// integerPrefix matches the leading integer of a user input, "3.7" reads 3.
var integerPrefix = regexp.MustCompile(`^[+-]?\d+`)

// ParseDecimalOrZero reads the leading number of s. Anything that does not
// start with a number reads as zero.
func ParseDecimalOrZero(s string) decimal.Decimal {
	m := numericPrefix.FindString(strings.TrimSpace(s))
	if m == "" {
		return decimal.Zero
	}
	m = strings.Replace(strings.Replace(m, ".e", "e", 1), ".E", "E", 1)
	d, err := decimal.NewFromString(strings.TrimSuffix(m, "."))
	if err != nil {
		return decimal.Zero
	}
	return d
}

// ParseIntOrZero reads the leading integer of s, or zero.
func ParseIntOrZero(s string) int {
	m := integerPrefix.FindString(strings.TrimSpace(s))
	if m == "" {
		return 0
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0
	}
	return n
}
