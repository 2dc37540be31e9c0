// Package money converts between integer cents and their decimal text form.
package money

import (
	"fmt"

	gomoney "github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// ParseCents parses a decimal amount such as "-120.00" into cents. More than
// two fractional digits is an error rather than a silent rounding.
func ParseCents(s string) (int64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("parse amount %q: %w", s, err)
	}
	cents := d.Shift(2)
	if !cents.Equal(cents.Truncate(0)) {
		return 0, fmt.Errorf("parse amount %q: more than two decimal places", s)
	}
	if !cents.Abs().LessThanOrEqual(decimal.NewFromInt(1 << 53)) {
		return 0, fmt.Errorf("parse amount %q: out of range", s)
	}
	return cents.IntPart(), nil
}

// FormatCents renders cents with exactly two decimals, e.g. -12000 as "-120.00".
func FormatCents(cents int64) string {
	return decimal.New(cents, -2).StringFixed(2)
}

// Display renders cents for people, with the currency symbol of code.
func Display(cents int64, code string) string {
	return gomoney.New(cents, code).Display()
}
