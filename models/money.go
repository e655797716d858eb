package models

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var ErrInvalidAmount = errors.New("invalid amount")

// maxAmount keeps cent values inside int64
var maxAmount = decimal.New((1<<63-1)/100, 0)

// Amount is a non-negative monetary value in minor units (cents).
type Amount int64

// ParseAmount converts a decimal string to cents.
//
// Both dot (12.34) and comma (12,34) separators are accepted, and a third
// fractional digit is rounded half-up. Zero, negative and malformed values
// are rejected.
func ParseAmount(s string) (Amount, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.Count(s, ".") > 1 {
		return 0, ErrInvalidAmount
	}
	// decimal also accepts signs and exponents, which are not amounts
	for _, r := range s {
		if r != '.' && (r < '0' || r > '9') {
			return 0, ErrInvalidAmount
		}
	}
	if strings.HasPrefix(s, ".") {
		s = "0" + s
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	d = d.Round(2)
	if d.GreaterThanOrEqual(maxAmount) || !d.IsPositive() {
		return 0, ErrInvalidAmount
	}
	return Amount(d.Shift(2).IntPart()), nil
}

// String renders the amount with two decimals, e.g. "12.34".
func (a Amount) String() string {
	return FormatCents(int64(a))
}

// FormatCents renders a signed cent value with two decimals.
func FormatCents(cents int64) string {
	return decimal.New(cents, -2).StringFixed(2)
}

// Float returns the amount in major units, for display only.
func (a Amount) Float() float64 {
	return decimal.New(int64(a), -2).InexactFloat64()
}
