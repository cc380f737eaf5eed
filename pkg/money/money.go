// Package money implements the register's fixed-point amount arithmetic.
// Amounts keep full decimal precision while being combined and are rounded
// to two places, half up, only at the display/persistence boundary.
package money

import (
	"bytes"
	"fmt"

	"github.com/shopspring/decimal"
)

// Money is a non-negative decimal amount. The zero value is 0.00.
type Money struct {
	dec decimal.Decimal
}

// Zero is the canonical empty amount.
var Zero = Money{}

// New builds a Money from a decimal value.
func New(d decimal.Decimal) Money {
	return Money{dec: d}
}

// FromFloat converts a float amount, e.g. parsed UI input.
func FromFloat(value float64) Money {
	return Money{dec: decimal.NewFromFloat(value)}
}

// FromCents converts an integer amount of cents.
func FromCents(cents int64) Money {
	return Money{dec: decimal.New(cents, -2)}
}

// Parse reads a decimal string such as "12.50".
func Parse(value string) (Money, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return Zero, fmt.Errorf("parse amount %q: %w", value, err)
	}
	return Money{dec: d}, nil
}

// MustParse is Parse for test fixtures and constants.
func MustParse(value string) Money {
	m, err := Parse(value)
	if err != nil {
		panic(err)
	}
	return m
}

// Decimal exposes the underlying value at full precision.
func (m Money) Decimal() decimal.Decimal {
	return m.dec
}

// Add returns m + other at full precision.
func (m Money) Add(other Money) Money {
	return Money{dec: m.dec.Add(other.dec)}
}

// Sub returns m - other at full precision; the result may be negative and is
// intended for intermediate computation only.
func (m Money) Sub(other Money) Money {
	return Money{dec: m.dec.Sub(other.dec)}
}

// MulInt scales the amount by an integer quantity.
func (m Money) MulInt(qty int) Money {
	return Money{dec: m.dec.Mul(decimal.NewFromInt(int64(qty)))}
}

// Cmp returns -1, 0 or 1 comparing m against other.
func (m Money) Cmp(other Money) int {
	return m.dec.Cmp(other.dec)
}

// Equal reports numeric equality regardless of exponent.
func (m Money) Equal(other Money) bool {
	return m.dec.Equal(other.dec)
}

// LessThan reports m < other.
func (m Money) LessThan(other Money) bool {
	return m.dec.LessThan(other.dec)
}

// GreaterThan reports m > other.
func (m Money) GreaterThan(other Money) bool {
	return m.dec.GreaterThan(other.dec)
}

// IsZero reports whether the amount is exactly zero.
func (m Money) IsZero() bool {
	return m.dec.IsZero()
}

// IsPositive reports whether the amount is strictly above zero.
func (m Money) IsPositive() bool {
	return m.dec.IsPositive()
}

// IsNegative reports whether the amount dipped below zero.
func (m Money) IsNegative() bool {
	return m.dec.IsNegative()
}

// Round2 rounds to two decimal places, half away from zero.
func (m Money) Round2() Money {
	return Money{dec: m.dec.Round(2)}
}

// String formats the amount rounded to two decimal places.
func (m Money) String() string {
	return m.dec.Round(2).StringFixed(2)
}

// Sum adds all amounts at full precision.
func Sum(amounts ...Money) Money {
	total := Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}

// Remaining is due - paid clamped at zero. Overpayment never produces a
// negative remainder; insufficient payment is a separate validity check.
func Remaining(due, paid Money) Money {
	r := due.Sub(paid)
	if r.IsNegative() {
		return Zero
	}
	return r
}

// Change is received - owed clamped at zero.
func Change(received, owed Money) Money {
	c := received.Sub(owed)
	if c.IsNegative() {
		return Zero
	}
	return c
}

// ApplyPercentDiscount reduces amount by percent, with percent clamped to
// [0, 100].
func ApplyPercentDiscount(amount Money, percent float64) Money {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	factor := decimal.NewFromFloat(1 - percent/100)
	return Money{dec: amount.dec.Mul(factor)}
}

// Split distributes total across weights proportionally, rounding each share
// to two places and reconciling the final share so the parts sum to the
// rounded total exactly. Zero-weight entries receive zero. A zero weight sum
// yields all-zero shares.
func Split(total Money, weights []Money) []Money {
	shares := make([]Money, len(weights))
	if len(weights) == 0 {
		return shares
	}

	weightSum := Sum(weights...)
	if !weightSum.IsPositive() {
		return shares
	}

	rounded := total.Round2()
	allocated := Zero
	last := -1
	for i, w := range weights {
		if !w.IsPositive() {
			shares[i] = Zero
			continue
		}
		last = i
		share := Money{dec: rounded.dec.Mul(w.dec).Div(weightSum.dec)}.Round2()
		shares[i] = share
		allocated = allocated.Add(share)
	}
	if last >= 0 {
		// The last positive-weight share absorbs the rounding remainder.
		shares[last] = shares[last].Add(rounded.Sub(allocated))
	}
	return shares
}

// MarshalJSON emits the amount as a bare 2-decimal number, matching the wire
// format the backend uses.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalJSON accepts either a JSON number or a quoted decimal string.
func (m *Money) UnmarshalJSON(data []byte) error {
	trimmed := bytes.Trim(bytes.TrimSpace(data), `"`)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*m = Zero
		return nil
	}
	parsed, err := Parse(string(trimmed))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
