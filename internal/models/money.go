package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Money is a currency-agnostic amount in integer minor units (cents).
type Money struct {
	Cents int64
}

// MaxCents bounds a single amount at ten billion (currency units) in minor
// units. MaxCents * MaxSplitWeight stays well inside int64, so share
// arithmetic over valid amounts and weights never overflows.
const MaxCents int64 = 1_000_000_000_000

// FromCents wraps a cent amount.
func FromCents(cents int64) Money {
	return Money{Cents: cents}
}

// ParseMoney converts a decimal string ("12.34") to Money with half-up
// rounding on the third decimal place. Amounts must be strictly positive
// and at most MaxCents. The bound check runs on the decimal value, before
// any int64 conversion, so oversized inputs cannot wrap.
func ParseMoney(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("%w: invalid amount %q", ErrValidation, s)
	}
	scaled := d.Shift(2).Round(0)
	if scaled.Sign() <= 0 {
		return Money{}, fmt.Errorf("%w: amount must be positive, got %q", ErrValidation, s)
	}
	if scaled.Cmp(decimal.NewFromInt(MaxCents)) > 0 {
		return Money{}, fmt.Errorf("%w: amount %q exceeds the maximum of %s", ErrValidation, s, FromCents(MaxCents))
	}
	return Money{Cents: scaled.IntPart()}, nil
}

// Validate checks that the amount is strictly positive and within bounds.
func (m Money) Validate() error {
	if m.Cents <= 0 {
		return fmt.Errorf("%w: amount must be positive, got %d cents", ErrValidation, m.Cents)
	}
	if m.Cents > MaxCents {
		return fmt.Errorf("%w: amount %d cents exceeds the maximum of %d", ErrValidation, m.Cents, MaxCents)
	}
	return nil
}

// String formats the amount as a plain decimal, e.g. "12.34".
func (m Money) String() string {
	return decimal.New(m.Cents, -2).StringFixed(2)
}
