package kernel

import (
	"fmt"

	"marketplace/internal/pkg/errs"
)

// Money represents a monetary amount in minor currency units (e.g. cents).
// It is an immutable value object; arithmetic returns new values. Negative
// amounts are invalid, which keeps escrow balances and order totals
// non-negative by construction.
type Money struct {
	amount int64
}

// ErrMoneyIsNegative is returned when constructing Money from a negative amount.
var ErrMoneyIsNegative = errs.NewValueIsInvalidError("money amount must not be negative")

// NewMoney creates Money from an amount in minor units.
// Returns an error if the amount is negative.
func NewMoney(amount int64) (Money, error) {
	if amount < 0 {
		return Money{}, ErrMoneyIsNegative
	}
	return Money{amount: amount}, nil
}

// Zero returns a zero-valued Money. Unlike other value objects the zero amount
// is a legitimate value, so Money carries no constructor guard.
func Zero() Money {
	return Money{}
}

// Amount returns the value in minor units.
func (m Money) Amount() int64 {
	return m.amount
}

// Add returns the sum of two amounts.
func (m Money) Add(other Money) Money {
	return Money{amount: m.amount + other.amount}
}

// MulQuantity returns the amount multiplied by a line quantity.
func (m Money) MulQuantity(qty int) Money {
	return Money{amount: m.amount * int64(qty)}
}

// IsZero reports whether the amount is zero.
func (m Money) IsZero() bool {
	return m.amount == 0
}

// IsEqual compares two amounts for equality.
func (m Money) IsEqual(other Money) bool {
	return m.amount == other.amount
}

// String implements fmt.Stringer, rendering the raw minor-unit amount.
func (m Money) String() string {
	return fmt.Sprintf("%d", m.amount)
}
