package cart

import (
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/guard"
)

// ErrCartIsNotConstructed is returned when a Cart was not created through
// NewCart or RestoreCart.
var ErrCartIsNotConstructed = errors.New("Cart must be created via NewCart or RestoreCart constructor")

// Cart holds a buyer's pending selections. It is the aggregate root of the
// local-first cart state and stays authoritative until checkout, when its
// snapshot is copied (not moved) into order creation requests.
//
// Invariants:
//   - Lines merge by (itemID, merchantID): adding an existing key increments quantity
//   - Every line has quantity ≥ 1; a quantity update to ≤ 0 removes the line
//   - The total is always derived from the lines, never cached
type Cart struct {
	buyerID kernel.UUID
	lines   []Line

	guard guard.ConstructorGuard
}

// NewCart creates an empty cart for a buyer.
func NewCart(buyerID kernel.UUID) (*Cart, error) {
	if err := buyerID.Validate(); err != nil {
		return nil, err
	}

	return &Cart{
		buyerID: buyerID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// RestoreCart reconstructs a cart from persistent storage.
// All restored lines must be valid.
func RestoreCart(buyerID kernel.UUID, lines []Line) (*Cart, error) {
	c, err := NewCart(buyerID)
	if err != nil {
		return nil, err
	}

	for _, line := range lines {
		if err = line.Validate(); err != nil {
			return nil, err
		}
	}

	c.lines = make([]Line, len(lines))
	copy(c.lines, lines)
	return c, nil
}

// Validate ensures the cart was created through a constructor.
func (c *Cart) Validate() error {
	if c == nil {
		return ErrCartIsNotConstructed
	}
	return c.guard.Validate(ErrCartIsNotConstructed)
}

// BuyerID returns the owning buyer's identifier.
func (c *Cart) BuyerID() kernel.UUID {
	return c.buyerID
}

// Lines returns a copy of the cart lines.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

// Add merges a line into the cart by its (itemID, merchantID) key:
// if a line with the same key exists its quantity is incremented by the
// added quantity, otherwise the line is appended.
func (c *Cart) Add(line Line) error {
	if err := line.Validate(); err != nil {
		return err
	}

	for i, existing := range c.lines {
		if existing.MergeKeyEquals(line) {
			merged, err := existing.withQuantity(existing.Quantity() + line.Quantity())
			if err != nil {
				return err
			}
			c.lines[i] = merged
			return nil
		}
	}

	c.lines = append(c.lines, line)
	return nil
}

// UpdateQuantity sets the quantity of the line with the given item id.
// A quantity of zero or below is equivalent to Remove. Updating an item that
// is not in the cart is a no-op.
func (c *Cart) UpdateQuantity(itemID kernel.UUID, quantity int) error {
	if err := itemID.Validate(); err != nil {
		return err
	}

	if quantity <= 0 {
		return c.Remove(itemID)
	}

	for i, existing := range c.lines {
		if existing.ItemID().IsEqual(itemID) {
			updated, err := existing.withQuantity(quantity)
			if err != nil {
				return err
			}
			c.lines[i] = updated
			return nil
		}
	}

	return nil
}

// Remove deletes the line with the given item id. Removing an item that is
// not in the cart is a no-op.
func (c *Cart) Remove(itemID kernel.UUID) error {
	if err := itemID.Validate(); err != nil {
		return err
	}

	for i, existing := range c.lines {
		if existing.ItemID().IsEqual(itemID) {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return nil
		}
	}

	return nil
}

// Clear removes every line from the cart.
func (c *Cart) Clear() {
	c.lines = nil
}

// Total returns the sum of unitPrice × quantity over all lines.
// It is recomputed on every call so it can never drift from the lines.
func (c *Cart) Total() kernel.Money {
	total := kernel.Zero()
	for _, line := range c.lines {
		total = total.Add(line.Subtotal())
	}
	return total
}
