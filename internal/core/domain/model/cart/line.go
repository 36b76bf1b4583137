package cart

import (
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

// Domain errors for cart line construction.
var (
	// ErrQuantityIsInvalid is returned when a line is created with quantity below 1.
	ErrQuantityIsInvalid = errs.NewValueIsInvalidError("quantity must be at least 1")
	// ErrUnitIsRequired is returned when a line is created without a measurement unit.
	ErrUnitIsRequired = errs.NewValueIsRequiredError("unit")
	// ErrLineIsNotConstructed is returned when using an improperly initialized Line.
	ErrLineIsNotConstructed = errors.New("Line must be created via NewLine constructor")
)

// Line represents a single cart selection: an item from a merchant with a
// unit price and quantity. Line is a value object; quantity is always ≥ 1 —
// a line that would drop to zero is removed from the cart instead.
type Line struct { //nolint:recvcheck //using for validation
	itemID     kernel.UUID
	merchantID kernel.UUID
	unitPrice  kernel.Money
	quantity   int
	unit       string

	guard guard.ConstructorGuard
}

// NewLine creates a cart line with validation.
// Item and merchant ids must be valid, quantity must be at least 1 and the
// measurement unit (e.g. "pcs", "kg") must be non-empty.
func NewLine(
	itemID kernel.UUID,
	merchantID kernel.UUID,
	unitPrice kernel.Money,
	quantity int,
	unit string,
) (Line, error) {
	line := Line{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		line.setItemID(itemID),
		line.setMerchantID(merchantID),
		line.setUnitPrice(unitPrice),
		line.setQuantity(quantity),
		line.setUnit(unit),
	); err != nil {
		return Line{}, err
	}

	return line, nil
}

// Validate ensures the line was created through NewLine.
func (l Line) Validate() error {
	return l.guard.Validate(ErrLineIsNotConstructed)
}

// ItemID returns the item identifier.
func (l Line) ItemID() kernel.UUID {
	return l.itemID
}

// MerchantID returns the merchant the item belongs to.
func (l Line) MerchantID() kernel.UUID {
	return l.merchantID
}

// UnitPrice returns the price per unit.
func (l Line) UnitPrice() kernel.Money {
	return l.unitPrice
}

// Quantity returns the number of units, always ≥ 1.
func (l Line) Quantity() int {
	return l.quantity
}

// Unit returns the measurement unit of the line.
func (l Line) Unit() string {
	return l.unit
}

// Subtotal returns unitPrice × quantity.
func (l Line) Subtotal() kernel.Money {
	return l.unitPrice.MulQuantity(l.quantity)
}

// MergeKeyEquals reports whether another line addresses the same
// (itemID, merchantID) merge key.
func (l Line) MergeKeyEquals(other Line) bool {
	return l.itemID.IsEqual(other.itemID) && l.merchantID.IsEqual(other.merchantID)
}

// withQuantity returns a copy of the line with a different quantity.
func (l Line) withQuantity(quantity int) (Line, error) {
	return NewLine(l.itemID, l.merchantID, l.unitPrice, quantity, l.unit)
}

func (l *Line) setItemID(itemID kernel.UUID) error {
	if err := itemID.Validate(); err != nil {
		return err
	}
	l.itemID = itemID
	return nil
}

func (l *Line) setMerchantID(merchantID kernel.UUID) error {
	if err := merchantID.Validate(); err != nil {
		return err
	}
	l.merchantID = merchantID
	return nil
}

func (l *Line) setUnitPrice(unitPrice kernel.Money) error {
	l.unitPrice = unitPrice
	return nil
}

func (l *Line) setQuantity(quantity int) error {
	if quantity < 1 {
		return ErrQuantityIsInvalid
	}
	l.quantity = quantity
	return nil
}

func (l *Line) setUnit(unit string) error {
	if unit == "" {
		return ErrUnitIsRequired
	}
	l.unit = unit
	return nil
}
