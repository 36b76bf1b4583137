package commands

import (
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var (
	ErrCheckoutCommandIsNotConstructed = errors.New(
		"CheckoutCommand must be created via NewCheckoutCommand constructor",
	)
	ErrCheckoutAddressIsRequired = errs.NewValueIsRequiredError("delivery address")
	ErrCheckoutPaymentIsRequired = errs.NewValueIsRequiredError("payment method")
)

// CheckoutCommand represents a request to convert a buyer's cart into orders.
// Encapsulates the delivery destination and payment method; the cart content
// is read from storage by the handler.
type CheckoutCommand struct { //nolint:recvcheck //using for validation
	buyerID         kernel.UUID
	deliveryAddress string
	deliveryPoint   kernel.GeoPoint
	paymentMethod   string

	guard guard.ConstructorGuard
}

// NewCheckoutCommand creates a command to check out the buyer's cart.
// Validates the buyer id, a non-empty address, valid delivery coordinates,
// and a non-empty payment method.
func NewCheckoutCommand(
	buyerID kernel.UUID,
	deliveryAddress string,
	deliveryPoint kernel.GeoPoint,
	paymentMethod string,
) (CheckoutCommand, error) {
	command := CheckoutCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setBuyerID(buyerID),
		command.setDeliveryAddress(deliveryAddress),
		command.setDeliveryPoint(deliveryPoint),
		command.setPaymentMethod(paymentMethod),
	); err != nil {
		return CheckoutCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c CheckoutCommand) Validate() error {
	return c.guard.Validate(ErrCheckoutCommandIsNotConstructed)
}

// BuyerID returns the buyer checking out.
func (c CheckoutCommand) BuyerID() kernel.UUID {
	return c.buyerID
}

// DeliveryAddress returns the human-readable destination address.
func (c CheckoutCommand) DeliveryAddress() string {
	return c.deliveryAddress
}

// DeliveryPoint returns the destination coordinates.
func (c CheckoutCommand) DeliveryPoint() kernel.GeoPoint {
	return c.deliveryPoint
}

// PaymentMethod returns the payment method chosen by the buyer.
func (c CheckoutCommand) PaymentMethod() string {
	return c.paymentMethod
}

func (c *CheckoutCommand) setBuyerID(buyerID kernel.UUID) error {
	if err := buyerID.Validate(); err != nil {
		return err
	}

	c.buyerID = buyerID
	return nil
}

func (c *CheckoutCommand) setDeliveryAddress(address string) error {
	if address == "" {
		return ErrCheckoutAddressIsRequired
	}

	c.deliveryAddress = address
	return nil
}

func (c *CheckoutCommand) setDeliveryPoint(point kernel.GeoPoint) error {
	if err := point.Validate(); err != nil {
		return err
	}

	c.deliveryPoint = point
	return nil
}

func (c *CheckoutCommand) setPaymentMethod(method string) error {
	if method == "" {
		return ErrCheckoutPaymentIsRequired
	}

	c.paymentMethod = method
	return nil
}
