package commands

import (
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/guard"
)

var ErrUnassignDriverCommandIsNotConstructed = errors.New(
	"UnassignDriverCommand must be created via NewUnassignDriverCommand constructor",
)

// UnassignDriverCommand represents a driver backing out of an accepted
// assignment before pickup. The order returns to the dispatch pool and the
// driver becomes available again.
type UnassignDriverCommand struct { //nolint:recvcheck //using for validation
	orderID  kernel.UUID
	driverID kernel.UUID

	guard guard.ConstructorGuard
}

// NewUnassignDriverCommand creates a command to release a driver from an order.
func NewUnassignDriverCommand(orderID, driverID kernel.UUID) (UnassignDriverCommand, error) {
	command := UnassignDriverCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setOrderID(orderID),
		command.setDriverID(driverID),
	); err != nil {
		return UnassignDriverCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c UnassignDriverCommand) Validate() error {
	return c.guard.Validate(ErrUnassignDriverCommandIsNotConstructed)
}

// OrderID returns the order losing its driver.
func (c UnassignDriverCommand) OrderID() kernel.UUID {
	return c.orderID
}

// DriverID returns the driver cancelling the assignment.
func (c UnassignDriverCommand) DriverID() kernel.UUID {
	return c.driverID
}

func (c *UnassignDriverCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *UnassignDriverCommand) setDriverID(driverID kernel.UUID) error {
	if err := driverID.Validate(); err != nil {
		return err
	}

	c.driverID = driverID
	return nil
}
