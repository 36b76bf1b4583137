package commands

import (
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/guard"
)

var ErrManualAssignDriverCommandIsNotConstructed = errors.New(
	"ManualAssignDriverCommand must be created via NewManualAssignDriverCommand constructor",
)

// ManualAssignDriverCommand represents an operator's request to put a
// specific driver on an order, bypassing dispatch scoring.
type ManualAssignDriverCommand struct { //nolint:recvcheck //using for validation
	orderID  kernel.UUID
	driverID kernel.UUID

	guard guard.ConstructorGuard
}

// NewManualAssignDriverCommand creates a command for a manual assignment.
func NewManualAssignDriverCommand(
	orderID kernel.UUID,
	driverID kernel.UUID,
) (ManualAssignDriverCommand, error) {
	command := ManualAssignDriverCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setOrderID(orderID),
		command.setDriverID(driverID),
	); err != nil {
		return ManualAssignDriverCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c ManualAssignDriverCommand) Validate() error {
	return c.guard.Validate(ErrManualAssignDriverCommandIsNotConstructed)
}

// OrderID returns the order to assign.
func (c ManualAssignDriverCommand) OrderID() kernel.UUID {
	return c.orderID
}

// DriverID returns the driver chosen by the operator.
func (c ManualAssignDriverCommand) DriverID() kernel.UUID {
	return c.driverID
}

func (c *ManualAssignDriverCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *ManualAssignDriverCommand) setDriverID(driverID kernel.UUID) error {
	if err := driverID.Validate(); err != nil {
		return err
	}

	c.driverID = driverID
	return nil
}
