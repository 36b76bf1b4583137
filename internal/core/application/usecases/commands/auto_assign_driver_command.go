package commands

import (
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/guard"
)

var ErrAutoAssignDriverCommandIsNotConstructed = errors.New(
	"AutoAssignDriverCommand must be created via NewAutoAssignDriverCommand constructor",
)

// AutoAssignDriverCommand represents a request to match one dispatch-eligible
// order with the best available driver. An optional exclusion keeps a driver
// who just cancelled from being matched again on the retry.
type AutoAssignDriverCommand struct { //nolint:recvcheck //using for validation
	orderID         kernel.UUID
	excludeDriverID *kernel.UUID

	guard guard.ConstructorGuard
}

// NewAutoAssignDriverCommand creates a command to auto-assign a driver.
func NewAutoAssignDriverCommand(
	orderID kernel.UUID,
	excludeDriverID *kernel.UUID,
) (AutoAssignDriverCommand, error) {
	command := AutoAssignDriverCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setOrderID(orderID),
		command.setExcludeDriverID(excludeDriverID),
	); err != nil {
		return AutoAssignDriverCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c AutoAssignDriverCommand) Validate() error {
	return c.guard.Validate(ErrAutoAssignDriverCommandIsNotConstructed)
}

// OrderID returns the order waiting for a driver.
func (c AutoAssignDriverCommand) OrderID() kernel.UUID {
	return c.orderID
}

// ExcludeDriverID returns the driver to skip for this attempt, or nil.
func (c AutoAssignDriverCommand) ExcludeDriverID() *kernel.UUID {
	return c.excludeDriverID
}

func (c *AutoAssignDriverCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *AutoAssignDriverCommand) setExcludeDriverID(excludeDriverID *kernel.UUID) error {
	if excludeDriverID == nil {
		return nil
	}

	if err := excludeDriverID.Validate(); err != nil {
		return err
	}

	id := *excludeDriverID
	c.excludeDriverID = &id
	return nil
}
