package commands

import (
	"errors"

	"marketplace/internal/pkg/guard"
)

var ErrSweepEscrowCommandIsNotConstructed = errors.New(
	"SweepEscrowCommand must be created via NewSweepEscrowCommand constructor",
)

// SweepEscrowCommand triggers one pass of the automatic escrow release:
// every held transaction whose release deadline has elapsed undisputed is
// paid out to its merchant.
type SweepEscrowCommand struct {
	guard guard.ConstructorGuard
}

// NewSweepEscrowCommand creates a command to run one sweep pass.
// This is a parameterless command; the pass evaluates deadlines at run time.
func NewSweepEscrowCommand() SweepEscrowCommand {
	return SweepEscrowCommand{
		guard: guard.NewConstructorGuard(),
	}
}

// Validate ensures the command was created through the constructor.
func (c *SweepEscrowCommand) Validate() error {
	return c.guard.Validate(ErrSweepEscrowCommandIsNotConstructed)
}
