package commands

import (
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/guard"
)

var ErrReleaseEscrowCommandIsNotConstructed = errors.New(
	"ReleaseEscrowCommand must be created via NewReleaseEscrowCommand constructor",
)

// ReleaseEscrowCommand represents a request to pay held funds out to the
// merchant.
type ReleaseEscrowCommand struct { //nolint:recvcheck //using for validation
	transactionID kernel.UUID

	guard guard.ConstructorGuard
}

// NewReleaseEscrowCommand creates a command to release an escrow transaction.
func NewReleaseEscrowCommand(transactionID kernel.UUID) (ReleaseEscrowCommand, error) {
	command := ReleaseEscrowCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := command.setTransactionID(transactionID); err != nil {
		return ReleaseEscrowCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c ReleaseEscrowCommand) Validate() error {
	return c.guard.Validate(ErrReleaseEscrowCommandIsNotConstructed)
}

// TransactionID returns the transaction to release.
func (c ReleaseEscrowCommand) TransactionID() kernel.UUID {
	return c.transactionID
}

func (c *ReleaseEscrowCommand) setTransactionID(transactionID kernel.UUID) error {
	if err := transactionID.Validate(); err != nil {
		return err
	}

	c.transactionID = transactionID
	return nil
}
