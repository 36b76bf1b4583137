package commands

import (
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/guard"
)

var ErrRefundEscrowCommandIsNotConstructed = errors.New(
	"RefundEscrowCommand must be created via NewRefundEscrowCommand constructor",
)

// RefundEscrowCommand represents a request to return held funds to the buyer.
type RefundEscrowCommand struct { //nolint:recvcheck //using for validation
	transactionID kernel.UUID

	guard guard.ConstructorGuard
}

// NewRefundEscrowCommand creates a command to refund an escrow transaction.
func NewRefundEscrowCommand(transactionID kernel.UUID) (RefundEscrowCommand, error) {
	command := RefundEscrowCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := command.setTransactionID(transactionID); err != nil {
		return RefundEscrowCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c RefundEscrowCommand) Validate() error {
	return c.guard.Validate(ErrRefundEscrowCommandIsNotConstructed)
}

// TransactionID returns the transaction to refund.
func (c RefundEscrowCommand) TransactionID() kernel.UUID {
	return c.transactionID
}

func (c *RefundEscrowCommand) setTransactionID(transactionID kernel.UUID) error {
	if err := transactionID.Validate(); err != nil {
		return err
	}

	c.transactionID = transactionID
	return nil
}
