package commands

import (
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var (
	ErrDisputeEscrowCommandIsNotConstructed = errors.New(
		"DisputeEscrowCommand must be created via NewDisputeEscrowCommand constructor",
	)

	// ErrDisputeReasonIsRequired is returned when disputing without a reason.
	ErrDisputeReasonIsRequired = errs.NewValueIsRequiredError("dispute reason")
)

// DisputeEscrowCommand represents a request to pause an escrow transaction
// for operator resolution, stopping its automatic release timer. The reason
// is recorded on the transaction for the operator deciding the dispute.
type DisputeEscrowCommand struct { //nolint:recvcheck //using for validation
	transactionID kernel.UUID
	reason        string

	guard guard.ConstructorGuard
}

// NewDisputeEscrowCommand creates a command to dispute an escrow transaction.
func NewDisputeEscrowCommand(transactionID kernel.UUID, reason string) (DisputeEscrowCommand, error) {
	command := DisputeEscrowCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setTransactionID(transactionID),
		command.setReason(reason),
	); err != nil {
		return DisputeEscrowCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c DisputeEscrowCommand) Validate() error {
	return c.guard.Validate(ErrDisputeEscrowCommandIsNotConstructed)
}

// TransactionID returns the transaction to dispute.
func (c DisputeEscrowCommand) TransactionID() kernel.UUID {
	return c.transactionID
}

// Reason returns why the dispute is raised.
func (c DisputeEscrowCommand) Reason() string {
	return c.reason
}

func (c *DisputeEscrowCommand) setTransactionID(transactionID kernel.UUID) error {
	if err := transactionID.Validate(); err != nil {
		return err
	}

	c.transactionID = transactionID
	return nil
}

func (c *DisputeEscrowCommand) setReason(reason string) error {
	if reason == "" {
		return ErrDisputeReasonIsRequired
	}

	c.reason = reason
	return nil
}
