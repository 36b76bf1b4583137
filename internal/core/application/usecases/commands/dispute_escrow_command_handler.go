package commands

import (
	"context"
	"time"

	"marketplace/internal/pkg/locker"
)

// DisputeEscrowCommandHandler raises a dispute on a held escrow transaction.
//
// The handler serializes on the transaction id against the auto-release
// sweep: whichever acquires the lock first wins, the other observes the
// committed state.
type DisputeEscrowCommandHandler struct {
	uowFactory EscrowUoWFactory
	locks      *locker.EntityLocker
}

// NewDisputeEscrowCommandHandler creates a handler for escrow disputes.
func NewDisputeEscrowCommandHandler(
	uowFactory EscrowUoWFactory,
	locks *locker.EntityLocker,
) DisputeEscrowCommandHandler {
	return DisputeEscrowCommandHandler{
		uowFactory: uowFactory,
		locks:      locks,
	}
}

// Handle processes the dispute command.
func (h *DisputeEscrowCommandHandler) Handle(ctx context.Context, cmd DisputeEscrowCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	h.locks.Lock(cmd.TransactionID().String())
	defer h.locks.Unlock(cmd.TransactionID().String())

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	transaction, err := uow.EscrowRepository().Get(ctx, cmd.TransactionID())
	if err != nil {
		return err
	}

	if err := transaction.Dispute(cmd.Reason(), time.Now().UTC()); err != nil {
		return err
	}

	if err := uow.EscrowRepository().Update(ctx, transaction); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
