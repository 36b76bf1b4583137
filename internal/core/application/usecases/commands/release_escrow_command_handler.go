package commands

import (
	"context"
	"time"

	"marketplace/internal/core/domain/model/escrow"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/locker"
)

// ReleaseEscrowCommandHandler settles a transaction in the merchant's favour.
// Releasing an already-settled transaction succeeds without changing it.
type ReleaseEscrowCommandHandler struct {
	uowFactory EscrowUoWFactory
	locks      *locker.EntityLocker
}

// NewReleaseEscrowCommandHandler creates a handler for escrow releases.
func NewReleaseEscrowCommandHandler(
	uowFactory EscrowUoWFactory,
	locks *locker.EntityLocker,
) ReleaseEscrowCommandHandler {
	return ReleaseEscrowCommandHandler{
		uowFactory: uowFactory,
		locks:      locks,
	}
}

// Handle processes the release command.
func (h *ReleaseEscrowCommandHandler) Handle(ctx context.Context, cmd ReleaseEscrowCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	settle := func(t *escrow.Transaction, at time.Time) (bool, error) { return t.Release(at) }
	return settleEscrow(ctx, h.uowFactory, h.locks, cmd.TransactionID(), settle)
}

// settleEscrow runs one terminal escrow settlement under the transaction's
// advisory lock. The settle callback reports whether it changed the
// aggregate; a no-op settlement skips the update but still commits cleanly.
func settleEscrow(
	ctx context.Context,
	uowFactory EscrowUoWFactory,
	locks *locker.EntityLocker,
	transactionID kernel.UUID,
	settle func(*escrow.Transaction, time.Time) (bool, error),
) error {
	locks.Lock(transactionID.String())
	defer locks.Unlock(transactionID.String())

	uow := uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	transaction, err := uow.EscrowRepository().Get(ctx, transactionID)
	if err != nil {
		return err
	}

	applied, err := settle(transaction, time.Now().UTC())
	if err != nil {
		return err
	}

	if applied {
		if err := uow.EscrowRepository().Update(ctx, transaction); err != nil {
			return err
		}
	}

	return uow.Commit(ctx)
}
