package commands

import (
	"context"
	"time"

	"marketplace/internal/core/domain/model/escrow"
	"marketplace/internal/pkg/locker"
)

// RefundEscrowCommandHandler settles a transaction in the buyer's favour.
// Refunding an already-settled transaction succeeds without changing it.
type RefundEscrowCommandHandler struct {
	uowFactory EscrowUoWFactory
	locks      *locker.EntityLocker
}

// NewRefundEscrowCommandHandler creates a handler for escrow refunds.
func NewRefundEscrowCommandHandler(
	uowFactory EscrowUoWFactory,
	locks *locker.EntityLocker,
) RefundEscrowCommandHandler {
	return RefundEscrowCommandHandler{
		uowFactory: uowFactory,
		locks:      locks,
	}
}

// Handle processes the refund command.
func (h *RefundEscrowCommandHandler) Handle(ctx context.Context, cmd RefundEscrowCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	settle := func(t *escrow.Transaction, at time.Time) (bool, error) { return t.Refund(at) }
	return settleEscrow(ctx, h.uowFactory, h.locks, cmd.TransactionID(), settle)
}
