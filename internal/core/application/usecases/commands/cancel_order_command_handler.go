package commands

import (
	"context"
	"log/slog"
	"time"

	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/locker"
)

// CancelOrderCommandHandler handles pre-pickup order cancellation.
//
// Cancellation and the escrow refund commit in one transaction: an order
// never ends up cancelled with the buyer's funds still held. The handler
// serializes on the order id against concurrent transitions, and on the
// escrow transaction id against the auto-release sweep — the refund re-reads
// the transaction under that lock, so a settle committed in between is
// observed instead of overwritten.
type CancelOrderCommandHandler struct {
	uowFactory OrderEscrowUoWFactory
	publisher  ports.OrderEventPublisher
	locks      *locker.EntityLocker
	logger     *slog.Logger
}

// NewCancelOrderCommandHandler creates a handler for order cancellation.
func NewCancelOrderCommandHandler(
	uowFactory OrderEscrowUoWFactory,
	publisher ports.OrderEventPublisher,
	locks *locker.EntityLocker,
	logger *slog.Logger,
) CancelOrderCommandHandler {
	return CancelOrderCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		locks:      locks,
		logger:     logger.With("component", "cancel_order"),
	}
}

// Handle processes the cancellation command.
func (h *CancelOrderCommandHandler) Handle(ctx context.Context, cmd CancelOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	h.locks.Lock(cmd.OrderID().String())
	defer h.locks.Unlock(cmd.OrderID().String())

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	now := time.Now().UTC()

	aggregate, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	if err := aggregate.Cancel(cmd.Actor(), now); err != nil {
		return err
	}

	if err := uow.OrderRepository().Update(ctx, aggregate); err != nil {
		return err
	}

	hold, err := uow.EscrowRepository().GetByOrderID(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	// The sweep, dispute, release, and refund handlers all serialize on the
	// transaction id. The re-read under that lock picks up a settle committed
	// between the lookup and the lock; refunding a terminal hold is a no-op.
	h.locks.Lock(hold.ID().String())
	defer h.locks.Unlock(hold.ID().String())

	hold, err = uow.EscrowRepository().Get(ctx, hold.ID())
	if err != nil {
		return err
	}

	applied, err := hold.Refund(now)
	if err != nil {
		return err
	}

	if applied {
		if err := uow.EscrowRepository().Update(ctx, hold); err != nil {
			return err
		}
	}

	if err := uow.Commit(ctx); err != nil {
		return err
	}

	if err := h.publisher.PublishOrderChanged(ctx, aggregate); err != nil {
		h.logger.Error("failed to publish order change",
			"order_id", aggregate.ID().String(), "error", err)
	}

	return nil
}
