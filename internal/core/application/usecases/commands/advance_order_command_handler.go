package commands

import (
	"context"
	"log/slog"
	"time"

	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/locker"
)

// AdvanceOrderCommandHandler handles lifecycle transitions of an order.
//
// The handler serializes on the order id, so two racing transitions for the
// same order resolve to a single winner; the loser reloads the committed
// state and fails the successor check. Applied transitions are published to
// the message bus after commit; publish failures are logged, not returned —
// the committed transition is the source of truth.
type AdvanceOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	publisher  ports.OrderEventPublisher
	locks      *locker.EntityLocker
	logger     *slog.Logger
}

// NewAdvanceOrderCommandHandler creates a handler for order transitions.
func NewAdvanceOrderCommandHandler(
	uowFactory OrderUoWFactory,
	publisher ports.OrderEventPublisher,
	locks *locker.EntityLocker,
	logger *slog.Logger,
) AdvanceOrderCommandHandler {
	return AdvanceOrderCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		locks:      locks,
		logger:     logger.With("component", "advance_order"),
	}
}

// Handle processes the transition command.
func (h *AdvanceOrderCommandHandler) Handle(ctx context.Context, cmd AdvanceOrderCommand) error {
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

	aggregate, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	if err := aggregate.Advance(cmd.Target(), cmd.Actor(), time.Now().UTC()); err != nil {
		return err
	}

	if err := uow.OrderRepository().Update(ctx, aggregate); err != nil {
		return err
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
