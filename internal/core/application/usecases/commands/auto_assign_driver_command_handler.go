package commands

import (
	"context"

	"marketplace/internal/core/domain/services"
	"marketplace/internal/pkg/locker"
)

// AutoAssignDriverCommandHandler matches one order with the best available
// driver using the dispatch scoring service.
//
// Order, winning driver, and the assignment commit atomically. When no driver
// qualifies the order stays untouched in Preparing and the dispatch job
// retries on its next tick.
type AutoAssignDriverCommandHandler struct {
	uowFactory DispatchUoWFactory
	dispatcher services.DriverDispatcher
	locks      *locker.EntityLocker
}

// NewAutoAssignDriverCommandHandler creates a handler for automatic dispatch.
func NewAutoAssignDriverCommandHandler(
	uowFactory DispatchUoWFactory,
	dispatcher services.DriverDispatcher,
	locks *locker.EntityLocker,
) AutoAssignDriverCommandHandler {
	return AutoAssignDriverCommandHandler{
		uowFactory: uowFactory,
		dispatcher: dispatcher,
		locks:      locks,
	}
}

// Handle processes the auto-assignment command.
// Returns services.ErrNoDriversAvailable when the candidate pool is empty.
func (h *AutoAssignDriverCommandHandler) Handle(ctx context.Context, cmd AutoAssignDriverCommand) error {
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

	pool, err := uow.DriverRepository().GetAllAvailable(ctx)
	if err != nil {
		return err
	}

	winner, err := h.dispatcher.Dispatch(aggregate, pool, cmd.ExcludeDriverID())
	if err != nil {
		return err
	}

	if err := uow.OrderRepository().Update(ctx, aggregate); err != nil {
		return err
	}

	if err := uow.DriverRepository().Update(ctx, winner); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
