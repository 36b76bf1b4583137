package commands

import (
	"context"
	"fmt"

	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/locker"
)

// UnassignDriverCommandHandler handles a driver cancelling an accepted
// assignment before pickup.
//
// Clearing the assignment and returning the driver to the pool commit
// atomically. The order stays in Preparing with no driver, which makes it
// dispatch-eligible again on the next matcher tick.
type UnassignDriverCommandHandler struct {
	uowFactory DispatchUoWFactory
	locks      *locker.EntityLocker
}

// NewUnassignDriverCommandHandler creates a handler for driver cancellations.
func NewUnassignDriverCommandHandler(
	uowFactory DispatchUoWFactory,
	locks *locker.EntityLocker,
) UnassignDriverCommandHandler {
	return UnassignDriverCommandHandler{
		uowFactory: uowFactory,
		locks:      locks,
	}
}

// Handle processes the unassignment command. Only the currently assigned
// driver can back out; anyone else fails with an invalid transition.
func (h *UnassignDriverCommandHandler) Handle(ctx context.Context, cmd UnassignDriverCommand) error {
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

	assigned := aggregate.Driver()
	if assigned == nil || !assigned.IsEqual(cmd.DriverID()) {
		return order.NewInvalidTransitionError(aggregate.Status(), aggregate.Status(),
			fmt.Errorf("driver %s is not assigned to this order", cmd.DriverID()))
	}

	if err := aggregate.UnassignDriver(); err != nil {
		return err
	}

	released, err := uow.DriverRepository().Get(ctx, cmd.DriverID())
	if err != nil {
		return err
	}

	released.MarkAvailable()

	if err := uow.OrderRepository().Update(ctx, aggregate); err != nil {
		return err
	}

	if err := uow.DriverRepository().Update(ctx, released); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
