package commands

import (
	"context"

	"marketplace/internal/pkg/locker"
)

// ManualAssignDriverCommandHandler puts an operator-chosen driver on an
// order. The target driver must still be available: a busy or offline driver
// fails the assignment with driver.ErrDriverUnavailable.
type ManualAssignDriverCommandHandler struct {
	uowFactory DispatchUoWFactory
	locks      *locker.EntityLocker
}

// NewManualAssignDriverCommandHandler creates a handler for manual dispatch.
func NewManualAssignDriverCommandHandler(
	uowFactory DispatchUoWFactory,
	locks *locker.EntityLocker,
) ManualAssignDriverCommandHandler {
	return ManualAssignDriverCommandHandler{
		uowFactory: uowFactory,
		locks:      locks,
	}
}

// Handle processes the manual assignment command.
func (h *ManualAssignDriverCommandHandler) Handle(ctx context.Context, cmd ManualAssignDriverCommand) error {
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

	chosen, err := uow.DriverRepository().Get(ctx, cmd.DriverID())
	if err != nil {
		return err
	}

	if err := chosen.MarkBusy(); err != nil {
		return err
	}

	if err := aggregate.AssignDriver(chosen.ID()); err != nil {
		return err
	}

	if err := uow.OrderRepository().Update(ctx, aggregate); err != nil {
		return err
	}

	if err := uow.DriverRepository().Update(ctx, chosen); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
