package commands

import (
	"context"
	"time"

	"marketplace/internal/core/domain/model/kernel"
)

// LocationRecorder receives fresh driver positions for in-memory tracking.
// Satisfied by the tracking.LocationTracker.
type LocationRecorder interface {
	Record(driverID kernel.UUID, location kernel.GeoPoint, at time.Time)
}

// RecordHeartbeatCommandHandler persists a driver location report and feeds
// the in-memory tracker used for buyer-facing ETA estimates.
type RecordHeartbeatCommandHandler struct {
	uowFactory DriverUoWFactory
	recorder   LocationRecorder
}

// NewRecordHeartbeatCommandHandler creates a handler for driver heartbeats.
func NewRecordHeartbeatCommandHandler(
	uowFactory DriverUoWFactory,
	recorder LocationRecorder,
) RecordHeartbeatCommandHandler {
	return RecordHeartbeatCommandHandler{
		uowFactory: uowFactory,
		recorder:   recorder,
	}
}

// Handle processes the heartbeat command.
func (h *RecordHeartbeatCommandHandler) Handle(ctx context.Context, cmd RecordHeartbeatCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	now := time.Now().UTC()

	aggregate, err := uow.DriverRepository().Get(ctx, cmd.DriverID())
	if err != nil {
		return err
	}

	if err := aggregate.Heartbeat(cmd.Location(), cmd.Status(), now); err != nil {
		return err
	}

	if err := uow.DriverRepository().Update(ctx, aggregate); err != nil {
		return err
	}

	if err := uow.Commit(ctx); err != nil {
		return err
	}

	h.recorder.Record(cmd.DriverID(), cmd.Location(), now)
	return nil
}
