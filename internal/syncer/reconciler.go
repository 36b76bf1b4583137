// Package syncer reconciles local-first state against the authoritative
// platform backend: queued mutations are replayed upstream, and authoritative
// order snapshots overwrite the local cache. Push events and poll passes both
// funnel into the same apply routine.
package syncer

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/model/syncqueue"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/locker"
)

// SyncUoW manages the transactions for reconciliation passes.
type SyncUoW interface {
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
	OrderRepository() ports.OrderRepository
	MutationRepository() ports.MutationRepository
}

// SyncUoWFactory creates new sync unit of work instances.
type SyncUoWFactory interface {
	Create() SyncUoW
}

// locationRecorder receives driver position samples pulled from the backend.
type locationRecorder interface {
	Record(driverID kernel.UUID, location kernel.GeoPoint, at time.Time)
}

// Reconciler runs the offline-first sync loop. Replay failures never surface
// to interactive callers: they are logged and retried on the next pass, and
// conflicting mutations are discarded because the backend state wins.
type Reconciler struct {
	uowFactory  SyncUoWFactory
	backend     ports.BackendClient
	locks       *locker.EntityLocker
	recorder    locationRecorder
	replayLimit int
	log         *slog.Logger
}

// NewReconciler creates a Reconciler. replayLimit bounds how many queued
// mutations one pass replays.
func NewReconciler(
	uowFactory SyncUoWFactory,
	backend ports.BackendClient,
	locks *locker.EntityLocker,
	recorder locationRecorder,
	replayLimit int,
	log *slog.Logger,
) *Reconciler {
	return &Reconciler{
		uowFactory:  uowFactory,
		backend:     backend,
		locks:       locks,
		recorder:    recorder,
		replayLimit: replayLimit,
		log:         log.With("component", "sync_reconciler"),
	}
}

// Run executes one full reconciliation pass: refresh local snapshots from the
// backend, then replay the pending mutation queue.
func (r *Reconciler) Run(ctx context.Context) {
	if err := r.RefreshOrders(ctx); err != nil {
		r.log.Warn("order refresh pass failed", "error", err)
	}
	if err := r.ReplayPending(ctx); err != nil {
		r.log.Warn("mutation replay pass failed", "error", err)
	}
}

// ReplayPending replays queued mutations oldest first. A mutation leaves the
// queue when the backend accepts it or rejects it as conflicting; any other
// failure increments its attempt counter and ends the pass.
func (r *Reconciler) ReplayPending(ctx context.Context) error {
	pending, err := r.collectPending(ctx)
	if err != nil {
		return err
	}

	replayed := 0
	for _, mutation := range pending {
		err := r.backend.ReplayMutation(ctx, mutation)
		switch {
		case err == nil:
			if err := r.dequeue(ctx, mutation.ID()); err != nil {
				return err
			}
			replayed++

		case errors.Is(err, ports.ErrSyncConflict):
			r.log.Warn("discarding conflicting mutation",
				"mutation_id", mutation.ID().String(),
				"operation", mutation.Operation())
			if err := r.dequeue(ctx, mutation.ID()); err != nil {
				return err
			}

		default:
			// backend unreachable or rejecting; stop the pass, keep order
			mutation.RecordAttempt()
			if recordErr := r.recordAttempt(ctx, mutation); recordErr != nil {
				return recordErr
			}
			r.log.Warn("mutation replay failed, will retry",
				"mutation_id", mutation.ID().String(),
				"attempts", mutation.Attempts(),
				"error", err)
			return nil
		}
	}

	if replayed > 0 {
		r.log.Info("mutations replayed", "count", replayed)
	}
	return nil
}

// RefreshOrders pulls authoritative snapshots for every non-terminal local
// order and applies them.
func (r *Reconciler) RefreshOrders(ctx context.Context) error {
	active, err := r.collectActiveOrders(ctx)
	if err != nil {
		return err
	}

	for _, id := range active {
		snapshot, err := r.backend.GetOrderSnapshot(ctx, id)
		if err != nil {
			r.log.Warn("snapshot pull failed",
				"order_id", id.String(), "error", err)
			continue
		}

		if err := r.ApplyOrderSnapshot(ctx, *snapshot); err != nil {
			r.log.Warn("snapshot apply failed",
				"order_id", id.String(), "error", err)
		}
	}

	return nil
}

// ApplyOrderSnapshot overwrites the local order state with the backend's when
// they diverge. The backend wins; the overwrite is recorded in the order's
// history as a system transition at the snapshot time. Applying the same
// snapshot twice is a no-op.
func (r *Reconciler) ApplyOrderSnapshot(ctx context.Context, snapshot ports.OrderSnapshot) error {
	backendStatus, err := order.StatusFromString(snapshot.Status)
	if err != nil {
		return err
	}

	r.locks.Lock(snapshot.OrderID.String())
	defer r.locks.Unlock(snapshot.OrderID.String())

	uow := r.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	local, err := uow.OrderRepository().Get(ctx, snapshot.OrderID)
	if err != nil {
		var notFound *errs.ObjectNotFoundError
		if errors.As(err, &notFound) {
			// order placed on another device, nothing local to refresh
			return nil
		}
		return err
	}

	if local.Status() == backendStatus && driverMatches(local.Driver(), snapshot.DriverID) {
		return nil
	}

	history := local.History()
	if len(history) > 0 && snapshot.UpdatedAt.Before(history[len(history)-1].At) {
		// stale snapshot, local state is already newer
		return nil
	}

	history = append(history, order.StatusChange{
		Status: backendStatus,
		Actor:  order.RoleSystem,
		At:     snapshot.UpdatedAt,
	})

	refreshed, err := order.RestoreOrder(
		local.ID(), local.BuyerID(), local.MerchantID(), local.Lines(),
		local.DeliveryAddress(), local.DeliveryPoint(), local.PaymentMethod(),
		local.DeliveryFee(), local.ServiceFee(),
		backendStatus, snapshot.DriverID, local.CreatedAt(), history,
	)
	if err != nil {
		return err
	}

	if err := uow.OrderRepository().Update(ctx, refreshed); err != nil {
		return err
	}

	if err := uow.Commit(ctx); err != nil {
		return err
	}

	r.log.Info("local order refreshed from backend",
		"order_id", snapshot.OrderID.String(),
		"status", backendStatus.String())
	return nil
}

// PollDriverLocations pulls current driver positions from the backend and
// feeds them to the location tracker. Fallback for when push is unavailable.
func (r *Reconciler) PollDriverLocations(ctx context.Context) error {
	locations, err := r.backend.GetDriverLocations(ctx)
	if err != nil {
		return err
	}

	for _, location := range locations {
		point, err := kernel.NewGeoPoint(location.Lat, location.Lon)
		if err != nil {
			r.log.Warn("skipping invalid driver location",
				"driver_id", location.DriverID.String(), "error", err)
			continue
		}
		r.recorder.Record(location.DriverID, point, location.At)
	}

	return nil
}

func (r *Reconciler) collectPending(ctx context.Context) ([]*syncqueue.Mutation, error) {
	uow := r.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	pending, err := uow.MutationRepository().GetAllPending(ctx, r.replayLimit)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(ctx); err != nil {
		return nil, err
	}

	return pending, nil
}

func (r *Reconciler) collectActiveOrders(ctx context.Context) ([]kernel.UUID, error) {
	uow := r.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	active, err := uow.OrderRepository().GetAllActive(ctx)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(ctx); err != nil {
		return nil, err
	}

	ids := make([]kernel.UUID, 0, len(active))
	for _, o := range active {
		ids = append(ids, o.ID())
	}
	return ids, nil
}

func (r *Reconciler) dequeue(ctx context.Context, id kernel.UUID) error {
	uow := r.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := uow.MutationRepository().Remove(ctx, id); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

func (r *Reconciler) recordAttempt(ctx context.Context, mutation *syncqueue.Mutation) error {
	uow := r.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := uow.MutationRepository().Update(ctx, mutation); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

func driverMatches(local, remote *kernel.UUID) bool {
	if local == nil || remote == nil {
		return local == nil && remote == nil
	}
	return local.IsEqual(*remote)
}
