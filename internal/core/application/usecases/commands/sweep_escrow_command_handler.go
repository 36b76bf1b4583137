package commands

import (
	"context"
	"log/slog"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/locker"
)

// SweepEscrowCommandHandler releases held transactions whose automatic
// release deadline has elapsed.
//
// Candidates are collected in one read, then settled one by one under the
// per-transaction advisory lock. A dispute racing the sweep either wins the
// lock first — the sweep reloads the transaction, sees it is no longer due,
// and skips it — or loses and finds the funds already released.
type SweepEscrowCommandHandler struct {
	uowFactory EscrowUoWFactory
	locks      *locker.EntityLocker
	logger     *slog.Logger
}

// NewSweepEscrowCommandHandler creates a handler for the auto-release sweep.
func NewSweepEscrowCommandHandler(
	uowFactory EscrowUoWFactory,
	locks *locker.EntityLocker,
	logger *slog.Logger,
) SweepEscrowCommandHandler {
	return SweepEscrowCommandHandler{
		uowFactory: uowFactory,
		locks:      locks,
		logger:     logger.With("component", "escrow_sweep"),
	}
}

// Handle processes one sweep pass. A failure on one transaction is logged
// and does not stop the rest of the pass.
func (h *SweepEscrowCommandHandler) Handle(ctx context.Context, cmd SweepEscrowCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	due, err := h.collectDue(ctx)
	if err != nil {
		return err
	}

	released := 0
	for _, transactionID := range due {
		applied, err := h.releaseDue(ctx, transactionID)
		if err != nil {
			h.logger.Error("failed to release escrow transaction",
				"transaction_id", transactionID.String(), "error", err)
			continue
		}
		if applied {
			released++
		}
	}

	if released > 0 {
		h.logger.Info("escrow sweep released transactions", "count", released)
	}
	return nil
}

func (h *SweepEscrowCommandHandler) collectDue(ctx context.Context) ([]kernel.UUID, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	transactions, err := uow.EscrowRepository().GetAllDueForRelease(ctx, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	ids := make([]kernel.UUID, 0, len(transactions))
	for _, transaction := range transactions {
		ids = append(ids, transaction.ID())
	}

	if err := uow.Commit(ctx); err != nil {
		return nil, err
	}
	return ids, nil
}

// releaseDue re-reads the transaction under its lock and releases it only if
// it is still due, so a dispute committed since the collect pass wins.
func (h *SweepEscrowCommandHandler) releaseDue(ctx context.Context, transactionID kernel.UUID) (bool, error) {
	h.locks.Lock(transactionID.String())
	defer h.locks.Unlock(transactionID.String())

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return false, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	transaction, err := uow.EscrowRepository().Get(ctx, transactionID)
	if err != nil {
		return false, err
	}

	now := time.Now().UTC()
	if !transaction.IsReleaseDue(now) {
		return false, uow.Commit(ctx)
	}

	applied, err := transaction.Release(now)
	if err != nil {
		return false, err
	}

	if applied {
		if err := uow.EscrowRepository().Update(ctx, transaction); err != nil {
			return false, err
		}
	}

	return applied, uow.Commit(ctx)
}
