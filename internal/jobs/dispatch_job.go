package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/services"

	"github.com/robfig/cron/v3"
)

// DispatchJob periodically matches dispatch-eligible orders with available
// drivers. Orders that cannot be matched stay eligible and are retried on
// the next run.
type DispatchJob struct {
	uowFactory commands.DispatchUoWFactory
	handler    commands.AutoAssignDriverCommandHandler
	cron       *cron.Cron
	interval   time.Duration
	logger     *slog.Logger
}

// NewDispatchJob creates the dispatch job. The uowFactory is used only to
// list eligible orders; each assignment runs through the command handler in
// its own transaction.
func NewDispatchJob(
	uowFactory commands.DispatchUoWFactory,
	handler commands.AutoAssignDriverCommandHandler,
	interval time.Duration,
	logger *slog.Logger,
) *DispatchJob {
	return &DispatchJob{
		uowFactory: uowFactory,
		handler:    handler,
		cron:       cron.New(cron.WithSeconds()),
		interval:   interval,
		logger:     logger.With("component", "dispatch_job"),
	}
}

// Start schedules the dispatch job.
func (j *DispatchJob) Start() error {
	_, err := j.cron.AddFunc(fmt.Sprintf("@every %s", j.interval), j.run)
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info("dispatch job started", "interval", j.interval.String())
	return nil
}

// Stop stops the dispatch job.
func (j *DispatchJob) Stop() {
	j.cron.Stop()
	j.logger.Info("dispatch job stopped")
}

func (j *DispatchJob) run() {
	ctx := context.Background()

	eligible, err := j.collectEligible(ctx)
	if err != nil {
		j.logger.ErrorContext(ctx, "dispatch job failed to list eligible orders", "error", err)
		return
	}

	for _, orderID := range eligible {
		cmd, err := commands.NewAutoAssignDriverCommand(orderID, nil)
		if err != nil {
			j.logger.ErrorContext(ctx, "dispatch job built an invalid command",
				"order_id", orderID.String(), "error", err)
			continue
		}

		if err := j.handler.Handle(ctx, cmd); err != nil {
			// an empty driver pool is the normal idle case, not a failure
			if !errors.Is(err, services.ErrNoDriversAvailable) {
				j.logger.ErrorContext(ctx, "dispatch job failed to assign driver",
					"order_id", orderID.String(), "error", err)
			}
		}
	}
}

func (j *DispatchJob) collectEligible(ctx context.Context) ([]kernel.UUID, error) {
	uow := j.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	eligible, err := uow.OrderRepository().GetAllDispatchEligible(ctx)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(ctx); err != nil {
		return nil, err
	}

	ids := make([]kernel.UUID, 0, len(eligible))
	for _, o := range eligible {
		ids = append(ids, o.ID())
	}
	return ids, nil
}
