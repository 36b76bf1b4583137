package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"marketplace/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// EscrowSweepJob periodically releases escrow holds whose dispute window has
// expired. The sweep command re-checks each hold under its lock, so an extra
// run is harmless.
type EscrowSweepJob struct {
	handler  commands.SweepEscrowCommandHandler
	cron     *cron.Cron
	interval time.Duration
	logger   *slog.Logger
}

// NewEscrowSweepJob creates the escrow sweep job.
func NewEscrowSweepJob(
	handler commands.SweepEscrowCommandHandler,
	interval time.Duration,
	logger *slog.Logger,
) *EscrowSweepJob {
	return &EscrowSweepJob{
		handler:  handler,
		cron:     cron.New(cron.WithSeconds()),
		interval: interval,
		logger:   logger.With("component", "escrow_sweep_job"),
	}
}

// Start schedules the escrow sweep job.
func (j *EscrowSweepJob) Start() error {
	_, err := j.cron.AddFunc(fmt.Sprintf("@every %s", j.interval), func() {
		ctx := context.Background()
		cmd := commands.NewSweepEscrowCommand()

		if err := j.handler.Handle(ctx, cmd); err != nil {
			j.logger.ErrorContext(ctx, "escrow sweep failed", "error", err)
		}
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info("escrow sweep job started", "interval", j.interval.String())
	return nil
}

// Stop stops the escrow sweep job.
func (j *EscrowSweepJob) Stop() {
	j.cron.Stop()
	j.logger.Info("escrow sweep job stopped")
}
