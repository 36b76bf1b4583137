package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"marketplace/internal/syncer"

	"github.com/robfig/cron/v3"
)

// LocationPollJob periodically pulls driver positions from the backend. It is
// the fallback path when drivers are not pushing heartbeats, so tracked ETAs
// keep moving even for drivers managed elsewhere.
type LocationPollJob struct {
	reconciler *syncer.Reconciler
	cron       *cron.Cron
	interval   time.Duration
	logger     *slog.Logger
}

// NewLocationPollJob creates the location poll job.
func NewLocationPollJob(
	reconciler *syncer.Reconciler,
	interval time.Duration,
	logger *slog.Logger,
) *LocationPollJob {
	return &LocationPollJob{
		reconciler: reconciler,
		cron:       cron.New(cron.WithSeconds()),
		interval:   interval,
		logger:     logger.With("component", "location_poll_job"),
	}
}

// Start schedules the location poll job.
func (j *LocationPollJob) Start() error {
	_, err := j.cron.AddFunc(fmt.Sprintf("@every %s", j.interval), func() {
		ctx := context.Background()
		if err := j.reconciler.PollDriverLocations(ctx); err != nil {
			j.logger.WarnContext(ctx, "driver location poll failed", "error", err)
		}
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info("location poll job started", "interval", j.interval.String())
	return nil
}

// Stop stops the location poll job.
func (j *LocationPollJob) Stop() {
	j.cron.Stop()
	j.logger.Info("location poll job stopped")
}
