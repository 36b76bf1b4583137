package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"marketplace/internal/syncer"

	"github.com/robfig/cron/v3"
)

// SyncJob periodically runs a full reconciliation pass: pull authoritative
// order snapshots from the backend, then replay queued local mutations.
type SyncJob struct {
	reconciler *syncer.Reconciler
	cron       *cron.Cron
	interval   time.Duration
	logger     *slog.Logger
}

// NewSyncJob creates the sync job.
func NewSyncJob(
	reconciler *syncer.Reconciler,
	interval time.Duration,
	logger *slog.Logger,
) *SyncJob {
	return &SyncJob{
		reconciler: reconciler,
		cron:       cron.New(cron.WithSeconds()),
		interval:   interval,
		logger:     logger.With("component", "sync_job"),
	}
}

// Start schedules the sync job.
func (j *SyncJob) Start() error {
	_, err := j.cron.AddFunc(fmt.Sprintf("@every %s", j.interval), func() {
		j.reconciler.Run(context.Background())
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info("sync job started", "interval", j.interval.String())
	return nil
}

// Stop stops the sync job.
func (j *SyncJob) Stop() {
	j.cron.Stop()
	j.logger.Info("sync job stopped")
}
