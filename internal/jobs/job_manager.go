package jobs

import (
	"fmt"
	"log/slog"
	"time"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/syncer"
)

// Intervals configures how often each background job runs.
type Intervals struct {
	Dispatch     time.Duration
	EscrowSweep  time.Duration
	Sync         time.Duration
	LocationPoll time.Duration
}

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	dispatchJob     *DispatchJob
	escrowSweepJob  *EscrowSweepJob
	syncJob         *SyncJob
	locationPollJob *LocationPollJob
}

// NewJobManager creates a job manager with all required jobs wired.
func NewJobManager(
	dispatchUoWFactory commands.DispatchUoWFactory,
	assignHandler commands.AutoAssignDriverCommandHandler,
	sweepHandler commands.SweepEscrowCommandHandler,
	reconciler *syncer.Reconciler,
	intervals Intervals,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		dispatchJob:     NewDispatchJob(dispatchUoWFactory, assignHandler, intervals.Dispatch, logger),
		escrowSweepJob:  NewEscrowSweepJob(sweepHandler, intervals.EscrowSweep, logger),
		syncJob:         NewSyncJob(reconciler, intervals.Sync, logger),
		locationPollJob: NewLocationPollJob(reconciler, intervals.LocationPoll, logger),
	}
}

// StartAll starts all scheduled jobs. If any job fails to start, the jobs
// already running are stopped before returning.
func (jm *JobManager) StartAll() error {
	started := make([]interface{ Stop() }, 0, 4)

	stopStarted := func() {
		for i := len(started) - 1; i >= 0; i-- {
			started[i].Stop()
		}
	}

	for _, job := range []struct {
		name  string
		start func() error
		stop  interface{ Stop() }
	}{
		{"dispatch", jm.dispatchJob.Start, jm.dispatchJob},
		{"escrow sweep", jm.escrowSweepJob.Start, jm.escrowSweepJob},
		{"sync", jm.syncJob.Start, jm.syncJob},
		{"location poll", jm.locationPollJob.Start, jm.locationPollJob},
	} {
		if err := job.start(); err != nil {
			stopStarted()
			return fmt.Errorf("failed to start %s job: %w", job.name, err)
		}
		started = append(started, job.stop)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.locationPollJob.Stop()
	jm.syncJob.Stop()
	jm.escrowSweepJob.Stop()
	jm.dispatchJob.Stop()
}
