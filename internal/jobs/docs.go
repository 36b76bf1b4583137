// Package jobs provides scheduled background tasks for the brokering engine.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle the periodic operations the marketplace needs.
//
// # Available Jobs
//
// 1. DispatchJob - matches dispatch-eligible orders with available drivers
// 2. EscrowSweepJob - auto-releases escrow holds past their dispute window
// 3. SyncJob - pulls backend order snapshots and replays queued local mutations
// 4. LocationPollJob - pulls driver positions as a fallback to pushed heartbeats
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	jobManager := jobs.NewJobManager(
//		dispatchUoWFactory, assignHandler, sweepHandler, reconciler, intervals, logger)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	defer jobManager.StopAll()
//
// # Error Handling
//
//   - The dispatch job treats an empty driver pool as the normal idle case
//     and stays quiet about it; everything else is logged.
//   - Sync and poll failures are logged and retried on the next run; they
//     never surface to interactive requests.
//   - A failed job start stops any jobs already running.
package jobs
