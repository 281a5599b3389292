// Package jobs provides scheduled background tasks for the fulfillment core.
//
// Jobs use github.com/robfig/cron/v3 with six-field expressions (seconds
// first). Overlapping ticks of the same job are skipped.
//
// # Available Jobs
//
// 1. SlaMonitorJob - consumes the SLA delay queue: claims due checks, runs
// them through the monitor command and completes, retries or buries each job
// 2. OutboxRelayJob - publishes committed domain events from the outbox to
// the event bus
//
// # Usage
//
//	jobManager := jobs.NewJobManager(slaMonitorJob, outboxRelayJob)
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Error Handling
//
// - A failing SLA check is retried with linear backoff until MaxAttempts,
// then buried for inspection
// - A failing publish leaves the batch leased; it is retried after the lease
// - Failed job starts will stop any already running jobs
package jobs
