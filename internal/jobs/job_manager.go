package jobs

import (
	"fmt"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	slaMonitorJob  *SlaMonitorJob
	outboxRelayJob *OutboxRelayJob
}

// NewJobManager creates a job manager for the given jobs.
func NewJobManager(slaMonitorJob *SlaMonitorJob, outboxRelayJob *OutboxRelayJob) *JobManager {
	return &JobManager{
		slaMonitorJob:  slaMonitorJob,
		outboxRelayJob: outboxRelayJob,
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.slaMonitorJob.Start(); err != nil {
		return fmt.Errorf("failed to start sla monitor job: %w", err)
	}

	if err := jm.outboxRelayJob.Start(); err != nil {
		// Stop already started jobs if this one fails
		jm.slaMonitorJob.Stop()
		return fmt.Errorf("failed to start outbox relay job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.outboxRelayJob.Stop()
	jm.slaMonitorJob.Stop()
}
