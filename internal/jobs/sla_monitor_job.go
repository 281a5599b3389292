package jobs

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/metrics"

	"github.com/robfig/cron/v3"
)

// SlaCheckHandler runs one SLA check.
type SlaCheckHandler interface {
	Handle(ctx context.Context, cmd commands.MonitorOrderSlaCommand) (services.Effect, error)
}

// SlaMonitorConfig tunes the delay queue consumer.
type SlaMonitorConfig struct {
	// Schedule is a six-field cron expression (seconds first).
	Schedule     string
	BatchSize    int
	Lease        time.Duration
	MaxAttempts  int
	RetryBackoff time.Duration
}

// SlaMonitorJob drains due SLA jobs from the delay queue.
//
// Each tick claims a batch, runs every check through the handler and then
// completes, retries or buries the job. Retries back off linearly with the
// attempt count. A tick that is still running when the next one fires is
// skipped.
type SlaMonitorJob struct {
	queue   ports.SlaJobQueue
	handler SlaCheckHandler
	now     commands.Clock
	config  SlaMonitorConfig
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewSlaMonitorJob creates the delay queue consumer.
func NewSlaMonitorJob(
	queue ports.SlaJobQueue,
	handler SlaCheckHandler,
	clock commands.Clock,
	config SlaMonitorConfig,
	logger *slog.Logger,
) *SlaMonitorJob {
	return &SlaMonitorJob{
		queue:   queue,
		handler: handler,
		now:     clock,
		config:  config,
		cron:    cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:  logger.With("component", "sla_monitor_job"),
	}
}

// Start schedules the job.
func (j *SlaMonitorJob) Start() error {
	_, err := j.cron.AddFunc(j.config.Schedule, func() {
		ctx := context.Background()
		if _, err := j.RunOnce(ctx); err != nil {
			j.logger.ErrorContext(ctx, "SLA monitor tick failed", "error", err)
		}
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "SLA monitor job started", "schedule", j.config.Schedule)
	return nil
}

// Stop stops scheduling and waits for a running tick to finish.
func (j *SlaMonitorJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "SLA monitor job stopped")
}

// RunOnce claims and processes one batch. It returns the number of claimed
// jobs. Failures of single checks are handled through the queue and do not
// make RunOnce fail.
func (j *SlaMonitorJob) RunOnce(ctx context.Context) (int, error) {
	jobs, err := j.queue.ClaimDue(ctx, j.now(), j.config.Lease, j.config.BatchSize)
	if err != nil {
		return 0, err
	}

	for _, job := range jobs {
		j.process(ctx, job)
	}
	return len(jobs), nil
}

func (j *SlaMonitorJob) process(ctx context.Context, job ports.SlaJob) {
	logger := j.logger.With(
		"job_id", job.ID.String(),
		"order_id", job.Check.OrderID.String(),
		"status", job.Check.Status.String(),
		"attempt", job.Attempts,
	)

	cmd, err := commands.NewMonitorOrderSlaCommand(job.Check)
	if err != nil {
		logger.ErrorContext(ctx, "Burying malformed SLA job", "error", err)
		metrics.SlaJobFailures.WithLabelValues(metrics.OutcomeBuried).Inc()
		j.settle(ctx, logger, j.queue.Bury(ctx, job.ID, err))
		return
	}

	effect, err := j.handler.Handle(ctx, cmd)
	if err == nil {
		logger.DebugContext(ctx, "SLA job done", "effect", effect.Kind.String(), "reason", effect.Reason)
		metrics.SlaChecks.WithLabelValues(effect.Kind.String()).Inc()
		j.settle(ctx, logger, j.queue.Complete(ctx, job.ID))
		return
	}

	if job.Attempts >= j.config.MaxAttempts {
		logger.ErrorContext(ctx, "SLA job exhausted its attempts", "error", err)
		metrics.SlaJobFailures.WithLabelValues(metrics.OutcomeBuried).Inc()
		j.settle(ctx, logger, j.queue.Bury(ctx, job.ID, err))
		return
	}

	runAt := j.now().Add(time.Duration(job.Attempts) * j.config.RetryBackoff)
	logger.WarnContext(ctx, "SLA job failed, retrying", "error", err, "run_at", runAt)
	metrics.SlaJobFailures.WithLabelValues(metrics.OutcomeRetried).Inc()
	j.settle(ctx, logger, j.queue.Retry(ctx, job.ID, runAt, err))
}

// settle logs a failed queue acknowledgement. The lease then expires and the
// job is delivered again, which the handler tolerates.
func (j *SlaMonitorJob) settle(ctx context.Context, logger *slog.Logger, err error) {
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.ErrorContext(ctx, "Failed to acknowledge SLA job", "error", err)
	}
}
