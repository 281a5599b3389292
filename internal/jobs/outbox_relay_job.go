package jobs

import (
	"context"
	"log/slog"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/metrics"

	"github.com/robfig/cron/v3"
)

// OutboxRelayConfig tunes the outbox relay.
type OutboxRelayConfig struct {
	Schedule  string
	BatchSize int
	Lease     time.Duration
}

// OutboxRelayJob moves committed domain events from the outbox to the event
// bus. Delivery is at-least-once: a batch that fails to publish is retried
// after its lease expires.
type OutboxRelayJob struct {
	outbox ports.OutboxRepository
	bus    ports.EventBus
	now    commands.Clock
	config OutboxRelayConfig
	cron   *cron.Cron
	logger *slog.Logger
}

// NewOutboxRelayJob creates the relay.
func NewOutboxRelayJob(
	outbox ports.OutboxRepository,
	bus ports.EventBus,
	clock commands.Clock,
	config OutboxRelayConfig,
	logger *slog.Logger,
) *OutboxRelayJob {
	return &OutboxRelayJob{
		outbox: outbox,
		bus:    bus,
		now:    clock,
		config: config,
		cron:   cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger: logger.With("component", "outbox_relay_job"),
	}
}

// Start schedules the relay.
func (j *OutboxRelayJob) Start() error {
	_, err := j.cron.AddFunc(j.config.Schedule, func() {
		ctx := context.Background()
		if _, err := j.RunOnce(ctx); err != nil {
			j.logger.ErrorContext(ctx, "Outbox relay tick failed", "error", err)
		}
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Outbox relay job started", "schedule", j.config.Schedule)
	return nil
}

// Stop stops scheduling and waits for a running tick to finish.
func (j *OutboxRelayJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Outbox relay job stopped")
}

// RunOnce publishes one batch and returns how many messages were published.
func (j *OutboxRelayJob) RunOnce(ctx context.Context) (int, error) {
	messages, err := j.outbox.ClaimPending(ctx, j.now(), j.config.Lease, j.config.BatchSize)
	if err != nil {
		return 0, err
	}
	if len(messages) == 0 {
		return 0, nil
	}

	if err = j.bus.Publish(ctx, messages...); err != nil {
		metrics.OutboxPublishFailures.Inc()
		for _, m := range messages {
			if markErr := j.outbox.MarkFailed(ctx, m.ID, err); markErr != nil {
				j.logger.ErrorContext(ctx, "Failed to record outbox failure",
					"event_id", m.ID.String(), "error", markErr)
			}
		}
		return 0, err
	}

	publishedAt := j.now()
	for _, m := range messages {
		if markErr := j.outbox.MarkPublished(ctx, m.ID, publishedAt); markErr != nil {
			j.logger.ErrorContext(ctx, "Failed to mark outbox event published",
				"event_id", m.ID.String(), "error", markErr)
		}
	}

	metrics.OutboxPublished.Add(float64(len(messages)))
	j.logger.DebugContext(ctx, "Outbox events published", "count", len(messages))
	return len(messages), nil
}
