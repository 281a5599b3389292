package ports

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
)

// OutboxMessage is a serialized domain event waiting to be published.
type OutboxMessage struct {
	ID          kernel.UUID
	AggregateID kernel.UUID
	TenantID    kernel.UUID
	EventType   string
	Payload     []byte
	OccurredAt  time.Time
	Attempts    int
}

// EventBus publishes domain events to subscribers. Publish may be called
// more than once for the same message; consumers dedupe by message ID.
type EventBus interface {
	Publish(ctx context.Context, messages ...OutboxMessage) error
}

// OutboxRepository is the relay side of the transactional outbox.
type OutboxRepository interface {
	// ClaimPending leases up to limit unpublished messages in insertion order.
	ClaimPending(ctx context.Context, now time.Time, lease time.Duration, limit int) ([]OutboxMessage, error)

	// MarkPublished stamps the message as delivered.
	MarkPublished(ctx context.Context, id kernel.UUID, at time.Time) error

	// MarkFailed records a failed delivery; the message is retried after
	// its lease expires.
	MarkFailed(ctx context.Context, id kernel.UUID, cause error) error
}
