package ports

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

// SlaJobScheduler arms delayed SLA checks. Implementations bound to a unit of
// work must write in the same transaction, so jobs exist iff it commits.
type SlaJobScheduler interface {
	Schedule(ctx context.Context, check order.SlaCheck, runAt time.Time) error
}

// SlaJob is a claimed delayed check.
type SlaJob struct {
	ID       kernel.UUID
	Check    order.SlaCheck
	RunAt    time.Time
	Attempts int
}

// SlaJobQueue is the consumer side of the delay queue. Delivery is
// at-least-once: a claimed job that is neither completed nor rescheduled
// becomes claimable again once its lease expires.
type SlaJobQueue interface {
	// ClaimDue leases up to limit jobs whose run time is not after now.
	// Jobs leased by another worker are skipped, not waited for.
	ClaimDue(ctx context.Context, now time.Time, lease time.Duration, limit int) ([]SlaJob, error)

	// Complete removes the job from the queue.
	Complete(ctx context.Context, id kernel.UUID) error

	// Retry records the failure and makes the job due again at runAt.
	Retry(ctx context.Context, id kernel.UUID, runAt time.Time, cause error) error

	// Bury parks a job that exhausted its attempts.
	Bury(ctx context.Context, id kernel.UUID, cause error) error
}
