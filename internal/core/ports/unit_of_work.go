package ports

import (
	"context"
)

// UnitOfWorkFactory creates a fresh UnitOfWork per command.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork is a business transaction boundary. Aggregates saved through its
// repositories are tracked, and their pending domain events are written to
// the outbox when Commit succeeds in the same transaction.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error

	// OrderRepository is bound to the transaction started by Begin.
	OrderRepository() OrderRepository

	// SlaJobScheduler is bound to the transaction started by Begin.
	SlaJobScheduler() SlaJobScheduler
}
