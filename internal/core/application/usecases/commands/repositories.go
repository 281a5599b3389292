// Package commands contains the write side of the fulfillment core.
// Every command is validated by its constructor, then handled inside a unit
// of work: begin, load under lock, mutate the aggregate, persist, arm SLA
// jobs, commit. Domain events reach the outbox through the unit of work.
package commands

import (
	"context"
	"time"

	"fulfillment/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory provides access to order repository within a transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// SlaSchedulerFactory provides access to the SLA delay queue within a transaction.
	SlaSchedulerFactory interface {
		SlaJobScheduler() ports.SlaJobScheduler
	}

	// OrderUoW manages transactions that only touch order state.
	// Used by the SLA monitor, which never arms new jobs.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
	}

	// OrderUoWFactory creates new order unit of work instances.
	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// UoW manages transactions that change an order status and arm the SLA
	// jobs of the new window in the same commit.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   o, err := uow.OrderRepository().GetForUpdate(ctx, id)
	//   // ... mutate o
	//   err = uow.OrderRepository().Update(ctx, o)
	//   err = scheduleSlaChecks(ctx, uow.SlaJobScheduler(), o.PullSlaChecks())
	//
	//   err = uow.Commit(ctx)
	UoW interface {
		TxManager
		OrderRepoFactory
		SlaSchedulerFactory
	}

	// UoWFactory creates new unit of work instances.
	UoWFactory interface {
		Create() UoW
	}
)

// Clock returns the current time. Handlers take it as a dependency so SLA
// arithmetic can be tested at fixed instants.
type Clock func() time.Time

// SystemClock is the Clock used in production.
func SystemClock() time.Time {
	return time.Now().UTC()
}
