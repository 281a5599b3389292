// Package ports defines the contracts between the fulfillment core and its
// adapters: persistence, the SLA delay queue and the event bus.
package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
type OrderRepository interface {
	// Add persists a new order aggregate.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists the full state of an existing order, including its SLA
	// window. Returns errs.ObjectNotFoundError if the order does not exist.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get loads an order without locking it.
	// Returns errs.ObjectNotFoundError if the order does not exist.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetForUpdate loads an order and holds its row lock until the surrounding
	// transaction ends. Every read-modify-write of status or SLA state must go
	// through it so concurrent writers serialize per order.
	// Returns errs.ObjectNotFoundError if the order does not exist.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error)
}
