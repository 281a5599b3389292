// Package queries contains the read side of the fulfillment core.
// Queries read straight from the database and return read models; they
// never lock rows and never mutate state.
package queries

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/guard"
)

// ErrGetAvailableTransitionsQueryIsNotConstructed is returned when a GetAvailableTransitionsQuery is used without its constructor.
var ErrGetAvailableTransitionsQueryIsNotConstructed = errors.New(
	"GetAvailableTransitionsQuery must be created via NewGetAvailableTransitionsQuery constructor",
)

// GetAvailableTransitionsQuery lists the statuses an order may move to next.
//
// Example:
//
//	query, err := NewGetAvailableTransitionsQuery(orderID)
//	if err != nil {
//	    return err
//	}
//	resp, err := handler.Handle(ctx, query)
//	// resp.Transitions is empty for COMPLETED, CANCELLED and REFUNDED
type GetAvailableTransitionsQuery struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetAvailableTransitionsQuery creates the query for one order.
func NewGetAvailableTransitionsQuery(orderID kernel.UUID) (GetAvailableTransitionsQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetAvailableTransitionsQuery{}, err
	}
	return GetAvailableTransitionsQuery{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetAvailableTransitionsQuery) Validate() error {
	return q.guard.Validate(ErrGetAvailableTransitionsQueryIsNotConstructed)
}

// OrderID returns the ID of the order to inspect.
func (q GetAvailableTransitionsQuery) OrderID() kernel.UUID {
	return q.orderID
}

// GetAvailableTransitionsQueryResponse is the current status and its
// outgoing edges.
type GetAvailableTransitionsQueryResponse struct {
	OrderID     kernel.UUID
	Status      order.Status
	Transitions []order.Status
}
