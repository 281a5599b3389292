package queries

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/guard"
)

// ErrGetOrderSlaQueryIsNotConstructed is returned when a GetOrderSlaQuery is used without its constructor.
var ErrGetOrderSlaQueryIsNotConstructed = errors.New(
	"GetOrderSlaQuery must be created via NewGetOrderSlaQuery constructor",
)

// GetOrderSlaQuery reads the active SLA window of an order.
type GetOrderSlaQuery struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetOrderSlaQuery creates the query for one order.
func NewGetOrderSlaQuery(orderID kernel.UUID) (GetOrderSlaQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetOrderSlaQuery{}, err
	}
	return GetOrderSlaQuery{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOrderSlaQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderSlaQueryIsNotConstructed)
}

// OrderID returns the ID of the order to read.
func (q GetOrderSlaQuery) OrderID() kernel.UUID {
	return q.orderID
}

// GetOrderSlaQueryResponse is the read model of the active window. DueAt is
// nil for statuses without a threshold.
type GetOrderSlaQueryResponse struct {
	OrderID          kernel.UUID
	Status           order.Status
	StartedAt        time.Time
	ThresholdMinutes int
	DueAt            *time.Time
	ElapsedMinutes   int
	Breached         bool
	BreachedAt       *time.Time
	Escalations      []EscalationView
}

// EscalationView is one ladder step with its absolute due time.
type EscalationView struct {
	Level        string
	Channel      order.Channel
	AfterMinutes int
	DueAt        time.Time
	TriggeredAt  *time.Time
}
