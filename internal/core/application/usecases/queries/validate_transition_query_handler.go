package queries

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/services"
)

// OrderReader loads an order without locking it.
type OrderReader interface {
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)
}

// ValidateTransitionQueryResponse reports both checks of a transition.
// InGraph is false when the edge does not exist; Errors lists every failed
// business rule regardless.
type ValidateTransitionQueryResponse struct {
	OrderID kernel.UUID
	From    order.Status
	To      order.Status
	InGraph bool
	Errors  []services.ValidationError
}

// Valid reports whether TransitionTo would succeed right now.
func (r ValidateTransitionQueryResponse) Valid() bool {
	return r.InGraph && len(r.Errors) == 0
}

// ValidateTransitionQueryHandler runs the state machine checks against the
// current order.
type ValidateTransitionQueryHandler struct {
	orders       OrderReader
	stateMachine services.OrderStateMachine
}

// NewValidateTransitionQueryHandler creates the handler.
func NewValidateTransitionQueryHandler(
	orders OrderReader,
	stateMachine services.OrderStateMachine,
) ValidateTransitionQueryHandler {
	return ValidateTransitionQueryHandler{orders: orders, stateMachine: stateMachine}
}

// Handle returns the repository error unchanged, errs.ObjectNotFoundError
// for unknown orders.
func (h ValidateTransitionQueryHandler) Handle(
	ctx context.Context,
	query ValidateTransitionQuery,
) (ValidateTransitionQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return ValidateTransitionQueryResponse{}, err
	}

	o, err := h.orders.Get(ctx, query.OrderID())
	if err != nil {
		return ValidateTransitionQueryResponse{}, err
	}

	failures := h.stateMachine.ValidateTransition(o, query.To(), query.Context())
	if failures == nil {
		failures = []services.ValidationError{}
	}

	return ValidateTransitionQueryResponse{
		OrderID: o.ID(),
		From:    o.Status(),
		To:      query.To(),
		InGraph: h.stateMachine.CanTransition(o.Status(), query.To()),
		Errors:  failures,
	}, nil
}
