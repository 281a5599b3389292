package queries

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/guard"
)

// ErrValidateTransitionQueryIsNotConstructed is returned when a ValidateTransitionQuery is used without its constructor.
var ErrValidateTransitionQueryIsNotConstructed = errors.New(
	"ValidateTransitionQuery must be created via NewValidateTransitionQuery constructor",
)

// ValidateTransitionQuery dry-runs a transition. Nothing is written.
type ValidateTransitionQuery struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	to      order.Status
	context order.TransitionContext

	guard guard.ConstructorGuard
}

// NewValidateTransitionQuery validates the order id and target status.
func NewValidateTransitionQuery(
	orderID kernel.UUID,
	to order.Status,
	tctx order.TransitionContext,
) (ValidateTransitionQuery, error) {
	if err := errors.Join(orderID.Validate(), to.Validate()); err != nil {
		return ValidateTransitionQuery{}, err
	}
	return ValidateTransitionQuery{
		orderID: orderID,
		to:      to,
		context: tctx,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q ValidateTransitionQuery) Validate() error {
	return q.guard.Validate(ErrValidateTransitionQueryIsNotConstructed)
}

// OrderID returns the ID of the order to check.
func (q ValidateTransitionQuery) OrderID() kernel.UUID {
	return q.orderID
}

// To returns the target status.
func (q ValidateTransitionQuery) To() order.Status {
	return q.to
}

// Context returns the data supplied with the transition.
func (q ValidateTransitionQuery) Context() order.TransitionContext {
	return q.context
}
