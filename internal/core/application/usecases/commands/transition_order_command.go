package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/guard"
)

// ErrTransitionOrderCommandIsNotConstructed is returned when a TransitionOrderCommand is used without its constructor.
var ErrTransitionOrderCommandIsNotConstructed = errors.New(
	"TransitionOrderCommand must be created via NewTransitionOrderCommand constructor",
)

// TransitionOrderCommand asks to move an order to a target status.
//
// Example:
//
//	cmd, err := NewTransitionOrderCommand(orderID, order.Shipping, order.TransitionContext{
//	    TrackingNumber: "1Z999AA10123456784",
//	    ChangedBy:      "warehouse@acme",
//	})
type TransitionOrderCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	to      order.Status
	context order.TransitionContext

	guard guard.ConstructorGuard
}

// NewTransitionOrderCommand validates the order id and target status.
// Business rules are checked later, against the locked order.
func NewTransitionOrderCommand(
	orderID kernel.UUID,
	to order.Status,
	tctx order.TransitionContext,
) (TransitionOrderCommand, error) {
	if err := errors.Join(orderID.Validate(), to.Validate()); err != nil {
		return TransitionOrderCommand{}, err
	}

	return TransitionOrderCommand{
		orderID: orderID,
		to:      to,
		context: tctx,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c TransitionOrderCommand) Validate() error {
	return c.guard.Validate(ErrTransitionOrderCommandIsNotConstructed)
}

// OrderID returns the ID of the order to move.
func (c TransitionOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// To returns the target status.
func (c TransitionOrderCommand) To() order.Status {
	return c.to
}

// Context returns the data supplied with the transition.
func (c TransitionOrderCommand) Context() order.TransitionContext {
	return c.context
}
