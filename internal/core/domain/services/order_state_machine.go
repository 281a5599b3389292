package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/order"
)

var (
	// ErrInvalidTransition is wrapped by InvalidTransitionError.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrValidationFailed is wrapped by ValidationFailedError.
	ErrValidationFailed = errors.New("transition validation failed")
)

// InvalidTransitionError reports a move that is not an edge of the graph.
// It is a caller error and must not be retried.
type InvalidTransitionError struct {
	From order.Status
	To   order.Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s: %s -> %s", ErrInvalidTransition, e.From, e.To)
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// ValidationFailedError reports a graph-legal move rejected by business rules.
type ValidationFailedError struct {
	From   order.Status
	To     order.Status
	Errors []ValidationError
}

func (e *ValidationFailedError) Error() string {
	messages := make([]string, 0, len(e.Errors))
	for _, v := range e.Errors {
		messages = append(messages, v.Message)
	}
	return fmt.Sprintf("%s: %s -> %s: %s", ErrValidationFailed, e.From, e.To, strings.Join(messages, "; "))
}

func (e *ValidationFailedError) Unwrap() error {
	return ErrValidationFailed
}

// OrderStateMachine decides whether an order may move to a status and
// performs the move on the aggregate.
//
// Business rules:
//   - only edges of the adjacency table are allowed, never a self edge
//   - a graph-legal move must also pass every TransitionValidator rule
//   - terminal statuses always report InvalidTransitionError
//   - a failed move leaves the order untouched
//
// Example usage:
//
//	sm := services.NewOrderStateMachine()
//	err := sm.TransitionTo(o, order.Shipping, order.TransitionContext{TrackingNumber: "1Z999"}, now)
//	var failed *services.ValidationFailedError
//	if errors.As(err, &failed) {
//	    // report failed.Errors to the caller
//	}
type OrderStateMachine struct {
	validator TransitionValidator
}

// NewOrderStateMachine returns a state machine with the pipeline rule set.
func NewOrderStateMachine() OrderStateMachine {
	return OrderStateMachine{validator: NewTransitionValidator()}
}

// CanTransition reports whether to is adjacent to from.
func (sm OrderStateMachine) CanTransition(from, to order.Status) bool {
	return from.CanTransitionTo(to)
}

// AvailableTransitions lists the statuses the order may move to next.
// It is empty for terminal statuses.
func (sm OrderStateMachine) AvailableTransitions(o *order.Order) []order.Status {
	return o.Status().AllowedTransitions()
}

// ValidateTransition checks the move without touching the order. The result
// is empty exactly when TransitionTo would succeed. A move that is not an
// edge of the graph reports CodeTransitionNotAllowed first, followed by any
// failed business rule.
func (sm OrderStateMachine) ValidateTransition(
	o *order.Order,
	to order.Status,
	tctx order.TransitionContext,
) []ValidationError {
	var failures []ValidationError
	if from := o.Status(); !sm.CanTransition(from, to) {
		failures = append(failures, ValidationError{
			Field:   "status",
			Code:    CodeTransitionNotAllowed,
			Message: fmt.Sprintf("transition from %s to %s is not allowed", from, to),
		})
	}
	return append(failures, sm.validator.Validate(o, to, tctx)...)
}

// TransitionTo checks the move and applies it to the order at now.
//
// Returns:
//   - *InvalidTransitionError if to is not adjacent to the current status
//   - *ValidationFailedError with every failed rule otherwise
//   - nil once the status, side effects and SLA window are updated
func (sm OrderStateMachine) TransitionTo(
	o *order.Order,
	to order.Status,
	tctx order.TransitionContext,
	now time.Time,
) error {
	if err := o.Validate(); err != nil {
		return err
	}

	from := o.Status()
	if !sm.CanTransition(from, to) {
		return &InvalidTransitionError{From: from, To: to}
	}

	if failures := sm.validator.Validate(o, to, tctx); len(failures) > 0 {
		return &ValidationFailedError{From: from, To: to, Errors: failures}
	}

	return o.ChangeStatus(to, tctx, now)
}
