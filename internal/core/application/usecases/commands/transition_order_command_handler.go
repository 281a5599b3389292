package commands

import (
	"context"
	"log/slog"

	"fulfillment/internal/core/domain/services"
)

// TransitionOrderCommandHandler moves an order to a new status.
//
// The order row is locked for the whole transaction, so a transition cannot
// interleave with an SLA check writing the same order. Status, side effects,
// the new SLA window, the armed SLA jobs and the StatusChanged event are all
// committed together or not at all.
//
// Example:
//
//	err := handler.Handle(ctx, cmd)
//	var invalid *services.InvalidTransitionError
//	var failed *services.ValidationFailedError
//	switch {
//	case errors.As(err, &invalid):
//	    // 409
//	case errors.As(err, &failed):
//	    // 422 with failed.Errors
//	case errors.Is(err, errs.ErrObjectNotFound):
//	    // 404
//	}
type TransitionOrderCommandHandler struct {
	uowFactory   UoWFactory
	stateMachine services.OrderStateMachine
	now          Clock
	logger       *slog.Logger
}

// NewTransitionOrderCommandHandler creates a handler for status transitions.
func NewTransitionOrderCommandHandler(
	uowFactory UoWFactory,
	stateMachine services.OrderStateMachine,
	clock Clock,
	logger *slog.Logger,
) TransitionOrderCommandHandler {
	return TransitionOrderCommandHandler{
		uowFactory:   uowFactory,
		stateMachine: stateMachine,
		now:          clock,
		logger:       logger.With("component", "transition_order_handler"),
	}
}

// Handle performs the transition. Domain errors from the state machine are
// returned unchanged.
func (h TransitionOrderCommandHandler) Handle(ctx context.Context, cmd TransitionOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	o, err := orderRepo.GetForUpdate(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	from := o.Status()
	if err = h.stateMachine.TransitionTo(o, cmd.To(), cmd.Context(), h.now()); err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, o); err != nil {
		return err
	}

	if checks := o.PullSlaChecks(); len(checks) > 0 {
		if err = scheduleSlaChecks(ctx, uow.SlaJobScheduler(), checks); err != nil {
			return err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.logger.InfoContext(ctx, "Order status changed",
		"order_id", o.ID().String(),
		"tenant_id", o.TenantID().String(),
		"from", from.String(),
		"to", o.Status().String(),
	)
	return nil
}
