package commands

import (
	"context"

	"fulfillment/internal/core/domain/model/order"
)

// CreateOrderCommandHandler persists a new order in status NEW.
type CreateOrderCommandHandler struct {
	uowFactory UoWFactory
	now        Clock
}

// NewCreateOrderCommandHandler creates a handler for order creation.
func NewCreateOrderCommandHandler(uowFactory UoWFactory, clock Clock) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		now:        clock,
	}
}

// Handle creates the order and arms whatever SLA checks its initial window
// requires, in one transaction.
func (h CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) error {
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

	o, err := order.NewOrder(cmd.OrderID(), cmd.TenantID(), cmd.TotalAmount(), h.now())
	if err != nil {
		return err
	}

	if err = uow.OrderRepository().Add(ctx, o); err != nil {
		return err
	}

	if checks := o.PullSlaChecks(); len(checks) > 0 {
		if err = scheduleSlaChecks(ctx, uow.SlaJobScheduler(), checks); err != nil {
			return err
		}
	}

	return uow.Commit(ctx)
}
