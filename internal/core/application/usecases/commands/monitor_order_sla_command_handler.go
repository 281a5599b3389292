package commands

import (
	"context"
	"errors"
	"log/slog"

	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/pkg/errs"
)

// MonitorOrderSlaCommandHandler executes a delayed SLA check.
//
// The order is re-read under its row lock, the decision is taken by
// services.SlaMonitor against that fresh state, and only the targeted field
// (breach flag or one escalation step) changes before the write-back. Sibling
// checks of the same order therefore serialize, and redelivered checks are
// no-ops.
//
// Persistence errors are returned so the delay queue retries the job. A
// missing order is not an error: the job has nothing left to do.
type MonitorOrderSlaCommandHandler struct {
	uowFactory OrderUoWFactory
	monitor    services.SlaMonitor
	now        Clock
	logger     *slog.Logger
}

// NewMonitorOrderSlaCommandHandler creates the SLA check handler.
func NewMonitorOrderSlaCommandHandler(
	uowFactory OrderUoWFactory,
	monitor services.SlaMonitor,
	clock Clock,
	logger *slog.Logger,
) MonitorOrderSlaCommandHandler {
	return MonitorOrderSlaCommandHandler{
		uowFactory: uowFactory,
		monitor:    monitor,
		now:        clock,
		logger:     logger.With("component", "sla_monitor_handler"),
	}
}

// Handle runs the check and returns the effect that was applied.
func (h MonitorOrderSlaCommandHandler) Handle(ctx context.Context, cmd MonitorOrderSlaCommand) (services.Effect, error) {
	if err := cmd.Validate(); err != nil {
		return services.Effect{}, err
	}
	check := cmd.Check()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return services.Effect{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	o, err := orderRepo.GetForUpdate(ctx, check.OrderID)
	if errors.Is(err, errs.ErrObjectNotFound) {
		h.logger.WarnContext(ctx, "Order for SLA check not found",
			"order_id", check.OrderID.String(),
			"tenant_id", check.TenantID.String(),
			"status", check.Status.String(),
		)
		return services.Effect{Kind: services.NoOp, Reason: "order not found"}, nil
	}
	if err != nil {
		return services.Effect{}, err
	}

	now := h.now()
	effect := h.monitor.Decide(o, check, now)
	if effect.Kind == services.NoOp {
		h.logger.DebugContext(ctx, "SLA check skipped",
			"order_id", check.OrderID.String(),
			"status", check.Status.String(),
			"reason", effect.Reason,
		)
		return effect, nil
	}

	if err = h.monitor.Apply(o, effect, now); err != nil {
		return services.Effect{}, err
	}

	if err = orderRepo.Update(ctx, o); err != nil {
		return services.Effect{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return services.Effect{}, err
	}

	h.logger.InfoContext(ctx, "SLA effect applied",
		"order_id", check.OrderID.String(),
		"tenant_id", check.TenantID.String(),
		"status", check.Status.String(),
		"effect", effect.Kind.String(),
		"step", effect.Step,
	)
	return effect, nil
}
