package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/guard"
)

// ErrMonitorOrderSlaCommandIsNotConstructed is returned when a MonitorOrderSlaCommand is used without its constructor.
var ErrMonitorOrderSlaCommandIsNotConstructed = errors.New(
	"MonitorOrderSlaCommand must be created via NewMonitorOrderSlaCommand constructor",
)

// MonitorOrderSlaCommand runs one delayed SLA check.
type MonitorOrderSlaCommand struct { //nolint:recvcheck //using for validation
	check order.SlaCheck

	guard guard.ConstructorGuard
}

// NewMonitorOrderSlaCommand wraps a validated check.
func NewMonitorOrderSlaCommand(check order.SlaCheck) (MonitorOrderSlaCommand, error) {
	if err := check.Validate(); err != nil {
		return MonitorOrderSlaCommand{}, err
	}
	return MonitorOrderSlaCommand{check: check, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the command was created through the constructor.
func (c MonitorOrderSlaCommand) Validate() error {
	return c.guard.Validate(ErrMonitorOrderSlaCommandIsNotConstructed)
}

// Check returns the SLA check to run.
func (c MonitorOrderSlaCommand) Check() order.SlaCheck {
	return c.check
}
