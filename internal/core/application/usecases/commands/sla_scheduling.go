package commands

import (
	"context"
	"fmt"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
)

// scheduleSlaChecks arms every check in the scheduler bound to the current
// transaction.
func scheduleSlaChecks(ctx context.Context, scheduler ports.SlaJobScheduler, checks []order.ScheduledSlaCheck) error {
	for _, c := range checks {
		if err := scheduler.Schedule(ctx, c.Check, c.RunAt); err != nil {
			return fmt.Errorf("schedule sla check for %s: %w", c.Check.Status, err)
		}
	}
	return nil
}
