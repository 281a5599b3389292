package order

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// SlaCheck is the payload of one delayed SLA job. It targets the status the
// order was in when the job was armed; a check whose status no longer matches
// the order is stale and must not touch it.
//
// A check targets the threshold, one ladder step, or both. A combined check
// applies the breach before the escalation.
type SlaCheck struct {
	OrderID         kernel.UUID
	TenantID        kernel.UUID
	Status          Status
	EscalationIndex *int
	ThresholdCheck  bool
}

// NewThresholdCheck builds the breach check of a window.
func NewThresholdCheck(orderID, tenantID kernel.UUID, status Status) (SlaCheck, error) {
	c := SlaCheck{OrderID: orderID, TenantID: tenantID, Status: status, ThresholdCheck: true}
	return c, c.Validate()
}

// NewEscalationCheck builds the check of the ladder step at index.
func NewEscalationCheck(orderID, tenantID kernel.UUID, status Status, index int) (SlaCheck, error) {
	c := SlaCheck{OrderID: orderID, TenantID: tenantID, Status: status, EscalationIndex: &index}
	return c, c.Validate()
}

// NewBreachAndEscalationCheck builds a check that covers the threshold and the
// ladder step at index in one job.
func NewBreachAndEscalationCheck(orderID, tenantID kernel.UUID, status Status, index int) (SlaCheck, error) {
	c := SlaCheck{
		OrderID:         orderID,
		TenantID:        tenantID,
		Status:          status,
		ThresholdCheck:  true,
		EscalationIndex: &index,
	}
	return c, c.Validate()
}

// Validate rejects checks with missing identifiers, an invalid status, no
// target or a negative step.
func (c SlaCheck) Validate() error {
	var target error
	switch {
	case !c.ThresholdCheck && c.EscalationIndex == nil:
		target = errs.NewValueIsRequiredError("slaCheck target")
	case c.EscalationIndex != nil && *c.EscalationIndex < 0:
		target = errs.NewValueIsOutOfRangeError("escalationIndex", *c.EscalationIndex, 0, "ladder length")
	}
	return errors.Join(
		c.OrderID.Validate(),
		c.TenantID.Validate(),
		c.Status.Validate(),
		target,
	)
}

// ScheduledSlaCheck pairs a check with the instant it becomes due.
type ScheduledSlaCheck struct {
	Check SlaCheck
	RunAt time.Time
}
