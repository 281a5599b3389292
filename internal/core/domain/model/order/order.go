package order

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order was not created via
	// NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder")

	// ErrSlaAlreadyBreached is returned when the active window is already
	// flagged as breached.
	ErrSlaAlreadyBreached = errors.New("sla window is already breached")

	// ErrEscalationAlreadyTriggered is returned when the targeted escalation
	// step has already fired.
	ErrEscalationAlreadyTriggered = errors.New("escalation step is already triggered")
)

// TransitionContext carries the caller-supplied data a transition needs.
// Which fields matter depends on the target status: VendorID for
// VendorNegotiation, QuotationAmount for CustomerQuote, PaymentMethod for
// PaymentReceived, TrackingNumber for Shipping, Reason for Cancelled and
// RefundAmount for Refunded. Amounts are in minor currency units.
type TransitionContext struct {
	VendorID        *kernel.UUID
	TrackingNumber  string
	QuotationAmount int64
	PaymentMethod   string
	Reason          string
	RefundAmount    int64
	ChangedBy       string
}

// Order is the aggregate root of the fulfillment pipeline.
//
// Invariants:
//   - id and tenantID are valid, status is a valid Status
//   - the SLA window always describes the current status
//   - status and window only change together, through ChangeStatus
//   - within a window, the breach flag and each escalation step flip once
//
// Order collects domain events and due SLA checks as it changes; the
// application layer drains both with PullEvents and PullSlaChecks.
type Order struct {
	id                 kernel.UUID
	tenantID           kernel.UUID
	status             Status
	vendorID           *kernel.UUID
	trackingNumber     string
	totalAmount        int64
	quotationAmount    int64
	cancellationReason string
	refundAmount       int64
	shippedAt          *time.Time
	deliveredAt        *time.Time
	sla                SlaWindow
	createdAt          time.Time
	updatedAt          time.Time

	events    []DomainEvent
	slaChecks []ScheduledSlaCheck

	isConstructed bool
}

// NewOrder captures a new order in status New and opens its SLA window at now.
//
// totalAmount is in minor currency units and must not be negative.
//
// Example:
//
//	o, err := order.NewOrder(kernel.NewUUID(), tenantID, 125_00, time.Now())
//	if err != nil {
//	    return err
//	}
func NewOrder(id, tenantID kernel.UUID, totalAmount int64, now time.Time) (*Order, error) {
	if err := errors.Join(
		id.Validate(),
		tenantID.Validate(),
		validateAmount("totalAmount", totalAmount),
	); err != nil {
		return nil, err
	}

	o := &Order{
		id:            id,
		tenantID:      tenantID,
		status:        New,
		totalAmount:   totalAmount,
		sla:           NewSlaWindow(New, now),
		createdAt:     now,
		updatedAt:     now,
		isConstructed: true,
	}
	o.armSlaChecks()
	return o, nil
}

// Snapshot is the full persisted state of an Order. It is the contract
// between the aggregate and its repositories.
type Snapshot struct {
	ID                 kernel.UUID
	TenantID           kernel.UUID
	Status             Status
	VendorID           *kernel.UUID
	TrackingNumber     string
	TotalAmount        int64
	QuotationAmount    int64
	CancellationReason string
	RefundAmount       int64
	ShippedAt          *time.Time
	DeliveredAt        *time.Time
	Sla                SlaWindow
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// RestoreOrder rebuilds an Order from storage. Business rules that only apply
// at creation, such as the non-negative total, are not re-checked so legacy
// rows still load; they are enforced again by the transition rules.
func RestoreOrder(s Snapshot) (*Order, error) {
	if err := errors.Join(
		s.ID.Validate(),
		s.TenantID.Validate(),
		s.Status.Validate(),
	); err != nil {
		return nil, err
	}
	if s.Sla.Status() != s.Status {
		return nil, errs.NewValueIsInvalidErrorWithCause(
			"sla",
			fmt.Errorf("window describes %s but order is %s", s.Sla.Status(), s.Status),
		)
	}

	return &Order{
		id:                 s.ID,
		tenantID:           s.TenantID,
		status:             s.Status,
		vendorID:           s.VendorID,
		trackingNumber:     s.TrackingNumber,
		totalAmount:        s.TotalAmount,
		quotationAmount:    s.QuotationAmount,
		cancellationReason: s.CancellationReason,
		refundAmount:       s.RefundAmount,
		shippedAt:          s.ShippedAt,
		deliveredAt:        s.DeliveredAt,
		sla:                s.Sla.clone(),
		createdAt:          s.CreatedAt,
		updatedAt:          s.UpdatedAt,
		isConstructed:      true,
	}, nil
}

// Snapshot returns a copy of the order state for persistence.
func (o *Order) Snapshot() Snapshot {
	return Snapshot{
		ID:                 o.id,
		TenantID:           o.tenantID,
		Status:             o.status,
		VendorID:           o.vendorID,
		TrackingNumber:     o.trackingNumber,
		TotalAmount:        o.totalAmount,
		QuotationAmount:    o.quotationAmount,
		CancellationReason: o.cancellationReason,
		RefundAmount:       o.refundAmount,
		ShippedAt:          o.shippedAt,
		DeliveredAt:        o.deliveredAt,
		Sla:                o.sla.clone(),
		CreatedAt:          o.createdAt,
		UpdatedAt:          o.updatedAt,
	}
}

// Validate ensures the Order was built by NewOrder or RestoreOrder.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares orders by identity.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// TenantID returns the tenant that owns the order.
func (o *Order) TenantID() kernel.UUID {
	return o.tenantID
}

// Status returns the current status of the order.
func (o *Order) Status() Status {
	return o.status
}

// VendorID returns the assigned vendor, or nil before vendor negotiation.
func (o *Order) VendorID() *kernel.UUID {
	return o.vendorID
}

// TrackingNumber returns the shipment tracking number, if any.
func (o *Order) TrackingNumber() string {
	return o.trackingNumber
}

// TotalAmount returns the order total in minor currency units.
func (o *Order) TotalAmount() int64 {
	return o.totalAmount
}

// QuotationAmount returns the quoted amount in minor currency units.
func (o *Order) QuotationAmount() int64 {
	return o.quotationAmount
}

// CancellationReason returns the reason recorded on cancellation.
func (o *Order) CancellationReason() string {
	return o.cancellationReason
}

// RefundAmount returns the refunded amount in minor currency units.
func (o *Order) RefundAmount() int64 {
	return o.refundAmount
}

// ShippedAt returns when the order entered SHIPPING, or nil.
func (o *Order) ShippedAt() *time.Time {
	return o.shippedAt
}

// DeliveredAt returns when the order was delivered, or nil.
func (o *Order) DeliveredAt() *time.Time {
	return o.deliveredAt
}

// CreatedAt returns when the order was created.
func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

// UpdatedAt returns when the order was last modified.
func (o *Order) UpdatedAt() time.Time {
	return o.updatedAt
}

// Sla returns a copy of the active SLA window.
func (o *Order) Sla() SlaWindow {
	return o.sla.clone()
}

// HasVendor reports whether a vendor is assigned.
func (o *Order) HasVendor() bool {
	return o.vendorID != nil
}

// HasTrackingNumber reports whether a carrier tracking number is recorded.
func (o *Order) HasTrackingNumber() bool {
	return o.trackingNumber != ""
}

// ChangeStatus moves the order to status to, applies the side effects of the
// target status, replaces the SLA window and arms its checks.
//
// It only guards the adjacency graph; business rules for the move are checked
// by the state machine before it calls ChangeStatus. On error nothing changes.
func (o *Order) ChangeStatus(to Status, tctx TransitionContext, now time.Time) error {
	if err := to.Validate(); err != nil {
		return err
	}
	if !o.status.CanTransitionTo(to) {
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s cannot move to %s", o.status, to),
		)
	}

	from := o.status
	switch to {
	case VendorNegotiation:
		if tctx.VendorID != nil {
			vendorID := *tctx.VendorID
			o.vendorID = &vendorID
		}
	case CustomerQuote:
		o.quotationAmount = tctx.QuotationAmount
	case Shipping:
		if tctx.TrackingNumber != "" {
			o.trackingNumber = tctx.TrackingNumber
		}
		shippedAt := now
		o.shippedAt = &shippedAt
	case Delivered:
		deliveredAt := now
		o.deliveredAt = &deliveredAt
	case Cancelled:
		o.cancellationReason = tctx.Reason
	case Refunded:
		o.refundAmount = tctx.RefundAmount
	}

	o.status = to
	o.sla = NewSlaWindow(to, now)
	o.updatedAt = now
	o.armSlaChecks()
	o.raise(StatusChanged{
		ID:         kernel.NewUUID(),
		OrderID:    o.id,
		TenantID:   o.tenantID,
		From:       from.String(),
		To:         to.String(),
		Reason:     tctx.Reason,
		ChangedBy:  tctx.ChangedBy,
		OccurredAt: now,
	})
	return nil
}

// MarkSlaBreached flags the active window as breached at now and raises
// OrderSlaBreached. It fails with ErrSlaAlreadyBreached on a second call.
func (o *Order) MarkSlaBreached(now time.Time) error {
	if err := o.sla.markBreached(now); err != nil {
		return err
	}
	o.updatedAt = now
	o.raise(OrderSlaBreached{
		ID:             kernel.NewUUID(),
		OrderID:        o.id,
		TenantID:       o.tenantID,
		Status:         o.status.String(),
		ElapsedMinutes: o.sla.ElapsedMinutes(now),
		BreachedAt:     now,
	})
	return nil
}

// TriggerSlaEscalation fires the ladder step at index and raises
// OrderSlaEscalated. Only that step is touched; it fails with
// ErrEscalationAlreadyTriggered if the step already fired.
func (o *Order) TriggerSlaEscalation(index int, now time.Time) error {
	step, err := o.sla.triggerEscalation(index, now)
	if err != nil {
		return err
	}
	o.updatedAt = now
	o.raise(OrderSlaEscalated{
		ID:          kernel.NewUUID(),
		OrderID:     o.id,
		TenantID:    o.tenantID,
		Status:      o.status.String(),
		Level:       step.Level(),
		Channel:     step.Channel(),
		Step:        index,
		TriggeredAt: now,
	})
	return nil
}

// PullEvents returns and clears the events raised since the last call.
func (o *Order) PullEvents() []DomainEvent {
	events := o.events
	o.events = nil
	return events
}

// PullSlaChecks returns and clears the SLA checks armed since the last call.
func (o *Order) PullSlaChecks() []ScheduledSlaCheck {
	checks := o.slaChecks
	o.slaChecks = nil
	return checks
}

func (o *Order) raise(e DomainEvent) {
	o.events = append(o.events, e)
}

// armSlaChecks queues one threshold check and one check per ladder step for
// the active window. Windows without a threshold arm nothing.
func (o *Order) armSlaChecks() {
	if !o.sla.HasThreshold() {
		return
	}
	o.slaChecks = append(o.slaChecks, ScheduledSlaCheck{
		Check: SlaCheck{
			OrderID:        o.id,
			TenantID:       o.tenantID,
			Status:         o.status,
			ThresholdCheck: true,
		},
		RunAt: o.sla.DueAt(),
	})
	for i, step := range o.sla.escalations {
		index := i
		o.slaChecks = append(o.slaChecks, ScheduledSlaCheck{
			Check: SlaCheck{
				OrderID:         o.id,
				TenantID:        o.tenantID,
				Status:          o.status,
				EscalationIndex: &index,
			},
			RunAt: o.sla.startedAt.Add(time.Duration(step.afterMinutes) * time.Minute),
		})
	}
}

func (w SlaWindow) clone() SlaWindow {
	w.escalations = slices.Clone(w.escalations)
	return w
}

func validateAmount(name string, amount int64) error {
	if amount < 0 {
		return errs.NewValueIsInvalidErrorWithCause(name, fmt.Errorf("%d is negative", amount))
	}
	return nil
}
