package http

import (
	"errors"
	"time"

	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/services"
)

var errInvalidBody = errors.New("invalid request body")

// Error is the body of every non-2xx response. Errors is set only for 422.
type Error struct {
	Code    int                        `json:"code"`
	Message string                     `json:"message"`
	Errors  []services.ValidationError `json:"errors,omitempty"`
}

// NewOrder is the body of POST /api/v1/orders. Amounts are minor units.
type NewOrder struct {
	TenantID    string `json:"tenant_id"`
	TotalAmount int64  `json:"total_amount"`
}

// CreatedOrder is returned with 201.
type CreatedOrder struct {
	ID string `json:"id"`
}

// TransitionRequest is the body of both transition endpoints.
type TransitionRequest struct {
	To              string `json:"to"`
	VendorID        string `json:"vendor_id,omitempty"`
	TrackingNumber  string `json:"tracking_number,omitempty"`
	QuotationAmount int64  `json:"quotation_amount,omitempty"`
	PaymentMethod   string `json:"payment_method,omitempty"`
	Reason          string `json:"reason,omitempty"`
	RefundAmount    int64  `json:"refund_amount,omitempty"`
	ChangedBy       string `json:"changed_by,omitempty"`
}

func (r TransitionRequest) transitionContext() (order.TransitionContext, error) {
	tctx := order.TransitionContext{
		TrackingNumber:  r.TrackingNumber,
		QuotationAmount: r.QuotationAmount,
		PaymentMethod:   r.PaymentMethod,
		Reason:          r.Reason,
		RefundAmount:    r.RefundAmount,
		ChangedBy:       r.ChangedBy,
	}
	if r.VendorID != "" {
		vendorID, err := kernel.UUIDFromString(r.VendorID)
		if err != nil {
			return order.TransitionContext{}, err
		}
		tctx.VendorID = &vendorID
	}
	return tctx, nil
}

// AvailableTransitions lists the statuses an order may move to.
type AvailableTransitions struct {
	OrderID     string   `json:"order_id"`
	Status      string   `json:"status"`
	Transitions []string `json:"transitions"`
}

// TransitionValidation is the dry-run result. Valid is InGraph with no errors.
type TransitionValidation struct {
	OrderID string                     `json:"order_id"`
	From    string                     `json:"from"`
	To      string                     `json:"to"`
	InGraph bool                       `json:"in_graph"`
	Valid   bool                       `json:"valid"`
	Errors  []services.ValidationError `json:"errors"`
}

// SlaWindow is the active SLA window of an order.
type SlaWindow struct {
	OrderID          string       `json:"order_id"`
	Status           string       `json:"status"`
	StartedAt        time.Time    `json:"started_at"`
	ThresholdMinutes int          `json:"threshold_minutes"`
	DueAt            *time.Time   `json:"due_at,omitempty"`
	ElapsedMinutes   int          `json:"elapsed_minutes"`
	Breached         bool         `json:"breached"`
	BreachedAt       *time.Time   `json:"breached_at,omitempty"`
	Escalations      []Escalation `json:"escalations"`
}

// Escalation is one step of the ladder.
type Escalation struct {
	Level        string     `json:"level"`
	Channel      string     `json:"channel"`
	AfterMinutes int        `json:"after_minutes"`
	DueAt        time.Time  `json:"due_at"`
	TriggeredAt  *time.Time `json:"triggered_at,omitempty"`
}

func toSlaWindow(res queries.GetOrderSlaQueryResponse) SlaWindow {
	escalations := make([]Escalation, 0, len(res.Escalations))
	for _, e := range res.Escalations {
		escalations = append(escalations, Escalation{
			Level:        e.Level,
			Channel:      string(e.Channel),
			AfterMinutes: e.AfterMinutes,
			DueAt:        e.DueAt,
			TriggeredAt:  e.TriggeredAt,
		})
	}

	return SlaWindow{
		OrderID:          res.OrderID.String(),
		Status:           res.Status.String(),
		StartedAt:        res.StartedAt,
		ThresholdMinutes: res.ThresholdMinutes,
		DueAt:            res.DueAt,
		ElapsedMinutes:   res.ElapsedMinutes,
		Breached:         res.Breached,
		BreachedAt:       res.BreachedAt,
		Escalations:      escalations,
	}
}
