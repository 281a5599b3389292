package services

import (
	"fmt"

	"fulfillment/internal/core/domain/model/order"
)

// Validation codes carried by ValidationError.Code.
const (
	CodeNegativeTotal         = "negative_total"
	CodeVendorRequired        = "vendor_required"
	CodeQuotationNotPositive  = "quotation_not_positive"
	CodePaymentMethodRequired = "payment_method_required"
	CodeTrackingRequired      = "tracking_number_required"
	CodeReasonRequired        = "reason_required"
	CodeRefundNotPositive     = "refund_not_positive"
	CodeTransitionNotAllowed  = "transition_not_allowed"
)

// ValidationError is one failed business rule of a transition.
type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Rule checks one business condition of a move. It returns nil when the
// condition holds. Rules must not mutate the order.
type Rule func(o *order.Order, tctx order.TransitionContext) *ValidationError

type edge struct {
	from order.Status
	to   order.Status
}

// TransitionValidator looks up the rules of a move. Rules registered for an
// exact (from, to) edge replace the rules of the target status; the common
// rules always run first.
type TransitionValidator struct {
	common   []Rule
	byTarget map[order.Status][]Rule
	byEdge   map[edge][]Rule
}

// NewTransitionValidator returns the validator with the pipeline rule set.
func NewTransitionValidator() TransitionValidator {
	return TransitionValidator{
		common: []Rule{totalNotNegative},
		byTarget: map[order.Status][]Rule{
			order.VendorNegotiation: {vendorAssigned},
			order.CustomerQuote:     {quotationPositive},
			order.PaymentReceived:   {paymentMethodPresent},
			order.Shipping:          {trackingNumberPresent},
			order.Cancelled:         {reasonPresent("cancellation reason is required")},
			order.Refunded:          {refundPositive},
		},
		byEdge: map[edge][]Rule{
			{from: order.QualityCheck, to: order.InProduction}: {reasonPresent("rework reason is required")},
		},
	}
}

// Validate runs every rule of the move from the order's current status to
// to and returns the failures in rule order. An empty result means the move
// is permitted by business rules; graph adjacency is not checked here.
func (v TransitionValidator) Validate(o *order.Order, to order.Status, tctx order.TransitionContext) []ValidationError {
	var failures []ValidationError
	for _, rule := range v.rulesFor(o.Status(), to) {
		if failure := rule(o, tctx); failure != nil {
			failures = append(failures, *failure)
		}
	}
	return failures
}

func (v TransitionValidator) rulesFor(from, to order.Status) []Rule {
	rules := append([]Rule(nil), v.common...)
	if override, ok := v.byEdge[edge{from: from, to: to}]; ok {
		return append(rules, override...)
	}
	return append(rules, v.byTarget[to]...)
}

func totalNotNegative(o *order.Order, _ order.TransitionContext) *ValidationError {
	if o.TotalAmount() < 0 {
		return &ValidationError{Field: "total_amount", Code: CodeNegativeTotal, Message: "total amount must not be negative"}
	}
	return nil
}

func vendorAssigned(o *order.Order, tctx order.TransitionContext) *ValidationError {
	if !o.HasVendor() && tctx.VendorID == nil {
		return &ValidationError{Field: "vendor_id", Code: CodeVendorRequired, Message: "vendor must be assigned"}
	}
	return nil
}

func quotationPositive(_ *order.Order, tctx order.TransitionContext) *ValidationError {
	if tctx.QuotationAmount <= 0 {
		return &ValidationError{Field: "quotation_amount", Code: CodeQuotationNotPositive, Message: "quotation amount must be positive"}
	}
	return nil
}

func paymentMethodPresent(_ *order.Order, tctx order.TransitionContext) *ValidationError {
	if tctx.PaymentMethod == "" {
		return &ValidationError{Field: "payment_method", Code: CodePaymentMethodRequired, Message: "payment method is required"}
	}
	return nil
}

func trackingNumberPresent(o *order.Order, tctx order.TransitionContext) *ValidationError {
	if !o.HasTrackingNumber() && tctx.TrackingNumber == "" {
		return &ValidationError{Field: "tracking_number", Code: CodeTrackingRequired, Message: "tracking number is required"}
	}
	return nil
}

func reasonPresent(message string) Rule {
	return func(_ *order.Order, tctx order.TransitionContext) *ValidationError {
		if tctx.Reason == "" {
			return &ValidationError{Field: "reason", Code: CodeReasonRequired, Message: message}
		}
		return nil
	}
}

func refundPositive(_ *order.Order, tctx order.TransitionContext) *ValidationError {
	if tctx.RefundAmount <= 0 {
		return &ValidationError{Field: "refund_amount", Code: CodeRefundNotPositive, Message: "refund amount must be positive"}
	}
	return nil
}
