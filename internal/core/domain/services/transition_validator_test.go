package services_test

import (
	"testing"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransitionValidator_Validate(t *testing.T) {
	validator := services.NewTransitionValidator()
	vendorID := kernel.NewUUID()

	testCases := []struct {
		name     string
		from     order.Status
		to       order.Status
		snapshot func(*order.Snapshot)
		tctx     order.TransitionContext
		expected []string
	}{
		{name: "sourcing has no extra rule", from: order.New, to: order.VendorSourcing},
		{name: "negotiation without vendor", from: order.VendorSourcing, to: order.VendorNegotiation, expected: []string{services.CodeVendorRequired}},
		{name: "negotiation with vendor in context", from: order.VendorSourcing, to: order.VendorNegotiation, tctx: order.TransitionContext{VendorID: &vendorID}},
		{
			name: "negotiation with vendor on order", from: order.CustomerQuote, to: order.VendorNegotiation,
			snapshot: func(s *order.Snapshot) { s.VendorID = &vendorID },
		},
		{name: "quote without amount", from: order.VendorNegotiation, to: order.CustomerQuote, expected: []string{services.CodeQuotationNotPositive}},
		{name: "quote with negative amount", from: order.VendorNegotiation, to: order.CustomerQuote, tctx: order.TransitionContext{QuotationAmount: -1}, expected: []string{services.CodeQuotationNotPositive}},
		{name: "quote with amount", from: order.VendorNegotiation, to: order.CustomerQuote, tctx: order.TransitionContext{QuotationAmount: 1}},
		{name: "payment without method", from: order.WaitingPayment, to: order.PaymentReceived, expected: []string{services.CodePaymentMethodRequired}},
		{name: "payment with method", from: order.WaitingPayment, to: order.PaymentReceived, tctx: order.TransitionContext{PaymentMethod: "bank_transfer"}},
		{name: "shipping without tracking", from: order.ReadyToShip, to: order.Shipping, expected: []string{services.CodeTrackingRequired}},
		{name: "shipping with tracking in context", from: order.QualityCheck, to: order.Shipping, tctx: order.TransitionContext{TrackingNumber: "TRK"}},
		{
			name: "shipping with tracking on order", from: order.ReadyToShip, to: order.Shipping,
			snapshot: func(s *order.Snapshot) { s.TrackingNumber = "TRK" },
		},
		{name: "cancel without reason", from: order.New, to: order.Cancelled, expected: []string{services.CodeReasonRequired}},
		{name: "cancel with reason", from: order.New, to: order.Cancelled, tctx: order.TransitionContext{Reason: "duplicate"}},
		{name: "refund without amount", from: order.Delivered, to: order.Refunded, expected: []string{services.CodeRefundNotPositive}},
		{name: "refund with amount", from: order.PaymentReceived, to: order.Refunded, tctx: order.TransitionContext{RefundAmount: 10}},
		{name: "rework without reason", from: order.QualityCheck, to: order.InProduction, expected: []string{services.CodeReasonRequired}},
		{name: "production after payment needs no reason", from: order.PaymentReceived, to: order.InProduction},
		{
			name: "negative total is always reported first", from: order.ReadyToShip, to: order.Shipping,
			snapshot: func(s *order.Snapshot) { s.TotalAmount = -1 },
			expected: []string{services.CodeNegativeTotal, services.CodeTrackingRequired},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var mutators []func(*order.Snapshot)
			if tc.snapshot != nil {
				mutators = append(mutators, tc.snapshot)
			}
			o := orderAt(t, tc.from, now, mutators...)

			failures := validator.Validate(o, tc.to, tc.tctx)

			codes := make([]string, 0, len(failures))
			for _, f := range failures {
				codes = append(codes, f.Code)
			}
			if len(tc.expected) == 0 {
				assert.Empty(t, codes)
				return
			}
			assert.Equal(t, tc.expected, codes)
		})
	}
}

func TestTransitionValidator_Messages(t *testing.T) {
	validator := services.NewTransitionValidator()

	failures := validator.Validate(orderAt(t, order.QualityCheck, now), order.InProduction, order.TransitionContext{})
	require.Len(t, failures, 1)
	assert.Equal(t, "reason", failures[0].Field)
	assert.Equal(t, "rework reason is required", failures[0].Message)
	assert.Equal(t, "reason: rework reason is required", failures[0].Error())

	failures = validator.Validate(orderAt(t, order.InProduction, now), order.Cancelled, order.TransitionContext{})
	require.Len(t, failures, 1)
	assert.Equal(t, "cancellation reason is required", failures[0].Message)
}
