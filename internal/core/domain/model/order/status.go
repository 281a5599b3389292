package order

import (
	"fmt"
	"slices"
	"strings"

	"fulfillment/internal/pkg/errs"
)

// Status is the position of an order in the fulfillment pipeline.
//
// The set is closed: every value has an entry in the adjacency table below and
// a canonical upper-case name that is what gets persisted and published.
//
//	NEW ─> VENDOR_SOURCING <─> VENDOR_NEGOTIATION <─> CUSTOMER_QUOTE ─> WAITING_PAYMENT
//	                                                                         │
//	PAYMENT_RECEIVED <───────────────────────────────────────────────────────┘
//	     │
//	     └─> IN_PRODUCTION <─> QUALITY_CHECK ─> READY_TO_SHIP ─> SHIPPING ─> DELIVERED ─> COMPLETED
//	                                  └──────────────────────────────^
//
// Any non-terminal status up to IN_PRODUCTION may also move to CANCELLED;
// PAYMENT_RECEIVED and DELIVERED may move to REFUNDED. COMPLETED, CANCELLED and
// REFUNDED are terminal.
type Status int

const (
	// Unknown is the zero value and never a valid order status.
	Unknown Status = iota

	// New is the status of a freshly captured order.
	New

	// VendorSourcing means procurement is looking for a vendor.
	VendorSourcing

	// VendorNegotiation means a vendor is assigned and terms are being agreed.
	VendorNegotiation

	// CustomerQuote means a quotation has been sent to the customer.
	CustomerQuote

	// WaitingPayment means the customer accepted the quote and payment is pending.
	WaitingPayment

	// PaymentReceived means funds are captured; production can start.
	PaymentReceived

	// InProduction means the vendor is producing the goods.
	InProduction

	// QualityCheck means the goods are being inspected. A failed inspection
	// sends the order back to InProduction.
	QualityCheck

	// ReadyToShip means the goods passed inspection and await pickup.
	ReadyToShip

	// Shipping means the goods are with a carrier under a tracking number.
	Shipping

	// Delivered means the carrier reported delivery.
	Delivered

	// Completed closes a delivered order. Terminal.
	Completed

	// Cancelled closes an order before fulfillment. Terminal.
	Cancelled

	// Refunded closes an order whose payment was returned. Terminal.
	Refunded
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:           "UNKNOWN",
		New:               "NEW",
		VendorSourcing:    "VENDOR_SOURCING",
		VendorNegotiation: "VENDOR_NEGOTIATION",
		CustomerQuote:     "CUSTOMER_QUOTE",
		WaitingPayment:    "WAITING_PAYMENT",
		PaymentReceived:   "PAYMENT_RECEIVED",
		InProduction:      "IN_PRODUCTION",
		QualityCheck:      "QUALITY_CHECK",
		ReadyToShip:       "READY_TO_SHIP",
		Shipping:          "SHIPPING",
		Delivered:         "DELIVERED",
		Completed:         "COMPLETED",
		Cancelled:         "CANCELLED",
		Refunded:          "REFUNDED",
	}
}

// getTransitions is the adjacency table of the pipeline. A status with an
// empty entry is terminal. Every valid status must appear as a key.
func getTransitions() map[Status][]Status {
	return map[Status][]Status{
		New:               {VendorSourcing, Cancelled},
		VendorSourcing:    {VendorNegotiation, Cancelled},
		VendorNegotiation: {CustomerQuote, VendorSourcing, Cancelled},
		CustomerQuote:     {WaitingPayment, VendorNegotiation, Cancelled},
		WaitingPayment:    {PaymentReceived, Cancelled},
		PaymentReceived:   {InProduction, Refunded, Cancelled},
		InProduction:      {QualityCheck, Cancelled},
		QualityCheck:      {ReadyToShip, Shipping, InProduction},
		ReadyToShip:       {Shipping},
		Shipping:          {Delivered},
		Delivered:         {Completed, Refunded},
		Completed:         {},
		Cancelled:         {},
		Refunded:          {},
	}
}

// AllStatuses returns every valid status in pipeline order.
func AllStatuses() []Status {
	return []Status{
		New, VendorSourcing, VendorNegotiation, CustomerQuote, WaitingPayment,
		PaymentReceived, InProduction, QualityCheck, ReadyToShip, Shipping,
		Delivered, Completed, Cancelled, Refunded,
	}
}

// ParseStatus maps a canonical name such as "QUALITY_CHECK" to its Status.
// Matching ignores case and surrounding whitespace. Legacy lower-case aliases
// of the old workflow ("sourcing_vendor", "quality_control", ...) are not
// accepted.
func ParseStatus(s string) (Status, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	for status, str := range getStatusStrings() {
		if status != Unknown && str == name {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%q is not a valid status", s))
}

// Validate returns an error for Unknown and any value outside the enumeration.
func (s Status) Validate() error {
	if _, ok := getTransitions()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the canonical upper-case name, or "UNKNOWN".
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

// IsTerminal reports whether the status has no outbound transitions.
// Unknown is not terminal; it is invalid.
func (s Status) IsTerminal() bool {
	next, ok := getTransitions()[s]
	return ok && len(next) == 0
}

// AllowedTransitions returns the statuses reachable from s in one step.
// The returned slice is a copy and may be modified by the caller.
func (s Status) AllowedTransitions() []Status {
	return slices.Clone(getTransitions()[s])
}

// CanTransitionTo reports whether to is adjacent to s. A status is never
// adjacent to itself.
func (s Status) CanTransitionTo(to Status) bool {
	if s == to {
		return false
	}
	return slices.Contains(getTransitions()[s], to)
}
