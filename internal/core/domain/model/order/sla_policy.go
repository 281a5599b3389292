package order

import "slices"

// Channel is the notification transport an escalation step is routed to.
// Delivery itself happens outside this module; the channel only travels on
// OrderSlaEscalated so subscribers can route the message.
type Channel string

const (
	// ChannelSlack routes the escalation to a Slack channel.
	ChannelSlack Channel = "slack"
	// ChannelEmail routes the escalation to email.
	ChannelEmail Channel = "email"
)

// EscalationRule is one rung of a status' escalation ladder.
type EscalationRule struct {
	Level        string
	Channel      Channel
	AfterMinutes int
}

// SlaPolicy is the time budget attached to a status.
type SlaPolicy struct {
	ThresholdMinutes int
	Escalations      []EscalationRule
}

func getSlaPolicies() map[Status]SlaPolicy {
	return map[Status]SlaPolicy{
		VendorSourcing: {
			ThresholdMinutes: 240,
			Escalations: []EscalationRule{
				{Level: "procurement_lead", Channel: ChannelSlack, AfterMinutes: 240},
				{Level: "operations_manager", Channel: ChannelEmail, AfterMinutes: 360},
			},
		},
		VendorNegotiation: {
			ThresholdMinutes: 720,
			Escalations: []EscalationRule{
				{Level: "procurement_manager", Channel: ChannelSlack, AfterMinutes: 720},
				{Level: "general_manager", Channel: ChannelEmail, AfterMinutes: 960},
			},
		},
		CustomerQuote: {
			ThresholdMinutes: 1440,
			Escalations: []EscalationRule{
				{Level: "sales_lead", Channel: ChannelEmail, AfterMinutes: 1440},
				{Level: "operations_manager", Channel: ChannelSlack, AfterMinutes: 2160},
			},
		},
		WaitingPayment: {
			ThresholdMinutes: 4320,
			Escalations: []EscalationRule{
				{Level: "finance_team", Channel: ChannelEmail, AfterMinutes: 4320},
			},
		},
		InProduction: {
			ThresholdMinutes: 2880,
			Escalations: []EscalationRule{
				{Level: "production_manager", Channel: ChannelSlack, AfterMinutes: 2880},
				{Level: "operations_manager", Channel: ChannelEmail, AfterMinutes: 4320},
			},
		},
		QualityCheck: {
			ThresholdMinutes: 720,
			Escalations: []EscalationRule{
				{Level: "qa_lead", Channel: ChannelSlack, AfterMinutes: 720},
			},
		},
		Shipping: {
			ThresholdMinutes: 2880,
			Escalations: []EscalationRule{
				{Level: "logistics_manager", Channel: ChannelEmail, AfterMinutes: 2880},
				{Level: "operations_manager", Channel: ChannelSlack, AfterMinutes: 4320},
			},
		},
	}
}

// PolicyFor returns the SLA policy of a status. Statuses without a policy
// report false and an empty policy (zero threshold, no ladder).
func PolicyFor(s Status) (SlaPolicy, bool) {
	p, ok := getSlaPolicies()[s]
	if !ok {
		return SlaPolicy{}, false
	}
	p.Escalations = slices.Clone(p.Escalations)
	return p, true
}
