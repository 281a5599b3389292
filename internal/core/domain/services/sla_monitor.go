package services

import (
	"time"

	"fulfillment/internal/core/domain/model/order"
)

// EffectKind tags the outcome of an SLA check.
type EffectKind int

const (
	// NoOp leaves the order untouched.
	NoOp EffectKind = iota
	// MarkBreached flags the active window as breached.
	MarkBreached
	// TriggerEscalation fires the ladder step in Effect.Step.
	TriggerEscalation
	// MarkBreachedAndEscalate flags the breach, then fires Effect.Step.
	MarkBreachedAndEscalate
)

// String returns the metric label of the kind.
func (k EffectKind) String() string {
	switch k {
	case MarkBreached:
		return "mark_breached"
	case TriggerEscalation:
		return "trigger_escalation"
	case MarkBreachedAndEscalate:
		return "mark_breached_and_escalate"
	default:
		return "noop"
	}
}

// Reasons attached to NoOp effects.
const (
	ReasonStaleStatus      = "order left the checked status"
	ReasonNoThreshold      = "status has no sla threshold"
	ReasonNotDue           = "elapsed time below threshold"
	ReasonAlreadyBreached  = "window already breached"
	ReasonAlreadyTriggered = "escalation step already triggered"
	ReasonUnknownStep      = "escalation step not in ladder"
)

// Effect is what the caller must apply to the order. Step is only set for
// the escalating kinds; Reason only for NoOp.
type Effect struct {
	Kind   EffectKind
	Step   int
	Reason string
}

func noOp(reason string) Effect {
	return Effect{Kind: NoOp, Reason: reason}
}

// SlaMonitor takes the decision for one delayed SLA check.
//
// Decide is pure: it reads the order snapshot and the clock value it is given
// and returns an Effect. Repeating a check after its effect was applied always
// yields NoOp, which makes redelivered jobs harmless.
type SlaMonitor struct{}

// NewSlaMonitor returns an SlaMonitor.
func NewSlaMonitor() SlaMonitor {
	return SlaMonitor{}
}

// Decide evaluates check against o at now.
//
// Decision order:
//   - a check for a status the order has left is stale
//   - a threshold check breaches once elapsed reaches the threshold
//   - an escalation check fires its step once elapsed reaches the step's
//     after_minutes, unless the step already fired
//
// A combined check decides both targets independently. When only one of them
// is due the effect is that target's alone; when neither is, the threshold
// reason is reported.
func (SlaMonitor) Decide(o *order.Order, check order.SlaCheck, now time.Time) Effect {
	if o.Status() != check.Status {
		return noOp(ReasonStaleStatus)
	}

	window := o.Sla()
	if !window.HasThreshold() {
		return noOp(ReasonNoThreshold)
	}
	elapsed := window.Elapsed(now)

	switch {
	case check.ThresholdCheck && check.EscalationIndex != nil:
		breach := decideThreshold(window, elapsed)
		escalation := decideEscalation(window, *check.EscalationIndex, elapsed)
		switch {
		case breach.Kind != NoOp && escalation.Kind != NoOp:
			return Effect{Kind: MarkBreachedAndEscalate, Step: escalation.Step}
		case escalation.Kind != NoOp:
			return escalation
		default:
			return breach
		}
	case check.ThresholdCheck:
		return decideThreshold(window, elapsed)
	case check.EscalationIndex != nil:
		return decideEscalation(window, *check.EscalationIndex, elapsed)
	default:
		return noOp(ReasonUnknownStep)
	}
}

func decideThreshold(window order.SlaWindow, elapsed time.Duration) Effect {
	if window.IsBreached() {
		return noOp(ReasonAlreadyBreached)
	}
	if elapsed < minutes(window.ThresholdMinutes()) {
		return noOp(ReasonNotDue)
	}
	return Effect{Kind: MarkBreached}
}

func decideEscalation(window order.SlaWindow, index int, elapsed time.Duration) Effect {
	step, ok := window.Escalation(index)
	if !ok {
		return noOp(ReasonUnknownStep)
	}
	if step.IsTriggered() {
		return noOp(ReasonAlreadyTriggered)
	}
	if elapsed < minutes(step.AfterMinutes()) {
		return noOp(ReasonNotDue)
	}
	return Effect{Kind: TriggerEscalation, Step: index}
}

// Apply performs a non-NoOp effect on the order. NoOp returns nil.
func (SlaMonitor) Apply(o *order.Order, effect Effect, now time.Time) error {
	switch effect.Kind {
	case MarkBreached:
		return o.MarkSlaBreached(now)
	case TriggerEscalation:
		return o.TriggerSlaEscalation(effect.Step, now)
	case MarkBreachedAndEscalate:
		if err := o.MarkSlaBreached(now); err != nil {
			return err
		}
		return o.TriggerSlaEscalation(effect.Step, now)
	default:
		return nil
	}
}

func minutes(m int) time.Duration {
	return time.Duration(m) * time.Minute
}
