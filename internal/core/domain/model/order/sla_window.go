package order

import (
	"slices"
	"time"

	"fulfillment/internal/pkg/errs"
)

// EscalationStep is a rung of the ladder copied into an SlaWindow. Only
// triggeredAt changes after creation, and only once.
type EscalationStep struct {
	level        string
	channel      Channel
	afterMinutes int
	triggeredAt  time.Time
}

// RestoreEscalationStep rebuilds a step from storage. A zero triggeredAt
// means the step has not fired.
func RestoreEscalationStep(level string, channel Channel, afterMinutes int, triggeredAt time.Time) EscalationStep {
	return EscalationStep{
		level:        level,
		channel:      channel,
		afterMinutes: afterMinutes,
		triggeredAt:  triggeredAt,
	}
}

// Level returns the escalation level, e.g. procurement_lead.
func (e EscalationStep) Level() string {
	return e.level
}

// Channel returns the notification channel of the step.
func (e EscalationStep) Channel() Channel {
	return e.channel
}

// AfterMinutes returns the dwell time after which the step fires.
func (e EscalationStep) AfterMinutes() int {
	return e.afterMinutes
}

// TriggeredAt returns when the step fired. It is the zero time until then.
func (e EscalationStep) TriggeredAt() time.Time {
	return e.triggeredAt
}

// IsTriggered reports whether the step has fired.
func (e EscalationStep) IsTriggered() bool {
	return !e.triggeredAt.IsZero()
}

// SlaWindow is the single active time budget of an order. It always describes
// the order's current status and is replaced, never edited, when the status
// changes. Within a window only the breach flag and the per-step trigger
// timestamps move, each exactly once.
type SlaWindow struct {
	status           Status
	startedAt        time.Time
	thresholdMinutes int
	escalations      []EscalationStep
	breached         bool
	breachedAt       time.Time
}

// NewSlaWindow opens a window for status at startedAt, copying the ladder
// from the status policy. Statuses without a policy get an empty window.
func NewSlaWindow(status Status, startedAt time.Time) SlaWindow {
	w := SlaWindow{
		status:    status,
		startedAt: startedAt,
	}
	policy, ok := PolicyFor(status)
	if !ok {
		return w
	}

	w.thresholdMinutes = policy.ThresholdMinutes
	rules := slices.Clone(policy.Escalations)
	slices.SortStableFunc(rules, func(a, b EscalationRule) int { return a.AfterMinutes - b.AfterMinutes })
	w.escalations = make([]EscalationStep, 0, len(rules))
	for _, r := range rules {
		w.escalations = append(w.escalations, EscalationStep{
			level:        r.Level,
			channel:      r.Channel,
			afterMinutes: r.AfterMinutes,
		})
	}
	return w
}

// RestoreSlaWindow rebuilds a window from storage.
func RestoreSlaWindow(
	status Status,
	startedAt time.Time,
	thresholdMinutes int,
	escalations []EscalationStep,
	breached bool,
	breachedAt time.Time,
) SlaWindow {
	return SlaWindow{
		status:           status,
		startedAt:        startedAt,
		thresholdMinutes: thresholdMinutes,
		escalations:      slices.Clone(escalations),
		breached:         breached,
		breachedAt:       breachedAt,
	}
}

// Status returns the status the window describes.
func (w SlaWindow) Status() Status {
	return w.status
}

// StartedAt returns when the order entered the status.
func (w SlaWindow) StartedAt() time.Time {
	return w.startedAt
}

// ThresholdMinutes returns the breach threshold, or 0 when unmonitored.
func (w SlaWindow) ThresholdMinutes() int {
	return w.thresholdMinutes
}

// IsBreached reports whether the threshold was crossed.
func (w SlaWindow) IsBreached() bool {
	return w.breached
}

// BreachedAt returns when the window was breached. It is the zero time until then.
func (w SlaWindow) BreachedAt() time.Time {
	return w.breachedAt
}

// HasThreshold reports whether the window is monitored at all.
func (w SlaWindow) HasThreshold() bool {
	return w.thresholdMinutes > 0
}

// DueAt is the breach deadline. It is the zero time when there is no threshold.
func (w SlaWindow) DueAt() time.Time {
	if !w.HasThreshold() {
		return time.Time{}
	}
	return w.startedAt.Add(time.Duration(w.thresholdMinutes) * time.Minute)
}

// Escalations returns a copy of the ladder in firing order.
func (w SlaWindow) Escalations() []EscalationStep {
	return slices.Clone(w.escalations)
}

// Escalation returns the step at index, or false when index is out of range.
func (w SlaWindow) Escalation(index int) (EscalationStep, bool) {
	if index < 0 || index >= len(w.escalations) {
		return EscalationStep{}, false
	}
	return w.escalations[index], true
}

// Elapsed is the dwell time in the window's status at now. It never goes
// negative, so a clock skewed behind startedAt reads as zero.
func (w SlaWindow) Elapsed(now time.Time) time.Duration {
	d := now.Sub(w.startedAt)
	if d < 0 {
		return 0
	}
	return d
}

// ElapsedMinutes is Elapsed truncated to whole minutes.
func (w SlaWindow) ElapsedMinutes(now time.Time) int {
	return int(w.Elapsed(now) / time.Minute)
}

func (w *SlaWindow) markBreached(now time.Time) error {
	if w.breached {
		return ErrSlaAlreadyBreached
	}
	w.breached = true
	w.breachedAt = now
	return nil
}

func (w *SlaWindow) triggerEscalation(index int, now time.Time) (EscalationStep, error) {
	if index < 0 || index >= len(w.escalations) {
		return EscalationStep{}, errs.NewValueIsOutOfRangeError("escalationIndex", index, 0, len(w.escalations)-1)
	}
	if w.escalations[index].IsTriggered() {
		return EscalationStep{}, ErrEscalationAlreadyTriggered
	}
	w.escalations[index].triggeredAt = now
	return w.escalations[index], nil
}
