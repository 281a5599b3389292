package order_test

import (
	"testing"
	"time"

	"fulfillment/internal/core/domain/model/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSlaWindow(t *testing.T) {
	w := order.NewSlaWindow(order.CustomerQuote, now)

	assert.Equal(t, order.CustomerQuote, w.Status())
	assert.Equal(t, 1440, w.ThresholdMinutes())
	assert.Equal(t, now.Add(24*time.Hour), w.DueAt())

	steps := w.Escalations()
	require.Len(t, steps, 2)
	assert.Equal(t, "sales_lead", steps[0].Level())
	assert.Equal(t, order.ChannelEmail, steps[0].Channel())
	assert.Equal(t, 1440, steps[0].AfterMinutes())
	assert.Equal(t, "operations_manager", steps[1].Level())
	assert.Equal(t, 2160, steps[1].AfterMinutes())
	for _, s := range steps {
		assert.False(t, s.IsTriggered())
	}
}

func TestSlaWindow_Elapsed(t *testing.T) {
	w := order.NewSlaWindow(order.VendorSourcing, now.Add(-250*time.Minute-30*time.Second))

	assert.Equal(t, 250*time.Minute+30*time.Second, w.Elapsed(now))
	assert.Equal(t, 250, w.ElapsedMinutes(now))

	t.Run("should clamp clock skew to zero", func(t *testing.T) {
		assert.Equal(t, time.Duration(0), w.Elapsed(now.Add(-24*time.Hour)))
	})
}

func TestSlaWindow_Escalation(t *testing.T) {
	w := order.NewSlaWindow(order.WaitingPayment, now)

	step, ok := w.Escalation(0)
	require.True(t, ok)
	assert.Equal(t, "finance_team", step.Level())

	_, ok = w.Escalation(1)
	assert.False(t, ok)
	_, ok = w.Escalation(-1)
	assert.False(t, ok)
}

func TestRestoreSlaWindow(t *testing.T) {
	triggered := now.Add(-time.Minute)
	steps := []order.EscalationStep{
		order.RestoreEscalationStep("qa_lead", order.ChannelSlack, 720, triggered),
	}

	w := order.RestoreSlaWindow(order.QualityCheck, now.Add(-800*time.Minute), 720, steps, true, now.Add(-80*time.Minute))

	assert.True(t, w.IsBreached())
	assert.Equal(t, now.Add(-80*time.Minute), w.BreachedAt())
	require.Len(t, w.Escalations(), 1)
	assert.Equal(t, triggered, w.Escalations()[0].TriggeredAt())

	steps[0] = order.RestoreEscalationStep("changed", order.ChannelEmail, 1, time.Time{})
	assert.Equal(t, "qa_lead", w.Escalations()[0].Level())
}
