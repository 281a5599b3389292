package jobs_test

import (
	"errors"
	"testing"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/jobs"
	"fulfillment/internal/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var relayConfig = jobs.OutboxRelayConfig{Schedule: "* * * * * *", BatchSize: 100, Lease: 30 * time.Second}

func outboxMessages(n int) []ports.OutboxMessage {
	out := make([]ports.OutboxMessage, 0, n)
	for range n {
		out = append(out, ports.OutboxMessage{
			ID:          kernel.NewUUID(),
			AggregateID: kernel.NewUUID(),
			TenantID:    kernel.NewUUID(),
			EventType:   "order.status_changed",
			Payload:     []byte(`{}`),
			OccurredAt:  fixedNow,
		})
	}
	return out
}

func TestOutboxRelayJob_RunOnce_PublishesAndMarks(t *testing.T) {
	ctx := t.Context()
	messages := outboxMessages(2)

	outbox := new(MockOutboxRepository)
	bus := new(MockEventBus)
	mock.InOrder(
		outbox.On("ClaimPending", ctx, fixedNow, 30*time.Second, 100).Return(messages, nil).Once(),
		bus.On("Publish", ctx, messages).Return(nil).Once(),
		outbox.On("MarkPublished", ctx, messages[0].ID, fixedNow).Return(nil).Once(),
		outbox.On("MarkPublished", ctx, messages[1].ID, fixedNow).Return(nil).Once(),
	)
	published := testutil.ToFloat64(metrics.OutboxPublished)

	job := jobs.NewOutboxRelayJob(outbox, bus, fixedClock, relayConfig, discardLogger())
	n, err := job.RunOnce(ctx)

	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.InDelta(t, published+2, testutil.ToFloat64(metrics.OutboxPublished), 0)
	outbox.AssertExpectations(t)
	bus.AssertExpectations(t)
}

func TestOutboxRelayJob_RunOnce_NothingPending(t *testing.T) {
	ctx := t.Context()
	outbox := new(MockOutboxRepository)
	bus := new(MockEventBus)
	outbox.On("ClaimPending", ctx, fixedNow, 30*time.Second, 100).Return([]ports.OutboxMessage{}, nil).Once()

	job := jobs.NewOutboxRelayJob(outbox, bus, fixedClock, relayConfig, discardLogger())
	n, err := job.RunOnce(ctx)

	require.NoError(t, err)
	assert.Zero(t, n)
	bus.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestOutboxRelayJob_RunOnce_PublishFailureMarksBatchFailed(t *testing.T) {
	ctx := t.Context()
	messages := outboxMessages(2)
	cause := errors.New("broker unavailable")

	outbox := new(MockOutboxRepository)
	bus := new(MockEventBus)
	outbox.On("ClaimPending", ctx, fixedNow, 30*time.Second, 100).Return(messages, nil).Once()
	bus.On("Publish", ctx, messages).Return(cause).Once()
	outbox.On("MarkFailed", ctx, messages[0].ID, cause).Return(nil).Once()
	outbox.On("MarkFailed", ctx, messages[1].ID, cause).Return(nil).Once()

	job := jobs.NewOutboxRelayJob(outbox, bus, fixedClock, relayConfig, discardLogger())
	_, err := job.RunOnce(ctx)

	require.ErrorIs(t, err, cause)
	outbox.AssertExpectations(t)
	outbox.AssertNotCalled(t, "MarkPublished", mock.Anything, mock.Anything, mock.Anything)
}
