package jobs_test

import (
	"errors"
	"testing"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/jobs"
	"fulfillment/internal/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var monitorConfig = jobs.SlaMonitorConfig{
	Schedule:     "*/5 * * * * *",
	BatchSize:    50,
	Lease:        time.Minute,
	MaxAttempts:  3,
	RetryBackoff: 30 * time.Second,
}

func slaJob(t *testing.T, attempts int) ports.SlaJob {
	t.Helper()
	check, err := order.NewThresholdCheck(kernel.NewUUID(), kernel.NewUUID(), order.Shipping)
	require.NoError(t, err)
	return ports.SlaJob{ID: kernel.NewUUID(), Check: check, RunAt: fixedNow, Attempts: attempts}
}

func forCheck(check order.SlaCheck) any {
	return mock.MatchedBy(func(cmd commands.MonitorOrderSlaCommand) bool {
		return cmd.Check().OrderID == check.OrderID
	})
}

func TestSlaMonitorJob_RunOnce_CompletesHandledJobs(t *testing.T) {
	ctx := t.Context()
	breach, stale := slaJob(t, 1), slaJob(t, 1)

	queue := new(MockSlaJobQueue)
	handler := new(MockSlaCheckHandler)
	queue.On("ClaimDue", ctx, fixedNow, time.Minute, 50).Return([]ports.SlaJob{breach, stale}, nil).Once()
	handler.On("Handle", ctx, forCheck(breach.Check)).Return(services.Effect{Kind: services.MarkBreached}, nil).Once()
	handler.On("Handle", ctx, forCheck(stale.Check)).
		Return(services.Effect{Kind: services.NoOp, Reason: services.ReasonStaleStatus}, nil).Once()
	queue.On("Complete", ctx, breach.ID).Return(nil).Once()
	queue.On("Complete", ctx, stale.ID).Return(nil).Once()
	breached := testutil.ToFloat64(metrics.SlaChecks.WithLabelValues("mark_breached"))

	job := jobs.NewSlaMonitorJob(queue, handler, fixedClock, monitorConfig, discardLogger())
	n, err := job.RunOnce(ctx)

	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.InDelta(t, breached+1, testutil.ToFloat64(metrics.SlaChecks.WithLabelValues("mark_breached")), 0)
	queue.AssertExpectations(t)
	handler.AssertExpectations(t)
}

func TestSlaMonitorJob_RunOnce_RetriesWithLinearBackoff(t *testing.T) {
	ctx := t.Context()
	failing := slaJob(t, 2)
	cause := errors.New("could not serialize access")

	queue := new(MockSlaJobQueue)
	handler := new(MockSlaCheckHandler)
	queue.On("ClaimDue", ctx, fixedNow, time.Minute, 50).Return([]ports.SlaJob{failing}, nil).Once()
	handler.On("Handle", ctx, forCheck(failing.Check)).Return(services.Effect{}, cause).Once()
	queue.On("Retry", ctx, failing.ID, fixedNow.Add(time.Minute), cause).Return(nil).Once()
	retried := testutil.ToFloat64(metrics.SlaJobFailures.WithLabelValues(metrics.OutcomeRetried))

	job := jobs.NewSlaMonitorJob(queue, handler, fixedClock, monitorConfig, discardLogger())
	_, err := job.RunOnce(ctx)

	require.NoError(t, err)
	assert.InDelta(t, retried+1, testutil.ToFloat64(metrics.SlaJobFailures.WithLabelValues(metrics.OutcomeRetried)), 0)
	queue.AssertExpectations(t)
	queue.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
}

func TestSlaMonitorJob_RunOnce_BuriesExhaustedJobs(t *testing.T) {
	ctx := t.Context()
	failing := slaJob(t, 3)
	cause := errors.New("connection refused")

	queue := new(MockSlaJobQueue)
	handler := new(MockSlaCheckHandler)
	queue.On("ClaimDue", ctx, fixedNow, time.Minute, 50).Return([]ports.SlaJob{failing}, nil).Once()
	handler.On("Handle", ctx, mock.Anything).Return(services.Effect{}, cause).Once()
	queue.On("Bury", ctx, failing.ID, cause).Return(nil).Once()

	job := jobs.NewSlaMonitorJob(queue, handler, fixedClock, monitorConfig, discardLogger())
	_, err := job.RunOnce(ctx)

	require.NoError(t, err)
	queue.AssertExpectations(t)
	queue.AssertNotCalled(t, "Retry", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSlaMonitorJob_RunOnce_BuriesMalformedJobs(t *testing.T) {
	ctx := t.Context()
	malformed := ports.SlaJob{ID: kernel.NewUUID(), Check: order.SlaCheck{}, Attempts: 1}

	queue := new(MockSlaJobQueue)
	handler := new(MockSlaCheckHandler)
	queue.On("ClaimDue", ctx, fixedNow, time.Minute, 50).Return([]ports.SlaJob{malformed}, nil).Once()
	queue.On("Bury", ctx, malformed.ID, mock.Anything).Return(nil).Once()

	job := jobs.NewSlaMonitorJob(queue, handler, fixedClock, monitorConfig, discardLogger())
	_, err := job.RunOnce(ctx)

	require.NoError(t, err)
	handler.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
	queue.AssertExpectations(t)
}

func TestSlaMonitorJob_RunOnce_ClaimError(t *testing.T) {
	ctx := t.Context()
	queue := new(MockSlaJobQueue)
	queue.On("ClaimDue", ctx, fixedNow, time.Minute, 50).Return(nil, errors.New("db down")).Once()

	job := jobs.NewSlaMonitorJob(queue, new(MockSlaCheckHandler), fixedClock, monitorConfig, discardLogger())
	n, err := job.RunOnce(ctx)

	require.EqualError(t, err, "db down")
	assert.Zero(t, n)
}

func TestSlaMonitorJob_RunOnce_AckFailureDoesNotStopBatch(t *testing.T) {
	ctx := t.Context()
	first, second := slaJob(t, 1), slaJob(t, 1)

	queue := new(MockSlaJobQueue)
	handler := new(MockSlaCheckHandler)
	queue.On("ClaimDue", ctx, fixedNow, time.Minute, 50).Return([]ports.SlaJob{first, second}, nil).Once()
	handler.On("Handle", ctx, mock.Anything).Return(services.Effect{Kind: services.NoOp}, nil).Twice()
	queue.On("Complete", ctx, first.ID).Return(errors.New("timeout")).Once()
	queue.On("Complete", ctx, second.ID).Return(nil).Once()

	job := jobs.NewSlaMonitorJob(queue, handler, fixedClock, monitorConfig, discardLogger())
	n, err := job.RunOnce(ctx)

	require.NoError(t, err)
	assert.Equal(t, 2, n)
	queue.AssertExpectations(t)
}
