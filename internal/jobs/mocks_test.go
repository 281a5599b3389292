package jobs_test

import (
	"context"
	"log/slog"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

var fixedNow = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func discardLogger() *slog.Logger { return slog.New(slog.DiscardHandler) }

type MockSlaJobQueue struct{ mock.Mock }

func (m *MockSlaJobQueue) ClaimDue(ctx context.Context, now time.Time, lease time.Duration, limit int) ([]ports.SlaJob, error) {
	args := m.Called(ctx, now, lease, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ports.SlaJob), args.Error(1)
}

func (m *MockSlaJobQueue) Complete(ctx context.Context, id kernel.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockSlaJobQueue) Retry(ctx context.Context, id kernel.UUID, runAt time.Time, cause error) error {
	return m.Called(ctx, id, runAt, cause).Error(0)
}

func (m *MockSlaJobQueue) Bury(ctx context.Context, id kernel.UUID, cause error) error {
	return m.Called(ctx, id, cause).Error(0)
}

type MockSlaCheckHandler struct{ mock.Mock }

func (m *MockSlaCheckHandler) Handle(ctx context.Context, cmd commands.MonitorOrderSlaCommand) (services.Effect, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(services.Effect), args.Error(1)
}

type MockOutboxRepository struct{ mock.Mock }

func (m *MockOutboxRepository) ClaimPending(
	ctx context.Context,
	now time.Time,
	lease time.Duration,
	limit int,
) ([]ports.OutboxMessage, error) {
	args := m.Called(ctx, now, lease, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ports.OutboxMessage), args.Error(1)
}

func (m *MockOutboxRepository) MarkPublished(ctx context.Context, id kernel.UUID, at time.Time) error {
	return m.Called(ctx, id, at).Error(0)
}

func (m *MockOutboxRepository) MarkFailed(ctx context.Context, id kernel.UUID, cause error) error {
	return m.Called(ctx, id, cause).Error(0)
}

type MockEventBus struct{ mock.Mock }

func (m *MockEventBus) Publish(ctx context.Context, messages ...ports.OutboxMessage) error {
	return m.Called(ctx, messages).Error(0)
}
