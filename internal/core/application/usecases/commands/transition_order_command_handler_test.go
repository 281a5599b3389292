package commands_test

import (
	"errors"
	"testing"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTransitionHandler(factory commands.UoWFactory) commands.TransitionOrderCommandHandler {
	return commands.NewTransitionOrderCommandHandler(factory, services.NewOrderStateMachine(), fixedClock, discardLogger())
}

func TestNewTransitionOrderCommand(t *testing.T) {
	t.Run("valid input", func(t *testing.T) {
		id := kernel.NewUUID()
		cmd, err := commands.NewTransitionOrderCommand(id, order.Cancelled, order.TransitionContext{Reason: "duplicate"})

		require.NoError(t, err)
		require.NoError(t, cmd.Validate())
		assert.Equal(t, id, cmd.OrderID())
		assert.Equal(t, order.Cancelled, cmd.To())
		assert.Equal(t, "duplicate", cmd.Context().Reason)
	})

	t.Run("invalid id and status", func(t *testing.T) {
		_, err := commands.NewTransitionOrderCommand(kernel.UUID{}, order.Unknown, order.TransitionContext{})

		require.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestTransitionOrderCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	o := restoreOrder(order.New, fixedNow.Add(-time.Hour))
	cmd, _ := commands.NewTransitionOrderCommand(o.ID(), order.VendorSourcing, order.TransitionContext{ChangedBy: "ops"})

	orderRepo := new(MockOrderRepository)
	scheduler := new(MockSlaJobScheduler)
	uow := new(MockUoW)
	factory := new(MockUoWFactory)

	mock.InOrder(
		factory.On("Create").Return(uow).Once(),
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("GetForUpdate", ctx, o.ID()).Return(o, nil).Once(),
		orderRepo.On("Update", ctx, o).Return(nil).Once(),
		uow.On("SlaJobScheduler").Return(scheduler).Once(),
		scheduler.On("Schedule", ctx, mock.MatchedBy(func(c order.SlaCheck) bool { return c.ThresholdCheck }), fixedNow.Add(240*time.Minute)).Return(nil).Once(),
		scheduler.On("Schedule", ctx, mock.MatchedBy(func(c order.SlaCheck) bool {
			return c.EscalationIndex != nil && *c.EscalationIndex == 0
		}), fixedNow.Add(240*time.Minute)).Return(nil).Once(),
		scheduler.On("Schedule", ctx, mock.MatchedBy(func(c order.SlaCheck) bool {
			return c.EscalationIndex != nil && *c.EscalationIndex == 1
		}), fixedNow.Add(360*time.Minute)).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	err := newTransitionHandler(factory).Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, order.VendorSourcing, o.Status())
	assert.Equal(t, fixedNow, o.Sla().StartedAt())
	assert.Len(t, o.PullEvents(), 1, "events stay on the aggregate for the unit of work to drain")
	orderRepo.AssertExpectations(t)
	scheduler.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestTransitionOrderCommandHandler_Handle_NoPolicySchedulesNothing(t *testing.T) {
	ctx := t.Context()
	o := restoreOrder(order.QualityCheck, fixedNow.Add(-time.Hour))
	cmd, _ := commands.NewTransitionOrderCommand(o.ID(), order.ReadyToShip, order.TransitionContext{})

	orderRepo := new(MockOrderRepository)
	uow := new(MockUoW)
	factory := new(MockUoWFactory)

	mock.InOrder(
		factory.On("Create").Return(uow).Once(),
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("GetForUpdate", ctx, o.ID()).Return(o, nil).Once(),
		orderRepo.On("Update", ctx, o).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	require.NoError(t, newTransitionHandler(factory).Handle(ctx, cmd))
	uow.AssertNotCalled(t, "SlaJobScheduler")
	uow.AssertExpectations(t)
}

func TestTransitionOrderCommandHandler_Handle_DomainErrors(t *testing.T) {
	testCases := []struct {
		name     string
		from     order.Status
		to       order.Status
		expected error
	}{
		{name: "edge outside graph", from: order.New, to: order.Completed, expected: services.ErrInvalidTransition},
		{name: "business rule fails", from: order.QualityCheck, to: order.Shipping, expected: services.ErrValidationFailed},
		{name: "terminal status", from: order.Cancelled, to: order.New, expected: services.ErrInvalidTransition},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := t.Context()
			o := restoreOrder(tc.from, fixedNow.Add(-time.Hour))
			before := o.Snapshot()
			cmd, _ := commands.NewTransitionOrderCommand(o.ID(), tc.to, order.TransitionContext{})

			orderRepo := new(MockOrderRepository)
			uow := new(MockUoW)
			factory := new(MockUoWFactory)

			mock.InOrder(
				factory.On("Create").Return(uow).Once(),
				uow.On("Begin", ctx).Return(nil).Once(),
				uow.On("OrderRepository").Return(orderRepo).Once(),
				orderRepo.On("GetForUpdate", ctx, o.ID()).Return(o, nil).Once(),
				uow.On("Rollback", ctx).Return(nil).Once(),
			)

			err := newTransitionHandler(factory).Handle(ctx, cmd)

			require.ErrorIs(t, err, tc.expected)
			assert.Equal(t, before, o.Snapshot())
			orderRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
			uow.AssertNotCalled(t, "Commit", mock.Anything)
			uow.AssertExpectations(t)
		})
	}
}

func TestTransitionOrderCommandHandler_Handle_NotFound(t *testing.T) {
	ctx := t.Context()
	id := kernel.NewUUID()
	cmd, _ := commands.NewTransitionOrderCommand(id, order.VendorSourcing, order.TransitionContext{})

	orderRepo := new(MockOrderRepository)
	uow := new(MockUoW)
	factory := new(MockUoWFactory)

	mock.InOrder(
		factory.On("Create").Return(uow).Once(),
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("GetForUpdate", ctx, id).Return(nil, errs.NewObjectNotFoundError("order", id.String())).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	err := newTransitionHandler(factory).Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrObjectNotFound)
}

func TestTransitionOrderCommandHandler_Handle_ScheduleError(t *testing.T) {
	ctx := t.Context()
	o := restoreOrder(order.InProduction, fixedNow.Add(-time.Hour))
	cmd, _ := commands.NewTransitionOrderCommand(o.ID(), order.QualityCheck, order.TransitionContext{})

	orderRepo := new(MockOrderRepository)
	scheduler := new(MockSlaJobScheduler)
	uow := new(MockUoW)
	factory := new(MockUoWFactory)

	mock.InOrder(
		factory.On("Create").Return(uow).Once(),
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("GetForUpdate", ctx, o.ID()).Return(o, nil).Once(),
		orderRepo.On("Update", ctx, o).Return(nil).Once(),
		uow.On("SlaJobScheduler").Return(scheduler).Once(),
		scheduler.On("Schedule", ctx, mock.Anything, mock.Anything).Return(errors.New("connection reset")).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	err := newTransitionHandler(factory).Handle(ctx, cmd)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "schedule sla check for QUALITY_CHECK: connection reset")
	uow.AssertNotCalled(t, "Commit", mock.Anything)
}

func TestTransitionOrderCommandHandler_Handle_BeginError(t *testing.T) {
	ctx := t.Context()
	cmd, _ := commands.NewTransitionOrderCommand(kernel.NewUUID(), order.VendorSourcing, order.TransitionContext{})

	uow := new(MockUoW)
	factory := new(MockUoWFactory)
	mock.InOrder(
		factory.On("Create").Return(uow).Once(),
		uow.On("Begin", ctx).Return(errors.New("begin error")).Once(),
	)

	err := newTransitionHandler(factory).Handle(ctx, cmd)

	require.EqualError(t, err, "begin error")
}
