package services_test

import (
	"testing"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

// orderAt restores an order sitting in status since startedAt.
func orderAt(t *testing.T, status order.Status, startedAt time.Time, mutate ...func(*order.Snapshot)) *order.Order {
	t.Helper()
	s := order.Snapshot{
		ID:          kernel.NewUUID(),
		TenantID:    kernel.NewUUID(),
		Status:      status,
		TotalAmount: 100_00,
		Sla:         order.NewSlaWindow(status, startedAt),
		CreatedAt:   startedAt,
		UpdatedAt:   startedAt,
	}
	for _, m := range mutate {
		m(&s)
	}
	o, err := order.RestoreOrder(s)
	require.NoError(t, err)
	return o
}

func thresholdCheck(t *testing.T, o *order.Order, status order.Status) order.SlaCheck {
	t.Helper()
	c, err := order.NewThresholdCheck(o.ID(), o.TenantID(), status)
	require.NoError(t, err)
	return c
}

func escalationCheck(t *testing.T, o *order.Order, status order.Status, index int) order.SlaCheck {
	t.Helper()
	c, err := order.NewEscalationCheck(o.ID(), o.TenantID(), status, index)
	require.NoError(t, err)
	return c
}

func combinedCheck(t *testing.T, o *order.Order, status order.Status, index int) order.SlaCheck {
	t.Helper()
	c, err := order.NewBreachAndEscalationCheck(o.ID(), o.TenantID(), status, index)
	require.NoError(t, err)
	return c
}
