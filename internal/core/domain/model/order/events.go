package order

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
)

// Event type names. They travel in the event-type header on the bus.
const (
	// EventTypeStatusChanged is the type of StatusChanged.
	EventTypeStatusChanged = "order.status_changed"
	// EventTypeOrderSlaBreached is the type of OrderSlaBreached.
	EventTypeOrderSlaBreached = "order.sla_breached"
	// EventTypeOrderSlaEscalated is the type of OrderSlaEscalated.
	EventTypeOrderSlaEscalated = "order.sla_escalated"
)

// DomainEvent is a fact raised by the Order aggregate. Events are collected
// on the aggregate and drained by the unit of work into the outbox when the
// surrounding transaction commits.
type DomainEvent interface {
	EventID() kernel.UUID
	EventType() string
	AggregateID() kernel.UUID
	Tenant() kernel.UUID
	OccurredOn() time.Time
}

// StatusChanged is raised by every successful transition.
type StatusChanged struct {
	ID         kernel.UUID `json:"event_id"`
	OrderID    kernel.UUID `json:"order_id"`
	TenantID   kernel.UUID `json:"tenant_id"`
	From       string      `json:"from"`
	To         string      `json:"to"`
	Reason     string      `json:"reason,omitempty"`
	ChangedBy  string      `json:"changed_by,omitempty"`
	OccurredAt time.Time   `json:"occurred_at"`
}

// EventID returns the unique identifier of the event.
func (e StatusChanged) EventID() kernel.UUID {
	return e.ID
}

// EventType returns the routing name of the event.
func (e StatusChanged) EventType() string {
	return EventTypeStatusChanged
}

// AggregateID returns the ID of the order that raised the event.
func (e StatusChanged) AggregateID() kernel.UUID {
	return e.OrderID
}

// Tenant returns the tenant of the order.
func (e StatusChanged) Tenant() kernel.UUID {
	return e.TenantID
}

// OccurredOn returns when the event happened.
func (e StatusChanged) OccurredOn() time.Time {
	return e.OccurredAt
}

// OrderSlaBreached is raised once per SLA window, when dwell time first
// reaches the threshold.
type OrderSlaBreached struct {
	ID             kernel.UUID `json:"event_id"`
	OrderID        kernel.UUID `json:"order_id"`
	TenantID       kernel.UUID `json:"tenant_id"`
	Status         string      `json:"status"`
	ElapsedMinutes int         `json:"elapsed_minutes"`
	BreachedAt     time.Time   `json:"breached_at"`
}

// EventID returns the unique identifier of the event.
func (e OrderSlaBreached) EventID() kernel.UUID {
	return e.ID
}

// EventType returns the routing name of the event.
func (e OrderSlaBreached) EventType() string {
	return EventTypeOrderSlaBreached
}

// AggregateID returns the ID of the order that raised the event.
func (e OrderSlaBreached) AggregateID() kernel.UUID {
	return e.OrderID
}

// Tenant returns the tenant of the order.
func (e OrderSlaBreached) Tenant() kernel.UUID {
	return e.TenantID
}

// OccurredOn returns when the event happened.
func (e OrderSlaBreached) OccurredOn() time.Time {
	return e.BreachedAt
}

// OrderSlaEscalated is raised once per escalation step. Step is the index of
// the rung in the window's ladder.
type OrderSlaEscalated struct {
	ID          kernel.UUID `json:"event_id"`
	OrderID     kernel.UUID `json:"order_id"`
	TenantID    kernel.UUID `json:"tenant_id"`
	Status      string      `json:"status"`
	Level       string      `json:"level"`
	Channel     Channel     `json:"channel"`
	Step        int         `json:"step"`
	TriggeredAt time.Time   `json:"triggered_at"`
}

// EventID returns the unique identifier of the event.
func (e OrderSlaEscalated) EventID() kernel.UUID {
	return e.ID
}

// EventType returns the routing name of the event.
func (e OrderSlaEscalated) EventType() string {
	return EventTypeOrderSlaEscalated
}

// AggregateID returns the ID of the order that raised the event.
func (e OrderSlaEscalated) AggregateID() kernel.UUID {
	return e.OrderID
}

// Tenant returns the tenant of the order.
func (e OrderSlaEscalated) Tenant() kernel.UUID {
	return e.TenantID
}

// OccurredOn returns when the event happened.
func (e OrderSlaEscalated) OccurredOn() time.Time {
	return e.TriggeredAt
}
