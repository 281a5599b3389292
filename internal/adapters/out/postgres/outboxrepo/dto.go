// Package outboxrepo stores domain events in the outbox_events table.
//
// The unit of work appends events in the transaction that changed the
// aggregate; the relay job later claims unpublished rows and hands them to
// the event bus.
package outboxrepo

import (
	"encoding/json"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// OutboxEventDTO is the outbox_events table row.
type OutboxEventDTO struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Seq         int64          `gorm:"autoIncrement;uniqueIndex"`
	AggregateID uuid.UUID      `gorm:"type:uuid;not null;index"`
	TenantID    uuid.UUID      `gorm:"type:uuid;not null"`
	EventType   string         `gorm:"type:varchar(64);not null"`
	Payload     datatypes.JSON `gorm:"type:jsonb;not null"`
	OccurredAt  time.Time      `gorm:"not null"`
	PublishedAt *time.Time     `gorm:"index"`
	Attempts    int            `gorm:"not null;default:0"`
	LeasedUntil *time.Time
	LastError   string
	CreatedAt   time.Time
}

// TableName specifies the database table name for outbox rows.
func (OutboxEventDTO) TableName() string {
	return "outbox_events"
}

func fromDomain(event order.DomainEvent) (OutboxEventDTO, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return OutboxEventDTO{}, fmt.Errorf("encode %s event: %w", event.EventType(), err)
	}
	return OutboxEventDTO{
		ID:          event.EventID().Bytes(),
		AggregateID: event.AggregateID().Bytes(),
		TenantID:    event.Tenant().Bytes(),
		EventType:   event.EventType(),
		Payload:     datatypes.JSON(payload),
		OccurredAt:  event.OccurredOn(),
	}, nil
}

func toMessage(dto OutboxEventDTO) (ports.OutboxMessage, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return ports.OutboxMessage{}, err
	}
	aggregateID, err := kernel.UUIDFromBytes(dto.AggregateID[:])
	if err != nil {
		return ports.OutboxMessage{}, err
	}
	tenantID, err := kernel.UUIDFromBytes(dto.TenantID[:])
	if err != nil {
		return ports.OutboxMessage{}, err
	}
	return ports.OutboxMessage{
		ID:          id,
		AggregateID: aggregateID,
		TenantID:    tenantID,
		EventType:   dto.EventType,
		Payload:     []byte(dto.Payload),
		OccurredAt:  dto.OccurredAt,
		Attempts:    dto.Attempts,
	}, nil
}
