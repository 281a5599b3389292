// Package orderrepo persists order aggregates. The active SLA window is
// stored inside the jsonb metadata column under "sla.active", next to the
// relational order fields.
package orderrepo

import (
	"encoding/json"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// OrderDTO is the orders table row.
type OrderDTO struct {
	ID                 uuid.UUID  `gorm:"type:uuid;primaryKey"`
	TenantID           uuid.UUID  `gorm:"type:uuid;not null;index"`
	Status             string     `gorm:"type:varchar(32);not null;index"`
	VendorID           *uuid.UUID `gorm:"type:uuid"`
	TrackingNumber     string     `gorm:"type:varchar(128)"`
	TotalAmount        int64      `gorm:"not null"`
	QuotationAmount    int64
	CancellationReason string
	RefundAmount       int64
	ShippedAt          *time.Time
	DeliveredAt        *time.Time
	Metadata           datatypes.JSON `gorm:"type:jsonb;not null"`
	CreatedAt          time.Time      `gorm:"not null;autoCreateTime:false"`
	UpdatedAt          time.Time      `gorm:"not null;autoUpdateTime:false"`
}

// TableName specifies the database table name for order entities.
func (OrderDTO) TableName() string {
	return "orders"
}

// MetadataDTO is the document kept in orders.metadata.
type MetadataDTO struct {
	Sla SlaMetadataDTO `json:"sla"`
}

// SlaMetadataDTO holds the active window. Only one window exists per order.
type SlaMetadataDTO struct {
	Active SlaWindowDTO `json:"active"`
}

// SlaWindowDTO is the JSON form of order.SlaWindow.
type SlaWindowDTO struct {
	Status           string          `json:"status"`
	StartedAt        time.Time       `json:"started_at"`
	ThresholdMinutes int             `json:"threshold_minutes"`
	Breached         bool            `json:"breached"`
	BreachedAt       *time.Time      `json:"breached_at,omitempty"`
	Escalations      []EscalationDTO `json:"escalations"`
}

// EscalationDTO is the JSON form of one ladder step.
type EscalationDTO struct {
	Level        string     `json:"level"`
	Channel      string     `json:"channel"`
	AfterMinutes int        `json:"after_minutes"`
	TriggeredAt  *time.Time `json:"triggered_at,omitempty"`
}

func fromDomain(aggregate *order.Order) (OrderDTO, error) {
	s := aggregate.Snapshot()

	var vendorID *uuid.UUID
	if s.VendorID != nil {
		raw := s.VendorID.Bytes()
		vendorID = &raw
	}

	metadata, err := json.Marshal(MetadataDTO{Sla: SlaMetadataDTO{Active: windowFromDomain(s.Sla)}})
	if err != nil {
		return OrderDTO{}, fmt.Errorf("encode order metadata: %w", err)
	}

	return OrderDTO{
		ID:                 s.ID.Bytes(),
		TenantID:           s.TenantID.Bytes(),
		Status:             s.Status.String(),
		VendorID:           vendorID,
		TrackingNumber:     s.TrackingNumber,
		TotalAmount:        s.TotalAmount,
		QuotationAmount:    s.QuotationAmount,
		CancellationReason: s.CancellationReason,
		RefundAmount:       s.RefundAmount,
		ShippedAt:          s.ShippedAt,
		DeliveredAt:        s.DeliveredAt,
		Metadata:           datatypes.JSON(metadata),
		CreatedAt:          s.CreatedAt,
		UpdatedAt:          s.UpdatedAt,
	}, nil
}

func windowFromDomain(w order.SlaWindow) SlaWindowDTO {
	steps := w.Escalations()
	dto := SlaWindowDTO{
		Status:           w.Status().String(),
		StartedAt:        w.StartedAt(),
		ThresholdMinutes: w.ThresholdMinutes(),
		Breached:         w.IsBreached(),
		BreachedAt:       optionalTime(w.BreachedAt()),
		Escalations:      make([]EscalationDTO, 0, len(steps)),
	}
	for _, step := range steps {
		dto.Escalations = append(dto.Escalations, EscalationDTO{
			Level:        step.Level(),
			Channel:      string(step.Channel()),
			AfterMinutes: step.AfterMinutes(),
			TriggeredAt:  optionalTime(step.TriggeredAt()),
		})
	}
	return dto
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	tenantID, err := kernel.UUIDFromBytes(dto.TenantID[:])
	if err != nil {
		return nil, err
	}

	var vendorID *kernel.UUID
	if dto.VendorID != nil {
		vID, vendorErr := kernel.UUIDFromBytes((*dto.VendorID)[:])
		if vendorErr != nil {
			return nil, vendorErr
		}
		vendorID = &vID
	}

	status, err := order.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	var metadata MetadataDTO
	if err = json.Unmarshal(dto.Metadata, &metadata); err != nil {
		return nil, fmt.Errorf("decode order metadata: %w", err)
	}

	window, err := windowToDomain(metadata.Sla.Active)
	if err != nil {
		return nil, err
	}

	return order.RestoreOrder(order.Snapshot{
		ID:                 id,
		TenantID:           tenantID,
		Status:             status,
		VendorID:           vendorID,
		TrackingNumber:     dto.TrackingNumber,
		TotalAmount:        dto.TotalAmount,
		QuotationAmount:    dto.QuotationAmount,
		CancellationReason: dto.CancellationReason,
		RefundAmount:       dto.RefundAmount,
		ShippedAt:          dto.ShippedAt,
		DeliveredAt:        dto.DeliveredAt,
		Sla:                window,
		CreatedAt:          dto.CreatedAt,
		UpdatedAt:          dto.UpdatedAt,
	})
}

func windowToDomain(dto SlaWindowDTO) (order.SlaWindow, error) {
	status, err := order.ParseStatus(dto.Status)
	if err != nil {
		return order.SlaWindow{}, err
	}

	steps := make([]order.EscalationStep, 0, len(dto.Escalations))
	for _, e := range dto.Escalations {
		steps = append(steps, order.RestoreEscalationStep(
			e.Level,
			order.Channel(e.Channel),
			e.AfterMinutes,
			derefTime(e.TriggeredAt),
		))
	}

	return order.RestoreSlaWindow(
		status,
		dto.StartedAt,
		dto.ThresholdMinutes,
		steps,
		dto.Breached,
		derefTime(dto.BreachedAt),
	), nil
}

func optionalTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func derefTime(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
