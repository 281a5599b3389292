// Package slajobrepo is the PostgreSQL delay queue for SLA checks.
//
// Jobs are rows in sla_jobs. Producers insert them inside the transaction
// that changed the order; workers claim due rows with a time-limited lease
// using FOR UPDATE SKIP LOCKED, so several workers can poll the same table.
package slajobrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"

	"github.com/google/uuid"
)

// SlaJobDTO is the sla_jobs table row.
type SlaJobDTO struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID         uuid.UUID `gorm:"type:uuid;not null;index"`
	TenantID        uuid.UUID `gorm:"type:uuid;not null"`
	Status          string    `gorm:"type:varchar(32);not null"`
	ThresholdCheck  bool      `gorm:"not null"`
	EscalationIndex *int
	RunAt           time.Time `gorm:"not null;index:idx_sla_jobs_due,priority:2"`
	Attempts        int       `gorm:"not null;default:0"`
	LeasedUntil     *time.Time
	LastError       string
	BuriedAt        *time.Time `gorm:"index:idx_sla_jobs_due,priority:1"`
	CreatedAt       time.Time
}

// TableName specifies the database table name for queued SLA checks.
func (SlaJobDTO) TableName() string {
	return "sla_jobs"
}

func fromDomain(id kernel.UUID, check order.SlaCheck, runAt time.Time) SlaJobDTO {
	var index *int
	if check.EscalationIndex != nil {
		i := *check.EscalationIndex
		index = &i
	}
	return SlaJobDTO{
		ID:              id.Bytes(),
		OrderID:         check.OrderID.Bytes(),
		TenantID:        check.TenantID.Bytes(),
		Status:          check.Status.String(),
		ThresholdCheck:  check.ThresholdCheck,
		EscalationIndex: index,
		RunAt:           runAt,
	}
}

func toDomain(dto SlaJobDTO) (ports.SlaJob, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return ports.SlaJob{}, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return ports.SlaJob{}, err
	}
	tenantID, err := kernel.UUIDFromBytes(dto.TenantID[:])
	if err != nil {
		return ports.SlaJob{}, err
	}
	status, err := order.ParseStatus(dto.Status)
	if err != nil {
		return ports.SlaJob{}, err
	}

	check := order.SlaCheck{
		OrderID:         orderID,
		TenantID:        tenantID,
		Status:          status,
		EscalationIndex: dto.EscalationIndex,
		ThresholdCheck:  dto.ThresholdCheck,
	}
	if err = check.Validate(); err != nil {
		return ports.SlaJob{}, err
	}

	return ports.SlaJob{
		ID:       id,
		Check:    check,
		RunAt:    dto.RunAt,
		Attempts: dto.Attempts,
	}, nil
}
