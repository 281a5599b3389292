package outboxrepo

import (
	"cmp"
	"context"
	"slices"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
)

const claimPendingSQL = `
	UPDATE outbox_events
	SET leased_until = @leasedUntil, attempts = attempts + 1
	WHERE id IN (
		SELECT id
		FROM outbox_events
		WHERE published_at IS NULL
			AND (leased_until IS NULL OR leased_until <= @now)
		ORDER BY seq
		LIMIT @limit
		FOR UPDATE SKIP LOCKED
	)
	RETURNING *`

// GormOutboxRepository implements ports.OutboxRepository and the append side
// used by the unit of work.
type GormOutboxRepository struct {
	db *gorm.DB
}

// NewGormOutboxRepository creates a repository on db, which may be a
// transaction.
func NewGormOutboxRepository(db *gorm.DB) *GormOutboxRepository {
	return &GormOutboxRepository{db: db}
}

// Append stores events in the order given.
func (r *GormOutboxRepository) Append(ctx context.Context, events ...order.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}

	dtos := make([]OutboxEventDTO, 0, len(events))
	for _, e := range events {
		dto, err := fromDomain(e)
		if err != nil {
			return err
		}
		dtos = append(dtos, dto)
	}
	return r.db.WithContext(ctx).Create(&dtos).Error
}

// ClaimPending leases up to limit unpublished messages in insertion order.
func (r *GormOutboxRepository) ClaimPending(
	ctx context.Context,
	now time.Time,
	lease time.Duration,
	limit int,
) ([]ports.OutboxMessage, error) {
	var dtos []OutboxEventDTO
	err := r.db.WithContext(ctx).Raw(claimPendingSQL, map[string]any{
		"leasedUntil": now.Add(lease),
		"now":         now,
		"limit":       limit,
	}).Scan(&dtos).Error
	if err != nil {
		return nil, err
	}

	slices.SortFunc(dtos, func(a, b OutboxEventDTO) int { return cmp.Compare(a.Seq, b.Seq) })

	messages := make([]ports.OutboxMessage, 0, len(dtos))
	for _, dto := range dtos {
		msg, convErr := toMessage(dto)
		if convErr != nil {
			return nil, convErr
		}
		messages = append(messages, msg)
	}
	return messages, nil
}

// MarkPublished stamps the message as delivered.
func (r *GormOutboxRepository) MarkPublished(ctx context.Context, id kernel.UUID, at time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&OutboxEventDTO{}).
		Where("id = ?", id.Bytes()).
		Updates(map[string]any{
			"published_at": at,
			"leased_until": nil,
			"last_error":   "",
		})
	return checkAffected(result, id)
}

// MarkFailed records the delivery error. The lease is kept, so the message
// is picked up again once it expires.
func (r *GormOutboxRepository) MarkFailed(ctx context.Context, id kernel.UUID, cause error) error {
	msg := ""
	if cause != nil {
		msg = cause.Error()
	}
	result := r.db.WithContext(ctx).
		Model(&OutboxEventDTO{}).
		Where("id = ?", id.Bytes()).
		Update("last_error", msg)
	return checkAffected(result, id)
}

func checkAffected(result *gorm.DB, id kernel.UUID) error {
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("outboxEvent", id.String())
	}
	return nil
}
