package slajobrepo

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

// claimDueSQL leases due jobs in one statement. Rows locked by a concurrent
// claim are skipped; expired leases are claimable again.
const claimDueSQL = `
	UPDATE sla_jobs
	SET leased_until = @leasedUntil, attempts = attempts + 1
	WHERE id IN (
		SELECT id
		FROM sla_jobs
		WHERE buried_at IS NULL
			AND run_at <= @now
			AND (leased_until IS NULL OR leased_until <= @now)
		ORDER BY run_at
		LIMIT @limit
		FOR UPDATE SKIP LOCKED
	)
	RETURNING *`

// GormSlaJobRepository implements ports.SlaJobScheduler and ports.SlaJobQueue.
type GormSlaJobRepository struct {
	db *gorm.DB
}

// NewGormSlaJobRepository creates a repository on db, which may be a
// transaction.
func NewGormSlaJobRepository(db *gorm.DB) *GormSlaJobRepository {
	return &GormSlaJobRepository{db: db}
}

// Schedule inserts a job that becomes due at runAt.
func (r *GormSlaJobRepository) Schedule(ctx context.Context, check order.SlaCheck, runAt time.Time) error {
	if err := check.Validate(); err != nil {
		return err
	}

	dto := fromDomain(kernel.NewUUID(), check, runAt)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// ClaimDue leases up to limit due jobs, oldest first.
func (r *GormSlaJobRepository) ClaimDue(
	ctx context.Context,
	now time.Time,
	lease time.Duration,
	limit int,
) ([]ports.SlaJob, error) {
	var dtos []SlaJobDTO
	err := r.db.WithContext(ctx).Raw(claimDueSQL, map[string]any{
		"leasedUntil": now.Add(lease),
		"now":         now,
		"limit":       limit,
	}).Scan(&dtos).Error
	if err != nil {
		return nil, err
	}

	slices.SortFunc(dtos, func(a, b SlaJobDTO) int { return cmp.Compare(a.RunAt.UnixNano(), b.RunAt.UnixNano()) })

	jobs := make([]ports.SlaJob, 0, len(dtos))
	for _, dto := range dtos {
		job, convErr := toDomain(dto)
		if convErr != nil {
			return nil, convErr
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

// Complete deletes a finished job.
func (r *GormSlaJobRepository) Complete(ctx context.Context, id kernel.UUID) error {
	result := r.db.WithContext(ctx).Delete(&SlaJobDTO{}, "id = ?", id.Bytes())
	return checkAffected(result, id)
}

// Retry releases the lease and moves the job to runAt.
func (r *GormSlaJobRepository) Retry(ctx context.Context, id kernel.UUID, runAt time.Time, cause error) error {
	result := r.db.WithContext(ctx).
		Model(&SlaJobDTO{}).
		Where("id = ?", id.Bytes()).
		Updates(map[string]any{
			"run_at":       runAt,
			"leased_until": nil,
			"last_error":   errorText(cause),
		})
	return checkAffected(result, id)
}

// Bury keeps the job for inspection but removes it from polling.
func (r *GormSlaJobRepository) Bury(ctx context.Context, id kernel.UUID, cause error) error {
	result := r.db.WithContext(ctx).
		Model(&SlaJobDTO{}).
		Where("id = ?", id.Bytes()).
		Updates(map[string]any{
			"buried_at":    gorm.Expr("NOW()"),
			"leased_until": nil,
			"last_error":   errorText(cause),
		})
	return checkAffected(result, id)
}

func checkAffected(result *gorm.DB, id kernel.UUID) error {
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("slaJob", id.String())
	}
	return nil
}

func errorText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
