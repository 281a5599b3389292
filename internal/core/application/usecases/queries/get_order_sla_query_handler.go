package queries

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// slaRow mirrors the "sla.active" document of orders.metadata.
type slaRow struct {
	Status           string     `json:"status"`
	StartedAt        time.Time  `json:"started_at"`
	ThresholdMinutes int        `json:"threshold_minutes"`
	Breached         bool       `json:"breached"`
	BreachedAt       *time.Time `json:"breached_at"`
	Escalations      []struct {
		Level        string     `json:"level"`
		Channel      string     `json:"channel"`
		AfterMinutes int        `json:"after_minutes"`
		TriggeredAt  *time.Time `json:"triggered_at"`
	} `json:"escalations"`
}

// GetOrderSlaQueryHandler reads the window straight from the jsonb column.
//
// Example:
//
//	handler := NewGetOrderSlaQueryHandler(db, commands.SystemClock)
//	query, _ := NewGetOrderSlaQuery(orderID)
//	sla, err := handler.Handle(ctx, query)
//	if err == nil && sla.Breached {
//	    fmt.Printf("breached %d minutes into %s\n", sla.ElapsedMinutes, sla.Status)
//	}
type GetOrderSlaQueryHandler struct {
	db  *gorm.DB
	now func() time.Time
}

// NewGetOrderSlaQueryHandler creates the handler. now is used for
// ElapsedMinutes.
func NewGetOrderSlaQueryHandler(db *gorm.DB, now func() time.Time) GetOrderSlaQueryHandler {
	return GetOrderSlaQueryHandler{db: db, now: now}
}

// Handle returns errs.ObjectNotFoundError for unknown orders.
func (h GetOrderSlaQueryHandler) Handle(ctx context.Context, query GetOrderSlaQuery) (GetOrderSlaQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderSlaQueryResponse{}, err
	}

	var (
		rawStatus string
		rawSla    datatypes.JSON
	)
	err := h.db.WithContext(ctx).Raw(`
		SELECT
			status,
			metadata->'sla'->'active'
		FROM orders
		WHERE id = ?
	`, query.OrderID().Bytes()).Row().Scan(&rawStatus, &rawSla)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return GetOrderSlaQueryResponse{}, errs.NewObjectNotFoundError("order", query.OrderID().String())
		}
		return GetOrderSlaQueryResponse{}, err
	}

	status, err := order.ParseStatus(rawStatus)
	if err != nil {
		return GetOrderSlaQueryResponse{}, err
	}

	var row slaRow
	if err = json.Unmarshal(rawSla, &row); err != nil {
		return GetOrderSlaQueryResponse{}, fmt.Errorf("decode sla of order %s: %w", query.OrderID(), err)
	}

	resp := GetOrderSlaQueryResponse{
		OrderID:          query.OrderID(),
		Status:           status,
		StartedAt:        row.StartedAt,
		ThresholdMinutes: row.ThresholdMinutes,
		ElapsedMinutes:   max(0, int(h.now().Sub(row.StartedAt)/time.Minute)),
		Breached:         row.Breached,
		BreachedAt:       row.BreachedAt,
		Escalations:      make([]EscalationView, 0, len(row.Escalations)),
	}
	if row.ThresholdMinutes > 0 {
		due := row.StartedAt.Add(time.Duration(row.ThresholdMinutes) * time.Minute)
		resp.DueAt = &due
	}
	for _, e := range row.Escalations {
		resp.Escalations = append(resp.Escalations, EscalationView{
			Level:        e.Level,
			Channel:      order.Channel(e.Channel),
			AfterMinutes: e.AfterMinutes,
			DueAt:        row.StartedAt.Add(time.Duration(e.AfterMinutes) * time.Minute),
			TriggeredAt:  e.TriggeredAt,
		})
	}
	return resp, nil
}
