package queries

import (
	"context"
	"database/sql"
	"errors"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
)

// GetAvailableTransitionsQueryHandler reads the order status and answers
// from the transition graph. Business rules are not evaluated here; use
// ValidateTransitionQuery for that.
type GetAvailableTransitionsQueryHandler struct {
	db *gorm.DB
}

// NewGetAvailableTransitionsQueryHandler creates the handler.
func NewGetAvailableTransitionsQueryHandler(db *gorm.DB) GetAvailableTransitionsQueryHandler {
	return GetAvailableTransitionsQueryHandler{db: db}
}

// Handle returns errs.ObjectNotFoundError for unknown orders.
func (h GetAvailableTransitionsQueryHandler) Handle(
	ctx context.Context,
	query GetAvailableTransitionsQuery,
) (GetAvailableTransitionsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetAvailableTransitionsQueryResponse{}, err
	}

	var raw string
	err := h.db.WithContext(ctx).Raw(`
		SELECT status
		FROM orders
		WHERE id = ?
	`, query.OrderID().Bytes()).Row().Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return GetAvailableTransitionsQueryResponse{}, errs.NewObjectNotFoundError("order", query.OrderID().String())
		}
		return GetAvailableTransitionsQueryResponse{}, err
	}

	status, err := order.ParseStatus(raw)
	if err != nil {
		return GetAvailableTransitionsQueryResponse{}, err
	}

	return GetAvailableTransitionsQueryResponse{
		OrderID:     query.OrderID(),
		Status:      status,
		Transitions: status.AllowedTransitions(),
	}, nil
}
