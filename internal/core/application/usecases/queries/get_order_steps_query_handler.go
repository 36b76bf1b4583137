package queries

import (
	"context"

	"marketplace/internal/core/domain/model/order"

	"gorm.io/gorm"
)

// GetOrderStepsQueryHandler reads an order's transition timeline straight
// from the history table, ordered as the transitions were applied.
type GetOrderStepsQueryHandler struct {
	db *gorm.DB
}

// NewGetOrderStepsQueryHandler creates a handler for order timeline queries.
func NewGetOrderStepsQueryHandler(db *gorm.DB) GetOrderStepsQueryHandler {
	return GetOrderStepsQueryHandler{db: db}
}

// Handle executes the query and returns the timeline, oldest step first.
func (h GetOrderStepsQueryHandler) Handle(
	ctx context.Context,
	query GetOrderStepsQuery,
) ([]GetOrderStepsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	steps := make([]GetOrderStepsQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			status,
			actor_role,
			occurred_at
		FROM order_status_changes
		WHERE order_id = ?
		ORDER BY seq
	`, query.OrderID().String()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var step GetOrderStepsQueryResponse
		if err = rows.Scan(&step.Status, &step.Actor, &step.At); err != nil {
			return nil, err
		}

		status, err := order.StatusFromString(step.Status)
		if err != nil {
			return nil, err
		}
		step.Label = status.Label()

		steps = append(steps, step)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return steps, nil
}
