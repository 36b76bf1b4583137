package queries

import (
	"context"

	"gorm.io/gorm"
)

// GetEscrowSummaryQueryHandler aggregates the escrow ledger in the database.
type GetEscrowSummaryQueryHandler struct {
	db *gorm.DB
}

// NewGetEscrowSummaryQueryHandler creates a handler for escrow summaries.
func NewGetEscrowSummaryQueryHandler(db *gorm.DB) GetEscrowSummaryQueryHandler {
	return GetEscrowSummaryQueryHandler{db: db}
}

// Handle executes the summary query.
func (h GetEscrowSummaryQueryHandler) Handle(
	ctx context.Context,
	query GetEscrowSummaryQuery,
) (GetEscrowSummaryQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetEscrowSummaryQueryResponse{}, err
	}

	var response GetEscrowSummaryQueryResponse

	row := h.db.WithContext(ctx).Raw(`
		SELECT
			COALESCE(SUM(amount) FILTER (WHERE status = 'held'), 0),
			COUNT(*) FILTER (WHERE status = 'held'),
			COALESCE(SUM(amount) FILTER (WHERE status = 'disputed'), 0),
			COUNT(*) FILTER (WHERE status = 'disputed')
		FROM escrow_transactions
	`).Row()

	if err := row.Scan(
		&response.HeldAmount,
		&response.HeldCount,
		&response.DisputedAmount,
		&response.DisputedCount,
	); err != nil {
		return GetEscrowSummaryQueryResponse{}, err
	}

	return response, nil
}
