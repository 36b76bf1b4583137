package queries

import (
	"errors"

	"marketplace/internal/pkg/guard"
)

var ErrGetEscrowSummaryQueryIsNotConstructed = errors.New(
	"GetEscrowSummaryQuery must be created via NewGetEscrowSummaryQuery constructor",
)

// GetEscrowSummaryQuery retrieves the platform's escrow balance: the sums and
// counts of funds currently locked, split into held and disputed.
type GetEscrowSummaryQuery struct {
	guard guard.ConstructorGuard
}

// NewGetEscrowSummaryQuery creates a query for the escrow balance summary.
func NewGetEscrowSummaryQuery() GetEscrowSummaryQuery {
	return GetEscrowSummaryQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
func (q GetEscrowSummaryQuery) Validate() error {
	return q.guard.Validate(ErrGetEscrowSummaryQueryIsNotConstructed)
}

// GetEscrowSummaryQueryResponse is the escrow balance read model.
// The platform's total locked balance is HeldAmount + DisputedAmount.
type GetEscrowSummaryQueryResponse struct {
	HeldAmount     int64
	HeldCount      int64
	DisputedAmount int64
	DisputedCount  int64
}
