package ports

import (
	"context"
	"time"

	"marketplace/internal/core/domain/model/escrow"
	"marketplace/internal/core/domain/model/kernel"
)

// EscrowRepository defines the persistence contract for escrow transactions.
type EscrowRepository interface {
	// Add persists a newly opened escrow transaction.
	Add(ctx context.Context, transaction *escrow.Transaction) error

	// Update persists changes to an existing transaction.
	Update(ctx context.Context, transaction *escrow.Transaction) error

	// Get retrieves a transaction by its unique identifier.
	// Returns errs.ObjectNotFoundError when no such transaction exists.
	Get(ctx context.Context, id kernel.UUID) (*escrow.Transaction, error)

	// GetByOrderID retrieves the transaction holding funds for an order.
	GetByOrderID(ctx context.Context, orderID kernel.UUID) (*escrow.Transaction, error)

	// GetAllDueForRelease retrieves Held transactions whose automatic release
	// deadline has elapsed at the given instant. Used by the sweep job.
	GetAllDueForRelease(ctx context.Context, now time.Time) ([]*escrow.Transaction, error)
}
