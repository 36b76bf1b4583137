// Package ports defines repository interfaces for the marketplace domain.
// These interfaces establish contracts between the domain layer and
// infrastructure, enabling dependency inversion and testability.
package ports

import (
	"context"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
type OrderRepository interface {
	// Add persists a new order aggregate to storage.
	// The order must be valid and not already exist in the repository.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate,
	// including its status, driver assignment, and transition history.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate by its unique identifier.
	// Returns errs.ObjectNotFoundError when no such order exists.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetAllDispatchEligible retrieves orders waiting for a driver:
	// in Preparing status with no driver assigned. Used by the dispatch job.
	GetAllDispatchEligible(ctx context.Context) ([]*order.Order, error)

	// GetAllActive retrieves all orders that have not reached a terminal
	// status. Used by the reconciliation pass to refresh local snapshots.
	GetAllActive(ctx context.Context) ([]*order.Order, error)
}
