package ports

import (
	"context"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/syncqueue"
)

// MutationRepository defines the persistence contract for the pending-sync
// mutation queue.
type MutationRepository interface {
	// Add enqueues a mutation. Called in the same transaction as the local
	// write the mutation mirrors.
	Add(ctx context.Context, mutation *syncqueue.Mutation) error

	// Update persists the attempt counter after a failed replay.
	Update(ctx context.Context, mutation *syncqueue.Mutation) error

	// Remove dequeues a mutation once the backend accepted it, or when a
	// conflict made it permanently unreplayable.
	Remove(ctx context.Context, id kernel.UUID) error

	// GetAllPending retrieves queued mutations in enqueue order, oldest
	// first, up to limit entries.
	GetAllPending(ctx context.Context, limit int) ([]*syncqueue.Mutation, error)
}
