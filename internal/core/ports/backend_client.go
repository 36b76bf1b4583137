package ports

import (
	"context"
	"errors"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/syncqueue"
)

// ErrSyncConflict is returned by the backend client when the platform rejects
// a replayed mutation because its target entity changed remotely. Conflicting
// mutations are discarded, not retried: the backend state wins.
var ErrSyncConflict = errors.New("sync conflict: backend state has diverged")

// OrderSnapshot is the authoritative order state as reported by the platform
// backend, used to refresh the local cache during reconciliation.
type OrderSnapshot struct {
	OrderID   kernel.UUID
	Status    string
	DriverID  *kernel.UUID
	UpdatedAt time.Time
}

// DriverLocation is one driver position sample pulled from the backend when
// push delivery is unavailable.
type DriverLocation struct {
	DriverID kernel.UUID
	Lat      float64
	Lon      float64
	Status   string
	At       time.Time
}

// BackendClient is the outbound contract to the authoritative platform
// backend. All calls respect the context deadline; the adapter applies the
// configured request timeout.
type BackendClient interface {
	// ReplayMutation submits one queued local mutation to the backend.
	// Returns ErrSyncConflict when the backend rejects it as stale.
	ReplayMutation(ctx context.Context, mutation *syncqueue.Mutation) error

	// GetOrderSnapshot fetches the authoritative state of one order.
	GetOrderSnapshot(ctx context.Context, orderID kernel.UUID) (*OrderSnapshot, error)

	// GetDriverLocations fetches current positions of active drivers.
	GetDriverLocations(ctx context.Context) ([]DriverLocation, error)
}
