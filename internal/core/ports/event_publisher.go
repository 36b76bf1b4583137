package ports

import (
	"context"

	"marketplace/internal/core/domain/model/order"
)

// OrderEventPublisher publishes order lifecycle changes to the message bus.
// One event is emitted per applied transition; consumers treat events as the
// single push channel for order state (no separate per-concern topics).
type OrderEventPublisher interface {
	// PublishOrderChanged emits the order's current state after a transition.
	PublishOrderChanged(ctx context.Context, aggregate *order.Order) error
}
