package ports

import (
	"context"

	"marketplace/internal/core/domain/model/cart"
	"marketplace/internal/core/domain/model/kernel"
)

// CartRepository defines the persistence contract for buyer carts.
// Every cart mutation is written through before the operation returns, so a
// process restart never loses cart state.
type CartRepository interface {
	// Upsert persists the cart's current lines, replacing any stored state
	// for the same buyer. An empty cart is stored, not deleted.
	Upsert(ctx context.Context, aggregate *cart.Cart) error

	// Get retrieves the cart for a buyer. A buyer without stored state gets
	// a fresh empty cart, not an error.
	Get(ctx context.Context, buyerID kernel.UUID) (*cart.Cart, error)
}
