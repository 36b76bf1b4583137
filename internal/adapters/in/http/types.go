package http

import (
	"time"

	"marketplace/internal/core/domain/model/cart"
)

// ErrorResponse is the JSON body for every failed request.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// AddCartItemRequest is the body for POST /carts/:buyerId/items.
type AddCartItemRequest struct {
	ItemID     string `json:"item_id"`
	MerchantID string `json:"merchant_id"`
	UnitPrice  int64  `json:"unit_price"`
	Quantity   int    `json:"quantity"`
	Unit       string `json:"unit"`
}

// UpdateCartItemRequest is the body for PUT /carts/:buyerId/items/:itemId.
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

// CartLineResponse is one line of a cart snapshot.
type CartLineResponse struct {
	ItemID     string `json:"item_id"`
	MerchantID string `json:"merchant_id"`
	UnitPrice  int64  `json:"unit_price"`
	Quantity   int    `json:"quantity"`
	Unit       string `json:"unit"`
	Subtotal   int64  `json:"subtotal"`
}

// CartResponse is the cart snapshot returned by every cart endpoint.
type CartResponse struct {
	BuyerID string             `json:"buyer_id"`
	Lines   []CartLineResponse `json:"lines"`
	Total   int64              `json:"total"`
}

// CheckoutRequest is the body for POST /checkout.
type CheckoutRequest struct {
	BuyerID         string  `json:"buyer_id"`
	DeliveryAddress string  `json:"delivery_address"`
	DeliveryLat     float64 `json:"delivery_lat"`
	DeliveryLon     float64 `json:"delivery_lon"`
	PaymentMethod   string  `json:"payment_method"`
}

// CheckoutResponse lists the orders one checkout produced.
type CheckoutResponse struct {
	OrderIDs []string `json:"order_ids"`
}

// AdvanceOrderRequest is the body for PUT /orders/:id/status.
type AdvanceOrderRequest struct {
	Status    string `json:"status"`
	ActorRole string `json:"actor_role"`
	ActorID   string `json:"actor_id"`
}

// CancelOrderRequest is the body for POST /orders/:id/cancel.
type CancelOrderRequest struct {
	ActorRole string `json:"actor_role"`
	ActorID   string `json:"actor_id"`
}

// AssignDriverRequest is the body for POST /orders/:id/assign. With a
// driver_id the assignment is manual; without one the dispatcher picks,
// optionally skipping exclude_driver_id.
type AssignDriverRequest struct {
	DriverID        *string `json:"driver_id,omitempty"`
	ExcludeDriverID *string `json:"exclude_driver_id,omitempty"`
}

// UnassignDriverRequest is the body for POST /orders/:id/unassign: the
// assigned driver backing out before pickup.
type UnassignDriverRequest struct {
	DriverID string `json:"driver_id"`
}

// TrackOrderResponse is the buyer-facing tracking view of one order.
type TrackOrderResponse struct {
	OrderID    string  `json:"order_id"`
	Status     string  `json:"status"`
	DriverID   *string `json:"driver_id,omitempty"`
	DriverName *string `json:"driver_name,omitempty"`
	EtaMinutes *int    `json:"eta_minutes,omitempty"`
}

// OrderStepResponse is one entry of an order's transition timeline.
type OrderStepResponse struct {
	Status string    `json:"status"`
	Label  string    `json:"label"`
	Actor  string    `json:"actor"`
	At     time.Time `json:"at"`
}

// AssignableDriverResponse is one candidate from the dispatch pool.
type AssignableDriverResponse struct {
	DriverID    string  `json:"driver_id"`
	Name        string  `json:"name"`
	VehicleType string  `json:"vehicle_type"`
	Rating      float64 `json:"rating"`
	DistanceKm  float64 `json:"distance_km"`
	EtaMinutes  int     `json:"eta_minutes"`
}

// DisputeEscrowRequest is the body for POST /escrow/:id/dispute.
type DisputeEscrowRequest struct {
	Reason string `json:"reason"`
}

// EscrowSummaryResponse aggregates open escrow funds.
type EscrowSummaryResponse struct {
	HeldAmount     int64 `json:"held_amount"`
	HeldCount      int64 `json:"held_count"`
	DisputedAmount int64 `json:"disputed_amount"`
	DisputedCount  int64 `json:"disputed_count"`
}

// DriverLocationRequest is the body for POST /drivers/:id/location.
type DriverLocationRequest struct {
	Lat    float64 `json:"lat"`
	Lon    float64 `json:"lon"`
	Status string  `json:"status"`
}

func toCartResponse(c *cart.Cart) CartResponse {
	lines := c.Lines()
	response := CartResponse{
		BuyerID: c.BuyerID().String(),
		Lines:   make([]CartLineResponse, 0, len(lines)),
		Total:   c.Total().Amount(),
	}

	for _, line := range lines {
		response.Lines = append(response.Lines, CartLineResponse{
			ItemID:     line.ItemID().String(),
			MerchantID: line.MerchantID().String(),
			UnitPrice:  line.UnitPrice().Amount(),
			Quantity:   line.Quantity(),
			Unit:       line.Unit(),
			Subtotal:   line.Subtotal().Amount(),
		})
	}

	return response
}
