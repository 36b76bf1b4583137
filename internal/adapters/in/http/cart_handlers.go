package http

import (
	"errors"
	"net/http"

	"marketplace/internal/core/domain/model/cart"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// GetCart handles GET /api/v1/carts/:buyerId.
func (s *Server) GetCart(ctx echo.Context) error {
	buyerID, err := kernel.UUIDFromString(ctx.Param("buyerId"))
	if err != nil {
		return badRequest(ctx, "invalid buyer id")
	}

	snapshot, err := s.cartStore.Snapshot(ctx.Request().Context(), buyerID)
	if err != nil {
		return httpError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, toCartResponse(snapshot))
}

// AddCartItem handles POST /api/v1/carts/:buyerId/items.
func (s *Server) AddCartItem(ctx echo.Context) error {
	buyerID, err := kernel.UUIDFromString(ctx.Param("buyerId"))
	if err != nil {
		return badRequest(ctx, "invalid buyer id")
	}

	var req AddCartItemRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	itemID, err := kernel.UUIDFromString(req.ItemID)
	if err != nil {
		return badRequest(ctx, "invalid item id")
	}

	merchantID, err := kernel.UUIDFromString(req.MerchantID)
	if err != nil {
		return badRequest(ctx, "invalid merchant id")
	}

	unitPrice, err := kernel.NewMoney(req.UnitPrice)
	if err != nil {
		return httpError(ctx, err)
	}

	line, err := cart.NewLine(itemID, merchantID, unitPrice, req.Quantity, req.Unit)
	if err != nil {
		return httpError(ctx, err)
	}

	err = s.cartStore.Add(ctx.Request().Context(), buyerID, line)
	return s.cartWriteResponse(ctx, buyerID, err)
}

// UpdateCartItem handles PUT /api/v1/carts/:buyerId/items/:itemId.
func (s *Server) UpdateCartItem(ctx echo.Context) error {
	buyerID, err := kernel.UUIDFromString(ctx.Param("buyerId"))
	if err != nil {
		return badRequest(ctx, "invalid buyer id")
	}

	itemID, err := kernel.UUIDFromString(ctx.Param("itemId"))
	if err != nil {
		return badRequest(ctx, "invalid item id")
	}

	var req UpdateCartItemRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	err = s.cartStore.UpdateQuantity(ctx.Request().Context(), buyerID, itemID, req.Quantity)
	return s.cartWriteResponse(ctx, buyerID, err)
}

// RemoveCartItem handles DELETE /api/v1/carts/:buyerId/items/:itemId.
func (s *Server) RemoveCartItem(ctx echo.Context) error {
	buyerID, err := kernel.UUIDFromString(ctx.Param("buyerId"))
	if err != nil {
		return badRequest(ctx, "invalid buyer id")
	}

	itemID, err := kernel.UUIDFromString(ctx.Param("itemId"))
	if err != nil {
		return badRequest(ctx, "invalid item id")
	}

	err = s.cartStore.Remove(ctx.Request().Context(), buyerID, itemID)
	return s.cartWriteResponse(ctx, buyerID, err)
}

// ClearCart handles DELETE /api/v1/carts/:buyerId.
func (s *Server) ClearCart(ctx echo.Context) error {
	buyerID, err := kernel.UUIDFromString(ctx.Param("buyerId"))
	if err != nil {
		return badRequest(ctx, "invalid buyer id")
	}

	err = s.cartStore.Clear(ctx.Request().Context(), buyerID)
	return s.cartWriteResponse(ctx, buyerID, err)
}

// cartWriteResponse renders the result of a cart mutation. A storage failure
// is not fatal for the caller: the change is applied to the working copy and
// queued for sync, so it comes back as 202 with the current snapshot.
func (s *Server) cartWriteResponse(ctx echo.Context, buyerID kernel.UUID, writeErr error) error {
	if writeErr != nil && !errors.Is(writeErr, errs.ErrStorage) {
		return httpError(ctx, writeErr)
	}

	snapshot, err := s.cartStore.Snapshot(ctx.Request().Context(), buyerID)
	if err != nil {
		return httpError(ctx, err)
	}

	status := http.StatusOK
	if writeErr != nil {
		status = http.StatusAccepted
	}
	return ctx.JSON(status, toCartResponse(snapshot))
}
