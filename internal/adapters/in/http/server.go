// Package http exposes the brokering engine over a JSON REST API.
// It translates requests into commands and queries, and domain errors into
// HTTP status codes.
package http

import (
	"errors"
	"net/http"

	"marketplace/internal/core/application/cartstore"
	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/application/usecases/queries"
	"marketplace/internal/core/domain/model/driver"
	"marketplace/internal/core/domain/model/escrow"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/services"
	"marketplace/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	cartStore *cartstore.CartStore

	// Command handlers
	checkoutHandler     commands.CheckoutCommandHandler
	advanceOrderHandler commands.AdvanceOrderCommandHandler
	cancelOrderHandler  commands.CancelOrderCommandHandler
	autoAssignHandler   commands.AutoAssignDriverCommandHandler
	manualAssignHandler commands.ManualAssignDriverCommandHandler
	unassignHandler     commands.UnassignDriverCommandHandler
	heartbeatHandler    commands.RecordHeartbeatCommandHandler
	disputeHandler      commands.DisputeEscrowCommandHandler
	releaseHandler      commands.ReleaseEscrowCommandHandler
	refundHandler       commands.RefundEscrowCommandHandler

	// Query handlers
	trackOrderHandler        queries.TrackOrderQueryHandler
	orderStepsHandler        queries.GetOrderStepsQueryHandler
	escrowSummaryHandler     queries.GetEscrowSummaryQueryHandler
	assignableDriversHandler queries.ListAssignableDriversQueryHandler
}

// Handlers bundles everything the server routes to.
type Handlers struct {
	CartStore *cartstore.CartStore

	Checkout     commands.CheckoutCommandHandler
	AdvanceOrder commands.AdvanceOrderCommandHandler
	CancelOrder  commands.CancelOrderCommandHandler
	AutoAssign   commands.AutoAssignDriverCommandHandler
	ManualAssign commands.ManualAssignDriverCommandHandler
	Unassign     commands.UnassignDriverCommandHandler
	Heartbeat    commands.RecordHeartbeatCommandHandler
	Dispute      commands.DisputeEscrowCommandHandler
	Release      commands.ReleaseEscrowCommandHandler
	Refund       commands.RefundEscrowCommandHandler

	TrackOrder        queries.TrackOrderQueryHandler
	OrderSteps        queries.GetOrderStepsQueryHandler
	EscrowSummary     queries.GetEscrowSummaryQueryHandler
	AssignableDrivers queries.ListAssignableDriversQueryHandler
}

// NewServer creates an HTTP server with the required command and query handlers.
func NewServer(h Handlers) *Server {
	return &Server{
		cartStore:                h.CartStore,
		checkoutHandler:          h.Checkout,
		advanceOrderHandler:      h.AdvanceOrder,
		cancelOrderHandler:       h.CancelOrder,
		autoAssignHandler:        h.AutoAssign,
		manualAssignHandler:      h.ManualAssign,
		unassignHandler:          h.Unassign,
		heartbeatHandler:         h.Heartbeat,
		disputeHandler:           h.Dispute,
		releaseHandler:           h.Release,
		refundHandler:            h.Refund,
		trackOrderHandler:        h.TrackOrder,
		orderStepsHandler:        h.OrderSteps,
		escrowSummaryHandler:     h.EscrowSummary,
		assignableDriversHandler: h.AssignableDrivers,
	}
}

// RegisterRoutes attaches all API routes to the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", s.Health)

	api := e.Group("/api/v1")

	api.GET("/carts/:buyerId", s.GetCart)
	api.POST("/carts/:buyerId/items", s.AddCartItem)
	api.PUT("/carts/:buyerId/items/:itemId", s.UpdateCartItem)
	api.DELETE("/carts/:buyerId/items/:itemId", s.RemoveCartItem)
	api.DELETE("/carts/:buyerId", s.ClearCart)

	api.POST("/checkout", s.Checkout)

	api.PUT("/orders/:id/status", s.AdvanceOrder)
	api.POST("/orders/:id/cancel", s.CancelOrder)
	api.GET("/orders/:id/track", s.TrackOrder)
	api.GET("/orders/:id/steps", s.GetOrderSteps)
	api.POST("/orders/:id/assign", s.AssignDriver)
	api.POST("/orders/:id/unassign", s.UnassignDriver)
	api.GET("/orders/:id/drivers", s.ListAssignableDrivers)

	api.POST("/escrow/:id/dispute", s.DisputeEscrow)
	api.POST("/escrow/:id/release", s.ReleaseEscrow)
	api.POST("/escrow/:id/refund", s.RefundEscrow)
	api.GET("/escrow/summary", s.GetEscrowSummary)

	api.POST("/drivers/:id/location", s.RecordDriverLocation)
}

// Health handles GET /health.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// httpError maps domain and application errors onto HTTP status codes.
func httpError(ctx echo.Context, err error) error {
	code := http.StatusInternalServerError

	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		code = http.StatusNotFound
	case errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		code = http.StatusBadRequest
	case errors.Is(err, order.ErrInvalidTransition),
		errors.Is(err, escrow.ErrInvalidTransition),
		errors.Is(err, driver.ErrDriverUnavailable),
		errors.Is(err, services.ErrNoDriversAvailable),
		errors.Is(err, commands.ErrCartIsEmpty):
		code = http.StatusConflict
	case errors.Is(err, errs.ErrStorage):
		code = http.StatusServiceUnavailable
	}

	return ctx.JSON(code, ErrorResponse{Code: code, Message: err.Error()})
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, ErrorResponse{
		Code:    http.StatusBadRequest,
		Message: message,
	})
}
