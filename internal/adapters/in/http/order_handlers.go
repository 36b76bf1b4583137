package http

import (
	"net/http"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/application/usecases/queries"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"

	"github.com/labstack/echo/v4"
)

// Checkout handles POST /api/v1/checkout - turns the buyer's cart into orders.
func (s *Server) Checkout(ctx echo.Context) error {
	var req CheckoutRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	buyerID, err := kernel.UUIDFromString(req.BuyerID)
	if err != nil {
		return badRequest(ctx, "invalid buyer id")
	}

	deliveryPoint, err := kernel.NewGeoPoint(req.DeliveryLat, req.DeliveryLon)
	if err != nil {
		return httpError(ctx, err)
	}

	cmd, err := commands.NewCheckoutCommand(buyerID, req.DeliveryAddress, deliveryPoint, req.PaymentMethod)
	if err != nil {
		return httpError(ctx, err)
	}

	orderIDs, err := s.checkoutHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return httpError(ctx, err)
	}

	response := CheckoutResponse{OrderIDs: make([]string, 0, len(orderIDs))}
	for _, id := range orderIDs {
		response.OrderIDs = append(response.OrderIDs, id.String())
	}

	return ctx.JSON(http.StatusCreated, response)
}

// AdvanceOrder handles PUT /api/v1/orders/:id/status.
func (s *Server) AdvanceOrder(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "invalid order id")
	}

	var req AdvanceOrderRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	target, err := order.StatusFromString(req.Status)
	if err != nil {
		return httpError(ctx, err)
	}

	actor, err := parseActor(req.ActorRole, req.ActorID)
	if err != nil {
		return httpError(ctx, err)
	}

	cmd, err := commands.NewAdvanceOrderCommand(orderID, target, actor)
	if err != nil {
		return httpError(ctx, err)
	}

	if err := s.advanceOrderHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return httpError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// CancelOrder handles POST /api/v1/orders/:id/cancel.
func (s *Server) CancelOrder(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "invalid order id")
	}

	var req CancelOrderRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	actor, err := parseActor(req.ActorRole, req.ActorID)
	if err != nil {
		return httpError(ctx, err)
	}

	cmd, err := commands.NewCancelOrderCommand(orderID, actor)
	if err != nil {
		return httpError(ctx, err)
	}

	if err := s.cancelOrderHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return httpError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// AssignDriver handles POST /api/v1/orders/:id/assign. A request naming a
// driver is a manual assignment; otherwise the dispatcher picks the best
// candidate, optionally skipping a previously rejected driver.
func (s *Server) AssignDriver(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "invalid order id")
	}

	var req AssignDriverRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	if req.DriverID != nil {
		driverID, idErr := kernel.UUIDFromString(*req.DriverID)
		if idErr != nil {
			return badRequest(ctx, "invalid driver id")
		}

		cmd, cmdErr := commands.NewManualAssignDriverCommand(orderID, driverID)
		if cmdErr != nil {
			return httpError(ctx, cmdErr)
		}

		if handleErr := s.manualAssignHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
			return httpError(ctx, handleErr)
		}

		return ctx.NoContent(http.StatusNoContent)
	}

	var exclude *kernel.UUID
	if req.ExcludeDriverID != nil {
		excludeID, idErr := kernel.UUIDFromString(*req.ExcludeDriverID)
		if idErr != nil {
			return badRequest(ctx, "invalid exclude driver id")
		}
		exclude = &excludeID
	}

	cmd, err := commands.NewAutoAssignDriverCommand(orderID, exclude)
	if err != nil {
		return httpError(ctx, err)
	}

	if err := s.autoAssignHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return httpError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// UnassignDriver handles POST /api/v1/orders/:id/unassign - the assigned
// driver cancels before pickup and the order re-enters the dispatch pool.
func (s *Server) UnassignDriver(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "invalid order id")
	}

	var req UnassignDriverRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	driverID, err := kernel.UUIDFromString(req.DriverID)
	if err != nil {
		return badRequest(ctx, "invalid driver id")
	}

	cmd, err := commands.NewUnassignDriverCommand(orderID, driverID)
	if err != nil {
		return httpError(ctx, err)
	}

	if err := s.unassignHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return httpError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// TrackOrder handles GET /api/v1/orders/:id/track.
func (s *Server) TrackOrder(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "invalid order id")
	}

	query, err := queries.NewTrackOrderQuery(orderID)
	if err != nil {
		return httpError(ctx, err)
	}

	view, err := s.trackOrderHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return httpError(ctx, err)
	}

	response := TrackOrderResponse{
		OrderID:    view.OrderID.String(),
		Status:     view.Status,
		DriverName: view.DriverName,
		EtaMinutes: view.EtaMinutes,
	}
	if view.DriverID != nil {
		id := view.DriverID.String()
		response.DriverID = &id
	}

	return ctx.JSON(http.StatusOK, response)
}

// GetOrderSteps handles GET /api/v1/orders/:id/steps.
func (s *Server) GetOrderSteps(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "invalid order id")
	}

	query, err := queries.NewGetOrderStepsQuery(orderID)
	if err != nil {
		return httpError(ctx, err)
	}

	steps, err := s.orderStepsHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return httpError(ctx, err)
	}

	response := make([]OrderStepResponse, 0, len(steps))
	for _, step := range steps {
		response = append(response, OrderStepResponse{
			Status: step.Status,
			Label:  step.Label,
			Actor:  step.Actor,
			At:     step.At,
		})
	}

	return ctx.JSON(http.StatusOK, response)
}

// ListAssignableDrivers handles GET /api/v1/orders/:id/drivers.
func (s *Server) ListAssignableDrivers(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "invalid order id")
	}

	query, err := queries.NewListAssignableDriversQuery(orderID)
	if err != nil {
		return httpError(ctx, err)
	}

	candidates, err := s.assignableDriversHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return httpError(ctx, err)
	}

	response := make([]AssignableDriverResponse, 0, len(candidates))
	for _, candidate := range candidates {
		response = append(response, AssignableDriverResponse{
			DriverID:    candidate.DriverID.String(),
			Name:        candidate.Name,
			VehicleType: candidate.VehicleType,
			Rating:      candidate.Rating,
			DistanceKm:  candidate.DistanceKm,
			EtaMinutes:  candidate.EtaMinutes,
		})
	}

	return ctx.JSON(http.StatusOK, response)
}

func parseActor(role, id string) (order.Actor, error) {
	parsedRole, err := order.RoleFromString(role)
	if err != nil {
		return order.Actor{}, err
	}

	actorID, err := kernel.UUIDFromString(id)
	if err != nil {
		return order.Actor{}, err
	}

	return order.NewActor(parsedRole, actorID)
}
