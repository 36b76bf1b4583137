package http

import (
	"net/http"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/domain/model/driver"
	"marketplace/internal/core/domain/model/kernel"

	"github.com/labstack/echo/v4"
)

// RecordDriverLocation handles POST /api/v1/drivers/:id/location - the push
// path for driver heartbeats.
func (s *Server) RecordDriverLocation(ctx echo.Context) error {
	driverID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "invalid driver id")
	}

	var req DriverLocationRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	location, err := kernel.NewGeoPoint(req.Lat, req.Lon)
	if err != nil {
		return httpError(ctx, err)
	}

	status, err := driver.StatusFromString(req.Status)
	if err != nil {
		return httpError(ctx, err)
	}

	cmd, err := commands.NewRecordHeartbeatCommand(driverID, location, status)
	if err != nil {
		return httpError(ctx, err)
	}

	if err := s.heartbeatHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return httpError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}
