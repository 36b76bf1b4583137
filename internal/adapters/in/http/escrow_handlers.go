package http

import (
	"net/http"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/application/usecases/queries"
	"marketplace/internal/core/domain/model/kernel"

	"github.com/labstack/echo/v4"
)

// DisputeEscrow handles POST /api/v1/escrow/:id/dispute.
func (s *Server) DisputeEscrow(ctx echo.Context) error {
	transactionID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "invalid transaction id")
	}

	var req DisputeEscrowRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	cmd, err := commands.NewDisputeEscrowCommand(transactionID, req.Reason)
	if err != nil {
		return httpError(ctx, err)
	}

	if err := s.disputeHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return httpError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// ReleaseEscrow handles POST /api/v1/escrow/:id/release.
func (s *Server) ReleaseEscrow(ctx echo.Context) error {
	transactionID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "invalid transaction id")
	}

	cmd, err := commands.NewReleaseEscrowCommand(transactionID)
	if err != nil {
		return httpError(ctx, err)
	}

	if err := s.releaseHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return httpError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// RefundEscrow handles POST /api/v1/escrow/:id/refund.
func (s *Server) RefundEscrow(ctx echo.Context) error {
	transactionID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "invalid transaction id")
	}

	cmd, err := commands.NewRefundEscrowCommand(transactionID)
	if err != nil {
		return httpError(ctx, err)
	}

	if err := s.refundHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return httpError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// GetEscrowSummary handles GET /api/v1/escrow/summary.
func (s *Server) GetEscrowSummary(ctx echo.Context) error {
	query := queries.NewGetEscrowSummaryQuery()

	summary, err := s.escrowSummaryHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return httpError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, EscrowSummaryResponse{
		HeldAmount:     summary.HeldAmount,
		HeldCount:      summary.HeldCount,
		DisputedAmount: summary.DisputedAmount,
		DisputedCount:  summary.DisputedCount,
	})
}
