package queries

import (
	"context"
	"database/sql"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"

	"gorm.io/gorm"
)

// EtaEstimator supplies arrival estimates from live driver positions.
// Satisfied by the tracking.LocationTracker.
type EtaEstimator interface {
	// EtaMinutes returns the estimated minutes for the driver to reach the
	// destination, or nil when the driver has no known position.
	EtaMinutes(driverID kernel.UUID, destination kernel.GeoPoint) *int
}

// TrackOrderQueryHandler reads the tracking view of one order and enriches
// it with a live arrival estimate from the location tracker.
type TrackOrderQueryHandler struct {
	db        *gorm.DB
	estimator EtaEstimator
}

// NewTrackOrderQueryHandler creates a handler for order tracking queries.
func NewTrackOrderQueryHandler(db *gorm.DB, estimator EtaEstimator) TrackOrderQueryHandler {
	return TrackOrderQueryHandler{db: db, estimator: estimator}
}

// Handle executes the tracking query.
func (h TrackOrderQueryHandler) Handle(
	ctx context.Context,
	query TrackOrderQuery,
) (TrackOrderQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return TrackOrderQueryResponse{}, err
	}

	row := h.db.WithContext(ctx).Raw(`
		SELECT
			o.status,
			o.delivery_lat,
			o.delivery_lon,
			o.driver_id,
			d.name
		FROM orders o
		LEFT JOIN drivers d ON d.id = o.driver_id
		WHERE o.id = ?
	`, query.OrderID().String()).Row()

	var (
		status       string
		deliveryLat  float64
		deliveryLon  float64
		driverIDText sql.NullString
		driverName   sql.NullString
	)

	if err := row.Scan(&status, &deliveryLat, &deliveryLon, &driverIDText, &driverName); err != nil {
		if err == sql.ErrNoRows {
			return TrackOrderQueryResponse{},
				errs.NewObjectNotFoundError("order", query.OrderID())
		}
		return TrackOrderQueryResponse{}, err
	}

	response := TrackOrderQueryResponse{
		OrderID: query.OrderID(),
		Status:  status,
	}

	if !driverIDText.Valid {
		return response, nil
	}

	driverID, err := kernel.UUIDFromString(driverIDText.String)
	if err != nil {
		return TrackOrderQueryResponse{}, err
	}
	response.DriverID = &driverID

	if driverName.Valid {
		name := driverName.String
		response.DriverName = &name
	}

	destination, err := kernel.NewGeoPoint(deliveryLat, deliveryLon)
	if err != nil {
		return TrackOrderQueryResponse{}, err
	}
	response.EtaMinutes = h.estimator.EtaMinutes(driverID, destination)

	return response, nil
}
