package queries

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"marketplace/internal/core/domain/model/driver"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/services"
	"marketplace/internal/pkg/errs"

	"gorm.io/gorm"
)

// ListAssignableDriversQueryHandler loads the available drivers and scores
// them against the order's delivery point with the same dispatcher the
// automatic matcher uses, so the preview and the real assignment agree.
type ListAssignableDriversQueryHandler struct {
	db         *gorm.DB
	dispatcher services.DriverDispatcher
}

// NewListAssignableDriversQueryHandler creates a handler for candidate pool queries.
func NewListAssignableDriversQueryHandler(
	db *gorm.DB,
	dispatcher services.DriverDispatcher,
) ListAssignableDriversQueryHandler {
	return ListAssignableDriversQueryHandler{db: db, dispatcher: dispatcher}
}

// Handle executes the candidate pool query. An order with no available
// drivers yields an empty pool, not an error.
func (h ListAssignableDriversQueryHandler) Handle(
	ctx context.Context,
	query ListAssignableDriversQuery,
) ([]ListAssignableDriversQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	destination, err := h.loadDeliveryPoint(ctx, query.OrderID())
	if err != nil {
		return nil, err
	}

	pool, err := h.loadAvailableDrivers(ctx)
	if err != nil {
		return nil, err
	}

	candidates, err := h.dispatcher.Candidates(destination, pool, nil)
	if err != nil {
		if errors.Is(err, services.ErrNoDriversAvailable) {
			return []ListAssignableDriversQueryResponse{}, nil
		}
		return nil, err
	}

	responses := make([]ListAssignableDriversQueryResponse, 0, len(candidates))
	for _, candidate := range candidates {
		responses = append(responses, ListAssignableDriversQueryResponse{
			DriverID:    candidate.Driver.ID(),
			Name:        candidate.Driver.Name(),
			VehicleType: candidate.Driver.VehicleType(),
			Rating:      candidate.Driver.Rating(),
			DistanceKm:  candidate.DistanceKm,
			EtaMinutes:  candidate.EtaMinutes,
		})
	}

	return responses, nil
}

func (h ListAssignableDriversQueryHandler) loadDeliveryPoint(
	ctx context.Context,
	orderID kernel.UUID,
) (kernel.GeoPoint, error) {
	row := h.db.WithContext(ctx).Raw(`
		SELECT delivery_lat, delivery_lon
		FROM orders
		WHERE id = ?
	`, orderID.String()).Row()

	var lat, lon float64
	if err := row.Scan(&lat, &lon); err != nil {
		if err == sql.ErrNoRows {
			return kernel.GeoPoint{}, errs.NewObjectNotFoundError("order", orderID)
		}
		return kernel.GeoPoint{}, err
	}

	return kernel.NewGeoPoint(lat, lon)
}

func (h ListAssignableDriversQueryHandler) loadAvailableDrivers(
	ctx context.Context,
) ([]*driver.Driver, error) {
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			name,
			vehicle_type,
			rating,
			lat,
			lon,
			last_seen_at
		FROM drivers
		WHERE status = 'available'
	`).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	pool := make([]*driver.Driver, 0)
	for rows.Next() {
		var (
			idText      string
			name        string
			vehicleType string
			rating      float64
			lat         float64
			lon         float64
			lastSeenAt  time.Time
		)

		if err = rows.Scan(&idText, &name, &vehicleType, &rating, &lat, &lon, &lastSeenAt); err != nil {
			return nil, err
		}

		driverID, idErr := kernel.UUIDFromString(idText)
		if idErr != nil {
			return nil, idErr
		}

		location, locErr := kernel.NewGeoPoint(lat, lon)
		if locErr != nil {
			return nil, locErr
		}

		restored, restoreErr := driver.RestoreDriver(
			driverID, name, vehicleType, rating, location, driver.Available, lastSeenAt)
		if restoreErr != nil {
			return nil, restoreErr
		}

		pool = append(pool, restored)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return pool, nil
}
