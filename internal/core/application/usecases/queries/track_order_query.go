package queries

import (
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/guard"
)

var ErrTrackOrderQueryIsNotConstructed = errors.New(
	"TrackOrderQuery must be created via NewTrackOrderQuery constructor",
)

// TrackOrderQuery retrieves the buyer-facing tracking view of one order:
// current status, assigned driver, and an arrival estimate when the driver's
// position is known.
type TrackOrderQuery struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewTrackOrderQuery creates a query for an order's tracking view.
func NewTrackOrderQuery(orderID kernel.UUID) (TrackOrderQuery, error) {
	query := TrackOrderQuery{
		guard: guard.NewConstructorGuard(),
	}

	if err := query.setOrderID(orderID); err != nil {
		return TrackOrderQuery{}, err
	}

	return query, nil
}

// Validate ensures the query was created through the constructor.
func (q TrackOrderQuery) Validate() error {
	return q.guard.Validate(ErrTrackOrderQueryIsNotConstructed)
}

// OrderID returns the order being tracked.
func (q TrackOrderQuery) OrderID() kernel.UUID {
	return q.orderID
}

func (q *TrackOrderQuery) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	q.orderID = orderID
	return nil
}

// TrackOrderQueryResponse is the tracking read model. DriverName and
// EtaMinutes are nil while no driver is assigned; EtaMinutes is also nil when
// the assigned driver has not reported a position yet.
type TrackOrderQueryResponse struct {
	OrderID    kernel.UUID
	Status     string
	DriverID   *kernel.UUID
	DriverName *string
	EtaMinutes *int
}
