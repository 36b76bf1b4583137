package queries

import (
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/guard"
)

var ErrListAssignableDriversQueryIsNotConstructed = errors.New(
	"ListAssignableDriversQuery must be created via NewListAssignableDriversQuery constructor",
)

// ListAssignableDriversQuery retrieves the scored driver pool for an order:
// the candidates the matcher would consider, best first. Operators use it to
// preview or hand-pick an assignment.
type ListAssignableDriversQuery struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewListAssignableDriversQuery creates a query for an order's candidate pool.
func NewListAssignableDriversQuery(orderID kernel.UUID) (ListAssignableDriversQuery, error) {
	query := ListAssignableDriversQuery{
		guard: guard.NewConstructorGuard(),
	}

	if err := query.setOrderID(orderID); err != nil {
		return ListAssignableDriversQuery{}, err
	}

	return query, nil
}

// Validate ensures the query was created through the constructor.
func (q ListAssignableDriversQuery) Validate() error {
	return q.guard.Validate(ErrListAssignableDriversQueryIsNotConstructed)
}

// OrderID returns the order the pool is scored against.
func (q ListAssignableDriversQuery) OrderID() kernel.UUID {
	return q.orderID
}

func (q *ListAssignableDriversQuery) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	q.orderID = orderID
	return nil
}

// ListAssignableDriversQueryResponse is one scored candidate in the read model.
type ListAssignableDriversQueryResponse struct {
	DriverID    kernel.UUID
	Name        string
	VehicleType string
	Rating      float64
	DistanceKm  float64
	EtaMinutes  int
}
