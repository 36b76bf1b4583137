// Package queries contains read operations for retrieving system state.
// Implements the Query pattern for read operations in the CQRS architecture.
// Queries return optimized read models for specific use cases.
package queries

import (
	"errors"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/guard"
)

var ErrGetOrderStepsQueryIsNotConstructed = errors.New(
	"GetOrderStepsQuery must be created via NewGetOrderStepsQuery constructor",
)

// GetOrderStepsQuery retrieves the transition timeline of one order: every
// status it has passed through, who moved it, and when.
type GetOrderStepsQuery struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetOrderStepsQuery creates a query for an order's timeline.
func NewGetOrderStepsQuery(orderID kernel.UUID) (GetOrderStepsQuery, error) {
	query := GetOrderStepsQuery{
		guard: guard.NewConstructorGuard(),
	}

	if err := query.setOrderID(orderID); err != nil {
		return GetOrderStepsQuery{}, err
	}

	return query, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOrderStepsQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderStepsQueryIsNotConstructed)
}

// OrderID returns the order whose timeline is requested.
func (q GetOrderStepsQuery) OrderID() kernel.UUID {
	return q.orderID
}

func (q *GetOrderStepsQuery) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	q.orderID = orderID
	return nil
}

// GetOrderStepsQueryResponse is one step of the order timeline read model.
// Label is the display name derived from the status wire name.
type GetOrderStepsQueryResponse struct {
	Status string
	Label  string
	Actor  string
	At     time.Time
}
