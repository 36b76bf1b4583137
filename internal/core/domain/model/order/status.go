package order

import (
	"fmt"

	"marketplace/internal/pkg/errs"
)

// Status represents the lifecycle state of an order.
// It implements a state machine with defined transitions to ensure
// orders follow the correct delivery workflow.
//
// State transitions:
//
//	Pending ──> Confirmed ──> Preparing ──> OutForDelivery ──> Delivered
//	   │            │             │
//	   └────────────┴─────────────┴──> Cancelled
//
// Cancellation is only possible before pickup: once an order is out for
// delivery it can no longer be cancelled. Delivered and Cancelled are
// terminal states.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Pending is the initial status when an order is first created at checkout.
	Pending

	// Confirmed indicates the merchant has accepted the order.
	Confirmed

	// Preparing indicates the merchant is preparing the order.
	// Orders in this status are eligible for driver dispatch.
	Preparing

	// OutForDelivery indicates the assigned driver has picked up the order.
	OutForDelivery

	// Delivered indicates the order reached the buyer. Terminal.
	Delivered

	// Cancelled indicates the order was cancelled before pickup. Terminal.
	Cancelled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:        "unknown",
		Pending:        "pending",
		Confirmed:      "confirmed",
		Preparing:      "preparing",
		OutForDelivery: "out_for_delivery",
		Delivered:      "delivered",
		Cancelled:      "cancelled",
	}
}

func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // Unknown is intentionally excluded as it's invalid
	return map[Status]string{
		Pending:        "pending",
		Confirmed:      "confirmed",
		Preparing:      "preparing",
		OutForDelivery: "out_for_delivery",
		Delivered:      "delivered",
		Cancelled:      "cancelled",
	}
}

// statusLabels maps each status to the display label shown on order timelines.
func statusLabels() map[Status]string {
	//nolint:exhaustive // Unknown has no display label
	return map[Status]string{
		Pending:        "Order placed",
		Confirmed:      "Confirmed by merchant",
		Preparing:      "Being prepared",
		OutForDelivery: "Out for delivery",
		Delivered:      "Delivered",
		Cancelled:      "Cancelled",
	}
}

// successors defines the only legal direct moves in the lifecycle graph.
// Cancelled is reached via Cancel, which has its own source-state rule.
func successors() map[Status]Status {
	//nolint:exhaustive // terminal statuses have no successor
	return map[Status]Status{
		Pending:        Confirmed,
		Confirmed:      Preparing,
		Preparing:      OutForDelivery,
		OutForDelivery: Delivered,
	}
}

// Validate checks if the Status value is one of the defined lifecycle states.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid",
			fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the wire name of the status ("pending", "out_for_delivery", ...).
// Implements fmt.Stringer and is safe to call on any value.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// Label returns the human-readable name of the status for display surfaces
// such as the order timeline.
func (s Status) Label() string {
	if label, ok := statusLabels()[s]; ok {
		return label
	}
	return "Unknown"
}

// StatusFromString parses a wire name back into a Status.
func StatusFromString(s string) (Status, error) {
	for status, name := range getValidStatusStrings() {
		if name == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status is invalid",
		fmt.Errorf("%q is not a valid status", s))
}

// IsTerminal reports whether the status admits no further transitions.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == Cancelled
}

// IsCancellable reports whether an order in this status may still be
// cancelled. Cancellation is cut off at pickup.
func (s Status) IsCancellable() bool {
	return s == Pending || s == Confirmed || s == Preparing
}

// Advance transitions the status to target if target is the direct successor
// in the lifecycle graph. Any other move fails with an InvalidTransitionError.
func (s Status) Advance(target Status) (Status, error) {
	if err := target.Validate(); err != nil {
		return 0, err
	}

	next, ok := successors()[s]
	if !ok || next != target {
		return 0, NewInvalidTransitionError(s, target,
			fmt.Errorf("%s is not a direct successor of %s", target, s))
	}

	return target, nil
}

// Cancel transitions the status to Cancelled when still cancellable.
func (s Status) Cancel() (Status, error) {
	if !s.IsCancellable() {
		return 0, NewInvalidTransitionError(s, Cancelled,
			fmt.Errorf("%s cannot be cancelled", s))
	}

	return Cancelled, nil
}
