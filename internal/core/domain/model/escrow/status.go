package escrow

import (
	"fmt"

	"marketplace/internal/pkg/errs"
)

// Status represents the lifecycle state of an escrow transaction.
//
// Valid transitions:
//
//	Held → Released  (delivery confirmed or release window elapsed)
//	Held → Refunded  (order cancelled or dispute resolved for the buyer)
//	Held → Disputed  (buyer or merchant raises a dispute)
//	Disputed → Released | Refunded (operator resolution)
//
// Released and Refunded are terminal.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	Unknown Status = iota
	// Held means the buyer's funds are locked pending delivery confirmation.
	Held
	// Disputed means resolution is paused for an operator decision;
	// the automatic release timer no longer applies.
	Disputed
	// Released means the funds were paid out to the merchant. Terminal.
	Released
	// Refunded means the funds were returned to the buyer. Terminal.
	Refunded
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:  "unknown",
		Held:     "held",
		Disputed: "disputed",
		Released: "released",
		Refunded: "refunded",
	}
}

// Validate checks if the Status is one of the defined escrow states.
func (s Status) Validate() error {
	if s <= Unknown || s > Refunded {
		return errs.NewValueIsInvalidErrorWithCause("escrow status is invalid",
			fmt.Errorf("%d is not a valid escrow status", s))
	}
	return nil
}

// String returns the wire name of the status.
func (s Status) String() string {
	if name, ok := getStatusStrings()[s]; ok {
		return name
	}
	return "unknown"
}

// StatusFromString parses a wire name back into a Status.
func StatusFromString(s string) (Status, error) {
	for status, name := range getStatusStrings() {
		if status != Unknown && name == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("escrow status is invalid",
		fmt.Errorf("%q is not a valid escrow status", s))
}

// IsTerminal reports whether the status admits no further transitions.
func (s Status) IsTerminal() bool {
	return s == Released || s == Refunded
}
