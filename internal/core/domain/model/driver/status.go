package driver

import (
	"fmt"

	"marketplace/internal/pkg/errs"
)

// Status represents a driver's availability for dispatch.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	Unknown Status = iota
	// Available means the driver is online and can take an assignment.
	Available
	// Busy means the driver is carrying an active order.
	Busy
	// Offline means the driver is not working and invisible to dispatch.
	Offline
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:   "unknown",
		Available: "available",
		Busy:      "busy",
		Offline:   "offline",
	}
}

// Validate checks if the Status is one of the defined driver states.
func (s Status) Validate() error {
	if s <= Unknown || s > Offline {
		return errs.NewValueIsInvalidErrorWithCause("driver status is invalid",
			fmt.Errorf("%d is not a valid driver status", s))
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
	return Unknown, errs.NewValueIsInvalidErrorWithCause("driver status is invalid",
		fmt.Errorf("%q is not a valid driver status", s))
}
