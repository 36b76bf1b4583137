package order

import (
	"errors"
	"fmt"
)

// ErrInvalidTransition is the classification anchor for every rejected
// lifecycle move: wrong successor, wrong actor, or a terminal source state.
var ErrInvalidTransition = errors.New("invalid transition")

// InvalidTransitionError reports a rejected lifecycle move with the states involved.
type InvalidTransitionError struct {
	From  Status
	To    Status
	Cause error
}

// NewInvalidTransitionError creates an InvalidTransitionError for the given move.
func NewInvalidTransitionError(from, to Status, cause error) *InvalidTransitionError {
	return &InvalidTransitionError{From: from, To: to, Cause: cause}
}

func (e *InvalidTransitionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s -> %s (cause: %s)", ErrInvalidTransition, e.From, e.To, e.Cause)
	}
	return fmt.Sprintf("%s: %s -> %s", ErrInvalidTransition, e.From, e.To)
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}
