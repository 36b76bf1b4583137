package order

import "time"

// StatusChange is one entry of an order's append-only transition history.
// The history backs both the buyer-facing tracking timeline and the audit trail.
type StatusChange struct {
	Status Status
	Actor  Role
	At     time.Time
}
