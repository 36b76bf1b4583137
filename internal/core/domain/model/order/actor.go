package order

import (
	"errors"
	"fmt"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

// Role identifies who is acting on an order. Transition permissions are
// keyed by role: merchants move orders through acceptance and preparation,
// drivers through pickup and delivery, buyers and merchants may cancel.
type Role int

const (
	// RoleUnknown represents an invalid or undefined role.
	RoleUnknown Role = iota
	// RoleBuyer is the buyer who placed the order.
	RoleBuyer
	// RoleMerchant is the merchant fulfilling the order.
	RoleMerchant
	// RoleDriver is a delivery driver.
	RoleDriver
	// RoleAdmin is a platform operator.
	RoleAdmin
	// RoleSystem marks automated transitions such as order creation.
	RoleSystem
)

// ErrActorIsNotConstructed is returned when using an improperly initialized Actor.
var ErrActorIsNotConstructed = errors.New("Actor must be created via NewActor constructor")

func getRoleStrings() map[Role]string {
	return map[Role]string{
		RoleUnknown:  "unknown",
		RoleBuyer:    "buyer",
		RoleMerchant: "merchant",
		RoleDriver:   "driver",
		RoleAdmin:    "admin",
		RoleSystem:   "system",
	}
}

// Validate checks if the Role is one of the defined actor roles.
func (r Role) Validate() error {
	if r <= RoleUnknown || r > RoleSystem {
		return errs.NewValueIsInvalidErrorWithCause("role is invalid",
			fmt.Errorf("%d is not a valid role", r))
	}
	return nil
}

// String returns the wire name of the role.
func (r Role) String() string {
	if s, ok := getRoleStrings()[r]; ok {
		return s
	}
	return "unknown"
}

// RoleFromString parses a wire name back into a Role.
func RoleFromString(s string) (Role, error) {
	for role, name := range getRoleStrings() {
		if role != RoleUnknown && name == s {
			return role, nil
		}
	}
	return RoleUnknown, errs.NewValueIsInvalidErrorWithCause("role is invalid",
		fmt.Errorf("%q is not a valid role", s))
}

// Actor is the validated identity performing a lifecycle operation:
// a role plus the id of the buyer, merchant, or driver acting.
type Actor struct { //nolint:recvcheck //using for validation
	role Role
	id   kernel.UUID

	guard guard.ConstructorGuard
}

// NewActor creates an Actor with the given role and identity.
func NewActor(role Role, id kernel.UUID) (Actor, error) {
	actor := Actor{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(actor.setRole(role), actor.setID(id)); err != nil {
		return Actor{}, err
	}

	return actor, nil
}

// Validate ensures the actor was created through NewActor.
func (a Actor) Validate() error {
	return a.guard.Validate(ErrActorIsNotConstructed)
}

// Role returns the actor's role.
func (a Actor) Role() Role {
	return a.role
}

// ID returns the acting principal's identifier.
func (a Actor) ID() kernel.UUID {
	return a.id
}

func (a *Actor) setRole(role Role) error {
	if err := role.Validate(); err != nil {
		return err
	}
	a.role = role
	return nil
}

func (a *Actor) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	a.id = id
	return nil
}
