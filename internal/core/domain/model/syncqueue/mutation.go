package syncqueue

import (
	"errors"
	"fmt"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

// EntityKind names the kind of local entity a mutation belongs to.
type EntityKind int

const (
	// KindUnknown represents an invalid or undefined entity kind.
	KindUnknown EntityKind = iota
	// KindCart marks mutations against a buyer's cart.
	KindCart
	// KindOrder marks mutations against an order.
	KindOrder
)

func getKindStrings() map[EntityKind]string {
	return map[EntityKind]string{
		KindUnknown: "unknown",
		KindCart:    "cart",
		KindOrder:   "order",
	}
}

// Validate checks if the EntityKind is one of the defined kinds.
func (k EntityKind) Validate() error {
	if k <= KindUnknown || k > KindOrder {
		return errs.NewValueIsInvalidErrorWithCause("entity kind is invalid",
			fmt.Errorf("%d is not a valid entity kind", k))
	}
	return nil
}

// String returns the wire name of the kind.
func (k EntityKind) String() string {
	if name, ok := getKindStrings()[k]; ok {
		return name
	}
	return "unknown"
}

// KindFromString parses a wire name back into an EntityKind.
func KindFromString(s string) (EntityKind, error) {
	for kind, name := range getKindStrings() {
		if kind != KindUnknown && name == s {
			return kind, nil
		}
	}
	return KindUnknown, errs.NewValueIsInvalidErrorWithCause("entity kind is invalid",
		fmt.Errorf("%q is not a valid entity kind", s))
}

// Domain errors for sync mutations.
var (
	// ErrOperationIsRequired is returned when enqueuing a mutation without an operation name.
	ErrOperationIsRequired = errs.NewValueIsRequiredError("operation")
	// ErrMutationIsNotConstructed is returned when using an improperly initialized Mutation.
	ErrMutationIsNotConstructed = errors.New("Mutation must be created via NewMutation or RestoreMutation constructor")
)

// Mutation is one durable entry of the pending-sync queue: a local write that
// still has to be replayed against the platform backend. The payload is the
// JSON body the backend endpoint expects, captured at write time.
type Mutation struct {
	id         kernel.UUID
	entityKind EntityKind
	entityID   kernel.UUID
	operation  string
	payload    []byte
	attempts   int
	enqueuedAt time.Time

	guard guard.ConstructorGuard
}

// NewMutation creates a pending mutation with zero replay attempts.
func NewMutation(
	id kernel.UUID,
	entityKind EntityKind,
	entityID kernel.UUID,
	operation string,
	payload []byte,
	enqueuedAt time.Time,
) (*Mutation, error) {
	m := &Mutation{
		enqueuedAt: enqueuedAt,
		guard:      guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		m.setID(id),
		m.setEntityKind(entityKind),
		m.setEntityID(entityID),
		m.setOperation(operation),
	); err != nil {
		return nil, err
	}

	m.payload = append([]byte(nil), payload...)
	return m, nil
}

// RestoreMutation reconstructs a Mutation from persistent storage.
func RestoreMutation(
	id kernel.UUID,
	entityKind EntityKind,
	entityID kernel.UUID,
	operation string,
	payload []byte,
	attempts int,
	enqueuedAt time.Time,
) (*Mutation, error) {
	m, err := NewMutation(id, entityKind, entityID, operation, payload, enqueuedAt)
	if err != nil {
		return nil, err
	}

	m.attempts = attempts
	return m, nil
}

// Validate ensures the Mutation instance was properly constructed.
func (m *Mutation) Validate() error {
	if m == nil {
		return ErrMutationIsNotConstructed
	}
	return m.guard.Validate(ErrMutationIsNotConstructed)
}

// ID returns the mutation's unique identifier.
func (m *Mutation) ID() kernel.UUID {
	return m.id
}

// EntityKind returns the kind of entity the mutation belongs to.
func (m *Mutation) EntityKind() EntityKind {
	return m.entityKind
}

// EntityID returns the local entity the mutation belongs to.
func (m *Mutation) EntityID() kernel.UUID {
	return m.entityID
}

// Operation returns the backend operation name, e.g. "cart.add".
func (m *Mutation) Operation() string {
	return m.operation
}

// Payload returns a copy of the captured JSON body.
func (m *Mutation) Payload() []byte {
	return append([]byte(nil), m.payload...)
}

// Attempts returns how many replays have failed so far.
func (m *Mutation) Attempts() int {
	return m.attempts
}

// EnqueuedAt returns when the mutation was captured.
func (m *Mutation) EnqueuedAt() time.Time {
	return m.enqueuedAt
}

// RecordAttempt counts one failed replay.
func (m *Mutation) RecordAttempt() {
	m.attempts++
}

func (m *Mutation) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	m.id = id
	return nil
}

func (m *Mutation) setEntityKind(kind EntityKind) error {
	if err := kind.Validate(); err != nil {
		return err
	}
	m.entityKind = kind
	return nil
}

func (m *Mutation) setEntityID(entityID kernel.UUID) error {
	if err := entityID.Validate(); err != nil {
		return err
	}
	m.entityID = entityID
	return nil
}

func (m *Mutation) setOperation(operation string) error {
	if operation == "" {
		return ErrOperationIsRequired
	}
	m.operation = operation
	return nil
}
