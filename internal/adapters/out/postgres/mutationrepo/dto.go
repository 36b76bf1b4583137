// Package mutationrepo provides data transfer objects and mapping functions
// for the pending-sync mutation queue.
package mutationrepo

import (
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/syncqueue"
)

// MutationDTO represents the database structure for queued sync mutations.
type MutationDTO struct {
	ID         string `gorm:"type:uuid;primaryKey"`
	EntityKind string
	EntityID   string `gorm:"type:uuid;index"`
	Operation  string
	Payload    []byte `gorm:"type:bytea"`
	Attempts   int
	EnqueuedAt time.Time `gorm:"index"`
}

// TableName specifies the database table name for sync mutations.
func (MutationDTO) TableName() string {
	return "sync_mutations"
}

// fromDomain converts a mutation to its database representation.
func fromDomain(mutation *syncqueue.Mutation) MutationDTO {
	return MutationDTO{
		ID:         mutation.ID().String(),
		EntityKind: mutation.EntityKind().String(),
		EntityID:   mutation.EntityID().String(),
		Operation:  mutation.Operation(),
		Payload:    mutation.Payload(),
		Attempts:   mutation.Attempts(),
		EnqueuedAt: mutation.EnqueuedAt(),
	}
}

// toDomain converts a database DTO to a mutation.
func toDomain(dto MutationDTO) (*syncqueue.Mutation, error) {
	id, err := kernel.UUIDFromString(dto.ID)
	if err != nil {
		return nil, err
	}

	entityID, err := kernel.UUIDFromString(dto.EntityID)
	if err != nil {
		return nil, err
	}

	kind, err := syncqueue.KindFromString(dto.EntityKind)
	if err != nil {
		return nil, err
	}

	return syncqueue.RestoreMutation(
		id, kind, entityID, dto.Operation, dto.Payload, dto.Attempts, dto.EnqueuedAt)
}
