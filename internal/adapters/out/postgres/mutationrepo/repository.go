package mutationrepo

import (
	"context"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/syncqueue"

	"gorm.io/gorm"
)

// GormMutationRepository implements MutationRepository using GORM.
type GormMutationRepository struct {
	db *gorm.DB
}

// NewGormMutationRepository creates a new GORM mutation repository.
func NewGormMutationRepository(db *gorm.DB) *GormMutationRepository {
	return &GormMutationRepository{db: db}
}

// Add enqueues a mutation.
func (r *GormMutationRepository) Add(ctx context.Context, mutation *syncqueue.Mutation) error {
	if err := mutation.Validate(); err != nil {
		return err
	}

	dto := fromDomain(mutation)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// Update persists the attempt counter after a failed replay.
func (r *GormMutationRepository) Update(ctx context.Context, mutation *syncqueue.Mutation) error {
	if err := mutation.Validate(); err != nil {
		return err
	}

	dto := fromDomain(mutation)
	result := r.db.WithContext(ctx).Model(&MutationDTO{}).
		Where("id = ?", dto.ID).
		Update("attempts", dto.Attempts)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

// Remove dequeues a mutation. Removing an already-removed mutation is a no-op,
// so a replay that raced a retry pass stays idempotent.
func (r *GormMutationRepository) Remove(ctx context.Context, id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	return r.db.WithContext(ctx).Delete(&MutationDTO{}, "id = ?", id.String()).Error
}

// GetAllPending retrieves queued mutations oldest first, up to limit entries.
func (r *GormMutationRepository) GetAllPending(ctx context.Context, limit int) ([]*syncqueue.Mutation, error) {
	var dtos []MutationDTO
	err := r.db.WithContext(ctx).
		Order("enqueued_at").
		Limit(limit).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	mutations := make([]*syncqueue.Mutation, 0, len(dtos))
	for _, dto := range dtos {
		mutation, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		mutations = append(mutations, mutation)
	}

	return mutations, nil
}
