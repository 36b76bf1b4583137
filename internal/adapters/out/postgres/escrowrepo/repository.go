package escrowrepo

import (
	"context"
	"errors"
	"time"

	"marketplace/internal/core/domain/model/escrow"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormEscrowRepository implements EscrowRepository using GORM.
type GormEscrowRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormEscrowRepository creates a new GORM escrow repository.
func NewGormEscrowRepository(db *gorm.DB, tracker aggregateTracker) *GormEscrowRepository {
	return &GormEscrowRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a newly opened escrow transaction.
func (r *GormEscrowRepository) Add(ctx context.Context, transaction *escrow.Transaction) error {
	if err := transaction.Validate(); err != nil {
		return err
	}

	dto := fromDomain(transaction)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(transaction.ID(), transaction)
	return nil
}

// Update saves an existing escrow transaction.
func (r *GormEscrowRepository) Update(ctx context.Context, transaction *escrow.Transaction) error {
	if err := transaction.Validate(); err != nil {
		return err
	}

	dto := fromDomain(transaction)
	result := r.db.WithContext(ctx).Model(&TransactionDTO{}).
		Where("id = ?", dto.ID).
		Updates(map[string]any{
			"status":          dto.Status,
			"auto_release_at": dto.AutoReleaseAt,
			"dispute_reason":  dto.DisputeReason,
			"disputed_at":     dto.DisputedAt,
			"resolved_at":     dto.ResolvedAt,
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.tracker.TrackAggregate(transaction.ID(), transaction)
	return nil
}

// Get retrieves an escrow transaction by ID.
func (r *GormEscrowRepository) Get(ctx context.Context, id kernel.UUID) (*escrow.Transaction, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto TransactionDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.String()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("escrow transaction", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetByOrderID retrieves the transaction holding funds for an order.
func (r *GormEscrowRepository) GetByOrderID(ctx context.Context, orderID kernel.UUID) (*escrow.Transaction, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dto TransactionDTO
	if err := r.db.WithContext(ctx).First(&dto, "order_id = ?", orderID.String()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("escrow transaction for order", orderID.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetAllDueForRelease retrieves Held transactions whose release deadline has
// elapsed. Disputed transactions have no deadline and never match.
func (r *GormEscrowRepository) GetAllDueForRelease(
	ctx context.Context,
	now time.Time,
) ([]*escrow.Transaction, error) {
	var dtos []TransactionDTO
	err := r.db.WithContext(ctx).
		Find(&dtos, "status = ? AND auto_release_at IS NOT NULL AND auto_release_at <= ?",
			escrow.Held.String(), now).Error
	if err != nil {
		return nil, err
	}

	transactions := make([]*escrow.Transaction, 0, len(dtos))
	for _, dto := range dtos {
		transaction, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, transaction)
	}

	return transactions, nil
}
