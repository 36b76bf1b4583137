package cartrepo

import (
	"context"
	"errors"
	"time"

	"marketplace/internal/core/domain/model/cart"
	"marketplace/internal/core/domain/model/kernel"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCartRepository implements CartRepository using GORM.
type GormCartRepository struct {
	db *gorm.DB
}

// NewGormCartRepository creates a new GORM cart repository.
func NewGormCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// Upsert replaces the stored state of the buyer's cart with the aggregate's
// current lines. An empty cart keeps its row with zero lines.
func (r *GormCartRepository) Upsert(ctx context.Context, aggregate *cart.Cart) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate, time.Now().UTC())

	cartRow := CartDTO{BuyerID: dto.BuyerID, UpdatedAt: dto.UpdatedAt}
	err := r.db.WithContext(ctx).
		Omit("Lines").
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "buyer_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"updated_at"}),
		}).
		Create(&cartRow).Error
	if err != nil {
		return err
	}

	err = r.db.WithContext(ctx).
		Delete(&LineDTO{}, "buyer_id = ?", dto.BuyerID).Error
	if err != nil {
		return err
	}

	if len(dto.Lines) == 0 {
		return nil
	}

	return r.db.WithContext(ctx).Create(&dto.Lines).Error
}

// Get retrieves the cart for a buyer. A buyer without stored state gets a
// fresh empty cart.
func (r *GormCartRepository) Get(ctx context.Context, buyerID kernel.UUID) (*cart.Cart, error) {
	if err := buyerID.Validate(); err != nil {
		return nil, err
	}

	var dto CartDTO
	err := r.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB {
			return db.Order("seq")
		}).
		First(&dto, "buyer_id = ?", buyerID.String()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return cart.NewCart(buyerID)
		}
		return nil, err
	}

	return toDomain(dto)
}
