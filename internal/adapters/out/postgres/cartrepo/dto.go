// Package cartrepo provides data transfer objects and mapping functions for
// cart persistence. A cart row exists per buyer even when empty, so a cleared
// cart survives restarts as cleared rather than reappearing from stale lines.
package cartrepo

import (
	"time"

	"marketplace/internal/core/domain/model/cart"
	"marketplace/internal/core/domain/model/kernel"
)

// CartDTO represents the database structure for buyer carts.
type CartDTO struct {
	BuyerID   string `gorm:"type:uuid;primaryKey"`
	UpdatedAt time.Time

	Lines []LineDTO `gorm:"foreignKey:BuyerID;references:BuyerID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for carts.
func (CartDTO) TableName() string {
	return "carts"
}

// LineDTO represents one cart line. The sequence preserves the order lines
// were added in, which checkout grouping depends on.
type LineDTO struct {
	BuyerID    string `gorm:"type:uuid;primaryKey"`
	Seq        int    `gorm:"primaryKey"`
	ItemID     string `gorm:"type:uuid"`
	MerchantID string `gorm:"type:uuid"`
	UnitPrice  int64
	Quantity   int
	Unit       string
}

// TableName specifies the database table name for cart lines.
func (LineDTO) TableName() string {
	return "cart_lines"
}

// fromDomain converts a cart aggregate to its database representation.
func fromDomain(aggregate *cart.Cart, now time.Time) CartDTO {
	lines := aggregate.Lines()
	lineDTOs := make([]LineDTO, 0, len(lines))
	for i, line := range lines {
		lineDTOs = append(lineDTOs, LineDTO{
			BuyerID:    aggregate.BuyerID().String(),
			Seq:        i,
			ItemID:     line.ItemID().String(),
			MerchantID: line.MerchantID().String(),
			UnitPrice:  line.UnitPrice().Amount(),
			Quantity:   line.Quantity(),
			Unit:       line.Unit(),
		})
	}

	return CartDTO{
		BuyerID:   aggregate.BuyerID().String(),
		UpdatedAt: now,
		Lines:     lineDTOs,
	}
}

// toDomain converts a database DTO to a cart aggregate.
func toDomain(dto CartDTO) (*cart.Cart, error) {
	buyerID, err := kernel.UUIDFromString(dto.BuyerID)
	if err != nil {
		return nil, err
	}

	lines := make([]cart.Line, 0, len(dto.Lines))
	for _, lineDTO := range dto.Lines {
		itemID, err := kernel.UUIDFromString(lineDTO.ItemID)
		if err != nil {
			return nil, err
		}

		merchantID, err := kernel.UUIDFromString(lineDTO.MerchantID)
		if err != nil {
			return nil, err
		}

		unitPrice, err := kernel.NewMoney(lineDTO.UnitPrice)
		if err != nil {
			return nil, err
		}

		line, err := cart.NewLine(itemID, merchantID, unitPrice, lineDTO.Quantity, lineDTO.Unit)
		if err != nil {
			return nil, err
		}

		lines = append(lines, line)
	}

	return cart.RestoreCart(buyerID, lines)
}
