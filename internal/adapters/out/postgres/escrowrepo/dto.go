// Package escrowrepo provides data transfer objects and mapping functions for
// escrow transaction persistence.
package escrowrepo

import (
	"time"

	"marketplace/internal/core/domain/model/escrow"
	"marketplace/internal/core/domain/model/kernel"
)

// TransactionDTO represents the database structure for escrow transactions.
type TransactionDTO struct {
	ID            string `gorm:"type:uuid;primaryKey"`
	OrderID       string `gorm:"type:uuid;uniqueIndex"`
	Amount        int64
	Status        string `gorm:"index"`
	HeldAt        time.Time
	AutoReleaseAt *time.Time `gorm:"index"`
	DisputeReason string
	DisputedAt    *time.Time
	ResolvedAt    *time.Time
}

// TableName specifies the database table name for escrow transactions.
func (TransactionDTO) TableName() string {
	return "escrow_transactions"
}

// fromDomain converts an escrow transaction to its database representation.
func fromDomain(transaction *escrow.Transaction) TransactionDTO {
	return TransactionDTO{
		ID:            transaction.ID().String(),
		OrderID:       transaction.OrderID().String(),
		Amount:        transaction.Amount().Amount(),
		Status:        transaction.Status().String(),
		HeldAt:        transaction.HeldAt(),
		AutoReleaseAt: transaction.AutoReleaseAt(),
		DisputeReason: transaction.DisputeReason(),
		DisputedAt:    transaction.DisputedAt(),
		ResolvedAt:    transaction.ResolvedAt(),
	}
}

// toDomain converts a database DTO to an escrow transaction aggregate.
func toDomain(dto TransactionDTO) (*escrow.Transaction, error) {
	id, err := kernel.UUIDFromString(dto.ID)
	if err != nil {
		return nil, err
	}

	orderID, err := kernel.UUIDFromString(dto.OrderID)
	if err != nil {
		return nil, err
	}

	amount, err := kernel.NewMoney(dto.Amount)
	if err != nil {
		return nil, err
	}

	status, err := escrow.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	return escrow.RestoreTransaction(
		id, orderID, amount, status,
		dto.HeldAt, dto.AutoReleaseAt, dto.DisputeReason, dto.DisputedAt, dto.ResolvedAt,
	)
}
