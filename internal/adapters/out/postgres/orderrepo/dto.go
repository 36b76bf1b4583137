// Package orderrepo provides data transfer objects and mapping functions for order persistence.
// This package implements the repository pattern for the order domain aggregate, handling
// the conversion between domain entities and database representations.
package orderrepo

import (
	"time"

	"marketplace/internal/core/domain/model/cart"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
)

// OrderDTO represents the database structure for persisting order aggregates.
// Lines and status changes live in child tables keyed by the order id; the
// status change rows carry a sequence number preserving transition order.
type OrderDTO struct {
	ID              string `gorm:"type:uuid;primaryKey"`
	BuyerID         string `gorm:"type:uuid;index"`
	MerchantID      string `gorm:"type:uuid;index"`
	DeliveryAddress string
	DeliveryLat     float64
	DeliveryLon     float64
	PaymentMethod   string
	DeliveryFee     int64
	ServiceFee      int64
	Status          string  `gorm:"index"`
	DriverID        *string `gorm:"type:uuid;index"`
	CreatedAt       time.Time

	Lines         []LineDTO         `gorm:"foreignKey:OrderID;references:ID;constraint:OnDelete:CASCADE"`
	StatusChanges []StatusChangeDTO `gorm:"foreignKey:OrderID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for order entities.
func (OrderDTO) TableName() string {
	return "orders"
}

// LineDTO represents one order line. Lines are immutable after checkout.
type LineDTO struct {
	OrderID    string `gorm:"type:uuid;primaryKey"`
	Seq        int    `gorm:"primaryKey"`
	ItemID     string `gorm:"type:uuid"`
	MerchantID string `gorm:"type:uuid"`
	UnitPrice  int64
	Quantity   int
	Unit       string
}

// TableName specifies the database table name for order lines.
func (LineDTO) TableName() string {
	return "order_lines"
}

// StatusChangeDTO represents one entry of the append-only transition history.
type StatusChangeDTO struct {
	OrderID    string `gorm:"type:uuid;primaryKey"`
	Seq        int    `gorm:"primaryKey"`
	Status     string
	ActorRole  string
	OccurredAt time.Time
}

// TableName specifies the database table name for order history entries.
func (StatusChangeDTO) TableName() string {
	return "order_status_changes"
}

// fromDomain converts an order domain aggregate to its database representation.
func fromDomain(aggregate *order.Order) OrderDTO {
	var driverID *string
	if id := aggregate.Driver(); id != nil {
		raw := id.String()
		driverID = &raw
	}

	lines := aggregate.Lines()
	lineDTOs := make([]LineDTO, 0, len(lines))
	for i, line := range lines {
		lineDTOs = append(lineDTOs, LineDTO{
			OrderID:    aggregate.ID().String(),
			Seq:        i,
			ItemID:     line.ItemID().String(),
			MerchantID: line.MerchantID().String(),
			UnitPrice:  line.UnitPrice().Amount(),
			Quantity:   line.Quantity(),
			Unit:       line.Unit(),
		})
	}

	history := aggregate.History()
	changeDTOs := make([]StatusChangeDTO, 0, len(history))
	for i, change := range history {
		changeDTOs = append(changeDTOs, StatusChangeDTO{
			OrderID:    aggregate.ID().String(),
			Seq:        i,
			Status:     change.Status.String(),
			ActorRole:  change.Actor.String(),
			OccurredAt: change.At,
		})
	}

	return OrderDTO{
		ID:              aggregate.ID().String(),
		BuyerID:         aggregate.BuyerID().String(),
		MerchantID:      aggregate.MerchantID().String(),
		DeliveryAddress: aggregate.DeliveryAddress(),
		DeliveryLat:     aggregate.DeliveryPoint().Lat(),
		DeliveryLon:     aggregate.DeliveryPoint().Lon(),
		PaymentMethod:   aggregate.PaymentMethod(),
		DeliveryFee:     aggregate.DeliveryFee().Amount(),
		ServiceFee:      aggregate.ServiceFee().Amount(),
		Status:          aggregate.Status().String(),
		DriverID:        driverID,
		CreatedAt:       aggregate.CreatedAt(),
		Lines:           lineDTOs,
		StatusChanges:   changeDTOs,
	}
}

// toDomain converts a database DTO to an order domain aggregate.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromString(dto.ID)
	if err != nil {
		return nil, err
	}

	buyerID, err := kernel.UUIDFromString(dto.BuyerID)
	if err != nil {
		return nil, err
	}

	merchantID, err := kernel.UUIDFromString(dto.MerchantID)
	if err != nil {
		return nil, err
	}

	var driverID *kernel.UUID
	if dto.DriverID != nil {
		dID, driverErr := kernel.UUIDFromString(*dto.DriverID)
		if driverErr != nil {
			return nil, driverErr
		}
		driverID = &dID
	}

	deliveryPoint, err := kernel.NewGeoPoint(dto.DeliveryLat, dto.DeliveryLon)
	if err != nil {
		return nil, err
	}

	deliveryFee, err := kernel.NewMoney(dto.DeliveryFee)
	if err != nil {
		return nil, err
	}

	serviceFee, err := kernel.NewMoney(dto.ServiceFee)
	if err != nil {
		return nil, err
	}

	status, err := order.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	lines, err := linesToDomain(dto.Lines)
	if err != nil {
		return nil, err
	}

	history, err := historyToDomain(dto.StatusChanges)
	if err != nil {
		return nil, err
	}

	return order.RestoreOrder(
		id, buyerID, merchantID, lines,
		dto.DeliveryAddress, deliveryPoint, dto.PaymentMethod,
		deliveryFee, serviceFee,
		status, driverID, dto.CreatedAt, history,
	)
}

func linesToDomain(dtos []LineDTO) ([]cart.Line, error) {
	lines := make([]cart.Line, 0, len(dtos))
	for _, dto := range dtos {
		itemID, err := kernel.UUIDFromString(dto.ItemID)
		if err != nil {
			return nil, err
		}

		merchantID, err := kernel.UUIDFromString(dto.MerchantID)
		if err != nil {
			return nil, err
		}

		unitPrice, err := kernel.NewMoney(dto.UnitPrice)
		if err != nil {
			return nil, err
		}

		line, err := cart.NewLine(itemID, merchantID, unitPrice, dto.Quantity, dto.Unit)
		if err != nil {
			return nil, err
		}

		lines = append(lines, line)
	}
	return lines, nil
}

func historyToDomain(dtos []StatusChangeDTO) ([]order.StatusChange, error) {
	history := make([]order.StatusChange, 0, len(dtos))
	for _, dto := range dtos {
		status, err := order.StatusFromString(dto.Status)
		if err != nil {
			return nil, err
		}

		role, err := order.RoleFromString(dto.ActorRole)
		if err != nil {
			return nil, err
		}

		history = append(history, order.StatusChange{
			Status: status,
			Actor:  role,
			At:     dto.OccurredAt,
		})
	}
	return history, nil
}
