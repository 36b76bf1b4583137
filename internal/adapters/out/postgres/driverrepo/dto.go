// Package driverrepo provides data transfer objects and mapping functions for
// driver persistence.
package driverrepo

import (
	"time"

	"marketplace/internal/core/domain/model/driver"
	"marketplace/internal/core/domain/model/kernel"
)

// DriverDTO represents the database structure for driver aggregates.
type DriverDTO struct {
	ID          string `gorm:"type:uuid;primaryKey"`
	Name        string
	VehicleType string
	Rating      float64
	Lat         float64
	Lon         float64
	Status      string `gorm:"index"`
	LastSeenAt  time.Time
}

// TableName specifies the database table name for driver entities.
func (DriverDTO) TableName() string {
	return "drivers"
}

// fromDomain converts a driver domain aggregate to its database representation.
func fromDomain(aggregate *driver.Driver) DriverDTO {
	return DriverDTO{
		ID:          aggregate.ID().String(),
		Name:        aggregate.Name(),
		VehicleType: aggregate.VehicleType(),
		Rating:      aggregate.Rating(),
		Lat:         aggregate.Location().Lat(),
		Lon:         aggregate.Location().Lon(),
		Status:      aggregate.Status().String(),
		LastSeenAt:  aggregate.LastSeenAt(),
	}
}

// toDomain converts a database DTO to a driver domain aggregate.
func toDomain(dto DriverDTO) (*driver.Driver, error) {
	id, err := kernel.UUIDFromString(dto.ID)
	if err != nil {
		return nil, err
	}

	location, err := kernel.NewGeoPoint(dto.Lat, dto.Lon)
	if err != nil {
		return nil, err
	}

	status, err := driver.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	return driver.RestoreDriver(
		id, dto.Name, dto.VehicleType, dto.Rating, location, status, dto.LastSeenAt)
}
