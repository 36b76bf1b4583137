package driver

import (
	"errors"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

const (
	// minRating and maxRating bound the driver rating scale.
	minRating = 0.0
	maxRating = 5.0
)

// Domain errors for driver operations.
var (
	// ErrNameIsRequired is returned when attempting to create a driver without a name.
	ErrNameIsRequired = errs.NewValueIsRequiredError("name")
	// ErrVehicleTypeIsRequired is returned when attempting to create a driver without a vehicle type.
	ErrVehicleTypeIsRequired = errs.NewValueIsRequiredError("vehicle type")
	// ErrDriverIsNotConstructed is returned when using an improperly initialized Driver.
	ErrDriverIsNotConstructed = errors.New("Driver must be created via NewDriver or RestoreDriver constructor")
	// ErrDriverUnavailable is returned when assigning an order to a driver who
	// is busy or offline.
	ErrDriverUnavailable = errors.New("driver is not available for assignment")
)

// Driver represents a delivery driver in the marketplace.
// It is an aggregate root that manages driver identity, availability, and the
// last known position used by the dispatch matcher and ETA estimates.
//
// Business rules:
//   - Rating is on a 0–5 scale; the matcher applies a quality floor when the
//     candidate pool can satisfy it
//   - Only Available drivers can take an assignment; taking one makes the
//     driver Busy until the delivery completes or is cancelled
//   - Heartbeats refresh the location and can flip availability
type Driver struct {
	id          kernel.UUID
	name        string
	vehicleType string
	rating      float64
	location    kernel.GeoPoint
	status      Status
	lastSeenAt  time.Time

	guard guard.ConstructorGuard
}

// NewDriver creates a new Available driver with validation.
func NewDriver(
	id kernel.UUID,
	name string,
	vehicleType string,
	rating float64,
	location kernel.GeoPoint,
	lastSeenAt time.Time,
) (*Driver, error) {
	d := &Driver{
		status:     Available,
		lastSeenAt: lastSeenAt,
		guard:      guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		d.setID(id),
		d.setName(name),
		d.setVehicleType(vehicleType),
		d.setRating(rating),
		d.setLocation(location),
	); err != nil {
		return nil, err
	}

	return d, nil
}

// RestoreDriver reconstructs a Driver aggregate from persistent storage.
func RestoreDriver(
	id kernel.UUID,
	name string,
	vehicleType string,
	rating float64,
	location kernel.GeoPoint,
	status Status,
	lastSeenAt time.Time,
) (*Driver, error) {
	d := &Driver{
		lastSeenAt: lastSeenAt,
		guard:      guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		d.setID(id),
		d.setName(name),
		d.setVehicleType(vehicleType),
		d.setRating(rating),
		d.setLocation(location),
		d.setStatus(status),
	); err != nil {
		return nil, err
	}

	return d, nil
}

// Validate ensures the Driver instance was properly constructed.
func (d *Driver) Validate() error {
	if d == nil {
		return ErrDriverIsNotConstructed
	}
	return d.guard.Validate(ErrDriverIsNotConstructed)
}

// IsEqual compares two drivers by their unique identifiers.
func (d *Driver) IsEqual(other *Driver) bool {
	return other != nil && d.id.IsEqual(other.id)
}

// ID returns the driver's unique identifier.
func (d *Driver) ID() kernel.UUID {
	return d.id
}

// Name returns the driver's display name.
func (d *Driver) Name() string {
	return d.name
}

// VehicleType returns the driver's vehicle type (e.g. "bike", "car").
func (d *Driver) VehicleType() string {
	return d.vehicleType
}

// Rating returns the driver's quality rating on a 0–5 scale.
func (d *Driver) Rating() float64 {
	return d.rating
}

// Location returns the driver's last known position.
func (d *Driver) Location() kernel.GeoPoint {
	return d.location
}

// Status returns the driver's availability status.
func (d *Driver) Status() Status {
	return d.status
}

// LastSeenAt returns when the driver last reported a position.
func (d *Driver) LastSeenAt() time.Time {
	return d.lastSeenAt
}

// IsAvailable reports whether the driver can take an assignment.
func (d *Driver) IsAvailable() bool {
	return d.status == Available
}

// Heartbeat refreshes the driver's position and availability from a location
// report. An offline driver coming back online reports Available.
func (d *Driver) Heartbeat(location kernel.GeoPoint, status Status, at time.Time) error {
	if err := errors.Join(d.setLocation(location), d.setStatus(status)); err != nil {
		return err
	}

	d.lastSeenAt = at
	return nil
}

// MarkBusy transitions the driver into an active delivery.
// Only Available drivers can be assigned.
func (d *Driver) MarkBusy() error {
	if d.status != Available {
		return ErrDriverUnavailable
	}

	d.status = Busy
	return nil
}

// MarkAvailable returns the driver to the dispatch pool after a completed or
// cancelled delivery.
func (d *Driver) MarkAvailable() {
	d.status = Available
}

// MarkOffline takes the driver off shift.
func (d *Driver) MarkOffline() {
	d.status = Offline
}

func (d *Driver) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	d.id = id
	return nil
}

func (d *Driver) setName(name string) error {
	if name == "" {
		return ErrNameIsRequired
	}
	d.name = name
	return nil
}

func (d *Driver) setVehicleType(vehicleType string) error {
	if vehicleType == "" {
		return ErrVehicleTypeIsRequired
	}
	d.vehicleType = vehicleType
	return nil
}

func (d *Driver) setRating(rating float64) error {
	if rating < minRating || rating > maxRating {
		return errs.NewValueIsOutOfRangeError("rating", rating, minRating, maxRating)
	}
	d.rating = rating
	return nil
}

func (d *Driver) setLocation(location kernel.GeoPoint) error {
	if err := location.Validate(); err != nil {
		return err
	}
	d.location = location
	return nil
}

func (d *Driver) setStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	d.status = status
	return nil
}
