package commands

import (
	"errors"

	"marketplace/internal/core/domain/model/driver"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/guard"
)

var ErrRecordHeartbeatCommandIsNotConstructed = errors.New(
	"RecordHeartbeatCommand must be created via NewRecordHeartbeatCommand constructor",
)

// RecordHeartbeatCommand represents one driver location report: the current
// position plus the availability the driver declares with it.
type RecordHeartbeatCommand struct { //nolint:recvcheck //using for validation
	driverID kernel.UUID
	location kernel.GeoPoint
	status   driver.Status

	guard guard.ConstructorGuard
}

// NewRecordHeartbeatCommand creates a command to record a driver heartbeat.
func NewRecordHeartbeatCommand(
	driverID kernel.UUID,
	location kernel.GeoPoint,
	status driver.Status,
) (RecordHeartbeatCommand, error) {
	command := RecordHeartbeatCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setDriverID(driverID),
		command.setLocation(location),
		command.setStatus(status),
	); err != nil {
		return RecordHeartbeatCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c RecordHeartbeatCommand) Validate() error {
	return c.guard.Validate(ErrRecordHeartbeatCommandIsNotConstructed)
}

// DriverID returns the reporting driver.
func (c RecordHeartbeatCommand) DriverID() kernel.UUID {
	return c.driverID
}

// Location returns the reported position.
func (c RecordHeartbeatCommand) Location() kernel.GeoPoint {
	return c.location
}

// Status returns the availability the driver reports.
func (c RecordHeartbeatCommand) Status() driver.Status {
	return c.status
}

func (c *RecordHeartbeatCommand) setDriverID(driverID kernel.UUID) error {
	if err := driverID.Validate(); err != nil {
		return err
	}

	c.driverID = driverID
	return nil
}

func (c *RecordHeartbeatCommand) setLocation(location kernel.GeoPoint) error {
	if err := location.Validate(); err != nil {
		return err
	}

	c.location = location
	return nil
}

func (c *RecordHeartbeatCommand) setStatus(status driver.Status) error {
	if err := status.Validate(); err != nil {
		return err
	}

	c.status = status
	return nil
}
