package commands

import (
	"errors"
	"fmt"

	"courier/internal/core/domain/model/kernel"
	"courier/internal/pkg/errs"
	"courier/internal/pkg/guard"
)

var (
	ErrAssignPacketsToVehicleCommandIsNotConstructed = errors.New(
		"AssignPacketsToVehicleCommand must be created via NewAssignPacketsToVehicleCommand constructor",
	)
	ErrUnassignPacketFromVehicleCommandIsNotConstructed = errors.New(
		"UnassignPacketFromVehicleCommand must be created via NewUnassignPacketFromVehicleCommand constructor",
	)
	ErrDispatchBatchCommandIsNotConstructed = errors.New(
		"DispatchBatchCommand must be created via NewDispatchBatchCommand constructor",
	)
	ErrDispatchVehicleCommandIsNotConstructed = errors.New(
		"DispatchVehicleCommand must be created via NewDispatchVehicleCommand constructor",
	)
	ErrAssignVehicleDriverCommandIsNotConstructed = errors.New(
		"AssignVehicleDriverCommand must be created via NewAssignVehicleDriverCommand constructor",
	)
)

// AssignPacketsToVehicleCommand loads one or more packets onto a vehicle.
type AssignPacketsToVehicleCommand struct {
	actor     kernel.Actor
	vehicleID kernel.UUID
	packetIDs []kernel.UUID
	guard     guard.ConstructorGuard
}

func NewAssignPacketsToVehicleCommand(actor kernel.Actor, vehicleID kernel.UUID, packetIDs []kernel.UUID) (AssignPacketsToVehicleCommand, error) {
	if err := errors.Join(actor.ID.Validate(), vehicleID.Validate(), validateIDs("packet ids", packetIDs)); err != nil {
		return AssignPacketsToVehicleCommand{}, err
	}
	return AssignPacketsToVehicleCommand{
		actor:     actor,
		vehicleID: vehicleID,
		packetIDs: packetIDs,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c AssignPacketsToVehicleCommand) Actor() kernel.Actor      { return c.actor }
func (c AssignPacketsToVehicleCommand) VehicleID() kernel.UUID   { return c.vehicleID }
func (c AssignPacketsToVehicleCommand) PacketIDs() []kernel.UUID { return c.packetIDs }
func (c AssignPacketsToVehicleCommand) Validate() error {
	return c.guard.Validate(ErrAssignPacketsToVehicleCommandIsNotConstructed)
}

// UnassignPacketFromVehicleCommand takes a packet back off a vehicle before departure.
type UnassignPacketFromVehicleCommand struct {
	actor     kernel.Actor
	vehicleID kernel.UUID
	packetID  kernel.UUID
	guard     guard.ConstructorGuard
}

func NewUnassignPacketFromVehicleCommand(actor kernel.Actor, vehicleID, packetID kernel.UUID) (UnassignPacketFromVehicleCommand, error) {
	if err := errors.Join(actor.ID.Validate(), vehicleID.Validate(), packetID.Validate()); err != nil {
		return UnassignPacketFromVehicleCommand{}, err
	}
	return UnassignPacketFromVehicleCommand{
		actor:     actor,
		vehicleID: vehicleID,
		packetID:  packetID,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c UnassignPacketFromVehicleCommand) Actor() kernel.Actor    { return c.actor }
func (c UnassignPacketFromVehicleCommand) VehicleID() kernel.UUID { return c.vehicleID }
func (c UnassignPacketFromVehicleCommand) PacketID() kernel.UUID  { return c.packetID }
func (c UnassignPacketFromVehicleCommand) Validate() error {
	return c.guard.Validate(ErrUnassignPacketFromVehicleCommandIsNotConstructed)
}

// DispatchBatchCommand loads the listed packets (if needed) and sends them off with a driver.
// Packets already on the vehicle leave with it as well.
type DispatchBatchCommand struct {
	actor     kernel.Actor
	vehicleID kernel.UUID
	driverID  kernel.UUID
	packetIDs []kernel.UUID
	guard     guard.ConstructorGuard
}

func NewDispatchBatchCommand(actor kernel.Actor, vehicleID, driverID kernel.UUID, packetIDs []kernel.UUID) (DispatchBatchCommand, error) {
	if err := errors.Join(
		actor.ID.Validate(),
		vehicleID.Validate(),
		driverID.Validate(),
		validateIDs("packet ids", packetIDs),
	); err != nil {
		return DispatchBatchCommand{}, err
	}
	return DispatchBatchCommand{
		actor:     actor,
		vehicleID: vehicleID,
		driverID:  driverID,
		packetIDs: packetIDs,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c DispatchBatchCommand) Actor() kernel.Actor      { return c.actor }
func (c DispatchBatchCommand) VehicleID() kernel.UUID   { return c.vehicleID }
func (c DispatchBatchCommand) DriverID() kernel.UUID    { return c.driverID }
func (c DispatchBatchCommand) PacketIDs() []kernel.UUID { return c.packetIDs }
func (c DispatchBatchCommand) Validate() error {
	return c.guard.Validate(ErrDispatchBatchCommandIsNotConstructed)
}

// DispatchVehicleCommand sends off everything loaded on a vehicle with its assigned driver.
type DispatchVehicleCommand struct {
	actor     kernel.Actor
	vehicleID kernel.UUID
	guard     guard.ConstructorGuard
}

func NewDispatchVehicleCommand(actor kernel.Actor, vehicleID kernel.UUID) (DispatchVehicleCommand, error) {
	if err := errors.Join(actor.ID.Validate(), vehicleID.Validate()); err != nil {
		return DispatchVehicleCommand{}, err
	}
	return DispatchVehicleCommand{
		actor:     actor,
		vehicleID: vehicleID,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c DispatchVehicleCommand) Actor() kernel.Actor    { return c.actor }
func (c DispatchVehicleCommand) VehicleID() kernel.UUID { return c.vehicleID }
func (c DispatchVehicleCommand) Validate() error {
	return c.guard.Validate(ErrDispatchVehicleCommandIsNotConstructed)
}

// AssignVehicleDriverCommand sets the driver of an available vehicle.
type AssignVehicleDriverCommand struct {
	actor     kernel.Actor
	vehicleID kernel.UUID
	driverID  kernel.UUID
	guard     guard.ConstructorGuard
}

func NewAssignVehicleDriverCommand(actor kernel.Actor, vehicleID, driverID kernel.UUID) (AssignVehicleDriverCommand, error) {
	if err := errors.Join(actor.ID.Validate(), vehicleID.Validate(), driverID.Validate()); err != nil {
		return AssignVehicleDriverCommand{}, err
	}
	return AssignVehicleDriverCommand{
		actor:     actor,
		vehicleID: vehicleID,
		driverID:  driverID,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c AssignVehicleDriverCommand) Actor() kernel.Actor    { return c.actor }
func (c AssignVehicleDriverCommand) VehicleID() kernel.UUID { return c.vehicleID }
func (c AssignVehicleDriverCommand) DriverID() kernel.UUID  { return c.driverID }
func (c AssignVehicleDriverCommand) Validate() error {
	return c.guard.Validate(ErrAssignVehicleDriverCommandIsNotConstructed)
}

func validateIDs(name string, ids []kernel.UUID) error {
	if len(ids) == 0 {
		return errs.NewValueIsRequiredError(name)
	}
	for i, id := range ids {
		if err := id.Validate(); err != nil {
			return errs.NewValueIsInvalidErrorWithCause(name, fmt.Errorf("element %d: %w", i, err))
		}
	}
	return nil
}
