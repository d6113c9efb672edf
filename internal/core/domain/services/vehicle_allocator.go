package services

import (
	"errors"
	"fmt"
	"time"

	"courier/internal/core/domain/model/kernel"
	"courier/internal/core/domain/model/packet"
	"courier/internal/core/domain/model/vehicle"
	"courier/internal/pkg/errs"
)

// VehicleAllocator binds packets to vehicles and dispatches them.
//
// Every operation validates the complete input before mutating anything: if one packet
// breaks a rule, neither the vehicle nor any packet is changed.
//
// Example:
//
//	allocator := services.NewVehicleAllocator()
//	if err := allocator.Assign(v, []*packet.Packet{p1, p2}); err != nil {
//	    // v, p1 and p2 are untouched
//	}
type VehicleAllocator struct{}

func NewVehicleAllocator() VehicleAllocator {
	return VehicleAllocator{}
}

// Assign loads packets onto v.
//
// Rules:
//   - v is active and not in maintenance (Conflict)
//   - every packet is at_origin_hub and not bound to any vehicle (Conflict)
//   - all packets share one destination city, equal to v's if v already has one (BadRequest)
//   - v's load plus the packets' weight stays within capacity (BadRequest)
func (a VehicleAllocator) Assign(v *vehicle.Vehicle, packets []*packet.Packet) error {
	if err := v.Validate(); err != nil {
		return err
	}
	if err := v.EnsureUsable(); err != nil {
		return err
	}
	if err := validateBatch(packets); err != nil {
		return err
	}
	for _, p := range packets {
		if p.Vehicle() != nil {
			return errs.NewConflictError("packet %s is already assigned to vehicle %s", p.TrackingCode(), p.Vehicle())
		}
	}

	return a.load(v, packets)
}

// Unassign takes p off v. remaining is the number of packets still on v afterwards;
// when it reaches zero the vehicle forgets its destination city.
func (a VehicleAllocator) Unassign(v *vehicle.Vehicle, p *packet.Packet, remaining int) error {
	if err := errors.Join(v.Validate(), p.Validate()); err != nil {
		return err
	}
	if err := packet.RequireStatus(packet.AtOriginHub, p.Status()); err != nil {
		return err
	}
	if !p.IsOnVehicle(v.ID()) {
		return errs.NewConflictError("packet %s is not assigned to vehicle %s", p.TrackingCode(), v.LicensePlate())
	}
	if err := v.Unload(p.Weight(), remaining); err != nil {
		return err
	}
	return p.UnassignVehicle(v.ID())
}

// DispatchBatch sends packets off with driverID aboard v. Packets not yet on v are loaded
// first under the Assign rules; then every packet moves to in_transit and v departs.
func (a VehicleAllocator) DispatchBatch(v *vehicle.Vehicle, packets []*packet.Packet, driverID kernel.UUID, at time.Time) error {
	if err := errors.Join(v.Validate(), driverID.Validate()); err != nil {
		return err
	}
	if err := ensureCanDepart(v); err != nil {
		return err
	}
	if err := validateBatch(packets); err != nil {
		return err
	}

	var boarding []*packet.Packet
	for _, p := range packets {
		if !p.IsOnVehicle(v.ID()) {
			boarding = append(boarding, p)
		}
	}
	for _, p := range boarding {
		if p.Vehicle() != nil {
			return errs.NewConflictError("packet %s is already assigned to vehicle %s", p.TrackingCode(), p.Vehicle())
		}
	}
	if len(boarding) > 0 {
		if err := a.load(v, boarding); err != nil {
			return err
		}
	}

	return depart(v, packets, &driverID, at)
}

// DispatchVehicle sends off everything already loaded on v with its assigned driver.
func (a VehicleAllocator) DispatchVehicle(v *vehicle.Vehicle, loaded []*packet.Packet, at time.Time) error {
	if err := v.Validate(); err != nil {
		return err
	}
	if err := ensureCanDepart(v); err != nil {
		return err
	}
	if len(loaded) == 0 {
		return errs.NewValueIsInvalidErrorWithCause("packets",
			fmt.Errorf("vehicle %s has no assigned packets to dispatch", v.LicensePlate()))
	}
	if err := validateBatch(loaded); err != nil {
		return err
	}
	for _, p := range loaded {
		if !p.IsOnVehicle(v.ID()) {
			return errs.NewConflictError("packet %s is not assigned to vehicle %s", p.TrackingCode(), v.LicensePlate())
		}
	}

	return depart(v, loaded, v.AssignedDriver(), at)
}

// load checks capacity and city homogeneity for packets, then binds them to v.
func (a VehicleAllocator) load(v *vehicle.Vehicle, packets []*packet.Packet) error {
	city := packets[0].DestinationCity()
	var total float64
	for _, p := range packets {
		if !packet.SameCity(p.DestinationCity(), city) {
			return errs.NewValueIsInvalidErrorWithCause("destination city",
				fmt.Errorf("all packets must share one destination city: %s goes to %s, %s goes to %s",
					packets[0].TrackingCode(), city, p.TrackingCode(), p.DestinationCity()))
		}
		if err := p.CanBeLoaded(v.ID()); err != nil {
			return err
		}
		total += p.Weight()
	}
	if err := v.CanLoad(total, city); err != nil {
		return err
	}

	if err := v.Load(total, city); err != nil {
		return err
	}
	for _, p := range packets {
		if err := p.AssignVehicle(v.ID()); err != nil {
			return err
		}
	}
	return nil
}

// validateBatch rejects empty or duplicated input and any packet not waiting at the origin hub.
func validateBatch(packets []*packet.Packet) error {
	if len(packets) == 0 {
		return errs.NewValueIsRequiredError("packets")
	}
	seen := make(map[kernel.UUID]struct{}, len(packets))
	for _, p := range packets {
		if err := p.Validate(); err != nil {
			return err
		}
		if _, dup := seen[p.ID()]; dup {
			return errs.NewValueIsInvalidErrorWithCause("packets", fmt.Errorf("packet %s is listed twice", p.TrackingCode()))
		}
		seen[p.ID()] = struct{}{}
		if err := packet.RequireStatus(packet.AtOriginHub, p.Status()); err != nil {
			return fmt.Errorf("packet %s: %w", p.TrackingCode(), err)
		}
	}
	return nil
}

func ensureCanDepart(v *vehicle.Vehicle) error {
	if err := v.EnsureUsable(); err != nil {
		return err
	}
	if v.Status() != vehicle.Available {
		return errs.NewConflictError("vehicle %s is already %s", v.LicensePlate(), v.Status())
	}
	return nil
}

// depart runs after all checks passed, so the transitions below cannot fail on status.
func depart(v *vehicle.Vehicle, packets []*packet.Packet, driverID *kernel.UUID, at time.Time) error {
	for _, p := range packets {
		if err := p.Dispatch(driverID, at); err != nil {
			return err
		}
	}
	return v.Depart(driverID)
}
