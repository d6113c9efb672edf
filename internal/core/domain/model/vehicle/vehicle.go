// Package vehicle models the trucks and vans that carry packets between city hubs.
package vehicle

import (
	"errors"
	"fmt"
	"strings"

	"courier/internal/core/domain/model/kernel"
	"courier/internal/pkg/errs"
	"courier/internal/pkg/guard"
)

var ErrVehicleIsNotConstructed = errors.New("vehicle must be created via NewVehicle or RestoreVehicle")

// Status of a vehicle.
type Status string

const (
	Available Status = "available"
	InTransit Status = "in_transit"
)

func (s Status) Validate() error {
	if s != Available && s != InTransit {
		return errs.NewValueIsInvalidErrorWithCause("vehicle status", fmt.Errorf("%q is not one of available, in_transit", string(s)))
	}
	return nil
}

// Vehicle is an aggregate root. Load bookkeeping is driven by services.VehicleAllocator;
// the vehicle itself guarantees that its load never exceeds capacity and that it heads
// to at most one destination city at a time.
type Vehicle struct {
	id              kernel.UUID
	licensePlate    string
	vehicleType     string
	capacity        float64
	currentLoad     float64
	currentCity     string
	destinationCity string
	active          bool
	inMaintenance   bool
	status          Status
	driverID        *kernel.UUID
	guard           guard.ConstructorGuard
}

// NewVehicle registers an active, empty, available vehicle.
func NewVehicle(id kernel.UUID, licensePlate, vehicleType string, capacity float64, currentCity string) (*Vehicle, error) {
	var problems []error
	problems = append(problems, id.Validate())
	if strings.TrimSpace(licensePlate) == "" {
		problems = append(problems, errs.NewValueIsRequiredError("license plate"))
	}
	if !(capacity > 0) {
		problems = append(problems, errs.NewValueIsInvalidErrorWithCause("capacity", fmt.Errorf("%.2f is not greater than 0", capacity)))
	}
	if strings.TrimSpace(currentCity) == "" {
		problems = append(problems, errs.NewValueIsRequiredError("current city"))
	}
	if err := errors.Join(problems...); err != nil {
		return nil, err
	}

	return &Vehicle{
		id:           id,
		licensePlate: strings.ToUpper(strings.TrimSpace(licensePlate)),
		vehicleType:  vehicleType,
		capacity:     capacity,
		currentCity:  strings.TrimSpace(currentCity),
		active:       true,
		status:       Available,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

// Snapshot is the persistable state of a Vehicle.
type Snapshot struct {
	ID              kernel.UUID
	LicensePlate    string
	VehicleType     string
	Capacity        float64
	CurrentLoad     float64
	CurrentCity     string
	DestinationCity string
	Active          bool
	InMaintenance   bool
	Status          Status
	DriverID        *kernel.UUID
}

// RestoreVehicle rebuilds a vehicle from storage.
func RestoreVehicle(s Snapshot) (*Vehicle, error) {
	if err := errors.Join(s.ID.Validate(), s.Status.Validate()); err != nil {
		return nil, err
	}
	if s.CurrentLoad < 0 || s.CurrentLoad > s.Capacity {
		return nil, errs.NewValueIsOutOfRangeError("current load", s.CurrentLoad, 0, s.Capacity)
	}
	return &Vehicle{
		id:              s.ID,
		licensePlate:    s.LicensePlate,
		vehicleType:     s.VehicleType,
		capacity:        s.Capacity,
		currentLoad:     s.CurrentLoad,
		currentCity:     s.CurrentCity,
		destinationCity: s.DestinationCity,
		active:          s.Active,
		inMaintenance:   s.InMaintenance,
		status:          s.Status,
		driverID:        s.DriverID,
		guard:           guard.NewConstructorGuard(),
	}, nil
}

func (v *Vehicle) Snapshot() Snapshot {
	return Snapshot{
		ID:              v.id,
		LicensePlate:    v.licensePlate,
		VehicleType:     v.vehicleType,
		Capacity:        v.capacity,
		CurrentLoad:     v.currentLoad,
		CurrentCity:     v.currentCity,
		DestinationCity: v.destinationCity,
		Active:          v.active,
		InMaintenance:   v.inMaintenance,
		Status:          v.status,
		DriverID:        v.driverID,
	}
}

func (v *Vehicle) Validate() error {
	if v == nil {
		return ErrVehicleIsNotConstructed
	}
	return v.guard.Validate(ErrVehicleIsNotConstructed)
}

func (v *Vehicle) ID() kernel.UUID {
	return v.id
}

func (v *Vehicle) LicensePlate() string {
	return v.licensePlate
}

func (v *Vehicle) Capacity() float64 {
	return v.capacity
}

func (v *Vehicle) CurrentLoad() float64 {
	return v.currentLoad
}

func (v *Vehicle) CurrentCity() string {
	return v.currentCity
}

// DestinationCity is empty while the vehicle carries nothing.
func (v *Vehicle) DestinationCity() string {
	return v.destinationCity
}

func (v *Vehicle) Status() Status {
	return v.status
}

func (v *Vehicle) AssignedDriver() *kernel.UUID {
	return v.driverID
}

func (v *Vehicle) FreeCapacity() float64 {
	return v.capacity - v.currentLoad
}

// EnsureUsable rejects inactive vehicles and vehicles in maintenance.
func (v *Vehicle) EnsureUsable() error {
	if !v.active {
		return errs.NewConflictError("vehicle %s is inactive", v.licensePlate)
	}
	if v.inMaintenance {
		return errs.NewConflictError("vehicle %s is in maintenance", v.licensePlate)
	}
	return nil
}

// CanLoad checks, without mutating, that weight kg bound for city fit on the vehicle.
func (v *Vehicle) CanLoad(weight float64, city string) error {
	if err := v.EnsureUsable(); err != nil {
		return err
	}
	if v.status != Available {
		return errs.NewConflictError("vehicle %s is %s", v.licensePlate, v.status)
	}
	if v.destinationCity != "" && !strings.EqualFold(v.destinationCity, strings.TrimSpace(city)) {
		return errs.NewValueIsInvalidErrorWithCause("destination city",
			fmt.Errorf("vehicle %s is bound for %s, packets are bound for %s", v.licensePlate, v.destinationCity, city))
	}
	if v.currentLoad+weight > v.capacity {
		return errs.NewValueIsInvalidErrorWithCause("weight",
			fmt.Errorf("adding packets (%.2fkg) exceeds vehicle capacity. current: %.2fkg, capacity: %.2fkg",
				weight, v.currentLoad, v.capacity))
	}
	return nil
}

// Load adds weight kg bound for city.
func (v *Vehicle) Load(weight float64, city string) error {
	if !(weight > 0) {
		return errs.NewValueIsInvalidErrorWithCause("weight", fmt.Errorf("%.2f is not greater than 0", weight))
	}
	if err := v.CanLoad(weight, city); err != nil {
		return err
	}
	if v.destinationCity == "" {
		v.destinationCity = strings.TrimSpace(city)
	}
	v.currentLoad += weight
	return nil
}

// Unload removes weight kg. The destination city is released once remaining is zero.
func (v *Vehicle) Unload(weight float64, remaining int) error {
	if weight < 0 || weight > v.currentLoad+loadEpsilon {
		return errs.NewValueIsOutOfRangeError("unloaded weight", weight, 0, v.currentLoad)
	}
	v.currentLoad -= weight
	if v.currentLoad < loadEpsilon {
		v.currentLoad = 0
	}
	if remaining <= 0 {
		v.currentLoad = 0
		v.destinationCity = ""
	}
	return nil
}

// AssignDriver sets the driver who will take the vehicle on its next trip.
func (v *Vehicle) AssignDriver(driverID kernel.UUID) error {
	if err := driverID.Validate(); err != nil {
		return err
	}
	if v.status != Available {
		return errs.NewConflictError("vehicle %s is %s", v.licensePlate, v.status)
	}
	v.driverID = &driverID
	return nil
}

// Depart hands the vehicle to driverID and marks it in transit. A nil driver keeps the
// one already assigned.
func (v *Vehicle) Depart(driverID *kernel.UUID) error {
	if err := v.EnsureUsable(); err != nil {
		return err
	}
	if v.status != Available {
		return errs.NewConflictError("vehicle %s is already %s", v.licensePlate, v.status)
	}
	if driverID != nil {
		if err := driverID.Validate(); err != nil {
			return err
		}
		d := *driverID
		v.driverID = &d
	}
	v.status = InTransit
	return nil
}

// loadEpsilon absorbs float drift from repeated add/subtract of packet weights.
const loadEpsilon = 1e-9
