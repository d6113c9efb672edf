// Package vehiclerepo maps the Vehicle aggregate to the vehicles table.
package vehiclerepo

import (
	"courier/internal/core/domain/model/kernel"
	"courier/internal/core/domain/model/vehicle"

	"github.com/google/uuid"
)

type VehicleDTO struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	LicensePlate    string    `gorm:"size:32;uniqueIndex"`
	VehicleType     string    `gorm:"size:32"`
	Capacity        float64
	CurrentLoad     float64
	CurrentCity     string `gorm:"index"`
	DestinationCity string
	Active          bool
	InMaintenance   bool
	Status          string     `gorm:"size:16;index"`
	DriverID        *uuid.UUID `gorm:"type:uuid"`
}

func (VehicleDTO) TableName() string {
	return "vehicles"
}

func fromDomain(v *vehicle.Vehicle) VehicleDTO {
	s := v.Snapshot()

	var driverID *uuid.UUID
	if s.DriverID != nil {
		raw := s.DriverID.Bytes()
		driverID = &raw
	}

	return VehicleDTO{
		ID:              s.ID.Bytes(),
		LicensePlate:    s.LicensePlate,
		VehicleType:     s.VehicleType,
		Capacity:        s.Capacity,
		CurrentLoad:     s.CurrentLoad,
		CurrentCity:     s.CurrentCity,
		DestinationCity: s.DestinationCity,
		Active:          s.Active,
		InMaintenance:   s.InMaintenance,
		Status:          string(s.Status),
		DriverID:        driverID,
	}
}

func toDomain(dto VehicleDTO) (*vehicle.Vehicle, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	var driverID *kernel.UUID
	if dto.DriverID != nil {
		d, driverErr := kernel.UUIDFromBytes(dto.DriverID[:])
		if driverErr != nil {
			return nil, driverErr
		}
		driverID = &d
	}

	return vehicle.RestoreVehicle(vehicle.Snapshot{
		ID:              id,
		LicensePlate:    dto.LicensePlate,
		VehicleType:     dto.VehicleType,
		Capacity:        dto.Capacity,
		CurrentLoad:     dto.CurrentLoad,
		CurrentCity:     dto.CurrentCity,
		DestinationCity: dto.DestinationCity,
		Active:          dto.Active,
		InMaintenance:   dto.InMaintenance,
		Status:          vehicle.Status(dto.Status),
		DriverID:        driverID,
	})
}
