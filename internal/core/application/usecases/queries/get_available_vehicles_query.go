package queries

import (
	"errors"
	"strings"

	"courier/internal/pkg/errs"
	"courier/internal/pkg/guard"
)

var ErrGetAvailableVehiclesQueryIsNotConstructed = errors.New(
	"GetAvailableVehiclesQuery must be created via NewGetAvailableVehiclesQuery constructor",
)

// GetAvailableVehiclesQuery lists usable vehicles parked in a city, with free capacity.
type GetAvailableVehiclesQuery struct {
	city  string
	guard guard.ConstructorGuard
}

func NewGetAvailableVehiclesQuery(city string) (GetAvailableVehiclesQuery, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return GetAvailableVehiclesQuery{}, errs.NewValueIsRequiredError("city")
	}
	return GetAvailableVehiclesQuery{city: city, guard: guard.NewConstructorGuard()}, nil
}

func (q GetAvailableVehiclesQuery) City() string {
	return q.city
}

func (q GetAvailableVehiclesQuery) Validate() error {
	return q.guard.Validate(ErrGetAvailableVehiclesQueryIsNotConstructed)
}

type AvailableVehicle struct {
	ID              string  `json:"id"`
	LicensePlate    string  `json:"licensePlate"`
	VehicleType     string  `json:"vehicleType"`
	Capacity        float64 `json:"capacity"`
	CurrentLoad     float64 `json:"currentLoad"`
	FreeCapacity    float64 `json:"freeCapacity"`
	DestinationCity string  `json:"destinationCity,omitempty"`
	HasDriver       bool    `json:"hasDriver"`
}
