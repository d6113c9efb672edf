package queries

import (
	"context"

	"courier/internal/core/domain/model/vehicle"

	"gorm.io/gorm"
)

type GetAvailableVehiclesQueryHandler struct {
	db *gorm.DB
}

func NewGetAvailableVehiclesQueryHandler(db *gorm.DB) GetAvailableVehiclesQueryHandler {
	return GetAvailableVehiclesQueryHandler{db: db}
}

// Handle returns the vehicles ordered by free capacity, largest first.
func (h GetAvailableVehiclesQueryHandler) Handle(ctx context.Context, query GetAvailableVehiclesQuery) ([]AvailableVehicle, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	vehicles := make([]AvailableVehicle, 0)
	err := h.db.WithContext(ctx).Raw(`
		SELECT
			id::text AS id,
			license_plate,
			vehicle_type,
			capacity,
			current_load,
			capacity - current_load AS free_capacity,
			destination_city,
			driver_id IS NOT NULL AS has_driver
		FROM vehicles
		WHERE status = ?
		  AND active
		  AND NOT in_maintenance
		  AND LOWER(current_city) = LOWER(?)
		ORDER BY free_capacity DESC, license_plate
	`, string(vehicle.Available), query.City()).Scan(&vehicles).Error
	if err != nil {
		return nil, err
	}

	return vehicles, nil
}
