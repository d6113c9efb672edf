package postgres

import (
	"courier/internal/adapters/out/postgres/packetrepo"
	"courier/internal/adapters/out/postgres/pickuprepo"
	"courier/internal/adapters/out/postgres/userrepo"
	"courier/internal/adapters/out/postgres/vehiclerepo"

	"gorm.io/gorm"
)

// Models lists every table the service owns or reads.
func Models() []any {
	return []any{
		&userrepo.UserDTO{},
		&vehiclerepo.VehicleDTO{},
		&packetrepo.PacketDTO{},
		&pickuprepo.PickupRequestDTO{},
	}
}

// Migrate creates or updates the schema.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
