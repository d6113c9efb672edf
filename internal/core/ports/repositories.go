// Package ports declares the contracts between the dispatch core and its infrastructure:
// repositories and the unit of work for the system of record, plus the notification sink,
// agent sessions and the agent directory used by real-time tracking.
package ports

import (
	"context"

	"courier/internal/core/domain/model/kernel"
	"courier/internal/core/domain/model/packet"
	"courier/internal/core/domain/model/pickup"
	"courier/internal/core/domain/model/vehicle"
)

// PacketRepository persists Packet aggregates.
//
// Reads inside a transaction lock the returned rows until commit or rollback, so two
// commands touching the same packet are serialized while different packets proceed in parallel.
type PacketRepository interface {
	Add(ctx context.Context, aggregate *packet.Packet) error
	Update(ctx context.Context, aggregate *packet.Packet) error

	// Get returns errs.ObjectNotFoundError for an unknown id.
	Get(ctx context.Context, id kernel.UUID) (*packet.Packet, error)

	// GetMany returns all packets or errs.ObjectNotFoundError naming the first missing id.
	// Rows are locked in id order.
	GetMany(ctx context.Context, ids []kernel.UUID) ([]*packet.Packet, error)

	// GetAllByVehicle returns the packets currently bound to a vehicle.
	GetAllByVehicle(ctx context.Context, vehicleID kernel.UUID) ([]*packet.Packet, error)
}

// VehicleRepository persists Vehicle aggregates. Get locks the row like PacketRepository.Get.
type VehicleRepository interface {
	Add(ctx context.Context, aggregate *vehicle.Vehicle) error
	Update(ctx context.Context, aggregate *vehicle.Vehicle) error
	Get(ctx context.Context, id kernel.UUID) (*vehicle.Vehicle, error)
}

// PickupRequestRepository persists pickup requests.
type PickupRequestRepository interface {
	Add(ctx context.Context, aggregate *pickup.Request) error
	Update(ctx context.Context, aggregate *pickup.Request) error
	Get(ctx context.Context, id kernel.UUID) (*pickup.Request, error)

	// GetByPacket returns the request that spawned packetID.
	GetByPacket(ctx context.Context, packetID kernel.UUID) (*pickup.Request, error)
}
