// Package commands contains the write-side use cases of the dispatch core. Every handler
// follows the same shape: validate the command, check the caller's role, open a unit of
// work, load and lock the aggregates, apply the domain operation, save, commit.
package commands

import (
	"context"

	"courier/internal/core/ports"
)

// Narrow unit of work views. Each handler depends only on the repositories it touches;
// the postgres unit of work satisfies all of them.
type (
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	PacketRepoFactory interface {
		PacketRepository() ports.PacketRepository
	}

	VehicleRepoFactory interface {
		VehicleRepository() ports.VehicleRepository
	}

	PickupRepoFactory interface {
		PickupRequestRepository() ports.PickupRequestRepository
	}

	// PacketUoW serves lifecycle transitions and bookings.
	PacketUoW interface {
		TxManager
		PacketRepoFactory
		PickupRepoFactory
	}

	PacketUoWFactory interface {
		Create() PacketUoW
	}

	// AllocationUoW serves operations that move load between packets and vehicles.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   v, err := uow.VehicleRepository().Get(ctx, vehicleID)   // locks the vehicle first
	//   ps, err := uow.PacketRepository().GetMany(ctx, ids)     // then packets, in id order
	//   // ... allocate
	//
	//   err = uow.Commit(ctx)
	AllocationUoW interface {
		TxManager
		PacketRepoFactory
		VehicleRepoFactory
	}

	AllocationUoWFactory interface {
		Create() AllocationUoW
	}
)
