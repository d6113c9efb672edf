package ports

import (
	"context"
)

// UnitOfWorkFactory creates one UnitOfWork per command.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork is the transaction boundary of a command. Domain events recorded by
// aggregates saved through its repositories are published only after Commit succeeds.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error

	PacketRepository() PacketRepository
	VehicleRepository() VehicleRepository
	PickupRequestRepository() PickupRequestRepository
}
