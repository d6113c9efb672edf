// Package postgres provides the gorm implementation of the unit of work.
//
// A unit of work wraps one transaction. Repositories obtained from it run inside that
// transaction and report every aggregate they save back to it. After a successful
// Commit the unit of work publishes the domain events recorded by saved packets through
// the Notifier; after Rollback the events are dropped.
//
// Usage:
//
//	uow := factory.Create()
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer uow.Rollback(ctx)
//
//	p, err := uow.PacketRepository().Get(ctx, id) // SELECT ... FOR UPDATE
//	// ... mutate p
//	if err := uow.PacketRepository().Update(ctx, p); err != nil {
//	    return err
//	}
//	return uow.Commit(ctx) // publishes p's events
package postgres

import (
	"context"

	"courier/internal/adapters/out/postgres/packetrepo"
	"courier/internal/adapters/out/postgres/pickuprepo"
	"courier/internal/adapters/out/postgres/vehiclerepo"
	"courier/internal/core/domain/model/kernel"
	"courier/internal/core/domain/model/packet"
	"courier/internal/core/ports"

	"gorm.io/gorm"
)

type trackedAggregate struct {
	ID        kernel.UUID
	Aggregate any
}

// eventSource is implemented by aggregates that record domain events.
type eventSource interface {
	DomainEvents() []packet.Event
	ClearDomainEvents()
}

// GormUnitOfWorkFactory creates one GormUnitOfWork per command.
type GormUnitOfWorkFactory struct {
	db       *gorm.DB
	notifier ports.Notifier
}

// NewGormUnitOfWorkFactory returns a factory. notifier may be nil, in which case
// domain events are discarded after commit.
func NewGormUnitOfWorkFactory(db *gorm.DB, notifier ports.Notifier) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{
		db:       db,
		notifier: notifier,
	}
}

func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{
		db:                f.db,
		notifier:          f.notifier,
		trackedAggregates: make([]trackedAggregate, 0),
	}
}

type GormUnitOfWork struct {
	db                *gorm.DB
	tx                *gorm.DB
	notifier          ports.Notifier
	trackedAggregates []trackedAggregate
}

// Begin opens the transaction. A second Begin on an open unit of work is a no-op.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	uow.tx = uow.db.WithContext(ctx).Begin()
	if uow.tx.Error != nil {
		err := uow.tx.Error
		uow.tx = nil
		return err
	}

	return nil
}

// Commit finalizes the transaction and then publishes the tracked aggregates' events.
func (uow *GormUnitOfWork) Commit(ctx context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	if err != nil {
		uow.trackedAggregates = uow.trackedAggregates[:0]
		return err
	}

	uow.publish(ctx)
	return nil
}

// Rollback discards the transaction and the tracked aggregates. Calling it after Commit
// returns gorm.ErrInvalidTransaction, which handlers ignore in their deferred call.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	uow.trackedAggregates = uow.trackedAggregates[:0]
	return err
}

func (uow *GormUnitOfWork) PacketRepository() ports.PacketRepository {
	return packetrepo.NewGormPacketRepository(uow.conn(), uow)
}

func (uow *GormUnitOfWork) VehicleRepository() ports.VehicleRepository {
	return vehiclerepo.NewGormVehicleRepository(uow.conn(), uow)
}

func (uow *GormUnitOfWork) PickupRequestRepository() ports.PickupRequestRepository {
	return pickuprepo.NewGormPickupRequestRepository(uow.conn())
}

// TrackAggregate is called by repositories for every saved aggregate.
func (uow *GormUnitOfWork) TrackAggregate(id kernel.UUID, aggregate any) {
	for _, tracked := range uow.trackedAggregates {
		if tracked.Aggregate == aggregate {
			return
		}
	}
	uow.trackedAggregates = append(uow.trackedAggregates, trackedAggregate{
		ID:        id,
		Aggregate: aggregate,
	})
}

func (uow *GormUnitOfWork) conn() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}

func (uow *GormUnitOfWork) publish(ctx context.Context) {
	tracked := uow.trackedAggregates
	uow.trackedAggregates = make([]trackedAggregate, 0)

	for _, t := range tracked {
		source, ok := t.Aggregate.(eventSource)
		if !ok {
			continue
		}
		events := source.DomainEvents()
		source.ClearDomainEvents()
		if uow.notifier == nil {
			continue
		}
		for _, e := range events {
			uow.notifier.Broadcast(ctx, ports.Event{Name: e.Name, Payload: e})
		}
	}
}
