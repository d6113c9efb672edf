package commands_test

import (
	"context"

	"courier/internal/core/application/usecases/commands"
	"courier/internal/core/domain/model/kernel"
	"courier/internal/core/domain/model/packet"
	"courier/internal/core/domain/model/pickup"
	"courier/internal/core/domain/model/vehicle"
	"courier/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

type MockPacketRepository struct{ mock.Mock }

func (m *MockPacketRepository) Add(ctx context.Context, p *packet.Packet) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPacketRepository) Update(ctx context.Context, p *packet.Packet) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPacketRepository) Get(ctx context.Context, id kernel.UUID) (*packet.Packet, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*packet.Packet), args.Error(1)
}

func (m *MockPacketRepository) GetMany(ctx context.Context, ids []kernel.UUID) ([]*packet.Packet, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*packet.Packet), args.Error(1)
}

func (m *MockPacketRepository) GetAllByVehicle(ctx context.Context, vehicleID kernel.UUID) ([]*packet.Packet, error) {
	args := m.Called(ctx, vehicleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*packet.Packet), args.Error(1)
}

type MockVehicleRepository struct{ mock.Mock }

func (m *MockVehicleRepository) Add(ctx context.Context, v *vehicle.Vehicle) error {
	args := m.Called(ctx, v)
	return args.Error(0)
}

func (m *MockVehicleRepository) Update(ctx context.Context, v *vehicle.Vehicle) error {
	args := m.Called(ctx, v)
	return args.Error(0)
}

func (m *MockVehicleRepository) Get(ctx context.Context, id kernel.UUID) (*vehicle.Vehicle, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vehicle.Vehicle), args.Error(1)
}

type MockPickupRepository struct{ mock.Mock }

func (m *MockPickupRepository) Add(ctx context.Context, r *pickup.Request) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockPickupRepository) Update(ctx context.Context, r *pickup.Request) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockPickupRepository) Get(ctx context.Context, id kernel.UUID) (*pickup.Request, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pickup.Request), args.Error(1)
}

func (m *MockPickupRepository) GetByPacket(ctx context.Context, packetID kernel.UUID) (*pickup.Request, error) {
	args := m.Called(ctx, packetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pickup.Request), args.Error(1)
}

// MockUoW satisfies both PacketUoW and AllocationUoW.
type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) PacketRepository() ports.PacketRepository {
	args := m.Called()
	return args.Get(0).(ports.PacketRepository)
}

func (m *MockUoW) VehicleRepository() ports.VehicleRepository {
	args := m.Called()
	return args.Get(0).(ports.VehicleRepository)
}

func (m *MockUoW) PickupRequestRepository() ports.PickupRequestRepository {
	args := m.Called()
	return args.Get(0).(ports.PickupRequestRepository)
}

type packetUoWFactory struct{ uow *MockUoW }

func (f packetUoWFactory) Create() commands.PacketUoW { return f.uow }

type allocationUoWFactory struct{ uow *MockUoW }

func (f allocationUoWFactory) Create() commands.AllocationUoW { return f.uow }

type MockAgentDirectory struct{ mock.Mock }

func (m *MockAgentDirectory) Role(ctx context.Context, userID kernel.UUID) (kernel.Role, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(kernel.Role), args.Error(1)
}

// fixture wires one MockUoW with all repositories.
type fixture struct {
	uow       *MockUoW
	packets   *MockPacketRepository
	vehicles  *MockVehicleRepository
	pickups   *MockPickupRepository
	directory *MockAgentDirectory
}

func newFixture() *fixture {
	f := &fixture{
		uow:       new(MockUoW),
		packets:   new(MockPacketRepository),
		vehicles:  new(MockVehicleRepository),
		pickups:   new(MockPickupRepository),
		directory: new(MockAgentDirectory),
	}
	f.uow.On("PacketRepository").Return(f.packets).Maybe()
	f.uow.On("VehicleRepository").Return(f.vehicles).Maybe()
	f.uow.On("PickupRequestRepository").Return(f.pickups).Maybe()
	f.uow.On("Rollback", mock.Anything).Return(nil).Maybe()
	return f
}

func (f *fixture) packetFactory() commands.PacketUoWFactory {
	return packetUoWFactory{uow: f.uow}
}

func (f *fixture) allocationFactory() commands.AllocationUoWFactory {
	return allocationUoWFactory{uow: f.uow}
}
