package commands_test

import (
	"testing"

	"courier/internal/core/application/usecases/commands"
	"courier/internal/core/domain/model/kernel"
	"courier/internal/core/domain/model/packet"
	"courier/internal/core/domain/model/vehicle"
	"courier/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAllocationCommandHandler_AssignPackets_Success(t *testing.T) {
	ctx := t.Context()
	f := newFixture()
	v := availableVehicle(t, 100)
	p1 := packetAtOriginHub(t, "Blantyre", 30)
	p2 := packetAtOriginHub(t, "Blantyre", 20)
	ids := []kernel.UUID{p1.ID(), p2.ID()}

	mock.InOrder(
		f.uow.On("Begin", ctx).Return(nil).Once(),
		f.vehicles.On("Get", ctx, v.ID()).Return(v, nil).Once(),
		f.packets.On("GetMany", ctx, ids).Return([]*packet.Packet{p1, p2}, nil).Once(),
		f.vehicles.On("Update", ctx, v).Return(nil).Once(),
	)
	f.packets.On("Update", ctx, mock.AnythingOfType("*packet.Packet")).Return(nil).Twice()
	f.uow.On("Commit", ctx).Return(nil).Once()

	cmd, err := commands.NewAssignPacketsToVehicleCommand(admin, v.ID(), ids)
	require.NoError(t, err)

	h := commands.NewAllocationCommandHandler(f.allocationFactory(), f.directory)
	result, err := h.AssignPackets(ctx, cmd)

	require.NoError(t, err)
	assert.InDelta(t, 50, result.CurrentLoad(), 1e-9)
	assert.Equal(t, "Blantyre", result.DestinationCity())
	assert.True(t, p1.IsOnVehicle(v.ID()))
	assert.True(t, p2.IsOnVehicle(v.ID()))
	f.uow.AssertExpectations(t)
	f.packets.AssertExpectations(t)
}

func TestAllocationCommandHandler_AssignPackets_OverCapacity_ChangesNothing(t *testing.T) {
	ctx := t.Context()
	f := newFixture()
	v := availableVehicle(t, 100)
	p1 := packetAtOriginHub(t, "Blantyre", 60)
	p2 := packetAtOriginHub(t, "Blantyre", 50)
	ids := []kernel.UUID{p1.ID(), p2.ID()}

	f.uow.On("Begin", ctx).Return(nil).Once()
	f.vehicles.On("Get", ctx, v.ID()).Return(v, nil).Once()
	f.packets.On("GetMany", ctx, ids).Return([]*packet.Packet{p1, p2}, nil).Once()

	cmd, err := commands.NewAssignPacketsToVehicleCommand(admin, v.ID(), ids)
	require.NoError(t, err)

	h := commands.NewAllocationCommandHandler(f.allocationFactory(), f.directory)
	_, err = h.AssignPackets(ctx, cmd)

	require.Error(t, err)
	assert.True(t, errs.IsBadRequest(err))
	assert.Contains(t, err.Error(), "exceeds vehicle capacity")
	assert.Zero(t, v.CurrentLoad())
	assert.Nil(t, p1.Vehicle())
	assert.Nil(t, p2.Vehicle())
	f.uow.AssertNotCalled(t, "Commit", mock.Anything)
	f.uow.AssertCalled(t, "Rollback", ctx)
}

func TestAllocationCommandHandler_AssignPackets_AdminOnly(t *testing.T) {
	f := newFixture()
	cmd, err := commands.NewAssignPacketsToVehicleCommand(driver, kernel.NewUUID(), []kernel.UUID{kernel.NewUUID()})
	require.NoError(t, err)

	h := commands.NewAllocationCommandHandler(f.allocationFactory(), f.directory)
	_, err = h.AssignPackets(t.Context(), cmd)

	require.ErrorIs(t, err, errs.ErrForbidden)
	f.uow.AssertNotCalled(t, "Begin", mock.Anything)
}

func TestAllocationCommandHandler_UnassignPacket_ReleasesCity(t *testing.T) {
	ctx := t.Context()
	f := newFixture()
	v := availableVehicle(t, 100)
	p := packetAtOriginHub(t, "Blantyre", 30)
	require.NoError(t, v.Load(p.Weight(), p.DestinationCity()))
	require.NoError(t, p.AssignVehicle(v.ID()))

	f.uow.On("Begin", ctx).Return(nil).Once()
	f.vehicles.On("Get", ctx, v.ID()).Return(v, nil).Once()
	f.packets.On("GetAllByVehicle", ctx, v.ID()).Return([]*packet.Packet{p}, nil).Once()
	f.vehicles.On("Update", ctx, v).Return(nil).Once()
	f.packets.On("Update", ctx, p).Return(nil).Once()
	f.uow.On("Commit", ctx).Return(nil).Once()

	cmd, err := commands.NewUnassignPacketFromVehicleCommand(admin, v.ID(), p.ID())
	require.NoError(t, err)

	h := commands.NewAllocationCommandHandler(f.allocationFactory(), f.directory)
	result, err := h.UnassignPacket(ctx, cmd)

	require.NoError(t, err)
	assert.Zero(t, result.CurrentLoad())
	assert.Empty(t, result.DestinationCity())
	assert.Nil(t, p.Vehicle())
}

func TestAllocationCommandHandler_UnassignPacket_NotOnVehicle(t *testing.T) {
	ctx := t.Context()
	f := newFixture()
	v := availableVehicle(t, 100)
	p := packetAtOriginHub(t, "Blantyre", 30)

	f.uow.On("Begin", ctx).Return(nil).Once()
	f.vehicles.On("Get", ctx, v.ID()).Return(v, nil).Once()
	f.packets.On("GetAllByVehicle", ctx, v.ID()).Return([]*packet.Packet{}, nil).Once()
	f.packets.On("Get", ctx, p.ID()).Return(p, nil).Once()

	cmd, err := commands.NewUnassignPacketFromVehicleCommand(admin, v.ID(), p.ID())
	require.NoError(t, err)

	h := commands.NewAllocationCommandHandler(f.allocationFactory(), f.directory)
	_, err = h.UnassignPacket(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrConflict)
}

func TestAllocationCommandHandler_DispatchBatch_WithOnBoardPackets(t *testing.T) {
	ctx := t.Context()
	f := newFixture()
	driverID := kernel.NewUUID()
	v := availableVehicle(t, 100)

	onBoard := packetAtOriginHub(t, "Blantyre", 10)
	require.NoError(t, v.Load(onBoard.Weight(), onBoard.DestinationCity()))
	require.NoError(t, onBoard.AssignVehicle(v.ID()))

	p1 := packetAtOriginHub(t, "Blantyre", 20)
	p2 := packetAtOriginHub(t, "Blantyre", 25)
	ids := []kernel.UUID{p1.ID(), p2.ID()}

	f.directory.On("Role", ctx, driverID).Return(kernel.RoleDriver, nil).Once()
	f.uow.On("Begin", ctx).Return(nil).Once()
	f.vehicles.On("Get", ctx, v.ID()).Return(v, nil).Once()
	f.packets.On("GetAllByVehicle", ctx, v.ID()).Return([]*packet.Packet{onBoard}, nil).Once()
	f.packets.On("GetMany", ctx, ids).Return([]*packet.Packet{p1, p2}, nil).Once()
	f.vehicles.On("Update", ctx, v).Return(nil).Once()
	f.packets.On("Update", ctx, mock.AnythingOfType("*packet.Packet")).Return(nil).Times(3)
	f.uow.On("Commit", ctx).Return(nil).Once()

	cmd, err := commands.NewDispatchBatchCommand(admin, v.ID(), driverID, ids)
	require.NoError(t, err)

	h := commands.NewAllocationCommandHandler(f.allocationFactory(), f.directory)
	result, departed, err := h.DispatchBatch(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, vehicle.InTransit, result.Status())
	assert.InDelta(t, 55, result.CurrentLoad(), 1e-9)
	require.NotNil(t, result.AssignedDriver())
	assert.Equal(t, driverID, *result.AssignedDriver())
	require.Len(t, departed, 3)
	for _, p := range departed {
		assert.Equal(t, packet.InTransit, p.Status())
		assert.True(t, p.ConfirmedByOrigin())
		assert.NotNil(t, p.DispatchedAt())
	}
	f.packets.AssertExpectations(t)
}

func TestAllocationCommandHandler_DispatchBatch_RequiresDriverRole(t *testing.T) {
	ctx := t.Context()
	f := newFixture()
	userID := kernel.NewUUID()

	f.directory.On("Role", ctx, userID).Return(kernel.RoleAgent, nil).Once()

	cmd, err := commands.NewDispatchBatchCommand(admin, kernel.NewUUID(), userID, []kernel.UUID{kernel.NewUUID()})
	require.NoError(t, err)

	h := commands.NewAllocationCommandHandler(f.allocationFactory(), f.directory)
	_, _, err = h.DispatchBatch(ctx, cmd)

	require.Error(t, err)
	assert.True(t, errs.IsBadRequest(err))
	f.uow.AssertNotCalled(t, "Begin", mock.Anything)
}

func TestAllocationCommandHandler_DispatchVehicle_Empty(t *testing.T) {
	ctx := t.Context()
	f := newFixture()
	v := availableVehicle(t, 100)

	f.uow.On("Begin", ctx).Return(nil).Once()
	f.vehicles.On("Get", ctx, v.ID()).Return(v, nil).Once()
	f.packets.On("GetAllByVehicle", ctx, v.ID()).Return([]*packet.Packet{}, nil).Once()

	cmd, err := commands.NewDispatchVehicleCommand(admin, v.ID())
	require.NoError(t, err)

	h := commands.NewAllocationCommandHandler(f.allocationFactory(), f.directory)
	_, _, err = h.DispatchVehicle(ctx, cmd)

	require.Error(t, err)
	assert.True(t, errs.IsBadRequest(err))
	assert.Equal(t, vehicle.Available, v.Status())
}

func TestAllocationCommandHandler_AssignDriver(t *testing.T) {
	ctx := t.Context()
	f := newFixture()
	v := availableVehicle(t, 100)

	f.directory.On("Role", ctx, driver.ID).Return(kernel.RoleDriver, nil).Once()
	f.uow.On("Begin", ctx).Return(nil).Once()
	f.vehicles.On("Get", ctx, v.ID()).Return(v, nil).Once()
	f.vehicles.On("Update", ctx, v).Return(nil).Once()
	f.uow.On("Commit", ctx).Return(nil).Once()

	cmd, err := commands.NewAssignVehicleDriverCommand(admin, v.ID(), driver.ID)
	require.NoError(t, err)

	h := commands.NewAllocationCommandHandler(f.allocationFactory(), f.directory)
	result, err := h.AssignDriver(ctx, cmd)

	require.NoError(t, err)
	require.NotNil(t, result.AssignedDriver())
	assert.Equal(t, driver.ID, *result.AssignedDriver())
}

func TestNewAssignPacketsToVehicleCommand_RequiresPackets(t *testing.T) {
	_, err := commands.NewAssignPacketsToVehicleCommand(admin, kernel.NewUUID(), nil)
	require.ErrorIs(t, err, errs.ErrValueIsRequired)

	_, err = commands.NewAssignPacketsToVehicleCommand(admin, kernel.NewUUID(), []kernel.UUID{{}})
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestAllocationCommands_NotConstructed(t *testing.T) {
	require.ErrorIs(t, commands.DispatchVehicleCommand{}.Validate(), commands.ErrDispatchVehicleCommandIsNotConstructed)
	require.ErrorIs(t, commands.DispatchBatchCommand{}.Validate(), commands.ErrDispatchBatchCommandIsNotConstructed)
	require.ErrorIs(t, commands.AssignVehicleDriverCommand{}.Validate(), commands.ErrAssignVehicleDriverCommandIsNotConstructed)
}
