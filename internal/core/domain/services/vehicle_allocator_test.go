package services_test

import (
	"testing"
	"time"

	"courier/internal/core/domain/model/kernel"
	"courier/internal/core/domain/model/packet"
	"courier/internal/core/domain/model/vehicle"
	"courier/internal/core/domain/services"
	"courier/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 5, 2, 8, 30, 0, 0, time.UTC)

func newVehicle(t *testing.T, capacity float64) *vehicle.Vehicle {
	t.Helper()
	v, err := vehicle.NewVehicle(kernel.NewUUID(), "LL 4411", "truck", capacity, "Lilongwe")
	require.NoError(t, err)
	return v
}

func newPacket(t *testing.T, weight float64, city string, status packet.Status) *packet.Packet {
	t.Helper()
	p, err := packet.NewPacket(kernel.NewUUID(), packet.Booking{
		Weight:             weight,
		Sender:             packet.Contact{Name: "Sender", Phone: "0999"},
		Receiver:           packet.Contact{Name: "Receiver", Phone: "0888"},
		OriginAddress:      "Area 3, Lilongwe",
		DestinationAddress: "Market Street, " + city,
		Mode:               packet.HomeDelivery,
	}, now)
	require.NoError(t, err)

	if status == packet.Pending {
		return p
	}
	require.NoError(t, p.ConfirmCollection(nil, now))
	if status == packet.Collected {
		return p
	}
	require.NoError(t, p.ConfirmAtOriginHub(now))
	require.Equal(t, packet.AtOriginHub, status, "helper only builds packets up to at_origin_hub")
	p.ClearDomainEvents()
	return p
}

func TestVehicleAllocator_Assign(t *testing.T) {
	allocator := services.NewVehicleAllocator()

	t.Run("loads packets and binds the destination city", func(t *testing.T) {
		v := newVehicle(t, 100)
		p1 := newPacket(t, 10, "Blantyre", packet.AtOriginHub)
		p2 := newPacket(t, 20, "Blantyre", packet.AtOriginHub)

		err := allocator.Assign(v, []*packet.Packet{p1, p2})

		require.NoError(t, err)
		assert.InDelta(t, 30.0, v.CurrentLoad(), 1e-9)
		assert.Equal(t, "Blantyre", v.DestinationCity())
		assert.True(t, p1.IsOnVehicle(v.ID()))
		assert.True(t, p2.IsOnVehicle(v.ID()))
	})

	t.Run("rejects a packet for another city and keeps the load", func(t *testing.T) {
		v := newVehicle(t, 100)
		require.NoError(t, allocator.Assign(v, []*packet.Packet{
			newPacket(t, 10, "Blantyre", packet.AtOriginHub),
			newPacket(t, 20, "Blantyre", packet.AtOriginHub),
		}))
		lilongwe := newPacket(t, 15, "Lilongwe", packet.AtOriginHub)

		err := allocator.Assign(v, []*packet.Packet{lilongwe})

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.True(t, errs.IsBadRequest(err))
		assert.InDelta(t, 30.0, v.CurrentLoad(), 1e-9)
		assert.Nil(t, lilongwe.Vehicle())
	})

	t.Run("rejects overflow with the numbers", func(t *testing.T) {
		v := newVehicle(t, 20)
		require.NoError(t, allocator.Assign(v, []*packet.Packet{newPacket(t, 15, "Mzuzu", packet.AtOriginHub)}))
		heavy := newPacket(t, 10, "Mzuzu", packet.AtOriginHub)

		err := allocator.Assign(v, []*packet.Packet{heavy})

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.Contains(t, err.Error(), "exceeds vehicle capacity")
		assert.Contains(t, err.Error(), "current: 15.00kg, capacity: 20.00kg")
		assert.InDelta(t, 15.0, v.CurrentLoad(), 1e-9)
		assert.Nil(t, heavy.Vehicle())
	})

	t.Run("rejects mixed cities inside one request", func(t *testing.T) {
		v := newVehicle(t, 100)
		a := newPacket(t, 1, "Zomba", packet.AtOriginHub)
		b := newPacket(t, 1, "Mzuzu", packet.AtOriginHub)

		err := allocator.Assign(v, []*packet.Packet{a, b})

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.Zero(t, v.CurrentLoad())
		assert.Empty(t, v.DestinationCity())
		assert.Nil(t, a.Vehicle())
	})

	t.Run("rejects the whole request when one packet is not at the origin hub", func(t *testing.T) {
		v := newVehicle(t, 100)
		ready := newPacket(t, 5, "Zomba", packet.AtOriginHub)
		early := newPacket(t, 5, "Zomba", packet.Collected)

		err := allocator.Assign(v, []*packet.Packet{ready, early})

		require.ErrorIs(t, err, errs.ErrConflict)
		assert.Contains(t, err.Error(), "packet must be in state at_origin_hub, current state collected")
		assert.Zero(t, v.CurrentLoad())
		assert.Nil(t, ready.Vehicle())
	})

	t.Run("rejects a packet already on a vehicle", func(t *testing.T) {
		first := newVehicle(t, 100)
		second := newVehicle(t, 100)
		p := newPacket(t, 5, "Zomba", packet.AtOriginHub)
		require.NoError(t, allocator.Assign(first, []*packet.Packet{p}))

		require.ErrorIs(t, allocator.Assign(second, []*packet.Packet{p}), errs.ErrConflict)
		require.ErrorIs(t, allocator.Assign(first, []*packet.Packet{p}), errs.ErrConflict)
		assert.InDelta(t, 5.0, first.CurrentLoad(), 1e-9)
	})

	t.Run("rejects an unusable vehicle", func(t *testing.T) {
		v, err := vehicle.RestoreVehicle(vehicle.Snapshot{
			ID: kernel.NewUUID(), LicensePlate: "MZ 9", Capacity: 100, Active: true, InMaintenance: true,
			Status: vehicle.Available,
		})
		require.NoError(t, err)

		err = allocator.Assign(v, []*packet.Packet{newPacket(t, 5, "Zomba", packet.AtOriginHub)})

		require.ErrorIs(t, err, errs.ErrConflict)
	})

	t.Run("rejects empty and duplicated input", func(t *testing.T) {
		v := newVehicle(t, 100)
		p := newPacket(t, 5, "Zomba", packet.AtOriginHub)

		require.ErrorIs(t, allocator.Assign(v, nil), errs.ErrValueIsRequired)
		require.ErrorIs(t, allocator.Assign(v, []*packet.Packet{p, p}), errs.ErrValueIsInvalid)
		assert.Zero(t, v.CurrentLoad())
	})
}

func TestVehicleAllocator_Unassign(t *testing.T) {
	allocator := services.NewVehicleAllocator()
	v := newVehicle(t, 100)
	p1 := newPacket(t, 10, "Blantyre", packet.AtOriginHub)
	p2 := newPacket(t, 20, "Blantyre", packet.AtOriginHub)
	require.NoError(t, allocator.Assign(v, []*packet.Packet{p1, p2}))

	require.NoError(t, allocator.Unassign(v, p1, 1))
	assert.InDelta(t, 20.0, v.CurrentLoad(), 1e-9)
	assert.Equal(t, "Blantyre", v.DestinationCity())
	assert.Nil(t, p1.Vehicle())

	require.ErrorIs(t, allocator.Unassign(v, p1, 1), errs.ErrConflict)

	require.NoError(t, allocator.Unassign(v, p2, 0))
	assert.Zero(t, v.CurrentLoad())
	assert.Empty(t, v.DestinationCity())

	lilongwe := newPacket(t, 15, "Lilongwe", packet.AtOriginHub)
	require.NoError(t, allocator.Assign(v, []*packet.Packet{lilongwe}))
	assert.Equal(t, "Lilongwe", v.DestinationCity())
}

func TestVehicleAllocator_DispatchBatch(t *testing.T) {
	allocator := services.NewVehicleAllocator()
	driver := kernel.NewUUID()

	t.Run("dispatches every packet and hands the vehicle to the driver", func(t *testing.T) {
		v := newVehicle(t, 100)
		p1 := newPacket(t, 10, "Blantyre", packet.AtOriginHub)
		p2 := newPacket(t, 20, "Blantyre", packet.AtOriginHub)

		err := allocator.DispatchBatch(v, []*packet.Packet{p1, p2}, driver, now)

		require.NoError(t, err)
		for _, p := range []*packet.Packet{p1, p2} {
			assert.Equal(t, packet.InTransit, p.Status())
			require.NotNil(t, p.DispatchedAt())
			assert.Equal(t, now, *p.DispatchedAt())
			assert.True(t, p.Driver().IsEqual(driver))
			assert.True(t, p.IsOnVehicle(v.ID()))
			assert.True(t, p.ConfirmedByOrigin())
		}
		assert.True(t, v.AssignedDriver().IsEqual(driver))
		assert.Equal(t, vehicle.InTransit, v.Status())
		assert.InDelta(t, 30.0, v.CurrentLoad(), 1e-9)
	})

	t.Run("leaves everything unchanged when one packet is not ready", func(t *testing.T) {
		v := newVehicle(t, 100)
		a := newPacket(t, 10, "Blantyre", packet.AtOriginHub)
		b := newPacket(t, 10, "Blantyre", packet.Collected)

		err := allocator.DispatchBatch(v, []*packet.Packet{a, b}, driver, now)

		require.ErrorIs(t, err, errs.ErrConflict)
		assert.Equal(t, packet.AtOriginHub, a.Status())
		assert.Nil(t, a.DispatchedAt())
		assert.Nil(t, a.Vehicle())
		assert.Equal(t, packet.Collected, b.Status())
		assert.Equal(t, vehicle.Available, v.Status())
		assert.Nil(t, v.AssignedDriver())
		assert.Zero(t, v.CurrentLoad())
	})

	t.Run("counts packets already on board only once", func(t *testing.T) {
		v := newVehicle(t, 25)
		onBoard := newPacket(t, 15, "Zomba", packet.AtOriginHub)
		require.NoError(t, allocator.Assign(v, []*packet.Packet{onBoard}))
		extra := newPacket(t, 10, "Zomba", packet.AtOriginHub)

		require.NoError(t, allocator.DispatchBatch(v, []*packet.Packet{onBoard, extra}, driver, now))

		assert.InDelta(t, 25.0, v.CurrentLoad(), 1e-9)
	})

	t.Run("rejects overflow before dispatching", func(t *testing.T) {
		v := newVehicle(t, 20)
		a := newPacket(t, 15, "Zomba", packet.AtOriginHub)
		b := newPacket(t, 10, "Zomba", packet.AtOriginHub)

		err := allocator.DispatchBatch(v, []*packet.Packet{a, b}, driver, now)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.Equal(t, packet.AtOriginHub, a.Status())
		assert.Equal(t, vehicle.Available, v.Status())
	})

	t.Run("rejects a vehicle already on the road", func(t *testing.T) {
		v := newVehicle(t, 100)
		require.NoError(t, allocator.DispatchBatch(v, []*packet.Packet{newPacket(t, 1, "Zomba", packet.AtOriginHub)}, driver, now))

		err := allocator.DispatchBatch(v, []*packet.Packet{newPacket(t, 1, "Zomba", packet.AtOriginHub)}, driver, now)

		require.ErrorIs(t, err, errs.ErrConflict)
	})
}

func TestVehicleAllocator_DispatchVehicle(t *testing.T) {
	allocator := services.NewVehicleAllocator()

	t.Run("requires at least one packet", func(t *testing.T) {
		v := newVehicle(t, 100)

		err := allocator.DispatchVehicle(v, nil, now)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.Contains(t, err.Error(), "no assigned packets")
		assert.Equal(t, vehicle.Available, v.Status())
	})

	t.Run("dispatches the loaded packets", func(t *testing.T) {
		v := newVehicle(t, 100)
		p1 := newPacket(t, 10, "Blantyre", packet.AtOriginHub)
		p2 := newPacket(t, 5, "Blantyre", packet.AtOriginHub)
		require.NoError(t, allocator.Assign(v, []*packet.Packet{p1, p2}))

		require.NoError(t, allocator.DispatchVehicle(v, []*packet.Packet{p1, p2}, now))

		assert.Equal(t, packet.InTransit, p1.Status())
		assert.Equal(t, packet.InTransit, p2.Status())
		assert.Equal(t, vehicle.InTransit, v.Status())
	})

	t.Run("rejects packets that are not on the vehicle", func(t *testing.T) {
		v := newVehicle(t, 100)
		stray := newPacket(t, 10, "Blantyre", packet.AtOriginHub)

		err := allocator.DispatchVehicle(v, []*packet.Packet{stray}, now)

		require.ErrorIs(t, err, errs.ErrConflict)
		assert.Equal(t, packet.AtOriginHub, stray.Status())
	})
}
