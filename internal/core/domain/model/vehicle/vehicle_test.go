package vehicle_test

import (
	"testing"

	"courier/internal/core/domain/model/kernel"
	"courier/internal/core/domain/model/vehicle"
	"courier/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newVehicle(t *testing.T, capacity float64) *vehicle.Vehicle {
	t.Helper()
	v, err := vehicle.NewVehicle(kernel.NewUUID(), "ll 1234", "van", capacity, "Lilongwe")
	require.NoError(t, err)
	return v
}

func TestNewVehicle(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		v := newVehicle(t, 100)

		require.NoError(t, v.Validate())
		assert.Equal(t, "LL 1234", v.LicensePlate())
		assert.Equal(t, vehicle.Available, v.Status())
		assert.Zero(t, v.CurrentLoad())
		assert.Empty(t, v.DestinationCity())
		assert.Nil(t, v.AssignedDriver())
	})

	t.Run("invalid", func(t *testing.T) {
		v, err := vehicle.NewVehicle(kernel.UUID{}, " ", "van", 0, "")

		require.Error(t, err)
		assert.Nil(t, v)
		assert.Contains(t, err.Error(), "license plate")
		assert.Contains(t, err.Error(), "capacity")
		assert.Contains(t, err.Error(), "current city")
	})
}

func TestVehicle_Load(t *testing.T) {
	t.Run("first load binds the destination city", func(t *testing.T) {
		v := newVehicle(t, 100)

		require.NoError(t, v.Load(30, "Blantyre"))

		assert.InDelta(t, 30.0, v.CurrentLoad(), 1e-9)
		assert.Equal(t, "Blantyre", v.DestinationCity())
		assert.InDelta(t, 70.0, v.FreeCapacity(), 1e-9)
	})

	t.Run("other destination is a bad request", func(t *testing.T) {
		v := newVehicle(t, 100)
		require.NoError(t, v.Load(30, "Blantyre"))

		err := v.Load(15, "Lilongwe")

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.InDelta(t, 30.0, v.CurrentLoad(), 1e-9)
	})

	t.Run("city comparison ignores case", func(t *testing.T) {
		v := newVehicle(t, 100)
		require.NoError(t, v.Load(30, "Blantyre"))

		require.NoError(t, v.Load(5, "blantyre"))
	})

	t.Run("capacity overflow is a bad request with the numbers", func(t *testing.T) {
		v := newVehicle(t, 20)
		require.NoError(t, v.Load(15, "Mzuzu"))

		err := v.Load(10, "Mzuzu")

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.Contains(t, err.Error(), "exceeds vehicle capacity. current: 15.00kg, capacity: 20.00kg")
		assert.InDelta(t, 15.0, v.CurrentLoad(), 1e-9)
	})

	t.Run("exactly full is allowed", func(t *testing.T) {
		v := newVehicle(t, 20)

		require.NoError(t, v.Load(20, "Mzuzu"))
		assert.Zero(t, v.FreeCapacity())
	})
}

func TestVehicle_Unload(t *testing.T) {
	v := newVehicle(t, 100)
	require.NoError(t, v.Load(10, "Blantyre"))
	require.NoError(t, v.Load(20, "Blantyre"))

	require.NoError(t, v.Unload(10, 1))
	assert.InDelta(t, 20.0, v.CurrentLoad(), 1e-9)
	assert.Equal(t, "Blantyre", v.DestinationCity())

	require.NoError(t, v.Unload(20, 0))
	assert.Zero(t, v.CurrentLoad())
	assert.Empty(t, v.DestinationCity())

	require.ErrorIs(t, v.Unload(5, 0), errs.ErrValueIsOutOfRange)
}

func TestVehicle_Usability(t *testing.T) {
	inactive, err := vehicle.RestoreVehicle(vehicle.Snapshot{
		ID: kernel.NewUUID(), LicensePlate: "BT 1", Capacity: 50, Status: vehicle.Available, InMaintenance: true, Active: true,
	})
	require.NoError(t, err)

	require.ErrorIs(t, inactive.Load(5, "Zomba"), errs.ErrConflict)
	require.ErrorIs(t, inactive.Depart(nil), errs.ErrConflict)

	retired, err := vehicle.RestoreVehicle(vehicle.Snapshot{
		ID: kernel.NewUUID(), LicensePlate: "BT 2", Capacity: 50, Status: vehicle.Available,
	})
	require.NoError(t, err)
	err = retired.EnsureUsable()
	require.ErrorIs(t, err, errs.ErrConflict)
	assert.Contains(t, err.Error(), "inactive")
}

func TestVehicle_Depart(t *testing.T) {
	v := newVehicle(t, 100)
	require.NoError(t, v.Load(10, "Blantyre"))
	driver := kernel.NewUUID()

	require.NoError(t, v.Depart(&driver))

	assert.Equal(t, vehicle.InTransit, v.Status())
	assert.True(t, v.AssignedDriver().IsEqual(driver))
	require.ErrorIs(t, v.Depart(&driver), errs.ErrConflict)
	require.ErrorIs(t, v.Load(1, "Blantyre"), errs.ErrConflict)
}

func TestRestoreVehicle(t *testing.T) {
	v := newVehicle(t, 100)
	require.NoError(t, v.Load(42, "Zomba"))

	restored, err := vehicle.RestoreVehicle(v.Snapshot())
	require.NoError(t, err)
	assert.Equal(t, v.Snapshot(), restored.Snapshot())

	s := v.Snapshot()
	s.CurrentLoad = 101
	_, err = vehicle.RestoreVehicle(s)
	require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
}

func TestVehicle_AssignDriver(t *testing.T) {
	v := newVehicle(t, 100)
	first, second := kernel.NewUUID(), kernel.NewUUID()

	require.NoError(t, v.AssignDriver(first))
	require.NoError(t, v.AssignDriver(second))
	assert.True(t, v.AssignedDriver().IsEqual(second))

	require.NoError(t, v.Depart(nil))
	assert.True(t, v.AssignedDriver().IsEqual(second))
	require.ErrorIs(t, v.AssignDriver(first), errs.ErrConflict)
}
