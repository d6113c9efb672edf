package commands_test

import (
	"testing"
	"time"

	"courier/internal/core/domain/model/kernel"
	"courier/internal/core/domain/model/packet"
	"courier/internal/core/domain/model/vehicle"

	"github.com/stretchr/testify/require"
)

var (
	admin    = kernel.Actor{ID: kernel.NewUUID(), Role: kernel.RoleAdmin}
	customer = kernel.Actor{ID: kernel.NewUUID(), Role: kernel.RoleCustomer}
	driver   = kernel.Actor{ID: kernel.NewUUID(), Role: kernel.RoleDriver}
)

func booking(city string, weight float64) packet.Booking {
	origin := kernel.MustNewCoordinates(-13.98, 33.78)
	return packet.Booking{
		Description:        "Shoes",
		Category:           "clothing",
		Weight:             weight,
		Sender:             packet.Contact{Name: "Sender", Phone: "0999000111"},
		Receiver:           packet.Contact{Name: "Receiver", Phone: "0888000111"},
		OriginAddress:      "Area 25, Lilongwe",
		Origin:             &origin,
		DestinationAddress: "Ndirande, " + city,
		Mode:               packet.HomeDelivery,
	}
}

func pendingPacket(t *testing.T, weight float64) *packet.Packet {
	t.Helper()
	p, err := packet.NewPacket(kernel.NewUUID(), booking("Blantyre", weight), time.Now().UTC())
	require.NoError(t, err)
	return p
}

func packetAtOriginHub(t *testing.T, city string, weight float64) *packet.Packet {
	t.Helper()
	p, err := packet.NewPacket(kernel.NewUUID(), booking(city, weight), time.Now().UTC())
	require.NoError(t, err)
	require.NoError(t, p.ConfirmCollection(nil, time.Now()))
	require.NoError(t, p.ConfirmAtOriginHub(time.Now()))
	p.ClearDomainEvents()
	return p
}

func availableVehicle(t *testing.T, capacity float64) *vehicle.Vehicle {
	t.Helper()
	v, err := vehicle.NewVehicle(kernel.NewUUID(), "LL 2020", "truck", capacity, "Lilongwe")
	require.NoError(t, err)
	return v
}
