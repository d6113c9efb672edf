package http

import (
	"time"

	"courier/internal/core/domain/model/kernel"
	"courier/internal/core/domain/model/packet"
	"courier/internal/core/domain/model/pickup"
	"courier/internal/core/domain/model/vehicle"
	"courier/internal/pkg/errs"
)

// NewPickup is the body of POST /pickups.
type NewPickup struct {
	CustomerID         string               `json:"customerId,omitempty"`
	Description        string               `json:"description"`
	Category           string               `json:"category"`
	Instructions       string               `json:"instructions"`
	Weight             float64              `json:"weight"`
	Sender             packet.Contact       `json:"sender"`
	Receiver           packet.Contact       `json:"receiver"`
	OriginAddress      string               `json:"originAddress"`
	Origin             *kernel.Coordinates  `json:"origin,omitempty"`
	DestinationAddress string               `json:"destinationAddress"`
	Destination        *kernel.Coordinates  `json:"destination,omitempty"`
	DestinationHub     string               `json:"destinationHub,omitempty"`
	DeliveryMode       string               `json:"deliveryMode"`
	PickupWindow       *packet.PickupWindow `json:"pickupWindow,omitempty"`
}

func (p NewPickup) booking() (packet.Booking, error) {
	mode, err := packet.ParseDeliveryMode(p.DeliveryMode)
	if err != nil {
		return packet.Booking{}, err
	}
	return packet.Booking{
		Description:        p.Description,
		Category:           p.Category,
		Instructions:       p.Instructions,
		Weight:             p.Weight,
		Sender:             p.Sender,
		Receiver:           p.Receiver,
		OriginAddress:      p.OriginAddress,
		Origin:             p.Origin,
		DestinationAddress: p.DestinationAddress,
		Destination:        p.Destination,
		DestinationHub:     p.DestinationHub,
		Mode:               mode,
		PickupWindow:       p.PickupWindow,
	}, nil
}

type AgentAssignment struct {
	AgentID string `json:"agentId"`
}

type DriverAssignment struct {
	DriverID string `json:"driverId"`
}

type CollectRequest struct {
	Weight *float64 `json:"weight,omitempty"`
}

type DeliverRequest struct {
	Signature  string `json:"signature,omitempty"`
	NationalID string `json:"nationalId,omitempty"`
}

type PickedRequest struct {
	Signature string `json:"signature"`
}

type PacketIDs struct {
	PacketIDs []string `json:"packetIds"`
}

type NewDispatchBatch struct {
	VehicleID string   `json:"vehicleId"`
	DriverID  string   `json:"driverId"`
	PacketIDs []string `json:"packetIds"`
}

func requiredUUID(name, raw string) (kernel.UUID, error) {
	if raw == "" {
		return kernel.UUID{}, errs.NewValueIsRequiredError(name)
	}
	id, err := kernel.UUIDFromString(raw)
	if err != nil {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	return id, nil
}

// Packet is the API view of a packet after a command.
type Packet struct {
	ID                 kernel.UUID   `json:"id"`
	TrackingCode       string        `json:"trackingCode"`
	Status             packet.Status `json:"status"`
	Weight             float64       `json:"weight"`
	OriginAddress      string        `json:"originAddress"`
	DestinationAddress string        `json:"destinationAddress"`
	DeliveryMode       string        `json:"deliveryMode"`
	PickupAgentID      *kernel.UUID  `json:"pickupAgentId,omitempty"`
	DeliveryAgentID    *kernel.UUID  `json:"deliveryAgentId,omitempty"`
	DriverID           *kernel.UUID  `json:"driverId,omitempty"`
	VehicleID          *kernel.UUID  `json:"vehicleId,omitempty"`
	ConfirmedByOrigin  bool          `json:"confirmedByOrigin"`
	IsPaid             bool          `json:"isPaid"`
	CreatedAt          time.Time     `json:"createdAt"`
	CollectedAt        *time.Time    `json:"collectedAt,omitempty"`
	DispatchedAt       *time.Time    `json:"dispatchedAt,omitempty"`
	DeliveredAt        *time.Time    `json:"deliveredAt,omitempty"`
}

func toPacket(p *packet.Packet) Packet {
	return Packet{
		ID:                 p.ID(),
		TrackingCode:       p.TrackingCode(),
		Status:             p.Status(),
		Weight:             p.Weight(),
		OriginAddress:      p.OriginAddress(),
		DestinationAddress: p.DestinationAddress(),
		DeliveryMode:       string(p.Mode()),
		PickupAgentID:      p.PickupAgent(),
		DeliveryAgentID:    p.DeliveryAgent(),
		DriverID:           p.Driver(),
		VehicleID:          p.Vehicle(),
		ConfirmedByOrigin:  p.ConfirmedByOrigin(),
		IsPaid:             p.IsPaid(),
		CreatedAt:          p.CreatedAt(),
		CollectedAt:        p.CollectedAt(),
		DispatchedAt:       p.DispatchedAt(),
		DeliveredAt:        p.DeliveredAt(),
	}
}

func toPackets(ps []*packet.Packet) []Packet {
	out := make([]Packet, len(ps))
	for i, p := range ps {
		out[i] = toPacket(p)
	}
	return out
}

type PickupRequest struct {
	ID            kernel.UUID   `json:"id"`
	PacketID      kernel.UUID   `json:"packetId"`
	CustomerID    kernel.UUID   `json:"customerId"`
	PickupAddress string        `json:"pickupAddress"`
	Status        pickup.Status `json:"status"`
	AgentID       *kernel.UUID  `json:"agentId,omitempty"`
	CreatedAt     time.Time     `json:"createdAt"`
}

func toPickupRequest(r *pickup.Request) PickupRequest {
	return PickupRequest{
		ID:            r.ID(),
		PacketID:      r.PacketID(),
		CustomerID:    r.CustomerID(),
		PickupAddress: r.PickupAddress(),
		Status:        r.Status(),
		AgentID:       r.Agent(),
		CreatedAt:     r.CreatedAt(),
	}
}

// Booked is the response of POST /pickups.
type Booked struct {
	Packet  Packet        `json:"packet"`
	Request PickupRequest `json:"pickupRequest"`
}

type Vehicle struct {
	ID              kernel.UUID    `json:"id"`
	LicensePlate    string         `json:"licensePlate"`
	Capacity        float64        `json:"capacity"`
	CurrentLoad     float64        `json:"currentLoad"`
	CurrentCity     string         `json:"currentCity"`
	DestinationCity string         `json:"destinationCity,omitempty"`
	Status          vehicle.Status `json:"status"`
	DriverID        *kernel.UUID   `json:"driverId,omitempty"`
}

func toVehicle(v *vehicle.Vehicle) Vehicle {
	return Vehicle{
		ID:              v.ID(),
		LicensePlate:    v.LicensePlate(),
		Capacity:        v.Capacity(),
		CurrentLoad:     v.CurrentLoad(),
		CurrentCity:     v.CurrentCity(),
		DestinationCity: v.DestinationCity(),
		Status:          v.Status(),
		DriverID:        v.AssignedDriver(),
	}
}

// Dispatched is the response of both dispatch routes.
type Dispatched struct {
	Vehicle Vehicle  `json:"vehicle"`
	Packets []Packet `json:"packets"`
}

type AgentLocation struct {
	AgentID     kernel.UUID         `json:"agentId"`
	Location    *kernel.Coordinates `json:"location"`
	UpdatedAt   *time.Time          `json:"updatedAt,omitempty"`
	ConnectedAt time.Time           `json:"connectedAt"`
}
