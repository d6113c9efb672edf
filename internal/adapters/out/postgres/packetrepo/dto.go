// Package packetrepo maps the Packet aggregate to the packets table.
package packetrepo

import (
	"time"

	"courier/internal/core/domain/model/kernel"
	"courier/internal/core/domain/model/packet"

	"github.com/google/uuid"
)

// PacketDTO is one row of the packets table. Origin and destination cities are derived
// from the addresses and stored for the read models.
type PacketDTO struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	TrackingCode string    `gorm:"size:16;uniqueIndex"`
	Status       string    `gorm:"size:32;index"`

	Description  string
	Category     string
	Instructions string
	Weight       float64

	Sender   ContactDTO `gorm:"embedded;embeddedPrefix:sender_"`
	Receiver ContactDTO `gorm:"embedded;embeddedPrefix:receiver_"`

	OriginAddress      string
	OriginCity         string `gorm:"index"`
	OriginLat          *float64
	OriginLng          *float64
	DestinationAddress string
	DestinationCity    string `gorm:"index"`
	DestinationLat     *float64
	DestinationLng     *float64
	DestinationHub     string
	Mode               string `gorm:"size:16"`

	PickupWindowStart *time.Time
	PickupWindowEnd   *time.Time

	PickupAgentID   *uuid.UUID `gorm:"type:uuid;index"`
	DeliveryAgentID *uuid.UUID `gorm:"type:uuid;index"`
	DriverID        *uuid.UUID `gorm:"type:uuid"`
	VehicleID       *uuid.UUID `gorm:"type:uuid;index"`

	CreatedAt                 time.Time
	CollectedAt               *time.Time
	OriginHubConfirmedAt      *time.Time
	DispatchedAt              *time.Time
	DestinationHubConfirmedAt *time.Time
	OutForDeliveryAt          *time.Time
	DeliveredAt               *time.Time

	ConfirmedByOrigin bool
	IsPaid            bool
	SignatureBase64   string
	NationalID        string
}

func (PacketDTO) TableName() string {
	return "packets"
}

type ContactDTO struct {
	Name  string
	Email string
	Phone string
}

func fromDomain(p *packet.Packet) PacketDTO {
	s := p.Snapshot()

	dto := PacketDTO{
		ID:                        s.ID.Bytes(),
		TrackingCode:              s.TrackingCode,
		Status:                    s.Status.String(),
		Description:               s.Description,
		Category:                  s.Category,
		Instructions:              s.Instructions,
		Weight:                    s.Weight,
		Sender:                    ContactDTO(s.Sender),
		Receiver:                  ContactDTO(s.Receiver),
		OriginAddress:             s.OriginAddress,
		OriginCity:                packet.CityOf(s.OriginAddress),
		DestinationAddress:        s.DestinationAddress,
		DestinationCity:           packet.CityOf(s.DestinationAddress),
		DestinationHub:            s.DestinationHub,
		Mode:                      string(s.Mode),
		PickupAgentID:             uuidPtr(s.PickupAgentID),
		DeliveryAgentID:           uuidPtr(s.DeliveryAgentID),
		DriverID:                  uuidPtr(s.DriverID),
		VehicleID:                 uuidPtr(s.VehicleID),
		CreatedAt:                 s.CreatedAt,
		CollectedAt:               s.CollectedAt,
		OriginHubConfirmedAt:      s.OriginHubConfirmedAt,
		DispatchedAt:              s.DispatchedAt,
		DestinationHubConfirmedAt: s.DestinationHubConfirmedAt,
		OutForDeliveryAt:          s.OutForDeliveryAt,
		DeliveredAt:               s.DeliveredAt,
		ConfirmedByOrigin:         s.ConfirmedByOrigin,
		IsPaid:                    s.IsPaid,
		SignatureBase64:           s.Proof.SignatureBase64,
		NationalID:                s.Proof.NationalID,
	}
	dto.OriginLat, dto.OriginLng = coordinateColumns(s.Origin)
	dto.DestinationLat, dto.DestinationLng = coordinateColumns(s.Destination)
	if w := s.PickupWindow; w != nil {
		start, end := w.Start, w.End
		dto.PickupWindowStart, dto.PickupWindowEnd = &start, &end
	}

	return dto
}

func toDomain(dto PacketDTO) (*packet.Packet, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	status, err := packet.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}
	origin, err := coordinates(dto.OriginLat, dto.OriginLng)
	if err != nil {
		return nil, err
	}
	destination, err := coordinates(dto.DestinationLat, dto.DestinationLng)
	if err != nil {
		return nil, err
	}

	s := packet.Snapshot{
		ID:                        id,
		TrackingCode:              dto.TrackingCode,
		Status:                    status,
		Description:               dto.Description,
		Category:                  dto.Category,
		Instructions:              dto.Instructions,
		Weight:                    dto.Weight,
		Sender:                    packet.Contact(dto.Sender),
		Receiver:                  packet.Contact(dto.Receiver),
		OriginAddress:             dto.OriginAddress,
		Origin:                    origin,
		DestinationAddress:        dto.DestinationAddress,
		Destination:               destination,
		DestinationHub:            dto.DestinationHub,
		Mode:                      packet.DeliveryMode(dto.Mode),
		PickupAgentID:             kernelPtr(dto.PickupAgentID),
		DeliveryAgentID:           kernelPtr(dto.DeliveryAgentID),
		DriverID:                  kernelPtr(dto.DriverID),
		VehicleID:                 kernelPtr(dto.VehicleID),
		CreatedAt:                 dto.CreatedAt,
		CollectedAt:               dto.CollectedAt,
		OriginHubConfirmedAt:      dto.OriginHubConfirmedAt,
		DispatchedAt:              dto.DispatchedAt,
		DestinationHubConfirmedAt: dto.DestinationHubConfirmedAt,
		OutForDeliveryAt:          dto.OutForDeliveryAt,
		DeliveredAt:               dto.DeliveredAt,
		ConfirmedByOrigin:         dto.ConfirmedByOrigin,
		IsPaid:                    dto.IsPaid,
		Proof: packet.ProofOfDelivery{
			SignatureBase64: dto.SignatureBase64,
			NationalID:      dto.NationalID,
		},
	}
	if dto.PickupWindowStart != nil && dto.PickupWindowEnd != nil {
		s.PickupWindow = &packet.PickupWindow{Start: *dto.PickupWindowStart, End: *dto.PickupWindowEnd}
	}

	return packet.RestorePacket(s)
}

func uuidPtr(id *kernel.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	raw := id.Bytes()
	return &raw
}

func kernelPtr(raw *uuid.UUID) *kernel.UUID {
	if raw == nil {
		return nil
	}
	id, err := kernel.UUIDFromBytes(raw[:])
	if err != nil {
		return nil
	}
	return &id
}

func coordinateColumns(c *kernel.Coordinates) (*float64, *float64) {
	if c == nil {
		return nil, nil
	}
	lat, lng := c.Lat(), c.Lng()
	return &lat, &lng
}

func coordinates(lat, lng *float64) (*kernel.Coordinates, error) {
	if lat == nil || lng == nil {
		return nil, nil
	}
	c, err := kernel.NewCoordinates(*lat, *lng)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
