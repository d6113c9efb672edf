package packet

import (
	"time"

	"courier/internal/core/domain/model/kernel"
	"courier/internal/pkg/guard"
)

// Snapshot is the flat, persistable state of a Packet. Repositories map it to rows;
// the domain never exposes it for mutation.
type Snapshot struct {
	ID           kernel.UUID
	TrackingCode string
	Status       Status

	Description  string
	Category     string
	Instructions string
	Weight       float64

	Sender   Contact
	Receiver Contact

	OriginAddress      string
	Origin             *kernel.Coordinates
	DestinationAddress string
	Destination        *kernel.Coordinates
	DestinationHub     string
	Mode               DeliveryMode
	PickupWindow       *PickupWindow

	PickupAgentID   *kernel.UUID
	DeliveryAgentID *kernel.UUID
	DriverID        *kernel.UUID
	VehicleID       *kernel.UUID

	CreatedAt                 time.Time
	CollectedAt               *time.Time
	OriginHubConfirmedAt      *time.Time
	DispatchedAt              *time.Time
	DestinationHubConfirmedAt *time.Time
	OutForDeliveryAt          *time.Time
	DeliveredAt               *time.Time

	ConfirmedByOrigin bool
	IsPaid            bool
	Proof             ProofOfDelivery
}

// RestorePacket rebuilds a packet from storage. Only the identifier and the status are
// checked; stored rows are trusted otherwise.
func RestorePacket(s Snapshot) (*Packet, error) {
	if err := s.ID.Validate(); err != nil {
		return nil, err
	}
	if err := s.Status.Validate(); err != nil {
		return nil, err
	}

	return &Packet{
		id:                        s.ID,
		trackingCode:              s.TrackingCode,
		status:                    s.Status,
		description:               s.Description,
		category:                  s.Category,
		instructions:              s.Instructions,
		weight:                    s.Weight,
		sender:                    s.Sender,
		receiver:                  s.Receiver,
		originAddress:             s.OriginAddress,
		origin:                    s.Origin,
		destinationAddress:        s.DestinationAddress,
		destination:               s.Destination,
		destinationHub:            s.DestinationHub,
		mode:                      s.Mode,
		pickupWindow:              s.PickupWindow,
		pickupAgentID:             s.PickupAgentID,
		deliveryAgentID:           s.DeliveryAgentID,
		driverID:                  s.DriverID,
		vehicleID:                 s.VehicleID,
		createdAt:                 s.CreatedAt,
		collectedAt:               s.CollectedAt,
		originHubConfirmedAt:      s.OriginHubConfirmedAt,
		dispatchedAt:              s.DispatchedAt,
		destinationHubConfirmedAt: s.DestinationHubConfirmedAt,
		outForDeliveryAt:          s.OutForDeliveryAt,
		deliveredAt:               s.DeliveredAt,
		confirmedByOrigin:         s.ConfirmedByOrigin,
		isPaid:                    s.IsPaid,
		proof:                     s.Proof,
		guard:                     guard.NewConstructorGuard(),
	}, nil
}

// Snapshot returns a copy of the packet state for persistence.
func (p *Packet) Snapshot() Snapshot {
	return Snapshot{
		ID:                        p.id,
		TrackingCode:              p.trackingCode,
		Status:                    p.status,
		Description:               p.description,
		Category:                  p.category,
		Instructions:              p.instructions,
		Weight:                    p.weight,
		Sender:                    p.sender,
		Receiver:                  p.receiver,
		OriginAddress:             p.originAddress,
		Origin:                    p.origin,
		DestinationAddress:        p.destinationAddress,
		Destination:               p.destination,
		DestinationHub:            p.destinationHub,
		Mode:                      p.mode,
		PickupWindow:              p.pickupWindow,
		PickupAgentID:             p.pickupAgentID,
		DeliveryAgentID:           p.deliveryAgentID,
		DriverID:                  p.driverID,
		VehicleID:                 p.vehicleID,
		CreatedAt:                 p.createdAt,
		CollectedAt:               p.collectedAt,
		OriginHubConfirmedAt:      p.originHubConfirmedAt,
		DispatchedAt:              p.dispatchedAt,
		DestinationHubConfirmedAt: p.destinationHubConfirmedAt,
		OutForDeliveryAt:          p.outForDeliveryAt,
		DeliveredAt:               p.deliveredAt,
		ConfirmedByOrigin:         p.confirmedByOrigin,
		IsPaid:                    p.isPaid,
		Proof:                     p.proof,
	}
}
