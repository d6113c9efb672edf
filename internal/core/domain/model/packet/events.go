package packet

import (
	"time"

	"courier/internal/core/domain/model/kernel"
)

// Domain event names.
const (
	EventStatusChanged = "packet_status_changed"
	EventAssigned      = "packet_assigned"
	EventPaid          = "packet_paid"
)

// Event is recorded by the aggregate and published by the unit of work after commit.
type Event struct {
	Name         string       `json:"event"`
	PacketID     kernel.UUID  `json:"packetId"`
	TrackingCode string       `json:"trackingCode"`
	Transition   string       `json:"transition,omitempty"`
	From         Status       `json:"from"`
	To           Status       `json:"to"`
	AssigneeID   *kernel.UUID `json:"assigneeId,omitempty"`
	OccurredAt   time.Time    `json:"occurredAt"`
}
