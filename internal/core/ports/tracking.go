package ports

import (
	"context"

	"courier/internal/core/domain/model/kernel"
)

// Event names relayed to agents and dashboards.
const (
	EventAssignedPackets       = "assigned_packets"
	EventAgentLocationUpdated  = "agent_location_updated"
	EventLocationReached       = "location_reached"
	EventPacketLocationReached = "packet_location_reached"
	EventPacketStatusChanged   = "packet_status_changed"
	EventPacketAssigned        = "packet_assigned"
	EventPacketPaid            = "packet_paid"
	EventError                 = "error"
)

// Event is a structured notification. Payload must be JSON-serialisable.
type Event struct {
	Name    string `json:"event"`
	Payload any    `json:"data"`
}

// ErrorPayload is the payload of an EventError.
type ErrorPayload struct {
	Message string `json:"message"`
}

// Notifier fans events out to every interested observer. Delivery is best effort.
type Notifier interface {
	Broadcast(ctx context.Context, event Event)
}

// AgentSession is the live connection of one agent.
type AgentSession interface {
	Send(ctx context.Context, event Event) error
	Close() error
}

// AgentDirectory resolves the role of a user. It returns errs.ObjectNotFoundError for
// unknown users.
type AgentDirectory interface {
	Role(ctx context.Context, userID kernel.UUID) (kernel.Role, error)
}
