// Package queries holds the read models. Handlers run plain SQL through gorm and never
// load aggregates, so they do not take row locks.
package queries

import (
	"errors"

	"courier/internal/core/domain/model/kernel"
	"courier/internal/core/domain/model/packet"
	"courier/internal/pkg/guard"
)

var ErrGetAgentPacketsQueryIsNotConstructed = errors.New(
	"GetAgentPacketsQuery must be created via NewGetAgentPacketsQuery constructor",
)

// Assignment tells which leg of the journey an agent handles for a packet.
type Assignment string

const (
	AssignmentPickup   Assignment = "pickup"
	AssignmentDelivery Assignment = "delivery"
)

// GetAgentPacketsQuery lists the packets an agent still has to act on: pending packets
// they must collect and out_for_delivery packets they must hand over.
type GetAgentPacketsQuery struct {
	agentID kernel.UUID
	guard   guard.ConstructorGuard
}

func NewGetAgentPacketsQuery(agentID kernel.UUID) (GetAgentPacketsQuery, error) {
	if err := agentID.Validate(); err != nil {
		return GetAgentPacketsQuery{}, err
	}
	return GetAgentPacketsQuery{agentID: agentID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetAgentPacketsQuery) AgentID() kernel.UUID {
	return q.agentID
}

func (q GetAgentPacketsQuery) Validate() error {
	return q.guard.Validate(ErrGetAgentPacketsQueryIsNotConstructed)
}

// AgentPacket is the waypoint view of one packet. Origin or Destination is nil when the
// booking carried no coordinates.
type AgentPacket struct {
	ID                 kernel.UUID         `json:"id"`
	TrackingCode       string              `json:"trackingCode"`
	Status             packet.Status       `json:"status"`
	Assignment         Assignment          `json:"assignment"`
	OriginAddress      string              `json:"originAddress"`
	Origin             *kernel.Coordinates `json:"origin,omitempty"`
	DestinationAddress string              `json:"destinationAddress"`
	Destination        *kernel.Coordinates `json:"destination,omitempty"`
	ReceiverName       string              `json:"receiverName"`
	ReceiverPhone      string              `json:"receiverPhone"`
}

// Waypoint returns the location the agent is heading to for this packet.
func (p AgentPacket) Waypoint() *kernel.Coordinates {
	if p.Assignment == AssignmentPickup {
		return p.Origin
	}
	return p.Destination
}
