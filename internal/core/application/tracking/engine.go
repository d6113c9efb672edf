package tracking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"courier/internal/core/application/usecases/commands"
	"courier/internal/core/application/usecases/queries"
	"courier/internal/core/domain/model/kernel"
	"courier/internal/core/domain/model/packet"
	"courier/internal/core/ports"
	"courier/internal/pkg/errs"
	"courier/internal/pkg/metrics"
)

// DefaultThresholdMeters is how close an agent must be to a waypoint to trigger a transition.
const DefaultThresholdMeters = 50.0

// TransitionHandler applies lifecycle operations; commands.PacketTransitionCommandHandler
// satisfies it.
type TransitionHandler interface {
	Handle(ctx context.Context, command commands.PacketTransitionCommand) (*packet.Packet, error)
}

// AgentPacketsFinder lists the packets an agent still has to act on.
type AgentPacketsFinder interface {
	Handle(ctx context.Context, query queries.GetAgentPacketsQuery) ([]queries.AgentPacket, error)
}

// Engine connects agents and advances packets from their location samples.
//
// Distances are planar: the Euclidean norm of the latitude and longitude deltas in
// degrees. The threshold is configured in metres and converted once at construction.
type Engine struct {
	registry    *Registry
	transitions TransitionHandler
	packets     AgentPacketsFinder
	notifier    ports.Notifier
	directory   ports.AgentDirectory
	threshold   float64
	logger      *slog.Logger
}

func NewEngine(
	registry *Registry,
	transitions TransitionHandler,
	packets AgentPacketsFinder,
	notifier ports.Notifier,
	directory ports.AgentDirectory,
	thresholdMeters float64,
	logger *slog.Logger,
) (*Engine, error) {
	if registry == nil || transitions == nil || packets == nil || notifier == nil || directory == nil {
		return nil, errors.New("tracking engine: all collaborators are required")
	}
	if !(thresholdMeters > 0) {
		return nil, errs.NewValueIsInvalidErrorWithCause("proximity threshold",
			fmt.Errorf("%.2f metres is not greater than 0", thresholdMeters))
	}
	return &Engine{
		registry:    registry,
		transitions: transitions,
		packets:     packets,
		notifier:    notifier,
		directory:   directory,
		threshold:   kernel.MetersToDegrees(thresholdMeters),
		logger:      logger.With("component", "tracking_engine"),
	}, nil
}

// ThresholdDegrees is the configured threshold in the planar metric.
func (e *Engine) ThresholdDegrees() float64 {
	return e.threshold
}

func (e *Engine) Registry() *Registry {
	return e.registry
}

// Connect registers an agent session and pushes the agent's open assignments to it.
// Non-agents are refused with Forbidden and their session is closed.
func (e *Engine) Connect(ctx context.Context, agentID kernel.UUID, session ports.AgentSession) error {
	role, err := e.directory.Role(ctx, agentID)
	if err == nil && role != kernel.RoleAgent {
		err = errs.NewForbiddenError("connect to agent tracking", role.String())
	}
	if err != nil {
		e.send(ctx, session, agentID, ports.Event{Name: ports.EventError, Payload: ports.ErrorPayload{Message: err.Error()}})
		_ = session.Close()
		return err
	}

	if replaced := e.registry.Register(agentID, session); replaced != nil {
		e.logger.InfoContext(ctx, "Agent reconnected, previous session closed", "agent_id", agentID.String())
	} else {
		e.logger.InfoContext(ctx, "Agent connected", "agent_id", agentID.String())
	}

	assigned, err := e.agentPackets(ctx, agentID)
	if err != nil {
		e.logger.ErrorContext(ctx, "Failed to load assigned packets", "agent_id", agentID.String(), "error", err)
		return nil
	}
	e.send(ctx, session, agentID, ports.Event{Name: ports.EventAssignedPackets, Payload: assigned})
	return nil
}

// Disconnect forgets the agent if session is still its current one. Transitions already
// applied stay applied.
func (e *Engine) Disconnect(ctx context.Context, agentID kernel.UUID, session ports.AgentSession) {
	if e.registry.Remove(agentID, session) {
		e.logger.InfoContext(ctx, "Agent disconnected", "agent_id", agentID.String())
	}
}

// LocationUpdate is broadcast for every accepted sample.
type LocationUpdate struct {
	AgentID   kernel.UUID `json:"agentId"`
	Lat       float64     `json:"lat"`
	Lng       float64     `json:"lng"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// LocationReached describes one automatic transition.
type LocationReached struct {
	AgentID      kernel.UUID   `json:"agentId"`
	PacketID     kernel.UUID   `json:"packetId"`
	TrackingCode string        `json:"trackingCode"`
	Status       packet.Status `json:"status"`
	Waypoint     string        `json:"waypoint"`
	Distance     float64       `json:"distanceMeters"`
}

// UpdateLocation records a sample and fires every transition whose waypoint is within
// the threshold. Only an unknown agent is reported to the caller; transition failures
// are logged.
func (e *Engine) UpdateLocation(ctx context.Context, agentID kernel.UUID, location kernel.Coordinates) error {
	if err := location.Validate(); err != nil {
		return err
	}
	release, err := e.registry.acquire(agentID)
	if err != nil {
		return err
	}
	defer release()

	if err = e.registry.UpdateLocation(agentID, location); err != nil {
		return err
	}
	e.notifier.Broadcast(ctx, ports.Event{
		Name: ports.EventAgentLocationUpdated,
		Payload: LocationUpdate{
			AgentID:   agentID,
			Lat:       location.Lat(),
			Lng:       location.Lng(),
			UpdatedAt: time.Now().UTC(),
		},
	})

	assigned, err := e.agentPackets(ctx, agentID)
	if err != nil {
		e.logger.ErrorContext(ctx, "Failed to load agent packets", "agent_id", agentID.String(), "error", err)
		return nil
	}

	for _, p := range assigned {
		e.checkProximity(ctx, agentID, location, p)
	}
	return nil
}

func (e *Engine) checkProximity(ctx context.Context, agentID kernel.UUID, location kernel.Coordinates, p queries.AgentPacket) {
	waypoint := p.Waypoint()
	if waypoint == nil {
		return
	}

	distance := location.PlanarDistance(*waypoint)
	within := distance < e.threshold
	metrics.ProximityChecksTotal.WithLabelValues(string(p.Assignment), strconv.FormatBool(within)).Inc()
	if !within {
		return
	}

	agent := kernel.Actor{ID: agentID, Role: kernel.RoleAgent}
	var (
		cmd commands.PacketTransitionCommand
		err error
	)
	switch p.Status {
	case packet.Pending:
		cmd, err = commands.NewConfirmCollectionCommand(p.ID, agent, nil)
	case packet.OutForDelivery:
		cmd, err = commands.NewMarkDeliveredCommand(p.ID, agent, "", "")
	default:
		return
	}
	if err != nil {
		e.logger.ErrorContext(ctx, "Failed to build proximity transition", "packet_id", p.ID.String(), "error", err)
		return
	}

	updated, err := e.transitions.Handle(ctx, cmd.WithSource(metrics.SourceProximity))
	switch {
	case errors.Is(err, errs.ErrConflict):
		e.logger.DebugContext(ctx, "Proximity transition already applied",
			"packet_id", p.ID.String(), "transition", cmd.Transition(), "error", err)
		return
	case err != nil:
		e.logger.ErrorContext(ctx, "Proximity transition failed",
			"packet_id", p.ID.String(), "transition", cmd.Transition(), "error", err)
		return
	}

	reached := LocationReached{
		AgentID:      agentID,
		PacketID:     updated.ID(),
		TrackingCode: updated.TrackingCode(),
		Status:       updated.Status(),
		Waypoint:     string(p.Assignment),
		Distance:     distance * kernel.MetersPerDegree,
	}
	e.logger.InfoContext(ctx, "Packet advanced by proximity",
		"packet_id", updated.ID().String(), "tracking_code", updated.TrackingCode(), "status", updated.Status().String())

	if conn, ok := e.registry.Get(agentID); ok {
		e.send(ctx, conn.Session, agentID, ports.Event{Name: ports.EventLocationReached, Payload: reached})
	}
	e.notifier.Broadcast(ctx, ports.Event{Name: ports.EventPacketLocationReached, Payload: reached})
}

// PacketStatusUpdate is a status report sent by an agent over its session.
type PacketStatusUpdate struct {
	PacketID        kernel.UUID
	Status          string
	Weight          *float64
	SignatureBase64 string
	NationalID      string
}

// UpdatePacketStatus applies an agent's explicit report. Only "collected" and "delivered"
// are agent operations; anything else is a BadRequest.
func (e *Engine) UpdatePacketStatus(ctx context.Context, agentID kernel.UUID, update PacketStatusUpdate) (*packet.Packet, error) {
	release, err := e.registry.acquire(agentID)
	if err != nil {
		return nil, err
	}
	defer release()

	agent := kernel.Actor{ID: agentID, Role: kernel.RoleAgent}
	var cmd commands.PacketTransitionCommand
	switch update.Status {
	case packet.Collected.String():
		cmd, err = commands.NewConfirmCollectionCommand(update.PacketID, agent, update.Weight)
	case packet.Delivered.String():
		cmd, err = commands.NewMarkDeliveredCommand(update.PacketID, agent, update.SignatureBase64, update.NationalID)
	default:
		return nil, errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("agents may report %s or %s, got %q", packet.Collected, packet.Delivered, update.Status))
	}
	if err != nil {
		return nil, err
	}

	return e.transitions.Handle(ctx, cmd.WithSource(metrics.SourceSocket))
}

func (e *Engine) agentPackets(ctx context.Context, agentID kernel.UUID) ([]queries.AgentPacket, error) {
	query, err := queries.NewGetAgentPacketsQuery(agentID)
	if err != nil {
		return nil, err
	}
	return e.packets.Handle(ctx, query)
}

func (e *Engine) send(ctx context.Context, session ports.AgentSession, agentID kernel.UUID, event ports.Event) {
	if err := session.Send(ctx, event); err != nil {
		e.logger.WarnContext(ctx, "Failed to send event to agent",
			"agent_id", agentID.String(), "event", event.Name, "error", err)
	}
}
