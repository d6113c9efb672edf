package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"courier/internal/core/domain/model/kernel"
	"courier/internal/core/domain/model/packet"
	"courier/internal/core/ports"
	"courier/internal/pkg/errs"
	"courier/internal/pkg/metrics"
)

// transitionRoles lists the roles allowed to run each lifecycle operation.
var transitionRoles = map[string][]kernel.Role{
	packet.TransitionConfirmDispatch:         {kernel.RoleAdmin},
	packet.TransitionConfirmCollection:       {kernel.RoleAdmin, kernel.RoleAgent},
	packet.TransitionConfirmAtOriginHub:      {kernel.RoleAdmin},
	packet.TransitionDispatch:                {kernel.RoleAdmin},
	packet.TransitionConfirmAtDestinationHub: {kernel.RoleAdmin},
	packet.TransitionOutForDelivery:          {kernel.RoleAdmin},
	packet.TransitionMarkDelivered:           {kernel.RoleAdmin, kernel.RoleAgent},
	packet.TransitionConfirmReceived:         {kernel.RoleAdmin, kernel.RoleCustomer},
	packet.TransitionPicked:                  {kernel.RoleAdmin},
	packet.TransitionMarkPaid:                {kernel.RoleAdmin, kernel.RoleAgent, kernel.RoleCustomer},
}

// PacketTransitionCommandHandler applies lifecycle operations. The HTTP API, the websocket
// gateway and the proximity engine all go through it, so automatic transitions get exactly
// the same checks as manual ones.
type PacketTransitionCommandHandler struct {
	uowFactory PacketUoWFactory
	directory  ports.AgentDirectory
	now        func() time.Time
}

func NewPacketTransitionCommandHandler(uowFactory PacketUoWFactory, directory ports.AgentDirectory) PacketTransitionCommandHandler {
	return PacketTransitionCommandHandler{
		uowFactory: uowFactory,
		directory:  directory,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Handle loads the packet under a row lock, applies the operation and commits.
//
// Errors:
//   - errs.ForbiddenError: role not allowed, or agent not assigned to the packet
//   - errs.ObjectNotFoundError: unknown packet (or delivery agent)
//   - errs.ConflictError: packet not in the operation's predecessor status
//   - errs.ValueIs*Error: invalid payload
func (h PacketTransitionCommandHandler) Handle(ctx context.Context, command PacketTransitionCommand) (result *packet.Packet, err error) {
	if err = command.Validate(); err != nil {
		return nil, err
	}
	defer func() {
		metrics.PacketTransitionsTotal.WithLabelValues(command.Transition(), command.Source(), outcome(err)).Inc()
	}()

	roles, ok := transitionRoles[command.Transition()]
	if !ok {
		return nil, fmt.Errorf("unknown packet transition %q", command.Transition())
	}
	if err = command.Actor().Require(command.Transition(), roles...); err != nil {
		return nil, err
	}
	if command.Transition() == packet.TransitionOutForDelivery {
		if err = h.ensureAgent(ctx, command.AgentID()); err != nil {
			return nil, err
		}
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	packetRepo := uow.PacketRepository()
	p, err := packetRepo.Get(ctx, command.PacketID())
	if err != nil {
		return nil, err
	}
	if err = authorizeAgent(command, p); err != nil {
		return nil, err
	}
	if err = h.apply(ctx, uow, command, p); err != nil {
		return nil, err
	}
	if err = packetRepo.Update(ctx, p); err != nil {
		return nil, err
	}
	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return p, nil
}

func (h PacketTransitionCommandHandler) apply(ctx context.Context, uow PacketUoW, command PacketTransitionCommand, p *packet.Packet) error {
	at := h.now()

	switch command.Transition() {
	case packet.TransitionConfirmDispatch:
		return p.ConfirmDispatch()
	case packet.TransitionConfirmCollection:
		return p.ConfirmCollection(command.Weight(), at)
	case packet.TransitionConfirmAtOriginHub:
		if err := p.ConfirmAtOriginHub(at); err != nil {
			return err
		}
		return completePickupRequest(ctx, uow.PickupRequestRepository(), p.ID())
	case packet.TransitionDispatch:
		if v := p.Vehicle(); v != nil && p.Status() == packet.AtOriginHub {
			return errs.NewConflictError("packet %s is loaded on vehicle %s; dispatch the vehicle", p.TrackingCode(), v)
		}
		return p.Dispatch(nil, at)
	case packet.TransitionConfirmAtDestinationHub:
		return p.ConfirmAtDestinationHub(at)
	case packet.TransitionOutForDelivery:
		return p.AssignDeliveryAgent(command.AgentID(), at)
	case packet.TransitionMarkDelivered:
		return p.MarkDelivered(command.Proof(), at)
	case packet.TransitionConfirmReceived:
		return p.ConfirmReceived(at)
	case packet.TransitionPicked:
		return p.MarkPicked(command.Proof(), at)
	case packet.TransitionMarkPaid:
		return p.MarkPaid(at)
	default:
		return fmt.Errorf("unknown packet transition %q", command.Transition())
	}
}

// authorizeAgent restricts field agents to the packets they were assigned.
func authorizeAgent(command PacketTransitionCommand, p *packet.Packet) error {
	actor := command.Actor()
	if !actor.Is(kernel.RoleAgent) {
		return nil
	}

	var assigned *kernel.UUID
	switch command.Transition() {
	case packet.TransitionConfirmCollection:
		assigned = p.PickupAgent()
	case packet.TransitionMarkDelivered:
		assigned = p.DeliveryAgent()
	default:
		return nil
	}
	if assigned == nil || !assigned.IsEqual(actor.ID) {
		return errs.NewForbiddenError(command.Transition()+" on a packet assigned to another agent", actor.Role.String())
	}
	return nil
}

func (h PacketTransitionCommandHandler) ensureAgent(ctx context.Context, userID kernel.UUID) error {
	role, err := h.directory.Role(ctx, userID)
	if err != nil {
		return err
	}
	if role != kernel.RoleAgent {
		return errs.NewValueIsInvalidErrorWithCause("agent", fmt.Errorf("user %s has role %s", userID, role))
	}
	return nil
}

// completePickupRequest closes the booking of a packet that reached the origin hub.
// Packets registered without a booking have nothing to close.
func completePickupRequest(ctx context.Context, repo ports.PickupRequestRepository, packetID kernel.UUID) error {
	request, err := repo.GetByPacket(ctx, packetID)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	request.Complete()
	return repo.Update(ctx, request)
}

// outcome classifies err for the transitions counter.
func outcome(err error) string {
	switch {
	case err == nil:
		return "applied"
	case errors.Is(err, errs.ErrConflict):
		return "conflict"
	case errors.Is(err, errs.ErrForbidden), errors.Is(err, errs.ErrObjectNotFound), errs.IsBadRequest(err):
		return "rejected"
	default:
		return "failed"
	}
}
