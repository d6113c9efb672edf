package commands

import (
	"context"
	"fmt"
	"time"

	"courier/internal/core/domain/model/kernel"
	"courier/internal/core/domain/model/pickup"
	"courier/internal/core/ports"
	"courier/internal/pkg/errs"
)

// AssignPickupAgentCommandHandler binds an agent to both the request and its still-pending packet.
type AssignPickupAgentCommandHandler struct {
	uowFactory PacketUoWFactory
	directory  ports.AgentDirectory
}

func NewAssignPickupAgentCommandHandler(uowFactory PacketUoWFactory, directory ports.AgentDirectory) AssignPickupAgentCommandHandler {
	return AssignPickupAgentCommandHandler{
		uowFactory: uowFactory,
		directory:  directory,
	}
}

func (h AssignPickupAgentCommandHandler) Handle(ctx context.Context, command AssignPickupAgentCommand) (*pickup.Request, error) {
	if err := command.Validate(); err != nil {
		return nil, err
	}
	if err := command.Actor().Require("assign a pickup agent", kernel.RoleAdmin); err != nil {
		return nil, err
	}

	role, err := h.directory.Role(ctx, command.AgentID())
	if err != nil {
		return nil, err
	}
	if role != kernel.RoleAgent {
		return nil, errs.NewValueIsInvalidErrorWithCause("agent", fmt.Errorf("user %s has role %s", command.AgentID(), role))
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	requestRepo := uow.PickupRequestRepository()
	packetRepo := uow.PacketRepository()

	request, err := requestRepo.Get(ctx, command.RequestID())
	if err != nil {
		return nil, err
	}
	p, err := packetRepo.Get(ctx, request.PacketID())
	if err != nil {
		return nil, err
	}

	if err = p.AssignPickupAgent(command.AgentID(), time.Now().UTC()); err != nil {
		return nil, err
	}
	if err = request.AssignAgent(command.AgentID()); err != nil {
		return nil, err
	}

	if err = packetRepo.Update(ctx, p); err != nil {
		return nil, err
	}
	if err = requestRepo.Update(ctx, request); err != nil {
		return nil, err
	}
	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return request, nil
}
