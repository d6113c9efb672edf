package commands

import (
	"errors"

	"courier/internal/core/domain/model/kernel"
	"courier/internal/pkg/guard"
)

var ErrAssignPickupAgentCommandIsNotConstructed = errors.New(
	"AssignPickupAgentCommand must be created via NewAssignPickupAgentCommand constructor",
)

// AssignPickupAgentCommand sends a field agent to collect the packet of a pickup request.
type AssignPickupAgentCommand struct {
	actor     kernel.Actor
	requestID kernel.UUID
	agentID   kernel.UUID
	guard     guard.ConstructorGuard
}

func NewAssignPickupAgentCommand(actor kernel.Actor, requestID, agentID kernel.UUID) (AssignPickupAgentCommand, error) {
	if err := errors.Join(actor.ID.Validate(), requestID.Validate(), agentID.Validate()); err != nil {
		return AssignPickupAgentCommand{}, err
	}
	return AssignPickupAgentCommand{
		actor:     actor,
		requestID: requestID,
		agentID:   agentID,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c AssignPickupAgentCommand) Actor() kernel.Actor {
	return c.actor
}

func (c AssignPickupAgentCommand) RequestID() kernel.UUID {
	return c.requestID
}

func (c AssignPickupAgentCommand) AgentID() kernel.UUID {
	return c.agentID
}

func (c AssignPickupAgentCommand) Validate() error {
	return c.guard.Validate(ErrAssignPickupAgentCommandIsNotConstructed)
}
