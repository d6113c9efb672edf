package commands

import (
	"errors"
	"fmt"

	"courier/internal/core/domain/model/kernel"
	"courier/internal/core/domain/model/packet"
	"courier/internal/pkg/errs"
	"courier/internal/pkg/guard"
	"courier/internal/pkg/metrics"
)

var ErrPacketTransitionCommandIsNotConstructed = errors.New(
	"PacketTransitionCommand must be created via one of the New...Command constructors",
)

// PacketTransitionCommand requests one named lifecycle operation on one packet.
// Build it with the constructor of the operation, e.g. NewConfirmCollectionCommand.
type PacketTransitionCommand struct {
	transition string
	packetID   kernel.UUID
	actor      kernel.Actor
	source     string

	weight  *float64
	agentID kernel.UUID
	proof   packet.ProofOfDelivery

	guard guard.ConstructorGuard
}

func newTransitionCommand(transition string, packetID kernel.UUID, actor kernel.Actor) (PacketTransitionCommand, error) {
	if err := errors.Join(packetID.Validate(), actor.ID.Validate(), actor.Role.Validate()); err != nil {
		return PacketTransitionCommand{}, err
	}
	return PacketTransitionCommand{
		transition: transition,
		packetID:   packetID,
		actor:      actor,
		source:     metrics.SourceAPI,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// NewConfirmDispatchCommand: admin confirms a pending packet on behalf of the origin office.
func NewConfirmDispatchCommand(packetID kernel.UUID, actor kernel.Actor) (PacketTransitionCommand, error) {
	return newTransitionCommand(packet.TransitionConfirmDispatch, packetID, actor)
}

// NewConfirmCollectionCommand: the pickup agent has the packet. weight, when set, corrects
// the booked weight.
func NewConfirmCollectionCommand(packetID kernel.UUID, actor kernel.Actor, weight *float64) (PacketTransitionCommand, error) {
	cmd, err := newTransitionCommand(packet.TransitionConfirmCollection, packetID, actor)
	if err != nil {
		return cmd, err
	}
	if weight != nil {
		if !(*weight > 0) {
			return PacketTransitionCommand{}, errs.NewValueIsInvalidErrorWithCause("weight", fmt.Errorf("%.2f is not greater than 0", *weight))
		}
		w := *weight
		cmd.weight = &w
	}
	return cmd, nil
}

func NewConfirmAtOriginHubCommand(packetID kernel.UUID, actor kernel.Actor) (PacketTransitionCommand, error) {
	return newTransitionCommand(packet.TransitionConfirmAtOriginHub, packetID, actor)
}

// NewDispatchPacketCommand sends a single packet on its way with whatever vehicle it is bound to.
func NewDispatchPacketCommand(packetID kernel.UUID, actor kernel.Actor) (PacketTransitionCommand, error) {
	return newTransitionCommand(packet.TransitionDispatch, packetID, actor)
}

func NewConfirmAtDestinationHubCommand(packetID kernel.UUID, actor kernel.Actor) (PacketTransitionCommand, error) {
	return newTransitionCommand(packet.TransitionConfirmAtDestinationHub, packetID, actor)
}

// NewAssignDeliveryAgentCommand puts the packet out for delivery with agentID.
func NewAssignDeliveryAgentCommand(packetID kernel.UUID, actor kernel.Actor, agentID kernel.UUID) (PacketTransitionCommand, error) {
	cmd, err := newTransitionCommand(packet.TransitionOutForDelivery, packetID, actor)
	if err != nil {
		return cmd, err
	}
	if err = agentID.Validate(); err != nil {
		return PacketTransitionCommand{}, err
	}
	cmd.agentID = agentID
	return cmd, nil
}

// NewMarkDeliveredCommand records the hand-over. Signature and national id are optional.
func NewMarkDeliveredCommand(packetID kernel.UUID, actor kernel.Actor, signatureBase64, nationalID string) (PacketTransitionCommand, error) {
	cmd, err := newTransitionCommand(packet.TransitionMarkDelivered, packetID, actor)
	if err != nil {
		return cmd, err
	}
	cmd.proof = packet.ProofOfDelivery{SignatureBase64: signatureBase64, NationalID: nationalID}
	return cmd, nil
}

func NewConfirmReceivedCommand(packetID kernel.UUID, actor kernel.Actor) (PacketTransitionCommand, error) {
	return newTransitionCommand(packet.TransitionConfirmReceived, packetID, actor)
}

// NewMarkPickedCommand is the admin hand-off shortcut straight to delivered.
func NewMarkPickedCommand(packetID kernel.UUID, actor kernel.Actor, signatureBase64 string) (PacketTransitionCommand, error) {
	cmd, err := newTransitionCommand(packet.TransitionPicked, packetID, actor)
	if err != nil {
		return cmd, err
	}
	if signatureBase64 == "" {
		return PacketTransitionCommand{}, errs.NewValueIsRequiredError("signature")
	}
	cmd.proof = packet.ProofOfDelivery{SignatureBase64: signatureBase64}
	return cmd, nil
}

func NewMarkPaidCommand(packetID kernel.UUID, actor kernel.Actor) (PacketTransitionCommand, error) {
	return newTransitionCommand(packet.TransitionMarkPaid, packetID, actor)
}

// WithSource labels the command with its trigger (metrics.SourceAPI, SourceProximity, SourceSocket).
func (c PacketTransitionCommand) WithSource(source string) PacketTransitionCommand {
	c.source = source
	return c
}

func (c PacketTransitionCommand) Transition() string {
	return c.transition
}

func (c PacketTransitionCommand) PacketID() kernel.UUID {
	return c.packetID
}

func (c PacketTransitionCommand) Actor() kernel.Actor {
	return c.actor
}

func (c PacketTransitionCommand) Source() string {
	return c.source
}

func (c PacketTransitionCommand) Weight() *float64 {
	return c.weight
}

func (c PacketTransitionCommand) AgentID() kernel.UUID {
	return c.agentID
}

func (c PacketTransitionCommand) Proof() packet.ProofOfDelivery {
	return c.proof
}

func (c PacketTransitionCommand) Validate() error {
	return c.guard.Validate(ErrPacketTransitionCommandIsNotConstructed)
}
