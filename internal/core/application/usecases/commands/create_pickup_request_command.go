package commands

import (
	"errors"

	"courier/internal/core/domain/model/kernel"
	"courier/internal/core/domain/model/packet"
	"courier/internal/pkg/guard"
)

var ErrCreatePickupRequestCommandIsNotConstructed = errors.New(
	"CreatePickupRequestCommand must be created via NewCreatePickupRequestCommand constructor",
)

// CreatePickupRequestCommand books a pickup: it creates the packet and its pickup request.
//
// Example:
//
//	cmd, err := NewCreatePickupRequestCommand(actor, actor.ID, booking)
//	p, err := handler.Handle(ctx, cmd)
//	fmt.Println(p.TrackingCode()) // TRK-1A2B3C4D
type CreatePickupRequestCommand struct {
	actor      kernel.Actor
	customerID kernel.UUID
	booking    packet.Booking
	guard      guard.ConstructorGuard
}

// NewCreatePickupRequestCommand validates identifiers only; the booking itself is validated
// by packet.NewPacket.
func NewCreatePickupRequestCommand(actor kernel.Actor, customerID kernel.UUID, booking packet.Booking) (CreatePickupRequestCommand, error) {
	if err := errors.Join(actor.ID.Validate(), actor.Role.Validate(), customerID.Validate()); err != nil {
		return CreatePickupRequestCommand{}, err
	}
	return CreatePickupRequestCommand{
		actor:      actor,
		customerID: customerID,
		booking:    booking,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c CreatePickupRequestCommand) Actor() kernel.Actor {
	return c.actor
}

func (c CreatePickupRequestCommand) CustomerID() kernel.UUID {
	return c.customerID
}

func (c CreatePickupRequestCommand) Booking() packet.Booking {
	return c.booking
}

func (c CreatePickupRequestCommand) Validate() error {
	return c.guard.Validate(ErrCreatePickupRequestCommandIsNotConstructed)
}
