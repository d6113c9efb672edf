package commands

import (
	"context"
	"time"

	"courier/internal/core/domain/model/kernel"
	"courier/internal/core/domain/model/packet"
	"courier/internal/core/domain/model/pickup"
	"courier/internal/pkg/errs"
)

// CreatePickupRequestCommandHandler stores a new pending packet together with its booking.
// Customers book for themselves; admins may book on behalf of any customer.
type CreatePickupRequestCommandHandler struct {
	uowFactory PacketUoWFactory
}

func NewCreatePickupRequestCommandHandler(uowFactory PacketUoWFactory) CreatePickupRequestCommandHandler {
	return CreatePickupRequestCommandHandler{uowFactory: uowFactory}
}

func (h CreatePickupRequestCommandHandler) Handle(ctx context.Context, command CreatePickupRequestCommand) (*packet.Packet, *pickup.Request, error) {
	if err := command.Validate(); err != nil {
		return nil, nil, err
	}

	actor := command.Actor()
	if err := actor.Require("book a pickup", kernel.RoleCustomer, kernel.RoleAdmin); err != nil {
		return nil, nil, err
	}
	if actor.Is(kernel.RoleCustomer) && !actor.ID.IsEqual(command.CustomerID()) {
		return nil, nil, errs.NewForbiddenError("book a pickup for another customer", actor.Role.String())
	}

	now := time.Now().UTC()
	p, err := packet.NewPacket(kernel.NewUUID(), command.Booking(), now)
	if err != nil {
		return nil, nil, err
	}
	request, err := pickup.NewRequest(kernel.NewUUID(), command.CustomerID(), p.ID(), p.OriginAddress(), now)
	if err != nil {
		return nil, nil, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, nil, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.PacketRepository().Add(ctx, p); err != nil {
		return nil, nil, err
	}
	if err = uow.PickupRequestRepository().Add(ctx, request); err != nil {
		return nil, nil, err
	}
	if err = uow.Commit(ctx); err != nil {
		return nil, nil, err
	}

	return p, request, nil
}
