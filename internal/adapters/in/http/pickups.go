package http

import (
	"net/http"

	"courier/internal/core/application/usecases/commands"

	"github.com/labstack/echo/v4"
)

// CreatePickup handles POST /api/v1/pickups. Customers book for themselves; admins may
// book on behalf of customerId.
func (s *Server) CreatePickup(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var body NewPickup
	if err = c.Bind(&body); err != nil {
		return err
	}

	customerID := actor.ID
	if body.CustomerID != "" {
		if customerID, err = requiredUUID("customerId", body.CustomerID); err != nil {
			return err
		}
	}
	booking, err := body.booking()
	if err != nil {
		return err
	}

	cmd, err := commands.NewCreatePickupRequestCommand(actor, customerID, booking)
	if err != nil {
		return err
	}
	p, req, err := s.h.CreatePickup.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, Booked{Packet: toPacket(p), Request: toPickupRequest(req)})
}

// AssignPickupAgent handles PUT /api/v1/pickups/:id/agent.
func (s *Server) AssignPickupAgent(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	requestID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	var body AgentAssignment
	if err = c.Bind(&body); err != nil {
		return err
	}
	agentID, err := requiredUUID("agentId", body.AgentID)
	if err != nil {
		return err
	}

	cmd, err := commands.NewAssignPickupAgentCommand(actor, requestID, agentID)
	if err != nil {
		return err
	}
	req, err := s.h.AssignPickupAgent.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPickupRequest(req))
}
