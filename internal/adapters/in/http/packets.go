package http

import (
	"net/http"

	"courier/internal/core/application/usecases/commands"
	"courier/internal/core/application/usecases/queries"
	"courier/internal/core/domain/model/kernel"

	"github.com/labstack/echo/v4"
)

type transitionBuilder func(packetID kernel.UUID, actor kernel.Actor) (commands.PacketTransitionCommand, error)

// transition runs one lifecycle operation on the packet named by :id and renders the result.
func (s *Server) transition(c echo.Context, build transitionBuilder) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	packetID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	cmd, err := build(packetID, actor)
	if err != nil {
		return err
	}
	p, err := s.h.Transitions.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPacket(p))
}

func (s *Server) ConfirmDispatch(c echo.Context) error {
	return s.transition(c, commands.NewConfirmDispatchCommand)
}

// ConfirmCollection accepts an optional measured weight.
func (s *Server) ConfirmCollection(c echo.Context) error {
	var body CollectRequest
	if err := c.Bind(&body); err != nil {
		return err
	}
	return s.transition(c, func(id kernel.UUID, actor kernel.Actor) (commands.PacketTransitionCommand, error) {
		return commands.NewConfirmCollectionCommand(id, actor, body.Weight)
	})
}

func (s *Server) ConfirmAtOriginHub(c echo.Context) error {
	return s.transition(c, commands.NewConfirmAtOriginHubCommand)
}

func (s *Server) DispatchPacket(c echo.Context) error {
	return s.transition(c, commands.NewDispatchPacketCommand)
}

func (s *Server) ConfirmAtDestinationHub(c echo.Context) error {
	return s.transition(c, commands.NewConfirmAtDestinationHubCommand)
}

func (s *Server) AssignDeliveryAgent(c echo.Context) error {
	var body AgentAssignment
	if err := c.Bind(&body); err != nil {
		return err
	}
	agentID, err := requiredUUID("agentId", body.AgentID)
	if err != nil {
		return err
	}
	return s.transition(c, func(id kernel.UUID, actor kernel.Actor) (commands.PacketTransitionCommand, error) {
		return commands.NewAssignDeliveryAgentCommand(id, actor, agentID)
	})
}

func (s *Server) MarkDelivered(c echo.Context) error {
	var body DeliverRequest
	if err := c.Bind(&body); err != nil {
		return err
	}
	return s.transition(c, func(id kernel.UUID, actor kernel.Actor) (commands.PacketTransitionCommand, error) {
		return commands.NewMarkDeliveredCommand(id, actor, body.Signature, body.NationalID)
	})
}

func (s *Server) ConfirmReceived(c echo.Context) error {
	return s.transition(c, commands.NewConfirmReceivedCommand)
}

func (s *Server) MarkPicked(c echo.Context) error {
	var body PickedRequest
	if err := c.Bind(&body); err != nil {
		return err
	}
	return s.transition(c, func(id kernel.UUID, actor kernel.Actor) (commands.PacketTransitionCommand, error) {
		return commands.NewMarkPickedCommand(id, actor, body.Signature)
	})
}

func (s *Server) MarkPaid(c echo.Context) error {
	return s.transition(c, commands.NewMarkPaidCommand)
}

// GetPacketByTrackingCode handles GET /api/v1/packets/:tracking. It needs no identity.
func (s *Server) GetPacketByTrackingCode(c echo.Context) error {
	query, err := queries.NewGetPacketByTrackingCodeQuery(c.Param("tracking"))
	if err != nil {
		return err
	}
	view, err := s.h.TrackingCode.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}

// ListPackets handles GET /api/v1/packets?status=&city=.
func (s *Server) ListPackets(c echo.Context) error {
	query, err := queries.NewListPacketsQuery(c.QueryParam("status"), c.QueryParam("city"))
	if err != nil {
		return err
	}
	packets, err := s.h.ListPackets.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, packets)
}
