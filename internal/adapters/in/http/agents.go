package http

import (
	"net/http"

	"courier/internal/core/domain/model/kernel"

	"github.com/labstack/echo/v4"
)

// GetAgentLocations handles GET /api/v1/agents/locations. Admins only.
func (s *Server) GetAgentLocations(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	if err = actor.Require("list agent locations", kernel.RoleAdmin); err != nil {
		return err
	}

	conns := s.h.Agents.Connected()
	out := make([]AgentLocation, 0, len(conns))
	for _, conn := range conns {
		loc := AgentLocation{
			AgentID:     conn.AgentID,
			Location:    conn.Location,
			ConnectedAt: conn.ConnectedAt,
		}
		if conn.Location != nil {
			updatedAt := conn.LocationUpdatedAt
			loc.UpdatedAt = &updatedAt
		}
		out = append(out, loc)
	}
	return c.JSON(http.StatusOK, out)
}
