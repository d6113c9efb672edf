// Package ws is the websocket edge of the tracking engine. Agents stream their location
// over /ws/tracking; dashboards subscribe to every broadcast event over /ws/dashboard.
package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"courier/internal/core/application/tracking"
	"courier/internal/core/domain/model/kernel"
	"courier/internal/core/domain/model/packet"
	"courier/internal/core/ports"
	"courier/internal/pkg/errs"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

// UserIDHeader carries the pre-authenticated caller. Browsers cannot set headers on a
// websocket handshake, so the userId query parameter is accepted as well.
const UserIDHeader = "X-User-ID"

// AgentTracker is the part of tracking.Engine the gateway drives.
type AgentTracker interface {
	Connect(ctx context.Context, agentID kernel.UUID, session ports.AgentSession) error
	Disconnect(ctx context.Context, agentID kernel.UUID, session ports.AgentSession)
	UpdateLocation(ctx context.Context, agentID kernel.UUID, location kernel.Coordinates) error
	UpdatePacketStatus(ctx context.Context, agentID kernel.UUID, update tracking.PacketStatusUpdate) (*packet.Packet, error)
}

// Gateway upgrades websocket requests and fans broadcast events out to dashboards.
// It implements ports.Notifier.
type Gateway struct {
	tracker  AgentTracker
	upgrader websocket.Upgrader
	logger   *slog.Logger

	mu         sync.RWMutex
	dashboards map[*session]struct{}
}

var _ ports.Notifier = (*Gateway)(nil)

func NewGateway(logger *slog.Logger) *Gateway {
	return &Gateway{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(*http.Request) bool {
				return true
			},
		},
		logger:     logger.With("component", "ws_gateway"),
		dashboards: make(map[*session]struct{}),
	}
}

// Attach sets the tracker. The engine needs the gateway as its notifier, so the two are
// wired in two steps.
func (g *Gateway) Attach(tracker AgentTracker) {
	g.tracker = tracker
}

// Register mounts both endpoints on e.
func (g *Gateway) Register(e *echo.Echo) {
	e.GET("/ws/tracking", g.HandleTracking)
	e.GET("/ws/dashboard", g.HandleDashboard)
}

// Broadcast queues event for every dashboard without waiting on the network. A dashboard
// that is closed or too far behind is dropped.
func (g *Gateway) Broadcast(ctx context.Context, event ports.Event) {
	g.mu.RLock()
	targets := make([]*session, 0, len(g.dashboards))
	for s := range g.dashboards {
		targets = append(targets, s)
	}
	g.mu.RUnlock()

	for _, s := range targets {
		if err := s.Send(ctx, event); err != nil {
			g.logger.WarnContext(ctx, "Dropping dashboard", "event", event.Name, "error", err)
			g.removeDashboard(s)
			_ = s.Close()
		}
	}
}

// DashboardCount is the number of subscribed dashboards.
func (g *Gateway) DashboardCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.dashboards)
}

// HandleTracking serves one agent until its connection drops.
func (g *Gateway) HandleTracking(c echo.Context) error {
	if g.tracker == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "tracking is not ready")
	}
	agentID, err := callerID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	conn, err := g.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// Upgrade has already replied.
		return nil
	}
	ctx := context.WithoutCancel(c.Request().Context())
	s := newSession(conn)

	if err = g.tracker.Connect(ctx, agentID, s); err != nil {
		g.logger.WarnContext(ctx, "Agent connection refused", "agent_id", agentID.String(), "error", err)
		_ = s.Close()
		return nil
	}
	defer func() {
		g.tracker.Disconnect(ctx, agentID, s)
		_ = s.Close()
	}()

	for {
		_, data, readErr := conn.ReadMessage()
		if readErr != nil {
			if websocket.IsUnexpectedCloseError(readErr, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				g.logger.InfoContext(ctx, "Agent connection lost", "agent_id", agentID.String(), "error", readErr)
			}
			return nil
		}
		if handleErr := g.handleAgentMessage(ctx, agentID, s, data); handleErr != nil {
			g.reportError(ctx, s, handleErr)
		}
	}
}

func (g *Gateway) handleAgentMessage(ctx context.Context, agentID kernel.UUID, s *session, data []byte) error {
	var msg inboundMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("message", err)
	}

	switch msg.Type {
	case MessageUpdateLocation:
		var loc locationData
		if err := json.Unmarshal(msg.Data, &loc); err != nil {
			return errs.NewValueIsInvalidErrorWithCause("location", err)
		}
		if loc.Lat == nil || loc.Lng == nil {
			return errs.NewValueIsRequiredError("lat and lng")
		}
		coords, err := kernel.NewCoordinates(*loc.Lat, *loc.Lng)
		if err != nil {
			return err
		}
		return g.tracker.UpdateLocation(ctx, agentID, coords)

	case MessagePacketStatusUpdate:
		var update packetStatusData
		if err := json.Unmarshal(msg.Data, &update); err != nil {
			return errs.NewValueIsInvalidErrorWithCause("packet status update", err)
		}
		packetID, err := kernel.UUIDFromString(update.PacketID)
		if err != nil {
			return errs.NewValueIsInvalidErrorWithCause("packetId", err)
		}
		p, err := g.tracker.UpdatePacketStatus(ctx, agentID, tracking.PacketStatusUpdate{
			PacketID:        packetID,
			Status:          update.Status,
			Weight:          update.Weight,
			SignatureBase64: update.SignatureBase64,
			NationalID:      update.NationalID,
		})
		if err != nil {
			return err
		}
		return s.Send(ctx, ports.Event{
			Name:    ports.EventPacketStatusChanged,
			Payload: statusAck{PacketID: p.ID(), TrackingCode: p.TrackingCode(), Status: p.Status()},
		})

	default:
		return errs.NewValueIsInvalidErrorWithCause("message type", fmt.Errorf("%q is not supported", msg.Type))
	}
}

func (g *Gateway) reportError(ctx context.Context, s *session, err error) {
	g.logger.DebugContext(ctx, "Rejected agent message", "error", err)
	if sendErr := s.Send(ctx, ports.Event{Name: ports.EventError, Payload: ports.ErrorPayload{Message: err.Error()}}); sendErr != nil {
		g.logger.WarnContext(ctx, "Failed to report error to agent", "error", sendErr)
	}
}

// HandleDashboard subscribes an observer to broadcasts until it disconnects. Anything the
// dashboard sends is ignored.
func (g *Gateway) HandleDashboard(c echo.Context) error {
	conn, err := g.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return nil
	}
	s := newSession(conn)

	g.mu.Lock()
	g.dashboards[s] = struct{}{}
	g.mu.Unlock()
	defer func() {
		g.removeDashboard(s)
		_ = s.Close()
	}()

	for {
		if _, _, err = conn.ReadMessage(); err != nil {
			return nil
		}
	}
}

func (g *Gateway) removeDashboard(s *session) {
	g.mu.Lock()
	delete(g.dashboards, s)
	g.mu.Unlock()
}

func callerID(c echo.Context) (kernel.UUID, error) {
	raw := c.Request().Header.Get(UserIDHeader)
	if raw == "" {
		raw = c.QueryParam("userId")
	}
	if raw == "" {
		return kernel.UUID{}, errs.NewValueIsRequiredError("user id")
	}
	id, err := kernel.UUIDFromString(raw)
	if err != nil {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause("user id", err)
	}
	return id, nil
}
