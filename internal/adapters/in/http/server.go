package http

import (
	"context"
	"log/slog"
	"net/http"

	"courier/internal/core/application/tracking"
	"courier/internal/core/application/usecases/commands"
	"courier/internal/core/application/usecases/queries"
	"courier/internal/core/domain/model/packet"
	"courier/internal/core/domain/model/pickup"
	"courier/internal/core/domain/model/vehicle"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PacketTransitionHandler applies one lifecycle operation.
type PacketTransitionHandler interface {
	Handle(ctx context.Context, command commands.PacketTransitionCommand) (*packet.Packet, error)
}

type CreatePickupRequestHandler interface {
	Handle(ctx context.Context, command commands.CreatePickupRequestCommand) (*packet.Packet, *pickup.Request, error)
}

type AssignPickupAgentHandler interface {
	Handle(ctx context.Context, command commands.AssignPickupAgentCommand) (*pickup.Request, error)
}

// AllocationHandler moves packets on and off vehicles and dispatches them.
type AllocationHandler interface {
	AssignPackets(ctx context.Context, command commands.AssignPacketsToVehicleCommand) (*vehicle.Vehicle, error)
	UnassignPacket(ctx context.Context, command commands.UnassignPacketFromVehicleCommand) (*vehicle.Vehicle, error)
	AssignDriver(ctx context.Context, command commands.AssignVehicleDriverCommand) (*vehicle.Vehicle, error)
	DispatchBatch(ctx context.Context, command commands.DispatchBatchCommand) (*vehicle.Vehicle, []*packet.Packet, error)
	DispatchVehicle(ctx context.Context, command commands.DispatchVehicleCommand) (*vehicle.Vehicle, []*packet.Packet, error)
}

type TrackingCodeHandler interface {
	Handle(ctx context.Context, query queries.GetPacketByTrackingCodeQuery) (queries.TrackingView, error)
}

type ListPacketsHandler interface {
	Handle(ctx context.Context, query queries.ListPacketsQuery) ([]queries.PacketSummary, error)
}

type AvailableVehiclesHandler interface {
	Handle(ctx context.Context, query queries.GetAvailableVehiclesQuery) ([]queries.AvailableVehicle, error)
}

// AgentLocator lists the live agent connections.
type AgentLocator interface {
	Connected() []tracking.AgentConnection
}

// Handlers groups the use cases the server exposes.
type Handlers struct {
	Transitions       PacketTransitionHandler
	CreatePickup      CreatePickupRequestHandler
	AssignPickupAgent AssignPickupAgentHandler
	Allocation        AllocationHandler
	TrackingCode      TrackingCodeHandler
	ListPackets       ListPacketsHandler
	AvailableVehicles AvailableVehiclesHandler
	Agents            AgentLocator
}

// Server translates HTTP requests into commands and queries.
type Server struct {
	h      Handlers
	logger *slog.Logger
}

func NewServer(h Handlers, logger *slog.Logger) *Server {
	return &Server{
		h:      h,
		logger: logger.With("component", "http_server"),
	}
}

// Register mounts the API, /health and /metrics on e and installs the error handler.
func (s *Server) Register(e *echo.Echo) {
	e.HTTPErrorHandler = s.ErrorHandler

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api/v1")

	api.POST("/pickups", s.CreatePickup)
	api.PUT("/pickups/:id/agent", s.AssignPickupAgent)

	api.GET("/packets", s.ListPackets)
	api.GET("/packets/:tracking", s.GetPacketByTrackingCode)
	api.POST("/packets/:id/confirm-dispatch", s.ConfirmDispatch)
	api.POST("/packets/:id/collect", s.ConfirmCollection)
	api.POST("/packets/:id/confirm-at-hub", s.ConfirmAtOriginHub)
	api.POST("/packets/:id/dispatch", s.DispatchPacket)
	api.POST("/packets/:id/confirm-at-destination", s.ConfirmAtDestinationHub)
	api.PUT("/packets/:id/delivery-agent", s.AssignDeliveryAgent)
	api.POST("/packets/:id/deliver", s.MarkDelivered)
	api.POST("/packets/:id/receive", s.ConfirmReceived)
	api.POST("/packets/:id/picked", s.MarkPicked)
	api.POST("/packets/:id/pay", s.MarkPaid)

	api.GET("/vehicles/available", s.GetAvailableVehicles)
	api.POST("/vehicles/:id/packets", s.AssignPacketsToVehicle)
	api.DELETE("/vehicles/:id/packets/:packetId", s.UnassignPacketFromVehicle)
	api.PUT("/vehicles/:id/driver", s.AssignVehicleDriver)
	api.POST("/vehicles/:id/dispatch", s.DispatchVehicle)
	api.POST("/dispatch-batches", s.DispatchBatch)

	api.GET("/agents/locations", s.GetAgentLocations)
}
