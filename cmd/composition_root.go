package cmd

import (
	"log/slog"

	httpin "courier/internal/adapters/in/http"
	"courier/internal/adapters/in/ws"
	"courier/internal/adapters/out/postgres"
	"courier/internal/adapters/out/postgres/userrepo"
	"courier/internal/core/application/tracking"
	"courier/internal/core/application/usecases/commands"
	"courier/internal/core/application/usecases/queries"
	"courier/internal/jobs"

	"gorm.io/gorm"
)

// CompositionRoot wires adapters to use cases. The websocket gateway is both the
// notifier of the unit of work and the edge of the tracking engine.
type CompositionRoot struct {
	cfg        Config
	gormDB     *gorm.DB
	logger     *slog.Logger
	uowFactory *postgres.GormUnitOfWorkFactory
	directory  *userrepo.GormAgentDirectory
	gateway    *ws.Gateway
	registry   *tracking.Registry
}

func NewCompositionRoot(cfg Config, gormDB *gorm.DB, logger *slog.Logger) CompositionRoot {
	gateway := ws.NewGateway(logger)
	return CompositionRoot{
		cfg:        cfg,
		gormDB:     gormDB,
		logger:     logger,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB, gateway),
		directory:  userrepo.NewGormAgentDirectory(gormDB),
		gateway:    gateway,
		registry:   tracking.NewRegistry(),
	}
}

func (c *CompositionRoot) packetUoWFactory() commands.PacketUoWFactory {
	return FuncPacketUoWFactory(func() commands.PacketUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) allocationUoWFactory() commands.AllocationUoWFactory {
	return FuncAllocationUoWFactory(func() commands.AllocationUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreatePacketTransitionCommandHandler() commands.PacketTransitionCommandHandler {
	return commands.NewPacketTransitionCommandHandler(c.packetUoWFactory(), c.directory)
}

func (c *CompositionRoot) CreateCreatePickupRequestCommandHandler() commands.CreatePickupRequestCommandHandler {
	return commands.NewCreatePickupRequestCommandHandler(c.packetUoWFactory())
}

func (c *CompositionRoot) CreateAssignPickupAgentCommandHandler() commands.AssignPickupAgentCommandHandler {
	return commands.NewAssignPickupAgentCommandHandler(c.packetUoWFactory(), c.directory)
}

func (c *CompositionRoot) CreateAllocationCommandHandler() commands.AllocationCommandHandler {
	return commands.NewAllocationCommandHandler(c.allocationUoWFactory(), c.directory)
}

func (c *CompositionRoot) CreateGetAgentPacketsQueryHandler() queries.GetAgentPacketsQueryHandler {
	return queries.NewGetAgentPacketsQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateListPacketsQueryHandler() queries.ListPacketsQueryHandler {
	return queries.NewListPacketsQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetPacketByTrackingCodeQueryHandler() queries.GetPacketByTrackingCodeQueryHandler {
	return queries.NewGetPacketByTrackingCodeQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetAvailableVehiclesQueryHandler() queries.GetAvailableVehiclesQueryHandler {
	return queries.NewGetAvailableVehiclesQueryHandler(c.gormDB)
}

// CreateTrackingEngine builds the engine and attaches it to the websocket gateway.
func (c *CompositionRoot) CreateTrackingEngine() (*tracking.Engine, error) {
	engine, err := tracking.NewEngine(
		c.registry,
		c.CreatePacketTransitionCommandHandler(),
		c.CreateGetAgentPacketsQueryHandler(),
		c.gateway,
		c.directory,
		c.cfg.ProximityThresholdMeters,
		c.logger,
	)
	if err != nil {
		return nil, err
	}
	c.gateway.Attach(engine)
	return engine, nil
}

func (c *CompositionRoot) CreateHTTPServer() *httpin.Server {
	return httpin.NewServer(httpin.Handlers{
		Transitions:       c.CreatePacketTransitionCommandHandler(),
		CreatePickup:      c.CreateCreatePickupRequestCommandHandler(),
		AssignPickupAgent: c.CreateAssignPickupAgentCommandHandler(),
		Allocation:        c.CreateAllocationCommandHandler(),
		TrackingCode:      c.CreateGetPacketByTrackingCodeQueryHandler(),
		ListPackets:       c.CreateListPacketsQueryHandler(),
		AvailableVehicles: c.CreateGetAvailableVehiclesQueryHandler(),
		Agents:            c.registry,
	}, c.logger)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager().
		Add("location cleanup", jobs.NewLocationCleanupJob(
			c.registry, c.cfg.LocationTTL, c.cfg.LocationCleanupSchedule, c.logger))
}

func (c *CompositionRoot) Gateway() *ws.Gateway {
	return c.gateway
}

func (c *CompositionRoot) Directory() *userrepo.GormAgentDirectory {
	return c.directory
}

type FuncPacketUoWFactory func() commands.PacketUoW

func (f FuncPacketUoWFactory) Create() commands.PacketUoW {
	return f()
}

type FuncAllocationUoWFactory func() commands.AllocationUoW

func (f FuncAllocationUoWFactory) Create() commands.AllocationUoW {
	return f()
}
