package http

import (
	"net/http"

	"courier/internal/core/application/usecases/commands"
	"courier/internal/core/application/usecases/queries"

	"github.com/labstack/echo/v4"
)

// AssignPacketsToVehicle handles POST /api/v1/vehicles/:id/packets.
func (s *Server) AssignPacketsToVehicle(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	vehicleID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	var body PacketIDs
	if err = c.Bind(&body); err != nil {
		return err
	}
	packetIDs, err := parseUUIDs("packetIds", body.PacketIDs)
	if err != nil {
		return err
	}

	cmd, err := commands.NewAssignPacketsToVehicleCommand(actor, vehicleID, packetIDs)
	if err != nil {
		return err
	}
	v, err := s.h.Allocation.AssignPackets(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toVehicle(v))
}

// UnassignPacketFromVehicle handles DELETE /api/v1/vehicles/:id/packets/:packetId.
func (s *Server) UnassignPacketFromVehicle(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	vehicleID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	packetID, err := uuidParam(c, "packetId")
	if err != nil {
		return err
	}

	cmd, err := commands.NewUnassignPacketFromVehicleCommand(actor, vehicleID, packetID)
	if err != nil {
		return err
	}
	v, err := s.h.Allocation.UnassignPacket(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toVehicle(v))
}

func (s *Server) AssignVehicleDriver(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	vehicleID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	var body DriverAssignment
	if err = c.Bind(&body); err != nil {
		return err
	}
	driverID, err := requiredUUID("driverId", body.DriverID)
	if err != nil {
		return err
	}

	cmd, err := commands.NewAssignVehicleDriverCommand(actor, vehicleID, driverID)
	if err != nil {
		return err
	}
	v, err := s.h.Allocation.AssignDriver(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toVehicle(v))
}

// DispatchVehicle handles POST /api/v1/vehicles/:id/dispatch: everything already on
// board departs with the assigned driver.
func (s *Server) DispatchVehicle(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	vehicleID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	cmd, err := commands.NewDispatchVehicleCommand(actor, vehicleID)
	if err != nil {
		return err
	}
	v, packets, err := s.h.Allocation.DispatchVehicle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, Dispatched{Vehicle: toVehicle(v), Packets: toPackets(packets)})
}

// DispatchBatch handles POST /api/v1/dispatch-batches.
func (s *Server) DispatchBatch(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var body NewDispatchBatch
	if err = c.Bind(&body); err != nil {
		return err
	}
	vehicleID, err := requiredUUID("vehicleId", body.VehicleID)
	if err != nil {
		return err
	}
	driverID, err := requiredUUID("driverId", body.DriverID)
	if err != nil {
		return err
	}
	packetIDs, err := parseUUIDs("packetIds", body.PacketIDs)
	if err != nil {
		return err
	}

	cmd, err := commands.NewDispatchBatchCommand(actor, vehicleID, driverID, packetIDs)
	if err != nil {
		return err
	}
	v, packets, err := s.h.Allocation.DispatchBatch(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, Dispatched{Vehicle: toVehicle(v), Packets: toPackets(packets)})
}

// GetAvailableVehicles handles GET /api/v1/vehicles/available?city=.
func (s *Server) GetAvailableVehicles(c echo.Context) error {
	query, err := queries.NewGetAvailableVehiclesQuery(c.QueryParam("city"))
	if err != nil {
		return err
	}
	vehicles, err := s.h.AvailableVehicles.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, vehicles)
}
