package commands

import (
	"context"
	"fmt"
	"time"

	"courier/internal/core/domain/model/kernel"
	"courier/internal/core/domain/model/packet"
	"courier/internal/core/domain/model/vehicle"
	"courier/internal/core/domain/services"
	"courier/internal/core/ports"
	"courier/internal/pkg/errs"
	"courier/internal/pkg/metrics"
)

// AllocationCommandHandler runs the vehicle allocation use cases: assign, unassign,
// driver assignment, batch dispatch and vehicle dispatch. All of them are admin only.
//
// Every handler locks the vehicle row first and the packet rows second, in id order, so
// concurrent allocations on one vehicle are serialized and cannot deadlock each other.
type AllocationCommandHandler struct {
	uowFactory AllocationUoWFactory
	directory  ports.AgentDirectory
	allocator  services.VehicleAllocator
	now        func() time.Time
}

func NewAllocationCommandHandler(uowFactory AllocationUoWFactory, directory ports.AgentDirectory) AllocationCommandHandler {
	return AllocationCommandHandler{
		uowFactory: uowFactory,
		directory:  directory,
		allocator:  services.NewVehicleAllocator(),
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// AssignPackets loads the command's packets onto its vehicle.
func (h AllocationCommandHandler) AssignPackets(ctx context.Context, command AssignPacketsToVehicleCommand) (*vehicle.Vehicle, error) {
	if err := command.Validate(); err != nil {
		return nil, err
	}
	if err := command.Actor().Require("assign packets to a vehicle", kernel.RoleAdmin); err != nil {
		return nil, err
	}

	var v *vehicle.Vehicle
	err := h.inTransaction(ctx, func(uow AllocationUoW) error {
		var err error
		v, err = uow.VehicleRepository().Get(ctx, command.VehicleID())
		if err != nil {
			return err
		}
		packets, err := uow.PacketRepository().GetMany(ctx, command.PacketIDs())
		if err != nil {
			return err
		}
		if err = h.allocator.Assign(v, packets); err != nil {
			return err
		}
		return save(ctx, uow, v, packets)
	})
	if err != nil {
		return nil, err
	}

	metrics.VehicleLoadRatio.Observe(v.CurrentLoad() / v.Capacity())
	return v, nil
}

// UnassignPacket releases one packet from the command's vehicle.
func (h AllocationCommandHandler) UnassignPacket(ctx context.Context, command UnassignPacketFromVehicleCommand) (*vehicle.Vehicle, error) {
	if err := command.Validate(); err != nil {
		return nil, err
	}
	if err := command.Actor().Require("unassign packets from a vehicle", kernel.RoleAdmin); err != nil {
		return nil, err
	}

	var v *vehicle.Vehicle
	err := h.inTransaction(ctx, func(uow AllocationUoW) error {
		var err error
		v, err = uow.VehicleRepository().Get(ctx, command.VehicleID())
		if err != nil {
			return err
		}
		onBoard, err := uow.PacketRepository().GetAllByVehicle(ctx, v.ID())
		if err != nil {
			return err
		}

		var target *packet.Packet
		for _, p := range onBoard {
			if p.ID().IsEqual(command.PacketID()) {
				target = p
			}
		}
		if target == nil {
			target, err = uow.PacketRepository().Get(ctx, command.PacketID())
			if err != nil {
				return err
			}
			return errs.NewConflictError("packet %s is not assigned to vehicle %s", target.TrackingCode(), v.LicensePlate())
		}

		if err = h.allocator.Unassign(v, target, len(onBoard)-1); err != nil {
			return err
		}
		return save(ctx, uow, v, []*packet.Packet{target})
	})
	if err != nil {
		return nil, err
	}
	return v, nil
}

// AssignDriver sets the driver of an available vehicle.
func (h AllocationCommandHandler) AssignDriver(ctx context.Context, command AssignVehicleDriverCommand) (*vehicle.Vehicle, error) {
	if err := command.Validate(); err != nil {
		return nil, err
	}
	if err := command.Actor().Require("assign a driver", kernel.RoleAdmin); err != nil {
		return nil, err
	}
	if err := h.ensureDriver(ctx, command.DriverID()); err != nil {
		return nil, err
	}

	var v *vehicle.Vehicle
	err := h.inTransaction(ctx, func(uow AllocationUoW) error {
		var err error
		v, err = uow.VehicleRepository().Get(ctx, command.VehicleID())
		if err != nil {
			return err
		}
		if err = v.AssignDriver(command.DriverID()); err != nil {
			return err
		}
		return uow.VehicleRepository().Update(ctx, v)
	})
	if err != nil {
		return nil, err
	}
	return v, nil
}

// DispatchBatch dispatches the listed packets together with everything already on the vehicle.
func (h AllocationCommandHandler) DispatchBatch(ctx context.Context, command DispatchBatchCommand) (*vehicle.Vehicle, []*packet.Packet, error) {
	if err := command.Validate(); err != nil {
		return nil, nil, err
	}
	if err := command.Actor().Require("dispatch a batch", kernel.RoleAdmin); err != nil {
		return nil, nil, err
	}
	if err := h.ensureDriver(ctx, command.DriverID()); err != nil {
		return nil, nil, err
	}

	var (
		v       *vehicle.Vehicle
		batch   []*packet.Packet
		departs []*packet.Packet
	)
	err := h.inTransaction(ctx, func(uow AllocationUoW) error {
		var err error
		v, err = uow.VehicleRepository().Get(ctx, command.VehicleID())
		if err != nil {
			return err
		}
		onBoard, err := uow.PacketRepository().GetAllByVehicle(ctx, v.ID())
		if err != nil {
			return err
		}
		batch, err = uow.PacketRepository().GetMany(ctx, command.PacketIDs())
		if err != nil {
			return err
		}

		departs = mergePackets(batch, onBoard)
		if err = h.allocator.DispatchBatch(v, departs, command.DriverID(), h.now()); err != nil {
			return err
		}
		return save(ctx, uow, v, departs)
	})
	if err != nil {
		return nil, nil, err
	}

	metrics.DispatchedBatchSize.Observe(float64(len(departs)))
	return v, departs, nil
}

// DispatchVehicle dispatches a vehicle with the packets it carries.
func (h AllocationCommandHandler) DispatchVehicle(ctx context.Context, command DispatchVehicleCommand) (*vehicle.Vehicle, []*packet.Packet, error) {
	if err := command.Validate(); err != nil {
		return nil, nil, err
	}
	if err := command.Actor().Require("dispatch a vehicle", kernel.RoleAdmin); err != nil {
		return nil, nil, err
	}

	var (
		v      *vehicle.Vehicle
		loaded []*packet.Packet
	)
	err := h.inTransaction(ctx, func(uow AllocationUoW) error {
		var err error
		v, err = uow.VehicleRepository().Get(ctx, command.VehicleID())
		if err != nil {
			return err
		}
		loaded, err = uow.PacketRepository().GetAllByVehicle(ctx, v.ID())
		if err != nil {
			return err
		}
		if err = h.allocator.DispatchVehicle(v, loaded, h.now()); err != nil {
			return err
		}
		return save(ctx, uow, v, loaded)
	})
	if err != nil {
		return nil, nil, err
	}

	metrics.DispatchedBatchSize.Observe(float64(len(loaded)))
	return v, loaded, nil
}

func (h AllocationCommandHandler) inTransaction(ctx context.Context, fn func(uow AllocationUoW) error) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := fn(uow); err != nil {
		return err
	}
	return uow.Commit(ctx)
}

func (h AllocationCommandHandler) ensureDriver(ctx context.Context, userID kernel.UUID) error {
	role, err := h.directory.Role(ctx, userID)
	if err != nil {
		return err
	}
	if role != kernel.RoleDriver {
		return errs.NewValueIsInvalidErrorWithCause("driver", fmt.Errorf("user %s has role %s", userID, role))
	}
	return nil
}

func save(ctx context.Context, uow AllocationUoW, v *vehicle.Vehicle, packets []*packet.Packet) error {
	if err := uow.VehicleRepository().Update(ctx, v); err != nil {
		return err
	}
	for _, p := range packets {
		if err := uow.PacketRepository().Update(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// mergePackets returns batch followed by the on-board packets not already in it.
func mergePackets(batch, onBoard []*packet.Packet) []*packet.Packet {
	seen := make(map[kernel.UUID]struct{}, len(batch))
	merged := make([]*packet.Packet, 0, len(batch)+len(onBoard))
	for _, p := range batch {
		seen[p.ID()] = struct{}{}
		merged = append(merged, p)
	}
	for _, p := range onBoard {
		if _, ok := seen[p.ID()]; !ok {
			merged = append(merged, p)
		}
	}
	return merged
}
