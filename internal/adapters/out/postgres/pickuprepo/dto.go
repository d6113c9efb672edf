// Package pickuprepo maps pickup requests to the pickup_requests table.
package pickuprepo

import (
	"time"

	"courier/internal/core/domain/model/kernel"
	"courier/internal/core/domain/model/pickup"

	"github.com/google/uuid"
)

type PickupRequestDTO struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey"`
	CustomerID    uuid.UUID  `gorm:"type:uuid;index"`
	PacketID      uuid.UUID  `gorm:"type:uuid;uniqueIndex"`
	AgentID       *uuid.UUID `gorm:"type:uuid;index"`
	PickupAddress string
	Status        string `gorm:"size:16;index"`
	CreatedAt     time.Time
}

func (PickupRequestDTO) TableName() string {
	return "pickup_requests"
}

func fromDomain(r *pickup.Request) PickupRequestDTO {
	var agentID *uuid.UUID
	if id := r.Agent(); id != nil {
		raw := id.Bytes()
		agentID = &raw
	}

	return PickupRequestDTO{
		ID:            r.ID().Bytes(),
		CustomerID:    r.CustomerID().Bytes(),
		PacketID:      r.PacketID().Bytes(),
		AgentID:       agentID,
		PickupAddress: r.PickupAddress(),
		Status:        string(r.Status()),
		CreatedAt:     r.CreatedAt(),
	}
}

func toDomain(dto PickupRequestDTO) (*pickup.Request, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	customerID, err := kernel.UUIDFromBytes(dto.CustomerID[:])
	if err != nil {
		return nil, err
	}
	packetID, err := kernel.UUIDFromBytes(dto.PacketID[:])
	if err != nil {
		return nil, err
	}

	var agentID *kernel.UUID
	if dto.AgentID != nil {
		a, agentErr := kernel.UUIDFromBytes(dto.AgentID[:])
		if agentErr != nil {
			return nil, agentErr
		}
		agentID = &a
	}

	return pickup.RestoreRequest(id, customerID, packetID, dto.PickupAddress, pickup.Status(dto.Status), agentID, dto.CreatedAt)
}
