package queries

import (
	"context"

	"courier/internal/core/domain/model/kernel"
	"courier/internal/core/domain/model/packet"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GetAgentPacketsQueryHandler struct {
	db *gorm.DB
}

func NewGetAgentPacketsQueryHandler(db *gorm.DB) GetAgentPacketsQueryHandler {
	return GetAgentPacketsQueryHandler{db: db}
}

func (h GetAgentPacketsQueryHandler) Handle(ctx context.Context, query GetAgentPacketsQuery) ([]AgentPacket, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	agentID := query.AgentID().Bytes()
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			tracking_code,
			status,
			CASE WHEN status = ? THEN 'pickup' ELSE 'delivery' END AS assignment,
			origin_address,
			origin_lat,
			origin_lng,
			destination_address,
			destination_lat,
			destination_lng,
			receiver_name,
			receiver_phone
		FROM packets
		WHERE (pickup_agent_id = ? AND status = ?)
		   OR (delivery_agent_id = ? AND status = ?)
		ORDER BY created_at
	`,
		packet.Pending.String(),
		agentID, packet.Pending.String(),
		agentID, packet.OutForDelivery.String(),
	).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]AgentPacket, 0)
	for rows.Next() {
		var (
			item                    AgentPacket
			id                      uuid.UUID
			status, assignment      string
			originLat, originLng    *float64
			destinationLat, destLng *float64
		)
		err = rows.Scan(
			&id,
			&item.TrackingCode,
			&status,
			&assignment,
			&item.OriginAddress,
			&originLat,
			&originLng,
			&item.DestinationAddress,
			&destinationLat,
			&destLng,
			&item.ReceiverName,
			&item.ReceiverPhone,
		)
		if err != nil {
			return nil, err
		}

		if item.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
			return nil, err
		}
		if item.Status, err = packet.ParseStatus(status); err != nil {
			return nil, err
		}
		item.Assignment = Assignment(assignment)
		item.Origin = coordinatesOrNil(originLat, originLng)
		item.Destination = coordinatesOrNil(destinationLat, destLng)
		result = append(result, item)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// coordinatesOrNil drops incomplete or out-of-range pairs; a packet without a usable
// waypoint is simply never reached by proximity.
func coordinatesOrNil(lat, lng *float64) *kernel.Coordinates {
	if lat == nil || lng == nil {
		return nil
	}
	c, err := kernel.NewCoordinates(*lat, *lng)
	if err != nil {
		return nil
	}
	return &c
}
