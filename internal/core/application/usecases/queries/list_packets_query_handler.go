package queries

import (
	"context"

	"courier/internal/core/domain/model/packet"

	"gorm.io/gorm"
)

type ListPacketsQueryHandler struct {
	db *gorm.DB
}

func NewListPacketsQueryHandler(db *gorm.DB) ListPacketsQueryHandler {
	return ListPacketsQueryHandler{db: db}
}

type packetSummaryRow struct {
	ID                 string
	TrackingCode       string
	Status             string
	Weight             float64
	OriginCity         string
	DestinationCity    string
	DestinationAddress string
	Mode               string
	VehicleID          *string
	IsPaid             bool
}

func (h ListPacketsQueryHandler) Handle(ctx context.Context, query ListPacketsQuery) ([]PacketSummary, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	db := h.db.WithContext(ctx).
		Table("packets").
		Select(`id::text AS id, tracking_code, status, weight, origin_city, destination_city,
			destination_address, mode, vehicle_id::text AS vehicle_id, is_paid`)

	if s := query.Status(); s != nil {
		db = db.Where("status = ?", s.String())
	}
	if city := query.City(); city != "" {
		switch s := query.Status(); {
		case s == nil:
			db = db.Where("(LOWER(origin_city) = LOWER(?) OR LOWER(destination_city) = LOWER(?))", city, city)
		case s.IsBefore(packet.InTransit):
			db = db.Where("LOWER(origin_city) = LOWER(?)", city)
		default:
			db = db.Where("LOWER(destination_city) = LOWER(?)", city)
		}
	}

	var rows []packetSummaryRow
	if err := db.Order("created_at").Scan(&rows).Error; err != nil {
		return nil, err
	}

	result := make([]PacketSummary, 0, len(rows))
	for _, row := range rows {
		status, err := packet.ParseStatus(row.Status)
		if err != nil {
			return nil, err
		}
		result = append(result, PacketSummary{
			ID:                 row.ID,
			TrackingCode:       row.TrackingCode,
			Status:             status,
			Weight:             row.Weight,
			OriginCity:         row.OriginCity,
			DestinationCity:    row.DestinationCity,
			DestinationAddress: row.DestinationAddress,
			Mode:               row.Mode,
			VehicleID:          row.VehicleID,
			IsPaid:             row.IsPaid,
		})
	}
	return result, nil
}
