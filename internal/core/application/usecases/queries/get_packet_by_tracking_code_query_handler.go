package queries

import (
	"context"
	"errors"
	"time"

	"courier/internal/core/domain/model/packet"
	"courier/internal/pkg/errs"

	"gorm.io/gorm"
)

type GetPacketByTrackingCodeQueryHandler struct {
	db *gorm.DB
}

func NewGetPacketByTrackingCodeQueryHandler(db *gorm.DB) GetPacketByTrackingCodeQueryHandler {
	return GetPacketByTrackingCodeQueryHandler{db: db}
}

type trackingRow struct {
	TrackingCode              string
	Status                    string
	OriginCity                string
	DestinationCity           string
	Mode                      string
	IsPaid                    bool
	CreatedAt                 time.Time
	CollectedAt               *time.Time
	OriginHubConfirmedAt      *time.Time
	DispatchedAt              *time.Time
	DestinationHubConfirmedAt *time.Time
	OutForDeliveryAt          *time.Time
	DeliveredAt               *time.Time
}

func (h GetPacketByTrackingCodeQueryHandler) Handle(ctx context.Context, query GetPacketByTrackingCodeQuery) (TrackingView, error) {
	if err := query.Validate(); err != nil {
		return TrackingView{}, err
	}

	var row trackingRow
	err := h.db.WithContext(ctx).
		Table("packets").
		Where("tracking_code = ?", query.Code()).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return TrackingView{}, errs.NewObjectNotFoundError("packet", query.Code())
	}
	if err != nil {
		return TrackingView{}, err
	}

	status, err := packet.ParseStatus(row.Status)
	if err != nil {
		return TrackingView{}, err
	}

	view := TrackingView{
		TrackingCode:    row.TrackingCode,
		Status:          status,
		OriginCity:      row.OriginCity,
		DestinationCity: row.DestinationCity,
		Mode:            row.Mode,
		IsPaid:          row.IsPaid,
		History:         []TrackingEntry{{Status: packet.Pending, At: row.CreatedAt}},
	}
	for _, step := range []struct {
		status packet.Status
		at     *time.Time
	}{
		{packet.Collected, row.CollectedAt},
		{packet.AtOriginHub, row.OriginHubConfirmedAt},
		{packet.InTransit, row.DispatchedAt},
		{packet.AtDestinationHub, row.DestinationHubConfirmedAt},
		{packet.OutForDelivery, row.OutForDeliveryAt},
		{packet.Delivered, row.DeliveredAt},
	} {
		if step.at != nil {
			view.History = append(view.History, TrackingEntry{Status: step.status, At: *step.at})
		}
	}

	return view, nil
}
