package packetrepo

import (
	"context"
	"errors"
	"slices"

	"courier/internal/core/domain/model/kernel"
	"courier/internal/core/domain/model/packet"
	"courier/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormPacketRepository implements ports.PacketRepository. Every read takes a row lock;
// outside a transaction the lock is released at statement end.
type GormPacketRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

func NewGormPacketRepository(db *gorm.DB, tracker aggregateTracker) *GormPacketRepository {
	return &GormPacketRepository{
		db:      db,
		tracker: tracker,
	}
}

func (r *GormPacketRepository) Add(ctx context.Context, aggregate *packet.Packet) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update writes every column, so cleared references (vehicle, agents) become NULL.
func (r *GormPacketRepository) Update(ctx context.Context, aggregate *packet.Packet) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&PacketDTO{}).
		Where("id = ?", dto.ID).
		Select("*").
		Omit("id", "created_at").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("packet", aggregate.ID().String())
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormPacketRepository) Get(ctx context.Context, id kernel.UUID) (*packet.Packet, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto PacketDTO
	err := r.locked(ctx).First(&dto, "id = ?", id.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("packet", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

func (r *GormPacketRepository) GetMany(ctx context.Context, ids []kernel.UUID) ([]*packet.Packet, error) {
	raw := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if err := id.Validate(); err != nil {
			return nil, err
		}
		raw = append(raw, id.Bytes())
	}

	var dtos []PacketDTO
	if err := r.locked(ctx).Where("id IN ?", raw).Order("id").Find(&dtos).Error; err != nil {
		return nil, err
	}

	for _, id := range ids {
		found := slices.ContainsFunc(dtos, func(dto PacketDTO) bool { return dto.ID == id.Bytes() })
		if !found {
			return nil, errs.NewObjectNotFoundError("packet", id.String())
		}
	}

	return toDomainSlice(dtos)
}

func (r *GormPacketRepository) GetAllByVehicle(ctx context.Context, vehicleID kernel.UUID) ([]*packet.Packet, error) {
	if err := vehicleID.Validate(); err != nil {
		return nil, err
	}

	var dtos []PacketDTO
	if err := r.locked(ctx).Where("vehicle_id = ?", vehicleID.Bytes()).Order("id").Find(&dtos).Error; err != nil {
		return nil, err
	}

	return toDomainSlice(dtos)
}

func (r *GormPacketRepository) locked(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"})
}

func toDomainSlice(dtos []PacketDTO) ([]*packet.Packet, error) {
	packets := make([]*packet.Packet, 0, len(dtos))
	for _, dto := range dtos {
		p, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		packets = append(packets, p)
	}
	return packets, nil
}
