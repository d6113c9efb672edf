package pickuprepo

import (
	"context"
	"errors"

	"courier/internal/core/domain/model/kernel"
	"courier/internal/core/domain/model/pickup"
	"courier/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormPickupRequestRepository implements ports.PickupRequestRepository.
type GormPickupRequestRepository struct {
	db *gorm.DB
}

func NewGormPickupRequestRepository(db *gorm.DB) *GormPickupRequestRepository {
	return &GormPickupRequestRepository{db: db}
}

func (r *GormPickupRequestRepository) Add(ctx context.Context, aggregate *pickup.Request) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	return r.db.WithContext(ctx).Create(&dto).Error
}

func (r *GormPickupRequestRepository) Update(ctx context.Context, aggregate *pickup.Request) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&PickupRequestDTO{}).
		Where("id = ?", dto.ID).
		Select("agent_id", "status").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("pickup request", aggregate.ID().String())
	}
	return nil
}

func (r *GormPickupRequestRepository) Get(ctx context.Context, id kernel.UUID) (*pickup.Request, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	return r.first(ctx, "pickup request", id, "id = ?", id.Bytes())
}

func (r *GormPickupRequestRepository) GetByPacket(ctx context.Context, packetID kernel.UUID) (*pickup.Request, error) {
	if err := packetID.Validate(); err != nil {
		return nil, err
	}
	return r.first(ctx, "pickup request for packet", packetID, "packet_id = ?", packetID.Bytes())
}

func (r *GormPickupRequestRepository) first(ctx context.Context, name string, id kernel.UUID, query string, args ...any) (*pickup.Request, error) {
	var dto PickupRequestDTO
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where(query, args...).
		First(&dto).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError(name, id.String())
		}
		return nil, err
	}
	return toDomain(dto)
}
