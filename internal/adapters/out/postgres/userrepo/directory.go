// Package userrepo reads the users table owned by the account service. Only the role
// column matters here: it tells agents, drivers, customers and admins apart.
package userrepo

import (
	"context"
	"errors"

	"courier/internal/core/domain/model/kernel"
	"courier/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserDTO struct {
	ID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name  string
	Email string `gorm:"index"`
	Phone string
	Role  string `gorm:"size:16;index"`
}

func (UserDTO) TableName() string {
	return "users"
}

// GormAgentDirectory implements ports.AgentDirectory.
type GormAgentDirectory struct {
	db *gorm.DB
}

func NewGormAgentDirectory(db *gorm.DB) *GormAgentDirectory {
	return &GormAgentDirectory{db: db}
}

func (d *GormAgentDirectory) Role(ctx context.Context, userID kernel.UUID) (kernel.Role, error) {
	if err := userID.Validate(); err != nil {
		return "", err
	}

	var dto UserDTO
	err := d.db.WithContext(ctx).Select("id", "role").First(&dto, "id = ?", userID.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", errs.NewObjectNotFoundError("user", userID.String())
		}
		return "", err
	}

	return kernel.ParseRole(dto.Role)
}

// Save upserts a user. The service itself never creates users; seeding and tests do.
func (d *GormAgentDirectory) Save(ctx context.Context, id kernel.UUID, name string, role kernel.Role) error {
	if err := errors.Join(id.Validate(), role.Validate()); err != nil {
		return err
	}
	dto := UserDTO{ID: id.Bytes(), Name: name, Role: role.String()}
	return d.db.WithContext(ctx).Save(&dto).Error
}
