package repository

import (
	"context"

	"apistarter/internal/domain"

	"gorm.io/gorm"
)

type RoleRepository struct {
	db *gorm.DB
}

func NewRoleRepository(db *gorm.DB) *RoleRepository {
	return &RoleRepository{db: db}
}

func (r *RoleRepository) GetByName(ctx context.Context, name string) (*domain.Role, error) {
	var role domain.Role
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&role).Error
	if err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *RoleRepository) List(ctx context.Context) ([]domain.Role, error) {
	var roles []domain.Role
	err := r.db.WithContext(ctx).Order("name").Find(&roles).Error
	return roles, err
}

// Assign adds the role to the user through the join table; assigning an
// already-held role is a no-op.
func (r *RoleRepository) Assign(ctx context.Context, user *domain.User, role *domain.Role) error {
	return r.db.WithContext(ctx).Model(user).Association("Roles").Append(role)
}
