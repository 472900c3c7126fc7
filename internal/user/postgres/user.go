package postgres

import (
	"context"
	"errors"

	"github.com/frahmantamala/workspace-booking/internal"
	"github.com/frahmantamala/workspace-booking/internal/auth"
	userDatamodel "github.com/frahmantamala/workspace-booking/internal/core/datamodel/user"
	"github.com/frahmantamala/workspace-booking/internal/user"
	"gorm.io/gorm"
)

// Repository is the gorm-backed user directory.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) find(ctx context.Context, userID string) (*userDatamodel.User, error) {
	var row userDatamodel.User
	if err := r.db.WithContext(ctx).Where("id = ?", userID).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrUserNotFound
		}
		return nil, err
	}
	return &row, nil
}

func (r *Repository) GetByID(ctx context.Context, userID string) (*user.User, error) {
	row, err := r.find(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user.FromDataModel(row), nil
}

func (r *Repository) List(ctx context.Context) ([]*user.User, error) {
	var rows []userDatamodel.User
	if err := r.db.WithContext(ctx).Order("name ASC, email ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*user.User, 0, len(rows))
	for i := range rows {
		out = append(out, user.FromDataModel(&rows[i]))
	}
	return out, nil
}

func (r *Repository) UpdateRole(ctx context.Context, userID string, role auth.Role) error {
	res := r.db.WithContext(ctx).Model(&userDatamodel.User{}).Where("id = ?", userID).Update("role", string(role))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return internal.ErrUserNotFound
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, userID string) error {
	res := r.db.WithContext(ctx).Where("id = ?", userID).Delete(&userDatamodel.User{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return internal.ErrUserNotFound
	}
	return nil
}

// GetUser loads the principal used by permission checks.
func (r *Repository) GetUser(ctx context.Context, userID string) (*auth.User, error) {
	row, err := r.find(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user.FromDataModel(row).Principal(), nil
}

func (r *Repository) ListUsers(ctx context.Context) ([]auth.User, error) {
	users, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]auth.User, 0, len(users))
	for _, u := range users {
		out = append(out, *u.Principal())
	}
	return out, nil
}
