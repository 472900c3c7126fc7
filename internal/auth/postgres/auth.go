package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/frahmantamala/workspace-booking/internal"
	"github.com/frahmantamala/workspace-booking/internal/auth"
	userdatamodel "github.com/frahmantamala/workspace-booking/internal/core/datamodel/user"
	"github.com/frahmantamala/workspace-booking/internal/user"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db: db,
	}
}

func (r *Repository) GetCredentialsByEmail(ctx context.Context, email string) (string, string, error) {
	var row userdatamodel.User
	err := r.db.WithContext(ctx).
		Select("id", "password_hash").
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", "", internal.ErrUserNotFound
		}
		return "", "", err
	}
	return row.PasswordHash, row.ID, nil
}

func (r *Repository) GetUserByID(ctx context.Context, userID string) (*auth.User, error) {
	var row userdatamodel.User
	if err := r.db.WithContext(ctx).Where("id = ?", userID).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrUserNotFound
		}
		return nil, err
	}
	return user.FromDataModel(&row).Principal(), nil
}

func (r *Repository) CreateUser(ctx context.Context, u *auth.User, passwordHash string) error {
	row := userdatamodel.User{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		PasswordHash: passwordHash,
		Department:   u.Department,
		Role:         string(u.Role),
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return auth.ErrEmailTaken
		}
		return err
	}
	return nil
}

func (r *Repository) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&userdatamodel.User{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}
