package user

import (
	"time"

	"github.com/frahmantamala/workspace-booking/internal"
	"github.com/frahmantamala/workspace-booking/internal/auth"
	userDatamodel "github.com/frahmantamala/workspace-booking/internal/core/datamodel/user"
)

// User is the directory view of an account.
type User struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	Department string    `json:"department"`
	Role       auth.Role `json:"role"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

var (
	ErrNotFound         = internal.ErrUserNotFound
	ErrCannotDeleteSelf = internal.NewValidationError("administrators cannot delete their own account", internal.ErrCodeCannotDeleteSelf)
)

func (u *User) Principal() *auth.User {
	return &auth.User{
		ID:         u.ID,
		Email:      u.Email,
		Name:       u.Name,
		Role:       u.Role,
		Department: u.Department,
	}
}

func FromDataModel(u *userDatamodel.User) *User {
	role, err := auth.ParseRole(u.Role)
	if err != nil {
		role = auth.RoleEmployee
	}
	return &User{
		ID:         u.ID,
		Email:      u.Email,
		Name:       u.Name,
		Department: u.Department,
		Role:       role,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}
