package user

import "github.com/frahmantamala/workspace-booking/internal/auth"

type UpdateRoleDTO struct {
	Role string `json:"role"`
}

func (d UpdateRoleDTO) Parse() (auth.Role, error) {
	return auth.ParseRole(d.Role)
}

// BookableUserResponse is one entry of the "book for" selector.
type BookableUserResponse struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Department string    `json:"department"`
	Role       auth.Role `json:"role"`
	Self       bool      `json:"self"`
}
