package auth

import (
	"fmt"
	"strings"

	"github.com/frahmantamala/workspace-booking/internal"
)

type Role string

const (
	RoleEmployee Role = "employee"
	RoleManager  Role = "manager"
	RoleAdmin    Role = "admin"
)

var Roles = []Role{RoleEmployee, RoleManager, RoleAdmin}

// ParseRole accepts the role names case-insensitively. "user" is the legacy name for employee.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "employee", "user":
		return RoleEmployee, nil
	case "manager":
		return RoleManager, nil
	case "admin":
		return RoleAdmin, nil
	}
	return "", internal.NewValidationFieldError("role", fmt.Sprintf("unknown role %q", s), internal.ErrCodeInvalidRole)
}

func (r Role) Valid() bool {
	switch r {
	case RoleEmployee, RoleManager, RoleAdmin:
		return true
	}
	return false
}

func (r Role) String() string {
	return string(r)
}
