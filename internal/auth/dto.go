package auth

import (
	"net/mail"
	"strings"

	"github.com/frahmantamala/workspace-booking/internal"
	"github.com/frahmantamala/workspace-booking/internal/core/common/validation"
)

// LoginDTO is the transport shape used by the HTTP handler to accept login requests.
type LoginDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterDTO struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	Name       string `json:"name"`
	Department string `json:"department"`
}

// RefreshTokenDTO for refresh token requests
type RefreshTokenDTO struct {
	RefreshToken string `json:"refresh_token"`
}

func (d LoginDTO) Validate() error {
	if strings.TrimSpace(d.Email) == "" {
		return internal.NewValidationFieldError("email", "email is required", internal.ErrCodeValidationFailed)
	}
	if d.Password == "" {
		return internal.NewValidationFieldError("password", "password is required", internal.ErrCodeValidationFailed)
	}
	return nil
}

func (d *RegisterDTO) Normalize() {
	d.Email = strings.ToLower(strings.TrimSpace(d.Email))
	d.Name = strings.TrimSpace(d.Name)
	d.Department = strings.TrimSpace(d.Department)
}

func (d RegisterDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("email", d.Email).Custom(func(value interface{}) *internal.AppError {
		if _, err := mail.ParseAddress(value.(string)); err != nil {
			return internal.NewValidationFieldError("email", "email is invalid", internal.ErrCodeValidationFailed)
		}
		return nil
	})
	v.Field("password", d.Password).MinLength(MinPasswordLength)
	v.Field("name", d.Name).Required().MaxLength(255)
	v.Field("department", d.Department).MaxLength(100)
	return v.Validate()
}

func (d RefreshTokenDTO) Validate() error {
	if d.RefreshToken == "" {
		return internal.NewValidationFieldError("refresh_token", "refresh_token is required", internal.ErrCodeValidationFailed)
	}
	return nil
}
