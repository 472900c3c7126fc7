package auth

import (
	"context"

	"golang.org/x/crypto/bcrypt"
)

type ServiceAPI interface {
	Authenticate(ctx context.Context, dto LoginDTO) (AuthTokens, error)
	Register(ctx context.Context, dto RegisterDTO) (*User, error)
	RefreshTokens(ctx context.Context, refreshToken string) (AuthTokens, error)
	ValidateAccessToken(tokenString string) (*Claims, error)
	GetUser(ctx context.Context, userID string) (*User, error)
}

type RepositoryAPI interface {
	GetCredentialsByEmail(ctx context.Context, email string) (passwordHash string, userID string, err error)
	GetUserByID(ctx context.Context, userID string) (*User, error)
	CreateUser(ctx context.Context, u *User, passwordHash string) error
	EmailExists(ctx context.Context, email string) (bool, error)
}

type TokenGeneratorAPI interface {
	GenerateAccessToken(userID string, email string) (token string, err error)
	GenerateRefreshToken(userID string, email string) (token string, err error)
	ValidateToken(tokenString string) (*Claims, error)
	ValidateRefreshToken(tokenString string) (*Claims, error)
}

// User is the acting principal as loaded from the user directory.
type User struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	Role       Role   `json:"role"`
	Department string `json:"department"`
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

func (u *User) IsManager() bool {
	return u != nil && u.Role == RoleManager
}

func (u *User) IsEmployee() bool {
	return u != nil && u.Role == RoleEmployee
}

func VerifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

func HashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
