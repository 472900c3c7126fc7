package auth

import (
	"time"

	"github.com/frahmantamala/workspace-booking/internal"
	"github.com/golang-jwt/jwt/v5"
)

type AuthTokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Claims represents JWT token claims
type Claims struct {
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

type JWTTokenGenerator struct {
	AccessTokenSecret  []byte
	RefreshTokenSecret []byte
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration
	Issuer             string
}

const MinPasswordLength = 6

var (
	ErrInvalidCredentials = internal.ErrInvalidCredentials
	ErrInvalidToken       = internal.ErrInvalidToken
	ErrTokenExpired       = internal.ErrTokenExpired
	ErrEmailTaken         = internal.NewConflictError("email is already registered", internal.ErrCodeEmailTaken)
	ErrUnauthenticated    = internal.NewUnauthorizedError("missing authorization token", internal.ErrCodeInvalidToken)
)
