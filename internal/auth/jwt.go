package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// NewJWTTokenGenerator creates a new JWT token generator
func NewJWTTokenGenerator(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *JWTTokenGenerator {
	if accessTTL <= 0 {
		accessTTL = 15 * time.Minute
	}
	if refreshTTL <= 0 {
		refreshTTL = 7 * 24 * time.Hour
	}
	return &JWTTokenGenerator{
		AccessTokenSecret:  []byte(accessSecret),
		RefreshTokenSecret: []byte(refreshSecret),
		AccessTokenTTL:     accessTTL,
		RefreshTokenTTL:    refreshTTL,
		Issuer:             "workspace-booking",
	}
}

func (j *JWTTokenGenerator) sign(userID, email, tokenType string, ttl time.Duration, secret []byte) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID:    userID,
		Email:     email,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    j.Issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// GenerateAccessToken creates a new access token
func (j *JWTTokenGenerator) GenerateAccessToken(userID, email string) (string, error) {
	return j.sign(userID, email, tokenTypeAccess, j.AccessTokenTTL, j.AccessTokenSecret)
}

// GenerateRefreshToken creates a new refresh token
func (j *JWTTokenGenerator) GenerateRefreshToken(userID, email string) (string, error) {
	return j.sign(userID, email, tokenTypeRefresh, j.RefreshTokenTTL, j.RefreshTokenSecret)
}

// ValidateToken validates an access token and returns its claims.
func (j *JWTTokenGenerator) ValidateToken(tokenString string) (*Claims, error) {
	return j.parse(tokenString, tokenTypeAccess, j.AccessTokenSecret)
}

// ValidateRefreshToken validates a refresh token and returns its claims.
func (j *JWTTokenGenerator) ValidateRefreshToken(tokenString string) (*Claims, error) {
	return j.parse(tokenString, tokenTypeRefresh, j.RefreshTokenSecret)
}

func (j *JWTTokenGenerator) parse(tokenString, tokenType string, secret []byte) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	}, jwt.WithIssuer(j.Issuer))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken.WithCause(err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.TokenType != tokenType || claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
