package auth

import (
	"context"
	"errors"
	"log/slog"

	"github.com/frahmantamala/workspace-booking/internal"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Service is the main auth service with dependencies
type Service struct {
	userRepo       RepositoryAPI
	tokenGenerator TokenGeneratorAPI
	bcryptCost     int
	logger         *slog.Logger
}

// NewService creates a new auth service
func NewService(userRepo RepositoryAPI, tokenGen TokenGeneratorAPI, bcryptCost int, logger *slog.Logger) *Service {
	if bcryptCost < bcrypt.MinCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		userRepo:       userRepo,
		tokenGenerator: tokenGen,
		bcryptCost:     bcryptCost,
		logger:         logger,
	}
}

func (s *Service) RBACAuthorization() *RBACAuthorization {
	return NewRBACAuthorization(NewPermissionChecker(), s.logger)
}

// Authenticate validates credentials and returns tokens
func (s *Service) Authenticate(ctx context.Context, dto LoginDTO) (AuthTokens, error) {
	if err := dto.Validate(); err != nil {
		return AuthTokens{}, err
	}

	storedHash, userID, err := s.userRepo.GetCredentialsByEmail(ctx, dto.Email)
	if err != nil {
		if !errors.Is(err, internal.ErrUserNotFound) {
			s.logger.Error("failed to load credentials", "error", err)
			return AuthTokens{}, internal.NewInternalError("failed to authenticate", err)
		}
		s.logger.Warn("login for unknown email")
		return AuthTokens{}, ErrInvalidCredentials
	}

	if err := VerifyPassword(storedHash, dto.Password); err != nil {
		s.logger.Warn("login with wrong password", "user_id", userID)
		return AuthTokens{}, ErrInvalidCredentials
	}

	tokens, err := s.issueTokens(userID, dto.Email)
	if err != nil {
		return AuthTokens{}, err
	}
	s.logger.Info("user logged in", "user_id", userID)
	return tokens, nil
}

// Register creates an employee account.
func (s *Service) Register(ctx context.Context, dto RegisterDTO) (*User, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	exists, err := s.userRepo.EmailExists(ctx, dto.Email)
	if err != nil {
		s.logger.Error("failed to check email", "error", err)
		return nil, internal.NewInternalError("failed to register user", err)
	}
	if exists {
		return nil, ErrEmailTaken
	}

	hash, err := HashPassword(dto.Password, s.bcryptCost)
	if err != nil {
		return nil, internal.NewInternalError("failed to hash password", err)
	}

	u := &User{
		ID:         uuid.NewString(),
		Email:      dto.Email,
		Name:       dto.Name,
		Department: dto.Department,
		Role:       RoleEmployee,
	}
	if err := s.userRepo.CreateUser(ctx, u, hash); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return nil, ErrEmailTaken
		}
		s.logger.Error("failed to create user", "error", err)
		return nil, internal.NewInternalError("failed to register user", err)
	}

	s.logger.Info("user registered", "user_id", u.ID, "department", u.Department)
	return u, nil
}

// RefreshTokens validates refresh token and returns new tokens
func (s *Service) RefreshTokens(ctx context.Context, refreshToken string) (AuthTokens, error) {
	claims, err := s.tokenGenerator.ValidateRefreshToken(refreshToken)
	if err != nil {
		return AuthTokens{}, err
	}

	// the account may have been deleted since the token was issued
	if _, err := s.GetUser(ctx, claims.UserID); err != nil {
		return AuthTokens{}, err
	}

	return s.issueTokens(claims.UserID, claims.Email)
}

// ValidateAccessToken validates access token and returns claims
func (s *Service) ValidateAccessToken(tokenString string) (*Claims, error) {
	return s.tokenGenerator.ValidateToken(tokenString)
}

// GetUser loads the current directory record for userID.
func (s *Service) GetUser(ctx context.Context, userID string) (*User, error) {
	u, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, internal.ErrUserNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, internal.NewInternalError("failed to load user", err)
	}
	return u, nil
}

func (s *Service) issueTokens(userID, email string) (AuthTokens, error) {
	accessToken, err := s.tokenGenerator.GenerateAccessToken(userID, email)
	if err != nil {
		return AuthTokens{}, internal.NewInternalError("failed to issue token", err)
	}

	refreshToken, err := s.tokenGenerator.GenerateRefreshToken(userID, email)
	if err != nil {
		return AuthTokens{}, internal.NewInternalError("failed to issue token", err)
	}

	return AuthTokens{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}
