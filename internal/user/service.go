package user

import (
	"context"
	"errors"
	"log/slog"

	"github.com/frahmantamala/workspace-booking/internal"
	"github.com/frahmantamala/workspace-booking/internal/auth"
)

type Repository interface {
	GetByID(ctx context.Context, userID string) (*User, error)
	List(ctx context.Context) ([]*User, error)
	UpdateRole(ctx context.Context, userID string, role auth.Role) error
	Delete(ctx context.Context, userID string) error
}

// BookingPurger removes every booking owned by a user.
type BookingPurger interface {
	DeleteByOwner(ctx context.Context, userID string) (int64, error)
}

type Service struct {
	repo   Repository
	purger BookingPurger
	logger *slog.Logger
}

func NewService(repo Repository, purger BookingPurger, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		purger: purger,
		logger: logger,
	}
}

func (s *Service) GetByID(ctx context.Context, userID string) (*User, error) {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, internal.NewInternalError("failed to get user", err)
	}
	return u, nil
}

func (s *Service) List(ctx context.Context, actor *auth.User) ([]*User, error) {
	if !actor.IsAdmin() {
		return nil, internal.ErrAdminRequired
	}
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, internal.NewInternalError("failed to list users", err)
	}
	return users, nil
}

// ListBookable returns the users actor may create bookings for.
func (s *Service) ListBookable(ctx context.Context, actor *auth.User) ([]BookableUserResponse, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, internal.NewInternalError("failed to list users", err)
	}

	principals := make([]auth.User, 0, len(users))
	for _, u := range users {
		principals = append(principals, *u.Principal())
	}

	allowed := auth.AllowedBookees(actor, principals)
	out := make([]BookableUserResponse, 0, len(allowed))
	for _, u := range allowed {
		out = append(out, BookableUserResponse{
			ID:         u.ID,
			Name:       u.Name,
			Email:      u.Email,
			Department: u.Department,
			Role:       u.Role,
			Self:       u.ID == actor.ID,
		})
	}
	return out, nil
}

func (s *Service) UpdateRole(ctx context.Context, actor *auth.User, userID string, role auth.Role) (*User, error) {
	if !actor.IsAdmin() {
		s.logger.Warn("role change denied", "user_id", actor.ID, "target_user_id", userID)
		return nil, internal.ErrAdminRequired
	}
	if !role.Valid() {
		return nil, internal.NewValidationFieldError("role", "unknown role", internal.ErrCodeInvalidRole)
	}

	if err := s.repo.UpdateRole(ctx, userID, role); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		s.logger.Error("failed to update role", "target_user_id", userID, "error", err)
		return nil, internal.NewInternalError("failed to update role", err)
	}

	s.logger.Info("user role changed", "user_id", actor.ID, "target_user_id", userID, "role", role)
	return s.GetByID(ctx, userID)
}

// Delete removes a user together with every booking they own.
func (s *Service) Delete(ctx context.Context, actor *auth.User, userID string) error {
	if !actor.IsAdmin() {
		s.logger.Warn("user deletion denied", "user_id", actor.ID, "target_user_id", userID)
		return internal.ErrAdminRequired
	}
	if actor.ID == userID {
		return ErrCannotDeleteSelf
	}

	if _, err := s.GetByID(ctx, userID); err != nil {
		return err
	}

	purged, err := s.purger.DeleteByOwner(ctx, userID)
	if err != nil {
		s.logger.Error("failed to purge bookings", "target_user_id", userID, "error", err)
		return internal.NewInternalError("failed to delete user bookings", err)
	}

	if err := s.repo.Delete(ctx, userID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		s.logger.Error("failed to delete user", "target_user_id", userID, "error", err)
		return internal.NewInternalError("failed to delete user", err)
	}

	s.logger.Info("user deleted", "user_id", actor.ID, "target_user_id", userID, "bookings_removed", purged)
	return nil
}
