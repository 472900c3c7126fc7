package space

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/frahmantamala/workspace-booking/internal"
	"github.com/frahmantamala/workspace-booking/internal/auth"
	"github.com/google/uuid"
)

type RepositoryAPI interface {
	ListCoworkings(ctx context.Context) ([]*Coworking, error)
	GetCoworking(ctx context.Context, coworkingID string) (*Coworking, error)
	CreateCoworking(ctx context.Context, c *Coworking) error
	RenameCoworking(ctx context.Context, coworkingID, name string) error
	// DeleteCoworking removes the coworking with its floors and their spaces.
	DeleteCoworking(ctx context.Context, coworkingID string) error

	// ListFloors lists every floor when coworkingID is empty.
	ListFloors(ctx context.Context, coworkingID string) ([]*Floor, error)
	GetFloor(ctx context.Context, floorID string) (*Floor, error)
	CreateFloor(ctx context.Context, f *Floor) error
	RenameFloor(ctx context.Context, floorID, name string) error
	// DeleteFloor removes the floor with its spaces.
	DeleteFloor(ctx context.Context, floorID string) error

	ListSpaces(ctx context.Context, floorID string) ([]*Space, error)
	GetSpace(ctx context.Context, spaceID string) (*Space, error)
	CreateSpace(ctx context.Context, s *Space) error
	DeleteSpace(ctx context.Context, spaceID string) error
}

// BookingPurger removes every booking held on a space.
type BookingPurger interface {
	DeleteBySpace(ctx context.Context, spaceID string) (int64, error)
}

type Service struct {
	repo   RepositoryAPI
	purger BookingPurger
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, purger BookingPurger, logger *slog.Logger) *Service {
	return &Service{repo: repo, purger: purger, logger: logger}
}

func (s *Service) ListCoworkings(ctx context.Context) ([]*Coworking, error) {
	coworkings, err := s.repo.ListCoworkings(ctx)
	if err != nil {
		return nil, internal.NewInternalError("failed to list coworkings", err)
	}
	return coworkings, nil
}

func (s *Service) GetCoworking(ctx context.Context, coworkingID string) (*Coworking, error) {
	c, err := s.repo.GetCoworking(ctx, coworkingID)
	if err != nil {
		if errors.Is(err, ErrCoworkingNotFound) {
			return nil, ErrCoworkingNotFound
		}
		return nil, internal.NewInternalError("failed to get coworking", err)
	}
	return c, nil
}

// ListFloors lists the floors of coworkingID, or every floor when it is empty.
func (s *Service) ListFloors(ctx context.Context, coworkingID string) ([]*Floor, error) {
	if coworkingID != "" {
		if _, err := s.GetCoworking(ctx, coworkingID); err != nil {
			return nil, err
		}
	}
	floors, err := s.repo.ListFloors(ctx, coworkingID)
	if err != nil {
		return nil, internal.NewInternalError("failed to list floors", err)
	}
	return floors, nil
}

func (s *Service) ListSpaces(ctx context.Context, floorID string) ([]*Space, error) {
	if _, err := s.GetFloor(ctx, floorID); err != nil {
		return nil, err
	}
	spaces, err := s.repo.ListSpaces(ctx, floorID)
	if err != nil {
		return nil, internal.NewInternalError("failed to list spaces", err)
	}
	return spaces, nil
}

func (s *Service) GetFloor(ctx context.Context, floorID string) (*Floor, error) {
	f, err := s.repo.GetFloor(ctx, floorID)
	if err != nil {
		if errors.Is(err, ErrFloorNotFound) {
			return nil, ErrFloorNotFound
		}
		return nil, internal.NewInternalError("failed to get floor", err)
	}
	return f, nil
}

func (s *Service) GetSpace(ctx context.Context, spaceID string) (*Space, error) {
	sp, err := s.repo.GetSpace(ctx, spaceID)
	if err != nil {
		if errors.Is(err, ErrSpaceNotFound) {
			return nil, ErrSpaceNotFound
		}
		return nil, internal.NewInternalError("failed to get space", err)
	}
	return sp, nil
}

func (s *Service) CreateFloor(ctx context.Context, actor *auth.User, dto CreateFloorDTO) (*Floor, error) {
	if !actor.IsAdmin() {
		return nil, internal.ErrAdminRequired
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	coworkingID := strings.TrimSpace(dto.CoworkingID)
	if coworkingID != "" {
		if _, err := s.GetCoworking(ctx, coworkingID); err != nil {
			return nil, err
		}
	}

	f := &Floor{ID: uuid.NewString(), CoworkingID: coworkingID, Name: strings.TrimSpace(dto.Name)}
	if err := s.repo.CreateFloor(ctx, f); err != nil {
		s.logger.Error("failed to create floor", "error", err)
		return nil, internal.NewInternalError("failed to create floor", err)
	}

	s.logger.Info("floor created", "floor_id", f.ID, "coworking_id", f.CoworkingID, "user_id", actor.ID)
	return f, nil
}

func (s *Service) RenameFloor(ctx context.Context, actor *auth.User, floorID string, dto RenameDTO) (*Floor, error) {
	if !actor.IsAdmin() {
		return nil, internal.ErrAdminRequired
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	f, err := s.GetFloor(ctx, floorID)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(dto.Name)
	if err := s.repo.RenameFloor(ctx, floorID, name); err != nil {
		if errors.Is(err, ErrFloorNotFound) {
			return nil, ErrFloorNotFound
		}
		s.logger.Error("failed to rename floor", "floor_id", floorID, "error", err)
		return nil, internal.NewInternalError("failed to rename floor", err)
	}
	f.Name = name

	s.logger.Info("floor renamed", "floor_id", floorID, "user_id", actor.ID)
	return f, nil
}

// DeleteFloor removes a floor, its spaces and every booking held on them.
func (s *Service) DeleteFloor(ctx context.Context, actor *auth.User, floorID string) error {
	if !actor.IsAdmin() {
		return internal.ErrAdminRequired
	}
	if _, err := s.GetFloor(ctx, floorID); err != nil {
		return err
	}

	purged, err := s.purgeFloor(ctx, floorID)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteFloor(ctx, floorID); err != nil {
		if errors.Is(err, ErrFloorNotFound) {
			return ErrFloorNotFound
		}
		s.logger.Error("failed to delete floor", "floor_id", floorID, "error", err)
		return internal.NewInternalError("failed to delete floor", err)
	}

	s.logger.Info("floor deleted", "floor_id", floorID, "user_id", actor.ID, "bookings_removed", purged)
	return nil
}

func (s *Service) CreateCoworking(ctx context.Context, actor *auth.User, dto CreateCoworkingDTO) (*Coworking, error) {
	if !actor.IsAdmin() {
		return nil, internal.ErrAdminRequired
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	c := &Coworking{ID: uuid.NewString(), Name: strings.TrimSpace(dto.Name)}
	if err := s.repo.CreateCoworking(ctx, c); err != nil {
		s.logger.Error("failed to create coworking", "error", err)
		return nil, internal.NewInternalError("failed to create coworking", err)
	}

	s.logger.Info("coworking created", "coworking_id", c.ID, "user_id", actor.ID)
	return c, nil
}

func (s *Service) RenameCoworking(ctx context.Context, actor *auth.User, coworkingID string, dto RenameDTO) (*Coworking, error) {
	if !actor.IsAdmin() {
		return nil, internal.ErrAdminRequired
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	c, err := s.GetCoworking(ctx, coworkingID)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(dto.Name)
	if err := s.repo.RenameCoworking(ctx, coworkingID, name); err != nil {
		if errors.Is(err, ErrCoworkingNotFound) {
			return nil, ErrCoworkingNotFound
		}
		s.logger.Error("failed to rename coworking", "coworking_id", coworkingID, "error", err)
		return nil, internal.NewInternalError("failed to rename coworking", err)
	}
	c.Name = name

	s.logger.Info("coworking renamed", "coworking_id", coworkingID, "user_id", actor.ID)
	return c, nil
}

// DeleteCoworking removes a coworking with all of its floors, their spaces and
// every booking held on them.
func (s *Service) DeleteCoworking(ctx context.Context, actor *auth.User, coworkingID string) error {
	if !actor.IsAdmin() {
		return internal.ErrAdminRequired
	}
	if _, err := s.GetCoworking(ctx, coworkingID); err != nil {
		return err
	}
	floors, err := s.repo.ListFloors(ctx, coworkingID)
	if err != nil {
		return internal.NewInternalError("failed to list floors", err)
	}

	var purged int64
	for _, f := range floors {
		n, err := s.purgeFloor(ctx, f.ID)
		if err != nil {
			return err
		}
		purged += n
	}

	if err := s.repo.DeleteCoworking(ctx, coworkingID); err != nil {
		if errors.Is(err, ErrCoworkingNotFound) {
			return ErrCoworkingNotFound
		}
		s.logger.Error("failed to delete coworking", "coworking_id", coworkingID, "error", err)
		return internal.NewInternalError("failed to delete coworking", err)
	}

	s.logger.Info("coworking deleted", "coworking_id", coworkingID, "user_id", actor.ID, "floors_removed", len(floors), "bookings_removed", purged)
	return nil
}

// purgeFloor removes the bookings of every space on floorID.
func (s *Service) purgeFloor(ctx context.Context, floorID string) (int64, error) {
	spaces, err := s.repo.ListSpaces(ctx, floorID)
	if err != nil {
		return 0, internal.NewInternalError("failed to list spaces", err)
	}
	var purged int64
	for _, sp := range spaces {
		n, err := s.purger.DeleteBySpace(ctx, sp.ID)
		if err != nil {
			s.logger.Error("failed to purge space bookings", "space_id", sp.ID, "floor_id", floorID, "error", err)
			return purged, internal.NewInternalError("failed to delete space bookings", err)
		}
		purged += n
	}
	return purged, nil
}

func (s *Service) CreateSpace(ctx context.Context, actor *auth.User, floorID string, dto CreateSpaceDTO) (*Space, error) {
	if !actor.IsAdmin() {
		return nil, internal.ErrAdminRequired
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.GetFloor(ctx, floorID); err != nil {
		return nil, err
	}

	sp := &Space{
		ID:      uuid.NewString(),
		FloorID: floorID,
		Label:   strings.TrimSpace(dto.Label),
		Seats:   dto.Seats,
	}
	if err := s.repo.CreateSpace(ctx, sp); err != nil {
		s.logger.Error("failed to create space", "floor_id", floorID, "error", err)
		return nil, internal.NewInternalError("failed to create space", err)
	}

	s.logger.Info("space created", "space_id", sp.ID, "floor_id", floorID, "user_id", actor.ID)
	return sp, nil
}

// DeleteSpace removes a space and every booking held on it.
func (s *Service) DeleteSpace(ctx context.Context, actor *auth.User, spaceID string) error {
	if !actor.IsAdmin() {
		return internal.ErrAdminRequired
	}
	if _, err := s.GetSpace(ctx, spaceID); err != nil {
		return err
	}

	purged, err := s.purger.DeleteBySpace(ctx, spaceID)
	if err != nil {
		s.logger.Error("failed to purge space bookings", "space_id", spaceID, "error", err)
		return internal.NewInternalError("failed to delete space bookings", err)
	}

	if err := s.repo.DeleteSpace(ctx, spaceID); err != nil {
		if errors.Is(err, ErrSpaceNotFound) {
			return ErrSpaceNotFound
		}
		s.logger.Error("failed to delete space", "space_id", spaceID, "error", err)
		return internal.NewInternalError("failed to delete space", err)
	}

	s.logger.Info("space deleted", "space_id", spaceID, "user_id", actor.ID, "bookings_removed", purged)
	return nil
}
