package space

import (
	"time"

	"github.com/frahmantamala/workspace-booking/internal"
	spaceDatamodel "github.com/frahmantamala/workspace-booking/internal/core/datamodel/space"
)

// Coworking is a site; deleting it removes its floors.
type Coworking struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Floor belongs to at most one coworking.
type Floor struct {
	ID          string    `json:"id"`
	CoworkingID string    `json:"coworking_id,omitempty"`
	Name        string    `json:"name"`
	CreatedAt   time.Time `json:"created_at"`
}

// Space is a bookable seat or room on a floor.
type Space struct {
	ID        string    `json:"id"`
	FloorID   string    `json:"floor_id"`
	Label     string    `json:"label"`
	Seats     int       `json:"seats"`
	CreatedAt time.Time `json:"created_at"`
}

var (
	ErrSpaceNotFound = internal.NewNotFoundError("space not found", internal.ErrCodeSpaceNotFound)
	ErrFloorNotFound = internal.NewNotFoundError("floor not found", internal.ErrCodeFloorNotFound)

	ErrCoworkingNotFound = internal.NewNotFoundError("coworking not found", internal.ErrCodeCoworkingNotFound)
)

func CoworkingFromDataModel(c *spaceDatamodel.Coworking) *Coworking {
	return &Coworking{ID: c.ID, Name: c.Name, CreatedAt: c.CreatedAt}
}

func FloorFromDataModel(f *spaceDatamodel.Floor) *Floor {
	out := &Floor{ID: f.ID, Name: f.Name, CreatedAt: f.CreatedAt}
	if f.CoworkingID != nil {
		out.CoworkingID = *f.CoworkingID
	}
	return out
}

func FloorToDataModel(f *Floor) *spaceDatamodel.Floor {
	row := &spaceDatamodel.Floor{ID: f.ID, Name: f.Name, CreatedAt: f.CreatedAt}
	if f.CoworkingID != "" {
		id := f.CoworkingID
		row.CoworkingID = &id
	}
	return row
}

func FromDataModel(s *spaceDatamodel.Space) *Space {
	return &Space{
		ID:        s.ID,
		FloorID:   s.FloorID,
		Label:     s.Label,
		Seats:     s.Seats,
		CreatedAt: s.CreatedAt,
	}
}

func ToDataModel(s *Space) *spaceDatamodel.Space {
	return &spaceDatamodel.Space{
		ID:        s.ID,
		FloorID:   s.FloorID,
		Label:     s.Label,
		Seats:     s.Seats,
		CreatedAt: s.CreatedAt,
	}
}
