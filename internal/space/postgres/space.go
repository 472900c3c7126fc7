package postgres

import (
	"context"
	"errors"

	spaceDatamodel "github.com/frahmantamala/workspace-booking/internal/core/datamodel/space"
	"github.com/frahmantamala/workspace-booking/internal/space"
	"gorm.io/gorm"
)

type SpaceRepository struct {
	db *gorm.DB
}

func NewSpaceRepository(db *gorm.DB) *SpaceRepository {
	return &SpaceRepository{db: db}
}

func (r *SpaceRepository) ListCoworkings(ctx context.Context) ([]*space.Coworking, error) {
	var rows []spaceDatamodel.Coworking
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*space.Coworking, 0, len(rows))
	for i := range rows {
		out = append(out, space.CoworkingFromDataModel(&rows[i]))
	}
	return out, nil
}

func (r *SpaceRepository) GetCoworking(ctx context.Context, coworkingID string) (*space.Coworking, error) {
	var row spaceDatamodel.Coworking
	if err := r.db.WithContext(ctx).Where("id = ?", coworkingID).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, space.ErrCoworkingNotFound
		}
		return nil, err
	}
	return space.CoworkingFromDataModel(&row), nil
}

func (r *SpaceRepository) CreateCoworking(ctx context.Context, c *space.Coworking) error {
	row := spaceDatamodel.Coworking{ID: c.ID, Name: c.Name}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return err
	}
	c.CreatedAt = row.CreatedAt
	return nil
}

func (r *SpaceRepository) RenameCoworking(ctx context.Context, coworkingID, name string) error {
	res := r.db.WithContext(ctx).Model(&spaceDatamodel.Coworking{}).Where("id = ?", coworkingID).Update("name", name)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return space.ErrCoworkingNotFound
	}
	return nil
}

// DeleteCoworking deletes the coworking's spaces, its floors and the coworking
// itself in one transaction.
func (r *SpaceRepository) DeleteCoworking(ctx context.Context, coworkingID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		floorIDs := tx.Model(&spaceDatamodel.Floor{}).Select("id").Where("coworking_id = ?", coworkingID)
		if err := tx.Where("floor_id IN (?)", floorIDs).Delete(&spaceDatamodel.Space{}).Error; err != nil {
			return err
		}
		if err := tx.Where("coworking_id = ?", coworkingID).Delete(&spaceDatamodel.Floor{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", coworkingID).Delete(&spaceDatamodel.Coworking{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return space.ErrCoworkingNotFound
		}
		return nil
	})
}

func (r *SpaceRepository) ListFloors(ctx context.Context, coworkingID string) ([]*space.Floor, error) {
	q := r.db.WithContext(ctx).Order("name ASC")
	if coworkingID != "" {
		q = q.Where("coworking_id = ?", coworkingID)
	}
	var rows []spaceDatamodel.Floor
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*space.Floor, 0, len(rows))
	for i := range rows {
		out = append(out, space.FloorFromDataModel(&rows[i]))
	}
	return out, nil
}

func (r *SpaceRepository) GetFloor(ctx context.Context, floorID string) (*space.Floor, error) {
	var row spaceDatamodel.Floor
	if err := r.db.WithContext(ctx).Where("id = ?", floorID).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, space.ErrFloorNotFound
		}
		return nil, err
	}
	return space.FloorFromDataModel(&row), nil
}

func (r *SpaceRepository) CreateFloor(ctx context.Context, f *space.Floor) error {
	row := space.FloorToDataModel(f)
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return err
	}
	f.CreatedAt = row.CreatedAt
	return nil
}

func (r *SpaceRepository) RenameFloor(ctx context.Context, floorID, name string) error {
	res := r.db.WithContext(ctx).Model(&spaceDatamodel.Floor{}).Where("id = ?", floorID).Update("name", name)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return space.ErrFloorNotFound
	}
	return nil
}

func (r *SpaceRepository) DeleteFloor(ctx context.Context, floorID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("floor_id = ?", floorID).Delete(&spaceDatamodel.Space{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", floorID).Delete(&spaceDatamodel.Floor{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return space.ErrFloorNotFound
		}
		return nil
	})
}

func (r *SpaceRepository) ListSpaces(ctx context.Context, floorID string) ([]*space.Space, error) {
	var rows []spaceDatamodel.Space
	if err := r.db.WithContext(ctx).Where("floor_id = ?", floorID).Order("label ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*space.Space, 0, len(rows))
	for i := range rows {
		out = append(out, space.FromDataModel(&rows[i]))
	}
	return out, nil
}

func (r *SpaceRepository) GetSpace(ctx context.Context, spaceID string) (*space.Space, error) {
	var row spaceDatamodel.Space
	if err := r.db.WithContext(ctx).Where("id = ?", spaceID).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, space.ErrSpaceNotFound
		}
		return nil, err
	}
	return space.FromDataModel(&row), nil
}

func (r *SpaceRepository) CreateSpace(ctx context.Context, s *space.Space) error {
	row := space.ToDataModel(s)
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return err
	}
	s.CreatedAt = row.CreatedAt
	return nil
}

func (r *SpaceRepository) DeleteSpace(ctx context.Context, spaceID string) error {
	res := r.db.WithContext(ctx).Where("id = ?", spaceID).Delete(&spaceDatamodel.Space{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return space.ErrSpaceNotFound
	}
	return nil
}
