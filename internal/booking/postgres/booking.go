package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/frahmantamala/workspace-booking/internal/booking"
	bookingDatamodel "github.com/frahmantamala/workspace-booking/internal/core/datamodel/booking"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// exclusionViolation is the SQLSTATE raised by the bookings_no_overlap constraint.
const exclusionViolation = "23P01"

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

func (r *BookingRepository) ListActive(ctx context.Context, f booking.Filter) ([]booking.Booking, error) {
	q := r.db.WithContext(ctx).Where("status = ?", string(booking.StatusActive))
	if len(f.SpaceIDs) > 0 {
		q = q.Where("space_id IN ?", f.SpaceIDs)
	}
	if len(f.OwnerIDs) > 0 {
		q = q.Where("owner_user_id IN ?", f.OwnerIDs)
	}
	if f.DateFrom != "" {
		from, err := booking.ParseDate(f.DateFrom)
		if err != nil {
			return nil, err
		}
		q = q.Where("booking_date >= ?", from)
	}
	if f.DateTo != "" {
		to, err := booking.ParseDate(f.DateTo)
		if err != nil {
			return nil, err
		}
		q = q.Where("booking_date <= ?", to)
	}

	var rows []bookingDatamodel.Booking
	if err := q.Order("booking_date ASC, slot_from ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return toDomain(rows), nil
}

func (r *BookingRepository) GetByID(ctx context.Context, bookingID string) (*booking.Booking, error) {
	var row bookingDatamodel.Booking
	if err := r.db.WithContext(ctx).Where("id = ?", bookingID).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, booking.ErrBookingNotFound
		}
		return nil, err
	}
	b := booking.FromDataModel(&row)
	return &b, nil
}

// InsertBatch writes every booking inside one transaction. Each insert runs
// under its own savepoint so an exclusion violation only drops that row.
func (r *BookingRepository) InsertBatch(ctx context.Context, bookings []booking.Booking) ([]booking.Booking, []booking.Booking, error) {
	var saved, taken []booking.Booking
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		saved, taken = nil, nil
		for _, b := range bookings {
			row := booking.ToDataModel(&b)
			err := tx.Transaction(func(sp *gorm.DB) error {
				return sp.Create(row).Error
			})
			if isExclusionViolation(err) {
				taken = append(taken, b)
				continue
			}
			if err != nil {
				return err
			}
			b.CreatedAt = row.CreatedAt
			saved = append(saved, b)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return saved, taken, nil
}

func isExclusionViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == exclusionViolation
}

func (r *BookingRepository) UpdateStatus(ctx context.Context, bookingID string, from, to booking.Status) error {
	res := r.db.WithContext(ctx).
		Model(&bookingDatamodel.Booking{}).
		Where("id = ? AND status = ?", bookingID, string(from)).
		Update("status", string(to))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return booking.ErrBookingNotFound
	}
	return nil
}

func (r *BookingRepository) DeleteExpired(ctx context.Context, before time.Time) ([]booking.Booking, error) {
	return r.deleteWhere(ctx, "expires_at < ?", before.UTC())
}

func (r *BookingRepository) DeleteByOwner(ctx context.Context, userID string) ([]booking.Booking, error) {
	return r.deleteWhere(ctx, "owner_user_id = ?", userID)
}

func (r *BookingRepository) DeleteBySpace(ctx context.Context, spaceID string) ([]booking.Booking, error) {
	return r.deleteWhere(ctx, "space_id = ?", spaceID)
}

// deleteWhere removes the matching rows and returns what was removed.
func (r *BookingRepository) deleteWhere(ctx context.Context, cond string, args ...interface{}) ([]booking.Booking, error) {
	var rows []bookingDatamodel.Booking
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where(cond, args...).Find(&rows).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		ids := make([]string, 0, len(rows))
		for _, row := range rows {
			ids = append(ids, row.ID)
		}
		return tx.Where("id IN ?", ids).Delete(&bookingDatamodel.Booking{}).Error
	})
	if err != nil {
		return nil, err
	}
	return toDomain(rows), nil
}

func toDomain(rows []bookingDatamodel.Booking) []booking.Booking {
	out := make([]booking.Booking, 0, len(rows))
	for i := range rows {
		out = append(out, booking.FromDataModel(&rows[i]))
	}
	return out
}
