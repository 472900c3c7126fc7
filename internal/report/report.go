package report

import (
	"context"
	"encoding/csv"
	"io"
	"log/slog"
	"time"

	"github.com/frahmantamala/workspace-booking/internal"
	"github.com/frahmantamala/workspace-booking/internal/booking"
	"github.com/frahmantamala/workspace-booking/internal/timerange"
	"github.com/jmoiron/sqlx"
)

// Header is the column order of the bookings export.
var Header = []string{"space", "floor", "user", "email", "date", "from", "to", "expires"}

const activeBookingsQuery = `
SELECT s.label AS space_label,
       f.name AS floor_name,
       COALESCE(u.name, '') AS user_name,
       COALESCE(u.email, '') AS user_email,
       b.booking_date,
       b.slot_from,
       b.slot_to,
       b.expires_at
FROM bookings b
JOIN spaces s ON s.id = b.space_id
JOIN floors f ON f.id = s.floor_id
LEFT JOIN users u ON u.id = b.owner_user_id
WHERE b.status = ?
  AND b.expires_at >= ?`

type Row struct {
	SpaceLabel  string    `db:"space_label"`
	FloorName   string    `db:"floor_name"`
	UserName    string    `db:"user_name"`
	UserEmail   string    `db:"user_email"`
	BookingDate time.Time `db:"booking_date"`
	SlotFrom    int       `db:"slot_from"`
	SlotTo      int       `db:"slot_to"`
	ExpiresAt   time.Time `db:"expires_at"`
}

func (r Row) Record(loc *time.Location) []string {
	return []string{
		r.SpaceLabel,
		r.FloorName,
		r.UserName,
		r.UserEmail,
		r.BookingDate.UTC().Format(booking.DateLayout),
		timerange.TimeOfDay(r.SlotFrom).String(),
		timerange.TimeOfDay(r.SlotTo).String(),
		r.ExpiresAt.In(loc).Format("2006-01-02 15:04"),
	}
}

type Exporter struct {
	db     *sqlx.DB
	loc    *time.Location
	clock  booking.Clock
	logger *slog.Logger
}

func NewExporter(db *sqlx.DB, loc *time.Location, clock booking.Clock, logger *slog.Logger) *Exporter {
	if loc == nil {
		loc = time.UTC
	}
	if clock == nil {
		clock = booking.SystemClock{}
	}
	return &Exporter{db: db, loc: loc, clock: clock, logger: logger}
}

// ActiveBookings lists active bookings whose slot has not ended, with their
// space, floor and owner, optionally bounded by an inclusive date window.
func (e *Exporter) ActiveBookings(ctx context.Context, dateFrom, dateTo string) ([]Row, error) {
	query := activeBookingsQuery
	args := []interface{}{string(booking.StatusActive), e.clock.Now().UTC()}
	if dateFrom != "" {
		from, err := booking.ParseDate(dateFrom)
		if err != nil {
			return nil, err
		}
		query += " AND b.booking_date >= ?"
		args = append(args, from)
	}
	if dateTo != "" {
		to, err := booking.ParseDate(dateTo)
		if err != nil {
			return nil, err
		}
		query += " AND b.booking_date <= ?"
		args = append(args, to)
	}
	query += " ORDER BY b.booking_date, f.name, s.label, b.slot_from"

	var rows []Row
	if err := e.db.SelectContext(ctx, &rows, e.db.Rebind(query), args...); err != nil {
		e.logger.Error("failed to query bookings export", "error", err)
		return nil, internal.NewInternalError("failed to export bookings", err)
	}
	return rows, nil
}

// WriteCSV writes the export to w and returns the number of data rows.
func (e *Exporter) WriteCSV(ctx context.Context, w io.Writer, dateFrom, dateTo string) (int, error) {
	rows, err := e.ActiveBookings(ctx, dateFrom, dateTo)
	if err != nil {
		return 0, err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return 0, err
	}
	for _, r := range rows {
		if err := cw.Write(r.Record(e.loc)); err != nil {
			return 0, err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return 0, err
	}

	e.logger.Info("bookings exported", "rows", len(rows))
	return len(rows), nil
}
