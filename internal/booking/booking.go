package booking

import (
	"fmt"
	"time"

	"github.com/frahmantamala/workspace-booking/internal"
	"github.com/frahmantamala/workspace-booking/internal/timerange"
)

type Status string

const (
	StatusActive    Status = "active"
	StatusCancelled Status = "cancelled"
)

// DateLayout is the calendar-day format used for booking dates.
const DateLayout = "2006-01-02"

type Booking struct {
	ID             string          `json:"id"`
	SpaceID        string          `json:"space_id"`
	OwnerUserID    string          `json:"owner_user_id"`
	BookedByUserID string          `json:"booked_by_user_id"`
	Date           string          `json:"date"`
	Slot           timerange.Range `json:"-"`
	ExpiresAt      time.Time       `json:"expires_at"`
	Status         Status          `json:"status"`
	CreatedAt      time.Time       `json:"created_at"`
}

func (b *Booking) IsActive() bool {
	return b.Status == StatusActive
}

// Month returns the YYYY-MM prefix of the booking date.
func (b *Booking) Month() string {
	return b.Date[:7]
}

var (
	ErrBookingNotFound = internal.NewNotFoundError("booking not found", internal.ErrCodeBookingNotFound)
	ErrCannotBookFor   = internal.NewForbiddenError("you are not allowed to book for this user", internal.ErrCodeCannotBookFor)
	ErrCannotCancel    = internal.NewForbiddenError("you are not allowed to cancel this booking", internal.ErrCodeCannotCancel)
	ErrNoDates         = internal.NewValidationFieldError("dates", "at least one date is required", internal.ErrCodeInvalidDate)
)

// MaxDatesPerRequest bounds a single batch create.
const MaxDatesPerRequest = 62

// ParseDate validates a YYYY-MM-DD calendar date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, internal.NewValidationFieldError("date", fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", s), internal.ErrCodeInvalidDate)
	}
	return t, nil
}

// ExpiresAt is the instant the slot ends on date, interpreted in loc.
func ExpiresAt(date string, end timerange.TimeOfDay, loc *time.Location) (time.Time, error) {
	day, err := time.ParseInLocation(DateLayout, date, loc)
	if err != nil {
		return time.Time{}, err
	}
	return day.Add(time.Duration(end) * time.Minute), nil
}

// MonthBounds returns the first and last calendar day of date's month.
func MonthBounds(date string) (string, string, error) {
	t, err := ParseDate(date)
	if err != nil {
		return "", "", err
	}
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	return first.Format(DateLayout), last.Format(DateLayout), nil
}

type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }
