// Package timerange models time-of-day slots as half-open minute intervals.
package timerange

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/frahmantamala/workspace-booking/internal"
)

// TimeOfDay is minutes since midnight. 1440 is end of day.
type TimeOfDay int

const EndOfDay TimeOfDay = 24 * 60

// ParseTimeOfDay parses "HH:MM" (or "H:MM"). "24:00" is accepted as end of day.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	hh, mm, ok := strings.Cut(s, ":")
	if !ok || len(hh) == 0 || len(hh) > 2 || len(mm) != 2 || !digits(hh) || !digits(mm) {
		return 0, invalidClock(s)
	}
	h, _ := strconv.Atoi(hh)
	m, _ := strconv.Atoi(mm)
	if h == 24 && m == 0 {
		return EndOfDay, nil
	}
	if h > 23 || m > 59 {
		return 0, invalidClock(s)
	}
	return TimeOfDay(h*60 + m), nil
}

func digits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func invalidClock(s string) error {
	return internal.NewValidationFieldError("time", fmt.Sprintf("invalid time of day %q, expected HH:MM", s), internal.ErrCodeInvalidTimeRange)
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

func (t TimeOfDay) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *TimeOfDay) UnmarshalText(b []byte) error {
	v, err := ParseTimeOfDay(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// Range is the half-open interval [From, To).
type Range struct {
	From TimeOfDay `json:"from"`
	To   TimeOfDay `json:"to"`
}

// NewRange validates from < to and both within the day.
func NewRange(from, to TimeOfDay) (Range, error) {
	if from < 0 || to > EndOfDay || from >= to {
		return Range{}, internal.ErrInvalidTimeRange
	}
	return Range{From: from, To: to}, nil
}

// ParseRange parses two "HH:MM" bounds into a validated Range.
func ParseRange(from, to string) (Range, error) {
	f, err := ParseTimeOfDay(from)
	if err != nil {
		return Range{}, err
	}
	t, err := ParseTimeOfDay(to)
	if err != nil {
		return Range{}, err
	}
	return NewRange(f, t)
}

func (r Range) Duration() int {
	return int(r.To - r.From)
}

func (r Range) String() string {
	return r.From.String() + "-" + r.To.String()
}

// Overlaps reports whether [a.From, a.To) and [b.From, b.To) intersect.
// Touching ranges do not overlap.
func Overlaps(a, b Range) bool {
	return a.From < b.To && b.From < a.To
}

func (r Range) Overlaps(other Range) bool {
	return Overlaps(r, other)
}
