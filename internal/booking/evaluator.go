package booking

import (
	"sort"

	"github.com/frahmantamala/workspace-booking/internal/auth"
	"github.com/frahmantamala/workspace-booking/internal/timerange"
)

// Reason explains why a date of a batch request was not booked.
type Reason string

const (
	ReasonResourceBusy         Reason = "resource_busy"
	ReasonDailyLimitExceeded   Reason = "daily_limit_exceeded"
	ReasonMonthlyLimitExceeded Reason = "monthly_limit_exceeded"
	ReasonUserTimeConflict     Reason = "user_time_conflict"
)

// Candidate is a request to book one space for one bookee over several dates.
type Candidate struct {
	SpaceID string
	Bookee  *auth.User
	Dates   []string
	Range   timerange.Range
}

type Rejection struct {
	Date                 string `json:"date"`
	Reason               Reason `json:"reason"`
	ConflictingBookingID string `json:"conflicting_booking_id,omitempty"`
}

type RejectionCounts struct {
	Busy         int `json:"busy"`
	DailyLimit   int `json:"daily_limit"`
	MonthlyLimit int `json:"monthly_limit"`
	UserConflict int `json:"user_conflict"`
}

func (c *RejectionCounts) add(r Reason) {
	switch r {
	case ReasonResourceBusy:
		c.Busy++
	case ReasonDailyLimitExceeded:
		c.DailyLimit++
	case ReasonMonthlyLimitExceeded:
		c.MonthlyLimit++
	case ReasonUserTimeConflict:
		c.UserConflict++
	}
}

func (c RejectionCounts) Total() int {
	return c.Busy + c.DailyLimit + c.MonthlyLimit + c.UserConflict
}

type Evaluation struct {
	Accepted []Booking
	Rejected []Rejection
	Counts   RejectionCounts
}

// Limits configures the per-employee caps. A zero MonthlyLimit disables the monthly cap.
type Limits struct {
	MonthlyLimit int
}

type Evaluator struct {
	limits Limits
}

func NewEvaluator(limits Limits) *Evaluator {
	return &Evaluator{limits: limits}
}

// NormalizeDates de-duplicates dates and sorts them ascending.
func NormalizeDates(dates []string) []string {
	seen := make(map[string]struct{}, len(dates))
	out := make([]string, 0, len(dates))
	for _, d := range dates {
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

// Evaluate decides every date of c independently against existing. Accepted
// bookings are appended to the working set so later dates of the same batch
// see them. Accepted records carry space, owner, date, slot and active status
// only; the caller assigns ids and timestamps.
func (e *Evaluator) Evaluate(c Candidate, existing []Booking) Evaluation {
	working := make([]Booking, len(existing), len(existing)+len(c.Dates))
	copy(working, existing)

	var ev Evaluation
	for _, date := range NormalizeDates(c.Dates) {
		if reason, conflictID, rejected := e.check(c, date, working); rejected {
			ev.Rejected = append(ev.Rejected, Rejection{Date: date, Reason: reason, ConflictingBookingID: conflictID})
			ev.Counts.add(reason)
			continue
		}

		b := Booking{
			SpaceID:     c.SpaceID,
			OwnerUserID: c.Bookee.ID,
			Date:        date,
			Slot:        c.Range,
			Status:      StatusActive,
		}
		working = append(working, b)
		ev.Accepted = append(ev.Accepted, b)
	}
	return ev
}

func (e *Evaluator) check(c Candidate, date string, working []Booking) (Reason, string, bool) {
	if b, ok := FindConflict(c.SpaceID, date, c.Range, working); ok {
		return ReasonResourceBusy, b.ID, true
	}

	if c.Bookee.Role == auth.RoleEmployee {
		if b, ok := firstOwned(c.Bookee.ID, working, func(b *Booking) bool { return b.Date == date }); ok {
			return ReasonDailyLimitExceeded, b.ID, true
		}
		if e.limits.MonthlyLimit > 0 {
			month := date[:7]
			n := countOwned(c.Bookee.ID, working, func(b *Booking) bool { return b.Month() == month })
			if n >= e.limits.MonthlyLimit {
				return ReasonMonthlyLimitExceeded, "", true
			}
		}
	}

	if b, ok := findOwnerConflict(c.Bookee.ID, date, c.Range, working); ok {
		return ReasonUserTimeConflict, b.ID, true
	}
	return "", "", false
}

func firstOwned(ownerID string, bookings []Booking, match func(*Booking) bool) (*Booking, bool) {
	for i := range bookings {
		b := &bookings[i]
		if b.OwnerUserID == ownerID && b.IsActive() && match(b) {
			return b, true
		}
	}
	return nil, false
}

func countOwned(ownerID string, bookings []Booking, match func(*Booking) bool) int {
	n := 0
	for i := range bookings {
		b := &bookings[i]
		if b.OwnerUserID == ownerID && b.IsActive() && match(b) {
			n++
		}
	}
	return n
}
