package booking

import (
	"github.com/frahmantamala/workspace-booking/internal/timerange"
)

// FindConflict returns the first active booking on spaceID and date whose
// slot overlaps rng.
func FindConflict(spaceID, date string, rng timerange.Range, bookings []Booking) (*Booking, bool) {
	for i := range bookings {
		b := &bookings[i]
		if b.SpaceID != spaceID || b.Date != date || !b.IsActive() {
			continue
		}
		if timerange.Overlaps(b.Slot, rng) {
			return b, true
		}
	}
	return nil, false
}

// findOwnerConflict returns the first active booking held by ownerID on date
// whose slot overlaps rng, on any space.
func findOwnerConflict(ownerID, date string, rng timerange.Range, bookings []Booking) (*Booking, bool) {
	for i := range bookings {
		b := &bookings[i]
		if b.OwnerUserID != ownerID || b.Date != date || !b.IsActive() {
			continue
		}
		if timerange.Overlaps(b.Slot, rng) {
			return b, true
		}
	}
	return nil, false
}

// SpaceAvailability is the state of one space for a date and slot.
type SpaceAvailability struct {
	SpaceID string         `json:"space_id"`
	Label   string         `json:"label"`
	Seats   int            `json:"seats"`
	Free    bool           `json:"free"`
	Holder  *HolderSummary `json:"holder,omitempty"`
}

// HolderSummary describes the booking occupying a space.
type HolderSummary struct {
	BookingID string `json:"booking_id"`
	UserID    string `json:"user_id"`
	UserName  string `json:"user_name"`
	From      string `json:"from"`
	To        string `json:"to"`
}
