package booking

import (
	"time"

	bookingDatamodel "github.com/frahmantamala/workspace-booking/internal/core/datamodel/booking"
	"github.com/frahmantamala/workspace-booking/internal/timerange"
)

func FromDataModel(m *bookingDatamodel.Booking) Booking {
	return Booking{
		ID:             m.ID,
		SpaceID:        m.SpaceID,
		OwnerUserID:    m.OwnerUserID,
		BookedByUserID: m.BookedByUserID,
		Date:           m.BookingDate.UTC().Format(DateLayout),
		Slot:           timerange.Range{From: timerange.TimeOfDay(m.SlotFrom), To: timerange.TimeOfDay(m.SlotTo)},
		ExpiresAt:      m.ExpiresAt.UTC(),
		Status:         Status(m.Status),
		CreatedAt:      m.CreatedAt,
	}
}

// ToDataModel converts b for storage. The date is assumed valid.
func ToDataModel(b *Booking) *bookingDatamodel.Booking {
	day, _ := time.Parse(DateLayout, b.Date)
	return &bookingDatamodel.Booking{
		ID:             b.ID,
		SpaceID:        b.SpaceID,
		OwnerUserID:    b.OwnerUserID,
		BookedByUserID: b.BookedByUserID,
		BookingDate:    day,
		SlotFrom:       int(b.Slot.From),
		SlotTo:         int(b.Slot.To),
		ExpiresAt:      b.ExpiresAt.UTC(),
		Status:         string(b.Status),
		CreatedAt:      b.CreatedAt,
	}
}
