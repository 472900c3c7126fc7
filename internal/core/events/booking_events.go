package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeBookingCreated   = "booking.created"
	EventTypeBookingCancelled = "booking.cancelled"
	EventTypeBookingsExpired  = "bookings.expired"
)

// BookingEventTypes lists every event the ledger emits.
var BookingEventTypes = []string{
	EventTypeBookingCreated,
	EventTypeBookingCancelled,
	EventTypeBookingsExpired,
}

type BookingCreatedEvent struct {
	BaseEvent
	BookingID   string `json:"booking_id"`
	SpaceID     string `json:"space_id"`
	OwnerUserID string `json:"owner_user_id"`
	BookedBy    string `json:"booked_by_user_id"`
	Date        string `json:"date"`
	From        string `json:"from"`
	To          string `json:"to"`
}

func NewBookingCreatedEvent(bookingID, spaceID, ownerID, bookedBy, date, from, to string) *BookingCreatedEvent {
	return &BookingCreatedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeBookingCreated,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"booking_id":        bookingID,
				"space_id":          spaceID,
				"owner_user_id":     ownerID,
				"booked_by_user_id": bookedBy,
				"date":              date,
				"from":              from,
				"to":                to,
			},
		},
		BookingID:   bookingID,
		SpaceID:     spaceID,
		OwnerUserID: ownerID,
		BookedBy:    bookedBy,
		Date:        date,
		From:        from,
		To:          to,
	}
}

type BookingCancelledEvent struct {
	BaseEvent
	BookingID   string `json:"booking_id"`
	SpaceID     string `json:"space_id"`
	OwnerUserID string `json:"owner_user_id"`
	CancelledBy string `json:"cancelled_by_user_id"`
	Date        string `json:"date"`
}

func NewBookingCancelledEvent(bookingID, spaceID, ownerID, cancelledBy, date string) *BookingCancelledEvent {
	return &BookingCancelledEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeBookingCancelled,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"booking_id":           bookingID,
				"space_id":             spaceID,
				"owner_user_id":        ownerID,
				"cancelled_by_user_id": cancelledBy,
				"date":                 date,
			},
		},
		BookingID:   bookingID,
		SpaceID:     spaceID,
		OwnerUserID: ownerID,
		CancelledBy: cancelledBy,
		Date:        date,
	}
}

type BookingsExpiredEvent struct {
	BaseEvent
	Count  int      `json:"count"`
	Dates  []string `json:"dates"`
	Before string   `json:"before"`
}

func NewBookingsExpiredEvent(count int, dates []string, before time.Time) *BookingsExpiredEvent {
	return &BookingsExpiredEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeBookingsExpired,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"count":  count,
				"dates":  dates,
				"before": before.UTC().Format(time.RFC3339),
			},
		},
		Count:  count,
		Dates:  dates,
		Before: before.UTC().Format(time.RFC3339),
	}
}
