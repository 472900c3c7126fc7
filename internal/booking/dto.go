package booking

import (
	"strings"
	"time"

	"github.com/frahmantamala/workspace-booking/internal"
	"github.com/frahmantamala/workspace-booking/internal/core/common/validation"
	"github.com/frahmantamala/workspace-booking/internal/timerange"
)

type CreateBookingDTO struct {
	SpaceID string   `json:"space_id"`
	UserID  string   `json:"user_id,omitempty"`
	Dates   []string `json:"dates"`
	Slot    string   `json:"slot"`
	From    string   `json:"from,omitempty"`
	To      string   `json:"to,omitempty"`
}

func (dto *CreateBookingDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("space_id", dto.SpaceID).Required()
	v.Field("dates", dto.Dates).RequiredWithCode(internal.ErrCodeInvalidDate)
	v.Field("slot", dto.Slot).RequiredWithCode(internal.ErrCodeInvalidSlot)
	return v.Validate()
}

func (dto *CreateBookingDTO) ToRequest() CreateRequest {
	return CreateRequest{
		SpaceID:  strings.TrimSpace(dto.SpaceID),
		BookeeID: strings.TrimSpace(dto.UserID),
		Dates:    dto.Dates,
		Slot:     timerange.SlotID(strings.ToLower(strings.TrimSpace(dto.Slot))),
		From:     dto.From,
		To:       dto.To,
	}
}

type BookingResponse struct {
	ID             string    `json:"id"`
	SpaceID        string    `json:"space_id"`
	OwnerUserID    string    `json:"owner_user_id"`
	BookedByUserID string    `json:"booked_by_user_id"`
	Date           string    `json:"date"`
	From           string    `json:"from"`
	To             string    `json:"to"`
	ExpiresAt      time.Time `json:"expires_at"`
	Status         Status    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
}

func ToResponse(b Booking) BookingResponse {
	return BookingResponse{
		ID:             b.ID,
		SpaceID:        b.SpaceID,
		OwnerUserID:    b.OwnerUserID,
		BookedByUserID: b.BookedByUserID,
		Date:           b.Date,
		From:           b.Slot.From.String(),
		To:             b.Slot.To.String(),
		ExpiresAt:      b.ExpiresAt,
		Status:         b.Status,
		CreatedAt:      b.CreatedAt,
	}
}

func ToResponses(bookings []Booking) []BookingResponse {
	out := make([]BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, ToResponse(b))
	}
	return out
}

type CreateBookingResponse struct {
	Created    int               `json:"created_count"`
	Rejections RejectionCounts   `json:"rejections"`
	Bookings   []BookingResponse `json:"bookings"`
	Rejected   []Rejection       `json:"rejected"`
	Message    string            `json:"message"`
}

func NewCreateBookingResponse(res *CreateResult) CreateBookingResponse {
	rejected := res.Rejected
	if rejected == nil {
		rejected = []Rejection{}
	}
	return CreateBookingResponse{
		Created:    res.Created,
		Rejections: res.Rejections,
		Bookings:   ToResponses(res.Bookings),
		Rejected:   rejected,
		Message:    res.Message,
	}
}

type AvailabilityResponse struct {
	FloorID string              `json:"floor_id"`
	Date    string              `json:"date"`
	From    string              `json:"from"`
	To      string              `json:"to"`
	Spaces  []SpaceAvailability `json:"spaces"`
}
