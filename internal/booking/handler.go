package booking

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/frahmantamala/workspace-booking/internal/auth"
	"github.com/frahmantamala/workspace-booking/internal/timerange"
	"github.com/frahmantamala/workspace-booking/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	Create(ctx context.Context, actor *auth.User, req CreateRequest) (*CreateResult, error)
	Cancel(ctx context.Context, actor *auth.User, bookingID string) error
	ListBookings(ctx context.Context, actor *auth.User, scope Scope, dateFrom, dateTo string) ([]Booking, error)
	Availability(ctx context.Context, floorID, date string, rng timerange.Range) ([]SpaceAvailability, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(svc ServiceAPI, lg *slog.Logger) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
	}
}

// CreateBookings handles POST /bookings
func (h *Handler) CreateBookings(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, auth.ErrUnauthenticated)
		return
	}

	var dto CreateBookingDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	if err := dto.Validate(); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	res, err := h.Service.Create(r.Context(), actor, dto.ToRequest())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	status := http.StatusCreated
	if res.Created == 0 {
		status = http.StatusOK
	}
	h.WriteJSON(w, status, NewCreateBookingResponse(res))
}

// ListBookings handles GET /bookings?scope=&from=&to=
func (h *Handler) ListBookings(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, auth.ErrUnauthenticated)
		return
	}

	q := r.URL.Query()
	scope, err := ParseScope(q.Get("scope"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	bookings, err := h.Service.ListBookings(r.Context(), actor, scope, q.Get("from"), q.Get("to"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"scope":    scope,
		"bookings": ToResponses(bookings),
	})
}

// CancelBooking handles DELETE /bookings/{id}
func (h *Handler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, auth.ErrUnauthenticated)
		return
	}

	if err := h.Service.Cancel(r.Context(), actor, chi.URLParam(r, "id")); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Availability handles GET /floors/{id}/availability?date=&slot=&from=&to=
func (h *Handler) Availability(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	date := q.Get("date")
	if _, err := ParseDate(date); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	slot := strings.ToLower(strings.TrimSpace(q.Get("slot")))
	if slot == "" {
		slot = string(timerange.SlotFull)
	}
	rng, err := timerange.ResolveSlot(timerange.SlotID(slot), q.Get("from"), q.Get("to"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	floorID := chi.URLParam(r, "id")
	spaces, err := h.Service.Availability(r.Context(), floorID, date, rng)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, AvailabilityResponse{
		FloorID: floorID,
		Date:    date,
		From:    rng.From.String(),
		To:      rng.To.String(),
		Spaces:  spaces,
	})
}

// ListSlots handles GET /slots
func (h *Handler) ListSlots(w http.ResponseWriter, r *http.Request) {
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"slots": timerange.Slots()})
}
