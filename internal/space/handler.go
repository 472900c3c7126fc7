package space

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/workspace-booking/internal/auth"
	"github.com/frahmantamala/workspace-booking/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	ListCoworkings(ctx context.Context) ([]*Coworking, error)
	CreateCoworking(ctx context.Context, actor *auth.User, dto CreateCoworkingDTO) (*Coworking, error)
	RenameCoworking(ctx context.Context, actor *auth.User, coworkingID string, dto RenameDTO) (*Coworking, error)
	DeleteCoworking(ctx context.Context, actor *auth.User, coworkingID string) error
	ListFloors(ctx context.Context, coworkingID string) ([]*Floor, error)
	ListSpaces(ctx context.Context, floorID string) ([]*Space, error)
	CreateFloor(ctx context.Context, actor *auth.User, dto CreateFloorDTO) (*Floor, error)
	RenameFloor(ctx context.Context, actor *auth.User, floorID string, dto RenameDTO) (*Floor, error)
	DeleteFloor(ctx context.Context, actor *auth.User, floorID string) error
	CreateSpace(ctx context.Context, actor *auth.User, floorID string, dto CreateSpaceDTO) (*Space, error)
	DeleteSpace(ctx context.Context, actor *auth.User, spaceID string) error
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

// ListCoworkings handles GET /coworkings
func (h *Handler) ListCoworkings(w http.ResponseWriter, r *http.Request) {
	coworkings, err := h.Service.ListCoworkings(r.Context())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"coworkings": coworkings})
}

// CreateCoworking handles POST /coworkings
func (h *Handler) CreateCoworking(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, auth.ErrUnauthenticated)
		return
	}

	var dto CreateCoworkingDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	c, err := h.Service.CreateCoworking(r.Context(), actor, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, c)
}

// RenameCoworking handles PATCH /coworkings/{id}
func (h *Handler) RenameCoworking(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, auth.ErrUnauthenticated)
		return
	}

	var dto RenameDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	c, err := h.Service.RenameCoworking(r.Context(), actor, chi.URLParam(r, "id"), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, c)
}

// DeleteCoworking handles DELETE /coworkings/{id}
func (h *Handler) DeleteCoworking(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, auth.ErrUnauthenticated)
		return
	}

	if err := h.Service.DeleteCoworking(r.Context(), actor, chi.URLParam(r, "id")); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListFloors handles GET /floors?coworking_id=
func (h *Handler) ListFloors(w http.ResponseWriter, r *http.Request) {
	floors, err := h.Service.ListFloors(r.Context(), r.URL.Query().Get("coworking_id"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"floors": floors})
}

// ListSpaces handles GET /floors/{id}/spaces
func (h *Handler) ListSpaces(w http.ResponseWriter, r *http.Request) {
	spaces, err := h.Service.ListSpaces(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"spaces": spaces})
}

// CreateFloor handles POST /floors
func (h *Handler) CreateFloor(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, auth.ErrUnauthenticated)
		return
	}

	var dto CreateFloorDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	f, err := h.Service.CreateFloor(r.Context(), actor, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, f)
}

// RenameFloor handles PATCH /floors/{id}
func (h *Handler) RenameFloor(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, auth.ErrUnauthenticated)
		return
	}

	var dto RenameDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	f, err := h.Service.RenameFloor(r.Context(), actor, chi.URLParam(r, "id"), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, f)
}

// DeleteFloor handles DELETE /floors/{id}
func (h *Handler) DeleteFloor(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, auth.ErrUnauthenticated)
		return
	}

	if err := h.Service.DeleteFloor(r.Context(), actor, chi.URLParam(r, "id")); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CreateSpace handles POST /floors/{id}/spaces
func (h *Handler) CreateSpace(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, auth.ErrUnauthenticated)
		return
	}

	var dto CreateSpaceDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	sp, err := h.Service.CreateSpace(r.Context(), actor, chi.URLParam(r, "id"), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, sp)
}

// DeleteSpace handles DELETE /spaces/{id}
func (h *Handler) DeleteSpace(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, auth.ErrUnauthenticated)
		return
	}

	if err := h.Service.DeleteSpace(r.Context(), actor, chi.URLParam(r, "id")); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
