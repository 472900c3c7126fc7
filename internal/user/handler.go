package user

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/workspace-booking/internal/auth"
	"github.com/frahmantamala/workspace-booking/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	GetByID(ctx context.Context, userID string) (*User, error)
	List(ctx context.Context, actor *auth.User) ([]*User, error)
	ListBookable(ctx context.Context, actor *auth.User) ([]BookableUserResponse, error)
	UpdateRole(ctx context.Context, actor *auth.User, userID string, role auth.Role) (*User, error)
	Delete(ctx context.Context, actor *auth.User, userID string) error
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

// GetCurrentUser handles GET /users/me
func (h *Handler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, auth.ErrUnauthenticated)
		return
	}

	u, err := h.Service.GetByID(r.Context(), actor.ID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, u)
}

// ListUsers handles GET /users
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, auth.ErrUnauthenticated)
		return
	}

	users, err := h.Service.List(r.Context(), actor)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"users": users})
}

// ListBookable handles GET /users/bookable
func (h *Handler) ListBookable(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, auth.ErrUnauthenticated)
		return
	}

	users, err := h.Service.ListBookable(r.Context(), actor)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"users": users})
}

// UpdateRole handles PATCH /users/{id}/role
func (h *Handler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, auth.ErrUnauthenticated)
		return
	}

	var dto UpdateRoleDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	role, err := dto.Parse()
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	u, err := h.Service.UpdateRole(r.Context(), actor, chi.URLParam(r, "id"), role)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, u)
}

// DeleteUser handles DELETE /users/{id}
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, auth.ErrUnauthenticated)
		return
	}

	if err := h.Service.Delete(r.Context(), actor, chi.URLParam(r, "id")); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
