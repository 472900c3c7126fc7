package auth

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/workspace-booking/internal/transport"
)

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

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	tokens, err := h.Service.Authenticate(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, tokens)
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var dto RegisterDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	u, err := h.Service.Register(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, u)
}

func (h *Handler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var dto RefreshTokenDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	if err := dto.Validate(); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	tokens, err := h.Service.RefreshTokens(r.Context(), dto.RefreshToken)
	if err != nil {
		h.Logger.Warn("token refresh failed", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, tokens)
}

// AuthMiddleware validates the bearer token and loads the user fresh from the
// directory, so role and department changes apply on the next request.
func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := h.ExtractTokenFromHeader(r)
		if token == "" {
			h.HandleServiceError(w, ErrUnauthenticated)
			return
		}

		claims, err := h.Service.ValidateAccessToken(token)
		if err != nil {
			h.Logger.Warn("token validation failed", "error", err)
			h.HandleServiceError(w, err)
			return
		}

		user, err := h.Service.GetUser(r.Context(), claims.UserID)
		if err != nil {
			h.Logger.Warn("auth middleware: failed to load user", "user_id", claims.UserID, "error", err)
			h.HandleServiceError(w, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(ContextWithUser(r.Context(), user)))
	})
}
