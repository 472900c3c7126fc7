package auth

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/workspace-booking/internal"
	"github.com/frahmantamala/workspace-booking/internal/transport"
)

type RoleAuthorizer interface {
	IsAdminCtx(ctx context.Context, role Role) (bool, error)
}

type RBACAuthorization struct {
	*transport.BaseHandler
	authorizer RoleAuthorizer
}

func NewRBACAuthorization(authorizer RoleAuthorizer, logger *slog.Logger) *RBACAuthorization {
	return &RBACAuthorization{
		BaseHandler: transport.NewBaseHandler(logger),
		authorizer:  authorizer,
	}
}

func (ra *RBACAuthorization) require(name string, check func(context.Context, Role) (bool, error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok {
				ra.Logger.Warn("authorization check failed: user not found in context")
				ra.HandleServiceError(w, ErrUnauthenticated)
				return
			}

			allowed, err := check(r.Context(), user.Role)
			if err != nil {
				ra.Logger.ErrorContext(r.Context(), name+" check failed", "error", err, "user_id", user.ID)
				ra.HandleServiceError(w, internal.NewInternalError("authorization check failed", err))
				return
			}

			if !allowed {
				ra.Logger.WarnContext(r.Context(), "access denied: "+name+" role required", "user_id", user.ID, "role", user.Role)
				ra.HandleServiceError(w, internal.ErrForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func (ra *RBACAuthorization) RequireAdmin() func(http.Handler) http.Handler {
	return ra.require("admin", ra.authorizer.IsAdminCtx)
}
