package middleware

import (
	"net/http"

	"github.com/frahmantamala/workspace-booking/internal"
	"github.com/frahmantamala/workspace-booking/internal/auth"
)

// UserContext tags the request context and its logger with the authenticated
// user's id. It must run after the auth middleware.
func UserContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := auth.UserFromContext(r.Context())
		if !ok {
			next.ServeHTTP(w, r)
			return
		}
		ctx := internal.ContextWithUserID(r.Context(), user.ID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
