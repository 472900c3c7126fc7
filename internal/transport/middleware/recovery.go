package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/frahmantamala/workspace-booking/internal"
)

// RecoveryMiddleware provides panic recovery with detailed logging
func RecoveryMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					logger.Error("panic recovered",
						"error", rec,
						"method", r.Method,
						"url", r.URL.String(),
						"trace_id", TraceIDFromContext(r.Context()),
						"stack", string(debug.Stack()))

					status, body := internal.NewInternalError("internal server error", nil).ToHTTPResponse()
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(status)
					_ = json.NewEncoder(w).Encode(body)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
