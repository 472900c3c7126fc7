package transport

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/workspace-booking/internal"
	"github.com/frahmantamala/workspace-booking/pkg/logger"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

// BaseHandler provides common functionality for HTTP handlers
type BaseHandler struct {
	Logger *slog.Logger
}

// NewBaseHandler creates a base handler with logger
func NewBaseHandler(lg *slog.Logger) *BaseHandler {
	if lg == nil {
		lg = logger.LoggerWrapper()
	}
	return &BaseHandler{Logger: lg}
}

// WriteJSON writes a JSON response
func (h *BaseHandler) WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.Logger.Error("failed to encode JSON response", "error", err)
	}
}

// HandleServiceError renders err as {"error": {...}}. Non-AppErrors become 500s
// with the cause hidden from the client.
func (h *BaseHandler) HandleServiceError(w http.ResponseWriter, err error) {
	appErr, ok := internal.IsAppError(err)
	if !ok {
		h.Logger.Error("unhandled service error", "error", err)
		appErr = internal.NewInternalError("internal server error", err)
	}
	if appErr.StatusCode >= http.StatusInternalServerError {
		h.Logger.Error("http error", "status", appErr.StatusCode, "code", appErr.Code, "error", appErr.Error())
	} else {
		h.Logger.Debug("http error", "status", appErr.StatusCode, "code", appErr.Code, "message", appErr.Message)
	}
	h.writeAppError(w, appErr)
}

func (h *BaseHandler) writeAppError(w http.ResponseWriter, appErr *internal.AppError) {
	status, body := appErr.ToHTTPResponse()
	if status == 0 {
		status = http.StatusInternalServerError
	}
	h.WriteJSON(w, status, body)
}

// DecodeJSON decodes the request body into dst, rejecting unknown fields.
func (h *BaseHandler) DecodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return internal.NewValidationError("request body is empty", internal.ErrCodeValidationFailed)
		}
		return internal.NewValidationError("invalid request body", internal.ErrCodeValidationFailed).WithCause(err)
	}
	return nil
}

// ExtractTokenFromHeader extracts Bearer token from Authorization header
func (h *BaseHandler) ExtractTokenFromHeader(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
		return ""
	}

	return authHeader[7:]
}
