package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// maxLoggedBody caps how much of a request or response body is logged.
const maxLoggedBody = 4 << 10

// sensitiveFields are field names that should be filtered from logs
var sensitiveFields = []string{
	"password",
	"token",
	"authorization",
	"secret",
	"api_key",
	"session",
	"credential",
	"cookie",
}

func LoggingMiddleware(base *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			lg := base.With(contextAttrs(r)...)
			logRequest(lg, r)

			ww := &responseWriter{
				ResponseWriter: w,
				body:           &bytes.Buffer{},
			}

			next.ServeHTTP(ww, r)

			logResponse(lg, r, ww, time.Since(start))
		})
	}
}

func contextAttrs(r *http.Request) []any {
	if id := TraceIDFromContext(r.Context()); id != "" {
		return []any{"trace_id", id}
	}
	return nil
}

// responseWriter wraps http.ResponseWriter to capture status and a bounded body prefix.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	size       int
	body       *bytes.Buffer
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if room := maxLoggedBody - rw.body.Len(); room > 0 {
		if len(b) < room {
			room = len(b)
		}
		rw.body.Write(b[:room])
	}
	n, err := rw.ResponseWriter.Write(b)
	rw.size += n
	return n, err
}

func logRequest(lg *slog.Logger, r *http.Request) {
	var bodyBytes []byte
	if r.Body != nil && isJSON(r.Header.Get("Content-Type")) {
		bodyBytes, _ = io.ReadAll(r.Body)
		r.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))
	}

	lg.Info("incoming request",
		"method", r.Method,
		"path", r.URL.Path,
		"query", r.URL.RawQuery,
		"remote_addr", r.RemoteAddr,
		"user_agent", r.UserAgent(),
		"headers", filterSensitiveHeaders(r.Header),
		"body", filterSensitiveBody(bodyBytes),
	)
}

func logResponse(lg *slog.Logger, r *http.Request, rw *responseWriter, duration time.Duration) {
	statusCode := rw.statusCode
	if statusCode == 0 {
		statusCode = http.StatusOK
	}

	logLevel := slog.LevelInfo
	if statusCode >= 400 && statusCode < 500 {
		logLevel = slog.LevelWarn
	} else if statusCode >= 500 {
		logLevel = slog.LevelError
	}

	attrs := []any{
		"method", r.Method,
		"path", r.URL.Path,
		"status_code", statusCode,
		"duration_ms", duration.Milliseconds(),
		"response_size", rw.size,
	}
	if isJSON(rw.Header().Get("Content-Type")) {
		attrs = append(attrs, "body", filterSensitiveBody(rw.body.Bytes()))
	}
	lg.Log(r.Context(), logLevel, "response", attrs...)
}

func isJSON(contentType string) bool {
	return strings.HasPrefix(contentType, "application/json")
}

func isSensitive(name string) bool {
	lower := strings.ToLower(name)
	for _, sensitiveField := range sensitiveFields {
		if strings.Contains(lower, sensitiveField) {
			return true
		}
	}
	return false
}

// filterSensitiveHeaders removes or masks sensitive headers
func filterSensitiveHeaders(headers http.Header) map[string]string {
	filtered := make(map[string]string, len(headers))
	for name, values := range headers {
		if isSensitive(name) {
			filtered[name] = "[FILTERED]"
		} else {
			filtered[name] = strings.Join(values, ", ")
		}
	}
	return filtered
}

// filterSensitiveBody masks sensitive fields of a JSON body. Non-JSON input is dropped.
func filterSensitiveBody(body []byte) string {
	if len(body) == 0 {
		return ""
	}

	var jsonData interface{}
	if err := json.Unmarshal(body, &jsonData); err != nil {
		return "[non-JSON body omitted]"
	}

	filteredBytes, err := json.Marshal(filterSensitiveJSON(jsonData))
	if err != nil {
		return "[ERROR - Failed to marshal filtered JSON]"
	}
	return string(filteredBytes)
}

// filterSensitiveJSON recursively filters sensitive fields from JSON data
func filterSensitiveJSON(data interface{}) interface{} {
	switch v := data.(type) {
	case map[string]interface{}:
		filtered := make(map[string]interface{}, len(v))
		for key, value := range v {
			if isSensitive(key) {
				filtered[key] = "[FILTERED]"
			} else {
				filtered[key] = filterSensitiveJSON(value)
			}
		}
		return filtered
	case []interface{}:
		filtered := make([]interface{}, len(v))
		for i, item := range v {
			filtered[i] = filterSensitiveJSON(item)
		}
		return filtered
	default:
		return v
	}
}
