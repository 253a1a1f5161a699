package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/frahmantamala/order-admin/pkg/logger"
	"github.com/go-chi/chi/middleware"
)

// maxLoggedBody caps how much of a request or response body reaches the log.
const maxLoggedBody = 4 << 10

const filtered = "[FILTERED]"

// sensitiveFields are matched as substrings of lower-cased header and JSON key
// names.
var sensitiveFields = []string{
	"password",
	"token",
	"authorization",
	"secret",
	"session",
	"cookie",
	"credential",
}

// LoggingMiddleware logs every request and its response with credentials
// masked. Multipart bodies (uploads) are never read into the log.
func LoggingMiddleware(base *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			lg := requestLogger(r, base)

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

// requestLogger prefers the logger TraceID put on the context.
func requestLogger(r *http.Request, base *slog.Logger) *slog.Logger {
	if base == nil {
		return logger.From(r.Context())
	}
	if reqID := middleware.GetReqID(r.Context()); reqID != "" {
		return base.With("request_id", reqID)
	}
	return base
}

// responseWriter records the status and the head of the response body.
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
		rw.body.Write(b[:min(room, len(b))])
	}
	rw.size += len(b)
	return rw.ResponseWriter.Write(b)
}

func logRequest(lg *slog.Logger, r *http.Request) {
	body := ""
	if isJSON(r.Header.Get("Content-Type")) && r.Body != nil {
		raw, err := io.ReadAll(r.Body)
		if err == nil {
			r.Body = io.NopCloser(bytes.NewReader(raw))
			body = filterSensitiveBody(raw)
		}
	}

	lg.Info("incoming request",
		"method", r.Method,
		"path", r.URL.Path,
		"query", r.URL.RawQuery,
		"remote_addr", r.RemoteAddr,
		"user_agent", r.UserAgent(),
		"headers", filterSensitiveHeaders(r.Header),
		"body", body,
	)
}

func logResponse(lg *slog.Logger, r *http.Request, rw *responseWriter, duration time.Duration) {
	statusCode := rw.statusCode
	if statusCode == 0 {
		statusCode = http.StatusOK
	}

	level := slog.LevelInfo
	if statusCode >= 400 && statusCode < 500 {
		level = slog.LevelWarn
	} else if statusCode >= 500 {
		level = slog.LevelError
	}

	body := ""
	if isJSON(rw.Header().Get("Content-Type")) {
		body = filterSensitiveBody(rw.body.Bytes())
	}

	lg.Log(r.Context(), level, "response",
		"method", r.Method,
		"path", r.URL.Path,
		"status_code", statusCode,
		"duration_ms", duration.Milliseconds(),
		"response_size", rw.size,
		"body", body,
	)
}

func isJSON(contentType string) bool {
	return strings.Contains(strings.ToLower(contentType), "json")
}

func isSensitive(name string) bool {
	lower := strings.ToLower(name)
	for _, field := range sensitiveFields {
		if strings.Contains(lower, field) {
			return true
		}
	}
	return false
}

func filterSensitiveHeaders(headers http.Header) map[string]string {
	out := make(map[string]string, len(headers))
	for name, values := range headers {
		if isSensitive(name) {
			out[name] = filtered
		} else {
			out[name] = strings.Join(values, ", ")
		}
	}
	return out
}

// filterSensitiveBody masks sensitive keys of a JSON body. Bodies that do not
// parse, including ones cut at maxLoggedBody, are summarized by size.
func filterSensitiveBody(body []byte) string {
	if len(body) == 0 {
		return ""
	}

	var data any
	if err := json.Unmarshal(body, &data); err != nil {
		return "[UNPARSED JSON]"
	}

	out, err := json.Marshal(filterSensitiveJSON(data))
	if err != nil {
		return "[UNPARSED JSON]"
	}
	if len(out) > maxLoggedBody {
		return string(out[:maxLoggedBody]) + "...(truncated)"
	}
	return string(out)
}

func filterSensitiveJSON(data any) any {
	switch v := data.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, value := range v {
			if isSensitive(key) {
				out[key] = filtered
			} else {
				out[key] = filterSensitiveJSON(value)
			}
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = filterSensitiveJSON(item)
		}
		return out
	default:
		return v
	}
}
