package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/frahmantamala/order-admin/pkg/logger"
	"github.com/go-chi/chi/middleware"
)

// RecoveryMiddleware turns a handler panic into a 500 with the usual error
// body. The panic value is logged, never returned to the client.
func RecoveryMiddleware(lg *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					if err == http.ErrAbortHandler {
						panic(err)
					}
					lg.Error("panic recovered",
						"error", err,
						"request_id", middleware.GetReqID(r.Context()),
						"trace_id", logger.TraceID(r.Context()),
						"method", r.Method,
						"url", r.URL.String(),
						"stack", string(debug.Stack()))

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					json.NewEncoder(w).Encode(map[string]any{
						"code":  http.StatusInternalServerError,
						"error": "Sunucu hatası",
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
