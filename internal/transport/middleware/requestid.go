package middleware

import (
	"net/http"

	"github.com/frahmantamala/order-admin/pkg/logger"
	"github.com/go-chi/chi/middleware"
	"github.com/google/uuid"
)

const TraceHeader = "X-Trace-ID"

// TraceID tags the request logger with the caller's X-Trace-ID, or a fresh
// one, and echoes it back. It also records chi's request id when present.
func TraceID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get(TraceHeader)
		if traceID == "" || len(traceID) > 128 {
			traceID = uuid.NewString()
		}

		var fields []any
		if reqID := middleware.GetReqID(r.Context()); reqID != "" {
			fields = append(fields, "request_id", reqID)
		}
		ctx := logger.WithTrace(r.Context(), traceID, fields...)

		w.Header().Set(TraceHeader, traceID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
