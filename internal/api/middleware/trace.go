package middleware

import (
	"log/slog"
	"net/http"

	"github.com/mbarlow/tasktrack/internal/api/shared"
)

// traceIDHeader is the response header carrying the request's trace ID so
// clients can quote it when reporting a failure.
const traceIDHeader = "X-Trace-Id"

// TraceMiddleware assigns each request a trace ID, stores it in the context
// for handlers and error responses, and echoes it in the response headers.
// Apply it early in the chain so every downstream log line can carry the ID.
func TraceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := shared.SetTraceID(r.Context())
		traceID := shared.GetTraceID(ctx)

		w.Header().Set(traceIDHeader, traceID)

		slog.Debug("request started",
			slog.String("trace_id", traceID),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("remote_addr", r.RemoteAddr))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
