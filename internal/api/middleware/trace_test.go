package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mbarlow/tasktrack/internal/api/shared"
)

func TestTraceMiddleware(t *testing.T) {
	t.Parallel()

	t.Run("trace ID reaches handler context and response header", func(t *testing.T) {
		t.Parallel()

		var ctxTraceID string
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctxTraceID = shared.GetTraceID(r.Context())
			w.WriteHeader(http.StatusOK)
		})

		req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
		rec := httptest.NewRecorder()

		TraceMiddleware(next).ServeHTTP(rec, req)

		assert.NotEmpty(t, ctxTraceID)
		assert.Equal(t, ctxTraceID, rec.Header().Get("X-Trace-Id"),
			"header must carry the same trace ID handlers see")
	})

	t.Run("each request gets its own trace ID", func(t *testing.T) {
		t.Parallel()

		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})
		handler := TraceMiddleware(next)

		first := httptest.NewRecorder()
		handler.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/tasks", nil))

		second := httptest.NewRecorder()
		handler.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/tasks", nil))

		assert.NotEqual(t, first.Header().Get("X-Trace-Id"), second.Header().Get("X-Trace-Id"))
	})
}
