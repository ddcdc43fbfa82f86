package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

func TestMiddlewareRecordsRequests(t *testing.T) {
	m := New()

	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/blogs/{blogID}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	r.Method(http.MethodGet, "/metrics", m.Handler())

	for _, path := range []string{"/blogs/one", "/blogs/two"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		require.Equal(t, http.StatusNotFound, rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()

	// Both requests share one series labeled by the route pattern.
	require.Contains(t, body, `inkpress_http_requests_total{method="GET",route="/blogs/{blogID}",status="404"} 2`)
	require.Contains(t, body, "inkpress_http_request_duration_seconds")
	require.Contains(t, body, "inkpress_http_requests_in_flight")
}

func TestSeparateInstancesDoNotCollide(t *testing.T) {
	// Each instance owns a private registry, so two servers in one
	// process register the same collector names without panicking.
	a := New()
	b := New()
	require.NotSame(t, a.registry, b.registry)
}
