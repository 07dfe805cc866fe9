package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddleware_LabelsByRoutePattern(t *testing.T) {
	m := New()

	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/catalog/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for _, id := range []string{"a", "b", "c"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/catalog/"+id, nil))
		require.Equal(t, http.StatusNotFound, rec.Code)
	}

	got := testutil.ToFloat64(m.requests.WithLabelValues(http.MethodGet, "/catalog/{id}", "404"))
	assert.Equal(t, 3.0, got)
	assert.Equal(t, 0.0, testutil.ToFloat64(m.inFlight))
}

func TestMiddleware_DefaultStatusIsOK(t *testing.T) {
	m := New()

	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues(http.MethodGet, "/health", "200")))
}

func TestCounters(t *testing.T) {
	m := New()

	m.RateLimited("login")
	m.RateLimited("login")
	m.SessionsPurged(3)
	m.SessionsPurged(0)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.rateLimited.WithLabelValues("login")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.sessionsPurged))
}

func TestHandler_Exposition(t *testing.T) {
	m := New()
	m.SessionsPurged(1)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, "catalog_sessions_purged_total 1"))
	assert.True(t, strings.Contains(body, "go_goroutines"))
}
