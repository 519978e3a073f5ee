package metrics

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddlewareUsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware)
	r.Get("/items/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	before := testutil.CollectAndCount(httpRequestDuration)

	req := httptest.NewRequest(http.MethodGet, "/items/42", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, before+1, testutil.CollectAndCount(httpRequestDuration))

	count := testutil.CollectAndCount(httpRequestDuration, "perplexica_http_request_duration_seconds")
	assert.GreaterOrEqual(t, count, 1)
	assert.Equal(t, 0.0, testutil.ToFloat64(httpRequestsInFlight))
}

func TestHandlerExposesCounters(t *testing.T) {
	ConfigUpdatesTotal.Inc()

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "perplexica_config_updates_total"))
}

func TestMiddlewareUnmatchedPathsShareOneSeries(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware)
	r.Get("/known", func(w http.ResponseWriter, _ *http.Request) {})

	before := testutil.CollectAndCount(httpRequestDuration)

	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/random-%d", i), nil))
		require.Equal(t, http.StatusNotFound, rec.Code)
	}

	assert.Equal(t, before+1, testutil.CollectAndCount(httpRequestDuration))

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rec.Body.String()
	assert.Contains(t, body, `path="unmatched"`)
	assert.NotContains(t, body, "/random-")
}
