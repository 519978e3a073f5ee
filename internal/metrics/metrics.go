// Package metrics exposes Prometheus collectors for the backend.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// unmatchedRoute labels requests that matched no route, so arbitrary paths share one series
const unmatchedRoute = "unmatched"

var (
	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "perplexica_http_request_duration_seconds",
		Help:    "HTTP request latencies in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	httpRequestsInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "perplexica_http_requests_in_flight",
		Help: "Current number of HTTP requests being served",
	})

	// ConfigUpdatesTotal counts accepted configuration updates.
	ConfigUpdatesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "perplexica_config_updates_total",
		Help: "Number of configuration updates applied",
	})

	// ProviderDiscoveryErrorsTotal counts failed model discovery calls per provider.
	ProviderDiscoveryErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "perplexica_provider_discovery_errors_total",
		Help: "Number of failed model discovery calls",
	}, []string{"provider"})
)

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware records request latency and in-flight requests.
// Paths are labelled by chi route pattern to keep cardinality bounded.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		httpRequestsInFlight.Inc()
		defer httpRequestsInFlight.Dec()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		path := unmatchedRoute
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				path = pattern
			}
		}

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		httpRequestDuration.WithLabelValues(r.Method, path, strconv.Itoa(status)).Observe(time.Since(start).Seconds())
	})
}
