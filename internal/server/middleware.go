package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"perplexica/internal/telemetry"
)

const (
	configUpdateLimit  = 30
	configUpdateWindow = time.Minute
)

// requestLogger logs one line per request after it completes
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		event := s.log.Info()
		if status >= http.StatusInternalServerError {
			event = s.log.Error()
		}
		event.
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Int("bytes", ww.BytesWritten()).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

// tracing starts a server span per request, continuing any incoming W3C trace context
func tracing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))
		// Named by method until routing resolves the pattern, keeping span names bounded
		ctx, span := telemetry.StartSpan(ctx, r.Method, trace.WithSpanKind(trace.SpanKindServer))
		defer span.End()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r.WithContext(ctx))

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		attrs := []attribute.KeyValue{
			attribute.String("http.request.method", r.Method),
			attribute.Int("http.response.status_code", status),
		}
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			attrs = append(attrs, attribute.String("http.route", rctx.RoutePattern()))
			span.SetName(r.Method + " " + rctx.RoutePattern())
		}
		span.SetAttributes(attrs...)
		if status >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(status))
		}
	})
}

// configUpdateRateLimit limits configuration writes per client IP
func configUpdateRateLimit() func(http.Handler) http.Handler {
	return httprate.Limit(
		configUpdateLimit,
		configUpdateWindow,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Retry-After", fmt.Sprintf("%d", int(configUpdateWindow.Seconds())))
			writeError(w, http.StatusTooManyRequests, "Too many requests")
		}),
	)
}
