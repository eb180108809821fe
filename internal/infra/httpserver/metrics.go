package httpserver

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// requests that match no route share one label
const _unmatchedRoute = "unmatched"

type httpMetrics struct {
	duration metric.Float64Histogram
	total    metric.Int64Counter
	active   metric.Int64UpDownCounter
}

func newHTTPMetrics() *httpMetrics {
	meter := otel.GetMeterProvider().Meter(_serviceName)
	m := &httpMetrics{}

	var err error
	m.duration, err = meter.Float64Histogram(
		fmt.Sprintf("%s.%s", _metricPrefix, "http.request.duration.seconds"),
		metric.WithDescription("Duration of HTTP requests per route"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10),
	)
	if err != nil {
		slog.Warn("creating http duration histogram", slog.Any("error", err))
	}

	m.total, err = meter.Int64Counter(
		fmt.Sprintf("%s.%s", _metricPrefix, "http.requests.total"),
		metric.WithDescription("HTTP requests per route and status"),
	)
	if err != nil {
		slog.Warn("creating http requests counter", slog.Any("error", err))
	}

	m.active, err = meter.Int64UpDownCounter(
		fmt.Sprintf("%s.%s", _metricPrefix, "http.requests.active"),
		metric.WithDescription("HTTP requests currently being served"),
	)
	if err != nil {
		slog.Warn("creating http active requests counter", slog.Any("error", err))
	}

	return m
}

// MetricsMiddleware measures requests labelled with the route pattern that
// router matches for them, e.g. "/v1/devices/{id}/messages".
func MetricsMiddleware(router *http.ServeMux) func(http.Handler) http.Handler {
	m := newHTTPMetrics()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			route := routeOf(router, r)

			inFlight := metric.WithAttributes(
				attribute.String("http.method", r.Method),
				attribute.String("http.route", route),
			)
			m.active.Add(r.Context(), 1, inFlight)
			defer m.active.Add(r.Context(), -1, inFlight)

			recorder := &statusCodeResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(recorder, r)

			done := metric.WithAttributes(
				attribute.String("http.method", r.Method),
				attribute.String("http.route", route),
				attribute.Int("http.status_code", recorder.statusCode),
			)
			m.duration.Record(r.Context(), time.Since(start).Seconds(), done)
			m.total.Add(r.Context(), 1, done)
		})
	}
}

// routeOf returns the path part of the pattern router would dispatch r to.
func routeOf(router *http.ServeMux, r *http.Request) string {
	_, pattern := router.Handler(r)
	if pattern == "" {
		return _unmatchedRoute
	}
	if _, path, ok := strings.Cut(pattern, " "); ok {
		return path
	}
	return pattern
}
