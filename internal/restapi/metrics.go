package restapi

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests served.",
		},
		[]string{"route", "method", "status"},
	)
	httpRequestDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
)

func observeHTTPRequest(r *http.Request, status int, dur time.Duration) {
	route := routeLabel(r.URL.Path)
	httpRequestsTotal.WithLabelValues(route, r.Method, strconv.Itoa(status)).Inc()
	httpRequestDurationSeconds.WithLabelValues(route, r.Method).Observe(dur.Seconds())
}

// routeLabel collapses parameterized paths so metric cardinality stays
// bounded.
func routeLabel(path string) string {
	switch {
	case path == "/healthz":
		return "healthz"
	case path == "/metrics":
		return "metrics"
	case strings.HasPrefix(path, "/api/auth/"):
		return "auth_" + strings.TrimPrefix(path, "/api/auth/")
	case strings.HasPrefix(path, "/api/admin/"):
		return "admin_users"
	case strings.HasPrefix(path, "/api/dashboard/charts/"):
		return "dashboard_chart"
	case strings.HasPrefix(path, "/api/dashboard/operations/"):
		if strings.HasSuffix(path, "/zones.json") {
			return "dashboard_zones"
		}
		return "dashboard_operations"
	case strings.HasPrefix(path, "/api/dashboard/"):
		name := strings.TrimPrefix(path, "/api/dashboard/")
		return "dashboard_" + strings.TrimSuffix(name, ".json")
	}
	return "other"
}

// metricsMiddleware records a counter and latency sample for every request.
func metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)
		observeHTTPRequest(r, wrapped.statusCode, time.Since(start))
	})
}
