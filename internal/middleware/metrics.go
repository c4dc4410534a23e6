package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/bryanwahyu/scamlens/internal/metrics"
)

// Metrics records request totals and durations for prometheus. Only known
// routes are labeled so scrapes do not explode in cardinality.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		switch path {
		case "/api/analyze", "/api/upload", "/api/analyses", "/health":
		default:
			path = "other"
		}

		start := time.Now()
		wrapped := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(wrapped, r)

		metrics.HTTPRequestsTotal.WithLabelValues(path, r.Method, strconv.Itoa(wrapped.statusCode)).Inc()
		metrics.HTTPRequestDurationSeconds.WithLabelValues(path, r.Method).Observe(time.Since(start).Seconds())
	})
}
