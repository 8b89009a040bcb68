package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/forgo/marketplace/internal/metrics"
)

// Metrics records request counts and latencies per route pattern. It must
// wrap the ServeMux directly so the matched pattern is visible after routing.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := wrapResponseWriter(w)

		next.ServeHTTP(wrapped, r)

		path := r.Pattern
		if path == "" {
			path = "unmatched"
		}
		metrics.HTTPRequests.WithLabelValues(path, r.Method, strconv.Itoa(wrapped.statusCode)).Inc()
		metrics.HTTPLatency.WithLabelValues(path, r.Method).Observe(time.Since(start).Seconds())
	})
}
