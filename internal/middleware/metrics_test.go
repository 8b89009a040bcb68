package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/forgo/marketplace/internal/metrics"
)

func TestMetrics_LabelsByRoutePattern(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /metrics-test/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	handler := Metrics(mux)

	counter := metrics.HTTPRequests.WithLabelValues("GET /metrics-test/{id}", http.MethodGet, "418")
	before := testutil.ToFloat64(counter)

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/metrics-test/a", nil))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/metrics-test/b", nil))

	assert.Equal(t, before+2, testutil.ToFloat64(counter))
}

func TestMetrics_UnmatchedRoute(t *testing.T) {
	handler := Metrics(http.NewServeMux())

	counter := metrics.HTTPRequests.WithLabelValues("unmatched", http.MethodGet, "404")
	before := testutil.ToFloat64(counter)

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}
