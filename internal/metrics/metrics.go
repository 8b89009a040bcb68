// Package metrics defines the Prometheus collectors exported at /metrics.
//
//	http_requests_total                          requests by route pattern, method and status
//	http_request_duration_seconds                latency by route pattern and method
//	marketplace_cascade_deleted_services_total   services removed by user deletes
//	marketplace_orphan_services_swept_total      services removed by the orphan sweeper
//	marketplace_logins_total                     social logins by provider and result
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "HTTP requests by route, method and status"},
		[]string{"path", "method", "status"},
	)
	HTTPLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "http_request_duration_seconds", Help: "HTTP request latency in seconds", Buckets: prometheus.DefBuckets},
		[]string{"path", "method"},
	)
	CascadeDeletedServices = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "marketplace_cascade_deleted_services_total",
		Help: "Services deleted together with their customer",
	})
	OrphanServicesSwept = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "marketplace_orphan_services_swept_total",
		Help: "Services deleted by the orphan sweeper",
	})
	Logins = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "marketplace_logins_total", Help: "Social logins by provider and result"},
		[]string{"provider", "result"},
	)
)

func init() {
	prometheus.MustRegister(HTTPRequests, HTTPLatency, CascadeDeletedServices, OrphanServicesSwept, Logins)
}

// Handler returns the standard Prometheus exposition handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
