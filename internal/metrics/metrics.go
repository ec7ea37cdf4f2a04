// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "converge"

var latencyBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5}

// Metrics groups the service collectors. A nil *Metrics records nothing.
type Metrics struct {
	requestsTotal  *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
	teamRequests   *prometheus.CounterVec
	ratingFanOut   prometheus.Counter
}

// New registers the collectors with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		requestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Count of processed HTTP requests",
		}, []string{"method", "route", "status"}),
		requestLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Latency distribution of HTTP handlers",
			Buckets:   latencyBuckets,
		}, []string{"method", "route", "status"}),
		teamRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "team",
			Name:      "requests_total",
			Help:      "Team request transitions by request type and outcome",
		}, []string{"type", "outcome"}),
		ratingFanOut: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "team",
			Name:      "rating_requests_created_total",
			Help:      "Rating requests created by project completion",
		}),
	}
}

// ObserveRequest records one HTTP request.
func (m *Metrics) ObserveRequest(method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labels := prometheus.Labels{
		"method": method,
		"route":  route,
		"status": strconv.Itoa(status),
	}
	m.requestsTotal.With(labels).Inc()
	m.requestLatency.With(labels).Observe(duration.Seconds())
}

// TeamRequest records a team request outcome such as "issued" or "accepted".
func (m *Metrics) TeamRequest(requestType, outcome string) {
	if m == nil {
		return
	}
	m.teamRequests.WithLabelValues(requestType, outcome).Inc()
}

// RatingRequestsCreated adds n fan-out rating requests.
func (m *Metrics) RatingRequestsCreated(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.ratingFanOut.Add(float64(n))
}
