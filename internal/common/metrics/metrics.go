package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Circuit breaker state values for the state gauge
const (
	CircuitBreakerClosed   = 0
	CircuitBreakerOpen     = 1
	CircuitBreakerHalfOpen = 2
)

var (
	// Operation metrics

	// OperationsHandled tracks permission operations by outcome
	OperationsHandled = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "permitdesk",
			Subsystem: "operations",
			Name:      "handled_total",
			Help:      "Total permission operations handled",
		},
		[]string{"operation", "result"}, // result: success, rejected, error
	)

	// OperationDuration tracks operation handling duration
	OperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "permitdesk",
			Subsystem: "operations",
			Name:      "duration_seconds",
			Help:      "Time to handle a permission operation",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	// Search index metrics

	// IndexOperations tracks document propagations to the search index
	IndexOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "permitdesk",
			Subsystem: "search",
			Name:      "index_operations_total",
			Help:      "Total document operations against the search index",
		},
		[]string{"operation", "result"}, // operation: index, update; result: success, failure
	)

	// SearchCircuitBreakerState tracks the search index circuit breaker state
	// 0 = closed (healthy), 1 = open (tripped), 2 = half-open (testing)
	SearchCircuitBreakerState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "permitdesk",
			Subsystem: "search",
			Name:      "circuit_breaker_state",
			Help:      "Search index circuit breaker state (0=closed, 1=open, 2=half-open)",
		},
	)

	// SearchCircuitBreakerTrips tracks search breaker trip events
	SearchCircuitBreakerTrips = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "permitdesk",
			Subsystem: "search",
			Name:      "circuit_breaker_trips_total",
			Help:      "Total search index circuit breaker trip events",
		},
	)

	// Event stream metrics

	// EventsPublished tracks operation messages published to the event stream
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "permitdesk",
			Subsystem: "events",
			Name:      "published_total",
			Help:      "Total operation messages published to the event stream",
		},
		[]string{"operation", "result"}, // result: acked, failed
	)

	// EventPublishDuration tracks publish round-trip duration
	EventPublishDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "permitdesk",
			Subsystem: "events",
			Name:      "publish_duration_seconds",
			Help:      "Time to publish an operation message and receive an ack",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
	)

	// HTTP metrics

	// HTTPRequests tracks requests served by the API
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "permitdesk",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests served",
		},
		[]string{"status_code", "method", "path"},
	)

	// HTTPRateLimitRejections tracks requests rejected by the rate limiter
	HTTPRateLimitRejections = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "permitdesk",
			Subsystem: "http",
			Name:      "rate_limit_rejections_total",
			Help:      "Total requests rejected due to rate limiting",
		},
	)
)
