package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "grievance_http_requests_total",
			Help: "HTTP requests by route, method and status",
		},
		[]string{"route", "method", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "grievance_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)

	HTTPErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "grievance_http_errors_total",
			Help: "Error responses by route, method and error code",
		},
		[]string{"route", "method", "code"},
	)
)

// Workflow metrics
var (
	GrievancesSubmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "grievances_submitted_total",
			Help: "Grievances submitted by derived priority",
		},
		[]string{"priority"},
	)

	AutoAssignOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "grievance_auto_assign_total",
			Help: "Auto-assignment attempts by outcome (assigned, no_eligible)",
		},
		[]string{"outcome"},
	)

	BulkItemFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "grievance_bulk_item_failures_total",
			Help: "Failed items in bulk admin operations",
		},
		[]string{"operation"},
	)

	TicketIDCollisions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "grievance_ticket_id_collisions_total",
			Help: "Ticket id unique violations that triggered regeneration",
		},
	)
)

// Notification metrics
var (
	NotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "grievance_notifications_total",
			Help: "Notification attempts by type and outcome",
		},
		[]string{"type", "outcome"},
	)

	NotificationsDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "grievance_notifications_dropped_total",
			Help: "Notifications dropped because the dispatch queue was full",
		},
	)

	// EmailCircuitState is 0 closed, 1 half-open, 2 open.
	EmailCircuitState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "grievance_email_circuit_state",
			Help: "Email provider circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
	)
)

// Cache metrics
var (
	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "grievance_cache_lookups_total",
			Help: "Cache lookups by cache and result",
		},
		[]string{"cache", "result"},
	)
)

// Database metrics
var (
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "grievance_db_query_duration_seconds",
			Help:    "Database query duration by statement kind",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"query"},
	)

	DBErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "grievance_db_errors_total",
			Help: "Database errors by statement kind",
		},
		[]string{"query"},
	)

	DBConnections = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "grievance_db_connections",
			Help: "Pool connections by state (acquired, idle)",
		},
		[]string{"state"},
	)
)

// RecordRequest updates request counters and latency.
func RecordRequest(route, method string, status int, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(route, method).Observe(duration.Seconds())
}

// RecordError increments error counters.
func RecordError(route, method, code string) {
	HTTPErrorsTotal.WithLabelValues(route, method, code).Inc()
}
