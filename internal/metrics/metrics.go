// Tastebud - Food Ordering Backend and Personalized Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastebud

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Database Metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "duckdb_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duckdb_query_errors_total",
			Help: "Total number of DuckDB query errors",
		},
		[]string{"operation", "table"},
	)

	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Number of API requests currently being served",
		},
	)

	// Recommendation Metrics
	RecommendationRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendation_requests_total",
			Help: "Total number of recommendation requests by strategy and outcome",
		},
		[]string{"strategy", "outcome"}, // outcome: "ok", "empty", "error"
	)

	RecommendationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommendation_duration_seconds",
			Help:    "Duration of recommendation requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"strategy"},
	)

	RecommendationResultSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommendation_result_size",
			Help:    "Number of items returned per recommendation request",
			Buckets: []float64{0, 1, 2, 4, 8, 16, 32, 50},
		},
		[]string{"strategy"},
	)

	// Preference Metrics
	PreferenceMerges = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "preference_merges_total",
			Help: "Total number of preference merges by backend and outcome",
		},
		[]string{"backend", "outcome"}, // outcome: "applied", "duplicate", "error"
	)

	PreferenceMergeDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "preference_merge_duration_seconds",
			Help:    "Duration of atomic preference merges in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"backend"},
	)

	PreferenceMergeRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "preference_merge_retries_total",
			Help: "Total number of merge retries caused by write conflicts",
		},
		[]string{"backend"},
	)

	// Order Metrics
	OrdersPlaced = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orders_placed_total",
			Help: "Total number of order placement attempts by outcome",
		},
		[]string{"outcome"}, // outcome: "ok", "invalid", "not_found", "failed"
	)

	OrderLines = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "order_lines",
			Help:    "Number of lines per placed order",
			Buckets: []float64{1, 2, 3, 5, 8, 13, 21},
		},
	)

	// Event Metrics
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_published_total",
			Help: "Total number of domain events published by topic and outcome",
		},
		[]string{"topic", "outcome"}, // outcome: "ok", "error"
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)
)

// RecordDBQuery records a database query metric
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		DBQueryErrors.WithLabelValues(operation, table).Inc()
	}
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordRecommendation records one recommendation request.
// An error takes precedence over an empty result when choosing the outcome.
func RecordRecommendation(strategy string, duration time.Duration, items int, err error) {
	RecommendationDuration.WithLabelValues(strategy).Observe(duration.Seconds())

	outcome := "ok"
	switch {
	case err != nil:
		outcome = "error"
	case items == 0:
		outcome = "empty"
	}
	RecommendationRequests.WithLabelValues(strategy, outcome).Inc()

	if err == nil {
		RecommendationResultSize.WithLabelValues(strategy).Observe(float64(items))
	}
}

// RecordPreferenceMerge records an atomic merge attempt against a backend.
func RecordPreferenceMerge(backend string, duration time.Duration, applied bool, err error) {
	PreferenceMergeDuration.WithLabelValues(backend).Observe(duration.Seconds())

	outcome := "applied"
	switch {
	case err != nil:
		outcome = "error"
	case !applied:
		outcome = "duplicate"
	}
	PreferenceMerges.WithLabelValues(backend, outcome).Inc()
}

// RecordPreferenceMergeRetry records a merge retried after a write conflict.
func RecordPreferenceMergeRetry(backend string) {
	PreferenceMergeRetries.WithLabelValues(backend).Inc()
}

// RecordOrderPlaced records an order placement attempt.
func RecordOrderPlaced(outcome string, lines int) {
	OrdersPlaced.WithLabelValues(outcome).Inc()
	if outcome == "ok" {
		OrderLines.Observe(float64(lines))
	}
}

// RecordEventPublish records a domain event publish attempt.
func RecordEventPublish(topic string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	EventsPublished.WithLabelValues(topic, outcome).Inc()
}

// SetCircuitBreakerState records the state of a named circuit breaker.
func SetCircuitBreakerState(name string, state int) {
	CircuitBreakerState.WithLabelValues(name).Set(float64(state))
}
