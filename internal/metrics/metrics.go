// Groundcrew - Flight Ground Operations Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/groundcrew

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for:
// - API endpoint latency and throughput
// - Upstream ATC24 feed health
// - Downstream WebSocket relay
// - Store operations and circuit breakers
// - Internal event bus

var (
	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Upstream Feed Metrics
	FeedConnected = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "atc24_feed_connected",
			Help: "1 while the upstream ATC24 socket is open, 0 otherwise",
		},
	)

	FeedMessages = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "atc24_feed_messages_total",
			Help: "Total number of upstream messages accepted, by envelope type",
		},
		[]string{"type"},
	)

	FeedDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "atc24_feed_dropped_total",
			Help: "Total number of upstream messages dropped",
		},
		[]string{"reason"}, // parse, unknown_type, invalid_payload
	)

	FeedReconnects = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "atc24_feed_reconnect_attempts_total",
			Help: "Total number of scheduled reconnect attempts",
		},
	)

	FeedUnavailable = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "atc24_feed_unavailable_total",
			Help: "Number of times the retry budget was exhausted",
		},
	)

	FeedRESTFallback = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "atc24_rest_fallback_total",
			Help: "Upstream REST fetches made while the live cache was cold",
		},
		[]string{"endpoint", "result"},
	)

	// WebSocket Metrics
	WSConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_connections",
			Help: "Current number of active WebSocket connections",
		},
	)

	WSMessagesSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_messages_sent_total",
			Help: "Total number of WebSocket messages sent",
		},
	)

	WSMessagesReceived = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_messages_received_total",
			Help: "Total number of WebSocket messages received",
		},
	)

	WSErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "websocket_errors_total",
			Help: "Total number of WebSocket errors",
		},
		[]string{"error_type"},
	)

	RelayFrames = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_frames_total",
			Help: "Inbound relay frames by type and outcome",
		},
		[]string{"type", "result"}, // result: ok, invalid, rate_limited, rejected, store_error
	)

	RelayBroadcastRecipients = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "relay_broadcast_recipients",
			Help:    "Number of connections reached by one scoped broadcast",
			Buckets: []float64{0, 1, 2, 5, 10, 25, 50, 100},
		},
	)

	// Store Metrics
	StoreOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "store_operation_duration_seconds",
			Help:    "Duration of store operations in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		},
		[]string{"operation", "entity"},
	)

	StoreOperationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_operation_errors_total",
			Help: "Total number of failed store operations",
		},
		[]string{"operation", "entity", "error_type"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Event Bus Metrics
	BusMessagesPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "event_bus_messages_published_total",
			Help: "Total number of messages published to the internal event bus",
		},
		[]string{"topic"},
	)

	BusPublishErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "event_bus_publish_errors_total",
			Help: "Total number of failed event bus publishes",
		},
		[]string{"topic"},
	)

	BusMessagesConsumed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "event_bus_messages_consumed_total",
			Help: "Total number of messages consumed from the internal event bus",
		},
		[]string{"topic"},
	)

	// System Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)

	AppUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "app_uptime_seconds",
			Help: "Application uptime in seconds",
		},
	)
)

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

// RecordStoreOperation records the duration of a store call and, on failure,
// its error category. errorType is ignored when err is nil.
func RecordStoreOperation(operation, entity string, duration time.Duration, errorType string, err error) {
	StoreOperationDuration.WithLabelValues(operation, entity).Observe(duration.Seconds())
	if err != nil {
		if errorType == "" {
			errorType = "unknown"
		}
		StoreOperationErrors.WithLabelValues(operation, entity, errorType).Inc()
	}
}

// SetFeedConnected mirrors the upstream socket state.
func SetFeedConnected(connected bool) {
	if connected {
		FeedConnected.Set(1)
		return
	}
	FeedConnected.Set(0)
}

// RecordFeedMessage counts an accepted upstream message.
func RecordFeedMessage(messageType string) {
	FeedMessages.WithLabelValues(messageType).Inc()
}

// RecordFeedDropped counts an upstream message that produced no event.
func RecordFeedDropped(reason string) {
	FeedDropped.WithLabelValues(reason).Inc()
}

// RecordFeedRESTFallback records a cold-cache REST fetch.
func RecordFeedRESTFallback(endpoint string, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	FeedRESTFallback.WithLabelValues(endpoint, result).Inc()
}

// RecordRelayFrame records the outcome of one inbound relay frame.
func RecordRelayFrame(frameType, result string) {
	RelayFrames.WithLabelValues(frameType, result).Inc()
}

// RecordBusPublish records a publish attempt on topic.
func RecordBusPublish(topic string, err error) {
	if err != nil {
		BusPublishErrors.WithLabelValues(topic).Inc()
		return
	}
	BusMessagesPublished.WithLabelValues(topic).Inc()
}
