// Groundcrew - Flight Ground Operations Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/groundcrew

/*
Package metrics provides Prometheus metrics collection and export.

# Metrics Endpoint

Metrics are exposed at /metrics in Prometheus text format:

	curl http://localhost:5000/metrics

# Available Metrics

API Metrics:
  - api_requests_total{method,endpoint,status_code}
  - api_request_duration_seconds{method,endpoint}
  - api_active_requests
  - api_rate_limit_hits_total{endpoint}

Upstream Feed Metrics:
  - atc24_feed_connected: 1 while the upstream socket is open
  - atc24_feed_messages_total{type}: accepted envelopes (ACFT_DATA, ATIS, ...)
  - atc24_feed_dropped_total{reason}: parse, unknown_type, invalid_payload
  - atc24_feed_reconnect_attempts_total
  - atc24_feed_unavailable_total: retry budget exhausted
  - atc24_rest_fallback_total{endpoint,result}

Relay Metrics:
  - websocket_connections, websocket_messages_sent_total,
    websocket_messages_received_total, websocket_errors_total{error_type}
  - relay_frames_total{type,result}
  - relay_broadcast_recipients (histogram)

Store and Breaker Metrics:
  - store_operation_duration_seconds{operation,entity}
  - store_operation_errors_total{operation,entity,error_type}
  - circuit_breaker_state{name}: 0=closed, 1=half-open, 2=open
  - circuit_breaker_requests_total{name,result}
  - circuit_breaker_state_transitions_total{name,from_state,to_state}

Event Bus Metrics:
  - event_bus_messages_published_total{topic}
  - event_bus_publish_errors_total{topic}
  - event_bus_messages_consumed_total{topic}

# Usage

	start := time.Now()
	err := backend.Update(ctx, key, fn)
	metrics.RecordStoreOperation("update", "service_request", time.Since(start), "", err)

All collectors are registered with the default registry through promauto.
*/
package metrics
