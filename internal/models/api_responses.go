// Groundcrew - Flight Ground Operations Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/groundcrew

package models

import (
	"time"
)

// APIResponse is the envelope returned by every HTTP endpoint.
//
// Status field values:
//   - "success": Request completed successfully, see Data field
//   - "error": Request failed, see Error field for details
//
// Example successful response:
//
//	{
//	  "status": "success",
//	  "data": [{"id": "...", "flightNumber": "PTFS001", ...}],
//	  "metadata": {"timestamp": "2026-01-12T12:00:00Z"}
//	}
//
// Example error response:
//
//	{
//	  "status": "error",
//	  "error": {
//	    "code": "VALIDATION_ERROR",
//	    "message": "status must be one of [pending in_progress completed cancelled]",
//	    "details": {"field": "status"}
//	  },
//	  "metadata": {"timestamp": "2026-01-12T12:00:00Z"}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata contains response metadata.
//
// Cached is set when the payload was served from the live feed cache rather
// than fetched from the upstream REST API.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
	Cached      bool      `json:"cached,omitempty"`
}

// APIError represents an error response with structured error details.
//
// Common error codes:
//   - VALIDATION_ERROR: Invalid input parameters
//   - INVALID_REQUEST: Malformed body or parameters
//   - NOT_FOUND: Resource doesn't exist
//   - SERVICE_UNAVAILABLE: Upstream feed or breaker open
//   - INTERNAL_ERROR: Unexpected failure
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// HealthStatus is returned by the readiness endpoint.
type HealthStatus struct {
	Status    string            `json:"status"` // healthy, degraded
	Version   string            `json:"version"`
	Uptime    float64           `json:"uptime_seconds"`
	Feed      FeedHealth        `json:"feed"`
	Clients   int               `json:"websocket_clients"`
	Store     string            `json:"store_backend"`
	Bus       string            `json:"bus_backend"`
	Checks    map[string]string `json:"checks,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}

// FeedHealth is the upstream feed portion of HealthStatus and of the
// feed_status WebSocket broadcast.
type FeedHealth struct {
	Status    string    `json:"status"` // idle, connecting, open, closed, unavailable
	Connected bool      `json:"connected"`
	Attempts  int       `json:"attempts"`
	At        time.Time `json:"at"`
}
