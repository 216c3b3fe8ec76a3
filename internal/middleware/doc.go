// Groundcrew - Flight Ground Operations Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/groundcrew

/*
Package middleware provides the HTTP middleware Groundcrew owns itself.

CORS, rate limiting, compression and panic recovery come from the chi
ecosystem and are assembled in package api. This package adds the two
pieces that tie requests into Groundcrew's own observability:

  - RequestID: X-Request-ID propagation into logging.Ctx
  - PrometheusMetrics: per-route request count, latency and in-flight gauge

Both use the http.HandlerFunc shape and are adapted to chi's
func(http.Handler) http.Handler in the router.

PrometheusMetrics must not wrap the /ws route: its response writer does not
implement http.Hijacker, so the WebSocket upgrade would fail.
*/
package middleware
