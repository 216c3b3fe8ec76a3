// Groundcrew - Flight Ground Operations Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/groundcrew

/*
Package api provides the HTTP surface of Groundcrew: the REST endpoints used
by the ground operations dashboard, health probes, Prometheus metrics and
the /ws upgrade into the flight relay.

# Routes

	GET   /api/health/live                         liveness
	GET   /api/health/ready                        readiness (503 if the store is down)
	GET   /metrics                                 Prometheus exposition
	GET   /ws                                      WebSocket relay

	GET   /api/atc24/aircraft                      live aircraft (REST fallback while cold)
	GET   /api/atc24/event-aircraft                event-server aircraft
	GET   /api/atc24/controllers                   controllers (REST fallback while cold)
	GET   /api/atc24/atis[?airport=]               latest ATIS per airport
	GET   /api/atc24/flight-plans[?event=true]     latest flight plan per callsign
	GET   /api/atc24/status                        upstream connection state

	GET   /api/aircraft, /api/aircraft/{id}        POST, PATCH
	GET   /api/flights[?aircraftId=]               POST
	GET   /api/flights/{flightId}                  PATCH
	GET   /api/flights/{flightId}/services         POST
	GET   /api/services, /api/services/{id}        PATCH
	GET   /api/flights/{flightId}/communications   POST
	GET   /api/flights/{flightId}/seating          POST
	PATCH /api/flights/{flightId}/seating/{seatNumber}
	GET   /api/checklists[?aircraftType=], /api/checklists/{id}   POST
	GET   /api/flights/{flightId}/checklist-progress[?checklistId=] POST
	GET   /api/airports[?ptfsOnly=true], /api/airports/{icao}     POST

# Responses

Every JSON response uses the models.APIResponse envelope:

	{"status":"success","data":...,"metadata":{"timestamp":"..."}}
	{"status":"error","data":null,"metadata":{...},"error":{"code":"NOT_FOUND","message":"flight not found"}}

Error codes: VALIDATION_ERROR (400, with per-field details), INVALID_REQUEST
(400 or 413), NOT_FOUND, METHOD_NOT_ALLOWED, TOO_MANY_REQUESTS,
SERVICE_UNAVAILABLE (upstream feed or open circuit breaker) and
INTERNAL_ERROR. Internal error text is logged, never returned.

# Middleware

Global: request ID, real IP, panic recovery, CORS (go-chi/cors). The /api
group adds per-IP rate limiting (go-chi/httprate), security headers,
Prometheus request metrics and gzip. Write routes carry a tighter limit.
/ws is limited on upgrades only; frame rate limiting happens per connection
in the websocket package.

# Usage

	handler := api.NewHandler(st, hub, relay, cfg,
	    api.WithFeed(feedClient, feedClient.Cache(), feed.NewRESTClient(cfg.Feed.RESTURL, cfg.Feed.RESTTimeout)),
	    api.WithBusBackend(cfg.Bus.Backend),
	)
	mw := api.NewChiMiddleware(api.ChiMiddlewareConfigFrom(cfg.Security))
	srv := &http.Server{Addr: cfg.Server.Addr(), Handler: api.NewRouter(handler, mw).SetupChi()}
*/
package api
