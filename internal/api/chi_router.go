// Groundcrew - Flight Ground Operations Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/groundcrew

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/groundcrew/internal/middleware"
)

// Router wires handlers to routes.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a Router. A nil mw uses the default middleware config.
func NewRouter(handler *Handler, mw *ChiMiddleware) *Router {
	if mw == nil {
		mw = NewChiMiddleware(nil)
	}
	return &Router{handler: handler, chiMiddleware: mw}
}

// chiMiddleware adapts http.HandlerFunc middleware to Chi's
// func(http.Handler) http.Handler.
func chiMiddleware(mw func(http.HandlerFunc) http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return mw(next.ServeHTTP)
	}
}

// SetupChi configures all HTTP routes.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()
	h := router.handler

	// ========================
	// Global Middleware Stack
	// ========================
	r.Use(chiMiddleware(middleware.RequestID))
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS()) // global so OPTIONS preflight is answered

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		respondError(w, req, http.StatusNotFound, ErrCodeNotFound, "route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		respondError(w, req, http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "method not allowed", nil)
	})

	// ========================
	// Health and Metrics
	// ========================
	r.Route("/api/health", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitHealth())
		r.Use(APISecurityHeaders())
		r.Get("/live", h.HealthLive)
		r.Get("/ready", h.HealthReady)
	})
	r.Handle("/metrics", promhttp.Handler())

	// ========================
	// WebSocket Relay
	// ========================
	// No metrics or compression middleware: both wrap the ResponseWriter
	// and would hide http.Hijacker from the upgrader.
	r.With(router.chiMiddleware.RateLimitWebSocket()).Get("/ws", h.WebSocket)

	// ========================
	// REST API
	// ========================
	r.Route("/api", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(APISecurityHeaders())
		r.Use(chiMiddleware(middleware.PrometheusMetrics))
		r.Use(chimiddleware.Compress(5, "application/json"))

		write := r.With(router.chiMiddleware.RateLimitWrite())

		r.Route("/atc24", func(r chi.Router) {
			r.Get("/aircraft", h.ATC24Aircraft)
			r.Get("/event-aircraft", h.ATC24EventAircraft)
			r.Get("/controllers", h.ATC24Controllers)
			r.Get("/atis", h.ATC24Atis)
			r.Get("/flight-plans", h.ATC24FlightPlans)
			r.Get("/status", h.ATC24Status)
		})

		r.Get("/aircraft", h.ListAircraft)
		r.Get("/aircraft/{id}", h.GetAircraft)
		write.Post("/aircraft", h.CreateAircraft)
		write.Patch("/aircraft/{id}", h.UpdateAircraft)

		r.Get("/flights", h.ListFlights)
		r.Get("/flights/{flightId}", h.GetFlight)
		write.Post("/flights", h.CreateFlight)
		write.Patch("/flights/{flightId}", h.UpdateFlight)

		r.Get("/flights/{flightId}/services", h.ListFlightServices)
		write.Post("/flights/{flightId}/services", h.CreateFlightService)
		r.Get("/services", h.ListServices)
		r.Get("/services/{id}", h.GetService)
		write.Patch("/services/{id}", h.UpdateService)

		r.Get("/flights/{flightId}/communications", h.ListCommunications)
		write.Post("/flights/{flightId}/communications", h.CreateCommunication)

		r.Get("/flights/{flightId}/seating", h.ListSeating)
		write.Post("/flights/{flightId}/seating", h.UpsertSeating)
		write.Patch("/flights/{flightId}/seating/{seatNumber}", h.UpdateSeatStatus)

		r.Get("/checklists", h.ListChecklists)
		r.Get("/checklists/{id}", h.GetChecklist)
		write.Post("/checklists", h.CreateChecklist)

		r.Get("/flights/{flightId}/checklist-progress", h.ListChecklistProgress)
		write.Post("/flights/{flightId}/checklist-progress", h.UpsertChecklistProgress)

		r.Get("/airports", h.ListAirports)
		r.Get("/airports/{icao}", h.GetAirport)
		write.Post("/airports", h.CreateAirport)
	})

	return r
}
