// Groundcrew - Flight Ground Operations Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/groundcrew

package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/groundcrew/internal/models"
)

// ListAircraft handles GET /api/aircraft.
func (h *Handler) ListAircraft(w http.ResponseWriter, r *http.Request) {
	aircraft, err := h.store.ListAircraft(r.Context())
	if err != nil {
		respondStoreError(w, r, err, "aircraft")
		return
	}
	respondSuccess(w, http.StatusOK, aircraft)
}

// GetAircraft handles GET /api/aircraft/{id}.
func (h *Handler) GetAircraft(w http.ResponseWriter, r *http.Request) {
	aircraft, err := h.store.GetAircraft(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondStoreError(w, r, err, "aircraft")
		return
	}
	respondSuccess(w, http.StatusOK, aircraft)
}

// CreateAircraft handles POST /api/aircraft.
func (h *Handler) CreateAircraft(w http.ResponseWriter, r *http.Request) {
	var in models.AircraftInput
	if !bindJSON(w, r, &in, nil) {
		return
	}
	aircraft, err := h.store.CreateAircraft(r.Context(), in)
	if err != nil {
		respondStoreError(w, r, err, "aircraft")
		return
	}
	respondSuccess(w, http.StatusCreated, aircraft)
}

// UpdateAircraft handles PATCH /api/aircraft/{id}.
func (h *Handler) UpdateAircraft(w http.ResponseWriter, r *http.Request) {
	var patch models.AircraftPatch
	if !bindJSON(w, r, &patch, nil) {
		return
	}
	aircraft, err := h.store.UpdateAircraft(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		respondStoreError(w, r, err, "aircraft")
		return
	}
	respondSuccess(w, http.StatusOK, aircraft)
}

// ListFlights handles GET /api/flights, optionally filtered by ?aircraftId=.
func (h *Handler) ListFlights(w http.ResponseWriter, r *http.Request) {
	var (
		flights []models.Flight
		err     error
	)
	if aircraftID := r.URL.Query().Get("aircraftId"); aircraftID != "" {
		flights, err = h.store.ListFlightsByAircraft(r.Context(), aircraftID)
	} else {
		flights, err = h.store.ListFlights(r.Context())
	}
	if err != nil {
		respondStoreError(w, r, err, "flights")
		return
	}
	respondSuccess(w, http.StatusOK, flights)
}

// GetFlight handles GET /api/flights/{flightId}.
func (h *Handler) GetFlight(w http.ResponseWriter, r *http.Request) {
	flight, err := h.store.GetFlight(r.Context(), chi.URLParam(r, "flightId"))
	if err != nil {
		respondStoreError(w, r, err, "flight")
		return
	}
	respondSuccess(w, http.StatusOK, flight)
}

// CreateFlight handles POST /api/flights.
func (h *Handler) CreateFlight(w http.ResponseWriter, r *http.Request) {
	var in models.FlightInput
	if !bindJSON(w, r, &in, nil) {
		return
	}
	flight, err := h.store.CreateFlight(r.Context(), in)
	if err != nil {
		respondStoreError(w, r, err, "flight")
		return
	}
	respondSuccess(w, http.StatusCreated, flight)
}

// UpdateFlight handles PATCH /api/flights/{flightId}.
func (h *Handler) UpdateFlight(w http.ResponseWriter, r *http.Request) {
	var patch models.FlightPatch
	if !bindJSON(w, r, &patch, nil) {
		return
	}
	flight, err := h.store.UpdateFlight(r.Context(), chi.URLParam(r, "flightId"), patch)
	if err != nil {
		respondStoreError(w, r, err, "flight")
		return
	}
	respondSuccess(w, http.StatusOK, flight)
}

// ListAirports handles GET /api/airports. ?ptfsOnly=true limits the list to
// airports flown in PTFS.
func (h *Handler) ListAirports(w http.ResponseWriter, r *http.Request) {
	var (
		airports []models.Airport
		err      error
	)
	if getBoolParam(r, "ptfsOnly") {
		airports, err = h.store.ListPTFSAirports(r.Context())
	} else {
		airports, err = h.store.ListAirports(r.Context())
	}
	if err != nil {
		respondStoreError(w, r, err, "airports")
		return
	}
	respondSuccess(w, http.StatusOK, airports)
}

// GetAirport handles GET /api/airports/{icao}. The code is case-insensitive.
func (h *Handler) GetAirport(w http.ResponseWriter, r *http.Request) {
	icao := strings.ToUpper(chi.URLParam(r, "icao"))
	airport, err := h.store.GetAirport(r.Context(), icao)
	if err != nil {
		respondStoreError(w, r, err, "airport")
		return
	}
	respondSuccess(w, http.StatusOK, airport)
}

// CreateAirport handles POST /api/airports.
func (h *Handler) CreateAirport(w http.ResponseWriter, r *http.Request) {
	var in models.AirportInput
	if !bindJSON(w, r, &in, func() { in.ICAO = strings.ToUpper(in.ICAO) }) {
		return
	}
	airport, err := h.store.CreateAirport(r.Context(), in)
	if err != nil {
		respondStoreError(w, r, err, "airport")
		return
	}
	respondSuccess(w, http.StatusCreated, airport)
}
