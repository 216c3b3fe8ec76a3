// Groundcrew - Flight Ground Operations Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/groundcrew

package api

import (
	"net/http"
	"strings"

	"github.com/tomtom215/groundcrew/internal/feed"
)

// ATC24Aircraft returns the latest live aircraft snapshot keyed by callsign.
// While the feed has delivered nothing yet, the snapshot is fetched once over
// REST and seeds the cache; metadata.cached tells the two apart.
func (h *Handler) ATC24Aircraft(w http.ResponseWriter, r *http.Request) {
	snap, cached, err := h.fallback.Aircraft(r.Context())
	if err != nil {
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable,
			"ATC24 aircraft data unavailable", err)
		return
	}
	respondFeed(w, snap, cached)
}

// ATC24EventAircraft returns the latest event-server aircraft snapshot.
// It has no REST source.
func (h *Handler) ATC24EventAircraft(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.feedCache.EventAircraft()
	if !ok {
		snap = feed.Snapshot[feed.AircraftSnapshot]{Value: feed.AircraftSnapshot{}}
	}
	respondFeed(w, snap, true)
}

// ATC24Controllers returns the latest controller list with the same
// fallback rules as ATC24Aircraft.
func (h *Handler) ATC24Controllers(w http.ResponseWriter, r *http.Request) {
	snap, cached, err := h.fallback.Controllers(r.Context())
	if err != nil {
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable,
			"ATC24 controller data unavailable", err)
		return
	}
	respondFeed(w, snap, cached)
}

// ATC24Atis returns the latest ATIS per airport, or one airport's ATIS when
// ?airport= is given.
func (h *Handler) ATC24Atis(w http.ResponseWriter, r *http.Request) {
	airport := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("airport")))
	if airport == "" {
		respondFeed(w, h.feedCache.Atis(), true)
		return
	}

	snap, ok := h.feedCache.AtisFor(airport)
	if !ok {
		respondError(w, r, http.StatusNotFound, ErrCodeNotFound, "no ATIS received for "+airport, nil)
		return
	}
	respondFeed(w, snap, true)
}

// ATC24FlightPlans returns the latest flight plan per callsign. ?event=true
// selects event-server plans.
func (h *Handler) ATC24FlightPlans(w http.ResponseWriter, r *http.Request) {
	if getBoolParam(r, "event") {
		respondFeed(w, h.feedCache.EventFlightPlans(), true)
		return
	}
	respondFeed(w, h.feedCache.FlightPlans(), true)
}

// ATC24Status reports the upstream connection state.
func (h *Handler) ATC24Status(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, http.StatusOK, h.feedHealth())
}
