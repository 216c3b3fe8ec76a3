// Groundcrew - Flight Ground Operations Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/groundcrew

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/groundcrew/internal/models"
)

// Flight-scoped endpoints take the flight from the path. A flightId in the
// body is overwritten, so a request cannot write into another flight.

// ListFlightServices handles GET /api/flights/{flightId}/services.
func (h *Handler) ListFlightServices(w http.ResponseWriter, r *http.Request) {
	services, err := h.store.ListServiceRequestsByFlight(r.Context(), chi.URLParam(r, "flightId"))
	if err != nil {
		respondStoreError(w, r, err, "service requests")
		return
	}
	respondSuccess(w, http.StatusOK, services)
}

// CreateFlightService handles POST /api/flights/{flightId}/services.
func (h *Handler) CreateFlightService(w http.ResponseWriter, r *http.Request) {
	var in models.ServiceRequestInput
	if !bindJSON(w, r, &in, func() { in.FlightID = chi.URLParam(r, "flightId") }) {
		return
	}
	svc, err := h.store.CreateServiceRequest(r.Context(), in)
	if err != nil {
		respondStoreError(w, r, err, "service request")
		return
	}
	respondSuccess(w, http.StatusCreated, svc)
}

// ListServices handles GET /api/services.
func (h *Handler) ListServices(w http.ResponseWriter, r *http.Request) {
	services, err := h.store.ListServiceRequests(r.Context())
	if err != nil {
		respondStoreError(w, r, err, "service requests")
		return
	}
	respondSuccess(w, http.StatusOK, services)
}

// GetService handles GET /api/services/{id}.
func (h *Handler) GetService(w http.ResponseWriter, r *http.Request) {
	svc, err := h.store.GetServiceRequest(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondStoreError(w, r, err, "service request")
		return
	}
	respondSuccess(w, http.StatusOK, svc)
}

// UpdateService handles PATCH /api/services/{id}.
func (h *Handler) UpdateService(w http.ResponseWriter, r *http.Request) {
	var patch models.ServiceRequestPatch
	if !bindJSON(w, r, &patch, nil) {
		return
	}
	svc, err := h.store.UpdateServiceRequest(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		respondStoreError(w, r, err, "service request")
		return
	}
	respondSuccess(w, http.StatusOK, svc)
}

// ListCommunications handles GET /api/flights/{flightId}/communications.
// Messages come back oldest first.
func (h *Handler) ListCommunications(w http.ResponseWriter, r *http.Request) {
	comms, err := h.store.ListCommunicationsByFlight(r.Context(), chi.URLParam(r, "flightId"))
	if err != nil {
		respondStoreError(w, r, err, "communications")
		return
	}
	respondSuccess(w, http.StatusOK, comms)
}

// CreateCommunication handles POST /api/flights/{flightId}/communications.
// Unlike the send_message frame it does not broadcast.
func (h *Handler) CreateCommunication(w http.ResponseWriter, r *http.Request) {
	var in models.CommunicationInput
	if !bindJSON(w, r, &in, func() { in.FlightID = chi.URLParam(r, "flightId") }) {
		return
	}
	comm, err := h.store.CreateCommunication(r.Context(), in)
	if err != nil {
		respondStoreError(w, r, err, "communication")
		return
	}
	respondSuccess(w, http.StatusCreated, comm)
}

// ListSeating handles GET /api/flights/{flightId}/seating.
func (h *Handler) ListSeating(w http.ResponseWriter, r *http.Request) {
	seats, err := h.store.ListSeatingByFlight(r.Context(), chi.URLParam(r, "flightId"))
	if err != nil {
		respondStoreError(w, r, err, "seating")
		return
	}
	respondSuccess(w, http.StatusOK, seats)
}

// UpsertSeating handles POST /api/flights/{flightId}/seating.
func (h *Handler) UpsertSeating(w http.ResponseWriter, r *http.Request) {
	var in models.SeatingInput
	if !bindJSON(w, r, &in, func() { in.FlightID = chi.URLParam(r, "flightId") }) {
		return
	}
	seat, err := h.store.UpsertSeating(r.Context(), in)
	if err != nil {
		respondStoreError(w, r, err, "seat")
		return
	}
	respondSuccess(w, http.StatusCreated, seat)
}

// UpdateSeatStatus handles PATCH /api/flights/{flightId}/seating/{seatNumber}.
func (h *Handler) UpdateSeatStatus(w http.ResponseWriter, r *http.Request) {
	var update models.SeatStatusUpdate
	if !bindJSON(w, r, &update, nil) {
		return
	}
	seat, err := h.store.UpdateSeatStatus(r.Context(), chi.URLParam(r, "flightId"), chi.URLParam(r, "seatNumber"), update)
	if err != nil {
		respondStoreError(w, r, err, "seat")
		return
	}
	respondSuccess(w, http.StatusOK, seat)
}

// ListChecklists handles GET /api/checklists, optionally filtered by
// ?aircraftType=.
func (h *Handler) ListChecklists(w http.ResponseWriter, r *http.Request) {
	var (
		checklists []models.Checklist
		err        error
	)
	if aircraftType := r.URL.Query().Get("aircraftType"); aircraftType != "" {
		checklists, err = h.store.ListChecklistsByAircraftType(r.Context(), aircraftType)
	} else {
		checklists, err = h.store.ListChecklists(r.Context())
	}
	if err != nil {
		respondStoreError(w, r, err, "checklists")
		return
	}
	respondSuccess(w, http.StatusOK, checklists)
}

// GetChecklist handles GET /api/checklists/{id}.
func (h *Handler) GetChecklist(w http.ResponseWriter, r *http.Request) {
	checklist, err := h.store.GetChecklist(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondStoreError(w, r, err, "checklist")
		return
	}
	respondSuccess(w, http.StatusOK, checklist)
}

// CreateChecklist handles POST /api/checklists.
func (h *Handler) CreateChecklist(w http.ResponseWriter, r *http.Request) {
	var in models.ChecklistInput
	if !bindJSON(w, r, &in, nil) {
		return
	}
	checklist, err := h.store.CreateChecklist(r.Context(), in)
	if err != nil {
		respondStoreError(w, r, err, "checklist")
		return
	}
	respondSuccess(w, http.StatusCreated, checklist)
}

// ListChecklistProgress handles GET /api/flights/{flightId}/checklist-progress.
// With ?checklistId= it returns that single record.
func (h *Handler) ListChecklistProgress(w http.ResponseWriter, r *http.Request) {
	flightID := chi.URLParam(r, "flightId")
	if checklistID := r.URL.Query().Get("checklistId"); checklistID != "" {
		progress, err := h.store.GetChecklistProgress(r.Context(), flightID, checklistID)
		if err != nil {
			respondStoreError(w, r, err, "checklist progress")
			return
		}
		respondSuccess(w, http.StatusOK, progress)
		return
	}

	progress, err := h.store.ListChecklistProgressByFlight(r.Context(), flightID)
	if err != nil {
		respondStoreError(w, r, err, "checklist progress")
		return
	}
	respondSuccess(w, http.StatusOK, progress)
}

// UpsertChecklistProgress handles POST /api/flights/{flightId}/checklist-progress.
func (h *Handler) UpsertChecklistProgress(w http.ResponseWriter, r *http.Request) {
	var in models.ChecklistProgressInput
	if !bindJSON(w, r, &in, func() { in.FlightID = chi.URLParam(r, "flightId") }) {
		return
	}
	progress, err := h.store.UpsertChecklistProgress(r.Context(), in)
	if err != nil {
		respondStoreError(w, r, err, "checklist progress")
		return
	}
	respondSuccess(w, http.StatusCreated, progress)
}
