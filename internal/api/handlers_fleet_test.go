// Groundcrew - Flight Ground Operations Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/groundcrew

package api

import (
	"net/http"
	"testing"

	"github.com/tomtom215/groundcrew/internal/models"
	"github.com/tomtom215/groundcrew/internal/store"
)

func TestListAircraft_Seeded(t *testing.T) {
	router, _ := setupTestAPI(t)

	rec, env := doRequest(t, router, http.MethodGet, "/api/aircraft", "")
	if rec.Code != http.StatusOK || env.Status != "success" {
		t.Fatalf("GET /api/aircraft = %d %s", rec.Code, rec.Body.String())
	}
	aircraft := decodeData[[]models.Aircraft](t, env)
	if len(aircraft) != 1 || aircraft[0].Registration != "N737PT" {
		t.Errorf("aircraft = %+v, want the seeded N737PT", aircraft)
	}
	if env.Metadata.Timestamp.IsZero() {
		t.Error("metadata.timestamp not set")
	}
}

func TestGetAircraft(t *testing.T) {
	router, st := setupTestAPI(t)
	flight := seededFlight(t, st)

	rec, env := doRequest(t, router, http.MethodGet, "/api/aircraft/"+flight.AircraftID, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := decodeData[models.Aircraft](t, env); got.Type != store.DefaultAircraftType {
		t.Errorf("type = %q", got.Type)
	}

	rec, env = doRequest(t, router, http.MethodGet, "/api/aircraft/missing", "")
	expectError(t, rec, env, http.StatusNotFound, ErrCodeNotFound)
	if env.Error.Message != "aircraft not found" {
		t.Errorf("message = %q", env.Error.Message)
	}
}

func TestCreateAndUpdateAircraft(t *testing.T) {
	router, _ := setupTestAPI(t)

	rec, env := doRequest(t, router, http.MethodPost, "/api/aircraft",
		`{"registration":"N320GC","type":"Airbus A320","currentAirport":"KSEA","configuration":{"seats":180}}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("POST status = %d body %s", rec.Code, rec.Body.String())
	}
	created := decodeData[models.Aircraft](t, env)
	if created.ID == "" || created.Status != models.AircraftActive {
		t.Errorf("created = %+v, want an ID and default status active", created)
	}

	rec, env = doRequest(t, router, http.MethodPatch, "/api/aircraft/"+created.ID, `{"status":"maintenance"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("PATCH status = %d body %s", rec.Code, rec.Body.String())
	}
	updated := decodeData[models.Aircraft](t, env)
	if updated.Status != models.AircraftMaintenance || updated.Registration != "N320GC" {
		t.Errorf("updated = %+v", updated)
	}
}

func TestCreateAircraft_BadRequests(t *testing.T) {
	router, _ := setupTestAPI(t)

	tests := []struct {
		name string
		body string
		code string
	}{
		{"malformed JSON", `{"registration":`, ErrCodeInvalidRequest},
		{"empty body", ``, ErrCodeInvalidRequest},
		{"missing type", `{"registration":"N1","currentAirport":"KLAX","configuration":{}}`, ErrCodeValidation},
		{"bad status", `{"registration":"N1","type":"B738","currentAirport":"KLAX","configuration":{},"status":"flying"}`, ErrCodeValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := doRequest(t, router, http.MethodPost, "/api/aircraft", tt.body)
			expectError(t, rec, env, http.StatusBadRequest, tt.code)
		})
	}
}

func TestUpdateAircraft_NotFound(t *testing.T) {
	router, _ := setupTestAPI(t)
	rec, env := doRequest(t, router, http.MethodPatch, "/api/aircraft/missing", `{"status":"retired"}`)
	expectError(t, rec, env, http.StatusNotFound, ErrCodeNotFound)
}

func TestFlights_ListFilterCreateUpdate(t *testing.T) {
	router, st := setupTestAPI(t)
	seeded := seededFlight(t, st)

	rec, env := doRequest(t, router, http.MethodPost, "/api/flights",
		`{"flightNumber":"PTFS002","departureAirport":"KJFK","arrivalAirport":"KORD","passengerCount":120}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("POST status = %d body %s", rec.Code, rec.Body.String())
	}
	created := decodeData[models.Flight](t, env)
	if created.Status != models.FlightPlanning {
		t.Errorf("default status = %q, want planning", created.Status)
	}

	_, env = doRequest(t, router, http.MethodGet, "/api/flights", "")
	if all := decodeData[[]models.Flight](t, env); len(all) != 2 {
		t.Errorf("flights = %d, want 2", len(all))
	}

	_, env = doRequest(t, router, http.MethodGet, "/api/flights?aircraftId="+seeded.AircraftID, "")
	byAircraft := decodeData[[]models.Flight](t, env)
	if len(byAircraft) != 1 || byAircraft[0].ID != seeded.ID {
		t.Errorf("flights for aircraft = %+v, want only the seeded flight", byAircraft)
	}

	rec, env = doRequest(t, router, http.MethodPatch, "/api/flights/"+created.ID, `{"status":"boarding","passengerCount":130}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("PATCH status = %d", rec.Code)
	}
	updated := decodeData[models.Flight](t, env)
	if updated.Status != models.FlightBoarding || updated.PassengerCount != 130 || updated.FlightNumber != "PTFS002" {
		t.Errorf("updated = %+v", updated)
	}

	rec, env = doRequest(t, router, http.MethodPatch, "/api/flights/"+created.ID, `{"status":"cruising"}`)
	expectError(t, rec, env, http.StatusBadRequest, ErrCodeValidation)
	if env.Error.Details == nil {
		t.Error("validation error should carry details")
	}

	rec, env = doRequest(t, router, http.MethodGet, "/api/flights/missing", "")
	expectError(t, rec, env, http.StatusNotFound, ErrCodeNotFound)
}

func TestAirports(t *testing.T) {
	router, _ := setupTestAPI(t)

	rec, env := doRequest(t, router, http.MethodPost, "/api/airports",
		`{"icao":"egll","iata":"LHR","name":"Heathrow","city":"London","country":"UK","isPtfsSupported":false}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("POST status = %d body %s", rec.Code, rec.Body.String())
	}
	if got := decodeData[models.Airport](t, env); got.ICAO != "EGLL" {
		t.Errorf("ICAO = %q, want upper-cased EGLL", got.ICAO)
	}

	_, env = doRequest(t, router, http.MethodGet, "/api/airports", "")
	if all := decodeData[[]models.Airport](t, env); len(all) != 6 {
		t.Errorf("airports = %d, want 6", len(all))
	}
	_, env = doRequest(t, router, http.MethodGet, "/api/airports?ptfsOnly=true", "")
	if ptfs := decodeData[[]models.Airport](t, env); len(ptfs) != 5 {
		t.Errorf("PTFS airports = %d, want 5", len(ptfs))
	}

	rec, env = doRequest(t, router, http.MethodGet, "/api/airports/klax", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET klax status = %d", rec.Code)
	}
	if got := decodeData[models.Airport](t, env); got.Name != "Los Angeles International" {
		t.Errorf("airport = %+v", got)
	}

	rec, env = doRequest(t, router, http.MethodGet, "/api/airports/ZZZZ", "")
	expectError(t, rec, env, http.StatusNotFound, ErrCodeNotFound)

	rec, env = doRequest(t, router, http.MethodPost, "/api/airports", `{"icao":"EG","name":"x","city":"y","country":"z"}`)
	expectError(t, rec, env, http.StatusBadRequest, ErrCodeValidation)
}
