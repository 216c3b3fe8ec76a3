// Groundcrew - Flight Ground Operations Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/groundcrew

package store

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/groundcrew/internal/logging"
	"github.com/tomtom215/groundcrew/internal/models"
)

// seededKey marks a backend that already holds the default data, so a
// durable backend is not re-seeded on every start.
const seededKey = "meta:seeded"

// DefaultAircraftType is the airframe the default checklist applies to.
const DefaultAircraftType = "Boeing 737-800"

var defaultAirports = []models.AirportInput{
	{ICAO: "KLAX", IATA: "LAX", Name: "Los Angeles International", City: "Los Angeles", Country: "USA"},
	{ICAO: "KJFK", IATA: "JFK", Name: "John F. Kennedy International", City: "New York", Country: "USA"},
	{ICAO: "KORD", IATA: "ORD", Name: "Chicago O'Hare International", City: "Chicago", Country: "USA"},
	{ICAO: "KSEA", IATA: "SEA", Name: "Seattle-Tacoma International", City: "Seattle", Country: "USA"},
	{ICAO: "KDEN", IATA: "DEN", Name: "Denver International", City: "Denver", Country: "USA"},
}

func boeing737Configuration() map[string]interface{} {
	return map[string]interface{}{
		"seatingLayout": map[string]interface{}{
			"firstClass": map[string]interface{}{"rows": 2, "seatsPerRow": 4, "seatMap": "2-2"},
			"economy":    map[string]interface{}{"rows": 30, "seatsPerRow": 6, "seatMap": "3-3"},
		},
		"servicePoints": []interface{}{
			map[string]interface{}{"type": "door", "position": "forward", "status": "closed"},
			map[string]interface{}{"type": "fuel", "position": "wing", "status": "disconnected"},
			map[string]interface{}{"type": "catering", "position": "forward", "status": "disconnected"},
			map[string]interface{}{"type": "baggage", "position": "aft", "status": "disconnected"},
		},
	}
}

// Seed loads the default PTFS airports, aircraft, flight and checklist.
// It is a no-op on a backend that was seeded before.
func (s *Store) Seed(ctx context.Context) error {
	if _, err := s.backend.Get(ctx, seededKey); err == nil {
		logging.Debug().Str("backend", s.backend.Name()).Msg("Store already seeded")
		return nil
	} else if !isNotFound(err) {
		return err
	}

	for _, in := range defaultAirports {
		if _, err := s.CreateAirport(ctx, in); err != nil {
			return fmt.Errorf("airport %s: %w", in.ICAO, err)
		}
	}

	aircraft, err := s.CreateAircraft(ctx, models.AircraftInput{
		Registration:   "N737PT",
		Type:           DefaultAircraftType,
		Status:         models.AircraftActive,
		CurrentAirport: "KLAX",
		Configuration:  boeing737Configuration(),
	})
	if err != nil {
		return fmt.Errorf("aircraft: %w", err)
	}

	departure := s.now().Add(2 * time.Hour)
	if _, err := s.CreateFlight(ctx, models.FlightInput{
		FlightNumber:       "PTFS001",
		AircraftID:         aircraft.ID,
		DepartureAirport:   "KLAX",
		ArrivalAirport:     "KJFK",
		Status:             models.FlightPlanning,
		ScheduledDeparture: &departure,
		PassengerCount:     162,
		FuelData: map[string]interface{}{
			"leftWing":  5746,
			"center":    8540,
			"rightWing": 5746,
			"total":     20032,
		},
	}); err != nil {
		return fmt.Errorf("flight: %w", err)
	}

	if _, err := s.CreateChecklist(ctx, models.ChecklistInput{
		Name:     "Cockpit Preparation",
		Category: "cockpit_prep",
		Items: []models.ChecklistItem{
			{ID: "1", Text: "Battery Switch - ON", Completed: true},
			{ID: "2", Text: "APU Start"},
			{ID: "3", Text: "Hydraulic Pumps - ON"},
			{ID: "4", Text: "Fuel Pumps - ON"},
		},
		AircraftType: DefaultAircraftType,
		Version:      "1.0",
	}); err != nil {
		return fmt.Errorf("checklist: %w", err)
	}

	if err := s.backend.Put(ctx, seededKey, []byte(s.now().Format(time.RFC3339))); err != nil {
		return err
	}
	logging.Info().Int("airports", len(defaultAirports)).Msg("Store seeded with default data")
	return nil
}
