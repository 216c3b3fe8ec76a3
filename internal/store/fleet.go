// Groundcrew - Flight Ground Operations Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/groundcrew

package store

import (
	"context"
	"sort"
	"time"

	"github.com/tomtom215/groundcrew/internal/models"
)

// GetAircraft returns one aircraft by ID.
func (s *Store) GetAircraft(ctx context.Context, id string) (_ *models.Aircraft, err error) {
	defer func(start time.Time) { observe("get", "aircraft", start, err) }(time.Now())
	return getJSON[models.Aircraft](ctx, s.backend, aircraftPrefix+id)
}

// ListAircraft returns every aircraft, oldest first.
func (s *Store) ListAircraft(ctx context.Context) (_ []models.Aircraft, err error) {
	defer func(start time.Time) { observe("list", "aircraft", start, err) }(time.Now())
	list, err := scanJSON[models.Aircraft](ctx, s.backend, aircraftPrefix, nil)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })
	return list, nil
}

// CreateAircraft stores a new aircraft with a server-assigned ID.
func (s *Store) CreateAircraft(ctx context.Context, in models.AircraftInput) (_ *models.Aircraft, err error) {
	defer func(start time.Time) { observe("create", "aircraft", start, err) }(time.Now())

	a := &models.Aircraft{
		ID:             s.newID(),
		Registration:   in.Registration,
		Type:           in.Type,
		Status:         in.Status,
		CurrentAirport: in.CurrentAirport,
		Configuration:  in.Configuration,
		CreatedAt:      s.now(),
	}
	if a.Status == "" {
		a.Status = models.AircraftActive
	}
	if err := putJSON(ctx, s.backend, aircraftPrefix+a.ID, a); err != nil {
		return nil, err
	}
	return a, nil
}

// UpdateAircraft applies a partial update.
func (s *Store) UpdateAircraft(ctx context.Context, id string, p models.AircraftPatch) (_ *models.Aircraft, err error) {
	defer func(start time.Time) { observe("update", "aircraft", start, err) }(time.Now())
	return updateJSON(ctx, s.backend, aircraftPrefix+id, func(a *models.Aircraft) {
		setIf(&a.Registration, p.Registration)
		setIf(&a.Type, p.Type)
		setIf(&a.Status, p.Status)
		setIf(&a.CurrentAirport, p.CurrentAirport)
		if p.Configuration != nil {
			a.Configuration = p.Configuration
		}
	})
}

// GetFlight returns one flight by ID.
func (s *Store) GetFlight(ctx context.Context, id string) (_ *models.Flight, err error) {
	defer func(start time.Time) { observe("get", "flight", start, err) }(time.Now())
	return getJSON[models.Flight](ctx, s.backend, flightPrefix+id)
}

// ListFlights returns every flight, oldest first.
func (s *Store) ListFlights(ctx context.Context) (_ []models.Flight, err error) {
	defer func(start time.Time) { observe("list", "flight", start, err) }(time.Now())
	return s.listFlights(ctx, nil)
}

// ListFlightsByAircraft returns the flights flown by one aircraft.
func (s *Store) ListFlightsByAircraft(ctx context.Context, aircraftID string) (_ []models.Flight, err error) {
	defer func(start time.Time) { observe("list", "flight", start, err) }(time.Now())
	return s.listFlights(ctx, func(f *models.Flight) bool { return f.AircraftID == aircraftID })
}

func (s *Store) listFlights(ctx context.Context, keep func(*models.Flight) bool) ([]models.Flight, error) {
	list, err := scanJSON(ctx, s.backend, flightPrefix, keep)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })
	return list, nil
}

// CreateFlight stores a new flight with a server-assigned ID.
func (s *Store) CreateFlight(ctx context.Context, in models.FlightInput) (_ *models.Flight, err error) {
	defer func(start time.Time) { observe("create", "flight", start, err) }(time.Now())

	f := &models.Flight{
		ID:                 s.newID(),
		FlightNumber:       in.FlightNumber,
		AircraftID:         in.AircraftID,
		DepartureAirport:   in.DepartureAirport,
		ArrivalAirport:     in.ArrivalAirport,
		Status:             in.Status,
		ScheduledDeparture: in.ScheduledDeparture,
		ActualDeparture:    in.ActualDeparture,
		PassengerCount:     in.PassengerCount,
		FuelData:           in.FuelData,
		CreatedAt:          s.now(),
	}
	if f.Status == "" {
		f.Status = models.FlightPlanning
	}
	if err := putJSON(ctx, s.backend, flightPrefix+f.ID, f); err != nil {
		return nil, err
	}
	return f, nil
}

// UpdateFlight applies a partial update.
func (s *Store) UpdateFlight(ctx context.Context, id string, p models.FlightPatch) (_ *models.Flight, err error) {
	defer func(start time.Time) { observe("update", "flight", start, err) }(time.Now())
	return updateJSON(ctx, s.backend, flightPrefix+id, func(f *models.Flight) {
		setIf(&f.FlightNumber, p.FlightNumber)
		setIf(&f.AircraftID, p.AircraftID)
		setIf(&f.DepartureAirport, p.DepartureAirport)
		setIf(&f.ArrivalAirport, p.ArrivalAirport)
		setIf(&f.Status, p.Status)
		setIf(&f.PassengerCount, p.PassengerCount)
		if p.ScheduledDeparture != nil {
			f.ScheduledDeparture = p.ScheduledDeparture
		}
		if p.ActualDeparture != nil {
			f.ActualDeparture = p.ActualDeparture
		}
		if p.FuelData != nil {
			f.FuelData = p.FuelData
		}
	})
}

// GetAirport returns one airport by ICAO code.
func (s *Store) GetAirport(ctx context.Context, icao string) (_ *models.Airport, err error) {
	defer func(start time.Time) { observe("get", "airport", start, err) }(time.Now())
	return getJSON[models.Airport](ctx, s.backend, airportPrefix+icao)
}

// ListAirports returns every airport ordered by ICAO code.
func (s *Store) ListAirports(ctx context.Context) (_ []models.Airport, err error) {
	defer func(start time.Time) { observe("list", "airport", start, err) }(time.Now())
	return scanJSON[models.Airport](ctx, s.backend, airportPrefix, nil)
}

// ListPTFSAirports returns the airports available in PTFS.
func (s *Store) ListPTFSAirports(ctx context.Context) (_ []models.Airport, err error) {
	defer func(start time.Time) { observe("list", "airport", start, err) }(time.Now())
	return scanJSON(ctx, s.backend, airportPrefix, func(a *models.Airport) bool { return a.IsPTFSSupported })
}

// CreateAirport stores an airport under its ICAO code, replacing any
// previous entry with the same code.
func (s *Store) CreateAirport(ctx context.Context, in models.AirportInput) (_ *models.Airport, err error) {
	defer func(start time.Time) { observe("create", "airport", start, err) }(time.Now())

	a := &models.Airport{
		ICAO:            in.ICAO,
		IATA:            in.IATA,
		Name:            in.Name,
		City:            in.City,
		Country:         in.Country,
		IsPTFSSupported: true,
	}
	if in.IsPTFSSupported != nil {
		a.IsPTFSSupported = *in.IsPTFSSupported
	}
	if err := putJSON(ctx, s.backend, airportPrefix+a.ICAO, a); err != nil {
		return nil, err
	}
	return a, nil
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
