// Groundcrew - Flight Ground Operations Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/groundcrew

package store

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/tomtom215/groundcrew/internal/config"
	"github.com/tomtom215/groundcrew/internal/models"
)

// fakeClock advances by one second on every call so timestamps are
// strictly increasing and deterministic.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time {
	c.t = c.t.Add(time.Second)
	return c.t
}

func newTestStore(t *testing.T) (*Store, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Date(2026, 1, 12, 12, 0, 0, 0, time.UTC)}
	seq := 0
	s := New(NewMemoryBackend(),
		WithClock(clock.Now),
		WithIDGenerator(func() string {
			seq++
			return fmt.Sprintf("id-%03d", seq)
		}),
	)
	t.Cleanup(func() { _ = s.Close() })
	return s, clock
}

func strPtr(s string) *string { return &s }

func TestStore_AircraftLifecycle(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	a, err := s.CreateAircraft(ctx, models.AircraftInput{
		Registration:   "N800GC",
		Type:           "Airbus A320",
		CurrentAirport: "KSEA",
		Configuration:  map[string]interface{}{"seats": 150},
	})
	if err != nil {
		t.Fatalf("CreateAircraft() error = %v", err)
	}
	if a.Status != models.AircraftActive {
		t.Errorf("default status = %q, want active", a.Status)
	}

	updated, err := s.UpdateAircraft(ctx, a.ID, models.AircraftPatch{Status: strPtr(models.AircraftMaintenance)})
	if err != nil {
		t.Fatalf("UpdateAircraft() error = %v", err)
	}
	if updated.Status != models.AircraftMaintenance || updated.Registration != "N800GC" {
		t.Errorf("UpdateAircraft() = %+v", updated)
	}

	if _, err := s.UpdateAircraft(ctx, "nope", models.AircraftPatch{}); !IsNotFound(err) {
		t.Errorf("UpdateAircraft() missing error = %v, want not found", err)
	}

	list, err := s.ListAircraft(ctx)
	if err != nil || len(list) != 1 {
		t.Fatalf("ListAircraft() = %v, %v", list, err)
	}
}

func TestStore_FlightsByAircraft(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	for i, acft := range []string{"A", "B", "A"} {
		_, err := s.CreateFlight(ctx, models.FlightInput{
			FlightNumber:     fmt.Sprintf("PTFS%03d", i+1),
			AircraftID:       acft,
			DepartureAirport: "KLAX",
			ArrivalAirport:   "KJFK",
		})
		if err != nil {
			t.Fatalf("CreateFlight() error = %v", err)
		}
	}

	got, err := s.ListFlightsByAircraft(ctx, "A")
	if err != nil {
		t.Fatalf("ListFlightsByAircraft() error = %v", err)
	}
	if len(got) != 2 || got[0].FlightNumber != "PTFS001" || got[1].FlightNumber != "PTFS003" {
		t.Errorf("ListFlightsByAircraft() = %+v", got)
	}
	if got[0].Status != models.FlightPlanning {
		t.Errorf("default flight status = %q", got[0].Status)
	}

	f, err := s.UpdateFlight(ctx, got[0].ID, models.FlightPatch{Status: strPtr(models.FlightBoarding)})
	if err != nil || f.Status != models.FlightBoarding || f.AircraftID != "A" {
		t.Errorf("UpdateFlight() = %+v, %v", f, err)
	}
}

func TestStore_UpdateServiceRequest_StampsCompletion(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	r, err := s.CreateServiceRequest(ctx, models.ServiceRequestInput{
		FlightID:    "F1",
		ServiceType: "fuel",
		RequestedBy: "pilot",
	})
	if err != nil {
		t.Fatalf("CreateServiceRequest() error = %v", err)
	}
	if r.Status != models.ServicePending || r.Priority != models.PriorityNormal || r.CompletedAt != nil {
		t.Errorf("defaults = %+v", r)
	}

	inProgress, err := s.UpdateServiceRequest(ctx, r.ID, models.ServiceRequestPatch{Status: strPtr(models.ServiceInProgress)})
	if err != nil {
		t.Fatalf("UpdateServiceRequest() error = %v", err)
	}
	if inProgress.CompletedAt != nil {
		t.Error("completedAt set before completion")
	}

	done, err := s.UpdateServiceRequest(ctx, r.ID, models.ServiceRequestPatch{Status: strPtr(models.ServiceCompleted)})
	if err != nil {
		t.Fatalf("UpdateServiceRequest() error = %v", err)
	}
	if done.CompletedAt == nil || !done.CompletedAt.After(done.CreatedAt) {
		t.Errorf("completedAt = %v, createdAt = %v", done.CompletedAt, done.CreatedAt)
	}

	stored, _ := s.GetServiceRequest(ctx, r.ID)
	if stored.Status != models.ServiceCompleted || stored.CompletedAt == nil {
		t.Errorf("stored = %+v", stored)
	}

	if _, err := s.UpdateServiceRequest(ctx, "missing", models.ServiceRequestPatch{Status: strPtr("completed")}); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing request error = %v, want ErrNotFound", err)
	}

	byFlight, _ := s.ListServiceRequestsByFlight(ctx, "F1")
	other, _ := s.ListServiceRequestsByFlight(ctx, "F2")
	if len(byFlight) != 1 || len(other) != 0 {
		t.Errorf("ListServiceRequestsByFlight() = %d, %d", len(byFlight), len(other))
	}
}

func TestStore_CommunicationsSortedByTimestamp(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	for _, msg := range []string{"first", "second", "third"} {
		c, err := s.CreateCommunication(ctx, models.CommunicationInput{
			FlightID:   "F1",
			Sender:     "Ramp 1",
			SenderRole: "ground_crew",
			Message:    msg,
		})
		if err != nil {
			t.Fatalf("CreateCommunication() error = %v", err)
		}
		if c.ReadBy == nil || len(c.ReadBy) != 0 {
			t.Errorf("readBy = %v, want empty non-nil", c.ReadBy)
		}
	}
	_, _ = s.CreateCommunication(ctx, models.CommunicationInput{FlightID: "F2", Sender: "x", SenderRole: "atc", Message: "other"})

	got, err := s.ListCommunicationsByFlight(ctx, "F1")
	if err != nil {
		t.Fatalf("ListCommunicationsByFlight() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	for i, want := range []string{"first", "second", "third"} {
		if got[i].Message != want {
			t.Errorf("message[%d] = %q, want %q", i, got[i].Message, want)
		}
	}
}

func TestStore_ChecklistProgressUpsert(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	first, err := s.UpsertChecklistProgress(ctx, models.ChecklistProgressInput{FlightID: "F1", ChecklistID: "C1"})
	if err != nil {
		t.Fatalf("UpsertChecklistProgress() error = %v", err)
	}
	if first.Status != models.ProgressPending || first.CompletedItems == nil {
		t.Errorf("first = %+v", first)
	}

	second, err := s.UpsertChecklistProgress(ctx, models.ChecklistProgressInput{
		FlightID:       "F1",
		ChecklistID:    "C1",
		CompletedItems: []string{"1", "2"},
		Status:         models.ProgressInProgress,
	})
	if err != nil {
		t.Fatalf("UpsertChecklistProgress() error = %v", err)
	}
	if second.ID != first.ID || !second.CreatedAt.Equal(first.CreatedAt) {
		t.Errorf("upsert replaced identity: %+v vs %+v", second, first)
	}
	if !second.UpdatedAt.After(first.UpdatedAt) || len(second.CompletedItems) != 2 {
		t.Errorf("second = %+v", second)
	}

	list, _ := s.ListChecklistProgressByFlight(ctx, "F1")
	if len(list) != 1 {
		t.Errorf("progress records = %d, want 1", len(list))
	}
	if _, err := s.GetChecklistProgress(ctx, "F1", "C9"); !IsNotFound(err) {
		t.Errorf("GetChecklistProgress() missing error = %v", err)
	}
}

func TestStore_SeatingUpsertAndStatus(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	seat, err := s.UpsertSeating(ctx, models.SeatingInput{
		FlightID:      "F1",
		SeatNumber:    "1A",
		Status:        models.SeatOccupied,
		PassengerName: strPtr("J. Doe"),
		SeatClass:     "first",
	})
	if err != nil {
		t.Fatalf("UpsertSeating() error = %v", err)
	}

	again, err := s.UpsertSeating(ctx, models.SeatingInput{FlightID: "F1", SeatNumber: "1A", SeatClass: "first"})
	if err != nil {
		t.Fatalf("UpsertSeating() error = %v", err)
	}
	if again.ID != seat.ID || again.Status != models.SeatAvailable {
		t.Errorf("upsert = %+v", again)
	}

	_, _ = s.UpsertSeating(ctx, models.SeatingInput{FlightID: "F1", SeatNumber: "2B", SeatClass: "economy", PassengerName: strPtr("A. Smith")})
	blocked, err := s.UpdateSeatStatus(ctx, "F1", "2B", models.SeatStatusUpdate{Status: models.SeatBlocked})
	if err != nil {
		t.Fatalf("UpdateSeatStatus() error = %v", err)
	}
	if blocked.PassengerName == nil || *blocked.PassengerName != "A. Smith" {
		t.Errorf("passenger name not kept: %+v", blocked)
	}

	if _, err := s.UpdateSeatStatus(ctx, "F1", "99Z", models.SeatStatusUpdate{Status: models.SeatBlocked}); !IsNotFound(err) {
		t.Errorf("UpdateSeatStatus() missing error = %v", err)
	}

	seats, _ := s.ListSeatingByFlight(ctx, "F1")
	if len(seats) != 2 {
		t.Errorf("seats = %d, want 2", len(seats))
	}
}

func TestStore_FlightScopedListingsIgnoreColonIDs(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	for _, flightID := range []string{"F1", "F1:other"} {
		if _, err := s.CreateCommunication(ctx, models.CommunicationInput{
			FlightID: flightID, Sender: "Ramp 1", SenderRole: "ground_crew", Message: "msg " + flightID,
		}); err != nil {
			t.Fatalf("CreateCommunication(%q) error = %v", flightID, err)
		}
		if _, err := s.UpsertSeating(ctx, models.SeatingInput{
			FlightID: flightID, SeatNumber: "1A", SeatClass: "first",
		}); err != nil {
			t.Fatalf("UpsertSeating(%q) error = %v", flightID, err)
		}
		if _, err := s.UpsertChecklistProgress(ctx, models.ChecklistProgressInput{
			FlightID: flightID, ChecklistID: "C1",
		}); err != nil {
			t.Fatalf("UpsertChecklistProgress(%q) error = %v", flightID, err)
		}
	}

	tests := []struct {
		name string
		list func(flightID string) ([]string, error)
	}{
		{"communications", func(flightID string) ([]string, error) {
			got, err := s.ListCommunicationsByFlight(ctx, flightID)
			out := make([]string, 0, len(got))
			for _, c := range got {
				out = append(out, c.FlightID)
			}
			return out, err
		}},
		{"seating", func(flightID string) ([]string, error) {
			got, err := s.ListSeatingByFlight(ctx, flightID)
			out := make([]string, 0, len(got))
			for _, seat := range got {
				out = append(out, seat.FlightID)
			}
			return out, err
		}},
		{"checklist progress", func(flightID string) ([]string, error) {
			got, err := s.ListChecklistProgressByFlight(ctx, flightID)
			out := make([]string, 0, len(got))
			for _, p := range got {
				out = append(out, p.FlightID)
			}
			return out, err
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, flightID := range []string{"F1", "F1:other"} {
				got, err := tt.list(flightID)
				if err != nil {
					t.Fatalf("list(%q) error = %v", flightID, err)
				}
				if len(got) != 1 || got[0] != flightID {
					t.Errorf("list(%q) flights = %v, want [%s]", flightID, got, flightID)
				}
			}
		})
	}
}

func TestStore_ChecklistProgressKeysDoNotCollide(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	a, err := s.UpsertChecklistProgress(ctx, models.ChecklistProgressInput{FlightID: "F1:C1", ChecklistID: "X"})
	if err != nil {
		t.Fatalf("UpsertChecklistProgress() error = %v", err)
	}
	b, err := s.UpsertChecklistProgress(ctx, models.ChecklistProgressInput{FlightID: "F1", ChecklistID: "C1:X"})
	if err != nil {
		t.Fatalf("UpsertChecklistProgress() error = %v", err)
	}
	if a.ID == b.ID {
		t.Fatalf("distinct flight/checklist pairs share record %s", a.ID)
	}

	got, err := s.GetChecklistProgress(ctx, "F1:C1", "X")
	if err != nil {
		t.Fatalf("GetChecklistProgress() error = %v", err)
	}
	if got.FlightID != "F1:C1" || got.ChecklistID != "X" {
		t.Errorf("GetChecklistProgress() = %s/%s, want F1:C1/X", got.FlightID, got.ChecklistID)
	}
}

func TestStore_Airports(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	no := false
	_, _ = s.CreateAirport(ctx, models.AirportInput{ICAO: "EGLL", IATA: "LHR", Name: "Heathrow", City: "London", Country: "UK", IsPTFSSupported: &no})
	_, _ = s.CreateAirport(ctx, models.AirportInput{ICAO: "KLAX", Name: "Los Angeles International", City: "Los Angeles", Country: "USA"})

	all, _ := s.ListAirports(ctx)
	ptfs, _ := s.ListPTFSAirports(ctx)
	if len(all) != 2 || len(ptfs) != 1 || ptfs[0].ICAO != "KLAX" {
		t.Errorf("all = %+v, ptfs = %+v", all, ptfs)
	}

	// Same ICAO replaces the entry.
	_, _ = s.CreateAirport(ctx, models.AirportInput{ICAO: "KLAX", Name: "LAX", City: "Los Angeles", Country: "USA"})
	a, err := s.GetAirport(ctx, "KLAX")
	if err != nil || a.Name != "LAX" {
		t.Errorf("GetAirport() = %+v, %v", a, err)
	}
}

func TestStore_Checklists(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	c, err := s.CreateChecklist(ctx, models.ChecklistInput{
		Name:         "Before Start",
		Category:     "before_start",
		Items:        []models.ChecklistItem{{ID: "1", Text: "Doors - CLOSED"}},
		AircraftType: "Airbus A320",
	})
	if err != nil {
		t.Fatalf("CreateChecklist() error = %v", err)
	}
	if c.Version != "1.0" {
		t.Errorf("default version = %q", c.Version)
	}

	got, _ := s.ListChecklistsByAircraftType(ctx, "Airbus A320")
	none, _ := s.ListChecklistsByAircraftType(ctx, DefaultAircraftType)
	if len(got) != 1 || len(none) != 0 {
		t.Errorf("by type = %d, %d", len(got), len(none))
	}
}

func TestStore_Seed(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	if err := s.Seed(ctx); err != nil {
		t.Fatalf("Seed() error = %v", err)
	}
	// Second call is a no-op.
	if err := s.Seed(ctx); err != nil {
		t.Fatalf("Seed() second call error = %v", err)
	}

	airports, _ := s.ListPTFSAirports(ctx)
	if len(airports) != 5 {
		t.Errorf("airports = %d, want 5", len(airports))
	}

	aircraft, _ := s.ListAircraft(ctx)
	if len(aircraft) != 1 || aircraft[0].Registration != "N737PT" {
		t.Fatalf("aircraft = %+v", aircraft)
	}

	flights, _ := s.ListFlightsByAircraft(ctx, aircraft[0].ID)
	if len(flights) != 1 {
		t.Fatalf("flights = %+v", flights)
	}
	f := flights[0]
	if f.FlightNumber != "PTFS001" || f.PassengerCount != 162 || f.DepartureAirport != "KLAX" || f.ArrivalAirport != "KJFK" {
		t.Errorf("flight = %+v", f)
	}
	if f.ScheduledDeparture == nil || !f.ScheduledDeparture.After(f.CreatedAt) {
		t.Errorf("scheduledDeparture = %v", f.ScheduledDeparture)
	}
	if total, ok := f.FuelData["total"].(float64); !ok || total != 20032 {
		t.Errorf("fuel total = %v", f.FuelData["total"])
	}

	checklists, _ := s.ListChecklistsByAircraftType(ctx, DefaultAircraftType)
	if len(checklists) != 1 || len(checklists[0].Items) != 4 || !checklists[0].Items[0].Completed {
		t.Errorf("checklists = %+v", checklists)
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, config.StoreConfig{Backend: BackendMemory, Seed: true})
	if err != nil {
		t.Fatalf("Open(memory) error = %v", err)
	}
	if s.BackendName() != BackendMemory {
		t.Errorf("BackendName() = %q", s.BackendName())
	}
	_ = s.Close()

	dir := t.TempDir()
	s, err = Open(ctx, config.StoreConfig{Backend: BackendBadger, Path: dir, Seed: true})
	if err != nil {
		t.Fatalf("Open(badger) error = %v", err)
	}
	_ = s.Close()

	// Reopening a seeded durable store must not duplicate the default data.
	s, err = Open(ctx, config.StoreConfig{Backend: BackendBadger, Path: dir, Seed: true})
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer s.Close()
	aircraft, _ := s.ListAircraft(ctx)
	if len(aircraft) != 1 {
		t.Errorf("aircraft after reopen = %d, want 1", len(aircraft))
	}

	if _, err := Open(ctx, config.StoreConfig{Backend: "postgres"}); err == nil {
		t.Error("Open() unknown backend should fail")
	}
}

func TestIsExpected(t *testing.T) {
	if !IsExpected(nil) || !IsExpected(fmt.Errorf("wrap: %w", ErrNotFound)) {
		t.Error("nil and not-found must be expected")
	}
	if IsExpected(ErrClosed) {
		t.Error("closed backend is a fault")
	}
}
