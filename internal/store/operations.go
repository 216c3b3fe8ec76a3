// Groundcrew - Flight Ground Operations Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/groundcrew

package store

import (
	"context"
	"net/url"
	"sort"
	"time"

	"github.com/tomtom215/groundcrew/internal/models"
)

// Service requests

func (s *Store) GetServiceRequest(ctx context.Context, id string) (_ *models.ServiceRequest, err error) {
	defer func(start time.Time) { observe("get", "service_request", start, err) }(time.Now())
	return getJSON[models.ServiceRequest](ctx, s.backend, servicePrefix+id)
}

func (s *Store) ListServiceRequests(ctx context.Context) (_ []models.ServiceRequest, err error) {
	defer func(start time.Time) { observe("list", "service_request", start, err) }(time.Now())
	return s.listServiceRequests(ctx, nil)
}

func (s *Store) ListServiceRequestsByFlight(ctx context.Context, flightID string) (_ []models.ServiceRequest, err error) {
	defer func(start time.Time) { observe("list", "service_request", start, err) }(time.Now())
	return s.listServiceRequests(ctx, func(r *models.ServiceRequest) bool { return r.FlightID == flightID })
}

func (s *Store) listServiceRequests(ctx context.Context, keep func(*models.ServiceRequest) bool) ([]models.ServiceRequest, error) {
	list, err := scanJSON(ctx, s.backend, servicePrefix, keep)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })
	return list, nil
}

func (s *Store) CreateServiceRequest(ctx context.Context, in models.ServiceRequestInput) (_ *models.ServiceRequest, err error) {
	defer func(start time.Time) { observe("create", "service_request", start, err) }(time.Now())

	now := s.now()
	r := &models.ServiceRequest{
		ID:          s.newID(),
		FlightID:    in.FlightID,
		ServiceType: in.ServiceType,
		Status:      in.Status,
		Priority:    in.Priority,
		RequestedBy: in.RequestedBy,
		AssignedTo:  in.AssignedTo,
		Notes:       in.Notes,
		CreatedAt:   now,
	}
	if r.Status == "" {
		r.Status = models.ServicePending
	}
	if r.Priority == "" {
		r.Priority = models.PriorityNormal
	}
	if r.Status == models.ServiceCompleted {
		r.CompletedAt = &now
	}
	if err := putJSON(ctx, s.backend, servicePrefix+r.ID, r); err != nil {
		return nil, err
	}
	return r, nil
}

// UpdateServiceRequest applies a partial update. completedAt is stamped when
// the status moves to completed.
func (s *Store) UpdateServiceRequest(ctx context.Context, id string, p models.ServiceRequestPatch) (_ *models.ServiceRequest, err error) {
	defer func(start time.Time) { observe("update", "service_request", start, err) }(time.Now())
	return updateJSON(ctx, s.backend, servicePrefix+id, func(r *models.ServiceRequest) {
		setIf(&r.ServiceType, p.ServiceType)
		setIf(&r.Priority, p.Priority)
		setIf(&r.RequestedBy, p.RequestedBy)
		if p.AssignedTo != nil {
			r.AssignedTo = p.AssignedTo
		}
		if p.Notes != nil {
			r.Notes = p.Notes
		}
		if p.Status != nil {
			r.Status = *p.Status
			if r.Status == models.ServiceCompleted {
				now := s.now()
				r.CompletedAt = &now
			}
		}
	})
}

// Checklists

func (s *Store) GetChecklist(ctx context.Context, id string) (_ *models.Checklist, err error) {
	defer func(start time.Time) { observe("get", "checklist", start, err) }(time.Now())
	return getJSON[models.Checklist](ctx, s.backend, checklistPrefix+id)
}

func (s *Store) ListChecklists(ctx context.Context) (_ []models.Checklist, err error) {
	defer func(start time.Time) { observe("list", "checklist", start, err) }(time.Now())
	return scanJSON[models.Checklist](ctx, s.backend, checklistPrefix, nil)
}

func (s *Store) ListChecklistsByAircraftType(ctx context.Context, aircraftType string) (_ []models.Checklist, err error) {
	defer func(start time.Time) { observe("list", "checklist", start, err) }(time.Now())
	return scanJSON(ctx, s.backend, checklistPrefix, func(c *models.Checklist) bool { return c.AircraftType == aircraftType })
}

func (s *Store) CreateChecklist(ctx context.Context, in models.ChecklistInput) (_ *models.Checklist, err error) {
	defer func(start time.Time) { observe("create", "checklist", start, err) }(time.Now())

	c := &models.Checklist{
		ID:           s.newID(),
		Name:         in.Name,
		Category:     in.Category,
		Items:        in.Items,
		AircraftType: in.AircraftType,
		Version:      in.Version,
	}
	if c.Version == "" {
		c.Version = "1.0"
	}
	if err := putJSON(ctx, s.backend, checklistPrefix+c.ID, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Flight-scoped keys are prefix + flight + ":" + part. Each component is
// query-escaped so a ':' inside an id can neither widen a flight's prefix
// scan nor collide with another flight's key.

func keyPart(id string) string {
	return url.QueryEscape(id)
}

func flightScope(prefix, flightID string) string {
	return prefix + keyPart(flightID) + ":"
}

// Checklist progress is keyed by flight and checklist.

func progressKey(flightID, checklistID string) string {
	return flightScope(progressPrefix, flightID) + keyPart(checklistID)
}

func (s *Store) GetChecklistProgress(ctx context.Context, flightID, checklistID string) (_ *models.ChecklistProgress, err error) {
	defer func(start time.Time) { observe("get", "checklist_progress", start, err) }(time.Now())
	return getJSON[models.ChecklistProgress](ctx, s.backend, progressKey(flightID, checklistID))
}

func (s *Store) ListChecklistProgressByFlight(ctx context.Context, flightID string) (_ []models.ChecklistProgress, err error) {
	defer func(start time.Time) { observe("list", "checklist_progress", start, err) }(time.Now())
	return scanJSON(ctx, s.backend, flightScope(progressPrefix, flightID), func(p *models.ChecklistProgress) bool {
		return p.FlightID == flightID
	})
}

// UpsertChecklistProgress creates or replaces the progress record for one
// flight and checklist. The original ID and createdAt survive replacement.
func (s *Store) UpsertChecklistProgress(ctx context.Context, in models.ChecklistProgressInput) (_ *models.ChecklistProgress, err error) {
	defer func(start time.Time) { observe("upsert", "checklist_progress", start, err) }(time.Now())

	key := progressKey(in.FlightID, in.ChecklistID)
	now := s.now()
	items := in.CompletedItems
	if items == nil {
		items = []string{}
	}
	status := in.Status
	if status == "" {
		status = models.ProgressPending
	}

	updated, err := updateJSON(ctx, s.backend, key, func(p *models.ChecklistProgress) {
		p.CompletedItems = items
		p.Status = status
		p.UpdatedAt = now
	})
	if err == nil {
		return updated, nil
	}
	if !isNotFound(err) {
		return nil, err
	}

	p := &models.ChecklistProgress{
		ID:             s.newID(),
		FlightID:       in.FlightID,
		ChecklistID:    in.ChecklistID,
		CompletedItems: items,
		Status:         status,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := putJSON(ctx, s.backend, key, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Communications are stored under their flight.

func (s *Store) ListCommunicationsByFlight(ctx context.Context, flightID string) (_ []models.Communication, err error) {
	defer func(start time.Time) { observe("list", "communication", start, err) }(time.Now())
	list, err := scanJSON(ctx, s.backend, flightScope(commPrefix, flightID), func(c *models.Communication) bool {
		return c.FlightID == flightID
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].Timestamp.Before(list[j].Timestamp) })
	return list, nil
}

// CreateCommunication stores a message with a server-assigned ID and
// timestamp and an empty read list.
func (s *Store) CreateCommunication(ctx context.Context, in models.CommunicationInput) (_ *models.Communication, err error) {
	defer func(start time.Time) { observe("create", "communication", start, err) }(time.Now())

	c := &models.Communication{
		ID:         s.newID(),
		FlightID:   in.FlightID,
		Sender:     in.Sender,
		SenderRole: in.SenderRole,
		Message:    in.Message,
		Timestamp:  s.now(),
		ReadBy:     []string{},
	}
	if err := putJSON(ctx, s.backend, flightScope(commPrefix, c.FlightID)+keyPart(c.ID), c); err != nil {
		return nil, err
	}
	return c, nil
}

// Seating is keyed by flight and seat number.

func seatKey(flightID, seatNumber string) string {
	return flightScope(seatPrefix, flightID) + keyPart(seatNumber)
}

func (s *Store) ListSeatingByFlight(ctx context.Context, flightID string) (_ []models.SeatingData, err error) {
	defer func(start time.Time) { observe("list", "seating", start, err) }(time.Now())
	return scanJSON(ctx, s.backend, flightScope(seatPrefix, flightID), func(seat *models.SeatingData) bool {
		return seat.FlightID == flightID
	})
}

// UpsertSeating creates or replaces one seat. The original ID survives
// replacement.
func (s *Store) UpsertSeating(ctx context.Context, in models.SeatingInput) (_ *models.SeatingData, err error) {
	defer func(start time.Time) { observe("upsert", "seating", start, err) }(time.Now())

	key := seatKey(in.FlightID, in.SeatNumber)
	now := s.now()
	status := in.Status
	if status == "" {
		status = models.SeatAvailable
	}

	updated, err := updateJSON(ctx, s.backend, key, func(seat *models.SeatingData) {
		seat.Status = status
		seat.PassengerName = in.PassengerName
		seat.SeatClass = in.SeatClass
		seat.UpdatedAt = now
	})
	if err == nil {
		return updated, nil
	}
	if !isNotFound(err) {
		return nil, err
	}

	seat := &models.SeatingData{
		ID:            s.newID(),
		FlightID:      in.FlightID,
		SeatNumber:    in.SeatNumber,
		Status:        status,
		PassengerName: in.PassengerName,
		SeatClass:     in.SeatClass,
		UpdatedAt:     now,
	}
	if err := putJSON(ctx, s.backend, key, seat); err != nil {
		return nil, err
	}
	return seat, nil
}

// UpdateSeatStatus changes a seat's status. The passenger name is kept
// unless a new one is supplied.
func (s *Store) UpdateSeatStatus(ctx context.Context, flightID, seatNumber string, u models.SeatStatusUpdate) (_ *models.SeatingData, err error) {
	defer func(start time.Time) { observe("update", "seating", start, err) }(time.Now())
	return updateJSON(ctx, s.backend, seatKey(flightID, seatNumber), func(seat *models.SeatingData) {
		seat.Status = u.Status
		if u.PassengerName != nil {
			seat.PassengerName = u.PassengerName
		}
		seat.UpdatedAt = s.now()
	})
}
