// Groundcrew - Flight Ground Operations Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/groundcrew

package models

import "time"

// Aircraft statuses.
const (
	AircraftActive      = "active"
	AircraftMaintenance = "maintenance"
	AircraftRetired     = "retired"
)

// Flight statuses.
const (
	FlightPlanning = "planning"
	FlightBoarding = "boarding"
	FlightDeparted = "departed"
	FlightArrived  = "arrived"
)

// Service request statuses.
const (
	ServicePending    = "pending"
	ServiceInProgress = "in_progress"
	ServiceCompleted  = "completed"
	ServiceCancelled  = "cancelled"
)

// Service request priorities.
const (
	PriorityLow    = "low"
	PriorityNormal = "normal"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// Seat statuses.
const (
	SeatAvailable = "available"
	SeatOccupied  = "occupied"
	SeatBlocked   = "blocked"
)

// Checklist progress statuses share the pending/in_progress/completed values
// of service requests.
const (
	ProgressPending    = ServicePending
	ProgressInProgress = ServiceInProgress
	ProgressCompleted  = ServiceCompleted
)

// Aircraft is a physical airframe operated by the ground crew.
type Aircraft struct {
	ID             string                 `json:"id"`
	Registration   string                 `json:"registration"`
	Type           string                 `json:"type"` // "Boeing 737-800", etc.
	Status         string                 `json:"status"`
	CurrentAirport string                 `json:"currentAirport"`
	Configuration  map[string]interface{} `json:"configuration"` // seating layout, service points
	CreatedAt      time.Time              `json:"createdAt"`
}

// AircraftInput is the body of POST /api/aircraft.
type AircraftInput struct {
	Registration   string                 `json:"registration" validate:"required,max=16"`
	Type           string                 `json:"type" validate:"required,max=64"`
	Status         string                 `json:"status" validate:"omitempty,oneof=active maintenance retired"`
	CurrentAirport string                 `json:"currentAirport" validate:"required,max=8"`
	Configuration  map[string]interface{} `json:"configuration" validate:"required"`
}

// AircraftPatch is a partial aircraft update. Nil fields are left untouched.
type AircraftPatch struct {
	Registration   *string                `json:"registration,omitempty" validate:"omitempty,min=1,max=16"`
	Type           *string                `json:"type,omitempty" validate:"omitempty,min=1,max=64"`
	Status         *string                `json:"status,omitempty" validate:"omitempty,oneof=active maintenance retired"`
	CurrentAirport *string                `json:"currentAirport,omitempty" validate:"omitempty,min=1,max=8"`
	Configuration  map[string]interface{} `json:"configuration,omitempty"`
}

// Flight is a scheduled leg flown by one aircraft.
type Flight struct {
	ID                 string                 `json:"id"`
	FlightNumber       string                 `json:"flightNumber"`
	AircraftID         string                 `json:"aircraftId,omitempty"`
	DepartureAirport   string                 `json:"departureAirport"`
	ArrivalAirport     string                 `json:"arrivalAirport"`
	Status             string                 `json:"status"`
	ScheduledDeparture *time.Time             `json:"scheduledDeparture"`
	ActualDeparture    *time.Time             `json:"actualDeparture"`
	PassengerCount     int                    `json:"passengerCount"`
	FuelData           map[string]interface{} `json:"fuelData"`
	CreatedAt          time.Time              `json:"createdAt"`
}

// FlightInput is the body of POST /api/flights.
type FlightInput struct {
	FlightNumber       string                 `json:"flightNumber" validate:"required,max=16"`
	AircraftID         string                 `json:"aircraftId"`
	DepartureAirport   string                 `json:"departureAirport" validate:"required,max=8"`
	ArrivalAirport     string                 `json:"arrivalAirport" validate:"required,max=8"`
	Status             string                 `json:"status" validate:"omitempty,oneof=planning boarding departed arrived"`
	ScheduledDeparture *time.Time             `json:"scheduledDeparture"`
	ActualDeparture    *time.Time             `json:"actualDeparture"`
	PassengerCount     int                    `json:"passengerCount" validate:"gte=0,lte=1000"`
	FuelData           map[string]interface{} `json:"fuelData"`
}

// FlightPatch is a partial flight update.
type FlightPatch struct {
	FlightNumber       *string                `json:"flightNumber,omitempty" validate:"omitempty,min=1,max=16"`
	AircraftID         *string                `json:"aircraftId,omitempty"`
	DepartureAirport   *string                `json:"departureAirport,omitempty" validate:"omitempty,min=1,max=8"`
	ArrivalAirport     *string                `json:"arrivalAirport,omitempty" validate:"omitempty,min=1,max=8"`
	Status             *string                `json:"status,omitempty" validate:"omitempty,oneof=planning boarding departed arrived"`
	ScheduledDeparture *time.Time             `json:"scheduledDeparture,omitempty"`
	ActualDeparture    *time.Time             `json:"actualDeparture,omitempty"`
	PassengerCount     *int                   `json:"passengerCount,omitempty" validate:"omitempty,gte=0,lte=1000"`
	FuelData           map[string]interface{} `json:"fuelData,omitempty"`
}

// ServiceRequest is a ground service (fuel, catering, ...) requested for a flight.
type ServiceRequest struct {
	ID          string     `json:"id"`
	FlightID    string     `json:"flightId"`
	ServiceType string     `json:"serviceType"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	RequestedBy string     `json:"requestedBy"`
	AssignedTo  *string    `json:"assignedTo"`
	Notes       *string    `json:"notes"`
	CreatedAt   time.Time  `json:"createdAt"`
	CompletedAt *time.Time `json:"completedAt"`
}

// ServiceRequestInput is the body of POST /api/flights/{flightId}/services.
// FlightID is taken from the path.
type ServiceRequestInput struct {
	FlightID    string  `json:"flightId" validate:"required"`
	ServiceType string  `json:"serviceType" validate:"required,oneof=fuel catering baggage ground_power cargo_door jetbridge pushback"`
	Status      string  `json:"status" validate:"omitempty,oneof=pending in_progress completed cancelled"`
	Priority    string  `json:"priority" validate:"omitempty,oneof=low normal high urgent"`
	RequestedBy string  `json:"requestedBy" validate:"required,max=64"`
	AssignedTo  *string `json:"assignedTo" validate:"omitempty,max=64"`
	Notes       *string `json:"notes" validate:"omitempty,max=1000"`
}

// ServiceRequestPatch is a partial service request update.
type ServiceRequestPatch struct {
	ServiceType *string `json:"serviceType,omitempty" validate:"omitempty,oneof=fuel catering baggage ground_power cargo_door jetbridge pushback"`
	Status      *string `json:"status,omitempty" validate:"omitempty,oneof=pending in_progress completed cancelled"`
	Priority    *string `json:"priority,omitempty" validate:"omitempty,oneof=low normal high urgent"`
	RequestedBy *string `json:"requestedBy,omitempty" validate:"omitempty,min=1,max=64"`
	AssignedTo  *string `json:"assignedTo,omitempty" validate:"omitempty,max=64"`
	Notes       *string `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

// ChecklistItem is one line of a checklist.
type ChecklistItem struct {
	ID        string `json:"id" validate:"required"`
	Text      string `json:"text" validate:"required,max=200"`
	Completed bool   `json:"completed"`
}

// Checklist is a named, ordered procedure for an aircraft type.
type Checklist struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Category     string          `json:"category"` // cockpit_prep, before_start, engine_start, ...
	Items        []ChecklistItem `json:"items"`
	AircraftType string          `json:"aircraftType"`
	Version      string          `json:"version"`
}

// ChecklistInput is the body of POST /api/checklists.
type ChecklistInput struct {
	Name         string          `json:"name" validate:"required,max=100"`
	Category     string          `json:"category" validate:"required,oneof=cockpit_prep before_start engine_start taxi before_takeoff after_landing"`
	Items        []ChecklistItem `json:"items" validate:"required,min=1,dive"`
	AircraftType string          `json:"aircraftType" validate:"required,max=64"`
	Version      string          `json:"version" validate:"omitempty,max=16"`
}

// ChecklistProgress tracks completed checklist items for one flight.
type ChecklistProgress struct {
	ID             string    `json:"id"`
	FlightID       string    `json:"flightId"`
	ChecklistID    string    `json:"checklistId"`
	CompletedItems []string  `json:"completedItems"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// ChecklistProgressInput is the body of POST /api/flights/{flightId}/checklist-progress.
type ChecklistProgressInput struct {
	FlightID       string   `json:"flightId" validate:"required"`
	ChecklistID    string   `json:"checklistId" validate:"required"`
	CompletedItems []string `json:"completedItems"`
	Status         string   `json:"status" validate:"omitempty,oneof=pending in_progress completed"`
}

// Communication is one chat message exchanged on a flight channel.
type Communication struct {
	ID         string    `json:"id"`
	FlightID   string    `json:"flightId"`
	Sender     string    `json:"sender"`
	SenderRole string    `json:"senderRole"`
	Message    string    `json:"message"`
	Timestamp  time.Time `json:"timestamp"`
	ReadBy     []string  `json:"readBy"`
}

// CommunicationInput is shared by the REST endpoint and the send_message frame.
type CommunicationInput struct {
	FlightID   string `json:"flightId" validate:"required,max=64"`
	Sender     string `json:"sender" validate:"required,max=64"`
	SenderRole string `json:"senderRole" validate:"required,oneof=pilot ground_crew atc ground_control catering fuel baggage"`
	Message    string `json:"message" validate:"required,max=2000"`
}

// SeatingData is the state of one seat on one flight.
type SeatingData struct {
	ID            string    `json:"id"`
	FlightID      string    `json:"flightId"`
	SeatNumber    string    `json:"seatNumber"`
	Status        string    `json:"status"`
	PassengerName *string   `json:"passengerName"`
	SeatClass     string    `json:"seatClass"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// SeatingInput is the body of POST /api/flights/{flightId}/seating.
type SeatingInput struct {
	FlightID      string  `json:"flightId" validate:"required"`
	SeatNumber    string  `json:"seatNumber" validate:"required,seat"`
	Status        string  `json:"status" validate:"omitempty,oneof=available occupied blocked"`
	PassengerName *string `json:"passengerName" validate:"omitempty,max=100"`
	SeatClass     string  `json:"seatClass" validate:"required,oneof=first business economy"`
}

// SeatStatusUpdate is the body of PATCH /api/flights/{flightId}/seating/{seatNumber}.
type SeatStatusUpdate struct {
	Status        string  `json:"status" validate:"required,oneof=available occupied blocked"`
	PassengerName *string `json:"passengerName" validate:"omitempty,max=100"`
}

// Airport is an airport known to the dashboard, keyed by ICAO code.
type Airport struct {
	ICAO            string `json:"icao"`
	IATA            string `json:"iata,omitempty"`
	Name            string `json:"name"`
	City            string `json:"city"`
	Country         string `json:"country"`
	IsPTFSSupported bool   `json:"isPtfsSupported"`
}

// AirportInput is the body of airport creation. IsPTFSSupported defaults to true.
type AirportInput struct {
	ICAO            string `json:"icao" validate:"required,icao"`
	IATA            string `json:"iata" validate:"omitempty,len=3,alphanum"`
	Name            string `json:"name" validate:"required,max=100"`
	City            string `json:"city" validate:"required,max=100"`
	Country         string `json:"country" validate:"required,max=100"`
	IsPTFSSupported *bool  `json:"isPtfsSupported"`
}
