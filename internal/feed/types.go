// Groundcrew - Flight Ground Operations Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/groundcrew

package feed

import (
	"github.com/goccy/go-json"
)

// Upstream message types carried in the envelope "t" field.
const (
	TypeAircraftData      = "ACFT_DATA"
	TypeEventAircraftData = "EVENT_ACFT_DATA"
	TypeFlightPlan        = "FLIGHT_PLAN"
	TypeEventFlightPlan   = "EVENT_FLIGHT_PLAN"
	TypeControllers       = "CONTROLLERS"
	TypeAtis              = "ATIS"
)

// envelope is the outer frame of every upstream message: {"t": ..., "d": ...}.
type envelope struct {
	T string          `json:"t"`
	D json.RawMessage `json:"d"`
}

// Position is a map coordinate in the PTFS world.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Aircraft is one live aircraft as reported by the ATC24 feed.
type Aircraft struct {
	Heading      float64  `json:"heading"`
	PlayerName   string   `json:"playerName" validate:"required"`
	Altitude     float64  `json:"altitude"`
	AircraftType string   `json:"aircraftType" validate:"required"`
	Position     Position `json:"position"`
	Speed        float64  `json:"speed"`
	Wind         string   `json:"wind"`
	IsOnGround   *bool    `json:"isOnGround,omitempty"`
	GroundSpeed  float64  `json:"groundSpeed"`
}

// AircraftSnapshot maps callsign to aircraft. Each ACFT_DATA message is a
// complete snapshot that replaces the previous one.
type AircraftSnapshot map[string]Aircraft

// Controller is one ATC position and its current holder.
type Controller struct {
	Holder    *string  `json:"holder"`
	Claimable bool     `json:"claimable"`
	Airport   string   `json:"airport" validate:"required"`
	Position  string   `json:"position" validate:"required"`
	Queue     []string `json:"queue"`
}

// Controllers is the ordered list of positions from one CONTROLLERS message.
type Controllers []Controller

// Atis is the automatic terminal information broadcast of one airport.
type Atis struct {
	Airport string   `json:"airport" validate:"required"`
	Letter  string   `json:"letter" validate:"required"`
	Content string   `json:"content"`
	Lines   []string `json:"lines"`
	Editor  *string  `json:"editor"`
}

// FlightPlan is a filed flight plan.
type FlightPlan struct {
	RobloxName   string `json:"robloxName" validate:"required"`
	Callsign     string `json:"callsign" validate:"required"`
	RealCallsign string `json:"realcallsign"`
	Aircraft     string `json:"aircraft"`
	FlightRules  string `json:"flightrules"`
	Departing    string `json:"departing"`
	Arriving     string `json:"arriving"`
	Route        string `json:"route"`
	FlightLevel  string `json:"flightlevel"`
}
