// Groundcrew - Flight Ground Operations Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/groundcrew

package api

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tomtom215/groundcrew/internal/feed"
	"github.com/tomtom215/groundcrew/internal/models"
)

const upstreamAircraft = `{"SWA123":{"heading":90,"playerName":"pilot1","altitude":3500,"aircraftType":"Boeing 737-800","position":{"x":10,"y":-4},"speed":250,"wind":"090/10","groundSpeed":255}}`

const upstreamControllers = `[{"holder":"atc1","claimable":false,"airport":"IRFD","position":"TWR","queue":[]}]`

// fakeUpstream serves the ATC24 REST endpoints and counts hits.
func fakeUpstream(t *testing.T, status int) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/acft-data":
			_, _ = w.Write([]byte(upstreamAircraft))
		case "/controllers":
			_, _ = w.Write([]byte(upstreamControllers))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

type staticFeedStatus struct{ health models.FeedHealth }

func (s staticFeedStatus) Health() models.FeedHealth { return s.health }

func TestATC24Aircraft_ColdCacheFallsBackToREST(t *testing.T) {
	upstream, hits := fakeUpstream(t, http.StatusOK)
	cache := feed.NewCache()
	router, _ := setupTestAPI(t, WithFeed(nil, cache, feed.NewRESTClient(upstream.URL, time.Second)))

	rec, env := doRequest(t, router, http.MethodGet, "/api/atc24/aircraft", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body %s", rec.Code, rec.Body.String())
	}
	if env.Metadata.Cached {
		t.Error("first response should come from REST, not the cache")
	}
	snap := decodeData[feed.Snapshot[feed.AircraftSnapshot]](t, env)
	if _, ok := snap.Value["SWA123"]; !ok {
		t.Errorf("snapshot = %+v, want SWA123", snap.Value)
	}

	_, env = doRequest(t, router, http.MethodGet, "/api/atc24/aircraft", "")
	if !env.Metadata.Cached {
		t.Error("second response should be served from the seeded cache")
	}
	if hits.Load() != 1 {
		t.Errorf("upstream hits = %d, want 1", hits.Load())
	}
}

func TestATC24Controllers_ColdCacheFallsBackToREST(t *testing.T) {
	upstream, _ := fakeUpstream(t, http.StatusOK)
	router, _ := setupTestAPI(t, WithFeed(nil, feed.NewCache(), feed.NewRESTClient(upstream.URL, time.Second)))

	rec, env := doRequest(t, router, http.MethodGet, "/api/atc24/controllers", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body %s", rec.Code, rec.Body.String())
	}
	snap := decodeData[feed.Snapshot[feed.Controllers]](t, env)
	if len(snap.Value) != 1 || snap.Value[0].Airport != "IRFD" {
		t.Errorf("controllers = %+v", snap.Value)
	}
}

func TestATC24Aircraft_WarmCacheSkipsREST(t *testing.T) {
	upstream, hits := fakeUpstream(t, http.StatusOK)
	cache := feed.NewCache()
	cache.Apply(feed.AircraftDataEvent{
		Aircraft: feed.AircraftSnapshot{"DAL1": {PlayerName: "p", AircraftType: "A320"}},
		At:       time.Now(),
	})
	router, _ := setupTestAPI(t, WithFeed(nil, cache, feed.NewRESTClient(upstream.URL, time.Second)))

	_, env := doRequest(t, router, http.MethodGet, "/api/atc24/aircraft", "")
	snap := decodeData[feed.Snapshot[feed.AircraftSnapshot]](t, env)
	if _, ok := snap.Value["DAL1"]; !ok || !env.Metadata.Cached {
		t.Errorf("snapshot = %+v cached=%v, want cached DAL1", snap.Value, env.Metadata.Cached)
	}
	if hits.Load() != 0 {
		t.Errorf("upstream hits = %d, want 0", hits.Load())
	}
}

func TestATC24Aircraft_UpstreamFailure(t *testing.T) {
	upstream, _ := fakeUpstream(t, http.StatusBadGateway)
	router, _ := setupTestAPI(t, WithFeed(nil, feed.NewCache(), feed.NewRESTClient(upstream.URL, time.Second)))

	rec, env := doRequest(t, router, http.MethodGet, "/api/atc24/aircraft", "")
	expectError(t, rec, env, http.StatusServiceUnavailable, ErrCodeServiceUnavailable)
}

func TestATC24_WithoutFeed(t *testing.T) {
	router, _ := setupTestAPI(t)

	rec, env := doRequest(t, router, http.MethodGet, "/api/atc24/aircraft", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if snap := decodeData[feed.Snapshot[feed.AircraftSnapshot]](t, env); len(snap.Value) != 0 {
		t.Errorf("snapshot = %+v, want empty", snap.Value)
	}

	_, env = doRequest(t, router, http.MethodGet, "/api/atc24/status", "")
	if got := decodeData[models.FeedHealth](t, env); got.Status != "disabled" {
		t.Errorf("feed status = %q, want disabled", got.Status)
	}
}

func TestATC24Atis(t *testing.T) {
	cache := feed.NewCache()
	cache.Apply(feed.AtisEvent{Atis: feed.Atis{Airport: "IRFD", Letter: "C", Content: "Rockford information C"}, At: time.Now()})
	router, _ := setupTestAPI(t, WithFeed(nil, cache, nil))

	_, env := doRequest(t, router, http.MethodGet, "/api/atc24/atis", "")
	all := decodeData[map[string]feed.Snapshot[feed.Atis]](t, env)
	if len(all) != 1 || all["IRFD"].Value.Letter != "C" {
		t.Errorf("atis = %+v", all)
	}

	rec, env := doRequest(t, router, http.MethodGet, "/api/atc24/atis?airport=irfd", "")
	if rec.Code != http.StatusOK || decodeData[feed.Snapshot[feed.Atis]](t, env).Value.Airport != "IRFD" {
		t.Errorf("single atis = %d %s", rec.Code, rec.Body.String())
	}

	rec, env = doRequest(t, router, http.MethodGet, "/api/atc24/atis?airport=ITKO", "")
	expectError(t, rec, env, http.StatusNotFound, ErrCodeNotFound)
}

func TestATC24FlightPlansAndEventAircraft(t *testing.T) {
	cache := feed.NewCache()
	now := time.Now()
	cache.Apply(feed.FlightPlanEvent{Plan: feed.FlightPlan{RobloxName: "a", Callsign: "LIVE1"}, At: now})
	cache.Apply(feed.EventFlightPlanEvent{Plan: feed.FlightPlan{RobloxName: "b", Callsign: "EVT1"}, At: now})
	cache.Apply(feed.EventAircraftDataEvent{Aircraft: feed.AircraftSnapshot{"EVT1": {PlayerName: "b", AircraftType: "A320"}}, At: now})
	router, _ := setupTestAPI(t, WithFeed(nil, cache, nil))

	_, env := doRequest(t, router, http.MethodGet, "/api/atc24/flight-plans", "")
	if live := decodeData[map[string]feed.Snapshot[feed.FlightPlan]](t, env); len(live) != 1 || live["LIVE1"].Value.Callsign != "LIVE1" {
		t.Errorf("live plans = %+v", live)
	}
	_, env = doRequest(t, router, http.MethodGet, "/api/atc24/flight-plans?event=true", "")
	if evt := decodeData[map[string]feed.Snapshot[feed.FlightPlan]](t, env); len(evt) != 1 || evt["EVT1"].Value.Callsign != "EVT1" {
		t.Errorf("event plans = %+v", evt)
	}
	_, env = doRequest(t, router, http.MethodGet, "/api/atc24/event-aircraft", "")
	if snap := decodeData[feed.Snapshot[feed.AircraftSnapshot]](t, env); len(snap.Value) != 1 {
		t.Errorf("event aircraft = %+v", snap.Value)
	}
}

func TestATC24Status(t *testing.T) {
	status := staticFeedStatus{models.FeedHealth{Status: "open", Connected: true, Attempts: 0}}
	router, _ := setupTestAPI(t, WithFeed(status, feed.NewCache(), nil))

	_, env := doRequest(t, router, http.MethodGet, "/api/atc24/status", "")
	got := decodeData[models.FeedHealth](t, env)
	if got.Status != "open" || !got.Connected {
		t.Errorf("status = %+v", got)
	}
}
