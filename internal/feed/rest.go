// Groundcrew - Flight Ground Operations Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/groundcrew

package feed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/groundcrew/internal/breaker"
	"github.com/tomtom215/groundcrew/internal/metrics"
)

// REST endpoints of the ATC24 data API.
const (
	endpointAircraft    = "acft-data"
	endpointControllers = "controllers"
)

// maxRESTBody caps upstream response bodies.
const maxRESTBody = 8 << 20

// RESTClient fetches snapshots from the ATC24 HTTP API. Calls go through a
// circuit breaker so a dead upstream fails fast.
type RESTClient struct {
	baseURL string
	http    *http.Client
	breaker *breaker.Breaker
}

// NewRESTClient creates a client for baseURL (for example
// https://24data.ptfs.app).
func NewRESTClient(baseURL string, timeout time.Duration) *RESTClient {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &RESTClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		breaker: breaker.New(breaker.DefaultSettings("atc24-rest")),
	}
}

// Aircraft fetches the current live aircraft snapshot.
func (r *RESTClient) Aircraft(ctx context.Context) (AircraftSnapshot, error) {
	snapshot, err := breaker.Do(r.breaker, func() (AircraftSnapshot, error) {
		raw, err := r.get(ctx, endpointAircraft)
		if err != nil {
			return nil, err
		}
		return decodeAircraft(raw)
	})
	metrics.RecordFeedRESTFallback(endpointAircraft, err)
	return snapshot, err
}

// Controllers fetches the current controller list.
func (r *RESTClient) Controllers(ctx context.Context) (Controllers, error) {
	controllers, err := breaker.Do(r.breaker, func() (Controllers, error) {
		raw, err := r.get(ctx, endpointControllers)
		if err != nil {
			return nil, err
		}
		return decodeControllers(raw)
	})
	metrics.RecordFeedRESTFallback(endpointControllers, err)
	return controllers, err
}

func (r *RESTClient) get(ctx context.Context, endpoint string) (json.RawMessage, error) {
	url := r.baseURL + "/" + endpoint
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: unexpected status %d", endpoint, resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxRESTBody))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", endpoint, err)
	}
	return body, nil
}

// Fallback serves cached feed values and, while the cache is still cold,
// fetches them once over REST and seeds the cache with the result.
type Fallback struct {
	cache *Cache
	rest  *RESTClient
	now   func() time.Time
}

// NewFallback creates a Fallback. rest may be nil to disable REST fetches.
func NewFallback(cache *Cache, rest *RESTClient) *Fallback {
	return &Fallback{cache: cache, rest: rest, now: time.Now}
}

// Aircraft returns the live snapshot. cached is false when the value was
// fetched over REST for this call.
func (f *Fallback) Aircraft(ctx context.Context) (snap Snapshot[AircraftSnapshot], cached bool, err error) {
	if s, ok := f.cache.Aircraft(); ok {
		return s, true, nil
	}
	if f.rest == nil {
		return Snapshot[AircraftSnapshot]{Value: AircraftSnapshot{}}, true, nil
	}
	v, err := f.rest.Aircraft(ctx)
	if err != nil {
		return Snapshot[AircraftSnapshot]{}, false, err
	}
	at := f.now()
	f.cache.Apply(AircraftDataEvent{Aircraft: v, At: at})
	return Snapshot[AircraftSnapshot]{Value: v, ReceivedAt: at}, false, nil
}

// Controllers returns the controller list with the same fallback rules.
func (f *Fallback) Controllers(ctx context.Context) (snap Snapshot[Controllers], cached bool, err error) {
	if s, ok := f.cache.Controllers(); ok {
		return s, true, nil
	}
	if f.rest == nil {
		return Snapshot[Controllers]{Value: Controllers{}}, true, nil
	}
	v, err := f.rest.Controllers(ctx)
	if err != nil {
		return Snapshot[Controllers]{}, false, err
	}
	at := f.now()
	f.cache.Apply(ControllersEvent{Controllers: v, At: at})
	return Snapshot[Controllers]{Value: v, ReceivedAt: at}, false, nil
}
