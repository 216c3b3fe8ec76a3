// Groundcrew - Flight Ground Operations Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/groundcrew

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/groundcrew/internal/feed"
	"github.com/tomtom215/groundcrew/internal/metrics"
	"github.com/tomtom215/groundcrew/internal/models"
)

// Version is reported by the readiness probe. Overridden at build time.
var Version = "dev"

// readinessTimeout bounds the store probe.
const readinessTimeout = 2 * time.Second

// HealthLive handles liveness probe requests.
// Returns 200 whenever the process is serving HTTP.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	uptime := time.Since(h.startTime).Seconds()
	metrics.AppUptime.Set(uptime)
	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"alive":  true,
		"uptime": uptime,
	})
}

// HealthReady handles readiness probe requests.
//
// The store must answer for the service to be ready. A feed that is down or
// has given up only degrades readiness, since the REST fallback still
// serves ATC24 data.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	checks := make(map[string]string, 2)
	status := "healthy"
	code := http.StatusOK

	if err := h.pingStore(r.Context()); err != nil {
		checks["store"] = "unreachable"
		status = "unhealthy"
		code = http.StatusServiceUnavailable
	} else {
		checks["store"] = "ok"
	}

	feedHealth := h.feedHealth()
	checks["feed"] = feedHealth.Status
	if status == "healthy" && feedHealth.Status == string(feed.StateUnavailable) {
		status = "degraded"
	}

	health := models.HealthStatus{
		Status:    status,
		Version:   Version,
		Uptime:    time.Since(h.startTime).Seconds(),
		Feed:      feedHealth,
		Checks:    checks,
		Bus:       h.busName,
		Timestamp: time.Now(),
	}
	if h.store != nil {
		health.Store = h.store.BackendName()
	}
	if h.hub != nil {
		health.Clients = h.hub.ClientCount()
	}

	respondJSON(w, code, &models.APIResponse{
		Status:   "success",
		Data:     health,
		Metadata: models.Metadata{Timestamp: time.Now()},
	})
}

func (h *Handler) pingStore(ctx context.Context) error {
	if h.store == nil {
		return errStoreNotConfigured
	}
	ctx, cancel := context.WithTimeout(ctx, readinessTimeout)
	defer cancel()
	_, err := h.store.ListPTFSAirports(ctx)
	return err
}

func (h *Handler) feedHealth() models.FeedHealth {
	if h.feedState == nil {
		return models.FeedHealth{Status: "disabled"}
	}
	return h.feedState.Health()
}
