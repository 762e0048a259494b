// Tastebud - Food Ordering Backend and Personalized Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastebud

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/tastebud/internal/models"
	"github.com/tomtom215/tastebud/internal/recommend"
)

// healthCheckTimeout bounds the dependency checks of the health endpoints.
const healthCheckTimeout = 2 * time.Second

// HealthStatus is the body of the health endpoint.
type HealthStatus struct {
	Status          string          `json:"status"`
	Version         string          `json:"version"`
	DatabaseHealthy bool            `json:"database_healthy"`
	EventsEnabled   bool            `json:"events_enabled"`
	EventsHealthy   bool            `json:"events_healthy"`
	Uptime          float64         `json:"uptime_seconds"`
	Recommendations recommend.Stats `json:"recommendations"`
}

// Health reports dependency state. It always answers 200 so dashboards can
// read the body; use HealthReady for gating traffic.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	status := HealthStatus{
		Status:          "healthy",
		Version:         h.version,
		DatabaseHealthy: h.catalog.Ping(ctx) == nil,
		EventsEnabled:   h.events != nil,
		Uptime:          time.Since(h.startTime).Seconds(),
		Recommendations: h.recommender.Stats(),
	}
	if h.events != nil {
		status.EventsHealthy = h.events.IsHealthy(ctx)
	}
	if !status.DatabaseHealthy || (status.EventsEnabled && !status.EventsHealthy) {
		status.Status = "degraded"
	}

	respondSuccess(w, r, http.StatusOK, status, start)
}

// HealthLive answers 200 while the process is serving.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, r, http.StatusOK, map[string]string{"status": "alive"}, time.Time{})
}

// HealthReady answers 503 until the database responds.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	if err := h.catalog.Ping(ctx); err != nil {
		respondError(w, r, http.StatusServiceUnavailable,
			apiError(models.ErrCodeServiceUnavailable, "Database unavailable"), err)
		return
	}
	respondSuccess(w, r, http.StatusOK, map[string]string{"status": "ready"}, time.Time{})
}
