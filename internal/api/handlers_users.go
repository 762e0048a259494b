// Tastebud - Food Ordering Backend and Personalized Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastebud

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/tastebud/internal/models"
)

// CreateUser registers a user and their empty preference profile.
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.CreateUserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	user, err := h.users.Register(r.Context(), &req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respondSuccess(w, r, http.StatusCreated, user, start)
}

// GetUser returns a user without credentials.
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	user, err := h.users.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	respondSuccess(w, r, http.StatusOK, user, start)
}

// GetPreferences returns the user's preference profile.
func (h *Handler) GetPreferences(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	prefs, err := h.users.Preferences(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	respondSuccess(w, r, http.StatusOK, prefs.Snapshot(), start)
}

// RebuildPreferences recomputes the profile from the user's order history.
func (h *Handler) RebuildPreferences(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	prefs, err := h.users.RebuildPreferences(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	respondSuccess(w, r, http.StatusOK, prefs.Snapshot(), start)
}

// ListUserOrders returns the user's orders, newest first.
func (h *Handler) ListUserOrders(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	placed, err := h.orders.ListByUser(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if placed == nil {
		placed = []models.Order{}
	}
	respondSuccess(w, r, http.StatusOK, placed, start)
}
