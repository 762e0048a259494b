// Tastebud - Food Ordering Backend and Personalized Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastebud

package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/tastebud/internal/logging"
	"github.com/tomtom215/tastebud/internal/recommend"
)

// RecommendationsResponse is the body of every recommendation endpoint.
type RecommendationsResponse struct {
	Items    []recommend.ScoredItem `json:"items"`
	Metadata recommend.Metadata     `json:"metadata"`
}

// parseK reads the optional k query parameter. Zero selects the default.
func parseK(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("k")
	if raw == "" {
		return 0, nil
	}
	k, err := strconv.Atoi(raw)
	if err != nil || k < 0 {
		return 0, fmt.Errorf("%w: k must be a non-negative integer", recommend.ErrInvalidRequest)
	}
	return k, nil
}

// UserRecommendations serves /users/{id}/recommendations. The mode query
// parameter selects the strategy; similar also needs item_id.
func (h *Handler) UserRecommendations(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")

	mode, err := recommend.ParseMode(r.URL.Query().Get("mode"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if _, err := h.users.Get(r.Context(), userID); err != nil {
		writeError(w, r, err)
		return
	}

	req := recommend.Request{
		UserID:        userID,
		Mode:          mode,
		CurrentItemID: r.URL.Query().Get("item_id"),
	}
	h.recommend(w, r, req)
}

// SimilarItems serves /items/{id}/similar.
func (h *Handler) SimilarItems(w http.ResponseWriter, r *http.Request) {
	h.recommend(w, r, recommend.Request{
		Mode:          recommend.ModeSimilar,
		CurrentItemID: chi.URLParam(r, "id"),
	})
}

// PopularItems serves /recommendations/popular.
func (h *Handler) PopularItems(w http.ResponseWriter, r *http.Request) {
	h.recommend(w, r, recommend.Request{Mode: recommend.ModePopular})
}

//nolint:gocritic // hugeParam: Request is passed by value for immutability
func (h *Handler) recommend(w http.ResponseWriter, r *http.Request, req recommend.Request) {
	start := time.Now()

	k, err := parseK(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	req.K = k
	req.RequestID = logging.RequestIDFromContext(r.Context())

	if req.Mode == recommend.ModeSimilar && req.CurrentItemID != "" {
		if _, err := h.catalog.GetItem(r.Context(), req.CurrentItemID); err != nil {
			writeError(w, r, err)
			return
		}
	}

	resp, err := h.recommender.Recommend(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	respondSuccess(w, r, http.StatusOK, RecommendationsResponse{
		Items:    resp.Items,
		Metadata: resp.Metadata,
	}, start)
}
