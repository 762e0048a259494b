// Tastebud - Food Ordering Backend and Personalized Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastebud

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/tastebud/internal/logging"
	"github.com/tomtom215/tastebud/internal/models"
	"github.com/tomtom215/tastebud/internal/validation"
)

// ListItems returns the whole catalog.
func (h *Handler) ListItems(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	items, err := h.catalog.ListItems(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if items == nil {
		items = []models.Item{}
	}
	respondSuccess(w, r, http.StatusOK, items, start)
}

// CreateItem adds a catalog item.
func (h *Handler) CreateItem(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.CreateItemRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		writeError(w, r, verr)
		return
	}

	item := &models.Item{
		Name:         req.Name,
		Image:        req.Image,
		Type:         req.Type,
		Category:     req.Category,
		Price:        req.Price,
		CountInStock: req.CountInStock,
		Ingredients:  req.Ingredients,
		Allergens:    req.Allergens,
		Details:      req.Details,
		Feel:         req.Feel,
	}
	if err := h.catalog.CreateItem(r.Context(), item); err != nil {
		writeError(w, r, err)
		return
	}

	logging.Ctx(r.Context()).Info().
		Str("item_id", item.ID).
		Str("category", sanitizeLogValue(item.Category)).
		Msg("item created")

	respondSuccess(w, r, http.StatusCreated, item, start)
}

// GetItem returns one item.
func (h *Handler) GetItem(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	item, err := h.catalog.GetItem(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	respondSuccess(w, r, http.StatusOK, item, start)
}

// ListReviews returns an item's reviews, newest first.
func (h *Handler) ListReviews(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id := chi.URLParam(r, "id")

	if _, err := h.catalog.GetItem(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	reviews, err := h.catalog.ListReviews(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if reviews == nil {
		reviews = []models.Review{}
	}
	respondSuccess(w, r, http.StatusOK, reviews, start)
}

// CreateReview records a rating of an item by an existing user.
func (h *Handler) CreateReview(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.CreateReviewRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		writeError(w, r, verr)
		return
	}
	if _, err := h.users.Get(r.Context(), req.UserID); err != nil {
		writeError(w, r, err)
		return
	}

	review := &models.Review{
		ItemID:  chi.URLParam(r, "id"),
		UserID:  req.UserID,
		Rating:  req.Rating,
		Comment: req.Comment,
	}
	if err := h.catalog.AddReview(r.Context(), review); err != nil {
		writeError(w, r, err)
		return
	}

	logging.Ctx(r.Context()).Info().
		Str("item_id", review.ItemID).
		Str("user_id", review.UserID).
		Int("rating", review.Rating).
		Msg("review added")

	respondSuccess(w, r, http.StatusCreated, review, start)
}
