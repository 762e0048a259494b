// Tastebud - Food Ordering Backend and Personalized Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastebud

package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/tastebud/internal/database"
	"github.com/tomtom215/tastebud/internal/logging"
	"github.com/tomtom215/tastebud/internal/models"
	"github.com/tomtom215/tastebud/internal/orders"
	"github.com/tomtom215/tastebud/internal/recommend"
)

// Idempotency headers for order placement.
const (
	IdempotencyKeyHeader   = "Idempotency-Key"
	IdempotentReplayHeader = "Idempotent-Replayed"
	maxIdempotencyKeyLen   = 128
)

// CreateOrder places an order and folds it into the user's preferences.
//
// With an Idempotency-Key header, a repeat of the same key by the same user
// returns the original order with 200 and Idempotent-Replayed instead of
// placing a second one. Concurrent repeats wait for the first and are
// answered the same way. The order ID is derived from the key, so a repeat
// after the replay cache forgot the key still finds the stored order.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.CreateOrderRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	key := r.Header.Get(IdempotencyKeyHeader)
	if key == "" {
		order, err := h.orders.PlaceOrder(r.Context(), &req)
		if err != nil {
			writeError(w, r, err)
			return
		}
		respondSuccess(w, r, http.StatusCreated, order, start)
		return
	}
	if len(key) > maxIdempotencyKeyLen {
		writeError(w, r, fmt.Errorf("%w: %s must be at most %d characters",
			recommend.ErrInvalidRequest, IdempotencyKeyHeader, maxIdempotencyKeyLen))
		return
	}

	req.IdempotencyKey = key
	scoped := req.UserID + "\x00" + key
	if orderID, ok := h.placedOrders.Get(scoped); ok {
		logging.Ctx(r.Context()).Debug().
			Str("idempotency_key", logging.RedactID(key)).
			Str("order_id", orderID).
			Msg("replaying idempotent order")
		h.replayOrder(w, r, orderID, start)
		return
	}

	// The first caller's request may go away while others wait on it.
	placeCtx := context.WithoutCancel(r.Context())
	v, err, shared := h.placing.Do(scoped, func() (interface{}, error) {
		if orderID, ok := h.placedOrders.Get(scoped); ok {
			return orderID, nil
		}
		order, err := h.orders.PlaceOrder(placeCtx, &req)
		if errors.Is(err, database.ErrDuplicate) {
			// Placed under this key before the cache entry expired or the
			// process restarted.
			return orders.OrderIDForKey(req.UserID, key), nil
		}
		if err != nil {
			return nil, err
		}
		h.placedOrders.Add(scoped, order.ID)
		return order, nil
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	switch result := v.(type) {
	case *models.Order:
		if shared {
			logging.Ctx(r.Context()).Debug().Str("order_id", result.ID).Msg("concurrent idempotent request joined")
			w.Header().Set(IdempotentReplayHeader, "true")
			respondSuccess(w, r, http.StatusOK, result, start)
			return
		}
		respondSuccess(w, r, http.StatusCreated, result, start)
	case string:
		h.replayOrder(w, r, result, start)
	}
}

func (h *Handler) replayOrder(w http.ResponseWriter, r *http.Request, orderID string, start time.Time) {
	order, err := h.orders.Get(r.Context(), orderID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set(IdempotentReplayHeader, "true")
	respondSuccess(w, r, http.StatusOK, order, start)
}

// GetOrder returns one order.
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	order, err := h.orders.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	respondSuccess(w, r, http.StatusOK, order, start)
}

// UpdateOrderStatus changes an order's delivery status.
func (h *Handler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.UpdateOrderStatusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	order, err := h.orders.UpdateStatus(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respondSuccess(w, r, http.StatusOK, order, start)
}
