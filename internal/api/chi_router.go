// Tastebud - Food Ordering Backend and Personalized Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastebud

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/tastebud/internal/middleware"
	"github.com/tomtom215/tastebud/internal/models"
)

// NewRouter wires every route onto a chi router.
func NewRouter(h *Handler, mw *ChiMiddleware) http.Handler {
	if mw == nil {
		mw = NewChiMiddleware(nil)
	}

	r := chi.NewRouter()

	r.Use(chiMiddleware(middleware.RequestID))
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(mw.CORS())
	r.Use(chiMiddleware(middleware.PrometheusMetrics))
	r.Use(chiMiddleware(middleware.RequestLogger(middleware.DefaultSlowRequestThreshold)))
	r.Use(chimiddleware.Compress(5, "application/json"))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusNotFound, apiError(models.ErrCodeNotFound, "Route not found"), nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusMethodNotAllowed, apiError("METHOD_NOT_ALLOWED", "Method not allowed"), nil)
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/health", func(r chi.Router) {
			r.Get("/", h.Health)
			r.Get("/live", h.HealthLive)
			r.Get("/ready", h.HealthReady)
		})

		r.Route("/users", func(r chi.Router) {
			r.With(mw.RateLimit()).Post("/", h.CreateUser)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.GetUser)
				r.Get("/preferences", h.GetPreferences)
				r.With(mw.RateLimit()).Post("/preferences/rebuild", h.RebuildPreferences)
				r.Get("/orders", h.ListUserOrders)
				r.Get("/recommendations", h.UserRecommendations)
			})
		})

		r.Route("/items", func(r chi.Router) {
			r.Get("/", h.ListItems)
			r.Post("/", h.CreateItem)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.GetItem)
				r.Get("/reviews", h.ListReviews)
				r.With(mw.RateLimit()).Post("/reviews", h.CreateReview)
				r.Get("/similar", h.SimilarItems)
			})
		})

		r.Get("/recommendations/popular", h.PopularItems)

		r.Route("/orders", func(r chi.Router) {
			r.With(mw.RateLimit()).Post("/", h.CreateOrder)
			r.Get("/{id}", h.GetOrder)
			r.Put("/{id}/status", h.UpdateOrderStatus)
		})
	})

	return r
}
