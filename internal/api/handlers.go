// Tastebud - Food Ordering Backend and Personalized Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastebud

package api

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/tomtom215/tastebud/internal/cache"
	"github.com/tomtom215/tastebud/internal/models"
	"github.com/tomtom215/tastebud/internal/recommend"
	"github.com/tomtom215/tastebud/internal/recommend/preference"
)

// CatalogStore is the item and review persistence the handlers use.
// *database.DB implements it.
type CatalogStore interface {
	CreateItem(ctx context.Context, item *models.Item) error
	GetItem(ctx context.Context, id string) (*models.Item, error)
	ListItems(ctx context.Context) ([]models.Item, error)
	AddReview(ctx context.Context, review *models.Review) error
	ListReviews(ctx context.Context, itemID string) ([]models.Review, error)
	Ping(ctx context.Context) error
}

// UserService is implemented by *users.Service.
type UserService interface {
	Register(ctx context.Context, req *models.CreateUserRequest) (*models.User, error)
	Get(ctx context.Context, id string) (*models.User, error)
	Preferences(ctx context.Context, userID string) (*preference.Preferences, error)
	RebuildPreferences(ctx context.Context, userID string) (*preference.Preferences, error)
}

// OrderService is implemented by *orders.Service.
type OrderService interface {
	PlaceOrder(ctx context.Context, req *models.CreateOrderRequest) (*models.Order, error)
	Get(ctx context.Context, id string) (*models.Order, error)
	ListByUser(ctx context.Context, userID string) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id string, req *models.UpdateOrderStatusRequest) (*models.Order, error)
}

// Recommender is implemented by *recommend.Engine.
type Recommender interface {
	Recommend(ctx context.Context, req recommend.Request) (*recommend.Response, error)
	Stats() recommend.Stats
}

// EventHealth reports whether order events can be published. Nil when
// publishing is disabled.
type EventHealth interface {
	IsHealthy(ctx context.Context) bool
}

// Handler holds the dependencies of every HTTP handler.
type Handler struct {
	catalog     CatalogStore
	users       UserService
	orders      OrderService
	recommender Recommender
	events      EventHealth
	version     string
	startTime   time.Time

	// Idempotency-Key replay for order placement.
	placedOrders *cache.LRU[string]
	placing      singleflight.Group
}

// HandlerDeps groups NewHandler's arguments.
type HandlerDeps struct {
	Catalog     CatalogStore
	Users       UserService
	Orders      OrderService
	Recommender Recommender
	Events      EventHealth
	Version     string

	// IdempotencyTTL is how long an Idempotency-Key is remembered.
	// Zero means DefaultIdempotencyTTL.
	IdempotencyTTL time.Duration
}

// DefaultIdempotencyTTL bounds order replay by Idempotency-Key.
const DefaultIdempotencyTTL = 10 * time.Minute

// idempotencyCapacity bounds the number of remembered keys.
const idempotencyCapacity = 10000

// NewHandler creates the handler set.
//
//nolint:gocritic // hugeParam: deps is read once at startup
func NewHandler(deps HandlerDeps) *Handler {
	version := deps.Version
	if version == "" {
		version = "dev"
	}
	ttl := deps.IdempotencyTTL
	if ttl <= 0 {
		ttl = DefaultIdempotencyTTL
	}
	return &Handler{
		catalog:      deps.Catalog,
		users:        deps.Users,
		orders:       deps.Orders,
		recommender:  deps.Recommender,
		events:       deps.Events,
		version:      version,
		startTime:    time.Now(),
		placedOrders: cache.NewLRU[string](idempotencyCapacity, ttl),
	}
}
