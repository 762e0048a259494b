// Tastebud - Food Ordering Backend and Personalized Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastebud

package orders

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/tastebud/internal/database"
	"github.com/tomtom215/tastebud/internal/eventprocessor"
	"github.com/tomtom215/tastebud/internal/logging"
	"github.com/tomtom215/tastebud/internal/metrics"
	"github.com/tomtom215/tastebud/internal/models"
	"github.com/tomtom215/tastebud/internal/recommend"
	"github.com/tomtom215/tastebud/internal/recommend/preference"
	"github.com/tomtom215/tastebud/internal/validation"
)

// Store is the order persistence the service needs. *database.DB implements it.
type Store interface {
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetItem(ctx context.Context, id string) (*models.Item, error)
	PlaceOrder(ctx context.Context, order *models.Order, apply database.TxFunc) error
	GetOrder(ctx context.Context, id string) (*models.Order, error)
	ListOrdersByUser(ctx context.Context, userID string) ([]models.Order, error)
	UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus) (*models.Order, error)
}

// TxMerger merges a preference delta inside the order's SQL transaction.
// *database.PreferenceStore implements it.
type TxMerger interface {
	// Lock takes the user's preference write lock and returns its release.
	Lock(userID string) func()
	MergeTx(ctx context.Context, tx *sql.Tx, userID, orderID string, delta *preference.Preferences) (bool, error)
}

// EventPublisher publishes order events. *eventprocessor.Publisher implements it.
type EventPublisher interface {
	PublishOrderPlaced(ctx context.Context, event *eventprocessor.OrderPlacedEvent) error
}

// orderIDNamespace scopes order IDs derived from idempotency keys.
var orderIDNamespace = uuid.MustParse("6f1c2b7e-4d3a-5e8f-9a0b-1c2d3e4f5a6b")

// OrderIDForKey returns the order ID a request with the given user and
// idempotency key is stored under.
func OrderIDForKey(userID, key string) string {
	return uuid.NewSHA1(orderIDNamespace, []byte(userID+"\x00"+key)).String()
}

// Order placement outcomes reported to metrics.
const (
	outcomeOK       = "ok"
	outcomeInvalid  = "invalid"
	outcomeNotFound = "not_found"
	outcomeFailed   = "failed"
)

// Service implements order placement and lookup.
type Service struct {
	store     Store
	updater   *recommend.Updater
	merger    TxMerger
	publisher EventPublisher
	logger    zerolog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithTxMerger makes the preference merge share the order's transaction.
// Use it when preferences live in the same DuckDB database as orders.
func WithTxMerger(m TxMerger) Option {
	return func(s *Service) { s.merger = m }
}

// WithPublisher publishes an event for every placed order.
func WithPublisher(p EventPublisher) Option {
	return func(s *Service) { s.publisher = p }
}

// NewService creates the order service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewService(store Store, updater *recommend.Updater, logger zerolog.Logger, opts ...Option) *Service {
	s := &Service{
		store:   store,
		updater: updater,
		logger:  logger.With().Str("component", "orders").Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PlaceOrder validates the request, prices it from the catalog, stores the
// order and folds it into the user's preferences.
func (s *Service) PlaceOrder(ctx context.Context, req *models.CreateOrderRequest) (order *models.Order, err error) {
	lines := 0
	if req != nil {
		lines = len(req.Lines)
	}
	defer func() { metrics.RecordOrderPlaced(placementOutcome(err), lines) }()

	if req == nil {
		return nil, fmt.Errorf("%w: empty order request", recommend.ErrInvalidRequest)
	}
	if verr := validation.ValidateStruct(req); verr != nil {
		return nil, verr
	}

	if _, err := s.store.GetUser(ctx, req.UserID); err != nil {
		return nil, fmt.Errorf("place order: %w", err)
	}

	order, err = s.price(ctx, req)
	if err != nil {
		return nil, err
	}

	recLines := make([]recommend.OrderLine, len(order.Lines))
	for i, l := range order.Lines {
		recLines[i] = recommend.OrderLine{ItemID: l.ItemID, Quantity: l.Quantity}
	}
	delta, err := s.updater.Prepare(ctx, order.UserID, recLines)
	if err != nil {
		return nil, fmt.Errorf("prepare preferences: %w", err)
	}

	applied, err := s.persist(ctx, order, delta)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("request_id", logging.RequestIDFromContext(ctx)).
		Str("order_id", order.ID).
		Str("user_id", order.UserID).
		Int("lines", len(order.Lines)).
		Float64("amount", order.Amount).
		Msg("order placed")

	s.publish(ctx, order, applied)
	return order, nil
}

// price resolves every line against the catalog and computes the amount.
func (s *Service) price(ctx context.Context, req *models.CreateOrderRequest) (*models.Order, error) {
	id := uuid.New().String()
	if req.IdempotencyKey != "" {
		id = OrderIDForKey(req.UserID, req.IdempotencyKey)
	}
	order := &models.Order{
		ID:      id,
		UserID:  req.UserID,
		Address: req.Address,
		Lines:   make([]models.OrderLine, 0, len(req.Lines)),
		Status:  models.OrderStatusNotDelivered,
	}

	var amount float64
	for _, l := range req.Lines {
		item, err := s.store.GetItem(ctx, l.ItemID)
		if err != nil {
			return nil, fmt.Errorf("order line item %q: %w", l.ItemID, err)
		}
		order.Lines = append(order.Lines, models.OrderLine{
			ItemID:   item.ID,
			Name:     item.Name,
			Quantity: l.Quantity,
			Price:    item.Price,
		})
		amount += item.Price * float64(l.Quantity)
	}
	order.Amount = math.Round(amount*100) / 100
	return order, nil
}

// persist writes the order and merges delta before the order commits.
//
// With a TxMerger both happen in one SQL transaction. Otherwise the merge
// commits in the preference store first; if the order insert then fails the
// merge stays, and only a retry under the same order ID (same idempotency
// key) is recognized as already applied. The updater lock is held until the
// order commits so a rebuild never sees the merge without the order.
func (s *Service) persist(ctx context.Context, order *models.Order, delta *preference.Preferences) (bool, error) {
	applied := true
	var apply database.TxFunc

	if s.merger != nil {
		unlock := s.merger.Lock(order.UserID)
		defer unlock()
		apply = func(ctx context.Context, tx *sql.Tx) error {
			var err error
			applied, err = s.merger.MergeTx(ctx, tx, order.UserID, order.ID, delta)
			return err
		}
	} else {
		unlock := s.updater.Lock(order.UserID)
		defer unlock()
		apply = func(ctx context.Context, _ *sql.Tx) error {
			return s.updater.Commit(ctx, order.UserID, order.ID, delta)
		}
	}

	if err := s.store.PlaceOrder(ctx, order, apply); err != nil {
		return false, s.classify(order, err)
	}
	return applied, nil
}

// classify reports a registered user without a preference profile as a
// defect instead of a missing resource.
func (s *Service) classify(order *models.Order, err error) error {
	if errors.Is(err, recommend.ErrNotFound) && !errors.Is(err, recommend.ErrInvariantViolation) {
		s.logger.Error().
			Str("user_id", order.UserID).
			Str("order_id", order.ID).
			Err(err).
			Msg("preference profile missing for registered user")
		return fmt.Errorf("%w: place order %s: %w", recommend.ErrInvariantViolation, order.ID, err)
	}
	return fmt.Errorf("place order %s: %w", order.ID, err)
}

func (s *Service) publish(ctx context.Context, order *models.Order, applied bool) {
	if s.publisher == nil {
		return
	}

	lines := make([]eventprocessor.OrderLine, len(order.Lines))
	for i, l := range order.Lines {
		lines[i] = eventprocessor.OrderLine{ItemID: l.ItemID, Quantity: l.Quantity, Price: l.Price}
	}
	event := eventprocessor.NewOrderPlacedEvent(order.ID, order.UserID, lines, order.Amount, order.CreatedAt)
	event.CorrelationID = logging.CorrelationIDFromContext(ctx)
	event.PreferencesApplied = applied

	// The request may already be finishing; give the publish its own deadline.
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	if err := s.publisher.PublishOrderPlaced(pubCtx, event); err != nil {
		s.logger.Warn().
			Str("request_id", logging.RequestIDFromContext(ctx)).
			Err(err).
			Str("order_id", order.ID).
			Msg("failed to publish order event")
	}
}

// Get returns one order.
func (s *Service) Get(ctx context.Context, id string) (*models.Order, error) {
	return s.store.GetOrder(ctx, id)
}

// ListByUser returns the user's orders, newest first.
func (s *Service) ListByUser(ctx context.Context, userID string) ([]models.Order, error) {
	if _, err := s.store.GetUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.store.ListOrdersByUser(ctx, userID)
}

// UpdateStatus changes an order's delivery status.
func (s *Service) UpdateStatus(ctx context.Context, id string, req *models.UpdateOrderStatusRequest) (*models.Order, error) {
	if verr := validation.ValidateStruct(req); verr != nil {
		return nil, verr
	}
	order, err := s.store.UpdateOrderStatus(ctx, id, req.Status)
	if err != nil {
		return nil, err
	}
	s.logger.Info().
		Str("order_id", id).
		Str("status", string(order.Status)).
		Msg("order status updated")
	return order, nil
}

func placementOutcome(err error) string {
	var verr *validation.RequestValidationError
	switch {
	case err == nil:
		return outcomeOK
	case errors.As(err, &verr), errors.Is(err, recommend.ErrInvalidRequest):
		return outcomeInvalid
	case errors.Is(err, recommend.ErrNotFound) && !errors.Is(err, recommend.ErrInvariantViolation):
		return outcomeNotFound
	default:
		return outcomeFailed
	}
}
