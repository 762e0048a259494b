// Tastebud - Food Ordering Backend and Personalized Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastebud

package recommend

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/tastebud/internal/metrics"
)

// Engine dispatches recommendation requests to the strategy registered for
// the requested mode. It is safe for concurrent use.
type Engine struct {
	config *Config
	logger zerolog.Logger

	strategies map[Mode]Strategy
	mu         sync.RWMutex

	requestCount atomic.Int64
	errorCount   atomic.Int64
	emptyCount   atomic.Int64
}

// Stats contains engine counters since start.
type Stats struct {
	Requests   int64    `json:"requests"`
	Errors     int64    `json:"errors"`
	Empty      int64    `json:"empty"`
	Strategies []string `json:"strategies"`
}

// NewEngine creates a new recommendation engine.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Engine{
		config:     cfg,
		logger:     logger.With().Str("component", "recommend").Logger(),
		strategies: make(map[Mode]Strategy),
	}, nil
}

// Config returns the engine configuration.
func (e *Engine) Config() *Config {
	return e.config
}

// Register makes s the strategy for s.Mode(), replacing any earlier one.
func (e *Engine) Register(s Strategy) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.strategies[s.Mode()] = s
	e.logger.Info().
		Str("strategy", s.Name()).
		Str("mode", s.Mode().String()).
		Msg("registered strategy")
}

// Strategies returns the names of the registered strategies, sorted.
func (e *Engine) Strategies() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	names := make([]string, 0, len(e.strategies))
	for _, s := range e.strategies {
		names = append(names, s.Name())
	}
	sort.Strings(names)
	return names
}

// Recommend produces recommendations for req using the strategy registered
// for req.Mode.
//
//nolint:gocritic // hugeParam: Request is passed by value for immutability
func (e *Engine) Recommend(ctx context.Context, req Request) (*Response, error) {
	e.requestCount.Add(1)

	req, err := e.prepareRequest(req)
	if err != nil {
		e.errorCount.Add(1)
		return nil, err
	}

	e.mu.RLock()
	strategy, ok := e.strategies[req.Mode]
	e.mu.RUnlock()
	if !ok {
		e.errorCount.Add(1)
		return nil, fmt.Errorf("%w: no strategy registered for mode %s", ErrInvalidRequest, req.Mode)
	}

	logger := e.createRequestLogger(req, strategy)

	ctx, cancel := context.WithTimeout(ctx, e.config.Limits.Timeout)
	defer cancel()

	start := time.Now()
	result, err := strategy.Recommend(ctx, req)
	elapsed := time.Since(start)

	if err != nil {
		e.errorCount.Add(1)
		metrics.RecordRecommendation(strategy.Name(), elapsed, 0, err)
		e.logFailure(logger, err)
		return nil, fmt.Errorf("%s recommendations for user %q: %w", strategy.Name(), req.UserID, err)
	}

	items := result.Items
	if len(items) > req.K {
		items = items[:req.K]
	}
	if items == nil {
		items = []ScoredItem{}
	}
	if len(items) == 0 {
		e.emptyCount.Add(1)
	}

	metrics.RecordRecommendation(strategy.Name(), elapsed, len(items), nil)

	logger.Debug().
		Int("returned", len(items)).
		Int("candidates", result.TotalCandidates).
		Bool("empty_history", result.EmptyHistory).
		Dur("duration", elapsed).
		Msg("recommendations generated")

	return &Response{
		Items: items,
		Metadata: Metadata{
			Strategy:        strategy.Name(),
			TotalCandidates: result.TotalCandidates,
			EmptyHistory:    result.EmptyHistory,
			GeneratedAt:     time.Now(),
			LatencyMS:       elapsed.Milliseconds(),
			RequestID:       req.RequestID,
		},
	}, nil
}

// prepareRequest validates the request and applies the K limits.
//
//nolint:gocritic // hugeParam: Request is passed by value for immutability
func (e *Engine) prepareRequest(req Request) (Request, error) {
	switch req.Mode {
	case ModePersonalized, ModeRating:
		if req.UserID == "" {
			return req, fmt.Errorf("%w: user ID is required for %s recommendations", ErrInvalidRequest, req.Mode)
		}
	case ModeSimilar:
		if req.CurrentItemID == "" {
			return req, fmt.Errorf("%w: item ID is required for similar recommendations", ErrInvalidRequest)
		}
	case ModePopular:
	default:
		return req, fmt.Errorf("%w: unknown mode %d", ErrInvalidRequest, int(req.Mode))
	}

	if req.K < 0 {
		return req, fmt.Errorf("%w: k must be non-negative, got %d", ErrInvalidRequest, req.K)
	}
	if req.K == 0 {
		req.K = e.config.Limits.DefaultK
	}
	if req.K > e.config.Limits.MaxK {
		req.K = e.config.Limits.MaxK
	}
	return req, nil
}

//nolint:gocritic // hugeParam: Request is passed by value for immutability
func (e *Engine) createRequestLogger(req Request, s Strategy) zerolog.Logger {
	ctx := e.logger.With().
		Str("strategy", s.Name()).
		Str("user_id", req.UserID).
		Int("k", req.K)
	if req.RequestID != "" {
		ctx = ctx.Str("request_id", req.RequestID)
	}
	if req.CurrentItemID != "" {
		ctx = ctx.Str("item_id", req.CurrentItemID)
	}
	return ctx.Logger()
}

// logFailure logs at a level matching the error kind. A missing profile for a
// registered user is a defect and always logged at error level.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func (e *Engine) logFailure(logger zerolog.Logger, err error) {
	switch {
	case errors.Is(err, ErrInvariantViolation):
		logger.Error().Err(err).Msg("preference profile missing for registered user")
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrInvalidRequest):
		logger.Debug().Err(err).Msg("recommendation request rejected")
	default:
		logger.Warn().Err(err).Msg("recommendation failed")
	}
}

// Stats returns engine counters.
func (e *Engine) Stats() Stats {
	return Stats{
		Requests:   e.requestCount.Load(),
		Errors:     e.errorCount.Load(),
		Empty:      e.emptyCount.Load(),
		Strategies: e.Strategies(),
	}
}
