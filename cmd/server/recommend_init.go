// Tastebud - Food Ordering Backend and Personalized Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastebud

package main

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/tastebud/internal/config"
	"github.com/tomtom215/tastebud/internal/recommend"
	"github.com/tomtom215/tastebud/internal/recommend/algorithms"
)

// buildEngineConfig maps the application config onto the recommendation
// core's config.
func buildEngineConfig(cfg *config.Config) *recommend.Config {
	rc := recommend.DefaultConfig()
	rc.Weights.Category = cfg.Recommend.CategoryWeight
	rc.Weights.Type = cfg.Recommend.TypeWeight
	if cfg.Recommend.DefaultK > 0 {
		rc.Limits.DefaultK = cfg.Recommend.DefaultK
	}
	if cfg.Recommend.MaxK > 0 {
		rc.Limits.MaxK = cfg.Recommend.MaxK
	}
	if cfg.Recommend.Timeout > 0 {
		rc.Limits.Timeout = cfg.Recommend.Timeout
	}
	if cfg.Recommend.FavorableRating > 0 {
		rc.FavorableRating = cfg.Recommend.FavorableRating
	}
	if cfg.Recommend.DefaultWeight > 0 {
		rc.DefaultWeight = cfg.Recommend.DefaultWeight
	}
	rc.Seed = cfg.Recommend.Seed
	return rc
}

// initRecommend creates the engine with every strategy registered.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func initRecommend(cfg *config.Config, src algorithms.Sources, logger zerolog.Logger) (*recommend.Engine, error) {
	rc := buildEngineConfig(cfg)

	engine, err := recommend.NewEngine(rc, logger)
	if err != nil {
		return nil, fmt.Errorf("create recommendation engine: %w", err)
	}
	algorithms.RegisterAll(engine, src)

	logger.Info().
		Float64("category_weight", rc.Weights.Category).
		Float64("type_weight", rc.Weights.Type).
		Int("default_k", rc.Limits.DefaultK).
		Int("max_k", rc.Limits.MaxK).
		Strs("strategies", engine.Strategies()).
		Msg("recommendation engine initialized")

	return engine, nil
}
