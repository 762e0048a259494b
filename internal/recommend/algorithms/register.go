// Tastebud - Food Ordering Backend and Personalized Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastebud

package algorithms

import "github.com/tomtom215/tastebud/internal/recommend"

// Sources are the read paths the strategies depend on.
type Sources struct {
	Preferences recommend.PreferenceStore
	Orders      recommend.OrderHistory
	Reviews     recommend.ReviewHistory
	Catalog     recommend.Catalog
}

// RegisterAll registers one strategy per mode on engine, configured from the
// engine's own config.
//
//nolint:gocritic // hugeParam: Sources is read once at startup
func RegisterAll(engine *recommend.Engine, src Sources) {
	cfg := engine.Config()
	engine.Register(NewIngredientAffinity(src.Preferences, src.Orders, src.Catalog, NewScorer(cfg)))
	engine.Register(NewRatingSimilarity(src.Reviews, src.Catalog, NewSampler(cfg.EffectiveSeed()), cfg))
	engine.Register(NewTopRated(src.Catalog))
	engine.Register(NewSimilar(src.Catalog))
}
