// Tastebud - Food Ordering Backend and Personalized Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastebud

package algorithms

import (
	"github.com/tomtom215/tastebud/internal/recommend"
	"github.com/tomtom215/tastebud/internal/recommend/preference"
)

// Score component names reported in ScoredItem.Scores.
const (
	ScoreIngredient = "ingredient"
	ScoreType       = "type"
	ScoreCategory   = "category"
)

// Scorer computes how well an item matches a user's preferences.
//
// The ranking score is the sum of the user's ingredient scores over the
// item's distinct ingredients. Type and category terms are computed for
// observability only:
//
//	type     = (rank+1) * TypeWeight * count
//	category = (rank+1) * CategoryWeight * count
//
// where rank is the zero-based position of the label among the user's
// counts sorted descending.
type Scorer struct {
	typeWeight     float64
	categoryWeight float64
}

// NewScorer creates a scorer using the rank weights in cfg.
func NewScorer(cfg *recommend.Config) *Scorer {
	if cfg == nil {
		cfg = recommend.DefaultConfig()
	}
	return &Scorer{
		typeWeight:     cfg.Weights.Type,
		categoryWeight: cfg.Weights.Category,
	}
}

// Score returns the ingredient score of item. An item that shares no
// ingredient with prefs, or an empty prefs, scores 0.
func (s *Scorer) Score(item *recommend.Item, prefs *preference.Preferences) float64 {
	if prefs == nil || prefs.Ingredients.Len() == 0 {
		return 0
	}

	seen := make(map[string]struct{}, len(item.Ingredients))
	var total float64
	for _, name := range item.Ingredients {
		key := prefs.Ingredients.Key(name)
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		if v, ok := prefs.Ingredients.GetKey(key); ok {
			total += v
		}
	}
	return total
}

// Breakdown returns the ranking score and the per-component values.
func (s *Scorer) Breakdown(item *recommend.Item, prefs *preference.Preferences) (float64, map[string]float64) {
	score := s.Score(item, prefs)
	components := map[string]float64{
		ScoreIngredient: score,
		ScoreType:       0,
		ScoreCategory:   0,
	}
	if prefs == nil {
		return score, components
	}

	if rank, count, ok := prefs.Types.Rank(item.Type); ok {
		components[ScoreType] = float64(rank+1) * s.typeWeight * float64(count)
	}
	if rank, count, ok := prefs.Categories.Rank(item.Category); ok {
		components[ScoreCategory] = float64(rank+1) * s.categoryWeight * float64(count)
	}
	return score, components
}
