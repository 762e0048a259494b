// Tastebud - Food Ordering Backend and Personalized Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastebud

package algorithms

import (
	"context"
	"fmt"

	"github.com/tomtom215/tastebud/internal/recommend"
)

// TopRated returns catalog items by average rating. It needs no user
// history and serves as the non-personalized fallback.
type TopRated struct {
	BaseStrategy

	catalog recommend.Catalog
}

// NewTopRated creates the top-rated strategy.
func NewTopRated(catalog recommend.Catalog) *TopRated {
	return &TopRated{
		BaseStrategy: NewBaseStrategy("top_rated", recommend.ModePopular),
		catalog:      catalog,
	}
}

// Recommend returns up to req.K items, highest rated first.
//
//nolint:gocritic // hugeParam: Request is passed by value for immutability
func (t *TopRated) Recommend(ctx context.Context, req recommend.Request) (*recommend.Result, error) {
	items, err := t.catalog.TopRated(ctx, req.K)
	if err != nil {
		return nil, fmt.Errorf("list top rated items: %w", err)
	}
	return &recommend.Result{
		Items:           unscored(items, "top rated", ratingScore),
		TotalCandidates: len(items),
	}, nil
}

func ratingScore(item *recommend.Item) float64 {
	return item.Rating
}
