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

// Similar returns the top-rated items sharing the category of
// Request.CurrentItemID, excluding that item.
type Similar struct {
	BaseStrategy

	catalog recommend.Catalog
}

// NewSimilar creates the similar-items strategy.
func NewSimilar(catalog recommend.Catalog) *Similar {
	return &Similar{
		BaseStrategy: NewBaseStrategy("similar", recommend.ModeSimilar),
		catalog:      catalog,
	}
}

// Recommend returns up to req.K items in the anchor item's category.
//
//nolint:gocritic // hugeParam: Request is passed by value for immutability
func (s *Similar) Recommend(ctx context.Context, req recommend.Request) (*recommend.Result, error) {
	items, err := s.catalog.SameCategory(ctx, req.CurrentItemID, req.K)
	if err != nil {
		return nil, fmt.Errorf("list items similar to %q: %w", req.CurrentItemID, err)
	}
	return &recommend.Result{
		Items:           unscored(items, "same category", ratingScore),
		TotalCandidates: len(items),
	}, nil
}
