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

// RatingSimilarity recommends from the user's latest review.
//
// A favorable rating samples other items of the reviewed item's type; an
// unfavorable one samples items of any other type. A user without reviews
// gets an empty result.
type RatingSimilarity struct {
	BaseStrategy

	reviews   recommend.ReviewHistory
	catalog   recommend.Catalog
	sampler   *Sampler
	favorable int
}

// NewRatingSimilarity creates the rating-similarity strategy.
func NewRatingSimilarity(reviews recommend.ReviewHistory, catalog recommend.Catalog, sampler *Sampler, cfg *recommend.Config) *RatingSimilarity {
	if cfg == nil {
		cfg = recommend.DefaultConfig()
	}
	if sampler == nil {
		sampler = NewSampler(cfg.EffectiveSeed())
	}
	return &RatingSimilarity{
		BaseStrategy: NewBaseStrategy("rating_similarity", recommend.ModeRating),
		reviews:      reviews,
		catalog:      catalog,
		sampler:      sampler,
		favorable:    cfg.FavorableRating,
	}
}

// Recommend samples up to req.K items.
//
//nolint:gocritic // hugeParam: Request is passed by value for immutability
func (r *RatingSimilarity) Recommend(ctx context.Context, req recommend.Request) (*recommend.Result, error) {
	review, err := r.reviews.LatestReview(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("load latest review: %w", err)
	}
	if review == nil {
		return &recommend.Result{Items: []recommend.ScoredItem{}, EmptyHistory: true}, nil
	}

	reviewed, err := r.catalog.FindByID(ctx, review.ItemID)
	if err != nil {
		return nil, fmt.Errorf("load reviewed item: %w", err)
	}

	sameType := review.Rating >= r.favorable
	pool, err := r.catalog.ByType(ctx, reviewed.Type, reviewed.ID, sameType)
	if err != nil {
		return nil, fmt.Errorf("list items by type: %w", err)
	}

	reason := "different type from " + reviewed.Name
	if sameType {
		reason = "same type as " + reviewed.Name
	}

	return &recommend.Result{
		Items:           unscored(r.sampler.Sample(pool, req.K), reason, nil),
		TotalCandidates: len(pool),
	}, nil
}
