// Tastebud - Food Ordering Backend and Personalized Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastebud

package algorithms

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/tastebud/internal/recommend"
	"github.com/tomtom215/tastebud/internal/recommend/preference"
)

// IngredientAffinity ranks catalog items by the user's ingredient scores.
//
// The items of the user's most recent order are never recommended. A user
// with no orders gets an empty result. Candidates with equal scores keep
// catalog order, so an empty profile yields the catalog order itself.
type IngredientAffinity struct {
	BaseStrategy

	store   recommend.PreferenceStore
	orders  recommend.OrderHistory
	catalog recommend.Catalog
	scorer  *Scorer
}

// NewIngredientAffinity creates the score-based strategy.
func NewIngredientAffinity(store recommend.PreferenceStore, orders recommend.OrderHistory, catalog recommend.Catalog, scorer *Scorer) *IngredientAffinity {
	if scorer == nil {
		scorer = NewScorer(nil)
	}
	return &IngredientAffinity{
		BaseStrategy: NewBaseStrategy("ingredient_affinity", recommend.ModePersonalized),
		store:        store,
		orders:       orders,
		catalog:      catalog,
		scorer:       scorer,
	}
}

// Recommend returns up to req.K items ranked by ingredient score.
//
//nolint:gocritic // hugeParam: Request is passed by value for immutability
func (a *IngredientAffinity) Recommend(ctx context.Context, req recommend.Request) (*recommend.Result, error) {
	var (
		prefs *preference.Preferences
		last  *recommend.OrderSnapshot
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := a.store.Load(gctx, req.UserID)
		if errors.Is(err, recommend.ErrNotFound) {
			return fmt.Errorf("%w: no preference profile for user %q", recommend.ErrInvariantViolation, req.UserID)
		}
		if err != nil {
			return fmt.Errorf("load preferences: %w", err)
		}
		prefs = p
		return nil
	})
	g.Go(func() error {
		o, err := a.orders.MostRecent(gctx, req.UserID)
		if err != nil {
			return fmt.Errorf("load last order: %w", err)
		}
		last = o
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if last == nil {
		return &recommend.Result{Items: []recommend.ScoredItem{}, EmptyHistory: true}, nil
	}

	candidates, err := a.catalog.Candidates(ctx, last.ItemIDs())
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}

	scored := make([]recommend.ScoredItem, 0, len(candidates))
	for i := range candidates {
		if ContextCancelled(ctx) {
			return nil, ctx.Err()
		}
		score, components := a.scorer.Breakdown(&candidates[i], prefs)
		scored = append(scored, recommend.ScoredItem{
			Item:   candidates[i],
			Score:  score,
			Scores: components,
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	return &recommend.Result{
		Items:           truncate(scored, req.K),
		TotalCandidates: len(candidates),
	}, nil
}
