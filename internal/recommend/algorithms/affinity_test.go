// Tastebud - Food Ordering Backend and Personalized Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastebud

package algorithms

import (
	"context"
	"errors"
	"testing"

	"github.com/tomtom215/tastebud/internal/recommend"
)

func affinityFixture() (*fakeStore, *fakeOrders, *fakeCatalog) {
	store := newFakeStore()
	orders := &fakeOrders{last: map[string]*recommend.OrderSnapshot{}}
	catalog := &fakeCatalog{items: []recommend.Item{
		{ID: "last", Name: "Margherita", Ingredients: []string{"Tomato", "Basil"}},
		{ID: "C", Name: "Onion Bhaji", Ingredients: []string{"Onion"}},
		{ID: "B", Name: "Pesto", Ingredients: []string{"Basil"}},
		{ID: "A", Name: "Caprese", Ingredients: []string{"Tomato", "Cheese"}},
	}}
	return store, orders, catalog
}

func TestIngredientAffinity_RanksByIngredientScore(t *testing.T) {
	store, orders, catalog := affinityFixture()
	ctx := context.Background()

	_ = store.Create(ctx, "u1")
	store.prefs["u1"].Ingredients.Add("tomato", 10)
	store.prefs["u1"].Ingredients.Add("basil", 5)
	orders.last["u1"] = &recommend.OrderSnapshot{ID: "o1", UserID: "u1", Lines: []recommend.OrderLine{{ItemID: "last", Quantity: 1}}}

	strategy := NewIngredientAffinity(store, orders, catalog, nil)
	result, err := strategy.Recommend(ctx, recommend.Request{UserID: "u1", K: 4})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}

	if got, want := ids(result.Items), []string{"A", "B", "C"}; !equalIDs(got, want) {
		t.Fatalf("order = %v, want %v", got, want)
	}
	wantScores := []float64{10, 5, 0}
	for i, item := range result.Items {
		if item.Score != wantScores[i] {
			t.Errorf("item %s score = %v, want %v", item.ID, item.Score, wantScores[i])
		}
	}
	if result.TotalCandidates != 3 {
		t.Errorf("TotalCandidates = %d, want 3", result.TotalCandidates)
	}
}

func TestIngredientAffinity_NeverReturnsLastOrderItems(t *testing.T) {
	store, orders, catalog := affinityFixture()
	ctx := context.Background()

	_ = store.Create(ctx, "u1")
	// The last-ordered item would otherwise score highest.
	store.prefs["u1"].Ingredients.Add("tomato", 100)
	store.prefs["u1"].Ingredients.Add("basil", 100)
	orders.last["u1"] = &recommend.OrderSnapshot{Lines: []recommend.OrderLine{
		{ItemID: "last", Quantity: 2},
		{ItemID: "A", Quantity: 1},
	}}

	strategy := NewIngredientAffinity(store, orders, catalog, nil)
	result, err := strategy.Recommend(ctx, recommend.Request{UserID: "u1", K: 10})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	for _, item := range result.Items {
		if item.ID == "last" || item.ID == "A" {
			t.Errorf("returned item %s from the last order", item.ID)
		}
	}
}

func TestIngredientAffinity_EmptyProfileKeepsCatalogOrder(t *testing.T) {
	store, orders, catalog := affinityFixture()
	ctx := context.Background()

	_ = store.Create(ctx, "u1")
	orders.last["u1"] = &recommend.OrderSnapshot{Lines: []recommend.OrderLine{{ItemID: "last", Quantity: 1}}}

	strategy := NewIngredientAffinity(store, orders, catalog, nil)
	result, err := strategy.Recommend(ctx, recommend.Request{UserID: "u1", K: 2})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if got, want := ids(result.Items), []string{"C", "B"}; !equalIDs(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}
	for _, item := range result.Items {
		if item.Score != 0 {
			t.Errorf("item %s score = %v, want 0", item.ID, item.Score)
		}
	}
}

func TestIngredientAffinity_NoOrderHistory(t *testing.T) {
	store, orders, catalog := affinityFixture()
	ctx := context.Background()
	_ = store.Create(ctx, "u1")

	strategy := NewIngredientAffinity(store, orders, catalog, nil)
	result, err := strategy.Recommend(ctx, recommend.Request{UserID: "u1", K: 4})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if len(result.Items) != 0 {
		t.Errorf("len(Items) = %d, want 0", len(result.Items))
	}
	if !result.EmptyHistory {
		t.Error("EmptyHistory = false, want true")
	}
}

func TestIngredientAffinity_Errors(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(*fakeStore)
		wantErr error
	}{
		{
			name:    "missing profile is an invariant violation",
			setup:   func(*fakeStore) {},
			wantErr: recommend.ErrInvariantViolation,
		},
		{
			name: "store failure is transient",
			setup: func(s *fakeStore) {
				s.loadErr = recommend.ErrTransientStore
			},
			wantErr: recommend.ErrTransientStore,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, orders, catalog := affinityFixture()
			tt.setup(store)
			orders.last["u1"] = &recommend.OrderSnapshot{Lines: []recommend.OrderLine{{ItemID: "last", Quantity: 1}}}

			strategy := NewIngredientAffinity(store, orders, catalog, nil)
			_, err := strategy.Recommend(context.Background(), recommend.Request{UserID: "u1", K: 4})
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestIngredientAffinity_DoesNotMutateProfile(t *testing.T) {
	store, orders, catalog := affinityFixture()
	ctx := context.Background()

	_ = store.Create(ctx, "u1")
	store.prefs["u1"].Ingredients.Add("tomato", 10)
	orders.last["u1"] = &recommend.OrderSnapshot{Lines: []recommend.OrderLine{{ItemID: "last", Quantity: 1}}}
	before := store.prefs["u1"].Snapshot()

	strategy := NewIngredientAffinity(store, orders, catalog, nil)
	if _, err := strategy.Recommend(ctx, recommend.Request{UserID: "u1", K: 4}); err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}

	after := store.prefs["u1"].Snapshot()
	if len(after.Ingredients) != len(before.Ingredients) || after.Ingredients[0].Value != before.Ingredients[0].Value {
		t.Errorf("profile changed: before %+v, after %+v", before, after)
	}
}
