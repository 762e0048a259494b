// Tastebud - Food Ordering Backend and Personalized Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastebud

package algorithms

import (
	"io"
	"reflect"
	"testing"

	"github.com/tomtom215/tastebud/internal/logging"
	"github.com/tomtom215/tastebud/internal/recommend"
)

func TestRegisterAll(t *testing.T) {
	engine, err := recommend.NewEngine(recommend.DefaultConfig(), logging.NewTestLogger(io.Discard))
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}

	RegisterAll(engine, Sources{
		Preferences: newFakeStore(),
		Orders:      &fakeOrders{},
		Reviews:     &fakeReviews{},
		Catalog:     &fakeCatalog{},
	})

	want := []string{"ingredient_affinity", "rating_similarity", "similar", "top_rated"}
	if got := engine.Strategies(); !reflect.DeepEqual(got, want) {
		t.Errorf("Strategies() = %v, want %v", got, want)
	}
}
