// Tastebud - Food Ordering Backend and Personalized Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastebud

package preference

import (
	"testing"

	"github.com/goccy/go-json"
)

func pizzaLine(weight float64, ingredients ...string) Line {
	return Line{
		ItemID:      "pizza-1",
		Type:        "Pizza",
		Category:    "Veg",
		Ingredients: ingredients,
		Weight:      weight,
	}
}

func TestApply_EmptyStoreSingleOrder(t *testing.T) {
	p := Apply(New("u1"), []Line{pizzaLine(3, "a", "b")})

	if got, _ := p.Types.Get("Pizza"); got != 1 {
		t.Errorf("Types[Pizza] = %d, want 1", got)
	}
	if got, _ := p.Categories.Get("Veg"); got != 1 {
		t.Errorf("Categories[Veg] = %d, want 1", got)
	}
	for _, name := range []string{"a", "b"} {
		if got, _ := p.Ingredients.Get(name); got != 3 {
			t.Errorf("Ingredients[%s] = %v, want 3", name, got)
		}
	}
}

func TestApply_TwoLinesSameType(t *testing.T) {
	p := Apply(New("u1"), []Line{
		pizzaLine(DefaultWeight, "cheese"),
		{ItemID: "pizza-2", Type: "Pizza", Category: "Non-Veg", Ingredients: []string{"ham"}, Weight: DefaultWeight},
	})

	if got, _ := p.Types.Get("Pizza"); got != 2 {
		t.Errorf("Types[Pizza] = %d, want 2", got)
	}
	if p.Categories.Len() != 2 {
		t.Errorf("Categories.Len() = %d, want 2", p.Categories.Len())
	}
}

func TestApply_Monotonic(t *testing.T) {
	p := Apply(New("u1"), []Line{pizzaLine(4, "tomato", "basil")})
	before := p.Clone()

	Apply(p, []Line{
		pizzaLine(1, "Tomato"),
		pizzaLine(-3, "basil"), // negative weight must not decrease anything
		{Type: "Burger", Category: "Fast", Ingredients: []string{"bun"}, Weight: 2},
	})

	for _, e := range before.Ingredients.Entries() {
		got, _ := p.Ingredients.Get(e.Name)
		if got < e.Value {
			t.Errorf("ingredient %q decreased: %v -> %v", e.Name, e.Value, got)
		}
	}
	for _, e := range before.Types.Entries() {
		got, _ := p.Types.Get(e.Name)
		if got < e.Value {
			t.Errorf("type %q decreased: %d -> %d", e.Name, e.Value, got)
		}
	}
	for _, e := range before.Categories.Entries() {
		got, _ := p.Categories.Get(e.Name)
		if got < e.Value {
			t.Errorf("category %q decreased: %d -> %d", e.Name, e.Value, got)
		}
	}
}

func TestApply_TwiceDoubles(t *testing.T) {
	order := []Line{
		pizzaLine(2, "tomato", "basil"),
		{Type: "Drink", Category: "Cold", Ingredients: []string{"mint"}, Weight: 5},
	}

	once := Apply(New("u1"), order)
	twice := Apply(Apply(New("u1"), order), order)

	for _, e := range once.Ingredients.Entries() {
		got, _ := twice.Ingredients.Get(e.Name)
		if got != 2*e.Value {
			t.Errorf("Ingredients[%s] = %v, want %v", e.Name, got, 2*e.Value)
		}
	}
	for _, e := range once.Types.Entries() {
		got, _ := twice.Types.Get(e.Name)
		if got != 2*e.Value {
			t.Errorf("Types[%s] = %d, want %d", e.Name, got, 2*e.Value)
		}
	}
	for _, e := range once.Categories.Entries() {
		got, _ := twice.Categories.Get(e.Name)
		if got != 2*e.Value {
			t.Errorf("Categories[%s] = %d, want %d", e.Name, got, 2*e.Value)
		}
	}
}

func TestApply_OrderInsensitive(t *testing.T) {
	a := pizzaLine(2, "tomato")
	b := Line{Type: "Pasta", Category: "Veg", Ingredients: []string{"Tomato", "garlic"}, Weight: 4}

	ab := Apply(New("u1"), []Line{a, b})
	ba := Apply(New("u1"), []Line{b, a})

	for _, name := range []string{"tomato", "garlic"} {
		x, _ := ab.Ingredients.Get(name)
		y, _ := ba.Ingredients.Get(name)
		if x != y {
			t.Errorf("Ingredients[%s]: %v vs %v", name, x, y)
		}
	}
}

func TestIngredients_CaseInsensitiveKeepsFirstCasing(t *testing.T) {
	p := New("u1")
	p.Ingredients.Add("Tomato", 5)
	p.Ingredients.Add("TOMATO", 2)
	p.Ingredients.Add(" tomato ", 1)

	if p.Ingredients.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", p.Ingredients.Len())
	}
	if got, _ := p.Ingredients.Get("tomato"); got != 8 {
		t.Errorf("score = %v, want 8", got)
	}
	if name, _ := p.Ingredients.DisplayName("tOmAtO"); name != "Tomato" {
		t.Errorf("DisplayName = %q, want Tomato", name)
	}
}

func TestIngredients_DisplayNameIsTrimmed(t *testing.T) {
	p := New("u1")
	p.Ingredients.Add("  Tomato\t", 1)
	p.Ingredients.Add("tomato", 2)

	if name, _ := p.Ingredients.DisplayName("TOMATO"); name != "Tomato" {
		t.Errorf("DisplayName = %q, want %q", name, "Tomato")
	}
	if entries := p.Ingredients.Entries(); len(entries) != 1 || entries[0].Name != "Tomato" || entries[0].Value != 3 {
		t.Errorf("Entries() = %+v, want one trimmed Tomato entry with 3", entries)
	}

	// Labels stay exact, whitespace included.
	p.Types.Add(" Pizza", 1)
	if name, _ := p.Types.DisplayName(" Pizza"); name != " Pizza" {
		t.Errorf("type DisplayName = %q, want it unchanged", name)
	}
}

func TestIngredients_UnicodeFolding(t *testing.T) {
	p := New("u1")
	p.Ingredients.Add("Jalapeño", 1)
	p.Ingredients.Add("JALAPEÑO", 1)

	if p.Ingredients.Len() != 1 {
		t.Errorf("Len() = %d, want 1", p.Ingredients.Len())
	}
}

func TestLabels_ExactMatch(t *testing.T) {
	p := New("u1")
	p.Types.Add("Pizza", 1)
	p.Types.Add("pizza", 1)

	if p.Types.Len() != 2 {
		t.Errorf("Types.Len() = %d, want 2", p.Types.Len())
	}
}

func TestTable_IgnoresEmptyNames(t *testing.T) {
	p := New("u1")
	p.Ingredients.Add("   ", 3)
	p.Types.Add("", 1)

	if !p.IsEmpty() {
		t.Error("expected empty profile")
	}
}

func TestTable_RankStableOnTies(t *testing.T) {
	p := New("u1")
	p.Types.Add("Pizza", 2)
	p.Types.Add("Burger", 5)
	p.Types.Add("Pasta", 2)

	tests := []struct {
		name     string
		wantRank int
	}{
		{"Burger", 0},
		{"Pizza", 1},
		{"Pasta", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rank, _, ok := p.Types.Rank(tt.name)
			if !ok {
				t.Fatal("not found")
			}
			if rank != tt.wantRank {
				t.Errorf("Rank = %d, want %d", rank, tt.wantRank)
			}
		})
	}

	ranked := p.Types.Ranked()
	if ranked[0].Name != "Burger" || ranked[1].Name != "Pizza" || ranked[2].Name != "Pasta" {
		t.Errorf("Ranked = %+v", ranked)
	}

	if _, _, ok := p.Types.Rank("Sushi"); ok {
		t.Error("Rank of missing label should not be ok")
	}
}

func TestPreferences_MergeAndClone(t *testing.T) {
	p := Apply(New("u1"), []Line{pizzaLine(5, "Cheese")})
	clone := p.Clone()

	p.Merge(Delta("u1", []Line{pizzaLine(2, "cheese", "olive")}))

	if got, _ := p.Ingredients.Get("CHEESE"); got != 7 {
		t.Errorf("merged cheese = %v, want 7", got)
	}
	if name, _ := p.Ingredients.DisplayName("cheese"); name != "Cheese" {
		t.Errorf("display name = %q, want Cheese", name)
	}
	if got, _ := clone.Ingredients.Get("cheese"); got != 5 {
		t.Errorf("clone changed: cheese = %v, want 5", got)
	}
	if _, ok := clone.Ingredients.Get("olive"); ok {
		t.Error("clone should not see olive")
	}
}

func TestSnapshot_JSONRoundTrip(t *testing.T) {
	p := Apply(New("u1"), []Line{pizzaLine(3, "Tomato", "basil")})

	data, err := json.Marshal(p.Snapshot())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	restored := FromSnapshot(s)

	if restored.UserID != "u1" {
		t.Errorf("UserID = %q", restored.UserID)
	}
	if got, _ := restored.Ingredients.Get("tomato"); got != 3 {
		t.Errorf("tomato = %v, want 3", got)
	}
	if name, _ := restored.Ingredients.DisplayName("TOMATO"); name != "Tomato" {
		t.Errorf("display name = %q", name)
	}
	if got, _ := restored.Types.Get("Pizza"); got != 1 {
		t.Errorf("Pizza = %d, want 1", got)
	}
}
