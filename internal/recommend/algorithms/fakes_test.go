// Tastebud - Food Ordering Backend and Personalized Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastebud

package algorithms

import (
	"context"
	"sort"
	"sync"

	"github.com/tomtom215/tastebud/internal/recommend"
	"github.com/tomtom215/tastebud/internal/recommend/preference"
)

// fakeStore is an in-memory PreferenceStore for strategy tests.
type fakeStore struct {
	mu      sync.Mutex
	prefs   map[string]*preference.Preferences
	loadErr error
	loads   int
}

func newFakeStore() *fakeStore {
	return &fakeStore{prefs: make(map[string]*preference.Preferences)}
}

func (f *fakeStore) Create(_ context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.prefs[userID]; !ok {
		f.prefs[userID] = preference.New(userID)
	}
	return nil
}

func (f *fakeStore) Load(_ context.Context, userID string) (*preference.Preferences, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loads++
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	p, ok := f.prefs[userID]
	if !ok {
		return nil, recommend.ErrNotFound
	}
	return p.Clone(), nil
}

func (f *fakeStore) Save(_ context.Context, prefs *preference.Preferences) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prefs[prefs.UserID] = prefs.Clone()
	return nil
}

func (f *fakeStore) Replace(_ context.Context, prefs *preference.Preferences, expected int64, _ []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cur, ok := f.prefs[prefs.UserID]
	if !ok {
		return recommend.ErrNotFound
	}
	if cur.Revision != expected {
		return recommend.ErrStaleProfile
	}
	next := prefs.Clone()
	next.Revision = expected + 1
	f.prefs[prefs.UserID] = next
	return nil
}

func (f *fakeStore) Merge(_ context.Context, userID, _ string, delta *preference.Preferences) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.prefs[userID]
	if !ok {
		return false, recommend.ErrNotFound
	}
	p.Merge(delta)
	return true, nil
}

// fakeOrders returns a fixed last order per user.
type fakeOrders struct {
	last map[string]*recommend.OrderSnapshot
}

func (f *fakeOrders) MostRecent(_ context.Context, userID string) (*recommend.OrderSnapshot, error) {
	return f.last[userID], nil
}

func (f *fakeOrders) ForUser(_ context.Context, userID string) ([]recommend.OrderSnapshot, error) {
	if o := f.last[userID]; o != nil {
		return []recommend.OrderSnapshot{*o}, nil
	}
	return nil, nil
}

// fakeCatalog serves a fixed item list in catalog order.
type fakeCatalog struct {
	items []recommend.Item
}

func (f *fakeCatalog) FindByID(_ context.Context, id string) (*recommend.Item, error) {
	for i := range f.items {
		if f.items[i].ID == id {
			item := f.items[i]
			return &item, nil
		}
	}
	return nil, recommend.ErrNotFound
}

func (f *fakeCatalog) Candidates(_ context.Context, exclude []string) ([]recommend.Item, error) {
	skip := make(map[string]bool, len(exclude))
	for _, id := range exclude {
		skip[id] = true
	}
	var out []recommend.Item
	for i := range f.items {
		if !skip[f.items[i].ID] {
			out = append(out, f.items[i])
		}
	}
	return out, nil
}

func (f *fakeCatalog) ByType(_ context.Context, itemType, excludeID string, sameType bool) ([]recommend.Item, error) {
	var out []recommend.Item
	for i := range f.items {
		it := f.items[i]
		if it.ID == excludeID {
			continue
		}
		if (it.Type == itemType) == sameType {
			out = append(out, it)
		}
	}
	return out, nil
}

func (f *fakeCatalog) sortedByRating(filter func(*recommend.Item) bool, limit int) []recommend.Item {
	var out []recommend.Item
	for i := range f.items {
		if filter(&f.items[i]) {
			out = append(out, f.items[i])
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Rating > out[j].Rating })
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (f *fakeCatalog) TopRated(_ context.Context, limit int) ([]recommend.Item, error) {
	return f.sortedByRating(func(*recommend.Item) bool { return true }, limit), nil
}

func (f *fakeCatalog) SameCategory(ctx context.Context, itemID string, limit int) ([]recommend.Item, error) {
	anchor, err := f.FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	return f.sortedByRating(func(it *recommend.Item) bool {
		return it.ID != anchor.ID && it.Category == anchor.Category
	}, limit), nil
}

// fakeReviews returns a fixed latest review per user.
type fakeReviews struct {
	latest map[string]*recommend.Review
}

func (f *fakeReviews) LatestRating(_ context.Context, userID, itemID string) (int, bool, error) {
	if r := f.latest[userID]; r != nil && r.ItemID == itemID {
		return r.Rating, true, nil
	}
	return 0, false, nil
}

func (f *fakeReviews) LatestReview(_ context.Context, userID string) (*recommend.Review, error) {
	return f.latest[userID], nil
}

func ids(items []recommend.ScoredItem) []string {
	out := make([]string, len(items))
	for i := range items {
		out[i] = items[i].ID
	}
	return out
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
