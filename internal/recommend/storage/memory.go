// Tastebud - Food Ordering Backend and Personalized Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastebud

package storage

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/tomtom215/tastebud/internal/metrics"
	"github.com/tomtom215/tastebud/internal/recommend"
	"github.com/tomtom215/tastebud/internal/recommend/preference"
)

const backendMemory = "memory"

type memoryEntry struct {
	mu      sync.Mutex
	prefs   *preference.Preferences
	applied map[string]struct{}
}

// MemoryStore keeps preferences in process memory.
type MemoryStore struct {
	users sync.Map // userID -> *memoryEntry
	now   func() time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{now: time.Now}
}

func (s *MemoryStore) entry(userID string) (*memoryEntry, bool) {
	v, ok := s.users.Load(userID)
	if !ok {
		return nil, false
	}
	return v.(*memoryEntry), true
}

// Create stores an empty profile for userID unless one exists.
func (s *MemoryStore) Create(_ context.Context, userID string) error {
	if userID == "" {
		return fmt.Errorf("%w: empty user ID", recommend.ErrInvalidRequest)
	}
	s.users.LoadOrStore(userID, &memoryEntry{
		prefs:   preference.New(userID),
		applied: make(map[string]struct{}),
	})
	return nil
}

// Load returns a copy of the profile for userID.
func (s *MemoryStore) Load(_ context.Context, userID string) (*preference.Preferences, error) {
	e, ok := s.entry(userID)
	if !ok {
		return nil, fmt.Errorf("preferences for user %q: %w", userID, recommend.ErrNotFound)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.prefs.Clone(), nil
}

// Save replaces the profile for prefs.UserID.
func (s *MemoryStore) Save(_ context.Context, prefs *preference.Preferences) error {
	e, ok := s.entry(prefs.UserID)
	if !ok {
		return fmt.Errorf("preferences for user %q: %w", prefs.UserID, recommend.ErrNotFound)
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	replacement := prefs.Clone()
	replacement.UpdatedAt = s.now()
	replacement.Revision = e.prefs.Revision + 1
	e.prefs = replacement
	return nil
}

// Replace swaps in prefs and the applied-order set if the stored revision
// is still expectedRevision.
func (s *MemoryStore) Replace(_ context.Context, prefs *preference.Preferences, expectedRevision int64, applied []string) error {
	e, ok := s.entry(prefs.UserID)
	if !ok {
		return fmt.Errorf("preferences for user %q: %w", prefs.UserID, recommend.ErrNotFound)
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.prefs.Revision != expectedRevision {
		return fmt.Errorf("preferences for user %q at revision %d, expected %d: %w",
			prefs.UserID, e.prefs.Revision, expectedRevision, recommend.ErrStaleProfile)
	}

	replacement := prefs.Clone()
	replacement.UpdatedAt = s.now()
	replacement.Revision = expectedRevision + 1
	e.prefs = replacement

	e.applied = make(map[string]struct{}, len(applied))
	for _, orderID := range applied {
		if orderID != "" {
			e.applied[orderID] = struct{}{}
		}
	}
	return nil
}

// Merge adds delta to userID's profile unless orderID was already merged.
func (s *MemoryStore) Merge(_ context.Context, userID, orderID string, delta *preference.Preferences) (bool, error) {
	start := time.Now()

	e, ok := s.entry(userID)
	if !ok {
		err := fmt.Errorf("preferences for user %q: %w", userID, recommend.ErrNotFound)
		metrics.RecordPreferenceMerge(backendMemory, time.Since(start), false, err)
		return false, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if _, done := e.applied[orderID]; done && orderID != "" {
		metrics.RecordPreferenceMerge(backendMemory, time.Since(start), false, nil)
		return false, nil
	}

	e.prefs.Merge(delta)
	e.prefs.UpdatedAt = s.now()
	e.prefs.Revision++
	if orderID != "" {
		e.applied[orderID] = struct{}{}
	}

	metrics.RecordPreferenceMerge(backendMemory, time.Since(start), true, nil)
	return true, nil
}
