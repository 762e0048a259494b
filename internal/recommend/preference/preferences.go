// Tastebud - Food Ordering Backend and Personalized Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastebud

package preference

import "time"

// Preferences is the accumulated taste profile of one user.
type Preferences struct {
	// UserID identifies the owning user. One profile exists per user.
	UserID string

	// Ingredients maps ingredient names to affinity scores.
	// Names are matched case-insensitively.
	Ingredients *Table[float64]

	// Types maps item type labels to the number of ordered lines of that type.
	Types *Table[int64]

	// Categories maps category labels to the number of ordered lines in that category.
	Categories *Table[int64]

	// UpdatedAt is the time of the last persisted change. Zero for a new profile.
	UpdatedAt time.Time

	// Revision counts persisted changes. Stores bump it on every write and
	// compare it before a conditional replace.
	Revision int64
}

// New returns an empty profile for userID.
func New(userID string) *Preferences {
	return &Preferences{
		UserID:      userID,
		Ingredients: newTable[float64](FoldKey, cleanName),
		Types:       newTable[int64](exactKey, exactKey),
		Categories:  newTable[int64](exactKey, exactKey),
	}
}

// IsEmpty reports whether no order has contributed to the profile yet.
func (p *Preferences) IsEmpty() bool {
	return p.Ingredients.Len() == 0 && p.Types.Len() == 0 && p.Categories.Len() == 0
}

// Merge adds every value in delta to p. Values in delta are expected to be
// non-negative, which keeps p monotonically non-decreasing.
func (p *Preferences) Merge(delta *Preferences) {
	if delta == nil {
		return
	}
	p.Ingredients.merge(delta.Ingredients)
	p.Types.merge(delta.Types)
	p.Categories.merge(delta.Categories)
}

// Clone returns a deep copy of p.
func (p *Preferences) Clone() *Preferences {
	return &Preferences{
		UserID:      p.UserID,
		Ingredients: p.Ingredients.clone(),
		Types:       p.Types.clone(),
		Categories:  p.Categories.clone(),
		UpdatedAt:   p.UpdatedAt,
		Revision:    p.Revision,
	}
}

// Snapshot is the serialized form of a profile, used for storage and API output.
type Snapshot struct {
	UserID      string           `json:"user_id"`
	Ingredients []Entry[float64] `json:"ingredients"`
	Types       []Entry[int64]   `json:"types"`
	Categories  []Entry[int64]   `json:"categories"`
	UpdatedAt   time.Time        `json:"updated_at"`
	Revision    int64            `json:"revision"`
}

// Snapshot returns the serializable form of p, entries in insertion order.
func (p *Preferences) Snapshot() Snapshot {
	return Snapshot{
		UserID:      p.UserID,
		Ingredients: p.Ingredients.Entries(),
		Types:       p.Types.Entries(),
		Categories:  p.Categories.Entries(),
		UpdatedAt:   p.UpdatedAt,
		Revision:    p.Revision,
	}
}

// FromSnapshot rebuilds a profile from its serialized form.
//
//nolint:gocritic // hugeParam: Snapshot is decoded by value at every call site
func FromSnapshot(s Snapshot) *Preferences {
	p := New(s.UserID)
	for _, e := range s.Ingredients {
		p.Ingredients.Add(e.Name, e.Value)
	}
	for _, e := range s.Types {
		p.Types.Add(e.Name, e.Value)
	}
	for _, e := range s.Categories {
		p.Categories.Add(e.Name, e.Value)
	}
	p.UpdatedAt = s.UpdatedAt
	p.Revision = s.Revision
	return p
}
