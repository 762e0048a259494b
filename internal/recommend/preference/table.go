// Tastebud - Food Ordering Backend and Personalized Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastebud

package preference

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
)

// Number constrains the value types a Table can accumulate.
type Number interface {
	~int64 | ~float64
}

// Entry is a single named value in a Table.
type Entry[N Number] struct {
	Name  string `json:"name"`
	Value N      `json:"value"`
}

// Table accumulates values by name and keeps entries in first-insertion order.
//
// Every name is reduced to a lookup key by the table's normalizer. Two names
// with the same key address the same entry, and the entry keeps the spelling
// it was first added with, after the table's spelling cleanup.
type Table[N Number] struct {
	normalize func(string) string
	spell     func(string) string
	index     map[string]int
	entries   []Entry[N]
}

func newTable[N Number](normalize, spell func(string) string) *Table[N] {
	return &Table[N]{
		normalize: normalize,
		spell:     spell,
		index:     make(map[string]int),
	}
}

// FoldKey returns the case-insensitive lookup key for an ingredient name.
// A new Caser is built per call because Casers carry state and must not be
// shared across goroutines.
func FoldKey(name string) string {
	return cases.Fold().String(strings.TrimSpace(name))
}

// cleanName is the display spelling of an ingredient: surrounding
// whitespace is not part of the name.
func cleanName(name string) string {
	return strings.TrimSpace(name)
}

// exactKey is the normalizer and spelling for labels that match exactly.
func exactKey(name string) string {
	return name
}

// Key returns the lookup key the table uses for name.
func (t *Table[N]) Key(name string) string {
	return t.normalize(name)
}

// Add increments the entry for name by delta, creating it with value delta
// when absent. Empty names are ignored.
func (t *Table[N]) Add(name string, delta N) {
	key := t.normalize(name)
	if key == "" {
		return
	}
	if i, ok := t.index[key]; ok {
		t.entries[i].Value += delta
		return
	}
	t.index[key] = len(t.entries)
	t.entries = append(t.entries, Entry[N]{Name: t.spell(name), Value: delta})
}

// Get returns the value stored for name.
func (t *Table[N]) Get(name string) (N, bool) {
	i, ok := t.index[t.normalize(name)]
	if !ok {
		return 0, false
	}
	return t.entries[i].Value, true
}

// GetKey returns the value stored under an already-normalized key.
func (t *Table[N]) GetKey(key string) (N, bool) {
	i, ok := t.index[key]
	if !ok {
		return 0, false
	}
	return t.entries[i].Value, true
}

// DisplayName returns the first-seen spelling for name.
func (t *Table[N]) DisplayName(name string) (string, bool) {
	i, ok := t.index[t.normalize(name)]
	if !ok {
		return "", false
	}
	return t.entries[i].Name, true
}

// Len returns the number of distinct entries.
func (t *Table[N]) Len() int {
	return len(t.entries)
}

// Entries returns a copy of the entries in insertion order.
func (t *Table[N]) Entries() []Entry[N] {
	out := make([]Entry[N], len(t.entries))
	copy(out, t.entries)
	return out
}

// Ranked returns the entries sorted by value descending. Equal values keep
// insertion order.
func (t *Table[N]) Ranked() []Entry[N] {
	out := t.Entries()
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Value > out[j].Value
	})
	return out
}

// Rank returns the zero-based position of name in Ranked order along with its
// value. ok is false when name is not present.
func (t *Table[N]) Rank(name string) (rank int, value N, ok bool) {
	key := t.normalize(name)
	i, found := t.index[key]
	if !found {
		return 0, 0, false
	}
	value = t.entries[i].Value
	for j, e := range t.entries {
		if j == i {
			continue
		}
		// Entries ahead of i: strictly larger, or equal and inserted earlier.
		if e.Value > value || (e.Value == value && j < i) {
			rank++
		}
	}
	return rank, value, true
}

// merge adds every entry of other into t, using other's spelling only for
// names t has not seen.
func (t *Table[N]) merge(other *Table[N]) {
	if other == nil {
		return
	}
	for _, e := range other.entries {
		t.Add(e.Name, e.Value)
	}
}

func (t *Table[N]) clone() *Table[N] {
	c := &Table[N]{
		normalize: t.normalize,
		spell:     t.spell,
		index:     make(map[string]int, len(t.index)),
		entries:   make([]Entry[N], len(t.entries)),
	}
	copy(c.entries, t.entries)
	for k, v := range t.index {
		c.index[k] = v
	}
	return c
}
