// Tastebud - Food Ordering Backend and Personalized Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastebud

// Package preference holds the per-user taste profile that drives
// personalized recommendations.
//
// A profile is three tallies that only ever grow:
//
//   - Ingredients: ingredient name to affinity score, keyed case-insensitively
//   - Types: item type label to order count
//   - Categories: category label to order count
//
// Profiles are mutated by applying resolved order lines (see Apply) and are
// persisted by the backends in the storage and database packages. The types
// here are plain values with no locking; callers serialize writes per user.
package preference
