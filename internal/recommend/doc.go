// Tastebud - Food Ordering Backend and Personalized Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastebud

// Package recommend implements the personalization core of Tastebud.
//
// # Architecture
//
// The core has two paths that share one per-user preference profile:
//
//	order placed ──► Updater ──► PreferenceStore.Merge
//	request      ──► Engine  ──► Strategy ──► Catalog / OrderHistory / PreferenceStore
//
// The Updater resolves each ordered item against the Catalog and the user's
// review history, folds the lines into a delta with preference.Apply, and
// merges the delta atomically at the storage boundary. A merge carries the
// order ID so that retrying a failed placement never counts an order twice.
//
// The Engine validates a Request, picks the Strategy registered for the
// requested Mode and records metrics. Strategies live in the algorithms
// package:
//
//   - ModePersonalized: rank all items outside the last order by summed
//     ingredient affinity (deterministic, stable on catalog order)
//   - ModeRating: sample items of the same or a different type depending on
//     whether the user's latest review was favorable
//   - ModePopular: top-rated items, the fallback for users with no history
//   - ModeSimilar: top-rated items in the same category as a given item
//
// # Errors
//
// Failures are reported through the sentinel errors in errors.go and are
// always wrapped, so callers use errors.Is. A user with no order history is
// not an error: the result is empty and Metadata.EmptyHistory is set.
//
// # Concurrency
//
// Engine and Updater hold no per-request state and are safe for concurrent
// use. All shared state lives behind the collaborator interfaces.
package recommend
