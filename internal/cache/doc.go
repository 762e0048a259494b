// Tastebud - Food Ordering Backend and Personalized Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastebud

// Package cache provides a bounded, thread-safe LRU cache with per-entry
// expiry. The API uses it to remember recent Idempotency-Key results so a
// retried order placement returns the original order.
package cache
