// Tastebud - Food Ordering Backend and Personalized Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastebud

// Package storage provides PreferenceStore backends that live outside the
// SQL database.
//
// # Backends
//
//   - MemoryStore: process-local maps guarded by per-user locks. Used in
//     tests and for preferences.backend=memory.
//   - BadgerStore: one JSON snapshot per user in BadgerDB, plus one marker
//     key per applied order. Used for preferences.backend=badger.
//
// The DuckDB backend lives in internal/database because it shares a
// transaction with order inserts.
//
// # Atomicity
//
// Merge applies a whole order delta and its applied-order marker in one
// step. BadgerStore runs both inside a single read-write transaction and
// retries the transaction when Badger reports a write conflict, so two
// concurrent merges for the same user never lose an update.
//
// # Errors
//
// Missing profiles are reported as recommend.ErrNotFound. Every other
// storage failure wraps recommend.ErrTransientStore.
package storage
