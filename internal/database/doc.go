// Tastebud - Food Ordering Backend and Personalized Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastebud

// Package database provides data access for Tastebud on DuckDB.
//
// # Overview
//
// The package owns the relational schema (users, items, reviews, orders,
// order lines and preference tables) and implements the read interfaces
// the recommendation core consumes: recommend.Catalog,
// recommend.OrderHistory and recommend.ReviewHistory. It also provides a
// recommend.PreferenceStore whose Merge can join the order insert's
// transaction.
//
// # Architecture
//
//   - database.go: lifecycle (open, schema initialization, close)
//   - database_schema.go: table and index creation
//   - database_connection.go: pool configuration and conflict detection
//   - database_utils.go: context timeouts and checkpoints
//   - catalog.go: items and the Catalog queries
//   - reviews.go: reviews and running rating averages
//   - orders.go: order placement and OrderHistory
//   - users.go: user registration
//   - preferences.go: the DuckDB PreferenceStore
//   - seed.go: development sample menu
//
// # Transactions
//
// PlaceOrder and CreateUser accept a callback that runs inside the same SQL
// transaction as the insert. The order service passes
// PreferenceStore.MergeTx there, so an order and its preference update
// commit or roll back together.
//
// # Concurrency
//
// Preference rows carry no unique constraints. Writes for one user are
// serialized by a per-user mutex held for the whole transaction, which
// keeps DuckDB's optimistic concurrency from rejecting concurrent merges.
//
// # Errors
//
// Missing rows are reported as recommend.ErrNotFound and unique
// violations as ErrDuplicate. All queries run with a 30 second timeout
// unless the caller's context has an earlier deadline.
package database
