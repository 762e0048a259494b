// Tastebud - Food Ordering Backend and Personalized Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastebud

/*
database_schema.go - Database Schema Management

Tables:
  - users: registered customers (unique email)
  - items: the menu; ingredients and allergens are JSON arrays
  - reviews: append-only ratings; the latest per (user, item) wins
  - orders, order_lines: placed orders with prices captured at order time
  - preference_stores: one row per user, created at registration
  - preference_ingredients, preference_types, preference_categories:
    accumulated profile entries, one row per (user, key)
  - preference_applied_orders: orders already folded into a profile

Preference tables have no unique constraints. DuckDB checks uniqueness
eagerly inside a transaction, and a merge updates rows it may also have to
insert; per-user locks provide the uniqueness guarantee instead.
*/

//nolint:staticcheck // File documentation, not package doc
package database

import (
	"context"
	"fmt"
	"time"
)

// schemaContext returns a context with timeout for schema operations
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

// createTables creates the core database tables
func (db *DB) createTables() error {
	ctx, cancel := schemaContext()
	defer cancel()

	for _, query := range tableCreationQueries {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %s: %w", query, err)
		}
	}
	return nil
}

var tableCreationQueries = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS items (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		image TEXT NOT NULL DEFAULT '',
		item_type TEXT NOT NULL,
		category TEXT NOT NULL,
		price DOUBLE NOT NULL DEFAULT 0,
		count_in_stock INTEGER NOT NULL DEFAULT 0,
		ingredients TEXT NOT NULL DEFAULT '[]',
		allergens TEXT NOT NULL DEFAULT '[]',
		details TEXT NOT NULL DEFAULT '',
		feel TEXT NOT NULL DEFAULT '',
		rating DOUBLE NOT NULL DEFAULT 0,
		num_reviews INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS reviews (
		id TEXT PRIMARY KEY,
		item_id TEXT NOT NULL,
		user_id TEXT NOT NULL,
		rating INTEGER NOT NULL,
		comment TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL,
		seq BIGINT NOT NULL
	)`,

	`CREATE SEQUENCE IF NOT EXISTS review_seq START 1`,

	`CREATE TABLE IF NOT EXISTS orders (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		address_line1 TEXT NOT NULL,
		address_town TEXT NOT NULL,
		address_postcode TEXT NOT NULL,
		amount DOUBLE NOT NULL,
		status TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL,
		seq BIGINT NOT NULL
	)`,

	`CREATE SEQUENCE IF NOT EXISTS order_seq START 1`,

	`CREATE TABLE IF NOT EXISTS order_lines (
		order_id TEXT NOT NULL,
		line_no INTEGER NOT NULL,
		item_id TEXT NOT NULL,
		name TEXT NOT NULL,
		quantity INTEGER NOT NULL,
		price DOUBLE NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS preference_stores (
		user_id TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP,
		revision BIGINT NOT NULL DEFAULT 0
	)`,

	`CREATE TABLE IF NOT EXISTS preference_ingredients (
		user_id TEXT NOT NULL,
		fold_key TEXT NOT NULL,
		name TEXT NOT NULL,
		score DOUBLE NOT NULL,
		position INTEGER NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS preference_types (
		user_id TEXT NOT NULL,
		name TEXT NOT NULL,
		count BIGINT NOT NULL,
		position INTEGER NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS preference_categories (
		user_id TEXT NOT NULL,
		name TEXT NOT NULL,
		count BIGINT NOT NULL,
		position INTEGER NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS preference_applied_orders (
		user_id TEXT NOT NULL,
		order_id TEXT NOT NULL,
		applied_at TIMESTAMP NOT NULL
	)`,
}

// createIndexes creates indexes for the common lookups
func (db *DB) createIndexes() error {
	ctx, cancel := schemaContext()
	defer cancel()

	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_items_created ON items(created_at, id)`,
		`CREATE INDEX IF NOT EXISTS idx_reviews_user ON reviews(user_id, seq)`,
		`CREATE INDEX IF NOT EXISTS idx_reviews_item ON reviews(item_id)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_user ON orders(user_id, seq)`,
		`CREATE INDEX IF NOT EXISTS idx_order_lines_order ON order_lines(order_id)`,
		`CREATE INDEX IF NOT EXISTS idx_pref_stores_user ON preference_stores(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_pref_ingredients_user ON preference_ingredients(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_pref_types_user ON preference_types(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_pref_categories_user ON preference_categories(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_pref_applied_user ON preference_applied_orders(user_id, order_id)`,
	}

	for _, query := range indexes {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to create index: %s: %w", query, err)
		}
	}
	return nil
}
