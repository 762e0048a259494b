// Tastebud - Food Ordering Backend and Personalized Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastebud

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tomtom215/tastebud/internal/metrics"
	"github.com/tomtom215/tastebud/internal/models"
	"github.com/tomtom215/tastebud/internal/recommend"
)

// CreateUser inserts a user. Emails are stored lower-cased and must be
// unique; a second registration returns ErrDuplicate. apply runs in the same
// transaction, which is where the user's empty preference profile is created.
func (db *DB) CreateUser(ctx context.Context, user *models.User, apply TxFunc) (err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	defer func() { metrics.RecordDBQuery("insert", "users", time.Since(start), err) }()

	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	if user.CreatedAt.IsZero() {
		user.CreatedAt = db.now()
	}

	return db.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `INSERT INTO users (id, name, email, password_hash, created_at)
			VALUES (?, ?, ?, ?, ?)`,
			user.ID, user.Name, user.Email, user.PasswordHash, user.CreatedAt); err != nil {
			if isConstraintViolation(err) {
				return fmt.Errorf("user with email %q: %w", user.Email, ErrDuplicate)
			}
			return fmt.Errorf("failed to insert user: %w", err)
		}
		if apply != nil {
			return apply(ctx, tx)
		}
		return nil
	})
}

// GetUser returns one user.
func (db *DB) GetUser(ctx context.Context, id string) (user *models.User, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	defer func() { metrics.RecordDBQuery("select", "users", time.Since(start), err) }()

	var u models.User
	err = db.conn.QueryRowContext(ctx,
		`SELECT id, name, email, password_hash, created_at FROM users WHERE id = ?`, id).
		Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %q: %w", id, recommend.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &u, nil
}
