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
	"time"

	"github.com/tomtom215/tastebud/internal/metrics"
	"github.com/tomtom215/tastebud/internal/recommend"
	"github.com/tomtom215/tastebud/internal/recommend/preference"
)

const backendDuckDB = "duckdb"

// PreferenceStore implements recommend.PreferenceStore on DuckDB.
//
// Writes for one user are serialized by a per-user lock held until commit.
// MergeTx and CreateTx run inside a caller's transaction; callers take the
// lock with Lock and release it after their commit.
type PreferenceStore struct {
	db *DB
}

// Preferences returns the DuckDB preference store.
func (db *DB) Preferences() *PreferenceStore {
	return &PreferenceStore{db: db}
}

// Lock takes userID's write lock and returns its release function.
func (s *PreferenceStore) Lock(userID string) func() {
	mu := s.db.acquireUserLock(userID)
	return func() { releaseUserLock(mu) }
}

// storeError marks an I/O failure as transient, leaving not-found and
// stale-profile errors untouched.
func storeError(op string, err error) error {
	if err == nil || errors.Is(err, recommend.ErrNotFound) || errors.Is(err, recommend.ErrStaleProfile) {
		return err
	}
	return fmt.Errorf("%w: %s: %w", recommend.ErrTransientStore, op, err)
}

// querier is satisfied by *sql.DB and *sql.Tx.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

func profileExists(ctx context.Context, q querier, userID string) (bool, error) {
	var n int
	if err := q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM preference_stores WHERE user_id = ?`, userID).Scan(&n); err != nil {
		return false, fmt.Errorf("check preference profile: %w", err)
	}
	return n > 0, nil
}

func requireProfile(ctx context.Context, q querier, userID string) error {
	exists, err := profileExists(ctx, q, userID)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("preferences for user %q: %w", userID, recommend.ErrNotFound)
	}
	return nil
}

// Create stores an empty profile for userID unless one exists.
func (s *PreferenceStore) Create(ctx context.Context, userID string) error {
	if userID == "" {
		return fmt.Errorf("%w: empty user ID", recommend.ErrInvalidRequest)
	}
	ctx, cancel := s.db.ensureContext(ctx)
	defer cancel()

	unlock := s.Lock(userID)
	defer unlock()

	err := s.db.withTx(ctx, func(tx *sql.Tx) error {
		return s.CreateTx(ctx, tx, userID)
	})
	return storeError("create preferences", err)
}

// CreateTx is Create inside the caller's transaction.
func (s *PreferenceStore) CreateTx(ctx context.Context, tx *sql.Tx, userID string) error {
	exists, err := profileExists(ctx, tx, userID)
	if err != nil || exists {
		return err
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO preference_stores (user_id, created_at, updated_at)
		VALUES (?, ?, NULL)`, userID, s.db.now()); err != nil {
		return fmt.Errorf("insert preference profile: %w", err)
	}
	return nil
}

// Load returns the profile for userID.
func (s *PreferenceStore) Load(ctx context.Context, userID string) (prefs *preference.Preferences, err error) {
	ctx, cancel := s.db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	defer func() { metrics.RecordDBQuery("load", "preferences", time.Since(start), err) }()

	var updatedAt sql.NullTime
	var revision int64
	err = s.db.conn.QueryRowContext(ctx,
		`SELECT updated_at, revision FROM preference_stores WHERE user_id = ? LIMIT 1`, userID).Scan(&updatedAt, &revision)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("preferences for user %q: %w", userID, recommend.ErrNotFound)
	}
	if err != nil {
		return nil, storeError("load preferences", err)
	}

	prefs = preference.New(userID)
	prefs.Revision = revision
	if updatedAt.Valid {
		prefs.UpdatedAt = updatedAt.Time.UTC()
	}

	if err := loadEntries(ctx, s.db.conn, `SELECT name, score FROM preference_ingredients
		WHERE user_id = ? ORDER BY position`, userID, prefs.Ingredients.Add); err != nil {
		return nil, storeError("load ingredient preferences", err)
	}
	if err := loadEntries(ctx, s.db.conn, `SELECT name, count FROM preference_types
		WHERE user_id = ? ORDER BY position`, userID, prefs.Types.Add); err != nil {
		return nil, storeError("load type preferences", err)
	}
	if err := loadEntries(ctx, s.db.conn, `SELECT name, count FROM preference_categories
		WHERE user_id = ? ORDER BY position`, userID, prefs.Categories.Add); err != nil {
		return nil, storeError("load category preferences", err)
	}
	return prefs, nil
}

func loadEntries[N preference.Number](ctx context.Context, q querier, query, userID string, add func(string, N)) error {
	rows, err := q.QueryContext(ctx, query, userID)
	if err != nil {
		return err
	}
	defer closeWithLog(rows, "rows")

	for rows.Next() {
		var name string
		var value N
		if err := rows.Scan(&name, &value); err != nil {
			return err
		}
		add(name, value)
	}
	return rows.Err()
}

// Save replaces the profile for prefs.UserID. The profile must exist.
func (s *PreferenceStore) Save(ctx context.Context, prefs *preference.Preferences) error {
	ctx, cancel := s.db.ensureContext(ctx)
	defer cancel()

	unlock := s.Lock(prefs.UserID)
	defer unlock()

	start := time.Now()
	err := s.db.withTxRetry(ctx, nil, func(tx *sql.Tx) error {
		if err := requireProfile(ctx, tx, prefs.UserID); err != nil {
			return err
		}
		if err := writeEntries(ctx, tx, prefs); err != nil {
			return err
		}
		return touchProfile(ctx, tx, prefs.UserID, s.db.now())
	})
	metrics.RecordDBQuery("save", "preferences", time.Since(start), err)
	return storeError("save preferences", err)
}

// Replace swaps in prefs and the applied-order set under userID's lock if
// the stored revision is still expectedRevision.
func (s *PreferenceStore) Replace(ctx context.Context, prefs *preference.Preferences, expectedRevision int64, applied []string) error {
	ctx, cancel := s.db.ensureContext(ctx)
	defer cancel()

	unlock := s.Lock(prefs.UserID)
	defer unlock()

	start := time.Now()
	err := s.db.withTxRetry(ctx, nil, func(tx *sql.Tx) error {
		var revision int64
		err := tx.QueryRowContext(ctx,
			`SELECT revision FROM preference_stores WHERE user_id = ? LIMIT 1`, prefs.UserID).Scan(&revision)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("preferences for user %q: %w", prefs.UserID, recommend.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("read preference revision: %w", err)
		}
		if revision != expectedRevision {
			return fmt.Errorf("preferences for user %q at revision %d, expected %d: %w",
				prefs.UserID, revision, expectedRevision, recommend.ErrStaleProfile)
		}

		if err := writeEntries(ctx, tx, prefs); err != nil {
			return err
		}

		now := s.db.now()
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM preference_applied_orders WHERE user_id = ?`, prefs.UserID); err != nil {
			return fmt.Errorf("clear applied orders: %w", err)
		}
		for _, orderID := range applied {
			if orderID == "" {
				continue
			}
			if _, err := tx.ExecContext(ctx, `INSERT INTO preference_applied_orders (user_id, order_id, applied_at)
				VALUES (?, ?, ?)`, prefs.UserID, orderID, now); err != nil {
				return fmt.Errorf("record applied order: %w", err)
			}
		}
		return touchProfile(ctx, tx, prefs.UserID, now)
	})
	metrics.RecordDBQuery("replace", "preferences", time.Since(start), err)
	return storeError("replace preferences", err)
}

// writeEntries replaces userID's ingredient, type and category rows with
// the entries of prefs, keeping insertion order.
func writeEntries(ctx context.Context, tx *sql.Tx, prefs *preference.Preferences) error {
	for _, table := range []string{"preference_ingredients", "preference_types", "preference_categories"} {
		//nolint:gosec // table names come from the fixed list above
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE user_id = ?`, prefs.UserID); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	for i, e := range prefs.Ingredients.Entries() {
		if err := insertIngredient(ctx, tx, prefs.UserID, prefs.Ingredients.Key(e.Name), e.Name, e.Value, i); err != nil {
			return err
		}
	}
	for i, e := range prefs.Types.Entries() {
		if err := insertCount(ctx, tx, "preference_types", prefs.UserID, e.Name, e.Value, i); err != nil {
			return err
		}
	}
	for i, e := range prefs.Categories.Entries() {
		if err := insertCount(ctx, tx, "preference_categories", prefs.UserID, e.Name, e.Value, i); err != nil {
			return err
		}
	}
	return nil
}

// Merge adds delta to userID's profile and records orderID in one
// transaction. A replayed orderID leaves the profile unchanged.
func (s *PreferenceStore) Merge(ctx context.Context, userID, orderID string, delta *preference.Preferences) (bool, error) {
	ctx, cancel := s.db.ensureContext(ctx)
	defer cancel()

	unlock := s.Lock(userID)
	defer unlock()

	start := time.Now()
	var applied bool
	err := s.db.withTxRetry(ctx, func() { metrics.RecordPreferenceMergeRetry(backendDuckDB) }, func(tx *sql.Tx) error {
		var err error
		applied, err = s.mergeTx(ctx, tx, userID, orderID, delta)
		return err
	})
	err = storeError("merge preferences", err)
	metrics.RecordPreferenceMerge(backendDuckDB, time.Since(start), applied && err == nil, err)
	if err != nil {
		return false, err
	}
	return applied, nil
}

// MergeTx is Merge inside the caller's transaction. The caller must hold
// userID's lock from before this call until after its commit.
func (s *PreferenceStore) MergeTx(ctx context.Context, tx *sql.Tx, userID, orderID string, delta *preference.Preferences) (bool, error) {
	start := time.Now()
	applied, err := s.mergeTx(ctx, tx, userID, orderID, delta)
	err = storeError("merge preferences", err)
	metrics.RecordPreferenceMerge(backendDuckDB, time.Since(start), applied && err == nil, err)
	return applied, err
}

func (s *PreferenceStore) mergeTx(ctx context.Context, tx *sql.Tx, userID, orderID string, delta *preference.Preferences) (bool, error) {
	if err := requireProfile(ctx, tx, userID); err != nil {
		return false, err
	}

	if orderID != "" {
		var n int
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM preference_applied_orders
			WHERE user_id = ? AND order_id = ?`, userID, orderID).Scan(&n); err != nil {
			return false, fmt.Errorf("check applied order: %w", err)
		}
		if n > 0 {
			return false, nil
		}
	}

	if delta != nil {
		if err := mergeIngredients(ctx, tx, userID, delta); err != nil {
			return false, err
		}
		if err := mergeCounts(ctx, tx, "preference_types", userID, delta.Types.Entries()); err != nil {
			return false, err
		}
		if err := mergeCounts(ctx, tx, "preference_categories", userID, delta.Categories.Entries()); err != nil {
			return false, err
		}
	}

	now := s.db.now()
	if orderID != "" {
		if _, err := tx.ExecContext(ctx, `INSERT INTO preference_applied_orders (user_id, order_id, applied_at)
			VALUES (?, ?, ?)`, userID, orderID, now); err != nil {
			return false, fmt.Errorf("record applied order: %w", err)
		}
	}
	if err := touchProfile(ctx, tx, userID, now); err != nil {
		return false, err
	}
	return true, nil
}

// existingKeys returns the key column of userID's rows mapped to nothing,
// plus the next free position.
func existingKeys(ctx context.Context, tx *sql.Tx, query, userID string) (map[string]struct{}, int, error) {
	rows, err := tx.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, 0, err
	}
	defer closeWithLog(rows, "rows")

	keys := make(map[string]struct{})
	next := 0
	for rows.Next() {
		var key string
		var pos int
		if err := rows.Scan(&key, &pos); err != nil {
			return nil, 0, err
		}
		keys[key] = struct{}{}
		if pos >= next {
			next = pos + 1
		}
	}
	return keys, next, rows.Err()
}

func mergeIngredients(ctx context.Context, tx *sql.Tx, userID string, delta *preference.Preferences) error {
	keys, next, err := existingKeys(ctx, tx,
		`SELECT fold_key, position FROM preference_ingredients WHERE user_id = ?`, userID)
	if err != nil {
		return fmt.Errorf("read ingredient preferences: %w", err)
	}

	for _, e := range delta.Ingredients.Entries() {
		key := delta.Ingredients.Key(e.Name)
		if _, ok := keys[key]; ok {
			if _, err := tx.ExecContext(ctx, `UPDATE preference_ingredients SET score = score + ?
				WHERE user_id = ? AND fold_key = ?`, e.Value, userID, key); err != nil {
				return fmt.Errorf("update ingredient %q: %w", e.Name, err)
			}
			continue
		}
		if err := insertIngredient(ctx, tx, userID, key, e.Name, e.Value, next); err != nil {
			return err
		}
		keys[key] = struct{}{}
		next++
	}
	return nil
}

func mergeCounts(ctx context.Context, tx *sql.Tx, table, userID string, entries []preference.Entry[int64]) error {
	//nolint:gosec // table is one of the fixed preference tables
	keys, next, err := existingKeys(ctx, tx, `SELECT name, position FROM `+table+` WHERE user_id = ?`, userID)
	if err != nil {
		return fmt.Errorf("read %s: %w", table, err)
	}

	for _, e := range entries {
		if _, ok := keys[e.Name]; ok {
			//nolint:gosec // table is one of the fixed preference tables
			if _, err := tx.ExecContext(ctx, `UPDATE `+table+` SET count = count + ?
				WHERE user_id = ? AND name = ?`, e.Value, userID, e.Name); err != nil {
				return fmt.Errorf("update %s %q: %w", table, e.Name, err)
			}
			continue
		}
		if err := insertCount(ctx, tx, table, userID, e.Name, e.Value, next); err != nil {
			return err
		}
		keys[e.Name] = struct{}{}
		next++
	}
	return nil
}

func insertIngredient(ctx context.Context, tx *sql.Tx, userID, key, name string, score float64, pos int) error {
	if _, err := tx.ExecContext(ctx, `INSERT INTO preference_ingredients (user_id, fold_key, name, score, position)
		VALUES (?, ?, ?, ?, ?)`, userID, key, name, score, pos); err != nil {
		return fmt.Errorf("insert ingredient %q: %w", name, err)
	}
	return nil
}

func insertCount(ctx context.Context, tx *sql.Tx, table, userID, name string, count int64, pos int) error {
	//nolint:gosec // table is one of the fixed preference tables
	if _, err := tx.ExecContext(ctx, `INSERT INTO `+table+` (user_id, name, count, position)
		VALUES (?, ?, ?, ?)`, userID, name, count, pos); err != nil {
		return fmt.Errorf("insert %s %q: %w", table, name, err)
	}
	return nil
}

func touchProfile(ctx context.Context, tx *sql.Tx, userID string, now time.Time) error {
	if _, err := tx.ExecContext(ctx,
		`UPDATE preference_stores SET updated_at = ?, revision = revision + 1 WHERE user_id = ?`, now, userID); err != nil {
		return fmt.Errorf("touch preference profile: %w", err)
	}
	return nil
}
