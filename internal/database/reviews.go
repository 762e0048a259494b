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

	"github.com/google/uuid"

	"github.com/tomtom215/tastebud/internal/metrics"
	"github.com/tomtom215/tastebud/internal/models"
	"github.com/tomtom215/tastebud/internal/recommend"
)

// AddReview appends a review and folds it into the item's running average.
// Earlier reviews by the same user stay in the average; only the latest one
// is used as the user's rating of the item.
func (db *DB) AddReview(ctx context.Context, review *models.Review) (err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	defer func() { metrics.RecordDBQuery("insert", "reviews", time.Since(start), err) }()

	if review.ID == "" {
		review.ID = uuid.New().String()
	}
	if review.CreatedAt.IsZero() {
		review.CreatedAt = db.now()
	}

	return db.withTxRetry(ctx, nil, func(tx *sql.Tx) error {
		var rating float64
		var numReviews int
		err := tx.QueryRowContext(ctx,
			`SELECT rating, num_reviews FROM items WHERE id = ?`, review.ItemID).Scan(&rating, &numReviews)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("item %q: %w", review.ItemID, recommend.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("failed to read item rating: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `INSERT INTO reviews
			(id, item_id, user_id, rating, comment, created_at, seq)
			VALUES (?, ?, ?, ?, ?, ?, nextval('review_seq'))`,
			review.ID, review.ItemID, review.UserID, review.Rating, review.Comment, review.CreatedAt); err != nil {
			return fmt.Errorf("failed to insert review: %w", err)
		}

		total := rating*float64(numReviews) + float64(review.Rating)
		numReviews++
		if _, err := tx.ExecContext(ctx,
			`UPDATE items SET rating = ?, num_reviews = ?, updated_at = ? WHERE id = ?`,
			total/float64(numReviews), numReviews, review.CreatedAt, review.ItemID); err != nil {
			return fmt.Errorf("failed to update item rating: %w", err)
		}
		return nil
	})
}

// ListReviews returns an item's reviews, newest first.
func (db *DB) ListReviews(ctx context.Context, itemID string) (reviews []models.Review, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	defer func() { metrics.RecordDBQuery("list", "reviews", time.Since(start), err) }()

	rows, err := db.conn.QueryContext(ctx, `SELECT id, item_id, user_id, rating, comment, created_at
		FROM reviews WHERE item_id = ? ORDER BY seq DESC`, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to query reviews: %w", err)
	}
	defer closeWithLog(rows, "rows")

	reviews = make([]models.Review, 0)
	for rows.Next() {
		var r models.Review
		if err := rows.Scan(&r.ID, &r.ItemID, &r.UserID, &r.Rating, &r.Comment, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		reviews = append(reviews, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reviews: %w", err)
	}
	return reviews, nil
}

// LatestRating implements recommend.ReviewHistory.
func (db *DB) LatestRating(ctx context.Context, userID, itemID string) (rating int, ok bool, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	defer func() { metrics.RecordDBQuery("latest_rating", "reviews", time.Since(start), err) }()

	err = db.conn.QueryRowContext(ctx, `SELECT rating FROM reviews
		WHERE user_id = ? AND item_id = ? ORDER BY seq DESC LIMIT 1`, userID, itemID).Scan(&rating)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to get latest rating: %w", err)
	}
	return rating, true, nil
}

// LatestReview implements recommend.ReviewHistory.
func (db *DB) LatestReview(ctx context.Context, userID string) (review *recommend.Review, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	defer func() { metrics.RecordDBQuery("latest_review", "reviews", time.Since(start), err) }()

	var r recommend.Review
	err = db.conn.QueryRowContext(ctx, `SELECT item_id, user_id, rating, created_at FROM reviews
		WHERE user_id = ? ORDER BY seq DESC LIMIT 1`, userID).Scan(&r.ItemID, &r.UserID, &r.Rating, &r.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest review: %w", err)
	}
	return &r, nil
}
