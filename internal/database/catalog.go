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

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/tastebud/internal/metrics"
	"github.com/tomtom215/tastebud/internal/models"
	"github.com/tomtom215/tastebud/internal/recommend"
)

const itemColumns = `id, name, image, item_type, category, price, count_in_stock,
	ingredients, allergens, details, feel, rating, num_reviews, created_at, updated_at`

// Catalog default order. Ties in rating fall back to it as well.
const catalogOrder = `created_at ASC, id ASC`

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanItem(row rowScanner) (*models.Item, error) {
	var item models.Item
	var ingredients, allergens string
	err := row.Scan(
		&item.ID, &item.Name, &item.Image, &item.Type, &item.Category,
		&item.Price, &item.CountInStock, &ingredients, &allergens,
		&item.Details, &item.Feel, &item.Rating, &item.NumReviews,
		&item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(ingredients), &item.Ingredients); err != nil {
		return nil, fmt.Errorf("decode ingredients of item %s: %w", item.ID, err)
	}
	if err := json.Unmarshal([]byte(allergens), &item.Allergens); err != nil {
		return nil, fmt.Errorf("decode allergens of item %s: %w", item.ID, err)
	}
	return &item, nil
}

func scanItems(rows *sql.Rows) ([]models.Item, error) {
	items := make([]models.Item, 0)
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating items: %w", err)
	}
	return items, nil
}

// toRecommendItem projects a catalog item onto the ranking view.
func toRecommendItem(item *models.Item) recommend.Item {
	return recommend.Item{
		ID:          item.ID,
		Name:        item.Name,
		Type:        item.Type,
		Category:    item.Category,
		Ingredients: item.Ingredients,
		Price:       item.Price,
		Image:       item.Image,
		Rating:      item.Rating,
		NumReviews:  item.NumReviews,
	}
}

func toRecommendItems(items []models.Item) []recommend.Item {
	out := make([]recommend.Item, len(items))
	for i := range items {
		out[i] = toRecommendItem(&items[i])
	}
	return out
}

// CreateItem inserts a new catalog item. An empty ID is replaced with a UUID.
func (db *DB) CreateItem(ctx context.Context, item *models.Item) (err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	defer func() { metrics.RecordDBQuery("insert", "items", time.Since(start), err) }()

	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	if item.Ingredients == nil {
		item.Ingredients = []string{}
	}
	if item.Allergens == nil {
		item.Allergens = []string{}
	}
	ingredients, err := json.Marshal(item.Ingredients)
	if err != nil {
		return fmt.Errorf("encode ingredients: %w", err)
	}
	allergens, err := json.Marshal(item.Allergens)
	if err != nil {
		return fmt.Errorf("encode allergens: %w", err)
	}

	now := db.now()
	if item.CreatedAt.IsZero() {
		item.CreatedAt = now
	}
	item.UpdatedAt = now

	_, err = db.conn.ExecContext(ctx, `INSERT INTO items (`+itemColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ID, item.Name, item.Image, item.Type, item.Category, item.Price,
		item.CountInStock, string(ingredients), string(allergens), item.Details,
		item.Feel, item.Rating, item.NumReviews, item.CreatedAt, item.UpdatedAt)
	if err != nil {
		if isConstraintViolation(err) {
			return fmt.Errorf("item %s: %w", item.ID, ErrDuplicate)
		}
		return fmt.Errorf("failed to insert item: %w", err)
	}
	return nil
}

// GetItem returns one catalog item.
func (db *DB) GetItem(ctx context.Context, id string) (item *models.Item, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	defer func() { metrics.RecordDBQuery("select", "items", time.Since(start), err) }()

	item, err = scanItem(db.conn.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM items WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("item %q: %w", id, recommend.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	return item, nil
}

// ListItems returns the whole catalog in default order.
func (db *DB) ListItems(ctx context.Context) (items []models.Item, err error) {
	return db.queryItems(ctx, "list", `SELECT `+itemColumns+` FROM items ORDER BY `+catalogOrder)
}

// CountItems returns the catalog size.
func (db *DB) CountItems(ctx context.Context) (int, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var n int
	if err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM items`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count items: %w", err)
	}
	return n, nil
}

func (db *DB) queryItems(ctx context.Context, op, query string, args ...interface{}) (items []models.Item, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	defer func() { metrics.RecordDBQuery(op, "items", time.Since(start), err) }()

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer closeWithLog(rows, "rows")

	return scanItems(rows)
}

// FindByID implements recommend.Catalog.
func (db *DB) FindByID(ctx context.Context, id string) (*recommend.Item, error) {
	item, err := db.GetItem(ctx, id)
	if err != nil {
		return nil, err
	}
	ri := toRecommendItem(item)
	return &ri, nil
}

// Candidates implements recommend.Catalog.
func (db *DB) Candidates(ctx context.Context, exclude []string) ([]recommend.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items`
	if len(exclude) > 0 {
		query += ` WHERE id NOT IN (` + placeholders(len(exclude)) + `)`
	}
	query += ` ORDER BY ` + catalogOrder

	items, err := db.queryItems(ctx, "candidates", query, stringArgs(exclude)...)
	if err != nil {
		return nil, err
	}
	return toRecommendItems(items), nil
}

// ByType implements recommend.Catalog.
func (db *DB) ByType(ctx context.Context, itemType, excludeID string, sameType bool) ([]recommend.Item, error) {
	cmp := "="
	if !sameType {
		cmp = "<>"
	}
	items, err := db.queryItems(ctx, "by_type",
		`SELECT `+itemColumns+` FROM items WHERE item_type `+cmp+` ? AND id <> ? ORDER BY `+catalogOrder,
		itemType, excludeID)
	if err != nil {
		return nil, err
	}
	return toRecommendItems(items), nil
}

// TopRated implements recommend.Catalog.
func (db *DB) TopRated(ctx context.Context, limit int) ([]recommend.Item, error) {
	items, err := db.queryItems(ctx, "top_rated",
		`SELECT `+itemColumns+` FROM items ORDER BY rating DESC, `+catalogOrder+` LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	return toRecommendItems(items), nil
}

// SameCategory implements recommend.Catalog.
func (db *DB) SameCategory(ctx context.Context, itemID string, limit int) ([]recommend.Item, error) {
	anchor, err := db.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	items, err := db.queryItems(ctx, "same_category",
		`SELECT `+itemColumns+` FROM items WHERE category = ? AND id <> ?
		ORDER BY rating DESC, `+catalogOrder+` LIMIT ?`,
		anchor.Category, itemID, limit)
	if err != nil {
		return nil, err
	}
	return toRecommendItems(items), nil
}
