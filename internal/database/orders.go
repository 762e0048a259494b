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
	"github.com/tomtom215/tastebud/internal/models"
	"github.com/tomtom215/tastebud/internal/recommend"
)

// TxFunc runs extra work inside another operation's transaction.
type TxFunc func(ctx context.Context, tx *sql.Tx) error

const orderColumns = `id, user_id, address_line1, address_town, address_postcode,
	amount, status, created_at, updated_at`

// PlaceOrder inserts the order and its lines. When apply is set it runs in
// the same transaction, so a failure in apply leaves no order behind.
func (db *DB) PlaceOrder(ctx context.Context, order *models.Order, apply TxFunc) (err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	defer func() { metrics.RecordDBQuery("insert", "orders", time.Since(start), err) }()

	now := db.now()
	if order.CreatedAt.IsZero() {
		order.CreatedAt = now
	}
	order.UpdatedAt = order.CreatedAt
	if order.Status == "" {
		order.Status = models.OrderStatusNotDelivered
	}

	return db.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `INSERT INTO orders (`+orderColumns+`, seq)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, nextval('order_seq'))`,
			order.ID, order.UserID, order.Address.Line1, order.Address.Town, order.Address.Postcode,
			order.Amount, string(order.Status), order.CreatedAt, order.UpdatedAt); err != nil {
			if isConstraintViolation(err) {
				return fmt.Errorf("order %s: %w", order.ID, ErrDuplicate)
			}
			return fmt.Errorf("failed to insert order: %w", err)
		}

		for i, line := range order.Lines {
			if _, err := tx.ExecContext(ctx, `INSERT INTO order_lines
				(order_id, line_no, item_id, name, quantity, price) VALUES (?, ?, ?, ?, ?, ?)`,
				order.ID, i, line.ItemID, line.Name, line.Quantity, line.Price); err != nil {
				return fmt.Errorf("failed to insert order line %d: %w", i, err)
			}
		}

		if apply != nil {
			return apply(ctx, tx)
		}
		return nil
	})
}

func scanOrder(row rowScanner) (*models.Order, error) {
	var o models.Order
	var status string
	if err := row.Scan(&o.ID, &o.UserID, &o.Address.Line1, &o.Address.Town, &o.Address.Postcode,
		&o.Amount, &status, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, err
	}
	o.Status = models.OrderStatus(status)
	o.Lines = []models.OrderLine{}
	return &o, nil
}

// GetOrder returns one order with its lines.
func (db *DB) GetOrder(ctx context.Context, id string) (order *models.Order, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	defer func() { metrics.RecordDBQuery("select", "orders", time.Since(start), err) }()

	order, err = scanOrder(db.conn.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("order %q: %w", id, recommend.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	lines, err := db.orderLines(ctx, `WHERE l.order_id = ?`, id)
	if err != nil {
		return nil, err
	}
	order.Lines = append(order.Lines, lines[id]...)
	return order, nil
}

// ListOrdersByUser returns the user's orders, newest first.
func (db *DB) ListOrdersByUser(ctx context.Context, userID string) ([]models.Order, error) {
	return db.ordersForUser(ctx, userID, "DESC")
}

func (db *DB) ordersForUser(ctx context.Context, userID, direction string) (orders []models.Order, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	defer func() { metrics.RecordDBQuery("list", "orders", time.Since(start), err) }()

	rows, err := db.conn.QueryContext(ctx, `SELECT `+orderColumns+` FROM orders
		WHERE user_id = ? ORDER BY seq `+direction, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer closeWithLog(rows, "rows")

	orders = make([]models.Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}
	if len(orders) == 0 {
		return orders, nil
	}

	lines, err := db.orderLines(ctx, `JOIN orders o ON o.id = l.order_id WHERE o.user_id = ?`, userID)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		orders[i].Lines = append(orders[i].Lines, lines[orders[i].ID]...)
	}
	return orders, nil
}

// orderLines loads order lines grouped by order ID, in line order.
func (db *DB) orderLines(ctx context.Context, where string, args ...interface{}) (map[string][]models.OrderLine, error) {
	rows, err := db.conn.QueryContext(ctx, `SELECT l.order_id, l.item_id, l.name, l.quantity, l.price
		FROM order_lines l `+where+` ORDER BY l.order_id, l.line_no`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query order lines: %w", err)
	}
	defer closeWithLog(rows, "rows")

	lines := make(map[string][]models.OrderLine)
	for rows.Next() {
		var orderID string
		var l models.OrderLine
		if err := rows.Scan(&orderID, &l.ItemID, &l.Name, &l.Quantity, &l.Price); err != nil {
			return nil, fmt.Errorf("failed to scan order line: %w", err)
		}
		lines[orderID] = append(lines[orderID], l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating order lines: %w", err)
	}
	return lines, nil
}

// UpdateOrderStatus sets the delivery status of an order and returns it.
func (db *DB) UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus) (*models.Order, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown order status %q", recommend.ErrInvalidRequest, status)
	}

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	res, err := db.conn.ExecContext(ctx, `UPDATE orders SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), db.now(), id)
	metrics.RecordDBQuery("update", "orders", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, fmt.Errorf("order %q: %w", id, recommend.ErrNotFound)
	}
	return db.GetOrder(ctx, id)
}

func toSnapshot(o *models.Order) recommend.OrderSnapshot {
	lines := make([]recommend.OrderLine, len(o.Lines))
	for i, l := range o.Lines {
		lines[i] = recommend.OrderLine{ItemID: l.ItemID, Quantity: l.Quantity}
	}
	return recommend.OrderSnapshot{
		ID:        o.ID,
		UserID:    o.UserID,
		Lines:     lines,
		CreatedAt: o.CreatedAt,
	}
}

// MostRecent implements recommend.OrderHistory.
func (db *DB) MostRecent(ctx context.Context, userID string) (snap *recommend.OrderSnapshot, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var id string
	err = db.conn.QueryRowContext(ctx,
		`SELECT id FROM orders WHERE user_id = ? ORDER BY seq DESC LIMIT 1`, userID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get most recent order: %w", err)
	}

	order, err := db.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	s := toSnapshot(order)
	return &s, nil
}

// ForUser implements recommend.OrderHistory.
func (db *DB) ForUser(ctx context.Context, userID string) ([]recommend.OrderSnapshot, error) {
	orders, err := db.ordersForUser(ctx, userID, "ASC")
	if err != nil {
		return nil, err
	}
	snaps := make([]recommend.OrderSnapshot, len(orders))
	for i := range orders {
		snaps[i] = toSnapshot(&orders[i])
	}
	return snaps, nil
}
