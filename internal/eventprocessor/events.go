// Tastebud - Food Ordering Backend and Personalized Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastebud

package eventprocessor

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// SchemaVersion is the current OrderPlacedEvent schema version.
const SchemaVersion = 1

// TopicOrderPlaced is the subject order events are published on.
const TopicOrderPlaced = "orders.placed"

// OrderLine is one line of an order event.
type OrderLine struct {
	ItemID   string  `json:"item_id"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// OrderPlacedEvent announces a committed order.
type OrderPlacedEvent struct {
	SchemaVersion int         `json:"schema_version"`
	EventID       string      `json:"event_id"`
	CorrelationID string      `json:"correlation_id,omitempty"`
	OrderID       string      `json:"order_id"`
	UserID        string      `json:"user_id"`
	Lines         []OrderLine `json:"lines"`
	Amount        float64     `json:"amount"`
	PlacedAt      time.Time   `json:"placed_at"`

	// PreferencesApplied is false when the order had already been merged
	// into the user's profile, which only happens on a replayed order ID.
	PreferencesApplied bool `json:"preferences_applied"`
}

// NewOrderPlacedEvent returns an event with a fresh event ID.
func NewOrderPlacedEvent(orderID, userID string, lines []OrderLine, amount float64, placedAt time.Time) *OrderPlacedEvent {
	return &OrderPlacedEvent{
		SchemaVersion:      SchemaVersion,
		EventID:            uuid.New().String(),
		OrderID:            orderID,
		UserID:             userID,
		Lines:              lines,
		Amount:             amount,
		PlacedAt:           placedAt.UTC(),
		PreferencesApplied: true,
	}
}

// Topic returns the subject for the event.
func (e *OrderPlacedEvent) Topic() string {
	return TopicOrderPlaced
}

// Validate checks the fields consumers rely on.
func (e *OrderPlacedEvent) Validate() error {
	switch {
	case e.EventID == "":
		return fmt.Errorf("%w: event_id is required", ErrInvalidEvent)
	case e.OrderID == "":
		return fmt.Errorf("%w: order_id is required", ErrInvalidEvent)
	case e.UserID == "":
		return fmt.Errorf("%w: user_id is required", ErrInvalidEvent)
	case len(e.Lines) == 0:
		return fmt.Errorf("%w: order has no lines", ErrInvalidEvent)
	case e.PlacedAt.IsZero():
		return fmt.Errorf("%w: placed_at is required", ErrInvalidEvent)
	}
	return nil
}

// Marshal validates and encodes the event.
func (e *OrderPlacedEvent) Marshal() ([]byte, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	return data, nil
}

// UnmarshalOrderPlaced decodes an event. Events without a schema version are
// treated as version 1.
func UnmarshalOrderPlaced(data []byte) (*OrderPlacedEvent, error) {
	var e OrderPlacedEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("unmarshal event: %w", err)
	}
	if e.SchemaVersion == 0 {
		e.SchemaVersion = SchemaVersion
	}
	return &e, nil
}
