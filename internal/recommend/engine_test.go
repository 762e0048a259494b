// Tastebud - Food Ordering Backend and Personalized Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastebud

package recommend

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
)

// stubStrategy returns a fixed result or error.
type stubStrategy struct {
	name   string
	mode   Mode
	items  []ScoredItem
	err    error
	gotReq Request
}

func (s *stubStrategy) Name() string { return s.name }
func (s *stubStrategy) Mode() Mode   { return s.mode }

//nolint:gocritic // hugeParam: mirrors the Strategy signature
func (s *stubStrategy) Recommend(_ context.Context, req Request) (*Result, error) {
	s.gotReq = req
	if s.err != nil {
		return nil, s.err
	}
	return &Result{Items: s.items, TotalCandidates: len(s.items)}, nil
}

func scoredItems(n int) []ScoredItem {
	items := make([]ScoredItem, n)
	for i := range items {
		items[i] = ScoredItem{Item: Item{ID: fmt.Sprintf("item-%d", i)}, Score: float64(n - i)}
	}
	return items
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := NewEngine(DefaultConfig(), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	return e
}

func TestNewEngine_InvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Limits.DefaultK = 0

	if _, err := NewEngine(cfg, zerolog.Nop()); err == nil {
		t.Error("NewEngine() error = nil, want error for invalid config")
	}
}

func TestEngine_Recommend_KLimits(t *testing.T) {
	tests := []struct {
		name    string
		k       int
		wantK   int
		wantLen int
	}{
		{"default k", 0, 4, 4},
		{"explicit k", 2, 2, 2},
		{"clamped to max", 500, 50, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine(t)
			s := &stubStrategy{name: "stub", mode: ModePersonalized, items: scoredItems(10)}
			e.Register(s)

			resp, err := e.Recommend(context.Background(), Request{UserID: "u1", K: tt.k})
			if err != nil {
				t.Fatalf("Recommend() error = %v", err)
			}
			if s.gotReq.K != tt.wantK {
				t.Errorf("strategy got K = %d, want %d", s.gotReq.K, tt.wantK)
			}
			if len(resp.Items) != tt.wantLen {
				t.Errorf("len(Items) = %d, want %d", len(resp.Items), tt.wantLen)
			}
			if resp.Metadata.Strategy != "stub" {
				t.Errorf("Metadata.Strategy = %q, want %q", resp.Metadata.Strategy, "stub")
			}
		})
	}
}

func TestEngine_Recommend_InvalidRequests(t *testing.T) {
	tests := []struct {
		name string
		req  Request
	}{
		{"negative k", Request{UserID: "u1", K: -1}},
		{"personalized without user", Request{Mode: ModePersonalized}},
		{"rating without user", Request{Mode: ModeRating}},
		{"similar without item", Request{Mode: ModeSimilar}},
		{"unknown mode", Request{UserID: "u1", Mode: Mode(99)}},
		{"unregistered mode", Request{Mode: ModePopular}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine(t)
			e.Register(&stubStrategy{name: "stub", mode: ModePersonalized})

			_, err := e.Recommend(context.Background(), tt.req)
			if !errors.Is(err, ErrInvalidRequest) {
				t.Errorf("error = %v, want ErrInvalidRequest", err)
			}
		})
	}
}

func TestEngine_Recommend_PropagatesErrorKinds(t *testing.T) {
	for _, kind := range []error{ErrInvariantViolation, ErrTransientStore, ErrNotFound} {
		t.Run(kind.Error(), func(t *testing.T) {
			e := newTestEngine(t)
			e.Register(&stubStrategy{name: "stub", mode: ModePersonalized, err: fmt.Errorf("wrapped: %w", kind)})

			_, err := e.Recommend(context.Background(), Request{UserID: "u1"})
			if !errors.Is(err, kind) {
				t.Errorf("error = %v, want %v", err, kind)
			}
		})
	}
}

func TestEngine_Recommend_EmptyResult(t *testing.T) {
	e := newTestEngine(t)
	e.Register(&stubStrategy{name: "stub", mode: ModePersonalized})

	resp, err := e.Recommend(context.Background(), Request{UserID: "u1"})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if resp.Items == nil || len(resp.Items) != 0 {
		t.Errorf("Items = %v, want empty non-nil slice", resp.Items)
	}

	stats := e.Stats()
	if stats.Requests != 1 || stats.Empty != 1 {
		t.Errorf("Stats() = %+v, want 1 request and 1 empty", stats)
	}
}

func TestEngine_Strategies(t *testing.T) {
	e := newTestEngine(t)
	e.Register(&stubStrategy{name: "top_rated", mode: ModePopular})
	e.Register(&stubStrategy{name: "ingredient_affinity", mode: ModePersonalized})
	e.Register(&stubStrategy{name: "replacement", mode: ModePopular})

	got := e.Strategies()
	want := []string{"ingredient_affinity", "replacement"}
	if len(got) != len(want) {
		t.Fatalf("Strategies() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Strategies()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"", ModePersonalized, false},
		{"personalized", ModePersonalized, false},
		{"Rating", ModeRating, false},
		{"top-rated", ModePopular, false},
		{"similar", ModeSimilar, false},
		{"bogus", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMode(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseMode(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseMode(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"negative category weight", func(c *Config) { c.Weights.Category = -1 }},
		{"max below default", func(c *Config) { c.Limits.MaxK = 1 }},
		{"zero timeout", func(c *Config) { c.Limits.Timeout = 0 }},
		{"favorable out of range", func(c *Config) { c.FavorableRating = 6 }},
		{"zero default weight", func(c *Config) { c.DefaultWeight = 0 }},
	}

	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate() error = %v", err)
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() error = nil, want error")
			}
		})
	}
}
