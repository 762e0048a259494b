// Tastebud - Food Ordering Backend and Personalized Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastebud

package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

// captureGlobal swaps the global logger for one writing to a buffer.
func captureGlobal(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := Logger()
	prevLevel := zerolog.GlobalLevel()
	SetLogger(NewTestLogger(&buf))
	zerolog.SetGlobalLevel(zerolog.TraceLevel)
	t.Cleanup(func() {
		SetLogger(prev)
		zerolog.SetGlobalLevel(prevLevel)
	})
	return &buf
}

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	line := strings.TrimSpace(buf.String())
	if line == "" {
		t.Fatal("no log output")
	}
	var m map[string]interface{}
	if err := json.Unmarshal([]byte(line), &m); err != nil {
		t.Fatalf("decode %q: %v", line, err)
	}
	return m
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"DEBUG", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"disabled", zerolog.Disabled},
		{"", zerolog.InfoLevel},
		{"verbose", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := parseLevel(tt.in); got != tt.want {
				t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestInit_JSONOutput(t *testing.T) {
	prev := Logger()
	prevLevel := zerolog.GlobalLevel()
	t.Cleanup(func() {
		SetLogger(prev)
		zerolog.SetGlobalLevel(prevLevel)
	})

	var buf bytes.Buffer
	Init(Config{Level: "warn", Format: "json", Output: &buf})

	Info().Msg("dropped")
	if buf.Len() != 0 {
		t.Fatalf("info written at warn level: %s", buf.String())
	}

	Warn().Str("order_id", "o1").Msg("kept")
	m := decodeLine(t, &buf)
	if m["message"] != "kept" || m["order_id"] != "o1" || m["level"] != "warn" {
		t.Errorf("log line = %v", m)
	}
	if _, ok := m["time"]; !ok {
		t.Error("missing time field")
	}
}

func TestCtx_AddsIDs(t *testing.T) {
	buf := captureGlobal(t)

	ctx := ContextWithRequestID(context.Background(), "req-1")
	ctx = ContextWithCorrelationID(ctx, "corr-1")
	Ctx(ctx).Info().Msg("hello")

	m := decodeLine(t, buf)
	if m["request_id"] != "req-1" || m["correlation_id"] != "corr-1" {
		t.Errorf("log line = %v", m)
	}
}

func TestCtx_UsesStoredLogger(t *testing.T) {
	var buf bytes.Buffer
	ctx := ContextWithLogger(context.Background(), NewTestLogger(&buf).With().Str("component", "api").Logger())
	Ctx(ctx).Info().Msg("stored")

	m := decodeLine(t, &buf)
	if m["component"] != "api" {
		t.Errorf("log line = %v", m)
	}
}

func TestContextIDs_Empty(t *testing.T) {
	ctx := context.Background()
	if RequestIDFromContext(ctx) != "" || CorrelationIDFromContext(ctx) != "" {
		t.Error("expected empty IDs")
	}
	if id := CorrelationIDFromContext(ContextWithNewCorrelationID(ctx)); len(id) != 8 {
		t.Errorf("correlation ID = %q, want 8 characters", id)
	}
	if a, b := GenerateRequestID(), GenerateRequestID(); a == b || len(a) != 36 {
		t.Errorf("request IDs %q, %q", a, b)
	}
}

func TestWithComponent(t *testing.T) {
	buf := captureGlobal(t)

	logger := WithComponent("recommend")
	logger.Info().Msg("x")

	if m := decodeLine(t, buf); m["component"] != "recommend" {
		t.Errorf("log line = %v", m)
	}
}

func TestSlogHandler(t *testing.T) {
	var buf bytes.Buffer
	prevLevel := zerolog.GlobalLevel()
	zerolog.SetGlobalLevel(zerolog.TraceLevel)
	t.Cleanup(func() { zerolog.SetGlobalLevel(prevLevel) })

	slogger := slog.New(NewSlogHandlerWithLogger(NewTestLogger(&buf).Level(zerolog.InfoLevel)))

	slogger.Debug("hidden")
	if buf.Len() != 0 {
		t.Fatalf("debug written at info level: %s", buf.String())
	}

	slogger.With("service", "http").WithGroup("restart").Warn("service failed",
		"attempt", 3, "err", errors.New("boom"))

	m := decodeLine(t, &buf)
	if m["level"] != "warn" || m["message"] != "service failed" {
		t.Errorf("log line = %v", m)
	}
	if m["service"] != "http" {
		t.Errorf("service = %v", m["service"])
	}
	if m["restart.attempt"] != float64(3) || m["restart.err"] != "boom" {
		t.Errorf("grouped attrs = %v", m)
	}
}

func TestRedact(t *testing.T) {
	tests := []struct {
		name string
		fn   func(string) string
		in   string
		want string
	}{
		{"email", RedactEmail, "john.doe@example.com", "jo***@example.com"},
		{"short email", RedactEmail, "jo@example.com", "***@example.com"},
		{"not an email", RedactEmail, "nobody", "***"},
		{"empty email", RedactEmail, "", ""},
		{"id", RedactID, "0b6f2a1c-9d7e-4c52-8a3f-6e1d2b4c5a79", "0b6f...5a79"},
		{"short id", RedactID, "u1", "***"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.fn(tt.in); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
