// Tastebud - Food Ordering Backend and Personalized Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastebud

package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

type fakeEventComponents struct {
	startErr  error
	started   chan struct{}
	running   atomic.Bool
	shutdowns atomic.Int32
}

func (f *fakeEventComponents) Start(context.Context) error {
	if f.startErr != nil {
		return f.startErr
	}
	f.running.Store(true)
	f.started <- struct{}{}
	return nil
}

func (f *fakeEventComponents) Shutdown(context.Context) {
	f.shutdowns.Add(1)
	f.running.Store(false)
}

func (f *fakeEventComponents) IsRunning() bool { return f.running.Load() }

func TestEventsService_Lifecycle(t *testing.T) {
	components := &fakeEventComponents{started: make(chan struct{}, 1)}
	svc := NewEventsService(components, time.Second)
	if svc.String() != "order-events" {
		t.Errorf("String() = %q", svc.String())
	}

	err := serveAndCancel(t, svc, components.started)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Serve() = %v, want context.Canceled", err)
	}
	if components.shutdowns.Load() != 1 || components.IsRunning() {
		t.Errorf("shutdowns = %d running = %v", components.shutdowns.Load(), components.IsRunning())
	}
}

func TestEventsService_StartFailure(t *testing.T) {
	startErr := errors.New("nats unreachable")
	components := &fakeEventComponents{startErr: startErr}
	err := NewEventsService(components, 0).Serve(context.Background())
	if !errors.Is(err, startErr) {
		t.Errorf("Serve() = %v, want %v", err, startErr)
	}
	if components.shutdowns.Load() != 0 {
		t.Error("Shutdown called after failed Start")
	}
}
