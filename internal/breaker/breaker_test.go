// Groundcrew - Flight Ground Operations Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/groundcrew

package breaker

import (
	"errors"
	"testing"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomtom215/groundcrew/internal/metrics"
)

var errBoom = errors.New("simulated failure")

func testSettings(name string) Settings {
	s := DefaultSettings(name)
	s.Timeout = 50 * time.Millisecond
	return s
}

// TestBreaker_OpensAfterFailures verifies the circuit opens once the failure ratio is reached
func TestBreaker_OpensAfterFailures(t *testing.T) {
	b := New(testSettings("test-opens"))

	if b.State() != "closed" {
		t.Fatalf("initial state = %s, want closed", b.State())
	}

	for i := 0; i < 10; i++ {
		_ = b.Execute(func() error { return errBoom })
	}

	if b.State() != "open" {
		t.Fatalf("state after 10 failures = %s, want open", b.State())
	}

	called := false
	err := b.Execute(func() error { called = true; return nil })
	if !IsRejected(err) {
		t.Errorf("expected rejection, got %v", err)
	}
	if called {
		t.Error("protected call must not run while open")
	}
	if got := testutil.ToFloat64(metrics.CircuitBreakerState.WithLabelValues("test-opens")); got != 2 {
		t.Errorf("circuit_breaker_state = %v, want 2", got)
	}
}

func TestBreaker_RequiresMinimumRequests(t *testing.T) {
	b := New(testSettings("test-minimum"))

	for i := 0; i < 9; i++ {
		_ = b.Execute(func() error { return errBoom })
	}
	if b.State() != "closed" {
		t.Errorf("state after 9 failures = %s, want closed", b.State())
	}
}

func TestBreaker_DoesNotOpenBelowThreshold(t *testing.T) {
	b := New(testSettings("test-below"))

	// 5 failures out of 10 is 50%, below the 60% trip ratio.
	for i := 0; i < 10; i++ {
		fail := i%2 == 0
		_ = b.Execute(func() error {
			if fail {
				return errBoom
			}
			return nil
		})
	}
	if b.State() != "closed" {
		t.Errorf("state = %s, want closed", b.State())
	}
}

func TestBreaker_HalfOpenThenClosed(t *testing.T) {
	b := New(testSettings("test-recover"))

	for i := 0; i < 10; i++ {
		_ = b.Execute(func() error { return errBoom })
	}
	if b.State() != "open" {
		t.Fatalf("state = %s, want open", b.State())
	}

	time.Sleep(80 * time.Millisecond)
	if b.State() != "half-open" {
		t.Fatalf("state after timeout = %s, want half-open", b.State())
	}

	for i := 0; i < 3; i++ {
		if err := b.Execute(func() error { return nil }); err != nil {
			t.Fatalf("trial request %d failed: %v", i, err)
		}
	}
	if b.State() != "closed" {
		t.Errorf("state after successful trials = %s, want closed", b.State())
	}
}

func TestBreaker_IsSuccessfulExcludesExpectedErrors(t *testing.T) {
	errMissing := errors.New("not found")
	s := testSettings("test-expected")
	s.IsSuccessful = func(err error) bool { return err == nil || errors.Is(err, errMissing) }
	b := New(s)

	for i := 0; i < 20; i++ {
		err := b.Execute(func() error { return errMissing })
		if !errors.Is(err, errMissing) {
			t.Fatalf("Execute() error = %v, want the protected error", err)
		}
	}
	if b.State() != "closed" {
		t.Errorf("expected errors must not trip the breaker, state = %s", b.State())
	}
}

func TestDo_TypedResult(t *testing.T) {
	b := New(testSettings("test-do"))

	got, err := Do(b, func() (map[string]int, error) {
		return map[string]int{"PTFS001": 240}, nil
	})
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if got["PTFS001"] != 240 {
		t.Errorf("Do() = %v", got)
	}

	_, err = Do(b, func() (string, error) { return "", errBoom })
	if !errors.Is(err, errBoom) {
		t.Errorf("Do() error = %v, want errBoom", err)
	}
}

func TestStateHelpers(t *testing.T) {
	tests := []struct {
		state gobreaker.State
		str   string
		num   float64
	}{
		{gobreaker.StateClosed, "closed", 0},
		{gobreaker.StateHalfOpen, "half-open", 1},
		{gobreaker.StateOpen, "open", 2},
		{gobreaker.State(99), "unknown", -1},
	}
	for _, tt := range tests {
		if got := stateToString(tt.state); got != tt.str {
			t.Errorf("stateToString(%v) = %s, want %s", tt.state, got, tt.str)
		}
		if got := stateToFloat(tt.state); got != tt.num {
			t.Errorf("stateToFloat(%v) = %v, want %v", tt.state, got, tt.num)
		}
	}
}
