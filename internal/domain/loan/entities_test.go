package loan

import (
	"errors"
	"fmt"
	"testing"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to Status
		want     bool
	}{
		{StatusPending, StatusActive, true},
		{StatusActive, StatusRepaid, true},
		{StatusActive, StatusDefaulted, true},
		{StatusRepaid, StatusActive, false},
		{StatusDefaulted, StatusActive, false},
		{StatusRepaid, StatusDefaulted, false},
		{StatusPending, StatusRepaid, false},
	}
	for _, tc := range cases {
		if got := CanTransition(tc.from, tc.to); got != tc.want {
			t.Errorf("%s -> %s = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestCapacityWarning_IsCapacityExceeded(t *testing.T) {
	var err error = &CapacityWarning{Capacity: 1500, Requested: 2000}
	wrapped := fmt.Errorf("issue: %w", err)
	if !errors.Is(wrapped, ErrCapacityExceeded) {
		t.Fatalf("wrapped warning should match ErrCapacityExceeded")
	}
	var w *CapacityWarning
	if !errors.As(wrapped, &w) || w.Capacity != 1500 {
		t.Fatalf("errors.As lost capacity: %+v", w)
	}
}

func TestLoan_Remaining(t *testing.T) {
	l := Loan{RemainingPrincipal: 400, RemainingInterest: 50}
	if l.Remaining() != 450 {
		t.Fatalf("remaining = %v", l.Remaining())
	}
}
