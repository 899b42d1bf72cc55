package dex

import (
	"errors"
	"testing"
	"time"
)

func TestParseStrategy(t *testing.T) {
	cases := map[string]Strategy{
		"fast":   StrategyFast,
		"cheap":  StrategyCheap,
		"secure": StrategySecure,
	}
	for name, want := range cases {
		got, err := ParseStrategy(name)
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", name, err)
		}
		if got != want {
			t.Fatalf("strategy mismatch for %q: %v != %v", name, got, want)
		}
	}
}

func TestParseStrategyUnknown(t *testing.T) {
	if _, err := ParseStrategy("turbo"); !errors.Is(err, ErrUnknownStrategy) {
		t.Fatalf("expected ErrUnknownStrategy, got %v", err)
	}
}

func TestStrategyDeadline(t *testing.T) {
	now := time.Unix(1700000000, 0)

	if got := StrategyFast.Deadline(now); got != 1700001200 {
		t.Fatalf("fast deadline mismatch: %d", got)
	}
	if got := StrategyCheap.Deadline(now); got != 1700001800 {
		t.Fatalf("cheap deadline mismatch: %d", got)
	}
	if got := StrategySecure.Deadline(now); got != 1700001800 {
		t.Fatalf("secure deadline mismatch: %d", got)
	}
}
