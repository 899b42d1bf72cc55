package dex

import (
	"fmt"
	"time"
)

// Strategy selects the customer priority for a swap. Closed set; the
// optimizer and deadline switches are exhaustive over it.
type Strategy uint8

const (
	StrategyFast Strategy = iota
	StrategyCheap
	StrategySecure
)

// ParseStrategy maps a strategy name onto the closed enum.
func ParseStrategy(name string) (Strategy, error) {
	switch name {
	case "fast":
		return StrategyFast, nil
	case "cheap":
		return StrategyCheap, nil
	case "secure":
		return StrategySecure, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
	}
}

func (s Strategy) String() string {
	switch s {
	case StrategyFast:
		return "fast"
	case StrategyCheap:
		return "cheap"
	case StrategySecure:
		return "secure"
	default:
		return fmt.Sprintf("strategy(%d)", uint8(s))
	}
}

// Deadline returns the transaction deadline for the strategy: 20
// minutes for fast, 30 minutes otherwise.
func (s Strategy) Deadline(now time.Time) uint64 {
	base := uint64(now.Unix())
	if s == StrategyFast {
		return base + 1200
	}
	return base + 1800
}
