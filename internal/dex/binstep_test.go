package dex

import (
	"context"
	"fmt"
	"reflect"
	"testing"

	"github.com/ethereum/go-ethereum/common"
)

func TestOptimalBinStepsCheapPicksHighest(t *testing.T) {
	registry := newFakeRegistry()
	registry.addPair(tokenA, wnative, PairInfo{BinStep: 10, Pair: tokenC})
	registry.addPair(tokenA, wnative, PairInfo{BinStep: 25, Pair: tokenC})
	registry.addPair(tokenA, wnative, PairInfo{BinStep: 50, Pair: tokenC, IgnoredForRouting: true})
	// Second hop has no eligible pools at all.

	optimizer := NewBinStepOptimizer(registry, nil)
	got := optimizer.OptimalBinSteps(context.Background(), []common.Address{tokenA, wnative, tokenB}, StrategyCheap)

	want := []uint64{25, 50}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("bin steps mismatch: %v != %v", got, want)
	}
}

func TestOptimalBinStepsFastPicksBestPair(t *testing.T) {
	registry := newFakeRegistry()
	registry.addPair(tokenA, wnative, PairInfo{BinStep: 25, Pair: tokenC})
	registry.addPair(tokenA, wnative, PairInfo{BinStep: 10, Pair: tokenC})

	optimizer := NewBinStepOptimizer(registry, nil)
	got := optimizer.OptimalBinSteps(context.Background(), []common.Address{tokenA, wnative, tokenB}, StrategyFast)

	want := []uint64{10, 25}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("bin steps mismatch: %v != %v", got, want)
	}
}

func TestOptimalBinStepsSecureMatchesFast(t *testing.T) {
	registry := newFakeRegistry()
	registry.addPair(tokenA, tokenB, PairInfo{BinStep: 20, Pair: tokenC})

	optimizer := NewBinStepOptimizer(registry, nil)
	fast := optimizer.OptimalBinSteps(context.Background(), []common.Address{tokenA, tokenB}, StrategyFast)
	secure := optimizer.OptimalBinSteps(context.Background(), []common.Address{tokenA, tokenB}, StrategySecure)

	if !reflect.DeepEqual(fast, secure) {
		t.Fatalf("fast and secure diverged: %v != %v", fast, secure)
	}
	if !reflect.DeepEqual(fast, []uint64{20}) {
		t.Fatalf("bin steps mismatch: %v", fast)
	}
}

func TestOptimalBinStepsCheapEnumerationFailure(t *testing.T) {
	registry := &erroringRegistry{fakeRegistry: newFakeRegistry()}

	optimizer := NewBinStepOptimizer(registry, nil)
	got := optimizer.OptimalBinSteps(context.Background(), []common.Address{tokenA, tokenB}, StrategyCheap)

	want := []uint64{50}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("bin steps mismatch: %v != %v", got, want)
	}
}

// erroringRegistry fails every pair enumeration.
type erroringRegistry struct {
	*fakeRegistry
}

func (r *erroringRegistry) GetAllPairsForTokens(_ context.Context, _, _ common.Address) ([]PairInfo, error) {
	return nil, fmt.Errorf("registry unavailable")
}
