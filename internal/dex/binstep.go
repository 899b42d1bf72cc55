package dex

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

// Per-hop fallbacks when no eligible pool is found. The cheap branch
// prefers high bin steps (lower trading fee), the others low ones.
const (
	highBinStepFallback uint64 = 50
	lowBinStepFallback  uint64 = 25
)

// BinStepOptimizer picks the per-hop bin steps for a resolved path.
type BinStepOptimizer struct {
	registry PairRegistry
	logger   *zap.Logger
}

// NewBinStepOptimizer builds an optimizer over the registry.
func NewBinStepOptimizer(registry PairRegistry, logger *zap.Logger) *BinStepOptimizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BinStepOptimizer{registry: registry, logger: logger}
}

// OptimalBinSteps returns one bin step per hop of the token path.
func (o *BinStepOptimizer) OptimalBinSteps(ctx context.Context, tokenPath []common.Address, strategy Strategy) []uint64 {
	switch strategy {
	case StrategyCheap:
		return o.highFeeBinSteps(ctx, tokenPath)
	case StrategyFast, StrategySecure:
		return o.bestAvailableBinSteps(ctx, tokenPath)
	default:
		return o.bestAvailableBinSteps(ctx, tokenPath)
	}
}

// bestAvailableBinSteps takes each hop's best pair, falling back to the
// standard low bin step.
func (o *BinStepOptimizer) bestAvailableBinSteps(ctx context.Context, tokenPath []common.Address) []uint64 {
	binSteps := make([]uint64, 0, len(tokenPath)-1)
	for i := 0; i+1 < len(tokenPath); i++ {
		if best, ok := o.registry.GetBestPairForTokens(ctx, tokenPath[i], tokenPath[i+1]); ok {
			binSteps = append(binSteps, best.BinStep)
		} else {
			binSteps = append(binSteps, lowBinStepFallback)
		}
	}
	return binSteps
}

// highFeeBinSteps takes each hop's highest eligible bin step. Higher
// bin step means lower trading fee in this protocol.
func (o *BinStepOptimizer) highFeeBinSteps(ctx context.Context, tokenPath []common.Address) []uint64 {
	binSteps := make([]uint64, 0, len(tokenPath)-1)
	for i := 0; i+1 < len(tokenPath); i++ {
		pairs, err := o.registry.GetAllPairsForTokens(ctx, tokenPath[i], tokenPath[i+1])
		if err != nil {
			o.logger.Warn("pair enumeration failed",
				zap.String("token_a", tokenPath[i].Hex()),
				zap.String("token_b", tokenPath[i+1].Hex()),
				zap.Error(err),
			)
			pairs = nil
		}

		best := uint64(0)
		found := false
		for _, pair := range pairs {
			if !pair.Eligible() {
				continue
			}
			if !found || pair.BinStep > best {
				best = pair.BinStep
				found = true
			}
		}

		if found {
			binSteps = append(binSteps, best)
		} else {
			binSteps = append(binSteps, highBinStepFallback)
		}
	}
	return binSteps
}
