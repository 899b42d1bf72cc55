package dex

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"swapRouter/internal/metrics"
)

// fallbackBinStepOrder is the probe order for the last-resort
// wrapped-native route. The order is part of the routing contract:
// 25 and 50 first, then 100 before the low steps.
var fallbackBinStepOrder = []uint64{25, 50, 100, 20, 15}

// PathFinder resolves a token pair into a traversable route.
type PathFinder struct {
	registry PairRegistry
	logger   *zap.Logger
}

// NewPathFinder builds a path finder over the registry.
func NewPathFinder(registry PairRegistry, logger *zap.Logger) *PathFinder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PathFinder{registry: registry, logger: logger}
}

// BuildOptimalPath discovers a route from tokenFrom to tokenTo:
// direct pair first, then one intermediary hop, then a fixed-order
// bin-step probe through wrapped-native, and finally the naive direct
// pair as a permissive default.
func (p *PathFinder) BuildOptimalPath(ctx context.Context, tokenFrom, tokenTo common.Address, strategy Strategy, wnative common.Address) ([]common.Address, error) {
	if path := p.findDirectPath(ctx, tokenFrom, tokenTo); path != nil {
		return path, nil
	}

	path, err := p.findIntermediaryPath(ctx, tokenFrom, tokenTo, wnative, strategy)
	if err != nil {
		return nil, err
	}
	if path != nil {
		return path, nil
	}

	return p.findFallbackPath(ctx, tokenFrom, tokenTo, wnative)
}

func (p *PathFinder) findDirectPath(ctx context.Context, tokenFrom, tokenTo common.Address) []common.Address {
	if _, ok := p.registry.GetBestPairForTokens(ctx, tokenFrom, tokenTo); ok {
		p.logger.Info("direct path found",
			zap.String("token_from", tokenFrom.Hex()),
			zap.String("token_to", tokenTo.Hex()),
		)
		return []common.Address{tokenFrom, tokenTo}
	}
	return nil
}

func (p *PathFinder) findIntermediaryPath(ctx context.Context, tokenFrom, tokenTo, wnative common.Address, strategy Strategy) ([]common.Address, error) {
	// Wrapped-native first; it is usually the most liquid hop.
	candidates := []common.Address{wnative}

	if strategy == StrategyCheap {
		quoteAssets, err := p.registry.QuoteAssets(ctx)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, quoteAssets...)
	}

	for _, intermediary := range candidates {
		if intermediary == tokenFrom || intermediary == tokenTo {
			continue
		}
		_, firstOK := p.registry.GetBestPairForTokens(ctx, tokenFrom, intermediary)
		_, secondOK := p.registry.GetBestPairForTokens(ctx, intermediary, tokenTo)
		if firstOK && secondOK {
			p.logger.Info("intermediary path found",
				zap.String("token_from", tokenFrom.Hex()),
				zap.String("intermediary", intermediary.Hex()),
				zap.String("token_to", tokenTo.Hex()),
			)
			return []common.Address{tokenFrom, intermediary, tokenTo}, nil
		}
	}
	return nil, nil
}

func (p *PathFinder) findFallbackPath(ctx context.Context, tokenFrom, tokenTo, wnative common.Address) ([]common.Address, error) {
	available, err := p.registry.GetAvailableBinSteps(ctx)
	if err != nil {
		p.logger.Warn("available bin steps lookup failed", zap.Error(err))
		available = nil
	}

	for _, binStep := range fallbackBinStepOrder {
		if !containsBinStep(available, binStep) {
			continue
		}
		firstExists := p.registry.PairExists(ctx, tokenFrom, wnative, binStep)
		secondExists := p.registry.PairExists(ctx, wnative, tokenTo, binStep)
		if firstExists && secondExists {
			p.logger.Info("fallback path found",
				zap.String("token_from", tokenFrom.Hex()),
				zap.String("token_to", tokenTo.Hex()),
				zap.Uint64("bin_step", binStep),
			)
			metrics.PathFallbacks.WithLabelValues("wnative").Inc()
			return []common.Address{tokenFrom, wnative, tokenTo}, nil
		}
	}

	// Permissive default: hand back the naive pair and let execution
	// surface the revert if no pool exists.
	p.logger.Warn("no route found, using direct path",
		zap.String("token_from", tokenFrom.Hex()),
		zap.String("token_to", tokenTo.Hex()),
	)
	metrics.PathFallbacks.WithLabelValues("naive").Inc()
	return []common.Address{tokenFrom, tokenTo}, nil
}

func containsBinStep(steps []uint64, step uint64) bool {
	for _, s := range steps {
		if s == step {
			return true
		}
	}
	return false
}
