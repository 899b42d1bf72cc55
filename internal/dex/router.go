package dex

import (
	"context"
	"fmt"
	"math"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"swapRouter/internal/metrics"
	"swapRouter/internal/model"
)

// timeNow is a hook for deadline tests.
var timeNow = time.Now

// NativeToken is the sentinel for the chain's native coin on either
// end of a swap request.
const NativeToken = "NATIVE"

// SwapRequest carries one user swap. TokenFrom/TokenTo are hex
// addresses or the NATIVE sentinel.
type SwapRequest struct {
	TokenFrom          string
	TokenTo            string
	AmountIn           *big.Int
	MaxSlippagePercent float64
	Recipient          common.Address
	Sender             *model.Wallet
	LatestTx           *model.Transaction
}

// Router is the single entry point turning a strategy and token pair
// into a submitted swap transaction.
type Router struct {
	backend       Backend
	routerAddress common.Address
	registry      PairRegistry
	paths         *PathFinder
	binSteps      *BinStepOptimizer
	executor      *SwapExecutor
	logger        *zap.Logger
}

// NewRouter wires the router facade over its components.
func NewRouter(backend Backend, routerAddress common.Address, registry PairRegistry, logger *zap.Logger) *Router {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Router{
		backend:       backend,
		routerAddress: routerAddress,
		registry:      registry,
		paths:         NewPathFinder(registry, logger),
		binSteps:      NewBinStepOptimizer(registry, logger),
		executor:      NewSwapExecutor(backend, routerAddress, logger),
		logger:        logger,
	}
}

// SwapFast executes a swap optimized for speed.
func (r *Router) SwapFast(ctx context.Context, req SwapRequest) (BuiltTransaction, error) {
	return r.executeStrategySwap(ctx, StrategyFast, req)
}

// SwapCheap executes a swap optimized for lowest fees.
func (r *Router) SwapCheap(ctx context.Context, req SwapRequest) (BuiltTransaction, error) {
	return r.executeStrategySwap(ctx, StrategyCheap, req)
}

// SwapSecure executes a swap optimized for reliability.
func (r *Router) SwapSecure(ctx context.Context, req SwapRequest) (BuiltTransaction, error) {
	return r.executeStrategySwap(ctx, StrategySecure, req)
}

// Swap dispatches on the strategy enum.
func (r *Router) Swap(ctx context.Context, strategy Strategy, req SwapRequest) (BuiltTransaction, error) {
	switch strategy {
	case StrategyFast, StrategyCheap, StrategySecure:
		return r.executeStrategySwap(ctx, strategy, req)
	default:
		return BuiltTransaction{}, fmt.Errorf("%w: %d", ErrUnknownStrategy, strategy)
	}
}

func (r *Router) executeStrategySwap(ctx context.Context, strategy Strategy, req SwapRequest) (BuiltTransaction, error) {
	built, err := r.doSwap(ctx, strategy, req)
	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.SwapRequests.WithLabelValues(strategy.String(), status).Inc()
	return built, err
}

func (r *Router) doSwap(ctx context.Context, strategy Strategy, req SwapRequest) (BuiltTransaction, error) {
	if req.AmountIn == nil || req.AmountIn.Sign() < 0 {
		return BuiltTransaction{}, fmt.Errorf("amount in must be non-negative")
	}

	amountOutMin, err := amountOutMinimum(req.AmountIn, req.MaxSlippagePercent)
	if err != nil {
		return BuiltTransaction{}, err
	}

	wnative, err := r.WNativeAddress(ctx)
	if err != nil {
		return BuiltTransaction{}, err
	}

	tokenFrom, err := resolveToken(req.TokenFrom, wnative)
	if err != nil {
		return BuiltTransaction{}, fmt.Errorf("token from: %w", err)
	}
	tokenTo, err := resolveToken(req.TokenTo, wnative)
	if err != nil {
		return BuiltTransaction{}, fmt.Errorf("token to: %w", err)
	}

	tokenPath, err := r.paths.BuildOptimalPath(ctx, tokenFrom, tokenTo, strategy, wnative)
	if err != nil {
		return BuiltTransaction{}, err
	}
	binSteps := r.binSteps.OptimalBinSteps(ctx, tokenPath, strategy)
	deadline := strategy.Deadline(timeNow())

	r.logger.Info("swap resolved",
		zap.String("strategy", strategy.String()),
		zap.Int("hops", len(tokenPath)-1),
		zap.Uint64s("bin_steps", binSteps),
		zap.String("amount_out_min", amountOutMin.String()),
	)

	fromNative := req.TokenFrom == NativeToken
	toNative := req.TokenTo == NativeToken
	switch {
	case fromNative && !toNative:
		return r.executor.ExecuteNativeForTokens(ctx, req.AmountIn, amountOutMin, tokenPath, binSteps, deadline, req.Recipient, req.Sender, req.LatestTx)
	case !fromNative && toNative:
		return r.executor.ExecuteTokensForNative(ctx, req.AmountIn, amountOutMin, tokenPath, binSteps, deadline, req.Recipient, req.Sender, req.LatestTx)
	default:
		return r.executor.ExecuteTokensForTokens(ctx, req.AmountIn, amountOutMin, tokenPath, binSteps, deadline, req.Recipient, req.Sender, req.LatestTx)
	}
}

// WNativeAddress reads the wrapped-native token address from the
// router contract.
func (r *Router) WNativeAddress(ctx context.Context) (common.Address, error) {
	routerABI, err := RouterABI()
	if err != nil {
		return common.Address{}, fmt.Errorf("parse router abi: %w", err)
	}

	data, err := routerABI.Pack("getWNATIVE")
	if err != nil {
		return common.Address{}, fmt.Errorf("pack getWNATIVE: %w", err)
	}

	msg := ethereum.CallMsg{To: &r.routerAddress, Data: data}
	resp, err := r.backend.CallContract(ctx, msg, nil)
	if err != nil {
		return common.Address{}, fmt.Errorf("call getWNATIVE: %w", err)
	}

	values, err := routerABI.Unpack("getWNATIVE", resp)
	if err != nil {
		return common.Address{}, fmt.Errorf("unpack getWNATIVE: %w", err)
	}
	wnative, ok := values[0].(common.Address)
	if !ok {
		return common.Address{}, fmt.Errorf("unexpected getWNATIVE output type %T", values[0])
	}
	return wnative, nil
}

// amountOutMinimum floors amountIn reduced by the slippage percent.
// Slippage is taken at two-decimal precision so the arithmetic stays
// in integers.
func amountOutMinimum(amountIn *big.Int, slippagePercent float64) (*big.Int, error) {
	if slippagePercent < 0 || slippagePercent >= 100 {
		return nil, fmt.Errorf("slippage percent %v out of range [0,100)", slippagePercent)
	}
	bps := int64(math.Round(slippagePercent * 100))
	out := new(big.Int).Mul(amountIn, big.NewInt(10000-bps))
	return out.Div(out, big.NewInt(10000)), nil
}

func resolveToken(token string, wnative common.Address) (common.Address, error) {
	if token == NativeToken {
		return wnative, nil
	}
	if !common.IsHexAddress(token) {
		return common.Address{}, fmt.Errorf("invalid token address %q", token)
	}
	return common.HexToAddress(token), nil
}
