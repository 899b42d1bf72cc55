package dex

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"swapRouter/internal/model"
)

// lbPath mirrors the router's Path tuple
// (pairBinSteps, versions, tokenPath).
type lbPath struct {
	PairBinSteps []*big.Int
	Versions     []uint8
	TokenPath    []common.Address
}

// lbVersion tags every hop with the fixed protocol version.
const lbVersion uint8 = 1

// SwapExecutor submits the router call matching the swap direction.
type SwapExecutor struct {
	sender        txSender
	routerAddress common.Address
	logger        *zap.Logger
}

// NewSwapExecutor builds an executor for the router contract.
func NewSwapExecutor(backend Backend, routerAddress common.Address, logger *zap.Logger) *SwapExecutor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SwapExecutor{
		sender:        txSender{backend: backend, logger: logger},
		routerAddress: routerAddress,
		logger:        logger,
	}
}

// ExecuteNativeForTokens swaps an exact native amount for tokens. The
// input amount rides as the transaction value.
func (e *SwapExecutor) ExecuteNativeForTokens(
	ctx context.Context,
	amountIn *big.Int,
	amountOutMin *big.Int,
	tokenPath []common.Address,
	binSteps []uint64,
	deadline uint64,
	recipient common.Address,
	sender *model.Wallet,
	latestTx *model.Transaction,
) (BuiltTransaction, error) {
	routerABI, err := RouterABI()
	if err != nil {
		return BuiltTransaction{}, fmt.Errorf("parse router abi: %w", err)
	}

	return e.sender.sendContractTx(ctx, e.routerAddress, routerABI, "swapExactNATIVEForTokens",
		amountIn, sender, nextNonce(latestTx),
		amountOutMin, buildLBPath(binSteps, tokenPath), recipient, new(big.Int).SetUint64(deadline),
	)
}

// ExecuteTokensForNative swaps an exact token amount for native coin.
func (e *SwapExecutor) ExecuteTokensForNative(
	ctx context.Context,
	amountIn *big.Int,
	amountOutMin *big.Int,
	tokenPath []common.Address,
	binSteps []uint64,
	deadline uint64,
	recipient common.Address,
	sender *model.Wallet,
	latestTx *model.Transaction,
) (BuiltTransaction, error) {
	routerABI, err := RouterABI()
	if err != nil {
		return BuiltTransaction{}, fmt.Errorf("parse router abi: %w", err)
	}

	return e.sender.sendContractTx(ctx, e.routerAddress, routerABI, "swapExactTokensForNATIVE",
		nil, sender, nextNonce(latestTx),
		amountIn, amountOutMin, buildLBPath(binSteps, tokenPath), recipient, new(big.Int).SetUint64(deadline),
	)
}

// ExecuteTokensForTokens swaps an exact token amount for another token.
func (e *SwapExecutor) ExecuteTokensForTokens(
	ctx context.Context,
	amountIn *big.Int,
	amountOutMin *big.Int,
	tokenPath []common.Address,
	binSteps []uint64,
	deadline uint64,
	recipient common.Address,
	sender *model.Wallet,
	latestTx *model.Transaction,
) (BuiltTransaction, error) {
	routerABI, err := RouterABI()
	if err != nil {
		return BuiltTransaction{}, fmt.Errorf("parse router abi: %w", err)
	}

	return e.sender.sendContractTx(ctx, e.routerAddress, routerABI, "swapExactTokensForTokens",
		nil, sender, nextNonce(latestTx),
		amountIn, amountOutMin, buildLBPath(binSteps, tokenPath), recipient, new(big.Int).SetUint64(deadline),
	)
}

func buildLBPath(binSteps []uint64, tokenPath []common.Address) lbPath {
	steps := make([]*big.Int, len(binSteps))
	versions := make([]uint8, len(binSteps))
	for i, step := range binSteps {
		steps[i] = new(big.Int).SetUint64(step)
		versions[i] = lbVersion
	}
	return lbPath{
		PairBinSteps: steps,
		Versions:     versions,
		TokenPath:    tokenPath,
	}
}
