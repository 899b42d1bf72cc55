package dex

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"swapRouter/internal/metrics"
)

// PairInfo describes one liquidity pool for a token pair at a bin step.
type PairInfo struct {
	BinStep           uint64         `json:"bin_step"`
	Pair              common.Address `json:"pair"`
	CreatedByOwner    bool           `json:"created_by_owner"`
	IgnoredForRouting bool           `json:"ignored_for_routing"`
}

// Eligible reports whether the pool exists and may be routed through.
func (p PairInfo) Eligible() bool {
	return p.Pair != (common.Address{}) && !p.IgnoredForRouting
}

// PairRegistry is the read-only view of the pool factory used by
// pathfinding and bin-step selection.
type PairRegistry interface {
	GetPairInformation(ctx context.Context, tokenA, tokenB common.Address, binStep uint64) (PairInfo, error)
	PairExists(ctx context.Context, tokenA, tokenB common.Address, binStep uint64) bool
	GetAllPairsForTokens(ctx context.Context, tokenA, tokenB common.Address) ([]PairInfo, error)
	GetBestPairForTokens(ctx context.Context, tokenA, tokenB common.Address) (PairInfo, bool)
	GetAvailableBinSteps(ctx context.Context) ([]uint64, error)
	GetOpenBinSteps(ctx context.Context) ([]uint64, error)
	IsQuoteAsset(ctx context.Context, token common.Address) (bool, error)
	QuoteAssets(ctx context.Context) ([]common.Address, error)
}

// lbPairInformation mirrors the factory's LBPairInformation tuple.
type lbPairInformation struct {
	BinStep           uint16
	LBPair            common.Address
	CreatedByOwner    bool
	IgnoredForRouting bool
}

// FactoryClient reads pair and bin-step metadata from the LB factory.
type FactoryClient struct {
	backend Backend
	address common.Address
	logger  *zap.Logger
}

// NewFactoryClient builds a factory client for the contract address.
func NewFactoryClient(backend Backend, address common.Address, logger *zap.Logger) *FactoryClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FactoryClient{backend: backend, address: address, logger: logger}
}

// GetPairInformation reads the descriptor for a specific pair and bin
// step. Read failures propagate as a RegistryReadError.
func (f *FactoryClient) GetPairInformation(ctx context.Context, tokenA, tokenB common.Address, binStep uint64) (PairInfo, error) {
	values, err := f.call(ctx, "getLBPairInformation", tokenA, tokenB, new(big.Int).SetUint64(binStep))
	if err != nil {
		return PairInfo{}, err
	}

	info := *abi.ConvertType(values[0], new(lbPairInformation)).(*lbPairInformation)
	return pairInfoFromTuple(info), nil
}

// PairExists reports whether an eligible pool exists for the pair at
// the bin step. Read failures are treated as a negative probe.
func (f *FactoryClient) PairExists(ctx context.Context, tokenA, tokenB common.Address, binStep uint64) bool {
	info, err := f.GetPairInformation(ctx, tokenA, tokenB, binStep)
	if err != nil {
		f.logger.Warn("pair existence probe failed",
			zap.String("token_a", tokenA.Hex()),
			zap.String("token_b", tokenB.Hex()),
			zap.Uint64("bin_step", binStep),
			zap.Error(err),
		)
		metrics.RegistryProbeFailures.Inc()
		return false
	}
	return info.Eligible()
}

// GetAllPairsForTokens returns every bin-step variant for the pair in
// registry order.
func (f *FactoryClient) GetAllPairsForTokens(ctx context.Context, tokenA, tokenB common.Address) ([]PairInfo, error) {
	values, err := f.call(ctx, "getAllLBPairs", tokenA, tokenB)
	if err != nil {
		return nil, err
	}

	tuples := *abi.ConvertType(values[0], new([]lbPairInformation)).(*[]lbPairInformation)
	pairs := make([]PairInfo, 0, len(tuples))
	for _, t := range tuples {
		pairs = append(pairs, pairInfoFromTuple(t))
	}
	return pairs, nil
}

// GetBestPairForTokens selects the eligible pair with the lowest bin
// step, keeping the first encountered on ties. Failures and empty
// results both report no pair; this is a probe, not an authoritative
// read.
func (f *FactoryClient) GetBestPairForTokens(ctx context.Context, tokenA, tokenB common.Address) (PairInfo, bool) {
	pairs, err := f.GetAllPairsForTokens(ctx, tokenA, tokenB)
	if err != nil {
		f.logger.Warn("best pair lookup failed",
			zap.String("token_a", tokenA.Hex()),
			zap.String("token_b", tokenB.Hex()),
			zap.Error(err),
		)
		metrics.RegistryProbeFailures.Inc()
		return PairInfo{}, false
	}

	var best PairInfo
	found := false
	for _, pair := range pairs {
		if !pair.Eligible() {
			continue
		}
		if !found || pair.BinStep < best.BinStep {
			best = pair
			found = true
		}
	}
	return best, found
}

// GetAvailableBinSteps returns all bin steps that have a preset.
func (f *FactoryClient) GetAvailableBinSteps(ctx context.Context) ([]uint64, error) {
	return f.binStepList(ctx, "getAllBinSteps")
}

// GetOpenBinSteps returns bin steps open for permissionless pair
// creation.
func (f *FactoryClient) GetOpenBinSteps(ctx context.Context) ([]uint64, error) {
	return f.binStepList(ctx, "getOpenBinSteps")
}

// IsQuoteAsset reports whether the token is whitelisted as a quote
// asset.
func (f *FactoryClient) IsQuoteAsset(ctx context.Context, token common.Address) (bool, error) {
	values, err := f.call(ctx, "isQuoteAsset", token)
	if err != nil {
		return false, err
	}
	isQuote, ok := values[0].(bool)
	if !ok {
		return false, &RegistryReadError{Method: "isQuoteAsset", Err: fmt.Errorf("unexpected output type %T", values[0])}
	}
	return isQuote, nil
}

// QuoteAssets returns the whitelisted intermediary tokens. The factory
// only exposes a membership check, so there is nothing to enumerate.
func (f *FactoryClient) QuoteAssets(ctx context.Context) ([]common.Address, error) {
	return nil, nil
}

// Preset holds the fee parameters registered for a bin step.
type Preset struct {
	BinStep                  uint64 `json:"bin_step"`
	BaseFactor               uint64 `json:"base_factor"`
	FilterPeriod             uint64 `json:"filter_period"`
	DecayPeriod              uint64 `json:"decay_period"`
	ReductionFactor          uint64 `json:"reduction_factor"`
	VariableFeeControl       uint64 `json:"variable_fee_control"`
	ProtocolShare            uint64 `json:"protocol_share"`
	MaxVolatilityAccumulator uint64 `json:"max_volatility_accumulator"`
	IsOpen                   bool   `json:"is_open"`
}

// GetPreset reads the fee preset registered for the bin step. Read
// failures propagate as a RegistryReadError.
func (f *FactoryClient) GetPreset(ctx context.Context, binStep uint64) (Preset, error) {
	values, err := f.call(ctx, "getPreset", new(big.Int).SetUint64(binStep))
	if err != nil {
		return Preset{}, err
	}
	if len(values) != 8 {
		return Preset{}, &RegistryReadError{Method: "getPreset", Err: fmt.Errorf("unexpected output arity %d", len(values))}
	}

	preset := Preset{BinStep: binStep}
	fields := []*uint64{
		&preset.BaseFactor, &preset.FilterPeriod, &preset.DecayPeriod,
		&preset.ReductionFactor, &preset.VariableFeeControl,
		&preset.ProtocolShare, &preset.MaxVolatilityAccumulator,
	}
	for i, field := range fields {
		v, ok := values[i].(*big.Int)
		if !ok {
			return Preset{}, &RegistryReadError{Method: "getPreset", Err: fmt.Errorf("unexpected output type %T", values[i])}
		}
		*field = v.Uint64()
	}
	isOpen, ok := values[7].(bool)
	if !ok {
		return Preset{}, &RegistryReadError{Method: "getPreset", Err: fmt.Errorf("unexpected output type %T", values[7])}
	}
	preset.IsOpen = isOpen
	return preset, nil
}

// NumberOfPairs returns the total pair count in the registry.
func (f *FactoryClient) NumberOfPairs(ctx context.Context) (uint64, error) {
	values, err := f.call(ctx, "getNumberOfLBPairs")
	if err != nil {
		return 0, err
	}
	count, ok := values[0].(*big.Int)
	if !ok {
		return 0, &RegistryReadError{Method: "getNumberOfLBPairs", Err: fmt.Errorf("unexpected output type %T", values[0])}
	}
	return count.Uint64(), nil
}

func (f *FactoryClient) binStepList(ctx context.Context, method string) ([]uint64, error) {
	values, err := f.call(ctx, method)
	if err != nil {
		return nil, err
	}
	raw, ok := values[0].([]*big.Int)
	if !ok {
		return nil, &RegistryReadError{Method: method, Err: fmt.Errorf("unexpected output type %T", values[0])}
	}
	steps := make([]uint64, 0, len(raw))
	for _, step := range raw {
		steps = append(steps, step.Uint64())
	}
	return steps, nil
}

func (f *FactoryClient) call(ctx context.Context, method string, args ...interface{}) ([]interface{}, error) {
	factoryABI, err := FactoryABI()
	if err != nil {
		return nil, fmt.Errorf("parse factory abi: %w", err)
	}

	data, err := factoryABI.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", method, err)
	}

	msg := ethereum.CallMsg{To: &f.address, Data: data}
	resp, err := f.backend.CallContract(ctx, msg, nil)
	if err != nil {
		return nil, &RegistryReadError{Method: method, Err: err}
	}

	values, err := factoryABI.Unpack(method, resp)
	if err != nil {
		return nil, &RegistryReadError{Method: method, Err: fmt.Errorf("unpack: %w", err)}
	}
	return values, nil
}

func pairInfoFromTuple(t lbPairInformation) PairInfo {
	return PairInfo{
		BinStep:           uint64(t.BinStep),
		Pair:              t.LBPair,
		CreatedByOwner:    t.CreatedByOwner,
		IgnoredForRouting: t.IgnoredForRouting,
	}
}
