package dex

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// fakeRegistry is an in-memory PairRegistry keyed by unordered token
// pairs.
type fakeRegistry struct {
	pairs        map[string][]PairInfo
	available    []uint64
	availableErr error
	open         []uint64
	quotes       []common.Address
	quotesErr    error

	probedBinSteps []uint64
}

func newFakeRegistry() *fakeRegistry {
	return &fakeRegistry{pairs: make(map[string][]PairInfo)}
}

func (r *fakeRegistry) addPair(a, b common.Address, info PairInfo) {
	key := pairKey(a, b)
	r.pairs[key] = append(r.pairs[key], info)
}

func pairKey(a, b common.Address) string {
	ah, bh := a.Hex(), b.Hex()
	if strings.Compare(ah, bh) > 0 {
		ah, bh = bh, ah
	}
	return ah + "/" + bh
}

func (r *fakeRegistry) GetPairInformation(_ context.Context, a, b common.Address, binStep uint64) (PairInfo, error) {
	for _, p := range r.pairs[pairKey(a, b)] {
		if p.BinStep == binStep {
			return p, nil
		}
	}
	return PairInfo{}, nil
}

func (r *fakeRegistry) PairExists(ctx context.Context, a, b common.Address, binStep uint64) bool {
	r.probedBinSteps = append(r.probedBinSteps, binStep)
	info, err := r.GetPairInformation(ctx, a, b, binStep)
	if err != nil {
		return false
	}
	return info.Eligible()
}

func (r *fakeRegistry) GetAllPairsForTokens(_ context.Context, a, b common.Address) ([]PairInfo, error) {
	return r.pairs[pairKey(a, b)], nil
}

func (r *fakeRegistry) GetBestPairForTokens(ctx context.Context, a, b common.Address) (PairInfo, bool) {
	pairs, _ := r.GetAllPairsForTokens(ctx, a, b)
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

func (r *fakeRegistry) GetAvailableBinSteps(_ context.Context) ([]uint64, error) {
	return r.available, r.availableErr
}

func (r *fakeRegistry) GetOpenBinSteps(_ context.Context) ([]uint64, error) {
	return r.open, nil
}

func (r *fakeRegistry) IsQuoteAsset(_ context.Context, token common.Address) (bool, error) {
	for _, q := range r.quotes {
		if q == token {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeRegistry) QuoteAssets(_ context.Context) ([]common.Address, error) {
	return r.quotes, r.quotesErr
}

// fakeBackend answers chain queries from fixed values and records
// submitted transactions.
type fakeBackend struct {
	chainID     *big.Int
	gasPrice    *big.Int
	gasLimit    uint64
	gasPriceErr error
	estimateErr error
	sendErr     error
	callFn      func(msg ethereum.CallMsg) ([]byte, error)

	sent []*types.Transaction
}

func (b *fakeBackend) ChainID(_ context.Context) (*big.Int, error) {
	if b.chainID == nil {
		return big.NewInt(43114), nil
	}
	return b.chainID, nil
}

func (b *fakeBackend) SuggestGasPrice(_ context.Context) (*big.Int, error) {
	if b.gasPriceErr != nil {
		return nil, b.gasPriceErr
	}
	if b.gasPrice == nil {
		return big.NewInt(1000), nil
	}
	return new(big.Int).Set(b.gasPrice), nil
}

func (b *fakeBackend) EstimateGas(_ context.Context, _ ethereum.CallMsg) (uint64, error) {
	if b.estimateErr != nil {
		return 0, b.estimateErr
	}
	if b.gasLimit == 0 {
		return 21000, nil
	}
	return b.gasLimit, nil
}

func (b *fakeBackend) CallContract(_ context.Context, msg ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	if b.callFn == nil {
		return nil, fmt.Errorf("unexpected contract call")
	}
	return b.callFn(msg)
}

func (b *fakeBackend) SendTransaction(_ context.Context, tx *types.Transaction) error {
	if b.sendErr != nil {
		return b.sendErr
	}
	b.sent = append(b.sent, tx)
	return nil
}
