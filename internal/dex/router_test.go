package dex

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math/big"
	"reflect"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"swapRouter/internal/model"
)

var (
	routerAddr = common.HexToAddress("0x0000000000000000000000000000000000000e11")
	recipient  = common.HexToAddress("0x00000000000000000000000000000000000000fe")
)

func wnativeBackend(t *testing.T) *fakeBackend {
	t.Helper()
	routerABI, err := RouterABI()
	if err != nil {
		t.Fatalf("parse abi: %v", err)
	}
	packed, err := routerABI.Methods["getWNATIVE"].Outputs.Pack(wnative)
	if err != nil {
		t.Fatalf("pack wnative: %v", err)
	}
	return &fakeBackend{
		callFn: func(msg ethereum.CallMsg) ([]byte, error) {
			if len(msg.Data) >= 4 && bytes.Equal(msg.Data[:4], routerABI.Methods["getWNATIVE"].ID) {
				return packed, nil
			}
			return nil, fmt.Errorf("unexpected contract call %x", msg.Data)
		},
	}
}

func TestSwapFastNativeForTokens(t *testing.T) {
	registry := newFakeRegistry()
	registry.addPair(wnative, tokenB, PairInfo{BinStep: 20, Pair: tokenC})

	backend := wnativeBackend(t)
	backend.gasPrice = big.NewInt(1000)
	backend.gasLimit = 300000

	timeNow = func() time.Time { return time.Unix(1700000000, 0) }
	defer func() { timeNow = time.Now }()

	router := NewRouter(backend, routerAddr, registry, nil)
	built, err := router.SwapFast(context.Background(), SwapRequest{
		TokenFrom:          NativeToken,
		TokenTo:            tokenB.Hex(),
		AmountIn:           big.NewInt(1000000),
		MaxSlippagePercent: 1.0,
		Recipient:          recipient,
		Sender:             testWallet(t),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if built.Nonce != 0 {
		t.Fatalf("fresh wallet nonce mismatch: %d", built.Nonce)
	}
	if built.GasPrice.Cmp(big.NewInt(1100)) != 0 {
		t.Fatalf("gas price mismatch: %s", built.GasPrice)
	}

	if len(backend.sent) != 1 {
		t.Fatalf("expected one submitted transaction, got %d", len(backend.sent))
	}
	sent := backend.sent[0]

	routerABI, _ := RouterABI()
	method, err := routerABI.MethodById(sent.Data()[:4])
	if err != nil {
		t.Fatalf("resolve method: %v", err)
	}
	if method.Name != "swapExactNATIVEForTokens" {
		t.Fatalf("method mismatch: %s", method.Name)
	}
	if sent.Value().Cmp(big.NewInt(1000000)) != 0 {
		t.Fatalf("transaction value mismatch: %s", sent.Value())
	}

	values, err := method.Inputs.Unpack(sent.Data()[4:])
	if err != nil {
		t.Fatalf("unpack inputs: %v", err)
	}

	amountOutMin := values[0].(*big.Int)
	if amountOutMin.Cmp(big.NewInt(990000)) != 0 {
		t.Fatalf("amount out min mismatch: %s", amountOutMin)
	}

	path := *abi.ConvertType(values[1], new(lbPath)).(*lbPath)
	if len(path.PairBinSteps) != 1 || path.PairBinSteps[0].Uint64() != 20 {
		t.Fatalf("pair bin steps mismatch: %v", path.PairBinSteps)
	}
	if !reflect.DeepEqual(path.Versions, []uint8{lbVersion}) {
		t.Fatalf("versions mismatch: %v", path.Versions)
	}
	if !reflect.DeepEqual(path.TokenPath, []common.Address{wnative, tokenB}) {
		t.Fatalf("token path mismatch: %v", path.TokenPath)
	}

	if to := values[2].(common.Address); to != recipient {
		t.Fatalf("recipient mismatch: %s", to.Hex())
	}
	if deadline := values[3].(*big.Int); deadline.Uint64() != 1700001200 {
		t.Fatalf("deadline mismatch: %s", deadline)
	}
}

func TestSwapCheapTokensForNative(t *testing.T) {
	registry := newFakeRegistry()
	registry.addPair(tokenB, wnative, PairInfo{BinStep: 50, Pair: tokenC})

	backend := wnativeBackend(t)

	timeNow = func() time.Time { return time.Unix(1700000000, 0) }
	defer func() { timeNow = time.Now }()

	router := NewRouter(backend, routerAddr, registry, nil)
	built, err := router.SwapCheap(context.Background(), SwapRequest{
		TokenFrom:          tokenB.Hex(),
		TokenTo:            NativeToken,
		AmountIn:           big.NewInt(5000),
		MaxSlippagePercent: 0.5,
		Recipient:          recipient,
		Sender:             testWallet(t),
		LatestTx:           &model.Transaction{Nonce: 4},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if built.Nonce != 5 {
		t.Fatalf("nonce continuity mismatch: %d", built.Nonce)
	}

	sent := backend.sent[0]
	routerABI, _ := RouterABI()
	method, err := routerABI.MethodById(sent.Data()[:4])
	if err != nil {
		t.Fatalf("resolve method: %v", err)
	}
	if method.Name != "swapExactTokensForNATIVE" {
		t.Fatalf("method mismatch: %s", method.Name)
	}
	if sent.Value().Sign() != 0 {
		t.Fatalf("token swap must not carry value, got %s", sent.Value())
	}

	values, err := method.Inputs.Unpack(sent.Data()[4:])
	if err != nil {
		t.Fatalf("unpack inputs: %v", err)
	}
	if amountIn := values[0].(*big.Int); amountIn.Cmp(big.NewInt(5000)) != 0 {
		t.Fatalf("amount in mismatch: %s", amountIn)
	}
	if deadline := values[4].(*big.Int); deadline.Uint64() != 1700001800 {
		t.Fatalf("deadline mismatch: %s", deadline)
	}
}

func TestSwapUnknownStrategy(t *testing.T) {
	router := NewRouter(&fakeBackend{}, routerAddr, newFakeRegistry(), nil)
	_, err := router.Swap(context.Background(), Strategy(9), SwapRequest{
		TokenFrom: NativeToken,
		TokenTo:   tokenB.Hex(),
		AmountIn:  big.NewInt(1),
	})
	if !errors.Is(err, ErrUnknownStrategy) {
		t.Fatalf("expected ErrUnknownStrategy, got %v", err)
	}
}

func TestSwapRejectsInvalidInput(t *testing.T) {
	backend := wnativeBackend(t)
	router := NewRouter(backend, routerAddr, newFakeRegistry(), nil)

	if _, err := router.SwapFast(context.Background(), SwapRequest{
		TokenFrom: NativeToken, TokenTo: tokenB.Hex(),
		AmountIn: big.NewInt(-1), MaxSlippagePercent: 1,
	}); err == nil {
		t.Fatalf("expected error for negative amount")
	}

	if _, err := router.SwapFast(context.Background(), SwapRequest{
		TokenFrom: "not-an-address", TokenTo: tokenB.Hex(),
		AmountIn: big.NewInt(1), MaxSlippagePercent: 1,
	}); err == nil {
		t.Fatalf("expected error for invalid token address")
	}

	if _, err := router.SwapFast(context.Background(), SwapRequest{
		TokenFrom: NativeToken, TokenTo: tokenB.Hex(),
		AmountIn: big.NewInt(1), MaxSlippagePercent: 100,
	}); err == nil {
		t.Fatalf("expected error for out-of-range slippage")
	}
}

func TestAmountOutMinimum(t *testing.T) {
	cases := []struct {
		amountIn int64
		slippage float64
		want     int64
	}{
		{1000000, 1.0, 990000},
		{1000000, 0.5, 995000},
		{1000000, 0, 1000000},
		{3, 1.0, 2},
	}
	for _, tc := range cases {
		got, err := amountOutMinimum(big.NewInt(tc.amountIn), tc.slippage)
		if err != nil {
			t.Fatalf("unexpected error for %v: %v", tc, err)
		}
		if got.Cmp(big.NewInt(tc.want)) != 0 {
			t.Fatalf("amount out min mismatch for %+v: %s", tc, got)
		}
	}

	if _, err := amountOutMinimum(big.NewInt(1), -0.1); err == nil {
		t.Fatalf("expected error for negative slippage")
	}
	if _, err := amountOutMinimum(big.NewInt(1), 100); err == nil {
		t.Fatalf("expected error for slippage at 100")
	}
}
