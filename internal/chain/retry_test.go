package chain

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/core/types"
)

func TestWaitMinedPollsUntilFound(t *testing.T) {
	receipt := &types.Receipt{Status: types.ReceiptStatusSuccessful, BlockNumber: big.NewInt(10)}
	calls := 0
	fetch := func(_ context.Context, _ string) (*types.Receipt, error) {
		calls++
		if calls < 3 {
			return nil, ethereum.NotFound
		}
		return receipt, nil
	}

	got, err := waitMined(context.Background(), fetch, "0xabc", time.Second, time.Millisecond, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != receipt {
		t.Fatalf("receipt mismatch: %+v", got)
	}
	if calls != 3 {
		t.Fatalf("expected 3 polls, got %d", calls)
	}
}

func TestWaitMinedRetriesTransientErrors(t *testing.T) {
	calls := 0
	fetch := func(_ context.Context, _ string) (*types.Receipt, error) {
		calls++
		return nil, fmt.Errorf("connection reset")
	}

	_, err := waitMined(context.Background(), fetch, "0xabc", time.Second, time.Millisecond, 2)
	if err == nil || errors.Is(err, ErrWaitTimeout) {
		t.Fatalf("expected transient fetch error, got %v", err)
	}
	// Two retries tolerated, the third consecutive failure gives up.
	if calls != 3 {
		t.Fatalf("expected 3 fetch attempts, got %d", calls)
	}
}

func TestWaitMinedMissingReceiptResetsFailures(t *testing.T) {
	calls := 0
	receipt := &types.Receipt{Status: types.ReceiptStatusSuccessful}
	fetch := func(_ context.Context, _ string) (*types.Receipt, error) {
		calls++
		switch calls {
		case 1, 3:
			return nil, fmt.Errorf("connection reset")
		case 2:
			return nil, ethereum.NotFound
		default:
			return receipt, nil
		}
	}

	// maxRetries=1 tolerates each isolated transient error because the
	// NotFound in between resets the failure count.
	got, err := waitMined(context.Background(), fetch, "0xabc", time.Second, time.Millisecond, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != receipt {
		t.Fatalf("receipt mismatch: %+v", got)
	}
}

func TestWaitMinedTimeout(t *testing.T) {
	fetch := func(_ context.Context, _ string) (*types.Receipt, error) {
		return nil, ethereum.NotFound
	}

	_, err := waitMined(context.Background(), fetch, "0xabc", 20*time.Millisecond, time.Millisecond, 5)
	if !errors.Is(err, ErrWaitTimeout) {
		t.Fatalf("expected ErrWaitTimeout, got %v", err)
	}
}
