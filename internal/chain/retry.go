package chain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// DefaultWaitTimeout bounds how long WaitMined polls for a receipt.
const DefaultWaitTimeout = 120 * time.Second

const (
	defaultRetryBackoff = 500 * time.Millisecond
	defaultMaxRetries   = 5
	maxPollDelay        = 4 * time.Second
)

// ErrWaitTimeout is returned when no receipt appears within the timeout.
var ErrWaitTimeout = errors.New("timed out waiting for transaction receipt")

type receiptFetcher func(ctx context.Context, txHash string) (*types.Receipt, error)

// WaitMined polls until the transaction is mined or the timeout
// elapses, using the client's retry policy.
func (c *Client) WaitMined(ctx context.Context, txHash string, timeout time.Duration) (*types.Receipt, error) {
	return waitMined(ctx, c.TransactionReceipt, txHash, timeout, c.retryBackoff, c.maxRetries)
}

// waitMined treats a missing receipt as progress and keeps polling
// until the timeout. Transient fetch errors are retried up to
// maxRetries consecutive failures. The initial poll delay doubles up
// to maxPollDelay.
func waitMined(ctx context.Context, fetch receiptFetcher, txHash string, timeout, backoff time.Duration, maxRetries int) (*types.Receipt, error) {
	if timeout <= 0 {
		timeout = DefaultWaitTimeout
	}
	if backoff <= 0 {
		backoff = defaultRetryBackoff
	}
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	delay := backoff
	failures := 0
	for {
		receipt, err := fetch(ctx, txHash)
		if err == nil {
			return receipt, nil
		}
		if errors.Is(err, ethereum.NotFound) {
			failures = 0
		} else {
			failures++
			if failures > maxRetries {
				return nil, fmt.Errorf("fetch receipt %s: %w", txHash, err)
			}
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return nil, ErrWaitTimeout
			}
			return nil, ctx.Err()
		case <-timer.C:
		}

		if delay < maxPollDelay {
			delay *= 2
		}
	}
}

func hashFromHex(s string) common.Hash {
	return common.HexToHash(s)
}
