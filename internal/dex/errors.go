package dex

import (
	"errors"
	"fmt"
)

// UnknownTxHash marks a transaction error raised before a hash existed.
const UnknownTxHash = "unknown"

// ErrUnknownStrategy is returned for a strategy name outside the
// closed set.
var ErrUnknownStrategy = errors.New("unknown swap strategy")

// RegistryReadError wraps a failed read against the pool factory.
// Authoritative queries propagate it; existence probes swallow it.
type RegistryReadError struct {
	Method string
	Err    error
}

func (e *RegistryReadError) Error() string {
	return fmt.Sprintf("factory %s: %v", e.Method, e.Err)
}

func (e *RegistryReadError) Unwrap() error { return e.Err }

// TransactionError wraps a failure during gas estimation, signing, or
// submission. Hash is UnknownTxHash when the failure happened before a
// signed transaction existed.
type TransactionError struct {
	Hash string
	Err  error
}

func (e *TransactionError) Error() string {
	return fmt.Sprintf("transaction %s failed: %v", e.Hash, e.Err)
}

func (e *TransactionError) Unwrap() error { return e.Err }

func newTransactionError(hash string, err error) *TransactionError {
	if hash == "" {
		hash = UnknownTxHash
	}
	return &TransactionError{Hash: hash, Err: err}
}
