package store

import (
	"context"
	"errors"

	"swapRouter/internal/model"
)

// ErrNotFound reports a lookup that matched no record.
var ErrNotFound = errors.New("record not found")

// Store is the persistence boundary for wallets, registries, and
// transaction records.
type Store interface {
	SaveWallet(ctx context.Context, wallet *model.Wallet) error
	GetWallet(ctx context.Context, id string) (*model.Wallet, error)
	SetWalletActive(ctx context.Context, id string, active bool) error

	UpsertChains(ctx context.Context, chains []model.Chain) error
	UpsertTokens(ctx context.Context, tokens []model.Token) error
	ListTokens(ctx context.Context, chainID uint64) ([]model.Token, error)

	SaveTransaction(ctx context.Context, tx model.Transaction) error
	UpdateTransactionStatus(ctx context.Context, id string, status model.TransactionStatus, blockNumber, gasUsed uint64) error
	// LatestConfirmedTransaction returns the most recent CONFIRMED
	// transaction for the wallet on the chain, or nil. It feeds nonce
	// assignment and must be read fresh at the start of each execution.
	LatestConfirmedTransaction(ctx context.Context, chainID uint64, walletID string) (*model.Transaction, error)

	SaveApproval(ctx context.Context, approval model.Approval) error
}
