package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"swapRouter/internal/model"
)

// MemoryStore is an in-process Store for single-shot runs without a
// database, and for tests.
type MemoryStore struct {
	mu           sync.Mutex
	wallets      map[string]*model.Wallet
	chains       map[uint64]model.Chain
	tokens       map[string]model.Token
	transactions map[string]model.Transaction
	approvals    map[string]model.Approval
}

// NewMemoryStore builds an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		wallets:      make(map[string]*model.Wallet),
		chains:       make(map[uint64]model.Chain),
		tokens:       make(map[string]model.Token),
		transactions: make(map[string]model.Transaction),
		approvals:    make(map[string]model.Approval),
	}
}

func (m *MemoryStore) SaveWallet(_ context.Context, wallet *model.Wallet) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *wallet
	m.wallets[wallet.ID] = &copied
	return nil
}

func (m *MemoryStore) GetWallet(_ context.Context, id string) (*model.Wallet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	wallet, ok := m.wallets[id]
	if !ok {
		return nil, fmt.Errorf("wallet %s: %w", id, ErrNotFound)
	}
	copied := *wallet
	return &copied, nil
}

func (m *MemoryStore) SetWalletActive(_ context.Context, id string, active bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	wallet, ok := m.wallets[id]
	if !ok {
		return fmt.Errorf("wallet %s: %w", id, ErrNotFound)
	}
	wallet.IsActive = active
	return nil
}

func (m *MemoryStore) UpsertChains(_ context.Context, chains []model.Chain) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range chains {
		m.chains[c.ID] = c
	}
	return nil
}

func (m *MemoryStore) UpsertTokens(_ context.Context, tokens []model.Token) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range tokens {
		m.tokens[tokenKey(t.ChainID, t.Address)] = t
	}
	return nil
}

func (m *MemoryStore) ListTokens(_ context.Context, chainID uint64) ([]model.Token, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Token
	for _, t := range m.tokens {
		if t.ChainID == chainID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *MemoryStore) SaveTransaction(_ context.Context, tx model.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.transactions[tx.ID]; exists {
		return fmt.Errorf("transaction %s already exists", tx.ID)
	}
	m.transactions[tx.ID] = tx
	return nil
}

func (m *MemoryStore) UpdateTransactionStatus(_ context.Context, id string, status model.TransactionStatus, blockNumber, gasUsed uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	tx, ok := m.transactions[id]
	if !ok {
		return fmt.Errorf("transaction %s: %w", id, ErrNotFound)
	}
	tx.Status = status
	tx.BlockNumber = blockNumber
	tx.GasUsed = gasUsed
	tx.UpdatedAt = time.Now().UTC()
	m.transactions[id] = tx
	return nil
}

func (m *MemoryStore) LatestConfirmedTransaction(_ context.Context, chainID uint64, walletID string) (*model.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var latest *model.Transaction
	for id := range m.transactions {
		tx := m.transactions[id]
		if tx.ChainID != chainID || tx.WalletID != walletID || tx.Status != model.StatusConfirmed {
			continue
		}
		if latest == nil || tx.Nonce > latest.Nonce {
			copied := tx
			latest = &copied
		}
	}
	return latest, nil
}

func (m *MemoryStore) SaveApproval(_ context.Context, approval model.Approval) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.approvals[approval.ID] = approval
	return nil
}

func tokenKey(chainID uint64, address string) string {
	return fmt.Sprintf("%d:%s", chainID, address)
}
