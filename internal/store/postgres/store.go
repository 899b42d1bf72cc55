package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"swapRouter/internal/model"
	"swapRouter/internal/store"
)

// Store provides Postgres persistence for the transaction service.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// SaveWallet inserts or updates a wallet record. Signing keys are
// never persisted here.
func (s *Store) SaveWallet(ctx context.Context, wallet *model.Wallet) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO wallets (id, user_id, address, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, now())
		ON CONFLICT (id) DO UPDATE SET
			address = EXCLUDED.address,
			is_active = EXCLUDED.is_active,
			updated_at = now()
	`, wallet.ID, wallet.UserID, wallet.Address, wallet.IsActive, wallet.CreatedAt)
	return err
}

func (s *Store) GetWallet(ctx context.Context, id string) (*model.Wallet, error) {
	var wallet model.Wallet
	row := s.pool.QueryRow(ctx, `
		SELECT id, user_id, address, is_active, created_at
		FROM wallets WHERE id = $1
	`, id)
	if err := row.Scan(&wallet.ID, &wallet.UserID, &wallet.Address, &wallet.IsActive, &wallet.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("wallet %s: %w", id, store.ErrNotFound)
		}
		return nil, err
	}
	return &wallet, nil
}

func (s *Store) SetWalletActive(ctx context.Context, id string, active bool) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE wallets SET is_active = $2, updated_at = now() WHERE id = $1
	`, id, active)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("wallet %s: %w", id, store.ErrNotFound)
	}
	return nil
}

// UpsertChains inserts or updates chain registry entries.
func (s *Store) UpsertChains(ctx context.Context, chains []model.Chain) error {
	if len(chains) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, chain := range chains {
		batch.Queue(`
			INSERT INTO chains (id, name, symbol, rpc_url, created_at, updated_at)
			VALUES ($1, $2, $3, $4, now(), now())
			ON CONFLICT (id) DO UPDATE SET
				name = EXCLUDED.name,
				symbol = EXCLUDED.symbol,
				rpc_url = EXCLUDED.rpc_url,
				updated_at = now()
		`,
			int64(chain.ID),
			chain.Name,
			chain.Symbol,
			chain.RPCURL,
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range chains {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

// UpsertTokens inserts or updates token registry entries.
func (s *Store) UpsertTokens(ctx context.Context, tokens []model.Token) error {
	if len(tokens) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, token := range tokens {
		batch.Queue(`
			INSERT INTO tokens (chain_id, address, symbol, name, decimals, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, now(), now())
			ON CONFLICT (chain_id, address) DO UPDATE SET
				symbol = EXCLUDED.symbol,
				name = EXCLUDED.name,
				decimals = EXCLUDED.decimals,
				updated_at = now()
		`,
			int64(token.ChainID),
			token.Address,
			token.Symbol,
			token.Name,
			int16(token.Decimals),
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range tokens {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) ListTokens(ctx context.Context, chainID uint64) ([]model.Token, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT chain_id, address, symbol, name, decimals
		FROM tokens WHERE chain_id = $1 ORDER BY symbol
	`, int64(chainID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tokens []model.Token
	for rows.Next() {
		var token model.Token
		var decimals int16
		if err := rows.Scan(&token.ChainID, &token.Address, &token.Symbol, &token.Name, &decimals); err != nil {
			return nil, err
		}
		token.Decimals = uint8(decimals)
		tokens = append(tokens, token)
	}
	return tokens, rows.Err()
}

// SaveTransaction inserts a transaction record.
func (s *Store) SaveTransaction(ctx context.Context, tx model.Transaction) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO transactions (
			id, chain_id, wallet_id, type, status, hash, nonce, gas, gas_price,
			block_number, gas_used, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, now())
	`,
		tx.ID,
		int64(tx.ChainID),
		tx.WalletID,
		string(tx.Type),
		string(tx.Status),
		tx.Hash,
		int64(tx.Nonce),
		int64(tx.Gas),
		tx.GasPrice,
		int64(tx.BlockNumber),
		int64(tx.GasUsed),
		tx.CreatedAt,
	)
	return err
}

// UpdateTransactionStatus moves a transaction to its terminal state.
func (s *Store) UpdateTransactionStatus(ctx context.Context, id string, status model.TransactionStatus, blockNumber, gasUsed uint64) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE transactions
		SET status = $2, block_number = $3, gas_used = $4, updated_at = now()
		WHERE id = $1
	`, id, string(status), int64(blockNumber), int64(gasUsed))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("transaction %s: %w", id, store.ErrNotFound)
	}
	return nil
}

// LatestConfirmedTransaction returns the wallet's most recent
// confirmed transaction on the chain, or nil when none exists.
func (s *Store) LatestConfirmedTransaction(ctx context.Context, chainID uint64, walletID string) (*model.Transaction, error) {
	var tx model.Transaction
	row := s.pool.QueryRow(ctx, `
		SELECT id, chain_id, wallet_id, type, status, hash, nonce, gas, gas_price,
		       block_number, gas_used, created_at, updated_at
		FROM transactions
		WHERE chain_id = $1 AND wallet_id = $2 AND status = 'CONFIRMED'
		ORDER BY nonce DESC
		LIMIT 1
	`, int64(chainID), walletID)

	var nonce, gas, blockNumber, gasUsed int64
	err := row.Scan(&tx.ID, &tx.ChainID, &tx.WalletID, &tx.Type, &tx.Status, &tx.Hash,
		&nonce, &gas, &tx.GasPrice, &blockNumber, &gasUsed, &tx.CreatedAt, &tx.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	tx.Nonce = uint64(nonce)
	tx.Gas = uint64(gas)
	tx.BlockNumber = uint64(blockNumber)
	tx.GasUsed = uint64(gasUsed)
	return &tx, nil
}

// SaveApproval records a granted or revoked allowance.
func (s *Store) SaveApproval(ctx context.Context, approval model.Approval) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO approvals (
			id, chain_id, wallet_id, token_address, spender, amount, revoked, tx_hash, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`,
		approval.ID,
		int64(approval.ChainID),
		approval.WalletID,
		approval.TokenAddress,
		approval.Spender,
		approval.Amount,
		approval.Revoked,
		approval.TxHash,
		approval.CreatedAt,
	)
	return err
}
