package model

import "time"

// TransactionType identifies the on-chain operation a record represents.
type TransactionType string

const (
	TxGiveApproval      TransactionType = "GIVE_APPROVAL"
	TxRevokeApproval    TransactionType = "REVOKE_APPROVAL"
	TxSwapNativeToToken TransactionType = "SWAP_NATIVE_TO_TOKEN"
	TxSwapTokenToNative TransactionType = "SWAP_TOKEN_TO_NATIVE"
	TxSwapTokenToToken  TransactionType = "SWAP_TOKEN_TO_TOKEN"
)

// TransactionStatus is the lifecycle state of a submitted transaction.
type TransactionStatus string

const (
	StatusPending   TransactionStatus = "PENDING"
	StatusConfirmed TransactionStatus = "CONFIRMED"
	StatusFailed    TransactionStatus = "FAILED"
)

// Transaction is the persisted record of a submitted on-chain transaction.
type Transaction struct {
	ID          string            `json:"id"`
	ChainID     uint64            `json:"chain_id"`
	WalletID    string            `json:"wallet_id"`
	Type        TransactionType   `json:"type"`
	Status      TransactionStatus `json:"status"`
	Hash        string            `json:"hash"`
	Nonce       uint64            `json:"nonce"`
	Gas         uint64            `json:"gas"`
	GasPrice    string            `json:"gas_price"`
	BlockNumber uint64            `json:"block_number,omitempty"`
	GasUsed     uint64            `json:"gas_used,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// Approval records an ERC-20 allowance granted or revoked by a wallet.
type Approval struct {
	ID           string    `json:"id"`
	ChainID      uint64    `json:"chain_id"`
	WalletID     string    `json:"wallet_id"`
	TokenAddress string    `json:"token_address"`
	Spender      string    `json:"spender"`
	Amount       string    `json:"amount"`
	Revoked      bool      `json:"revoked"`
	TxHash       string    `json:"tx_hash"`
	CreatedAt    time.Time `json:"created_at"`
}
