package model

import "time"

// Event is a domain event published to the message broker.
type Event interface {
	EventType() string
}

// EventMeta carries the fields shared by every outgoing event.
type EventMeta struct {
	SourceService string    `json:"source_service"`
	Timestamp     time.Time `json:"timestamp"`
}

// NewEventMeta stamps an event with the service name and current time.
func NewEventMeta() EventMeta {
	return EventMeta{SourceService: "transaction", Timestamp: time.Now().UTC()}
}

// WalletCreated is published when a wallet is registered.
type WalletCreated struct {
	EventMeta
	WalletID string `json:"wallet_id"`
	UserID   string `json:"user_id"`
	Address  string `json:"address"`
}

func (WalletCreated) EventType() string { return "transaction.wallet.created" }

// WalletActivated is published when a wallet becomes usable again.
type WalletActivated struct {
	EventMeta
	WalletID string `json:"wallet_id"`
	UserID   string `json:"user_id"`
}

func (WalletActivated) EventType() string { return "transaction.wallet.activated" }

// WalletDeactivated is published when a wallet is disabled.
type WalletDeactivated struct {
	EventMeta
	WalletID string `json:"wallet_id"`
	UserID   string `json:"user_id"`
}

func (WalletDeactivated) EventType() string { return "transaction.wallet.deactivated" }

// TransactionCreated is published after a transaction is submitted and
// recorded as PENDING.
type TransactionCreated struct {
	EventMeta
	TransactionID   string `json:"transaction_id"`
	WalletID        string `json:"wallet_id"`
	TransactionType string `json:"transaction_type"`
	TransactionHash string `json:"transaction_hash"`
}

func (TransactionCreated) EventType() string { return "transaction.transaction.created" }

// TransactionConfirmed is published once a receipt shows success.
type TransactionConfirmed struct {
	EventMeta
	TransactionID   string `json:"transaction_id"`
	TransactionHash string `json:"transaction_hash"`
	BlockNumber     uint64 `json:"block_number"`
	GasUsed         uint64 `json:"gas_used"`
}

func (TransactionConfirmed) EventType() string { return "transaction.transaction.confirmed" }

// TransactionFailed is published once a receipt shows revert or the
// transaction could not be mined.
type TransactionFailed struct {
	EventMeta
	TransactionID   string `json:"transaction_id"`
	TransactionHash string `json:"transaction_hash"`
	Reason          string `json:"reason"`
}

func (TransactionFailed) EventType() string { return "transaction.transaction.failed" }
