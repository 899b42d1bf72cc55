package model

import (
	"crypto/ecdsa"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Wallet is a user's signing identity. The same key pair is used on
// every supported chain.
type Wallet struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Address   string    `json:"address"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`

	key *ecdsa.PrivateKey
}

// NewWallet builds a wallet from a hex-encoded private key. The address
// is derived from the key, never trusted from input.
func NewWallet(id, userID, keyHex string, createdAt time.Time) (*Wallet, error) {
	key, err := crypto.HexToECDSA(keyHex)
	if err != nil {
		return nil, fmt.Errorf("parse wallet key: %w", err)
	}
	return &Wallet{
		ID:        id,
		UserID:    userID,
		Address:   crypto.PubkeyToAddress(key.PublicKey).Hex(),
		IsActive:  true,
		CreatedAt: createdAt,
		key:       key,
	}, nil
}

// AttachKey sets the signing key on a wallet loaded from storage.
func (w *Wallet) AttachKey(keyHex string) error {
	key, err := crypto.HexToECDSA(keyHex)
	if err != nil {
		return fmt.Errorf("parse wallet key: %w", err)
	}
	derived := crypto.PubkeyToAddress(key.PublicKey).Hex()
	if w.Address != "" && derived != w.Address {
		return fmt.Errorf("key does not match wallet address %s", w.Address)
	}
	w.Address = derived
	w.key = key
	return nil
}

// Key returns the signing key, or nil if none is attached.
func (w *Wallet) Key() *ecdsa.PrivateKey {
	return w.key
}

// AddressValue returns the wallet address as a chain address.
func (w *Wallet) AddressValue() common.Address {
	return common.HexToAddress(w.Address)
}
