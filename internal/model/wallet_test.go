package model

import (
	"testing"
	"time"
)

const (
	testKeyHex  = "b71c71a67e1177ad4e901695e1b4b9ee17ae16c6668d313eac2f96dbcda3f291"
	testAddress = "0x71562b71999873DB5b286dF957af199Ec94617F7"
)

func TestNewWalletDerivesAddress(t *testing.T) {
	wallet, err := NewWallet("w-1", "u-1", testKeyHex, time.Unix(1700000000, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if wallet.Address != testAddress {
		t.Fatalf("address mismatch: %s", wallet.Address)
	}
	if !wallet.IsActive {
		t.Fatalf("new wallet must be active")
	}
	if wallet.Key() == nil {
		t.Fatalf("new wallet must carry its key")
	}
	if wallet.AddressValue().Hex() != testAddress {
		t.Fatalf("address value mismatch: %s", wallet.AddressValue().Hex())
	}
}

func TestNewWalletRejectsBadKey(t *testing.T) {
	if _, err := NewWallet("w-1", "u-1", "zz", time.Now()); err == nil {
		t.Fatalf("expected error for invalid key")
	}
}

func TestAttachKeyChecksAddress(t *testing.T) {
	wallet := &Wallet{ID: "w-1", Address: testAddress}
	if err := wallet.AttachKey(testKeyHex); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if wallet.Key() == nil {
		t.Fatalf("key must be attached")
	}

	other := &Wallet{ID: "w-2", Address: "0x0000000000000000000000000000000000000001"}
	if err := other.AttachKey(testKeyHex); err == nil {
		t.Fatalf("expected error for mismatched address")
	}
}
