package config

import (
	"testing"
	"time"

	"github.com/spf13/pflag"
)

func TestLoadFromFlags(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("rpc", "", "")
	flags.Uint64("chain-id", 0, "")
	flags.String("router", "", "")
	flags.String("factory", "", "")
	flags.String("wallet-key", "", "")
	flags.String("log-level", "info", "")

	args := []string{
		"--rpc", "https://rpc.example",
		"--chain-id", "43114",
		"--router", "0x0000000000000000000000000000000000000e11",
		"--factory", "0x0000000000000000000000000000000000000fac",
		"--log-level", "debug",
	}
	if err := flags.Parse(args); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	cfg, err := Load("", flags)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.RPCURL != "https://rpc.example" {
		t.Fatalf("rpc mismatch: %s", cfg.RPCURL)
	}
	if cfg.ChainID != 43114 {
		t.Fatalf("chain id mismatch: %d", cfg.ChainID)
	}
	if cfg.RouterAddress != "0x0000000000000000000000000000000000000e11" {
		t.Fatalf("router mismatch: %s", cfg.RouterAddress)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("log level mismatch: %s", cfg.LogLevel)
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.WalletID != "default" {
		t.Fatalf("wallet id default mismatch: %s", cfg.WalletID)
	}
	if cfg.ReceiptTimeout != 120*time.Second {
		t.Fatalf("receipt timeout default mismatch: %s", cfg.ReceiptTimeout)
	}
	if cfg.MaxRetries != 5 {
		t.Fatalf("max retries default mismatch: %d", cfg.MaxRetries)
	}
	if cfg.LogLevel != "info" {
		t.Fatalf("log level default mismatch: %s", cfg.LogLevel)
	}
}
