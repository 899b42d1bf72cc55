package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"swapRouter/internal/bus"
	"swapRouter/internal/chain"
	"swapRouter/internal/config"
	"swapRouter/internal/dex"
	"swapRouter/internal/model"
	"swapRouter/internal/service"
	"swapRouter/internal/store"
	"swapRouter/internal/store/postgres"
)

func main() {
	root := &cobra.Command{
		Use:          "router",
		Short:        "Liquidity Book swap router",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")
	root.PersistentFlags().String("rpc", "", "chain RPC URL")
	root.PersistentFlags().Uint64("chain-id", 0, "chain id")
	root.PersistentFlags().String("router", "", "LB router contract address")
	root.PersistentFlags().String("factory", "", "LB factory contract address")
	root.PersistentFlags().String("pg-dsn", "", "Postgres DSN")
	root.PersistentFlags().String("amqp-uri", "", "AMQP broker URI")
	root.PersistentFlags().String("wallet-key", "", "hex-encoded wallet private key")
	root.PersistentFlags().String("wallet-id", "default", "wallet identifier")
	root.PersistentFlags().Duration("receipt-timeout", 120*time.Second, "receipt wait timeout")
	root.PersistentFlags().Int("max-retries", 5, "transient RPC failures tolerated while polling")
	root.PersistentFlags().Duration("retry-backoff", 500*time.Millisecond, "initial receipt poll backoff")
	root.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")

	swapCmd := &cobra.Command{
		Use:   "swap",
		Short: "Execute a token swap",
		RunE:  runSwap,
	}
	swapCmd.Flags().String("strategy", "fast", "swap strategy (fast, cheap, secure)")
	swapCmd.Flags().String("from", "", "token to sell (address or NATIVE)")
	swapCmd.Flags().String("to", "", "token to buy (address or NATIVE)")
	swapCmd.Flags().String("amount", "", "input amount in base units")
	swapCmd.Flags().Float64("slippage", 0.5, "max slippage percent")
	swapCmd.Flags().String("recipient", "", "recipient address, default wallet address")
	swapCmd.Flags().Bool("wait", false, "wait for the receipt and settle the record")
	root.AddCommand(swapCmd)

	approveCmd := &cobra.Command{
		Use:   "approve",
		Short: "Grant the router an ERC-20 allowance",
		RunE:  runApprove,
	}
	approveCmd.Flags().String("token", "", "token contract address")
	approveCmd.Flags().String("spender", "", "spender address, default router address")
	approveCmd.Flags().String("amount", "", "allowance in base units")
	root.AddCommand(approveCmd)

	revokeCmd := &cobra.Command{
		Use:   "revoke",
		Short: "Clear an ERC-20 allowance",
		RunE:  runRevoke,
	}
	revokeCmd.Flags().String("token", "", "token contract address")
	revokeCmd.Flags().String("spender", "", "spender address, default router address")
	root.AddCommand(revokeCmd)

	pairsCmd := &cobra.Command{
		Use:   "pairs",
		Short: "Inspect factory pairs and bin steps",
		RunE:  runPairs,
	}
	pairsCmd.Flags().String("token-a", "", "first token address")
	pairsCmd.Flags().String("token-b", "", "second token address")
	root.AddCommand(pairsCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// app bundles the wired dependencies of one command invocation.
type app struct {
	cfg     config.Config
	logger  *zap.Logger
	client  *chain.Client
	store   store.Store
	bus     bus.EventBus
	router  *dex.Router
	service *service.TransactionService
	wallet  *model.Wallet
}

func (a *app) close() {
	if a.bus != nil {
		if err := a.bus.Close(); err != nil {
			a.logger.Warn("close bus", zap.Error(err))
		}
	}
	if closer, ok := a.store.(interface{ Close() }); ok && closer != nil {
		closer.Close()
	}
	if a.client != nil {
		a.client.Close()
	}
	a.logger.Sync()
}

func setup(ctx context.Context, cmd *cobra.Command) (*app, error) {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return nil, err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	if cfg.RPCURL == "" {
		return nil, fmt.Errorf("rpc url is required")
	}
	if !common.IsHexAddress(cfg.RouterAddress) {
		return nil, fmt.Errorf("router address is required")
	}
	if !common.IsHexAddress(cfg.FactoryAddress) {
		return nil, fmt.Errorf("factory address is required")
	}

	client, err := chain.NewClient(ctx, cfg.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("connect rpc: %w", err)
	}
	client.SetRetryPolicy(cfg.MaxRetries, cfg.RetryBackoff)

	chainID := cfg.ChainID
	if chainID == 0 {
		id, err := client.ChainID(ctx)
		if err != nil {
			client.Close()
			return nil, fmt.Errorf("read chain id: %w", err)
		}
		chainID = id.Uint64()
	}

	a := &app{cfg: cfg, logger: logger, client: client}

	if cfg.PostgresDSN != "" {
		pg, err := postgres.NewStore(ctx, cfg.PostgresDSN)
		if err != nil {
			client.Close()
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		a.store = pg
	} else {
		a.store = store.NewMemoryStore()
	}

	if cfg.AMQPURI != "" {
		eventBus, err := bus.NewAmqpBus(cfg.AMQPURI, logger)
		if err != nil {
			a.close()
			return nil, fmt.Errorf("connect broker: %w", err)
		}
		a.bus = eventBus
	}

	if cfg.WalletKey != "" {
		wallet, err := model.NewWallet(cfg.WalletID, cfg.WalletID, cfg.WalletKey, time.Now().UTC())
		if err != nil {
			a.close()
			return nil, err
		}
		a.wallet = wallet
	}

	registry := dex.NewFactoryClient(client, common.HexToAddress(cfg.FactoryAddress), logger)
	a.router = dex.NewRouter(client, common.HexToAddress(cfg.RouterAddress), registry, logger)
	a.service = service.NewTransactionService(a.store, a.bus, client, client, a.router, chainID, logger)

	return a, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}
