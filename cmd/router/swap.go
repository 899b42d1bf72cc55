package main

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"swapRouter/internal/dex"
	"swapRouter/internal/service"
)

func runSwap(cmd *cobra.Command, _ []string) error {
	ctx, stop := signalContext()
	defer stop()

	a, err := setup(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.close()

	if a.wallet == nil {
		return fmt.Errorf("wallet key is required")
	}

	strategyName, _ := cmd.Flags().GetString("strategy")
	strategy, err := dex.ParseStrategy(strategyName)
	if err != nil {
		return err
	}

	tokenFrom, _ := cmd.Flags().GetString("from")
	tokenTo, _ := cmd.Flags().GetString("to")
	if tokenFrom == "" || tokenTo == "" {
		return fmt.Errorf("both --from and --to are required")
	}

	amountIn, err := parseAmount(cmd, "amount")
	if err != nil {
		return err
	}
	slippage, _ := cmd.Flags().GetFloat64("slippage")

	params := service.SwapParams{
		Strategy:           strategy,
		TokenFrom:          tokenFrom,
		TokenTo:            tokenTo,
		AmountIn:           amountIn,
		MaxSlippagePercent: slippage,
	}
	if recipientHex, _ := cmd.Flags().GetString("recipient"); recipientHex != "" {
		if !common.IsHexAddress(recipientHex) {
			return fmt.Errorf("invalid recipient address %q", recipientHex)
		}
		params.Recipient = common.HexToAddress(recipientHex)
	}

	if err := a.service.RegisterWallet(ctx, a.wallet); err != nil {
		return err
	}

	record, err := a.service.ExecuteSwap(ctx, a.wallet, params)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "submitted %s %s\n", record.Type, record.Hash)

	if wait, _ := cmd.Flags().GetBool("wait"); wait {
		record, err = a.service.Confirm(ctx, record, a.cfg.ReceiptTimeout)
		if err != nil {
			return err
		}
		a.logger.Info("swap settled", zap.String("status", string(record.Status)))
		fmt.Fprintf(cmd.OutOrStdout(), "%s in block %d, gas used %d\n", record.Status, record.BlockNumber, record.GasUsed)
	}
	return nil
}

func parseAmount(cmd *cobra.Command, flag string) (*big.Int, error) {
	raw, _ := cmd.Flags().GetString(flag)
	if raw == "" {
		return nil, fmt.Errorf("--%s is required", flag)
	}
	amount, ok := new(big.Int).SetString(raw, 10)
	if !ok {
		return nil, fmt.Errorf("invalid %s %q", flag, raw)
	}
	return amount, nil
}
