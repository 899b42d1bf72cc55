package main

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"swapRouter/internal/model"
)

func runApprove(cmd *cobra.Command, _ []string) error {
	ctx, stop := signalContext()
	defer stop()

	a, err := setup(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.close()

	token, spender, err := approvalAddresses(ctx, cmd, a)
	if err != nil {
		return err
	}
	amount, err := parseAmount(cmd, "amount")
	if err != nil {
		return err
	}

	record, err := a.service.Approve(ctx, a.wallet, token, spender, amount)
	if err != nil {
		return err
	}
	return printApproval(ctx, cmd, a, record)
}

func runRevoke(cmd *cobra.Command, _ []string) error {
	ctx, stop := signalContext()
	defer stop()

	a, err := setup(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.close()

	token, spender, err := approvalAddresses(ctx, cmd, a)
	if err != nil {
		return err
	}

	record, err := a.service.Revoke(ctx, a.wallet, token, spender)
	if err != nil {
		return err
	}
	return printApproval(ctx, cmd, a, record)
}

func approvalAddresses(ctx context.Context, cmd *cobra.Command, a *app) (token, spender common.Address, err error) {
	if a.wallet == nil {
		return token, spender, fmt.Errorf("wallet key is required")
	}

	tokenHex, _ := cmd.Flags().GetString("token")
	if !common.IsHexAddress(tokenHex) {
		return token, spender, fmt.Errorf("invalid token address %q", tokenHex)
	}
	token = common.HexToAddress(tokenHex)

	spenderHex, _ := cmd.Flags().GetString("spender")
	if spenderHex == "" {
		spenderHex = a.cfg.RouterAddress
	}
	if !common.IsHexAddress(spenderHex) {
		return token, spender, fmt.Errorf("invalid spender address %q", spenderHex)
	}
	spender = common.HexToAddress(spenderHex)

	if err := a.service.RegisterWallet(ctx, a.wallet); err != nil {
		return token, spender, err
	}
	return token, spender, nil
}

func printApproval(ctx context.Context, cmd *cobra.Command, a *app, record model.Transaction) error {
	fmt.Fprintf(cmd.OutOrStdout(), "submitted %s %s\n", record.Type, record.Hash)
	record, err := a.service.Confirm(ctx, record, a.cfg.ReceiptTimeout)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s in block %d\n", record.Status, record.BlockNumber)
	return nil
}
