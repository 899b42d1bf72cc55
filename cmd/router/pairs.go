package main

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"swapRouter/internal/dex"
)

func runPairs(cmd *cobra.Command, _ []string) error {
	ctx, stop := signalContext()
	defer stop()

	a, err := setup(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.close()

	registry := dex.NewFactoryClient(a.client, common.HexToAddress(a.cfg.FactoryAddress), a.logger)
	out := cmd.OutOrStdout()

	total, err := registry.NumberOfPairs(ctx)
	if err != nil {
		return err
	}
	available, err := registry.GetAvailableBinSteps(ctx)
	if err != nil {
		return err
	}
	open, err := registry.GetOpenBinSteps(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "pairs: %d\navailable bin steps: %v\nopen bin steps: %v\n", total, available, open)

	for _, step := range available {
		preset, err := registry.GetPreset(ctx, step)
		if err != nil {
			a.logger.Warn("preset lookup failed", zap.Uint64("bin_step", step), zap.Error(err))
			continue
		}
		fmt.Fprintf(out, "preset %d: base factor %d, protocol share %d, open=%t\n",
			preset.BinStep, preset.BaseFactor, preset.ProtocolShare, preset.IsOpen)
	}

	tokenAHex, _ := cmd.Flags().GetString("token-a")
	tokenBHex, _ := cmd.Flags().GetString("token-b")
	if tokenAHex == "" && tokenBHex == "" {
		return nil
	}
	if !common.IsHexAddress(tokenAHex) || !common.IsHexAddress(tokenBHex) {
		return fmt.Errorf("both --token-a and --token-b must be addresses")
	}

	pairs, err := registry.GetAllPairsForTokens(ctx, common.HexToAddress(tokenAHex), common.HexToAddress(tokenBHex))
	if err != nil {
		return err
	}
	for _, pair := range pairs {
		fmt.Fprintf(out, "bin step %d: %s eligible=%t\n", pair.BinStep, pair.Pair.Hex(), pair.Eligible())
	}
	if best, ok := registry.GetBestPairForTokens(ctx, common.HexToAddress(tokenAHex), common.HexToAddress(tokenBHex)); ok {
		fmt.Fprintf(out, "best: bin step %d at %s\n", best.BinStep, best.Pair.Hex())
	}
	return nil
}
