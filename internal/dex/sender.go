package dex

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"swapRouter/internal/metrics"
	"swapRouter/internal/model"
)

// gasPriceBufferNum/Den apply the +10% gas price safety margin,
// rounded down.
const (
	gasPriceBufferNum = 110
	gasPriceBufferDen = 100
)

// BuiltTransaction is the artifact of a successfully submitted
// transaction.
type BuiltTransaction struct {
	Hash     string   `json:"hash"`
	Gas      uint64   `json:"gas"`
	GasPrice *big.Int `json:"gas_price"`
	Nonce    uint64   `json:"nonce"`
}

// txSender builds, signs, and submits contract transactions.
type txSender struct {
	backend Backend
	logger  *zap.Logger
}

// sendContractTx runs the fixed pipeline: buffered gas price, gas
// estimation against the full call, signing, and submission. The
// artifact is only populated on success; estimate/sign/submit failures
// come back as a TransactionError.
func (s *txSender) sendContractTx(
	ctx context.Context,
	to common.Address,
	contractABI abi.ABI,
	method string,
	value *big.Int,
	sender *model.Wallet,
	nonce uint64,
	args ...interface{},
) (BuiltTransaction, error) {
	if sender == nil || sender.Key() == nil {
		return BuiltTransaction{}, fmt.Errorf("sender wallet has no signing key")
	}

	data, err := contractABI.Pack(method, args...)
	if err != nil {
		return BuiltTransaction{}, fmt.Errorf("pack %s: %w", method, err)
	}

	gasPrice, err := s.backend.SuggestGasPrice(ctx)
	if err != nil {
		return BuiltTransaction{}, fmt.Errorf("get gas price: %w", err)
	}
	gasPrice = new(big.Int).Div(
		new(big.Int).Mul(gasPrice, big.NewInt(gasPriceBufferNum)),
		big.NewInt(gasPriceBufferDen),
	)

	chainID, err := s.backend.ChainID(ctx)
	if err != nil {
		return BuiltTransaction{}, fmt.Errorf("get chain id: %w", err)
	}

	if value == nil {
		value = new(big.Int)
	}
	from := sender.AddressValue()

	hash := UnknownTxHash

	gas, err := s.backend.EstimateGas(ctx, ethereum.CallMsg{
		From:     from,
		To:       &to,
		Value:    value,
		GasPrice: gasPrice,
		Data:     data,
	})
	if err != nil {
		s.logger.Error("gas estimation failed", zap.String("method", method), zap.Error(err))
		return BuiltTransaction{}, newTransactionError(hash, err)
	}
	s.logger.Info("gas estimation successful", zap.String("method", method), zap.Uint64("gas", gas))

	signer := types.LatestSignerForChainID(chainID)
	signed, err := types.SignNewTx(sender.Key(), signer, &types.LegacyTx{
		Nonce:    nonce,
		GasPrice: gasPrice,
		Gas:      gas,
		To:       &to,
		Value:    value,
		Data:     data,
	})
	if err != nil {
		s.logger.Error("signing failed", zap.String("method", method), zap.Error(err))
		return BuiltTransaction{}, newTransactionError(hash, err)
	}
	hash = signed.Hash().Hex()

	if err := s.backend.SendTransaction(ctx, signed); err != nil {
		s.logger.Error("submission failed", zap.String("method", method), zap.String("tx_hash", hash), zap.Error(err))
		return BuiltTransaction{}, newTransactionError(hash, err)
	}

	s.logger.Info("transaction sent",
		zap.String("method", method),
		zap.String("tx_hash", hash),
		zap.Uint64("nonce", nonce),
	)
	metrics.TxSubmitted.WithLabelValues(method).Inc()

	return BuiltTransaction{
		Hash:     hash,
		Gas:      gas,
		GasPrice: gasPrice,
		Nonce:    nonce,
	}, nil
}

// nextNonce derives the nonce from the sender's last confirmed
// transaction, starting at zero for a fresh wallet.
func nextNonce(latest *model.Transaction) uint64 {
	if latest == nil {
		return 0
	}
	return latest.Nonce + 1
}
