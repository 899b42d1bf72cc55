package service

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"swapRouter/internal/bus"
	"swapRouter/internal/dex"
	"swapRouter/internal/metrics"
	"swapRouter/internal/model"
	"swapRouter/internal/store"
)

// Receipts waits for a submitted transaction to be mined.
// *chain.Client satisfies it.
type Receipts interface {
	WaitMined(ctx context.Context, txHash string, timeout time.Duration) (*types.Receipt, error)
}

// SwapParams carries one swap order for a wallet.
type SwapParams struct {
	Strategy           dex.Strategy
	TokenFrom          string
	TokenTo            string
	AmountIn           *big.Int
	MaxSlippagePercent float64
	// Recipient defaults to the wallet address when zero.
	Recipient common.Address
}

// TransactionService coordinates swap and approval execution: nonce
// source, on-chain submission, persistence, and event publication.
type TransactionService struct {
	store    store.Store
	bus      bus.EventBus
	backend  dex.Backend
	receipts Receipts
	router   *dex.Router
	chainID  uint64
	logger   *zap.Logger
}

// NewTransactionService wires the service over its dependencies.
func NewTransactionService(st store.Store, eventBus bus.EventBus, backend dex.Backend, receipts Receipts, router *dex.Router, chainID uint64, logger *zap.Logger) *TransactionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TransactionService{
		store:    st,
		bus:      eventBus,
		backend:  backend,
		receipts: receipts,
		router:   router,
		chainID:  chainID,
		logger:   logger,
	}
}

// RegisterWallet persists the wallet. The created event fires only on
// first insertion, not on subsequent registrations of the same wallet.
func (s *TransactionService) RegisterWallet(ctx context.Context, wallet *model.Wallet) error {
	created := false
	if _, err := s.store.GetWallet(ctx, wallet.ID); err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("lookup wallet: %w", err)
		}
		created = true
	}
	if err := s.store.SaveWallet(ctx, wallet); err != nil {
		return fmt.Errorf("save wallet: %w", err)
	}
	if created {
		s.publish(model.WalletCreated{
			EventMeta: model.NewEventMeta(),
			WalletID:  wallet.ID,
			UserID:    wallet.UserID,
			Address:   wallet.Address,
		})
	}
	return nil
}

// SetWalletActive toggles the wallet and announces the change.
func (s *TransactionService) SetWalletActive(ctx context.Context, walletID, userID string, active bool) error {
	if err := s.store.SetWalletActive(ctx, walletID, active); err != nil {
		return fmt.Errorf("set wallet active: %w", err)
	}
	if active {
		s.publish(model.WalletActivated{EventMeta: model.NewEventMeta(), WalletID: walletID, UserID: userID})
	} else {
		s.publish(model.WalletDeactivated{EventMeta: model.NewEventMeta(), WalletID: walletID, UserID: userID})
	}
	return nil
}

// ExecuteSwap submits a swap for the wallet, records it as PENDING, and
// publishes the creation event. The wallet must carry its signing key.
func (s *TransactionService) ExecuteSwap(ctx context.Context, wallet *model.Wallet, params SwapParams) (model.Transaction, error) {
	if err := s.checkWallet(wallet); err != nil {
		return model.Transaction{}, err
	}
	if params.AmountIn == nil || params.AmountIn.Sign() <= 0 {
		return model.Transaction{}, fmt.Errorf("amount in must be positive")
	}

	recipient := params.Recipient
	if recipient == (common.Address{}) {
		recipient = wallet.AddressValue()
	}

	latest, err := s.store.LatestConfirmedTransaction(ctx, s.chainID, wallet.ID)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("load latest confirmed transaction: %w", err)
	}

	built, err := s.router.Swap(ctx, params.Strategy, dex.SwapRequest{
		TokenFrom:          params.TokenFrom,
		TokenTo:            params.TokenTo,
		AmountIn:           params.AmountIn,
		MaxSlippagePercent: params.MaxSlippagePercent,
		Recipient:          recipient,
		Sender:             wallet,
		LatestTx:           latest,
	})
	if err != nil {
		return model.Transaction{}, err
	}

	record := s.newRecord(wallet.ID, swapTransactionType(params.TokenFrom, params.TokenTo), built)
	if err := s.store.SaveTransaction(ctx, record); err != nil {
		return record, fmt.Errorf("save transaction %s: %w", built.Hash, err)
	}

	s.publish(model.TransactionCreated{
		EventMeta:       model.NewEventMeta(),
		TransactionID:   record.ID,
		WalletID:        wallet.ID,
		TransactionType: string(record.Type),
		TransactionHash: record.Hash,
	})

	s.logger.Info("swap submitted",
		zap.String("transaction_id", record.ID),
		zap.String("hash", record.Hash),
		zap.String("type", string(record.Type)),
		zap.Uint64("nonce", record.Nonce),
	)
	return record, nil
}

// Approve grants the spender an allowance on the token and records both
// the transaction and the approval.
func (s *TransactionService) Approve(ctx context.Context, wallet *model.Wallet, token, spender common.Address, amount *big.Int) (model.Transaction, error) {
	return s.approval(ctx, wallet, token, spender, amount, false)
}

// Revoke clears the spender's allowance on the token.
func (s *TransactionService) Revoke(ctx context.Context, wallet *model.Wallet, token, spender common.Address) (model.Transaction, error) {
	return s.approval(ctx, wallet, token, spender, new(big.Int), true)
}

func (s *TransactionService) approval(ctx context.Context, wallet *model.Wallet, token, spender common.Address, amount *big.Int, revoke bool) (model.Transaction, error) {
	if err := s.checkWallet(wallet); err != nil {
		return model.Transaction{}, err
	}

	latest, err := s.store.LatestConfirmedTransaction(ctx, s.chainID, wallet.ID)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("load latest confirmed transaction: %w", err)
	}

	erc20 := dex.NewERC20Client(s.backend, token, s.logger)
	var built dex.BuiltTransaction
	txType := model.TxGiveApproval
	if revoke {
		txType = model.TxRevokeApproval
		built, err = erc20.Revoke(ctx, spender, wallet, latest)
	} else {
		built, err = erc20.Approve(ctx, spender, amount, wallet, latest)
	}
	if err != nil {
		return model.Transaction{}, err
	}

	record := s.newRecord(wallet.ID, txType, built)
	if err := s.store.SaveTransaction(ctx, record); err != nil {
		return record, fmt.Errorf("save transaction %s: %w", built.Hash, err)
	}

	approval := model.Approval{
		ID:           uuid.NewString(),
		ChainID:      s.chainID,
		WalletID:     wallet.ID,
		TokenAddress: token.Hex(),
		Spender:      spender.Hex(),
		Amount:       amount.String(),
		Revoked:      revoke,
		TxHash:       built.Hash,
		CreatedAt:    record.CreatedAt,
	}
	if err := s.store.SaveApproval(ctx, approval); err != nil {
		return record, fmt.Errorf("save approval: %w", err)
	}

	s.publish(model.TransactionCreated{
		EventMeta:       model.NewEventMeta(),
		TransactionID:   record.ID,
		WalletID:        wallet.ID,
		TransactionType: string(record.Type),
		TransactionHash: record.Hash,
	})
	return record, nil
}

// Confirm waits for the transaction's receipt and settles the record to
// CONFIRMED or FAILED. A wait timeout leaves the record PENDING.
func (s *TransactionService) Confirm(ctx context.Context, record model.Transaction, timeout time.Duration) (model.Transaction, error) {
	receipt, err := s.receipts.WaitMined(ctx, record.Hash, timeout)
	if err != nil {
		s.logger.Warn("receipt wait failed", zap.String("hash", record.Hash), zap.Error(err))
		return record, fmt.Errorf("wait for %s: %w", record.Hash, err)
	}

	var blockNumber uint64
	if receipt.BlockNumber != nil {
		blockNumber = receipt.BlockNumber.Uint64()
	}

	status := model.StatusConfirmed
	if receipt.Status != types.ReceiptStatusSuccessful {
		status = model.StatusFailed
	}
	if err := s.store.UpdateTransactionStatus(ctx, record.ID, status, blockNumber, receipt.GasUsed); err != nil {
		return record, fmt.Errorf("update transaction %s: %w", record.ID, err)
	}

	record.Status = status
	record.BlockNumber = blockNumber
	record.GasUsed = receipt.GasUsed

	if status == model.StatusConfirmed {
		metrics.TxConfirmed.WithLabelValues("confirmed").Inc()
		s.publish(model.TransactionConfirmed{
			EventMeta:       model.NewEventMeta(),
			TransactionID:   record.ID,
			TransactionHash: record.Hash,
			BlockNumber:     blockNumber,
			GasUsed:         receipt.GasUsed,
		})
	} else {
		metrics.TxConfirmed.WithLabelValues("failed").Inc()
		s.publish(model.TransactionFailed{
			EventMeta:       model.NewEventMeta(),
			TransactionID:   record.ID,
			TransactionHash: record.Hash,
			Reason:          "reverted",
		})
	}

	s.logger.Info("transaction settled",
		zap.String("transaction_id", record.ID),
		zap.String("status", string(status)),
		zap.Uint64("block", blockNumber),
	)
	return record, nil
}

func (s *TransactionService) newRecord(walletID string, txType model.TransactionType, built dex.BuiltTransaction) model.Transaction {
	now := time.Now().UTC()
	return model.Transaction{
		ID:        uuid.NewString(),
		ChainID:   s.chainID,
		WalletID:  walletID,
		Type:      txType,
		Status:    model.StatusPending,
		Hash:      built.Hash,
		Nonce:     built.Nonce,
		Gas:       built.Gas,
		GasPrice:  built.GasPrice.String(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (s *TransactionService) checkWallet(wallet *model.Wallet) error {
	if wallet == nil {
		return fmt.Errorf("wallet is required")
	}
	if !wallet.IsActive {
		return fmt.Errorf("wallet %s is deactivated", wallet.ID)
	}
	if wallet.Key() == nil {
		return fmt.Errorf("wallet %s has no signing key", wallet.ID)
	}
	return nil
}

// publish sends an event without failing the operation. Broker outages
// must not lose submitted transactions.
func (s *TransactionService) publish(event model.Event) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(event); err != nil {
		s.logger.Error("event publish failed", zap.String("event_type", event.EventType()), zap.Error(err))
	}
}

func swapTransactionType(tokenFrom, tokenTo string) model.TransactionType {
	switch {
	case tokenFrom == dex.NativeToken:
		return model.TxSwapNativeToToken
	case tokenTo == dex.NativeToken:
		return model.TxSwapTokenToNative
	default:
		return model.TxSwapTokenToToken
	}
}
