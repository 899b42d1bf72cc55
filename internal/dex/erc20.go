package dex

import (
	"bytes"
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"swapRouter/internal/model"
)

// ERC20Client reads token state and submits approval transactions for
// one token contract.
type ERC20Client struct {
	backend Backend
	address common.Address
	sender  txSender
	logger  *zap.Logger
}

// NewERC20Client builds a client for the token contract address.
func NewERC20Client(backend Backend, address common.Address, logger *zap.Logger) *ERC20Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ERC20Client{
		backend: backend,
		address: address,
		sender:  txSender{backend: backend, logger: logger},
		logger:  logger,
	}
}

// Address returns the token contract address.
func (c *ERC20Client) Address() common.Address {
	return c.address
}

// BalanceOf returns the token balance of the account.
func (c *ERC20Client) BalanceOf(ctx context.Context, account common.Address) (*big.Int, error) {
	values, err := c.call(ctx, "balanceOf", account)
	if err != nil {
		return nil, err
	}
	return asUint256(values[0], "balanceOf")
}

// Allowance returns the amount the spender may spend from owner.
func (c *ERC20Client) Allowance(ctx context.Context, owner, spender common.Address) (*big.Int, error) {
	values, err := c.call(ctx, "allowance", owner, spender)
	if err != nil {
		return nil, err
	}
	return asUint256(values[0], "allowance")
}

// TotalSupply returns the token's total supply.
func (c *ERC20Client) TotalSupply(ctx context.Context) (*big.Int, error) {
	values, err := c.call(ctx, "totalSupply")
	if err != nil {
		return nil, err
	}
	return asUint256(values[0], "totalSupply")
}

// Decimals returns the token's decimals.
func (c *ERC20Client) Decimals(ctx context.Context) (uint8, error) {
	values, err := c.call(ctx, "decimals")
	if err != nil {
		return 0, err
	}
	decimals, ok := values[0].(uint8)
	if !ok {
		return 0, fmt.Errorf("unexpected decimals output type %T", values[0])
	}
	return decimals, nil
}

// Metadata loads name, symbol, and decimals, falling back to the
// bytes32 ABI variant for non-standard tokens.
func (c *ERC20Client) Metadata(ctx context.Context) (model.Token, error) {
	meta := model.Token{Address: c.address.Hex()}

	decimals, err := c.Decimals(ctx)
	if err != nil {
		return meta, err
	}
	meta.Decimals = decimals

	if symbol, err := c.stringField(ctx, "symbol"); err == nil {
		meta.Symbol = symbol
	} else {
		c.logger.Debug("symbol call failed", zap.String("token", c.address.Hex()), zap.Error(err))
	}
	if name, err := c.stringField(ctx, "name"); err == nil {
		meta.Name = name
	} else {
		c.logger.Debug("name call failed", zap.String("token", c.address.Hex()), zap.Error(err))
	}

	return meta, nil
}

// Approve grants the spender an allowance from the sender's wallet.
func (c *ERC20Client) Approve(ctx context.Context, spender common.Address, amount *big.Int, sender *model.Wallet, latestTx *model.Transaction) (BuiltTransaction, error) {
	erc20ABI, err := ERC20ABI()
	if err != nil {
		return BuiltTransaction{}, fmt.Errorf("parse erc20 abi: %w", err)
	}
	return c.sender.sendContractTx(ctx, c.address, erc20ABI, "approve",
		nil, sender, nextNonce(latestTx), spender, amount)
}

// Revoke clears the spender's allowance by approving zero.
func (c *ERC20Client) Revoke(ctx context.Context, spender common.Address, sender *model.Wallet, latestTx *model.Transaction) (BuiltTransaction, error) {
	return c.Approve(ctx, spender, new(big.Int), sender, latestTx)
}

// Transfer moves tokens from the sender's wallet to another account.
func (c *ERC20Client) Transfer(ctx context.Context, to common.Address, amount *big.Int, sender *model.Wallet, latestTx *model.Transaction) (BuiltTransaction, error) {
	erc20ABI, err := ERC20ABI()
	if err != nil {
		return BuiltTransaction{}, fmt.Errorf("parse erc20 abi: %w", err)
	}
	return c.sender.sendContractTx(ctx, c.address, erc20ABI, "transfer",
		nil, sender, nextNonce(latestTx), to, amount)
}

func (c *ERC20Client) stringField(ctx context.Context, method string) (string, error) {
	values, err := c.call(ctx, method)
	if err == nil {
		if s, ok := values[0].(string); ok {
			return s, nil
		}
		return "", fmt.Errorf("unexpected %s output type %T", method, values[0])
	}

	bytes32ABI, abiErr := erc20ABIBytes32Instance()
	if abiErr != nil {
		return "", fmt.Errorf("parse erc20 bytes32 abi: %w", abiErr)
	}
	values, b32Err := c.callWith(ctx, bytes32ABI, method)
	if b32Err != nil {
		return "", err
	}
	if s, ok := bytes32ToString(values[0]); ok {
		return s, nil
	}
	return "", err
}

func (c *ERC20Client) call(ctx context.Context, method string, args ...interface{}) ([]interface{}, error) {
	erc20ABI, err := ERC20ABI()
	if err != nil {
		return nil, fmt.Errorf("parse erc20 abi: %w", err)
	}
	return c.callWith(ctx, erc20ABI, method, args...)
}

func (c *ERC20Client) callWith(ctx context.Context, parsed abi.ABI, method string, args ...interface{}) ([]interface{}, error) {
	data, err := parsed.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", method, err)
	}
	msg := ethereum.CallMsg{To: &c.address, Data: data}
	resp, err := c.backend.CallContract(ctx, msg, nil)
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", method, err)
	}
	values, err := parsed.Unpack(method, resp)
	if err != nil {
		return nil, fmt.Errorf("unpack %s: %w", method, err)
	}
	return values, nil
}

func asUint256(value interface{}, method string) (*big.Int, error) {
	v, ok := value.(*big.Int)
	if !ok {
		return nil, fmt.Errorf("unexpected %s output type %T", method, value)
	}
	return new(big.Int).Set(v), nil
}

func bytes32ToString(value interface{}) (string, bool) {
	switch v := value.(type) {
	case [32]byte:
		return string(bytes.TrimRight(v[:], "\x00")), true
	case []byte:
		return string(bytes.TrimRight(v, "\x00")), true
	default:
		return "", false
	}
}
