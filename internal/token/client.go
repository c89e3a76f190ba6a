// Package token is a typed client for the lottery token contract plus the
// reconciler that derives current holders from the all-time holder list.
package token

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"

	"github.com/Mohsinsiddi/tokendesk/internal/chain"
	"github.com/Mohsinsiddi/tokendesk/internal/config"
	"github.com/Mohsinsiddi/tokendesk/internal/contract"
	"github.com/Mohsinsiddi/tokendesk/internal/logging"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

// Reader performs eth_call. *chain.EVMClient satisfies it.
type Reader = contract.Reader

// Transactor submits a write and blocks until one confirmation.
// *contract.Sender satisfies it.
type Transactor interface {
	Transact(ctx context.Context, to string, value *big.Int, data []byte) (*chain.TxReceipt, error)
}

// Client wraps read and write calls against one deployed token.
type Client struct {
	address     string
	caller      *contract.Caller
	tx          Transactor
	log         *zap.Logger
	concurrency int

	mu       sync.RWMutex
	decimals *uint8
}

// Option configures a Client.
type Option func(*Client)

// WithTransactor enables writes. Without it every write is rejected with a
// ValidationError.
func WithTransactor(t Transactor) Option {
	return func(c *Client) { c.tx = t }
}

// WithLogger attaches a logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.log = logging.OrNop(l) }
}

// WithConcurrency caps concurrent balance reads during reconciliation.
// Zero means unlimited.
func WithConcurrency(n int) Option {
	return func(c *Client) { c.concurrency = n }
}

// NewClient returns a client for the token at address.
func NewClient(address string, reader Reader, opts ...Option) (*Client, error) {
	if err := ValidateAddress("token address", address); err != nil {
		return nil, err
	}
	parsed, err := contract.TokenABI()
	if err != nil {
		return nil, fmt.Errorf("loading token ABI: %w", err)
	}
	c := &Client{
		address: address,
		caller:  contract.NewCaller(reader, parsed),
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Address returns the token contract address.
func (c *Client) Address() string { return c.address }

// CanWrite reports whether a transactor is attached.
func (c *Client) CanWrite() bool { return c.tx != nil }

// Concurrency returns the configured balance-read cap.
func (c *Client) Concurrency() int { return c.concurrency }

// Decimals returns the resolved decimals, or 18 until decimals() has
// succeeded once.
func (c *Client) Decimals() uint8 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.decimals == nil {
		return config.DefaultDecimals
	}
	return *c.decimals
}

// ResolveDecimals reads decimals() unless it is already known.
func (c *Client) ResolveDecimals(ctx context.Context) (uint8, error) {
	c.mu.RLock()
	known := c.decimals
	c.mu.RUnlock()
	if known != nil {
		return *known, nil
	}

	out, err := c.read(ctx, "decimals")
	if err != nil {
		return 0, err
	}
	d := out[0].(uint8)
	c.setDecimals(d)
	return d, nil
}

func (c *Client) setDecimals(d uint8) {
	c.mu.Lock()
	c.decimals = &d
	c.mu.Unlock()
}

// ParseAmount parses s with the client's decimals.
func (c *Client) ParseAmount(s string) (*big.Int, error) {
	return ParseAmount(s, c.Decimals())
}

// FormatAmount renders raw with the client's decimals.
func (c *Client) FormatAmount(raw *big.Int) string {
	return FormatAmount(raw, c.Decimals())
}

// AllTimeHolders returns every address that ever held the token, in
// contract order. Duplicates are kept.
func (c *Client) AllTimeHolders(ctx context.Context) ([]string, error) {
	out, err := c.read(ctx, "getAllTimeHolder")
	if err != nil {
		return nil, err
	}
	addrs, ok := out[0].([]common.Address)
	if !ok {
		return nil, &ContractCallError{Method: "getAllTimeHolder", Err: fmt.Errorf("unexpected result type %T", out[0])}
	}
	holders := make([]string, len(addrs))
	for i, a := range addrs {
		holders[i] = a.Hex()
	}
	return holders, nil
}

// BalanceOf returns the base-unit balance of addr.
func (c *Client) BalanceOf(ctx context.Context, addr string) (*big.Int, error) {
	if err := ValidateAddress("account", addr); err != nil {
		return nil, err
	}
	out, err := c.read(ctx, "balanceOf", common.HexToAddress(addr))
	if err != nil {
		return nil, err
	}
	return out[0].(*big.Int), nil
}

// Allowance returns how much delegate may still spend on behalf of owner.
func (c *Client) Allowance(ctx context.Context, owner, delegate string) (*big.Int, error) {
	if err := ValidateAddress("owner", owner); err != nil {
		return nil, err
	}
	if err := ValidateAddress("delegate", delegate); err != nil {
		return nil, err
	}
	out, err := c.read(ctx, "allowance", common.HexToAddress(owner), common.HexToAddress(delegate))
	if err != nil {
		return nil, err
	}
	return out[0].(*big.Int), nil
}

// Transfer moves amount base units from the connected account to to.
func (c *Client) Transfer(ctx context.Context, to string, amount *big.Int) (*chain.TxReceipt, error) {
	if err := ValidateAddress("recipient", to); err != nil {
		return nil, err
	}
	if err := validateAmount(amount); err != nil {
		return nil, err
	}
	return c.write(ctx, "transfer", nil, common.HexToAddress(to), amount)
}

// TransferFrom moves amount from owner to to using the connected account's
// allowance.
func (c *Client) TransferFrom(ctx context.Context, owner, to string, amount *big.Int) (*chain.TxReceipt, error) {
	if err := ValidateAddress("owner", owner); err != nil {
		return nil, err
	}
	if err := ValidateAddress("recipient", to); err != nil {
		return nil, err
	}
	if err := validateAmount(amount); err != nil {
		return nil, err
	}
	return c.write(ctx, "transferFrom", nil, common.HexToAddress(owner), common.HexToAddress(to), amount)
}

// Approve lets delegate spend up to amount of the connected account's tokens.
func (c *Client) Approve(ctx context.Context, delegate string, amount *big.Int) (*chain.TxReceipt, error) {
	if err := ValidateAddress("delegate", delegate); err != nil {
		return nil, err
	}
	if err := validateAmount(amount); err != nil {
		return nil, err
	}
	return c.write(ctx, "approve", nil, common.HexToAddress(delegate), amount)
}

// Enter pays the fixed entry fee into the lottery.
func (c *Client) Enter(ctx context.Context) (*chain.TxReceipt, error) {
	return c.write(ctx, "enter", config.EntryFeeWei())
}

func (c *Client) read(ctx context.Context, method string, args ...interface{}) ([]interface{}, error) {
	out, err := c.caller.Call(ctx, c.address, method, args...)
	if err != nil {
		c.log.Debug("read failed", zap.String("method", method), zap.Error(err))
		return nil, &ContractCallError{Method: method, Err: err}
	}
	if len(out) == 0 {
		return nil, &ContractCallError{Method: method, Err: errors.New("no return value")}
	}
	return out, nil
}

func (c *Client) write(ctx context.Context, method string, value *big.Int, args ...interface{}) (*chain.TxReceipt, error) {
	if c.tx == nil {
		return nil, invalid("session", "no wallet connected")
	}
	data, err := c.caller.Pack(method, args...)
	if err != nil {
		return nil, invalid("arguments", err.Error())
	}

	c.log.Debug("submitting", zap.String("method", method), zap.String("address", c.address))
	receipt, err := c.tx.Transact(ctx, c.address, value, data)
	if err != nil {
		txErr := &TransactionError{Method: method, Err: err}
		var se *contract.SendError
		if errors.As(err, &se) {
			txErr.Hash = se.Hash
		} else if receipt != nil {
			txErr.Hash = receipt.Hash
		}
		c.log.Debug("transaction failed", zap.String("method", method), zap.String("hash", txErr.Hash), zap.Error(err))
		return receipt, txErr
	}
	c.log.Debug("confirmed", zap.String("method", method), zap.String("hash", receipt.Hash))
	return receipt, nil
}

func validateAmount(amount *big.Int) error {
	if amount == nil {
		return invalid("amount", "amount is required")
	}
	if amount.Sign() < 0 {
		return invalid("amount", "amount must not be negative")
	}
	return nil
}
