package contract

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/Mohsinsiddi/tokendesk/internal/chain"
	"github.com/Mohsinsiddi/tokendesk/internal/config"
	"github.com/Mohsinsiddi/tokendesk/internal/logging"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"
)

// Backend is the part of the JSON-RPC client a Sender needs.
// *chain.EVMClient satisfies it.
type Backend interface {
	EstimateGas(ctx context.Context, from, to, data string, value *big.Int) (uint64, error)
	GasPrice(ctx context.Context) (*big.Int, error)
	GetPendingNonce(ctx context.Context, address string) (uint64, error)
	SendRawTransaction(ctx context.Context, rawTx string) (string, error)
	WaitForReceipt(ctx context.Context, hash string, timeout, interval time.Duration) (*chain.TxReceipt, error)
}

// Signer signs transactions for one account. *wallet.Signer satisfies it.
type Signer interface {
	Address() string
	SignTx(tx *types.Transaction, chainID *big.Int) ([]byte, error)
}

// SendError is returned by Transact. Hash is empty when the transaction
// never reached the network.
type SendError struct {
	Stage string // "estimate" | "sign" | "broadcast" | "confirm" ...
	Hash  string
	Err   error
}

func (e *SendError) Error() string {
	if e.Hash != "" {
		return fmt.Sprintf("%s tx %s: %v", e.Stage, e.Hash, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *SendError) Unwrap() error { return e.Err }

// Sender builds, signs and broadcasts write transactions, then waits for a
// single confirmation.
type Sender struct {
	backend     Backend
	signer      Signer
	chainID     *big.Int
	gasFallback uint64
	timeout     time.Duration
	interval    time.Duration
	log         *zap.Logger
}

// SenderOption configures a Sender.
type SenderOption func(*Sender)

// WithGasFallback sets the gas limit used when estimation fails.
func WithGasFallback(gas uint64) SenderOption {
	return func(s *Sender) { s.gasFallback = gas }
}

// WithConfirmTimeout overrides how long Transact waits for the receipt.
func WithConfirmTimeout(timeout, interval time.Duration) SenderOption {
	return func(s *Sender) {
		s.timeout = timeout
		s.interval = interval
	}
}

// WithSenderLogger attaches a logger.
func WithSenderLogger(l *zap.Logger) SenderOption {
	return func(s *Sender) { s.log = logging.OrNop(l) }
}

// NewSender creates a Sender.
func NewSender(backend Backend, signer Signer, chainID *big.Int, opts ...SenderOption) *Sender {
	s := &Sender{
		backend:     backend,
		signer:      signer,
		chainID:     chainID,
		gasFallback: config.GasLimitContractCall,
		timeout:     config.TxConfirmTimeout,
		interval:    config.ReceiptPollInterval,
		log:         zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// From returns the sending address.
func (s *Sender) From() string { return s.signer.Address() }

// Transact sends data (with optional value in wei) to contractAddr and
// blocks until the transaction has one confirmation. A call the node
// reports as reverting during gas estimation is not broadcast. A reverted
// transaction returns its receipt together with an error.
func (s *Sender) Transact(ctx context.Context, contractAddr string, value *big.Int, data []byte) (*chain.TxReceipt, error) {
	if value == nil {
		value = big.NewInt(0)
	}
	from := s.signer.Address()
	dataHex := "0x" + hex.EncodeToString(data)
	log := s.log.With(zap.String("from", from), zap.String("to", contractAddr))

	gas, err := s.backend.EstimateGas(ctx, from, contractAddr, dataHex, value)
	var rpcErr *chain.RPCError
	if errors.As(err, &rpcErr) && rpcErr.IsRevert() {
		return nil, &SendError{Stage: "estimate", Err: err}
	}
	if err != nil {
		log.Debug("gas estimate failed, using fallback", zap.Error(err), zap.Uint64("gas", s.gasFallback))
		gas = s.gasFallback
	}

	gasPrice, err := s.backend.GasPrice(ctx)
	if err != nil {
		return nil, &SendError{Stage: "gas price", Err: err}
	}

	nonce, err := s.backend.GetPendingNonce(ctx, from)
	if err != nil {
		return nil, &SendError{Stage: "nonce", Err: err}
	}

	to := common.HexToAddress(contractAddr)
	tx := types.NewTx(&types.DynamicFeeTx{
		ChainID:   s.chainID,
		Nonce:     nonce,
		GasTipCap: gasPrice,
		GasFeeCap: new(big.Int).Mul(gasPrice, big.NewInt(2)),
		Gas:       gas,
		To:        &to,
		Value:     value,
		Data:      data,
	})

	raw, err := s.signer.SignTx(tx, s.chainID)
	if err != nil {
		return nil, &SendError{Stage: "sign", Err: err}
	}

	hash, err := s.backend.SendRawTransaction(ctx, "0x"+hex.EncodeToString(raw))
	if err != nil {
		return nil, &SendError{Stage: "broadcast", Err: err}
	}
	log.Debug("transaction broadcast", zap.String("hash", hash), zap.Uint64("nonce", nonce), zap.Uint64("gas", gas))

	receipt, err := s.backend.WaitForReceipt(ctx, hash, s.timeout, s.interval)
	if err != nil {
		return receipt, &SendError{Stage: "confirm", Hash: hash, Err: err}
	}
	log.Debug("transaction confirmed", zap.String("hash", hash), zap.Uint64("block", receipt.BlockNumber))
	return receipt, nil
}
