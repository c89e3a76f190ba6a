package token

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/Mohsinsiddi/tokendesk/internal/chain"
	"github.com/Mohsinsiddi/tokendesk/internal/contract"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

const tokenAddr = "0x5FbDB2315678afecb367f032d93F642f64180aa3"

var (
	addrA = "0x70997970C51812dc3A010C7d01b50e0d17dc79C8"
	addrB = "0x3C44CdDdB6a900fa2b585dd299e03d12FA4293BC"
	addrC = "0x90F79bf6EB2c4f870365E785982E1f101E93b906"
)

// fakeToken answers eth_call like a deployed lottery token.
type fakeToken struct {
	abi abi.ABI

	mu       sync.Mutex
	name     string
	symbol   string
	decimals uint8
	supply   *big.Int
	holders  []string
	balances map[common.Address]*big.Int
	allow    *big.Int
	failing  map[string]bool
	badAddrs map[common.Address]bool

	calls atomic.Int32
}

func newFakeToken(t *testing.T) *fakeToken {
	t.Helper()
	parsed, err := contract.TokenABI()
	require.NoError(t, err)
	return &fakeToken{
		abi:      parsed,
		name:     "Lottery",
		symbol:   "LOT",
		decimals: 18,
		supply:   mustBig("1000000000000000000000"),
		balances: make(map[common.Address]*big.Int),
		allow:    big.NewInt(0),
		failing:  make(map[string]bool),
		badAddrs: make(map[common.Address]bool),
	}
}

func (f *fakeToken) setBalance(addr string, v int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.balances[common.HexToAddress(addr)] = big.NewInt(v)
}

func (f *fakeToken) failBalance(addr string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.badAddrs[common.HexToAddress(addr)] = true
}

func (f *fakeToken) CallContract(_ context.Context, to, calldata string) (string, error) {
	f.calls.Add(1)
	if !strings.EqualFold(to, tokenAddr) {
		return "0x", nil
	}
	data, err := hex.DecodeString(strings.TrimPrefix(calldata, "0x"))
	if err != nil || len(data) < 4 {
		return "", errors.New("bad calldata")
	}
	m, err := f.abi.MethodById(data[:4])
	if err != nil {
		return "", err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing[m.Name] {
		return "", &chain.RPCError{Code: 3, Message: "execution reverted"}
	}

	var out []byte
	switch m.Name {
	case "name":
		out, err = m.Outputs.Pack(f.name)
	case "symbol":
		out, err = m.Outputs.Pack(f.symbol)
	case "decimals":
		out, err = m.Outputs.Pack(f.decimals)
	case "totalSupply":
		out, err = m.Outputs.Pack(f.supply)
	case "allowance":
		out, err = m.Outputs.Pack(f.allow)
	case "getAllTimeHolder":
		addrs := make([]common.Address, len(f.holders))
		for i, h := range f.holders {
			addrs[i] = common.HexToAddress(h)
		}
		out, err = m.Outputs.Pack(addrs)
	case "balanceOf":
		args, uerr := m.Inputs.Unpack(data[4:])
		if uerr != nil {
			return "", uerr
		}
		who := args[0].(common.Address)
		if f.badAddrs[who] {
			return "", errors.New("connection reset by peer")
		}
		bal, ok := f.balances[who]
		if !ok {
			bal = big.NewInt(0)
		}
		out, err = m.Outputs.Pack(bal)
	default:
		return "", fmt.Errorf("unexpected call %s", m.Name)
	}
	if err != nil {
		return "", err
	}
	return "0x" + hex.EncodeToString(out), nil
}

// fakeTransactor records writes instead of sending them.
type fakeTransactor struct {
	calls atomic.Int32
	to    string
	value *big.Int
	data  []byte
	err   error
}

func (f *fakeTransactor) Transact(_ context.Context, to string, value *big.Int, data []byte) (*chain.TxReceipt, error) {
	f.calls.Add(1)
	f.to, f.value, f.data = to, value, data
	if f.err != nil {
		return nil, f.err
	}
	return &chain.TxReceipt{Hash: "0xfeed", Status: 1, BlockNumber: 9}, nil
}

func newTestClient(t *testing.T, r Reader, opts ...Option) *Client {
	t.Helper()
	c, err := NewClient(tokenAddr, r, opts...)
	require.NoError(t, err)
	return c
}

func mustBig(s string) *big.Int {
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic("bad big int " + s)
	}
	return n
}
