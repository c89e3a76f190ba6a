// Package fixtures provides an in-process JSON-RPC node that serves a
// lottery token's read functions for integration and e2e tests.
package fixtures

import (
	"encoding/hex"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/Mohsinsiddi/tokendesk/internal/contract"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

// Hardhat default accounts 1-3.
const (
	TokenAddress = "0x5FbDB2315678afecb367f032d93F642f64180aa3"
	HolderA      = "0x70997970C51812dc3A010C7d01b50e0d17dc79C8"
	HolderB      = "0x3C44CdDdB6a900fa2b585dd299e03d12FA4293BC"
	HolderC      = "0x90F79bf6EB2c4f870365E785982E1f101E93b906"
)

// TokenState is what the node reports for the token.
type TokenState struct {
	Name        string
	Symbol      string
	Decimals    uint8
	TotalSupply *big.Int
	Holders     []string
	Balances    map[string]*big.Int // keyed by checksummed address
	Reverts     map[string]bool     // balanceOf reverts for these addresses
}

// DefaultState is three all-time holders of which B has sold out.
func DefaultState() TokenState {
	return TokenState{
		Name:        "Lottery",
		Symbol:      "LOT",
		Decimals:    18,
		TotalSupply: Tokens(1000),
		Holders:     []string{HolderA, HolderB, HolderC},
		Balances: map[string]*big.Int{
			HolderA: Tokens(10),
			HolderB: big.NewInt(0),
			HolderC: Tokens(5),
		},
	}
}

// Tokens returns n whole tokens in base units at 18 decimals.
func Tokens(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil))
}

// Node is a running fake JSON-RPC endpoint.
type Node struct {
	*httptest.Server

	mu    sync.Mutex
	state TokenState
	abi   abi.ABI
	calls map[string]int
}

// NewNode starts a node serving state. It is closed when the test ends.
func NewNode(t *testing.T, state TokenState) *Node {
	t.Helper()
	parsed, err := contract.TokenABI()
	require.NoError(t, err)

	state.Balances = canonicalKeys(state.Balances)
	state.Reverts = canonicalKeys(state.Reverts)
	n := &Node{state: state, abi: parsed, calls: map[string]int{}}
	n.Server = httptest.NewServer(http.HandlerFunc(n.serve))
	t.Cleanup(n.Close)
	return n
}

// Calls returns how many eth_call requests hit method.
func (n *Node) Calls(method string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.calls[method]
}

// SetBalance changes one holder's balance.
func (n *Node) SetBalance(addr string, bal *big.Int) {
	n.mu.Lock()
	n.state.Balances[Checksum(addr)] = bal
	n.mu.Unlock()
}

// Checksum returns addr in the EIP-55 form the node uses as map key.
func Checksum(addr string) string { return common.HexToAddress(addr).Hex() }

func canonicalKeys[V any](m map[string]V) map[string]V {
	out := make(map[string]V, len(m))
	for k, v := range m {
		out[Checksum(k)] = v
	}
	return out
}

type rpcRequest struct {
	ID     json.RawMessage   `json:"id"`
	Method string            `json:"method"`
	Params []json.RawMessage `json:"params"`
}

func (n *Node) serve(w http.ResponseWriter, r *http.Request) {
	var req rpcRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	resp := map[string]interface{}{"jsonrpc": "2.0", "id": req.ID}
	switch req.Method {
	case "eth_blockNumber":
		resp["result"] = "0x10"
	case "eth_chainId":
		resp["result"] = "0x7a69"
	case "eth_call":
		result, rpcErr := n.call(req.Params)
		if rpcErr != "" {
			resp["error"] = map[string]interface{}{"code": 3, "message": rpcErr}
		} else {
			resp["result"] = result
		}
	default:
		resp["error"] = map[string]interface{}{"code": -32601, "message": "method not found"}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp) //nolint:errcheck
}

func (n *Node) call(params []json.RawMessage) (string, string) {
	if len(params) == 0 {
		return "", "missing params"
	}
	var msg struct {
		Data string `json:"data"`
	}
	if err := json.Unmarshal(params[0], &msg); err != nil {
		return "", "bad call object"
	}
	data, err := hex.DecodeString(strings.TrimPrefix(msg.Data, "0x"))
	if err != nil || len(data) < 4 {
		return "", "bad calldata"
	}
	method, err := n.abi.MethodById(data[:4])
	if err != nil {
		return "", "execution reverted"
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls[method.Name]++

	var out []byte
	switch method.Name {
	case "name":
		out, err = method.Outputs.Pack(n.state.Name)
	case "symbol":
		out, err = method.Outputs.Pack(n.state.Symbol)
	case "decimals":
		out, err = method.Outputs.Pack(n.state.Decimals)
	case "totalSupply":
		out, err = method.Outputs.Pack(n.state.TotalSupply)
	case "getAllTimeHolder":
		addrs := make([]common.Address, len(n.state.Holders))
		for i, h := range n.state.Holders {
			addrs[i] = common.HexToAddress(h)
		}
		out, err = method.Outputs.Pack(addrs)
	case "balanceOf":
		args, uerr := method.Inputs.Unpack(data[4:])
		if uerr != nil {
			return "", "bad balanceOf args"
		}
		who := args[0].(common.Address).Hex()
		if n.state.Reverts[who] {
			return "", "execution reverted"
		}
		bal := n.state.Balances[who]
		if bal == nil {
			bal = big.NewInt(0)
		}
		out, err = method.Outputs.Pack(bal)
	default:
		return "", "execution reverted"
	}
	if err != nil {
		return "", err.Error()
	}
	return "0x" + hex.EncodeToString(out), ""
}
