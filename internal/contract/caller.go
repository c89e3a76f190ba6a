package contract

import (
	"context"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// Reader performs eth_call against the latest block.
// *chain.EVMClient satisfies it.
type Reader interface {
	CallContract(ctx context.Context, to, calldata string) (string, error)
}

// Caller calls read-only (view/pure) contract functions through an ABI.
type Caller struct {
	reader Reader
	abi    abi.ABI
}

// NewCaller creates a Caller for the given ABI.
func NewCaller(reader Reader, contractABI abi.ABI) *Caller {
	return &Caller{reader: reader, abi: contractABI}
}

// Pack builds calldata for method with args.
func (c *Caller) Pack(method string, args ...interface{}) ([]byte, error) {
	fn, ok := c.abi.Methods[method]
	if !ok {
		return nil, fmt.Errorf("function %q not found in ABI", method)
	}
	data, err := c.abi.Pack(fn.Name, args...)
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", method, err)
	}
	return data, nil
}

// Call invokes a read function on contractAddr and returns the decoded outputs.
func (c *Caller) Call(ctx context.Context, contractAddr, method string, args ...interface{}) ([]interface{}, error) {
	fn, ok := c.abi.Methods[method]
	if !ok {
		return nil, fmt.Errorf("function %q not found in ABI", method)
	}
	if !fn.IsConstant() {
		return nil, fmt.Errorf("function %q is not a read function (stateMutability: %s)", method, fn.StateMutability)
	}

	data, err := c.Pack(method, args...)
	if err != nil {
		return nil, err
	}

	result, err := c.reader.CallContract(ctx, contractAddr, "0x"+hex.EncodeToString(data))
	if err != nil {
		return nil, fmt.Errorf("contract call failed: %w", err)
	}

	raw, err := hex.DecodeString(strings.TrimPrefix(result, "0x"))
	if err != nil {
		return nil, fmt.Errorf("decoding hex result: %w", err)
	}
	if len(raw) == 0 && len(fn.Outputs) > 0 {
		// Calling a non-contract address returns "0x".
		return nil, fmt.Errorf("empty result for %s: no contract code at %s?", method, contractAddr)
	}

	out, err := c.abi.Unpack(method, raw)
	if err != nil {
		return nil, fmt.Errorf("decoding result: %w", err)
	}
	return out, nil
}
