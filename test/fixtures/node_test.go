package fixtures

import (
	"context"
	"math/big"
	"testing"

	"github.com/Mohsinsiddi/tokendesk/internal/chain"
	"github.com/Mohsinsiddi/tokendesk/internal/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddressesAreChecksummed(t *testing.T) {
	for _, a := range []string{TokenAddress, HolderA, HolderB, HolderC} {
		assert.NoError(t, token.ValidateAddress("address", a), a)
		assert.Equal(t, Checksum(a), a)
	}
}

func TestNodeMatchesBalancesAnyCase(t *testing.T) {
	state := DefaultState()
	state.Balances = map[string]*big.Int{
		"0x90f79bf6eb2c4f870365e785982e1f101e93b906": Tokens(7),
	}
	state.Reverts = map[string]bool{
		"0x70997970c51812dc3a010c7d01b50e0d17dc79c8": true,
	}
	node := NewNode(t, state)

	c, err := token.NewClient(TokenAddress, chain.NewEVMClient(node.URL))
	require.NoError(t, err)

	bal, err := c.BalanceOf(context.Background(), HolderC)
	require.NoError(t, err)
	assert.Equal(t, Tokens(7), bal)

	_, err = c.BalanceOf(context.Background(), HolderA)
	require.Error(t, err)
	assert.True(t, token.IsContractCall(err))
}
