package wallet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignAndVerifyMessage(t *testing.T) {
	ks := NewInMemoryKeystore()
	w := signingWallet(t, ks)

	msg := []byte("hello tokendesk")
	sig, err := SignMessage(w, ks, msg)
	require.NoError(t, err)
	require.Len(t, sig, 65)
	assert.Contains(t, []byte{27, 28}, sig[64])

	addr, err := VerifyMessage(msg, sig)
	require.NoError(t, err)
	assert.Equal(t, testSignerAddr, addr.Hex())
}

func TestVerifyMessageTampered(t *testing.T) {
	ks := NewInMemoryKeystore()
	sig, err := SignMessage(signingWallet(t, ks), ks, []byte("original"))
	require.NoError(t, err)

	addr, err := VerifyMessage([]byte("tampered"), sig)
	if err == nil {
		assert.NotEqual(t, testSignerAddr, addr.Hex())
	}
}

func TestVerifyMessageBadLength(t *testing.T) {
	_, err := VerifyMessage([]byte("x"), make([]byte, 64))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid signature length")
}

func TestSignMessageWatchOnly(t *testing.T) {
	w := &Wallet{Name: "watch", Address: testSignerAddr, Type: TypeWatchOnly}
	_, err := SignMessage(w, NewInMemoryKeystore(), []byte("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "watch-only")
}
