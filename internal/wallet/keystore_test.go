package wallet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileKeystoreRoundTrip(t *testing.T) {
	ks := testKeystore(t)

	ref, err := ks.Store("alice", testPrivKeyHex)
	require.NoError(t, err)
	assert.Equal(t, "tokendesk.alice", ref)

	got, err := ks.Retrieve(ref)
	require.NoError(t, err)
	assert.Equal(t, testPrivKeyHex, got)

	require.NoError(t, ks.Delete(ref))
	_, err = ks.Retrieve(ref)
	assert.Error(t, err)
}

func TestFileKeystoreSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	ks, err := NewFileKeystore(dir, "pw")
	require.NoError(t, err)
	ref, err := ks.Store("bob", testPrivKeyHex)
	require.NoError(t, err)

	reopened, err := NewFileKeystore(dir, "pw")
	require.NoError(t, err)
	got, err := reopened.Retrieve(ref)
	require.NoError(t, err)
	assert.Equal(t, testPrivKeyHex, got)
}

func TestNullKeystore(t *testing.T) {
	ks := nullKeystore()

	_, err := ks.Store("x", testPrivKeyHex)
	assert.Error(t, err)
	_, err = ks.Retrieve("tokendesk.x")
	assert.Contains(t, err.Error(), "not available")
	assert.NoError(t, ks.Delete("tokendesk.x"))
}

func TestInMemoryKeystore(t *testing.T) {
	ks := NewInMemoryKeystore()

	ref, err := ks.Store("mem", "abc")
	require.NoError(t, err)
	got, err := ks.Retrieve(ref)
	require.NoError(t, err)
	assert.Equal(t, "abc", got)

	require.NoError(t, ks.Delete(ref))
	_, err = ks.Retrieve(ref)
	assert.Error(t, err)
}
