package wallet

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONStoreSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wallets.json")
	store := NewJSONStore(path)

	wallets := []*Wallet{
		{Name: "alice", Address: "0x1111", Type: TypeWatchOnly},
		{Name: "bob", Address: "0x2222", Type: TypeSigning, KeyRef: "tokendesk.bob"},
	}
	require.NoError(t, store.Save(wallets))

	loaded, err := store.Load()
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, "alice", loaded[0].Name)
	assert.Equal(t, TypeSigning, loaded[1].Type)
	assert.Equal(t, "tokendesk.bob", loaded[1].KeyRef)
}

func TestJSONStoreLoadNoFile(t *testing.T) {
	store := NewJSONStore(filepath.Join(t.TempDir(), "nonexistent.json"))

	wallets, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, wallets)
}

func TestJSONStoreLoadCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wallets.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := NewJSONStore(path).Load()
	assert.Error(t, err)
}

func TestJSONStoreFilePermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wallets.json")
	require.NoError(t, NewJSONStore(path).Save(nil))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestJSONStoreNeverHoldsKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wallets.json")
	mgr := NewManager(WithStore(NewJSONStore(path)), WithKeys(NewInMemoryKeystore()))
	require.NoError(t, mgr.AddWithKey("k", testPrivKeyHex))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), testPrivKeyHex)
}
