package wallet

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolateSession points the session file at a temp dir for one test.
func isolateSession(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tokendesk", "session.json")
	orig := sessionPath
	sessionPath = func() string { return path }
	t.Cleanup(func() { sessionPath = orig })
	return path
}

func newSigningManager(t *testing.T) *Manager {
	t.Helper()
	mgr := NewManager(WithInMemoryStore())
	require.NoError(t, mgr.AddWithKey("alice", testPrivKeyHex))
	return mgr
}

func TestConnectByName(t *testing.T) {
	path := isolateSession(t)
	mgr := newSigningManager(t)

	s, err := Connect(mgr, mgr.Keys(), "alice")
	require.NoError(t, err)
	assert.Equal(t, testSignerAddr, s.Address())
	assert.Equal(t, "alice", s.WalletName())
	assert.False(t, s.ConnectedAt().IsZero())
	assert.Equal(t, testSignerAddr, s.Signer().Address())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestConnectDefaultWallet(t *testing.T) {
	isolateSession(t)
	mgr := newSigningManager(t)

	s, err := Connect(mgr, mgr.Keys(), "")
	require.NoError(t, err)
	assert.Equal(t, "alice", s.WalletName())
}

func TestConnectNoWallets(t *testing.T) {
	isolateSession(t)
	mgr := NewManager(WithInMemoryStore())

	_, err := Connect(mgr, mgr.Keys(), "")
	assert.ErrorIs(t, err, ErrWalletNotFound)
}

func TestConnectUnknownWallet(t *testing.T) {
	isolateSession(t)
	mgr := newSigningManager(t)

	_, err := Connect(mgr, mgr.Keys(), "ghost")
	assert.ErrorIs(t, err, ErrWalletNotFound)
}

func TestConnectWatchOnlyRejected(t *testing.T) {
	isolateSession(t)
	mgr := NewManager(WithInMemoryStore())
	require.NoError(t, mgr.AddWatchOnly("watch", testSignerAddr))

	_, err := Connect(mgr, mgr.Keys(), "watch")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "watch-only")
}

func TestConnectKeyMismatch(t *testing.T) {
	isolateSession(t)
	mgr := NewManager(WithInMemoryStore())
	// Key for Hardhat account #0 filed under a different address.
	ref, err := mgr.Keys().Store("liar", testPrivKeyHex)
	require.NoError(t, err)
	require.NoError(t, mgr.Add("liar", &Wallet{
		Address: "0x70997970C51812dc3A010C7d01b50e0d17dc79C8",
		Type:    TypeSigning,
		KeyRef:  ref,
	}))

	_, err = Connect(mgr, mgr.Keys(), "liar")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stored key signs for")
}

func TestResumeAfterConnect(t *testing.T) {
	isolateSession(t)
	mgr := newSigningManager(t)
	_, err := Connect(mgr, mgr.Keys(), "alice")
	require.NoError(t, err)

	s, err := Resume(mgr, mgr.Keys())
	require.NoError(t, err)
	assert.Equal(t, testSignerAddr, s.Address())
}

func TestResumeWithoutSession(t *testing.T) {
	isolateSession(t)
	_, err := Resume(newSigningManager(t), NewInMemoryKeystore())
	assert.ErrorIs(t, err, ErrNotConnected)
}

func TestResumeDropsRemovedWallet(t *testing.T) {
	path := isolateSession(t)
	mgr := newSigningManager(t)
	_, err := Connect(mgr, mgr.Keys(), "alice")
	require.NoError(t, err)
	require.NoError(t, mgr.Remove("alice"))

	_, err = Resume(mgr, mgr.Keys())
	assert.ErrorIs(t, err, ErrNotConnected)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestDisconnect(t *testing.T) {
	isolateSession(t)
	mgr := newSigningManager(t)
	s, err := Connect(mgr, mgr.Keys(), "alice")
	require.NoError(t, err)

	require.NoError(t, s.Disconnect())
	_, err = Resume(mgr, mgr.Keys())
	assert.ErrorIs(t, err, ErrNotConnected)
}

func TestResetSessionsIdempotent(t *testing.T) {
	isolateSession(t)
	assert.NoError(t, ResetSessions())
	assert.NoError(t, ResetSessions())
}

func TestResumeCorruptFile(t *testing.T) {
	path := isolateSession(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o700))
	require.NoError(t, os.WriteFile(path, []byte("garbage"), 0o600))

	_, err := Resume(newSigningManager(t), NewInMemoryKeystore())
	assert.ErrorIs(t, err, ErrNotConnected)
}

type brokenStore struct{ err error }

func (s brokenStore) Load() ([]*Wallet, error) { return nil, s.err }
func (s brokenStore) Save([]*Wallet) error     { return s.err }

func TestResumeKeepsSessionWhenRegistryUnreadable(t *testing.T) {
	path := isolateSession(t)
	mgr := newSigningManager(t)
	_, err := Connect(mgr, mgr.Keys(), "alice")
	require.NoError(t, err)

	readErr := errors.New("permission denied")
	broken := NewManager(WithStore(brokenStore{err: readErr}), WithKeys(mgr.Keys()))
	_, err = Resume(broken, mgr.Keys())
	require.Error(t, err)
	assert.ErrorIs(t, err, readErr)
	assert.NotErrorIs(t, err, ErrNotConnected)

	_, statErr := os.Stat(path)
	require.NoError(t, statErr, "session file must survive a registry read failure")

	s, err := Resume(mgr, mgr.Keys())
	require.NoError(t, err)
	assert.Equal(t, testSignerAddr, s.Address())
}

func TestResumeDropsChangedAddress(t *testing.T) {
	path := isolateSession(t)
	mgr := newSigningManager(t)
	_, err := Connect(mgr, mgr.Keys(), "alice")
	require.NoError(t, err)

	other := NewManager(WithInMemoryStore())
	require.NoError(t, other.AddWatchOnly("alice", "0x70997970C51812dc3A010C7d01b50e0d17dc79C8"))

	_, err = Resume(other, other.Keys())
	assert.ErrorIs(t, err, ErrNotConnected)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}
