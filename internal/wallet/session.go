package wallet

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// ErrNotConnected is returned when an operation needs a connected wallet
// and none is.
var ErrNotConnected = errors.New("no wallet connected")

// sessionPath is the file shared by separate CLI invocations.
//
//	macOS:   ~/Library/Caches/tokendesk/session.json
//	Linux:   ~/.cache/tokendesk/session.json
//	Windows: %LocalAppData%\tokendesk\session.json
var sessionPath = func() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "tokendesk", "session.json")
}

type sessionRecord struct {
	Wallet      string `json:"wallet"`
	Address     string `json:"address"`
	ConnectedAt string `json:"connected_at"`
}

// Session is a connected signing wallet. It is passed explicitly to the
// token client; nothing reads it from global state.
type Session struct {
	wallet      *Wallet
	keys        KeyBackend
	connectedAt time.Time
}

// Address returns the connected account.
func (s *Session) Address() string { return s.wallet.Address }

// WalletName returns the name of the connected wallet.
func (s *Session) WalletName() string { return s.wallet.Name }

// ConnectedAt returns when the session was established.
func (s *Session) ConnectedAt() time.Time { return s.connectedAt }

// Signer returns a transaction signer for the connected account.
func (s *Session) Signer() *Signer { return NewSigner(s.wallet, s.keys) }

// Disconnect ends the session and forgets it on disk.
func (s *Session) Disconnect() error {
	return ResetSessions()
}

// Connect opens a session for wallet name, or for the default wallet when
// name is empty. The stored key must sign for the wallet's address.
func Connect(mgr *Manager, keys KeyBackend, name string) (*Session, error) {
	var w *Wallet
	if name == "" {
		if w = mgr.Default(); w == nil {
			return nil, fmt.Errorf("%w: no default wallet, add one with 'tokendesk wallet add'", ErrWalletNotFound)
		}
	} else {
		var err error
		if w, err = mgr.Get(name); err != nil {
			return nil, fmt.Errorf("%w: %s", err, name)
		}
	}
	if !w.CanSign() {
		return nil, fmt.Errorf("wallet %q is watch-only and cannot sign", w.Name)
	}
	if err := proveOwnership(w, keys); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	rec := sessionRecord{Wallet: w.Name, Address: w.Address, ConnectedAt: now.Format(time.RFC3339)}
	if err := saveSession(rec); err != nil {
		return nil, fmt.Errorf("saving session: %w", err)
	}
	return &Session{wallet: w, keys: keys, connectedAt: now}, nil
}

// Resume returns the session remembered on disk. A session whose wallet was
// removed, or whose address changed, is dropped. Failing to read the wallet
// registry leaves the session file in place.
func Resume(mgr *Manager, keys KeyBackend) (*Session, error) {
	rec, err := loadSession()
	if err != nil {
		return nil, err
	}
	w, err := mgr.Get(rec.Wallet)
	if err != nil && !errors.Is(err, ErrWalletNotFound) {
		return nil, fmt.Errorf("loading session wallet: %w", err)
	}
	if err != nil || !strings.EqualFold(w.Address, rec.Address) {
		_ = ResetSessions()
		return nil, ErrNotConnected
	}
	at, _ := time.Parse(time.RFC3339, rec.ConnectedAt)
	return &Session{wallet: w, keys: keys, connectedAt: at}, nil
}

// ResetSessions forgets any connected wallet.
func ResetSessions() error {
	err := os.Remove(sessionPath())
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// proveOwnership signs a challenge with the stored key and checks that it
// recovers to the wallet address.
func proveOwnership(w *Wallet, keys KeyBackend) error {
	challenge := []byte("tokendesk connect " + w.Address)
	sig, err := SignMessage(w, keys, challenge)
	if err != nil {
		return err
	}
	got, err := VerifyMessage(challenge, sig)
	if err != nil {
		return err
	}
	if got != common.HexToAddress(w.Address) {
		return fmt.Errorf("stored key signs for %s, not %s", got.Hex(), w.Address)
	}
	return nil
}

func loadSession() (*sessionRecord, error) {
	data, err := os.ReadFile(sessionPath())
	if err != nil {
		return nil, ErrNotConnected
	}
	var rec sessionRecord
	if err := json.Unmarshal(data, &rec); err != nil || rec.Wallet == "" {
		return nil, ErrNotConnected
	}
	return &rec, nil
}

func saveSession(rec sessionRecord) error {
	path := sessionPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
