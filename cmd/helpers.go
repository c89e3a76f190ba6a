package cmd

import (
	"context"
	"fmt"
	"math/big"
	"path/filepath"

	"github.com/Mohsinsiddi/tokendesk/internal/chain"
	"github.com/Mohsinsiddi/tokendesk/internal/config"
	"github.com/Mohsinsiddi/tokendesk/internal/contract"
	"github.com/Mohsinsiddi/tokendesk/internal/rpc"
	"github.com/Mohsinsiddi/tokendesk/internal/token"
	"github.com/Mohsinsiddi/tokendesk/internal/ui"
	"github.com/Mohsinsiddi/tokendesk/internal/wallet"
	"go.uber.org/zap"
)

var keystore *wallet.Keystore

func walletKeys() *wallet.Keystore {
	if keystore == nil {
		keystore = wallet.DefaultKeystore(cfg.Dir())
	}
	return keystore
}

func newWalletManager() *wallet.Manager {
	return wallet.NewManager(
		wallet.WithStore(wallet.NewJSONStore(filepath.Join(cfg.Dir(), "wallets.json"))),
		wallet.WithKeys(walletKeys()),
	)
}

// currentSession returns the connected session, or nil with
// wallet.ErrNotConnected.
func currentSession() (*wallet.Session, error) {
	mgr := newWalletManager()
	return wallet.Resume(mgr, mgr.Keys())
}

// newEVMClient picks an endpoint from the configured RPC URLs.
func newEVMClient(ctx context.Context) (*chain.EVMClient, error) {
	url, err := rpc.Select(ctx, cfg.RPCURLs, cfg.RPCAlgorithm, config.RPCSelectTimeout)
	if err != nil {
		return nil, fmt.Errorf("selecting RPC: %w", err)
	}
	log.Debug("rpc selected", zap.String("url", url))
	return chain.NewEVMClient(url), nil
}

// newReadClient returns a token client without write access.
func newReadClient(ctx context.Context) (*token.Client, *chain.EVMClient, error) {
	if cfg.TokenAddress == "" {
		return nil, nil, fmt.Errorf("no token address configured; run: tokendesk config set token_address 0x…")
	}
	evm, err := newEVMClient(ctx)
	if err != nil {
		return nil, nil, err
	}
	c, err := token.NewClient(cfg.TokenAddress, evm,
		token.WithLogger(log),
		token.WithConcurrency(cfg.MaxConcurrentReads),
	)
	if err != nil {
		return nil, nil, err
	}
	return c, evm, nil
}

// newWriteClient returns a token client whose writes are signed by the
// connected session. Without a session the client is still returned and
// every write fails validation.
func newWriteClient(ctx context.Context, gasFallback uint64) (*token.Client, *wallet.Session, error) {
	if cfg.TokenAddress == "" {
		return nil, nil, fmt.Errorf("no token address configured; run: tokendesk config set token_address 0x…")
	}
	evm, err := newEVMClient(ctx)
	if err != nil {
		return nil, nil, err
	}
	opts := []token.Option{
		token.WithLogger(log),
		token.WithConcurrency(cfg.MaxConcurrentReads),
	}

	session, err := currentSession()
	if err == nil {
		chainID, err := resolveChainID(ctx, evm)
		if err != nil {
			return nil, nil, err
		}
		sender := contract.NewSender(evm, session.Signer(), chainID,
			contract.WithGasFallback(gasFallback),
			contract.WithSenderLogger(log),
		)
		opts = append(opts, token.WithTransactor(sender))
	}

	c, err := token.NewClient(cfg.TokenAddress, evm, opts...)
	if err != nil {
		return nil, nil, err
	}
	return c, session, nil
}

func resolveChainID(ctx context.Context, evm *chain.EVMClient) (*big.Int, error) {
	if cfg.ChainID > 0 {
		return big.NewInt(cfg.ChainID), nil
	}
	id, err := evm.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading chain id: %w", err)
	}
	return id, nil
}

// printHolders reconciles and prints current holders. A failure is printed
// and returned.
func printHolders(ctx context.Context, c *token.Client) error {
	spin := ui.NewSpinner("Reading holder balances…")
	spin.Start()
	report, err := c.CurrentHolders(ctx)
	spin.Stop()
	if err != nil {
		return err
	}
	fmt.Println(ui.StyleHeader.Render("Current holders"))
	fmt.Print(ui.HolderTable(report))
	for _, u := range report.Unknown {
		fmt.Println(ui.Warn(fmt.Sprintf("%s: balance unknown (%s)", u.Address, ui.Truncate(u.Err.Error(), ui.MaxMessageChars))))
	}
	return nil
}

// formatAmount renders raw with the token's decimals and symbol when known.
func formatAmount(c *token.Client, raw *big.Int, symbol string) string {
	s := c.FormatAmount(raw)
	if symbol != "" {
		s += " " + symbol
	}
	return s
}
