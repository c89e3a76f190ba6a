package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/Mohsinsiddi/tokendesk/internal/ui"
	"github.com/Mohsinsiddi/tokendesk/internal/wallet"
	"github.com/spf13/cobra"
)

var connectCmd = &cobra.Command{
	Use:   "connect [wallet]",
	Short: "Connect a signing wallet for writes",
	Long: `Connect a signing wallet. Without a name the default wallet is used.

The stored key is checked by signing a challenge and recovering the
address before the session is saved. Later commands reuse the session
until 'tokendesk disconnect'.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := cfg.DefaultWallet
		if len(args) > 0 {
			name = args[0]
		}
		mgr := newWalletManager()
		session, err := wallet.Connect(mgr, mgr.Keys(), name)
		if err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("Connected %q: %s", session.WalletName(), ui.Addr(session.Address()))))
		return nil
	},
}

var disconnectCmd = &cobra.Command{
	Use:   "disconnect",
	Short: "Forget the connected wallet",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := wallet.ResetSessions(); err != nil {
			return err
		}
		fmt.Println(ui.Success("Disconnected."))
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the connected wallet and token",
	RunE: func(cmd *cobra.Command, args []string) error {
		account := "not connected"
		since := ""
		session, err := currentSession()
		switch {
		case err == nil:
			account = session.Address() + " (" + session.WalletName() + ")"
			since = session.ConnectedAt().Local().Format(time.DateTime)
		case !errors.Is(err, wallet.ErrNotConnected):
			return err
		}

		tokenAddr := cfg.TokenAddress
		if tokenAddr == "" {
			tokenAddr = "not configured"
		}
		pairs := [][2]string{
			{"Account", account},
			{"Token", tokenAddr},
			{"RPC", fmt.Sprintf("%v (%s)", cfg.RPCURLs, cfg.RPCAlgorithm)},
		}
		if since != "" {
			pairs = append(pairs, [2]string{"Connected since", since})
		}
		fmt.Print(ui.Banner())
		fmt.Println(ui.KeyValueBlock("Status", pairs))
		if session == nil {
			fmt.Println(ui.Hint("Connect with: tokendesk connect <wallet>"))
		}
		return nil
	},
}
