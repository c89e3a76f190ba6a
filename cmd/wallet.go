package cmd

import (
	"fmt"

	"github.com/Mohsinsiddi/tokendesk/internal/ui"
	"github.com/spf13/cobra"
)

var walletKeyFlag bool

var walletCmd = &cobra.Command{
	Use:   "wallet",
	Short: "Manage wallets",
}

var walletAddCmd = &cobra.Command{
	Use:   "add <name> [address]",
	Short: "Add a wallet",
	Long: `Add a watch-only wallet by address, or a signing wallet with --key.

With --key the private key is read from the prompt (never from the
command line) and stored in the OS keychain.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		mgr := newWalletManager()

		if walletKeyFlag {
			hexKey := ui.PromptInput("Private key (hex)")
			if err := mgr.AddWithKey(name, hexKey); err != nil {
				return err
			}
			w, _ := mgr.Get(name)
			fmt.Println(ui.Success(fmt.Sprintf("Signing wallet %q added: %s", name, ui.Addr(w.Address))))
			fmt.Println(ui.Hint(fmt.Sprintf("Connect with: tokendesk connect %s", name)))
			return nil
		}

		if len(args) < 2 {
			return fmt.Errorf("address required for watch-only wallet\n  Usage: tokendesk wallet add <name> <address>\n  Or for signing: tokendesk wallet add <name> --key")
		}
		if err := mgr.AddWatchOnly(name, args[1]); err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("Watch-only wallet %q added: %s", name, ui.Addr(args[1]))))
		return nil
	},
}

var walletListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all wallets",
	RunE: func(cmd *cobra.Command, args []string) error {
		wallets := newWalletManager().List()
		if len(wallets) == 0 {
			fmt.Println(ui.Info("No wallets configured yet."))
			fmt.Println(ui.Hint("Add one with: tokendesk wallet add alice --key"))
			return nil
		}

		connected := ""
		if s, err := currentSession(); err == nil {
			connected = s.WalletName()
		}

		t := ui.NewTable([]ui.Column{
			{Title: "Name", Width: 16},
			{Title: "Address", Width: 44},
			{Title: "Type", Width: 12},
			{Title: "Default", Width: 8},
			{Title: "Connected", Width: 10},
		})
		for _, w := range wallets {
			def, conn := "", ""
			if w.IsDefault {
				def = "✓"
			}
			if w.Name == connected {
				conn = "✓"
			}
			t.AddRow(ui.Row{w.Name, w.Address, w.Type, def, conn})
		}
		fmt.Println(t.Render())
		fmt.Println(ui.Meta(fmt.Sprintf("%d wallet(s) configured", len(wallets))))
		return nil
	},
}

var walletRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove a wallet and its stored key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		mgr := newWalletManager()
		w, err := mgr.Get(name)
		if err != nil {
			return err
		}
		if !ui.ConfirmDanger(fmt.Sprintf("Remove wallet %q (%s)?", name, ui.TruncateAddr(w.Address))) {
			fmt.Println(ui.Meta("Cancelled."))
			return nil
		}
		if s, err := currentSession(); err == nil && s.WalletName() == name {
			if err := s.Disconnect(); err != nil {
				return err
			}
		}
		if err := mgr.Remove(name); err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("Wallet %q removed.", name)))
		return nil
	},
}

var walletUseCmd = &cobra.Command{
	Use:   "use <name>",
	Short: "Set the default wallet",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		if err := newWalletManager().SetDefault(name); err != nil {
			return err
		}
		cfg.DefaultWallet = name
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("Default wallet set to %q.", name)))
		fmt.Println(ui.Hint("'tokendesk connect' without a name now connects this wallet."))
		return nil
	},
}

func init() {
	walletAddCmd.Flags().BoolVar(&walletKeyFlag, "key", false, "add a signing wallet (prompts for the private key)")
	walletCmd.AddCommand(walletAddCmd, walletListCmd, walletRemoveCmd, walletUseCmd)
}
