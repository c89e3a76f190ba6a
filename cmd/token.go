package cmd

import (
	"context"
	"fmt"

	"github.com/Mohsinsiddi/tokendesk/internal/token"
	"github.com/Mohsinsiddi/tokendesk/internal/ui"
	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show token name, symbol, decimals and total supply",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		c, _, err := newReadClient(ctx)
		if err != nil {
			return err
		}

		account := ""
		if s, err := currentSession(); err == nil {
			account = s.Address()
		}

		md := c.Metadata(ctx)
		fmt.Println(ui.MetadataBlock(c.Address(), account, md))
		for _, f := range ui.MetadataFailures(md) {
			fmt.Println(f)
		}
		return nil
	},
}

var holdersCmd = &cobra.Command{
	Use:   "holders",
	Short: "List current token holders",
	Long: `List every address that ever held the token and still has a positive
balance. Addresses whose balance could not be read are listed separately.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, _, err := newReadClient(cmd.Context())
		if err != nil {
			return err
		}
		return printHolders(cmd.Context(), c)
	},
}

var balanceCmd = &cobra.Command{
	Use:   "balance [address]",
	Short: "Show the token balance of an address (default: connected wallet)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		addr := ""
		if len(args) > 0 {
			addr = args[0]
		} else if s, err := currentSession(); err == nil {
			addr = s.Address()
		}

		c, _, err := newReadClient(ctx)
		if err != nil {
			return err
		}
		symbol := resolveUnits(ctx, c)
		bal, err := c.BalanceOf(ctx, addr)
		if err != nil {
			return err
		}
		fmt.Printf("%s  %s\n", ui.Addr(addr), ui.Val(formatAmount(c, bal, symbol)))
		return nil
	},
}

var allowanceCmd = &cobra.Command{
	Use:   "allowance <owner> <delegate>",
	Short: "Show how much delegate may spend on behalf of owner",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		c, _, err := newReadClient(ctx)
		if err != nil {
			return err
		}
		symbol := resolveUnits(ctx, c)
		amount, err := c.Allowance(ctx, args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Println(ui.KeyValueBlock("Allowance", [][2]string{
			{"Owner", args[0]},
			{"Delegate", args[1]},
			{"Allowance", formatAmount(c, amount, symbol)},
		}))
		return nil
	},
}

// resolveUnits reads decimals and symbol for display. Failures fall back
// to 18 decimals and no symbol.
func resolveUnits(ctx context.Context, c *token.Client) string {
	md := c.Metadata(ctx)
	if md.Decimals == nil {
		fmt.Println(ui.Warn("decimals unavailable, assuming 18"))
	}
	if md.Symbol == nil {
		return ""
	}
	return *md.Symbol
}
