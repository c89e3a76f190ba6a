package cmd

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/Mohsinsiddi/tokendesk/internal/chain"
	"github.com/Mohsinsiddi/tokendesk/internal/config"
	"github.com/Mohsinsiddi/tokendesk/internal/token"
	"github.com/Mohsinsiddi/tokendesk/internal/ui"
	"github.com/Mohsinsiddi/tokendesk/internal/wallet"
	"github.com/spf13/cobra"
)

var yesFlag bool

var transferCmd = &cobra.Command{
	Use:     "transfer <to> <amount>",
	Short:   "Send tokens from the connected wallet",
	Example: `  tokendesk transfer 0x70997970C51812dc3A010C7d01b50e0d17dc79C8 5.3`,
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWrite(cmd.Context(), writeRequest{
			title:       "Transfer",
			gasFallback: config.GasLimitERC20Transfer,
			amountArg:   args[1],
			preview:     [][2]string{{"To", args[0]}},
			send: func(ctx context.Context, c *token.Client, amount *big.Int) (*chain.TxReceipt, error) {
				return c.Transfer(ctx, args[0], amount)
			},
		})
	},
}

var transferFromCmd = &cobra.Command{
	Use:   "transfer-from <owner> <to> <amount>",
	Short: "Spend an allowance: move tokens from owner to a recipient",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWrite(cmd.Context(), writeRequest{
			title:       "Transfer from",
			gasFallback: config.GasLimitContractCall,
			amountArg:   args[2],
			preview:     [][2]string{{"Owner", args[0]}, {"To", args[1]}},
			send: func(ctx context.Context, c *token.Client, amount *big.Int) (*chain.TxReceipt, error) {
				return c.TransferFrom(ctx, args[0], args[1], amount)
			},
		})
	},
}

var approveCmd = &cobra.Command{
	Use:   "approve <delegate> <amount>",
	Short: "Allow delegate to spend tokens of the connected wallet",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWrite(cmd.Context(), writeRequest{
			title:       "Approve",
			gasFallback: config.GasLimitERC20Approve,
			amountArg:   args[1],
			preview:     [][2]string{{"Delegate", args[0]}},
			send: func(ctx context.Context, c *token.Client, amount *big.Int) (*chain.TxReceipt, error) {
				return c.Approve(ctx, args[0], amount)
			},
		})
	},
}

var enterCmd = &cobra.Command{
	Use:   "enter",
	Short: "Enter the lottery (pays 0.011 ETH)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWrite(cmd.Context(), writeRequest{
			title:       "Enter",
			gasFallback: config.GasLimitLotteryEntry,
			preview:     [][2]string{{"Payment", chain.WeiToETH(config.EntryFeeWei()) + " ETH"}},
			send: func(ctx context.Context, c *token.Client, _ *big.Int) (*chain.TxReceipt, error) {
				return c.Enter(ctx)
			},
		})
	},
}

type writeRequest struct {
	title       string
	gasFallback uint64
	amountArg   string // empty for enter
	preview     [][2]string
	send        func(ctx context.Context, c *token.Client, amount *big.Int) (*chain.TxReceipt, error)
}

// runWrite parses the amount, previews and confirms the write, waits for
// one confirmation and then refreshes the holder list.
func runWrite(ctx context.Context, req writeRequest) error {
	c, session, err := newWriteClient(ctx, req.gasFallback)
	if err != nil {
		return err
	}

	var amount *big.Int
	pairs := [][2]string{{"Token", c.Address()}}
	if session != nil {
		pairs = append(pairs, [2]string{"From", session.Address()})
	}
	pairs = append(pairs, req.preview...)

	if req.amountArg != "" {
		if _, err := c.ResolveDecimals(ctx); err != nil {
			fmt.Println(ui.Warn("decimals unavailable, assuming 18"))
		}
		amount, err = c.ParseAmount(req.amountArg)
		if err != nil {
			return err
		}
		pairs = append(pairs, [2]string{"Amount", c.FormatAmount(amount)}, [2]string{"Base units", amount.String()})
	}

	if session != nil {
		fmt.Println(ui.KeyValueBlock(req.title+" preview", pairs))
		if !yesFlag && !ui.Confirm("Send this transaction?") {
			fmt.Println(ui.Meta("Cancelled."))
			return nil
		}
	}

	spin := ui.NewSpinner("Waiting for confirmation…")
	spin.Start()
	receipt, err := req.send(ctx, c, amount)
	spin.Stop()
	if err != nil {
		var v *token.ValidationError
		if errors.As(err, &v) && v.Field == "session" {
			fmt.Println(ui.Hint("Connect a wallet first: tokendesk connect <wallet>"))
			return wallet.ErrNotConnected
		}
		return err
	}

	fmt.Println(ui.Success(fmt.Sprintf("%s confirmed in block %d", req.title, receipt.BlockNumber)))
	fmt.Println(ui.Meta("tx " + receipt.Hash))

	if err := printHolders(ctx, c); err != nil {
		fmt.Println(ui.Failure("Holders", err))
	}
	return nil
}

func init() {
	for _, c := range []*cobra.Command{transferCmd, transferFromCmd, approveCmd, enterCmd} {
		c.Flags().BoolVarP(&yesFlag, "yes", "y", false, "skip the confirmation prompt")
	}
}
