package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/Mohsinsiddi/tokendesk/internal/token"
	"github.com/Mohsinsiddi/tokendesk/internal/ui"
	"github.com/Mohsinsiddi/tokendesk/internal/wallet"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Live view of token metadata and current holders",
	Long: `Open an interactive dashboard with token metadata and current holders.

Any connected wallet is disconnected when the dashboard starts; reconnect
with 'tokendesk connect' afterwards. Press r to refresh, q to quit.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if err := wallet.ResetSessions(); err != nil {
			log.Warn("session reset failed", zap.Error(err))
		}

		c, _, err := newReadClient(ctx)
		if err != nil {
			return err
		}

		interval := time.Duration(cfg.RefreshInterval) * time.Second
		p := ui.NewDashboard(ctx, c.Address(), interval, snapshotFunc(c))
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("dashboard: %w", err)
		}
		return nil
	},
}

func snapshotFunc(c *token.Client) ui.SnapshotFunc {
	return func(ctx context.Context) ui.Snapshot {
		snap := ui.Snapshot{Metadata: c.Metadata(ctx)}
		if s, err := currentSession(); err == nil {
			snap.Account = s.Address()
		}
		snap.Holders, snap.HoldersErr = c.CurrentHolders(ctx)
		return snap
	}
}
