package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/Mohsinsiddi/tokendesk/internal/config"
	"github.com/Mohsinsiddi/tokendesk/internal/logging"
	"github.com/Mohsinsiddi/tokendesk/internal/ui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Version is the current release. Overridable via build ldflags:
//
//	go build -ldflags "-X github.com/Mohsinsiddi/tokendesk/cmd.Version=1.2.3" .
var Version = "0.1.0"

var (
	cfgDir    string
	cfg       *config.Config
	log       *zap.Logger
	verbose   bool
	rpcFlag   string
	tokenFlag string
)

// rootCmd is the top-level command.
var rootCmd = &cobra.Command{
	Use:   "tokendesk",
	Short: "Terminal front end for the lottery token",
	Long: `tokendesk connects a local wallet to the lottery token contract.

  Read token metadata, list current holders, check balances and
  allowances, and send transfer / transferFrom / approve / enter
  transactions, each waiting for one confirmation.

--rpc and --token override the configured endpoint and contract for a
single invocation. Persist with: tokendesk config set <key> <value>`,
	Version:       Version,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		var err error
		cfg, err = config.Load(cfgDir)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if rpcFlag != "" {
			cfg.RPCURLs = []string{rpcFlag}
		}
		if tokenFlag != "" {
			cfg.TokenAddress = tokenFlag
		}
		log = logging.New(verbose)
		log.Debug("config loaded", zap.String("dir", cfg.Dir()), zap.Strings("rpc_urls", cfg.RPCURLs))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if log != nil {
			_ = log.Sync()
		}
	},
}

// Execute runs the root command. Failures are printed as a single
// notification and the process exits non-zero.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if c, err := rootCmd.ExecuteContextC(ctx); err != nil {
		fmt.Fprintln(os.Stderr, ui.Failure(failureTitle(c), err))
		stop()
		os.Exit(1)
	}
}

// failureTitle names the failed command, e.g. "transfer-from" → "Transfer from".
func failureTitle(c *cobra.Command) string {
	if c == nil || c == rootCmd {
		return "tokendesk"
	}
	name := strings.ReplaceAll(c.Name(), "-", " ")
	return strings.ToUpper(name[:1]) + name[1:]
}

func init() {
	if envDir := os.Getenv("TOKENDESK_CONFIG_DIR"); envDir != "" {
		cfgDir = envDir
	}

	rootCmd.PersistentFlags().StringVar(&cfgDir, "config", cfgDir, "config directory (default: ~/.tokendesk)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging on stderr")
	rootCmd.PersistentFlags().StringVar(&rpcFlag, "rpc", "", "RPC URL for this invocation")
	rootCmd.PersistentFlags().StringVar(&tokenFlag, "token", "", "token contract address for this invocation")

	rootCmd.AddCommand(
		connectCmd,
		disconnectCmd,
		statusCmd,
		infoCmd,
		holdersCmd,
		balanceCmd,
		allowanceCmd,
		transferCmd,
		transferFromCmd,
		approveCmd,
		enterCmd,
		dashboardCmd,
		walletCmd,
		configCmd,
		rpcCmd,
	)
}
