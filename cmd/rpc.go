package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/Mohsinsiddi/tokendesk/internal/config"
	"github.com/Mohsinsiddi/tokendesk/internal/rpc"
	"github.com/Mohsinsiddi/tokendesk/internal/ui"
	"github.com/spf13/cobra"
)

var rpcCmd = &cobra.Command{
	Use:   "rpc",
	Short: "Manage JSON-RPC endpoints",
}

var rpcAddCmd = &cobra.Command{
	Use:   "add <url>",
	Short: "Add an RPC endpoint",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.AddRPC(args[0]); err != nil {
			return err
		}
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Println(ui.Success("Added " + args[0]))
		return nil
	},
}

var rpcRemoveCmd = &cobra.Command{
	Use:   "remove <url>",
	Short: "Remove an RPC endpoint",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.RemoveRPC(args[0]); err != nil {
			return err
		}
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Println(ui.Success("Removed " + args[0]))
		return nil
	},
}

var rpcListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured RPC endpoints",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(cfg.RPCURLs) == 0 {
			fmt.Println(ui.Info("No RPC endpoints configured."))
			fmt.Println(ui.Hint("Add one with: tokendesk rpc add http://127.0.0.1:8545"))
			return nil
		}
		for i, u := range cfg.RPCURLs {
			fmt.Printf("  %d. %s\n", i+1, u)
		}
		fmt.Println(ui.Meta("Algorithm: " + algorithmName(cfg.RPCAlgorithm)))
		return nil
	},
}

var rpcBenchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Ping every endpoint and show which one would be used",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(cfg.RPCURLs) == 0 {
			return rpc.ErrNoHealthyRPC
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), config.RPCSelectTimeout)
		defer cancel()

		spin := ui.NewSpinner(fmt.Sprintf("Pinging %d endpoint(s)...", len(cfg.RPCURLs)))
		spin.Start()
		results := rpc.Benchmark(ctx, cfg.RPCURLs)
		spin.Stop()

		t := ui.NewTable([]ui.Column{
			{Title: "Endpoint", Width: 40},
			{Title: "Latency", Width: 10},
			{Title: "Block", Width: 12},
			{Title: "Status", Width: 30},
		})
		for _, r := range results {
			t.AddRow(benchRow(r))
		}
		fmt.Println(t.Render())

		algo := algorithmName(cfg.RPCAlgorithm)
		winner, err := rpc.NewPicker(rpc.Algorithm(algo)).Pick(rpc.ResultsToEndpoints(results))
		if err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("%s picks %s", algo, winner.URL)))
		return nil
	},
}

func benchRow(r rpc.BenchmarkResult) ui.Row {
	if r.Err != nil {
		return ui.Row{r.URL, "-", "-", ui.Truncate(r.Err.Error(), ui.MaxMessageChars)}
	}
	return ui.Row{r.URL, r.Latency.Round(time.Millisecond).String(), fmt.Sprintf("%d", r.BlockNumber), "ok"}
}

func algorithmName(a string) string {
	if a == "" {
		return string(rpc.AlgorithmFastest)
	}
	return a
}

func init() {
	rpcCmd.AddCommand(rpcAddCmd, rpcRemoveCmd, rpcListCmd, rpcBenchCmd)
}
