package cmd

import (
	"fmt"

	"github.com/Mohsinsiddi/tokendesk/internal/config"
	"github.com/Mohsinsiddi/tokendesk/internal/ui"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		pairs := make([][2]string, 0, len(config.Keys))
		for _, k := range config.Keys {
			v, err := cfg.Get(k)
			if err != nil {
				return err
			}
			if v == "" {
				v = ui.Meta("(unset)")
			}
			pairs = append(pairs, [2]string{k, v})
		}
		fmt.Println(ui.KeyValueBlock("Configuration", pairs))
		fmt.Println(ui.Meta("Directory: " + cfg.Dir()))
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value and save it.

Keys: token_address, chain_id, rpc_urls (comma separated), rpc_algorithm,
default_wallet, max_concurrent_reads, refresh_interval.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Set(args[0], args[1]); err != nil {
			return err
		}
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("%s = %s", args[0], args[1])))
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd, configSetCmd)
}
