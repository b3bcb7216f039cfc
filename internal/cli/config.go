package cli

import (
	"fmt"
	"strings"

	"github.com/roy-tools/roy/internal/config"
	"github.com/spf13/cobra"
)

// newConfigCmd builds the config command. Both tools mount their own copy
// since a cobra command has a single parent.
func newConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage shared settings",
		Long: `Read and write the settings shared by task_creator and workspace_manager,
stored at ~/.roy/config.yaml. Known keys: ` + strings.Join(config.Keys(), ", ") + `.`,
	}

	configSetCmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Args:  exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, value := args[0], args[1]
			if err := config.Set(configFile, key, value); err != nil {
				return fmt.Errorf("setting config key %q: %w", key, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", key, value)
			return nil
		},
	}

	configGetCmd := &cobra.Command{
		Use:   "get <key>",
		Short: "Get the effective value of a configuration key",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := config.Get(configFile, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), value)
			return nil
		},
	}

	configCmd.AddCommand(configSetCmd, configGetCmd)
	return configCmd
}

func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return usageErrorf(cmd, "accepts %d argument(s), received %d", n, len(args))
		}
		return nil
	}
}
