package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"stackpatch.dev/stackpatch/internal/config"
	"stackpatch.dev/stackpatch/internal/tui"
)

// newConfigCmd creates the config command
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Get and set stackpatch configuration",
		Long: `Get and set stackpatch configuration values.

Examples:
  stackpatch config set url https://phabricator.example.com
  stackpatch config get url
  stackpatch config set apply-to here
  stackpatch config set always-full-stack true`,
	}

	cmd.AddCommand(newConfigGetCmd())
	cmd.AddCommand(newConfigSetCmd())

	return cmd
}

// newConfigGetCmd creates the config get command
func newConfigGetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			key := args[0]
			switch key {
			case "url":
				fmt.Println(cfg.ServiceURL())
			case "apply-to":
				fmt.Println(cfg.ApplyTo())
			case "always-full-stack":
				fmt.Println(cfg.IsAlwaysFullStack())
			default:
				return fmt.Errorf("unknown configuration key: %s", key)
			}

			return nil
		},
	}

	return cmd
}

// newConfigSetCmd creates the config set command
func newConfigSetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			key := args[0]
			value := args[1]

			splog := tui.NewSplog()
			defer func() { _ = splog.Close() }()

			switch key {
			case "url":
				cfg.SetServiceURL(value)
			case "token":
				cfg.SetToken(value)
			case "apply-to":
				cfg.SetApplyTo(value)
			case "always-full-stack":
				always, err := strconv.ParseBool(value)
				if err != nil {
					return fmt.Errorf("invalid value for always-full-stack: %s (must be 'true' or 'false')", value)
				}
				cfg.SetAlwaysFullStack(always)
			default:
				return fmt.Errorf("unknown configuration key: %s", key)
			}

			if err := cfg.Save(); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}
			splog.Info("Set %s to: %s", key, value)

			return nil
		},
	}

	return cmd
}
