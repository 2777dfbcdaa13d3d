package main

import (
	"github.com/spf13/cobra"

	"github.com/Aiza-Lee/template-builder/internal/cli"
)

var (
	// Config command flags
	configPath      string
	configShowScope string
	configSetScope  string
	configForce     bool
)

// configCmd groups the configuration file subcommands
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and edit the configuration file",
	Long: `Inspect and edit the configuration file.

Without --config the per-user file is used, e.g.
~/.config/NightingaleStudio/TemplateBuilder/config.json on Linux.`,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the location of the configuration file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cli.RunConfigPath(configOptions(cmd, ""))
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cli.RunConfigInit(configOptions(cmd, ""))
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration values",
	Long: `Show the effective configuration values.

Values changed by the configuration file are marked with '*'.

Examples:
  template-builder config show
  template-builder config show --scope program`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cli.RunConfigShow(configOptions(cmd, configShowScope))
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Change one value in the configuration file",
	Long: `Change one value in the configuration file.

Only keys present in the default configuration can be set. VALUE is stored as
a JSON literal when it parses as one (numbers, booleans, arrays) and as a
string otherwise.

Examples:
  template-builder config set code.tab_size 8
  template-builder config set author "Jane Doe"
  template-builder config set --scope program include_file_types '[".cpp", ".py"]'`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return cli.RunConfigSet(configOptions(cmd, configSetScope), args[0], args[1])
	},
}

func configOptions(cmd *cobra.Command, scope string) cli.ConfigOptions {
	return cli.ConfigOptions{
		Path:  configPath,
		Scope: scope,
		Force: configForce,
		Out:   cmd.OutOrStdout(),
	}
}

func init() {
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)

	configCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Configuration file (defaults to the user config)")
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "Overwrite an existing file")
	configShowCmd.Flags().StringVar(&configShowScope, "scope", "", "Only show one root: tex or program")
	configSetCmd.Flags().StringVar(&configSetScope, "scope", cli.ScopeTex, "Root the key belongs to: tex or program")
}
