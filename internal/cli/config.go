package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mrz1836/devwallet/internal/config"
	"github.com/mrz1836/devwallet/internal/output"
	walleterr "github.com/mrz1836/devwallet/pkg/errors"
)

// configForce overwrites an existing config file on init.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level flag variables
var configForce bool

// configCmd is the parent command for configuration operations.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  `View and modify devwallet configuration settings.`,
}

// configInitCmd initializes the configuration.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	Long: `Create a default configuration file at ~/.devwallet/config.yaml.

If a configuration file already exists, this command will not overwrite it
unless --force is specified.

Example:
  devwallet config init
  devwallet config init --force`,
	RunE: runConfigInit,
}

// configShowCmd shows the current configuration.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long: `Display the current configuration settings.

Example:
  devwallet config show
  devwallet config show -o json`,
	RunE: runConfigShow,
}

// configGetCmd gets a specific configuration value.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a configuration value",
	Long: `Get the value of a configuration key using dotted-path notation.

Example:
  devwallet config get wallet.brand
  devwallet config get policies.account_change`,
	Args: cobra.ExactArgs(1),
	RunE: runConfigGet,
}

// configSetCmd sets a configuration value.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set the value of a configuration key and persist it.

Unknown keys fail with a "did you mean" suggestion when the input looks like
a typo of a known key.

Example:
  devwallet config set wallet.brand metamask
  devwallet config set policies.account_change ignore`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

func runConfigInit(_ *cobra.Command, _ []string) error {
	path := config.Path(cfg.Home)

	if _, err := os.Stat(path); err == nil && !configForce {
		return walleterr.WithSuggestion(
			walleterr.WithDetails(walleterr.ErrConfigInvalid, map[string]string{
				"path": path, "reason": "already exists",
			}),
			"use --force to overwrite",
		)
	}

	fresh := config.Defaults()
	fresh.Home = cfg.Home
	if err := config.Save(fresh, path); err != nil {
		return walleterr.Wrap(err, "writing config to %s", path)
	}

	return output.FormatSuccess(formatter.Writer(),
		fmt.Sprintf("configuration written to %s", path), formatter.Format())
}

func runConfigShow(_ *cobra.Command, _ []string) error {
	if formatter.IsJSON() {
		return formatter.Print(cfg)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return walleterr.Wrap(err, "rendering configuration")
	}
	return formatter.Printf("%s", string(data))
}

func runConfigGet(_ *cobra.Command, args []string) error {
	value, err := config.Get(cfg, args[0])
	if err != nil {
		return err
	}

	if formatter.IsJSON() {
		return formatter.Print(map[string]string{"key": args[0], "value": value})
	}
	return formatter.Println(value)
}

func runConfigSet(_ *cobra.Command, args []string) error {
	key, value := args[0], args[1]

	if err := config.Set(cfg, key, value); err != nil {
		return err
	}

	path := config.Path(cfg.Home)
	if err := config.Save(cfg, path); err != nil {
		return walleterr.Wrap(err, "writing config to %s", path)
	}

	return output.FormatSuccess(formatter.Writer(),
		fmt.Sprintf("%s = %s", key, value), formatter.Format())
}

// configKeysCmd lists the editable keys.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var configKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List editable configuration keys",
	RunE: func(_ *cobra.Command, _ []string) error {
		keys := config.KnownKeys()
		if formatter.IsJSON() {
			return formatter.Print(keys)
		}
		for _, k := range keys {
			if err := formatter.Println(k); err != nil {
				return err
			}
		}
		return nil
	},
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "overwrite existing configuration")
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configKeysCmd)
	rootCmd.AddCommand(configCmd)
}
