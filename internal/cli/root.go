// Package cli implements the devwallet command-line interface.
//
// This package uses global variables to manage CLI state, which is the standard
// pattern for Cobra-based CLI applications. The globals are initialized in
// PersistentPreRunE and cleaned up in PersistentPostRun.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level state
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/mrz1836/devwallet/internal/chain"
	"github.com/mrz1836/devwallet/internal/config"
	"github.com/mrz1836/devwallet/internal/contract"
	"github.com/mrz1836/devwallet/internal/gateway"
	"github.com/mrz1836/devwallet/internal/output"
	"github.com/mrz1836/devwallet/internal/session"
	walleterr "github.com/mrz1836/devwallet/pkg/errors"
)

var (
	// Global flags
	homeDir      string
	outputFormat string
	verbose      bool

	// Global state initialized in PersistentPreRunE
	cfg       *config.Config
	logger    *config.Logger
	formatter *output.Formatter
)

// rootCmd is the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "devwallet",
	Short: "A wallet-session and token-transaction CLI for development networks",
	Long: `Devwallet drives a development token contract through an external wallet.

The wallet keeps custody of keys and signs every transaction; devwallet
handles the session, enforces the required network, tracks balances and
allowances, and runs each operation through a full confirmation lifecycle.

Example:
  devwallet connect
  devwallet balance
  devwallet transfer 0x... 1.5
  devwallet faucet claim`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		return initGlobals()
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		cleanup()
	},
}

// Execute runs the root command.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		// Format and print error
		if formatter != nil {
			_ = output.FormatError(os.Stderr, err, formatter.Format())
		} else {
			_ = output.FormatError(os.Stderr, err, output.FormatText)
		}
		return err
	}
	return nil
}

// ExitCode returns the appropriate exit code for an error.
func ExitCode(err error) int {
	return walleterr.ExitCode(err)
}

// initGlobals initializes global configuration, logger, and formatter.
func initGlobals() error {
	// Determine home directory
	home := homeDir
	if home == "" {
		home = os.Getenv(config.EnvHome)
	}
	if home == "" {
		home = config.DefaultHome()
	}

	// Load or create config
	configPath := config.Path(home)
	var err error
	cfg, err = config.Load(configPath)
	if err != nil {
		// Use defaults if config doesn't exist
		cfg = config.Defaults()
		cfg.Home = home
	}

	// Apply environment variable overrides
	config.ApplyEnvironment(cfg)

	// Override with command-line flags
	if homeDir != "" {
		cfg.Home = homeDir
	}
	if verbose {
		cfg.Output.Verbose = true
	}
	if outputFormat != "" && outputFormat != "auto" {
		cfg.Output.DefaultFormat = outputFormat
	}

	// Initialize logger
	logLevel := config.ParseLogLevel(cfg.Logging.Level)
	logger, err = config.NewLogger(logLevel, cfg.Logging.File)
	if err != nil {
		// Use null logger if we can't create the file
		logger = config.NullLogger()
	}
	if verbose {
		logger.SetLevel(config.LogLevelDebug)
	}

	// Initialize formatter
	explicitFormat := output.ParseFormat(cfg.Output.DefaultFormat)
	detectedFormat := output.DetectFormat(os.Stdout, explicitFormat)
	formatter = output.NewFormatter(detectedFormat, os.Stdout)

	return nil
}

// cleanup releases resources.
func cleanup() {
	if logger != nil {
		_ = logger.Close()
	}
}

// newController builds the controller stack from the active configuration:
// locate the wallet handle, bind the token contract, wire the session.
func newController() (*session.Controller, error) {
	handles := []gateway.Provider{
		gateway.NewHTTPProvider(cfg.Wallet.RPC, cfg.Wallet.Brand),
	}
	handle, err := gateway.Locate(handles, cfg.Wallet.Brand)
	if err != nil {
		return nil, err
	}
	gw := gateway.New(handle)

	limiter := chain.NewRateLimiter(cfg.Limits.ReadsPerSecond, cfg.Limits.ReadBurst)
	token, err := contract.NewToken(cfg.Contract.Address, gw, limiter)
	if err != nil {
		return nil, err
	}

	return session.New(cfg, gw, token, newCLIListener(), logger), nil
}

// Config returns the global configuration.
func Config() *config.Config {
	return cfg
}

// Logger returns the global logger.
func Logger() *config.Logger {
	return logger
}

// Formatter returns the global output formatter.
func Formatter() *output.Formatter {
	return formatter
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for flag registration
func init() {
	rootCmd.PersistentFlags().StringVar(&homeDir, "home", "", "devwallet data directory (default: ~/.devwallet)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "auto", "output format: text, json, auto")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
}
