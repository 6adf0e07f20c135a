package config

import (
	"os"
	"strconv"
	"strings"
)

// Environment variable names.
const (
	EnvHome         = "DEVWALLET_HOME"
	EnvWalletRPC    = "DEVWALLET_WALLET_RPC"
	EnvWalletEvents = "DEVWALLET_WALLET_EVENTS"
	EnvWalletBrand  = "DEVWALLET_WALLET_BRAND"
	EnvContract     = "DEVWALLET_CONTRACT"
	EnvChainID      = "DEVWALLET_CHAIN_ID"
	EnvOutputFormat = "DEVWALLET_OUTPUT_FORMAT"
	EnvVerbose      = "DEVWALLET_VERBOSE"
	EnvLogLevel     = "DEVWALLET_LOG_LEVEL"
)

// ApplyEnvironment applies environment variable overrides to the configuration.
//
//nolint:gocognit,gocyclo // Environment variable overrides require sequential checks
func ApplyEnvironment(cfg *Config) {
	if v := os.Getenv(EnvHome); v != "" {
		cfg.Home = v
	}

	if v := os.Getenv(EnvWalletRPC); v != "" {
		cfg.Wallet.RPC = strings.TrimSpace(v)
	}

	if v := os.Getenv(EnvWalletEvents); v != "" {
		cfg.Wallet.EventsURL = strings.TrimSpace(v)
	}

	if v := os.Getenv(EnvWalletBrand); v != "" {
		cfg.Wallet.Brand = strings.ToLower(strings.TrimSpace(v))
	}

	if v := os.Getenv(EnvContract); v != "" {
		cfg.Contract.Address = strings.TrimSpace(v)
	}

	if v := os.Getenv(EnvChainID); v != "" {
		cfg.Network.ChainIDHex = strings.ToLower(strings.TrimSpace(v))
	}

	if v := os.Getenv(EnvOutputFormat); v != "" {
		cfg.Output.DefaultFormat = strings.ToLower(v)
	}

	if v := os.Getenv(EnvVerbose); v != "" {
		cfg.Output.Verbose = parseBool(v)
	}

	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
}

// parseBool parses a boolean string value.
func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "1" || s == "true" || s == "yes" || s == "on" {
		return true
	}
	b, _ := strconv.ParseBool(s)
	return b
}
