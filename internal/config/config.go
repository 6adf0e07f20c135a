// Package config provides configuration management for devwallet.
package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	Version  int            `yaml:"version"`
	Home     string         `yaml:"home"`
	Wallet   WalletConfig   `yaml:"wallet"`
	Network  NetworkConfig  `yaml:"network"`
	Contract ContractConfig `yaml:"contract"`
	Policies PolicyConfig   `yaml:"policies"`
	Limits   LimitsConfig   `yaml:"limits"`
	Output   OutputConfig   `yaml:"output"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// WalletConfig defines how the external wallet capability is reached.
type WalletConfig struct {
	// Brand is the self-identification value the preferred wallet handle
	// reports (e.g. "metamask"). Used by the gateway locate filter.
	Brand string `yaml:"brand"`

	// RPC is the wallet's JSON-RPC endpoint (a desktop wallet's local
	// provider endpoint, or a browser-bridge equivalent).
	RPC string `yaml:"rpc"`

	// EventsURL is the WebSocket endpoint delivering accountsChanged,
	// chainChanged and disconnect notifications. Empty disables the feed.
	EventsURL string `yaml:"events_url"`
}

// NetworkConfig defines the single required network identity.
type NetworkConfig struct {
	ChainIDHex string         `yaml:"chain_id_hex"`
	Name       string         `yaml:"name"`
	Currency   CurrencyConfig `yaml:"currency"`
	RPCURLs    []string       `yaml:"rpc_urls"`
	Explorer   string         `yaml:"explorer"`
}

// CurrencyConfig describes the network's native currency.
type CurrencyConfig struct {
	Name     string `yaml:"name"`
	Symbol   string `yaml:"symbol"`
	Decimals int    `yaml:"decimals"`
}

// ContractConfig defines the token contract under management.
type ContractConfig struct {
	Address  string `yaml:"address"`
	Symbol   string `yaml:"symbol"`
	Decimals int    `yaml:"decimals"`
}

// PolicyConfig makes the session policy choices explicit.
type PolicyConfig struct {
	// AccountChange controls what happens when the wallet reports a changed
	// account set while connected: "reconnect" silently re-enters the
	// connect sequence with the new account, "ignore" keeps the session.
	AccountChange string `yaml:"account_change"`

	// ClearLedgerOnDisconnect clears the local transaction ledger when the
	// session ends.
	ClearLedgerOnDisconnect bool `yaml:"clear_ledger_on_disconnect"`
}

// LimitsConfig defines request pacing for contract reads and receipt polling.
type LimitsConfig struct {
	ReadsPerSecond     float64 `yaml:"reads_per_second"`
	ReadBurst          int     `yaml:"read_burst"`
	ConfirmPollSeconds int     `yaml:"confirm_poll_seconds"`
}

// OutputConfig defines output formatting settings.
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format"`
	Verbose       bool   `yaml:"verbose"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Load reads configuration from the specified file.
func Load(path string) (*Config, error) {
	// #nosec G304 -- config file path is from validated user input
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes the configuration to the specified file.
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o600)
}

// Path returns the config file path for the given home directory.
func Path(home string) string {
	return filepath.Join(ExpandHome(home), "config.yaml")
}

// DefaultHome returns the default home directory.
func DefaultHome() string {
	return "~/.devwallet"
}

// ExpandHome expands a leading "~/" to the user's home directory.
func ExpandHome(path string) string {
	if len(path) >= 2 && path[:2] == "~/" {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}
