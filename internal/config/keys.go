package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/agnivade/levenshtein"

	walleterr "github.com/mrz1836/devwallet/pkg/errors"
)

// suggestionMaxDistance is the maximum edit distance for "did you mean".
const suggestionMaxDistance = 4

// knownKeys lists the dotted keys editable via `devwallet config set`.
//
//nolint:gochecknoglobals // Static key registry
var knownKeys = []string{
	"wallet.brand",
	"wallet.rpc",
	"wallet.events_url",
	"network.chain_id_hex",
	"network.name",
	"network.explorer",
	"contract.address",
	"contract.symbol",
	"policies.account_change",
	"policies.clear_ledger_on_disconnect",
	"limits.reads_per_second",
	"limits.read_burst",
	"limits.confirm_poll_seconds",
	"output.default_format",
	"output.verbose",
	"logging.level",
	"logging.file",
}

// KnownKeys returns the editable config keys.
func KnownKeys() []string {
	keys := make([]string, len(knownKeys))
	copy(keys, knownKeys)
	return keys
}

// Get returns the string value for a dotted config key.
//
//nolint:gocyclo // Flat key dispatch
func Get(cfg *Config, key string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "wallet.brand":
		return cfg.Wallet.Brand, nil
	case "wallet.rpc":
		return cfg.Wallet.RPC, nil
	case "wallet.events_url":
		return cfg.Wallet.EventsURL, nil
	case "network.chain_id_hex":
		return cfg.Network.ChainIDHex, nil
	case "network.name":
		return cfg.Network.Name, nil
	case "network.explorer":
		return cfg.Network.Explorer, nil
	case "contract.address":
		return cfg.Contract.Address, nil
	case "contract.symbol":
		return cfg.Contract.Symbol, nil
	case "policies.account_change":
		return cfg.Policies.AccountChange, nil
	case "policies.clear_ledger_on_disconnect":
		return strconv.FormatBool(cfg.Policies.ClearLedgerOnDisconnect), nil
	case "limits.reads_per_second":
		return strconv.FormatFloat(cfg.Limits.ReadsPerSecond, 'f', -1, 64), nil
	case "limits.read_burst":
		return strconv.Itoa(cfg.Limits.ReadBurst), nil
	case "limits.confirm_poll_seconds":
		return strconv.Itoa(cfg.Limits.ConfirmPollSeconds), nil
	case "output.default_format":
		return cfg.Output.DefaultFormat, nil
	case "output.verbose":
		return strconv.FormatBool(cfg.Output.Verbose), nil
	case "logging.level":
		return cfg.Logging.Level, nil
	case "logging.file":
		return cfg.Logging.File, nil
	default:
		return "", unknownKeyError(key)
	}
}

// Set assigns a value to a dotted config key.
//
//nolint:gocyclo // Flat key dispatch
func Set(cfg *Config, key, value string) error {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "wallet.brand":
		cfg.Wallet.Brand = strings.ToLower(value)
	case "wallet.rpc":
		cfg.Wallet.RPC = value
	case "wallet.events_url":
		cfg.Wallet.EventsURL = value
	case "network.chain_id_hex":
		cfg.Network.ChainIDHex = strings.ToLower(value)
	case "network.name":
		cfg.Network.Name = value
	case "network.explorer":
		cfg.Network.Explorer = value
	case "contract.address":
		cfg.Contract.Address = value
	case "contract.symbol":
		cfg.Contract.Symbol = value
	case "policies.account_change":
		v := strings.ToLower(value)
		if v != "reconnect" && v != "ignore" {
			return walleterr.WithDetails(walleterr.ErrConfigInvalid, map[string]string{
				"key":     key,
				"value":   value,
				"allowed": "reconnect, ignore",
			})
		}
		cfg.Policies.AccountChange = v
	case "policies.clear_ledger_on_disconnect":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return walleterr.WithDetails(walleterr.ErrConfigInvalid, map[string]string{"key": key, "value": value})
		}
		cfg.Policies.ClearLedgerOnDisconnect = b
	case "limits.reads_per_second":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f <= 0 {
			return walleterr.WithDetails(walleterr.ErrConfigInvalid, map[string]string{"key": key, "value": value})
		}
		cfg.Limits.ReadsPerSecond = f
	case "limits.read_burst":
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return walleterr.WithDetails(walleterr.ErrConfigInvalid, map[string]string{"key": key, "value": value})
		}
		cfg.Limits.ReadBurst = n
	case "limits.confirm_poll_seconds":
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return walleterr.WithDetails(walleterr.ErrConfigInvalid, map[string]string{"key": key, "value": value})
		}
		cfg.Limits.ConfirmPollSeconds = n
	case "output.default_format":
		cfg.Output.DefaultFormat = strings.ToLower(value)
	case "output.verbose":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return walleterr.WithDetails(walleterr.ErrConfigInvalid, map[string]string{"key": key, "value": value})
		}
		cfg.Output.Verbose = b
	case "logging.level":
		cfg.Logging.Level = strings.ToLower(value)
	case "logging.file":
		cfg.Logging.File = value
	default:
		return unknownKeyError(key)
	}
	return nil
}

// unknownKeyError builds an UNKNOWN_CONFIG_KEY error, suggesting the closest
// known key when the input looks like a typo.
func unknownKeyError(key string) error {
	err := walleterr.WithDetails(walleterr.ErrUnknownConfigKey, map[string]string{"key": key})

	if s := SuggestKey(key); s != "" {
		err = walleterr.WithSuggestion(err, fmt.Sprintf("did you mean %q?", s))
	}
	return err
}

// SuggestKey returns the known key closest to the input by edit distance,
// or "" when nothing is close enough to be a plausible typo.
func SuggestKey(input string) string {
	input = strings.ToLower(strings.TrimSpace(input))
	best := ""
	bestDist := suggestionMaxDistance + 1

	for _, key := range knownKeys {
		dist := levenshtein.ComputeDistance(input, key)
		if dist < bestDist {
			best = key
			bestDist = dist
		}
	}

	if bestDist > suggestionMaxDistance {
		return ""
	}
	return best
}
