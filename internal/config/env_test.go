package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyEnvironment(t *testing.T) {
	t.Setenv(EnvWalletRPC, "http://127.0.0.1:9999")
	t.Setenv(EnvWalletBrand, "Frame")
	t.Setenv(EnvChainID, "0xAA36A7")
	t.Setenv(EnvContract, "0x0000000000000000000000000000000000000042")
	t.Setenv(EnvVerbose, "true")
	t.Setenv(EnvLogLevel, "DEBUG")

	cfg := Defaults()
	ApplyEnvironment(cfg)

	assert.Equal(t, "http://127.0.0.1:9999", cfg.Wallet.RPC)
	assert.Equal(t, "frame", cfg.Wallet.Brand)
	assert.Equal(t, "0xaa36a7", cfg.Network.ChainIDHex)
	assert.Equal(t, "0x0000000000000000000000000000000000000042", cfg.Contract.Address)
	assert.True(t, cfg.Output.Verbose)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestApplyEnvironment_EmptyValuesIgnored(t *testing.T) {
	t.Setenv(EnvWalletRPC, "")

	cfg := Defaults()
	before := cfg.Wallet.RPC
	ApplyEnvironment(cfg)

	assert.Equal(t, before, cfg.Wallet.RPC)
}

func TestParseBool(t *testing.T) {
	t.Parallel()

	assert.True(t, parseBool("1"))
	assert.True(t, parseBool("true"))
	assert.True(t, parseBool("YES"))
	assert.True(t, parseBool("on"))
	assert.False(t, parseBool("0"))
	assert.False(t, parseBool("off"))
	assert.False(t, parseBool(""))
}
