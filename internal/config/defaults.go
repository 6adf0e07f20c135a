package config

// Default network identity: the Sepolia testnet. The controller enforces that
// every session runs on this network (overridable via config).
const (
	// DefaultChainIDHex is the required chain identifier.
	DefaultChainIDHex = "0xaa36a7"

	// DefaultContractAddress is the deployed DevToken contract.
	DefaultContractAddress = "0x4AAb49557de7AC638A261d8F11447733c38b8964"

	// DefaultWalletRPC is the local endpoint a desktop wallet exposes its
	// provider on.
	DefaultWalletRPC = "http://127.0.0.1:1248"
)

// DefaultNetworkRPCs are the fallback RPC endpoints supplied to the wallet
// when the required network has to be registered first.
//
//nolint:gochecknoglobals // Configuration default constant
var DefaultNetworkRPCs = []string{
	"https://sepolia.infura.io/v3/",
}

// Defaults returns the default configuration.
func Defaults() *Config {
	return &Config{
		Version: 1,
		Home:    DefaultHome(),
		Wallet: WalletConfig{
			Brand:     "metamask",
			RPC:       DefaultWalletRPC,
			EventsURL: "ws://127.0.0.1:1248",
		},
		Network: NetworkConfig{
			ChainIDHex: DefaultChainIDHex,
			Name:       "Sepolia Testnet",
			Currency: CurrencyConfig{
				Name:     "Sepolia ETH",
				Symbol:   "ETH",
				Decimals: 18,
			},
			RPCURLs:  DefaultNetworkRPCs,
			Explorer: "https://sepolia.etherscan.io",
		},
		Contract: ContractConfig{
			Address:  DefaultContractAddress,
			Symbol:   "DVT",
			Decimals: 18,
		},
		Policies: PolicyConfig{
			AccountChange:           "reconnect",
			ClearLedgerOnDisconnect: true,
		},
		Limits: LimitsConfig{
			ReadsPerSecond:     5,
			ReadBurst:          10,
			ConfirmPollSeconds: 2,
		},
		Output: OutputConfig{
			DefaultFormat: "auto",
			Verbose:       false,
		},
		Logging: LoggingConfig{
			Level: "error",
			File:  "~/.devwallet/devwallet.log",
		},
	}
}
