package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"

	walleterr "github.com/mrz1836/devwallet/pkg/errors"
)

// NetworkDescriptor describes a network for wallet registration (EIP-3085).
type NetworkDescriptor struct {
	ChainID   string   `json:"chainId"`
	ChainName string   `json:"chainName"`
	Currency  Currency `json:"nativeCurrency"`
	RPCURLs   []string `json:"rpcUrls"`
	Explorers []string `json:"blockExplorerUrls,omitempty"`
}

// Currency is a network's native currency identity.
type Currency struct {
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Decimals int    `json:"decimals"`
}

// TxParams are the parameters for a wallet-signed transaction.
type TxParams struct {
	From string `json:"from"`
	To   string `json:"to"`
	Data string `json:"data,omitempty"`
	// Value is a hex quantity; omitted for token calls.
	Value string `json:"value,omitempty"`
}

// Receipt is the settled outcome of a submitted transaction.
type Receipt struct {
	TxHash      string
	BlockNumber *big.Int
	Status      uint64 // 1 success, 0 reverted
}

// Gateway wraps a located wallet handle with typed operations. All errors
// returned by Gateway methods are already classified onto the error taxonomy.
type Gateway struct {
	provider Provider
}

// New creates a Gateway around a located wallet handle.
func New(provider Provider) *Gateway {
	return &Gateway{provider: provider}
}

// Brand returns the underlying handle's self-identification value.
func (g *Gateway) Brand() string {
	return g.provider.Brand()
}

// RequestAccounts prompts the wallet for account authorization and returns
// the authorized account addresses.
func (g *Gateway) RequestAccounts(ctx context.Context) ([]string, error) {
	return g.accountList(ctx, "eth_requestAccounts")
}

// Accounts returns already-authorized accounts without prompting. An empty
// slice means no prior authorization exists.
func (g *Gateway) Accounts(ctx context.Context) ([]string, error) {
	return g.accountList(ctx, "eth_accounts")
}

func (g *Gateway) accountList(ctx context.Context, method string) ([]string, error) {
	raw, err := g.provider.Request(ctx, method)
	if err != nil {
		return nil, ClassifyError(err)
	}

	var accounts []string
	if err := json.Unmarshal(raw, &accounts); err != nil {
		return nil, walleterr.Wrap(err, "decoding %s result", method)
	}
	return accounts, nil
}

// ChainID returns the wallet's active chain as a lowercase hex string.
func (g *Gateway) ChainID(ctx context.Context) (string, error) {
	raw, err := g.provider.Request(ctx, "eth_chainId")
	if err != nil {
		return "", ClassifyError(err)
	}

	var chainID string
	if err := json.Unmarshal(raw, &chainID); err != nil {
		return "", walleterr.Wrap(err, "decoding eth_chainId result")
	}
	return strings.ToLower(chainID), nil
}

// SwitchChain asks the wallet to switch its active chain. An UnknownNetwork
// error means the chain has never been registered with this wallet.
func (g *Gateway) SwitchChain(ctx context.Context, chainIDHex string) error {
	_, err := g.provider.Request(ctx, "wallet_switchEthereumChain",
		map[string]string{"chainId": chainIDHex})
	return ClassifyError(err)
}

// AddChain registers a network with the wallet.
func (g *Gateway) AddChain(ctx context.Context, network NetworkDescriptor) error {
	_, err := g.provider.Request(ctx, "wallet_addEthereumChain", network)
	return ClassifyError(err)
}

// NativeBalance returns the native-currency balance of an account in base
// units.
func (g *Gateway) NativeBalance(ctx context.Context, account string) (*big.Int, error) {
	raw, err := g.provider.Request(ctx, "eth_getBalance", account, "latest")
	if err != nil {
		return nil, ClassifyError(err)
	}
	return decodeHexBig(raw)
}

// Call performs a read-only contract call and returns the raw return data.
// from may be empty; it only matters for calls whose result depends on the
// caller, such as revert-reason replays.
func (g *Gateway) Call(ctx context.Context, from, to string, data []byte) ([]byte, error) {
	call := map[string]string{"to": to, "data": hexutil.Encode(data)}
	if from != "" {
		call["from"] = from
	}

	raw, err := g.provider.Request(ctx, "eth_call", call, "latest")
	if err != nil {
		return nil, ClassifyError(err)
	}
	return decodeHexBytes(raw)
}

// SendTransaction submits a transaction through the wallet for signing and
// broadcast, returning the transaction hash.
func (g *Gateway) SendTransaction(ctx context.Context, params TxParams) (string, error) {
	raw, err := g.provider.Request(ctx, "eth_sendTransaction", params)
	if err != nil {
		return "", ClassifyError(err)
	}

	var hash string
	if err := json.Unmarshal(raw, &hash); err != nil {
		return "", walleterr.Wrap(err, "decoding eth_sendTransaction result")
	}
	return hash, nil
}

// TransactionReceipt fetches the receipt for a transaction hash. Returns
// (nil, nil) while the transaction is still pending.
func (g *Gateway) TransactionReceipt(ctx context.Context, hash string) (*Receipt, error) {
	raw, err := g.provider.Request(ctx, "eth_getTransactionReceipt", hash)
	if err != nil {
		return nil, ClassifyError(err)
	}

	if isJSONNull(raw) {
		return nil, nil
	}

	var wire struct {
		TransactionHash string `json:"transactionHash"`
		BlockNumber     string `json:"blockNumber"`
		Status          string `json:"status"`
	}
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, walleterr.Wrap(err, "decoding eth_getTransactionReceipt result")
	}

	block, err := parseHexBig(wire.BlockNumber)
	if err != nil {
		return nil, walleterr.Wrap(err, "parsing receipt block number")
	}
	status, err := parseHexBig(wire.Status)
	if err != nil {
		return nil, walleterr.Wrap(err, "parsing receipt status")
	}

	return &Receipt{
		TxHash:      wire.TransactionHash,
		BlockNumber: block,
		Status:      status.Uint64(),
	}, nil
}

// isJSONNull reports whether a raw message is the JSON null literal.
func isJSONNull(raw json.RawMessage) bool {
	return len(raw) == 0 || strings.TrimSpace(string(raw)) == "null"
}

// decodeHexBig decodes a JSON-encoded hex quantity into a big integer.
func decodeHexBig(raw json.RawMessage) (*big.Int, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, walleterr.Wrap(err, "decoding hex quantity")
	}
	return parseHexBig(s)
}

// decodeHexBytes decodes a JSON-encoded hex data string into bytes.
func decodeHexBytes(raw json.RawMessage) ([]byte, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, walleterr.Wrap(err, "decoding hex data")
	}
	if s == "0x" || s == "" {
		return nil, nil
	}
	data, err := hexutil.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("invalid hex data %q: %w", s, err)
	}
	return data, nil
}

// parseHexBig parses a 0x-prefixed hex quantity. Lenient about leading
// zeros; some wallets return padded quantities.
func parseHexBig(s string) (*big.Int, error) {
	trimmed := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "0x")
	if trimmed == "" {
		return big.NewInt(0), nil
	}

	value, ok := new(big.Int).SetString(trimmed, 16)
	if !ok {
		return nil, fmt.Errorf("invalid hex quantity %q", s)
	}
	return value, nil
}
