// Package gateway locates and wraps the external wallet capability. It is the
// sole channel to the outside world for account and network data, contract
// calls, and transaction signing; raw provider error shapes never leave this
// package unclassified.
package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	walleterr "github.com/mrz1836/devwallet/pkg/errors"
)

// Wallet provider error codes (EIP-1193 / EIP-1474).
const (
	CodeUserRejected   = 4001
	CodeRequestPending = -32002
	CodeUnknownNetwork = 4902
)

// Provider is a capability-providing wallet handle. It accepts EIP-1193 style
// requests and self-identifies with a brand string.
type Provider interface {
	// Request performs a wallet RPC call and returns the raw result.
	Request(ctx context.Context, method string, params ...any) (json.RawMessage, error)

	// Brand returns the handle's self-identification value (e.g.
	// "metamask"), or "" when the handle does not identify itself.
	Brand() string
}

// RPCError is the raw JSON-RPC error shape returned by a wallet provider.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("provider error %d: %s", e.Code, e.Message)
}

// ClassifyError maps a raw provider error onto the wallet error taxonomy.
// Everything that crosses the gateway boundary goes through here.
func ClassifyError(err error) error {
	if err == nil {
		return nil
	}

	var rpcErr *RPCError
	if !walleterr.As(err, &rpcErr) {
		return walleterr.Wrap(err, "wallet request failed")
	}

	switch rpcErr.Code {
	case CodeUserRejected:
		return walleterr.WithDetails(walleterr.ErrUserRejected, map[string]string{
			"provider_message": rpcErr.Message,
		})
	case CodeRequestPending:
		return walleterr.WithSuggestion(
			walleterr.ErrRequestPending,
			"check the wallet for an open prompt",
		)
	case CodeUnknownNetwork:
		return walleterr.WithDetails(walleterr.ErrUnknownNetwork, map[string]string{
			"provider_message": rpcErr.Message,
		})
	}

	if reason, ok := revertReason(rpcErr.Message); ok {
		details := map[string]string{}
		if reason != "" {
			details["reason"] = reason
		}
		return walleterr.WithDetails(walleterr.ErrExecutionReverted, details)
	}

	return walleterr.Wrap(rpcErr, "wallet request failed")
}

// revertReason extracts the contract-supplied reason from a provider error
// message, when the message indicates a revert.
func revertReason(msg string) (string, bool) {
	lower := strings.ToLower(msg)
	idx := strings.Index(lower, "execution reverted")
	if idx < 0 {
		if strings.Contains(lower, "revert") {
			return "", true
		}
		return "", false
	}

	rest := strings.TrimSpace(msg[idx+len("execution reverted"):])
	rest = strings.TrimLeft(rest, ":")
	return strings.TrimSpace(rest), true
}
