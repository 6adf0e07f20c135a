package contract

import (
	"context"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/mrz1836/devwallet/internal/chain"
	"github.com/mrz1836/devwallet/internal/gateway"
	walleterr "github.com/mrz1836/devwallet/pkg/errors"
)

// readEndpoint keys the shared rate limiter bucket for contract reads.
const readEndpoint = "contract_read"

// Backend is the slice of the wallet gateway the token binding needs.
type Backend interface {
	Call(ctx context.Context, from, to string, data []byte) ([]byte, error)
	SendTransaction(ctx context.Context, params gateway.TxParams) (string, error)
	TransactionReceipt(ctx context.Context, hash string) (*gateway.Receipt, error)
}

// Token is a binding for the development token contract. Reads go through
// eth_call behind a shared rate limiter; writes are handed to the wallet for
// signing and broadcast.
type Token struct {
	address common.Address
	abi     abi.ABI
	backend Backend
	limiter *chain.RateLimiter
}

// NewToken creates a token binding for the contract at addressHex.
func NewToken(addressHex string, backend Backend, limiter *chain.RateLimiter) (*Token, error) {
	if !common.IsHexAddress(addressHex) {
		return nil, walleterr.WithDetails(walleterr.ErrInvalidAddress, map[string]string{
			"address": addressHex,
		})
	}

	parsed, err := abi.JSON(strings.NewReader(devTokenABI))
	if err != nil {
		return nil, walleterr.Wrap(err, "parsing token ABI")
	}

	if limiter == nil {
		limiter = chain.DefaultRateLimiter()
	}

	return &Token{
		address: common.HexToAddress(addressHex),
		abi:     parsed,
		backend: backend,
		limiter: limiter,
	}, nil
}

// Address returns the bound contract address in checksum form.
func (t *Token) Address() string {
	return t.address.Hex()
}

// BalanceOf returns the token balance of an account in base units.
func (t *Token) BalanceOf(ctx context.Context, account string) (*big.Int, error) {
	return t.readUint(ctx, "balanceOf", common.HexToAddress(account))
}

// Allowance returns the amount spender may move on behalf of owner.
func (t *Token) Allowance(ctx context.Context, owner, spender string) (*big.Int, error) {
	return t.readUint(ctx, "allowance",
		common.HexToAddress(owner), common.HexToAddress(spender))
}

// FaucetAmount returns the fixed grant the faucet pays per claim.
func (t *Token) FaucetAmount(ctx context.Context) (*big.Int, error) {
	return t.readUint(ctx, "FAUCET_AMOUNT")
}

// FaucetCooldown returns the seconds remaining before the account may claim
// again. Zero means a claim is available now.
func (t *Token) FaucetCooldown(ctx context.Context, account string) (*big.Int, error) {
	return t.readUint(ctx, "getFaucetCooldown", common.HexToAddress(account))
}

// readUint performs a rate-limited eth_call and unpacks a single uint256.
func (t *Token) readUint(ctx context.Context, method string, args ...any) (*big.Int, error) {
	if err := t.limiter.Wait(ctx, readEndpoint); err != nil {
		return nil, walleterr.Wrap(err, "waiting for read slot")
	}

	data, err := t.abi.Pack(method, args...)
	if err != nil {
		return nil, walleterr.Wrap(err, "packing %s call", method)
	}

	ret, err := t.backend.Call(ctx, "", t.address.Hex(), data)
	if err != nil {
		return nil, walleterr.Wrap(err, "%s call failed", method)
	}

	out, err := t.abi.Unpack(method, ret)
	if err != nil {
		return nil, walleterr.Wrap(err, "unpacking %s result", method)
	}
	if len(out) != 1 {
		return nil, walleterr.Wrap(walleterr.ErrContractRead,
			"%s returned %d values", method, len(out))
	}

	value, ok := out[0].(*big.Int)
	if !ok {
		return nil, walleterr.Wrap(walleterr.ErrContractRead,
			"%s returned unexpected type", method)
	}
	return value, nil
}

// Transfer submits a token transfer signed by from.
func (t *Token) Transfer(ctx context.Context, from, to string, amount *big.Int) (string, gateway.TxParams, error) {
	return t.write(ctx, from, "transfer", common.HexToAddress(to), amount)
}

// Approve submits an allowance grant from owner to spender.
func (t *Token) Approve(ctx context.Context, owner, spender string, amount *big.Int) (string, gateway.TxParams, error) {
	return t.write(ctx, owner, "approve", common.HexToAddress(spender), amount)
}

// TransferFrom submits a delegated transfer: spender moves amount from owner
// to recipient against a prior approval.
func (t *Token) TransferFrom(ctx context.Context, spender, owner, recipient string, amount *big.Int) (string, gateway.TxParams, error) {
	return t.write(ctx, spender, "transferFrom",
		common.HexToAddress(owner), common.HexToAddress(recipient), amount)
}

// FaucetClaim submits a faucet claim signed by from.
func (t *Token) FaucetClaim(ctx context.Context, from string) (string, gateway.TxParams, error) {
	return t.write(ctx, from, "faucet")
}

// write packs calldata and hands the transaction to the wallet. The returned
// TxParams are kept for revert-reason replay if the transaction later fails.
func (t *Token) write(ctx context.Context, from, method string, args ...any) (string, gateway.TxParams, error) {
	data, err := t.abi.Pack(method, args...)
	if err != nil {
		return "", gateway.TxParams{}, walleterr.Wrap(err, "packing %s call", method)
	}

	params := gateway.TxParams{
		From: from,
		To:   t.address.Hex(),
		Data: hexutil.Encode(data),
	}

	hash, err := t.backend.SendTransaction(ctx, params)
	if err != nil {
		return "", params, err
	}
	return hash, params, nil
}

// maxReceiptPollFailures caps consecutive failed receipt lookups before the
// confirmation watch is abandoned.
const maxReceiptPollFailures = 5

// WaitMined polls for the receipt of hash until it lands or ctx is done.
// Transient lookup failures are retried on the next tick; a single node blip
// must not orphan a transaction that may still land on chain.
// A reverted transaction yields the receipt together with an
// ExecutionReverted error carrying the recovered reason, when one exists.
func (t *Token) WaitMined(ctx context.Context, hash string, poll time.Duration, replay gateway.TxParams) (*gateway.Receipt, error) {
	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	failures := 0
	for {
		receipt, err := t.backend.TransactionReceipt(ctx, hash)
		switch {
		case err != nil:
			failures++
			if failures >= maxReceiptPollFailures {
				return nil, walleterr.Wrap(err, "polling receipt for %s", hash)
			}

		case receipt != nil:
			if receipt.Status == 1 {
				return receipt, nil
			}

			details := map[string]string{"tx_hash": hash}
			if reason := t.recoverRevertReason(ctx, replay); reason != "" {
				details["reason"] = reason
			}
			return receipt, walleterr.WithDetails(walleterr.ErrExecutionReverted, details)

		default:
			failures = 0
		}

		select {
		case <-ctx.Done():
			return nil, walleterr.Wrap(ctx.Err(), "waiting for transaction %s", hash)
		case <-ticker.C:
		}
	}
}

// recoverRevertReason replays a failed transaction as an eth_call to recover
// the contract's revert string. Best effort: returns "" when the node gives
// nothing usable.
func (t *Token) recoverRevertReason(ctx context.Context, replay gateway.TxParams) string {
	data, err := hexutil.Decode(replay.Data)
	if err != nil {
		return ""
	}

	ret, err := t.backend.Call(ctx, replay.From, replay.To, data)
	if err != nil {
		var we *walleterr.WalletError
		if walleterr.As(err, &we) && we.Code == "EXECUTION_REVERTED" {
			return we.Details["reason"]
		}
		return ""
	}

	// Some nodes return the revert payload as call output instead of an
	// error. Error(string) selector is 0x08c379a0.
	if reason, err := abi.UnpackRevert(ret); err == nil {
		return reason
	}
	return ""
}
