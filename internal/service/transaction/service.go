package transaction

import (
	"context"
	"math/big"
	"sync/atomic"
	"time"

	"github.com/mrz1836/devwallet/internal/chain"
	"github.com/mrz1836/devwallet/internal/config"
	"github.com/mrz1836/devwallet/internal/gateway"
	"github.com/mrz1836/devwallet/internal/metrics"
	"github.com/mrz1836/devwallet/internal/service/balance"
	"github.com/mrz1836/devwallet/internal/service/faucet"
	walleterr "github.com/mrz1836/devwallet/pkg/errors"
)

// TokenWriter is the slice of the contract binding the orchestrator uses.
type TokenWriter interface {
	Transfer(ctx context.Context, from, to string, amount *big.Int) (string, gateway.TxParams, error)
	Approve(ctx context.Context, owner, spender string, amount *big.Int) (string, gateway.TxParams, error)
	TransferFrom(ctx context.Context, spender, owner, recipient string, amount *big.Int) (string, gateway.TxParams, error)
	FaucetClaim(ctx context.Context, from string) (string, gateway.TxParams, error)
	FaucetCooldown(ctx context.Context, account string) (*big.Int, error)
	WaitMined(ctx context.Context, hash string, poll time.Duration, replay gateway.TxParams) (*gateway.Receipt, error)
}

// SessionGuard scopes submissions to a live session. Epoch advances on every
// teardown; Alive reports whether the epoch captured at submission still
// names the current session.
type SessionGuard interface {
	Account() (string, error)
	Epoch() uint64
	Alive(epoch uint64) bool
}

// AllowanceCache is the validation view of the allowance tracker.
type AllowanceCache interface {
	Cached(owner string) (*big.Int, bool)
	Check(ctx context.Context, owner string) (*big.Int, error)
}

// FaucetSync is the faucet tracker surface the orchestrator needs after a
// claim settles.
type FaucetSync interface {
	Current() faucet.State
	Resync(ctx context.Context) error
}

// Service runs one operation at a time through the full lifecycle:
// validating, submitted, confirming, then settled, rejected or failed.
type Service struct {
	token      TokenWriter
	balances   *balance.Service
	allowances AllowanceCache
	faucet     FaucetSync
	ledger     *Ledger
	guard      SessionGuard
	logger     *config.Logger

	poll time.Duration
	busy atomic.Bool
}

// NewService creates the orchestrator. poll is the receipt polling interval.
func NewService(
	token TokenWriter,
	balances *balance.Service,
	allowances AllowanceCache,
	faucetSync FaucetSync,
	ledger *Ledger,
	guard SessionGuard,
	poll time.Duration,
	logger *config.Logger,
) *Service {
	if logger == nil {
		logger = config.NullLogger()
	}
	if poll <= 0 {
		poll = 2 * time.Second
	}
	return &Service{
		token:      token,
		balances:   balances,
		allowances: allowances,
		faucet:     faucetSync,
		ledger:     ledger,
		guard:      guard,
		logger:     logger,
		poll:       poll,
	}
}

// Ledger returns the session ledger.
func (s *Service) Ledger() *Ledger {
	return s.ledger
}

// Submit runs an intent through the full lifecycle and blocks until a
// terminal state. Exactly one submission may be in flight at a time.
func (s *Service) Submit(ctx context.Context, intent Intent) (Record, error) {
	account, err := s.guard.Account()
	if err != nil {
		return Record{}, err
	}

	if !s.busy.CompareAndSwap(false, true) {
		return Record{}, walleterr.WithSuggestion(walleterr.ErrTxInFlight,
			"wait for the current transaction to settle")
	}
	defer s.busy.Store(false)

	epoch := s.guard.Epoch()

	id := s.ledger.Append(Record{
		Kind:   intent.Kind,
		Status: StatusValidating,
		From:   account,
		To:     intent.To,
		Owner:  intent.Owner,
	})

	amount, err := s.validate(ctx, account, &intent)
	if err != nil {
		s.reject(id, err)
		return s.record(id), err
	}
	s.ledger.Update(id, func(r *Record) { r.Amount = amount })

	hash, replay, err := s.send(ctx, account, intent, amount)
	if err != nil {
		s.reject(id, err)
		return s.record(id), err
	}

	s.logger.Debug("transaction %s submitted (%s)", hash, intent.Kind)
	metrics.Global.RecordSubmission()
	s.ledger.Update(id, func(r *Record) {
		r.Status = StatusSubmitted
		r.Hash = hash
	})
	s.ledger.Update(id, func(r *Record) { r.Status = StatusConfirming })

	_, waitErr := s.token.WaitMined(ctx, hash, s.poll, replay)

	if !s.guard.Alive(epoch) {
		// The session ended under the confirmation wait. No ledger
		// update, no balance refresh; the records belong to a session
		// that no longer exists.
		return s.record(id), walleterr.ErrSessionEnded
	}

	if waitErr != nil {
		// Revert or abandoned watch: either way the wait has resolved
		// and the record reaches a terminal state.
		metrics.Global.RecordFailed()
		s.fail(id, waitErr)
		s.refresh(ctx, account, intent)
		return s.record(id), waitErr
	}

	metrics.Global.RecordSettled()
	s.ledger.Update(id, func(r *Record) { r.Status = StatusSettled })
	s.refresh(ctx, account, intent)

	return s.record(id), nil
}

// validate checks an intent against local state and resolves its base-unit
// amount. Everything here fails before the wallet sees a request.
func (s *Service) validate(ctx context.Context, account string, intent *Intent) (*big.Int, error) {
	switch intent.Kind {
	case KindTransfer:
		if err := requireAddress("recipient", intent.To); err != nil {
			return nil, err
		}
		amount, err := parsePositiveAmount(intent.Amount)
		if err != nil {
			return nil, err
		}
		if bal := s.balances.Current().Token; bal == nil || amount.Cmp(bal) > 0 {
			return nil, walleterr.WithDetails(walleterr.ErrInsufficientBalance, map[string]string{
				"requested": chain.FormatTokenAmount(amount),
				"available": chain.FormatTokenAmount(s.balances.Current().Token),
			})
		}
		return amount, nil

	case KindTransferAll:
		bal := s.balances.Current().Token
		if bal == nil || bal.Sign() == 0 {
			return nil, walleterr.WithSuggestion(walleterr.ErrInsufficientBalance,
				"claim from the faucet to obtain tokens")
		}
		return new(big.Int).Set(bal), nil

	case KindApprove:
		if err := requireAddress("spender", intent.To); err != nil {
			return nil, err
		}
		// No balance ceiling: an allowance may exceed the current
		// balance, it caps future transferFrom calls instead.
		return parsePositiveAmount(intent.Amount)

	case KindTransferFrom:
		if err := requireAddress("owner", intent.Owner); err != nil {
			return nil, err
		}
		if err := requireAddress("recipient", intent.To); err != nil {
			return nil, err
		}
		amount, err := parsePositiveAmount(intent.Amount)
		if err != nil {
			return nil, err
		}
		granted, ok := s.allowances.Cached(intent.Owner)
		if !ok {
			return nil, walleterr.WithSuggestion(walleterr.ErrNoAllowance,
				"check the owner's allowance first")
		}
		if amount.Cmp(granted) > 0 {
			return nil, walleterr.WithDetails(walleterr.ErrAllowanceExceeded, map[string]string{
				"requested": chain.FormatTokenAmount(amount),
				"granted":   chain.FormatTokenAmount(granted),
			})
		}
		return amount, nil

	case KindFaucetClaim:
		// The local countdown can drift; the chain decides.
		cooldown, err := s.token.FaucetCooldown(ctx, account)
		if err != nil {
			return nil, walleterr.Wrap(err, "confirming faucet cooldown")
		}
		if cooldown.Sign() > 0 {
			return nil, walleterr.WithDetails(walleterr.ErrCooldownActive, map[string]string{
				"remaining_seconds": cooldown.String(),
			})
		}
		return nil, nil
	}

	return nil, walleterr.Wrap(walleterr.ErrValidation, "unknown operation %q", intent.Kind)
}

// send dispatches the validated intent to the wallet.
func (s *Service) send(ctx context.Context, account string, intent Intent, amount *big.Int) (string, gateway.TxParams, error) {
	switch intent.Kind {
	case KindTransfer, KindTransferAll:
		return s.token.Transfer(ctx, account, intent.To, amount)
	case KindApprove:
		return s.token.Approve(ctx, account, intent.To, amount)
	case KindTransferFrom:
		return s.token.TransferFrom(ctx, account, intent.Owner, intent.To, amount)
	case KindFaucetClaim:
		return s.token.FaucetClaim(ctx, account)
	}
	return "", gateway.TxParams{}, walleterr.Wrap(walleterr.ErrValidation,
		"unknown operation %q", intent.Kind)
}

// refresh runs the post-settlement syncs: balances always, plus the caches
// the settled kind invalidated.
func (s *Service) refresh(ctx context.Context, account string, intent Intent) {
	if err := s.balances.Refresh(ctx, account); err != nil {
		s.logger.Error("post-transaction balance refresh: %v", err)
	}

	switch intent.Kind {
	case KindTransferFrom:
		if _, err := s.allowances.Check(ctx, intent.Owner); err != nil {
			s.logger.Error("post-transferFrom allowance refresh: %v", err)
		}
	case KindFaucetClaim:
		if err := s.faucet.Resync(ctx); err != nil {
			s.logger.Error("post-claim faucet resync: %v", err)
		}
	}
}

func (s *Service) reject(id uint64, cause error) {
	metrics.Global.RecordRejected()
	s.ledger.Update(id, func(r *Record) {
		r.Status = StatusRejected
		r.FailureCode = walleterr.Code(cause)
	})
}

func (s *Service) fail(id uint64, cause error) {
	var reason string
	var we *walleterr.WalletError
	if walleterr.As(cause, &we) {
		reason = we.Details["reason"]
	}
	s.ledger.Update(id, func(r *Record) {
		r.Status = StatusFailed
		r.FailureCode = walleterr.Code(cause)
		r.FailureReason = reason
	})
}

// record fetches a record copy by ID for return values.
func (s *Service) record(id uint64) Record {
	for _, rec := range s.ledger.Records() {
		if rec.ID == id {
			return rec
		}
	}
	return Record{}
}

func requireAddress(field, value string) error {
	if value == "" {
		return walleterr.WithDetails(walleterr.ErrValidation, map[string]string{
			"field": field, "reason": "required",
		})
	}
	if !chain.ValidAddress(value) {
		return walleterr.WithDetails(walleterr.ErrInvalidAddress, map[string]string{
			"field": field, "value": value,
		})
	}
	return nil
}

func parsePositiveAmount(input string) (*big.Int, error) {
	if input == "" {
		return nil, walleterr.ErrAmountRequired
	}
	amount, err := chain.ParseTokenAmount(input, walleterr.WithDetails(
		walleterr.ErrInvalidAmount, map[string]string{"amount": input}))
	if err != nil {
		return nil, err
	}
	if amount.Sign() <= 0 {
		return nil, walleterr.WithDetails(walleterr.ErrInvalidAmount, map[string]string{
			"amount": input, "reason": "must be greater than zero",
		})
	}
	return amount, nil
}
