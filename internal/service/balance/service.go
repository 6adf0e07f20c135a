// Package balance keeps the session's token and native balances in sync with
// the chain.
package balance

import (
	"context"
	"math/big"
	"sync"

	"github.com/mrz1836/devwallet/internal/config"
	"github.com/mrz1836/devwallet/internal/metrics"
	walleterr "github.com/mrz1836/devwallet/pkg/errors"
)

// TokenReader reads the token balance of an account.
type TokenReader interface {
	BalanceOf(ctx context.Context, account string) (*big.Int, error)
}

// NativeReader reads the native-currency balance of an account.
type NativeReader interface {
	NativeBalance(ctx context.Context, account string) (*big.Int, error)
}

// Balances is a point-in-time snapshot of both balances in base units. Nil
// values mean the balance has never been read this session.
type Balances struct {
	Token  *big.Int
	Native *big.Int
}

// Service refreshes both balances wholesale and retains the last good
// snapshot when a refresh fails.
type Service struct {
	token  TokenReader
	native NativeReader
	logger *config.Logger

	mu      sync.RWMutex
	current Balances
}

// NewService creates a balance synchronizer.
func NewService(token TokenReader, native NativeReader, logger *config.Logger) *Service {
	if logger == nil {
		logger = config.NullLogger()
	}
	return &Service{
		token:  token,
		native: native,
		logger: logger,
	}
}

// Refresh reads both balances for account. Both reads must succeed for the
// snapshot to advance; on any failure the previous snapshot is kept and a
// BalanceReadError is returned.
func (s *Service) Refresh(ctx context.Context, account string) error {
	tokenBal, err := s.token.BalanceOf(ctx, account)
	if err == nil {
		var nativeBal *big.Int
		nativeBal, err = s.native.NativeBalance(ctx, account)
		if err == nil {
			s.mu.Lock()
			s.current = Balances{Token: tokenBal, Native: nativeBal}
			s.mu.Unlock()
		}
	}

	metrics.Global.RecordBalanceRefresh(err)
	if err != nil {
		s.logger.Error("balance refresh failed for %s: %v", account, err)
		return walleterr.Wrap(walleterr.ErrBalanceRead, "refreshing balances")
	}
	return nil
}

// Current returns the last good snapshot. Values are copies; callers may
// mutate them freely.
func (s *Service) Current() Balances {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Balances{
		Token:  copyBig(s.current.Token),
		Native: copyBig(s.current.Native),
	}
}

// Clear drops the snapshot. Called on session teardown so a later session
// never shows the previous account's balances.
func (s *Service) Clear() {
	s.mu.Lock()
	s.current = Balances{}
	s.mu.Unlock()
}

func copyBig(v *big.Int) *big.Int {
	if v == nil {
		return nil
	}
	return new(big.Int).Set(v)
}
