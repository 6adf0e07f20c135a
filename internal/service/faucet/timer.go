// Package faucet tracks faucet availability for the session account: the
// grant size and a locally ticking cooldown countdown.
package faucet

import (
	"context"
	"math/big"
	"sync"
	"time"

	"github.com/mrz1836/devwallet/internal/chain"
	"github.com/mrz1836/devwallet/internal/config"
	walleterr "github.com/mrz1836/devwallet/pkg/errors"
)

// Reader reads the faucet's grant size and per-account cooldown.
type Reader interface {
	FaucetAmount(ctx context.Context) (*big.Int, error)
	FaucetCooldown(ctx context.Context, account string) (*big.Int, error)
}

// State is a snapshot of faucet availability.
type State struct {
	RemainingSeconds int64    // seconds until the next claim; 0 when claimable
	Claimable        bool     // RemainingSeconds == 0
	GrantAmount      *big.Int // grant per claim in base units; nil until read
}

// DisplayAmount formats the grant for display.
func (s State) DisplayAmount() string {
	if s.GrantAmount == nil {
		return ""
	}
	return chain.FormatTokenAmount(s.GrantAmount)
}

// Service runs the cooldown countdown. The chain is the source of truth; the
// local ticker only decrements between resyncs, so the displayed countdown
// never increases except after an on-chain resync.
type Service struct {
	reader  Reader
	account string
	logger  *config.Logger

	onChange func(State)

	mu        sync.Mutex
	remaining int64
	grant     *big.Int
	started   bool

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// NewService creates a faucet tracker for account. onChange, if non-nil, is
// invoked with a fresh snapshot after every tick and resync.
func NewService(reader Reader, account string, logger *config.Logger, onChange func(State)) *Service {
	if logger == nil {
		logger = config.NullLogger()
	}
	return &Service{
		reader:   reader,
		account:  account,
		logger:   logger,
		onChange: onChange,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start performs the initial on-chain read and starts the one-second ticker.
func (s *Service) Start(ctx context.Context) error {
	grant, err := s.reader.FaucetAmount(ctx)
	if err != nil {
		return walleterr.Wrap(err, "reading faucet grant amount")
	}

	s.mu.Lock()
	s.grant = grant
	s.mu.Unlock()

	if err := s.Resync(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	s.started = true
	s.mu.Unlock()
	go s.run()
	return nil
}

// Resync re-reads the on-chain cooldown and replaces the local countdown.
func (s *Service) Resync(ctx context.Context) error {
	cooldown, err := s.reader.FaucetCooldown(ctx, s.account)
	if err != nil {
		return walleterr.Wrap(err, "reading faucet cooldown")
	}

	s.mu.Lock()
	s.remaining = cooldown.Int64()
	s.mu.Unlock()

	s.notify()
	return nil
}

// Current returns a snapshot of faucet availability.
func (s *Service) Current() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Stop halts the ticker. Safe to call more than once; called on session
// teardown.
func (s *Service) Stop() {
	s.stopOnce.Do(func() {
		close(s.stop)

		s.mu.Lock()
		started := s.started
		s.mu.Unlock()
		if started {
			<-s.done
		}
	})
}

func (s *Service) run() {
	defer close(s.done)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.tick()
		}
	}
}

// tick decrements the countdown by one second, clamped at zero.
func (s *Service) tick() {
	s.mu.Lock()
	changed := s.remaining > 0
	if changed {
		s.remaining--
	}
	s.mu.Unlock()

	if changed {
		s.notify()
	}
}

func (s *Service) notify() {
	if s.onChange == nil {
		return
	}
	s.mu.Lock()
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.onChange(snap)
}

func (s *Service) snapshotLocked() State {
	var grant *big.Int
	if s.grant != nil {
		grant = new(big.Int).Set(s.grant)
	}
	return State{
		RemainingSeconds: s.remaining,
		Claimable:        s.remaining == 0,
		GrantAmount:      grant,
	}
}
