// Package allowance tracks allowances granted to the session account by
// other owners. Checks always hit the chain; the cache only feeds
// delegated-transfer validation.
package allowance

import (
	"context"
	"math/big"
	"sync"

	"github.com/mrz1836/devwallet/internal/chain"
	"github.com/mrz1836/devwallet/internal/metrics"
	walleterr "github.com/mrz1836/devwallet/pkg/errors"
)

// Reader reads an on-chain allowance.
type Reader interface {
	Allowance(ctx context.Context, owner, spender string) (*big.Int, error)
}

// Tracker caches allowance(owner, spender) results for one session, keyed by
// normalized owner address. spender is the connected account and is fixed
// for the tracker's lifetime.
type Tracker struct {
	reader  Reader
	spender string

	mu      sync.RWMutex
	entries map[string]*big.Int
}

// NewTracker creates a tracker for the given spender account.
func NewTracker(reader Reader, spender string) *Tracker {
	return &Tracker{
		reader:  reader,
		spender: spender,
		entries: make(map[string]*big.Int),
	}
}

// Check reads the live allowance owner has granted the session account and
// updates the cache. Always a fresh read.
func (t *Tracker) Check(ctx context.Context, owner string) (*big.Int, error) {
	if !chain.ValidAddress(owner) {
		return nil, walleterr.WithDetails(walleterr.ErrInvalidAddress, map[string]string{
			"owner": owner,
		})
	}

	amount, err := t.reader.Allowance(ctx, owner, t.spender)
	if err != nil {
		return nil, walleterr.Wrap(err, "checking allowance")
	}

	t.mu.Lock()
	t.entries[chain.NormalizeAddress(owner)] = new(big.Int).Set(amount)
	t.mu.Unlock()

	return amount, nil
}

// Cached returns the last checked allowance for owner, if any. Lookup is
// case-insensitive on the owner address.
func (t *Tracker) Cached(owner string) (*big.Int, bool) {
	t.mu.RLock()
	amount, ok := t.entries[chain.NormalizeAddress(owner)]
	t.mu.RUnlock()

	if ok {
		metrics.Global.RecordAllowanceHit()
		return new(big.Int).Set(amount), true
	}
	metrics.Global.RecordAllowanceMiss()
	return nil, false
}

// Clear drops all cached entries. Called on session teardown; allowances
// belong to the account that checked them.
func (t *Tracker) Clear() {
	t.mu.Lock()
	t.entries = make(map[string]*big.Int)
	t.mu.Unlock()
}
