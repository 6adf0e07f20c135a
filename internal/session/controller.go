// Package session owns the wallet session lifecycle: connect, the network
// guard, wallet event handling, and teardown. The controller is the single
// entry point the CLI talks to.
package session

import (
	"context"
	"fmt"
	"math/big"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mrz1836/devwallet/internal/chain"
	"github.com/mrz1836/devwallet/internal/config"
	"github.com/mrz1836/devwallet/internal/contract"
	"github.com/mrz1836/devwallet/internal/gateway"
	"github.com/mrz1836/devwallet/internal/service/allowance"
	"github.com/mrz1836/devwallet/internal/service/balance"
	"github.com/mrz1836/devwallet/internal/service/faucet"
	"github.com/mrz1836/devwallet/internal/service/transaction"
	walleterr "github.com/mrz1836/devwallet/pkg/errors"
)

// Phase is the session lifecycle phase.
type Phase string

// Session phases.
const (
	PhaseIdle       Phase = "idle"
	PhaseConnecting Phase = "connecting"
	PhaseSwitching  Phase = "switching"
	PhaseConnected  Phase = "connected"
)

// Snapshot is a point-in-time view of the session.
type Snapshot struct {
	Phase   Phase
	Account string
	ChainID string
	Brand   string
}

// Controller drives the wallet session. All public methods are safe for
// concurrent use.
type Controller struct {
	cfg      *config.Config
	gw       *gateway.Gateway
	token    *contract.Token
	listener Listener
	logger   *config.Logger

	epoch atomic.Uint64

	mu      sync.Mutex
	phase   Phase
	account string
	chainID string

	balances   *balance.Service
	allowances *allowance.Tracker
	faucetSvc  *faucet.Service
	ledger     *transaction.Ledger
	txSvc      *transaction.Service

	feed *gateway.EventFeed
}

// New creates a controller. listener may be nil.
func New(cfg *config.Config, gw *gateway.Gateway, token *contract.Token, listener Listener, logger *config.Logger) *Controller {
	if listener == nil {
		listener = NopListener{}
	}
	if logger == nil {
		logger = config.NullLogger()
	}

	c := &Controller{
		cfg:      cfg,
		gw:       gw,
		token:    token,
		listener: listener,
		logger:   logger,
		phase:    PhaseIdle,
	}

	c.ledger = transaction.NewLedger(listener.LedgerAppended, listener.LedgerUpdated)
	return c
}

// Connect establishes a session, prompting the wallet for authorization.
// Connecting while already connected returns the existing session.
func (c *Controller) Connect(ctx context.Context) (Snapshot, error) {
	return c.connect(ctx, true)
}

// ConnectSilent establishes a session without prompting. It only succeeds
// when the wallet has already authorized this origin; otherwise it returns
// NotConnected.
func (c *Controller) ConnectSilent(ctx context.Context) (Snapshot, error) {
	return c.connect(ctx, false)
}

func (c *Controller) connect(ctx context.Context, prompt bool) (Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.phase == PhaseConnected {
		return c.snapshotLocked(), nil
	}
	c.phase = PhaseConnecting

	snap, err := c.connectLocked(ctx, prompt)
	if err != nil {
		c.teardownLocked()
		return Snapshot{}, err
	}

	c.listener.SessionChanged(snap)
	return snap, nil
}

//nolint:gocognit // The connect sequence is inherently step-by-step
func (c *Controller) connectLocked(ctx context.Context, prompt bool) (Snapshot, error) {
	var accounts []string
	var err error
	if prompt {
		accounts, err = c.gw.RequestAccounts(ctx)
	} else {
		accounts, err = c.gw.Accounts(ctx)
	}
	if err != nil {
		return Snapshot{}, err
	}
	if len(accounts) == 0 {
		if prompt {
			return Snapshot{}, walleterr.ErrNoAccounts
		}
		return Snapshot{}, walleterr.WithSuggestion(walleterr.ErrNotConnected,
			"run connect to authorize the wallet")
	}
	c.account = accounts[0]

	if err := c.ensureNetwork(ctx); err != nil {
		return Snapshot{}, err
	}
	c.chainID = c.cfg.Network.ChainIDHex

	// Per-session services. The ledger survives reconnects; teardown
	// decides whether to clear it.
	c.balances = balance.NewService(c.token, c.gw, c.logger)
	c.allowances = allowance.NewTracker(c.token, c.account)
	c.faucetSvc = faucet.NewService(c.token, c.account, c.logger, c.listener.FaucetChanged)
	c.txSvc = transaction.NewService(
		c.token, c.balances, c.allowances, c.faucetSvc, c.ledger, c,
		time.Duration(c.cfg.Limits.ConfirmPollSeconds)*time.Second, c.logger,
	)

	if err := c.balances.Refresh(ctx, c.account); err != nil {
		// The session stands; balances just read as unavailable until
		// the next refresh succeeds.
		c.listener.Notify(SeverityWarn, "balance read failed; values unavailable until retry")
	} else {
		c.listener.BalanceChanged(c.balances.Current())
	}

	if err := c.faucetSvc.Start(ctx); err != nil {
		c.listener.Notify(SeverityWarn, "faucet state unavailable: "+err.Error())
	}

	if c.cfg.Wallet.EventsURL != "" {
		feed, err := gateway.DialEvents(ctx, c.cfg.Wallet.EventsURL)
		if err != nil {
			c.listener.Notify(SeverityWarn, "wallet event feed unavailable; account and network changes will not be detected")
		} else {
			c.feed = feed
			go c.watch(feed)
		}
	}

	c.phase = PhaseConnected
	return c.snapshotLocked(), nil
}

// ensureNetwork enforces the required network: switch if the wallet is
// elsewhere, registering the network first when the wallet has never seen
// it. At most one registration attempt and one retried switch.
func (c *Controller) ensureNetwork(ctx context.Context) error {
	current, err := c.gw.ChainID(ctx)
	if err != nil {
		return err
	}

	required := c.cfg.Network.ChainIDHex
	if current == required {
		return nil
	}

	c.phase = PhaseSwitching
	c.listener.SessionChanged(c.snapshotLocked())
	c.listener.Notify(SeverityInfo,
		fmt.Sprintf("switching wallet to %s", c.cfg.Network.Name))

	err = c.gw.SwitchChain(ctx, required)
	if walleterr.Is(err, walleterr.ErrUnknownNetwork) {
		if addErr := c.gw.AddChain(ctx, c.networkDescriptor()); addErr != nil {
			if walleterr.Is(addErr, walleterr.ErrUserRejected) {
				return addErr
			}
			return walleterr.Wrap(walleterr.ErrNetworkSwitchFailed,
				"registering %s", c.cfg.Network.Name)
		}
		err = c.gw.SwitchChain(ctx, required)
	}
	if err != nil {
		if walleterr.Is(err, walleterr.ErrUserRejected) {
			return err
		}
		return walleterr.Wrap(walleterr.ErrNetworkSwitchFailed,
			"switching to %s", c.cfg.Network.Name)
	}

	// Confirm the wallet landed where it was told to.
	current, err = c.gw.ChainID(ctx)
	if err != nil {
		return err
	}
	if current != required {
		return walleterr.WithDetails(walleterr.ErrNetworkSwitchFailed, map[string]string{
			"required": required,
			"active":   current,
		})
	}
	return nil
}

func (c *Controller) networkDescriptor() gateway.NetworkDescriptor {
	net := c.cfg.Network
	return gateway.NetworkDescriptor{
		ChainID:   net.ChainIDHex,
		ChainName: net.Name,
		Currency: gateway.Currency{
			Name:     net.Currency.Name,
			Symbol:   net.Currency.Symbol,
			Decimals: net.Currency.Decimals,
		},
		RPCURLs:   net.RPCURLs,
		Explorers: []string{net.Explorer},
	}
}

// Disconnect ends the session and clears per-session state.
func (c *Controller) Disconnect() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.phase == PhaseIdle {
		return
	}
	c.teardownLocked()
	c.listener.SessionChanged(c.snapshotLocked())
}

// teardownLocked advances the epoch and drops all per-session state. In-flight
// confirmations observe the epoch change and skip their side effects.
func (c *Controller) teardownLocked() {
	c.epoch.Add(1)

	if c.feed != nil {
		c.feed.Close()
		c.feed = nil
	}
	if c.faucetSvc != nil {
		c.faucetSvc.Stop()
		c.faucetSvc = nil
	}
	if c.balances != nil {
		c.balances.Clear()
		c.balances = nil
	}
	if c.allowances != nil {
		c.allowances.Clear()
		c.allowances = nil
	}
	if c.cfg.Policies.ClearLedgerOnDisconnect {
		c.ledger.Clear()
	}
	c.txSvc = nil

	c.phase = PhaseIdle
	c.account = ""
	c.chainID = ""
}

// watch consumes the wallet event feed until it closes.
func (c *Controller) watch(feed *gateway.EventFeed) {
	for ev := range feed.Events() {
		switch ev.Kind {
		case gateway.EventAccountsChanged:
			c.onAccountsChanged(ev.Accounts)
		case gateway.EventChainChanged:
			c.onChainChanged(ev.ChainID)
		case gateway.EventDisconnect:
			c.onWalletDisconnect()
		}
	}
}

func (c *Controller) onAccountsChanged(accounts []string) {
	c.mu.Lock()
	connected := c.phase == PhaseConnected
	same := connected && len(accounts) > 0 && chain.SameAddress(accounts[0], c.account)
	c.mu.Unlock()

	if !connected || same {
		return
	}

	if len(accounts) == 0 {
		c.listener.Notify(SeverityWarn, "wallet revoked account access")
		c.Disconnect()
		return
	}

	if c.cfg.Policies.AccountChange == "ignore" {
		c.listener.Notify(SeverityWarn, "wallet account changed; session keeps the original account")
		return
	}

	c.listener.Notify(SeverityInfo, "wallet account changed; reconnecting")
	c.Disconnect()
	if _, err := c.ConnectSilent(context.Background()); err != nil {
		c.listener.Notify(SeverityError, "reconnect after account change failed: "+err.Error())
	}
}

func (c *Controller) onChainChanged(chainID string) {
	c.mu.Lock()
	connected := c.phase == PhaseConnected
	c.mu.Unlock()

	if !connected || chainID == c.cfg.Network.ChainIDHex {
		return
	}

	// Wallet left the required network. Tear the session down and rebuild
	// it; the connect path re-runs the network guard.
	c.listener.Notify(SeverityWarn, "wallet switched networks; reconnecting")
	c.Disconnect()
	if _, err := c.ConnectSilent(context.Background()); err != nil {
		c.listener.Notify(SeverityError, "reconnect after network change failed: "+err.Error())
	}
}

func (c *Controller) onWalletDisconnect() {
	c.mu.Lock()
	connected := c.phase == PhaseConnected
	c.mu.Unlock()

	if !connected {
		return
	}
	c.listener.Notify(SeverityWarn, "wallet disconnected")
	c.Disconnect()
}

// Account implements transaction.SessionGuard.
func (c *Controller) Account() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase != PhaseConnected {
		return "", walleterr.WithSuggestion(walleterr.ErrNotConnected,
			"run connect first")
	}
	return c.account, nil
}

// Epoch implements transaction.SessionGuard.
func (c *Controller) Epoch() uint64 {
	return c.epoch.Load()
}

// Alive implements transaction.SessionGuard.
func (c *Controller) Alive(epoch uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase == PhaseConnected && c.epoch.Load() == epoch
}

// Status returns the current session snapshot.
func (c *Controller) Status() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() Snapshot {
	return Snapshot{
		Phase:   c.phase,
		Account: c.account,
		ChainID: c.chainID,
		Brand:   c.gw.Brand(),
	}
}

// RefreshBalances re-reads both balances and returns the snapshot. On read
// failure the previous snapshot is returned alongside the error.
func (c *Controller) RefreshBalances(ctx context.Context) (balance.Balances, error) {
	c.mu.Lock()
	svc := c.balances
	account := c.account
	connected := c.phase == PhaseConnected
	c.mu.Unlock()

	if !connected {
		return balance.Balances{}, walleterr.ErrNotConnected
	}

	err := svc.Refresh(ctx, account)
	if err == nil {
		c.listener.BalanceChanged(svc.Current())
	}
	return svc.Current(), err
}

// Balances returns the last good balance snapshot without touching the chain.
func (c *Controller) Balances() (balance.Balances, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase != PhaseConnected {
		return balance.Balances{}, walleterr.ErrNotConnected
	}
	return c.balances.Current(), nil
}

// Submit runs a transaction intent through the orchestrator.
func (c *Controller) Submit(ctx context.Context, intent transaction.Intent) (transaction.Record, error) {
	c.mu.Lock()
	svc := c.txSvc
	c.mu.Unlock()

	if svc == nil {
		return transaction.Record{}, walleterr.WithSuggestion(walleterr.ErrNotConnected,
			"run connect first")
	}

	rec, err := svc.Submit(ctx, intent)
	if err == nil {
		c.listener.BalanceChanged(c.mustBalances())
	}
	return rec, err
}

func (c *Controller) mustBalances() balance.Balances {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.balances == nil {
		return balance.Balances{}
	}
	return c.balances.Current()
}

// CheckAllowance reads the live allowance owner has granted the session
// account.
func (c *Controller) CheckAllowance(ctx context.Context, owner string) (*big.Int, error) {
	c.mu.Lock()
	tracker := c.allowances
	c.mu.Unlock()

	if tracker == nil {
		return nil, walleterr.ErrNotConnected
	}
	return tracker.Check(ctx, owner)
}

// FaucetState returns the current faucet availability snapshot.
func (c *Controller) FaucetState() (faucet.State, error) {
	c.mu.Lock()
	svc := c.faucetSvc
	c.mu.Unlock()

	if svc == nil {
		return faucet.State{}, walleterr.ErrNotConnected
	}
	return svc.Current(), nil
}

// History returns the session ledger, newest first.
func (c *Controller) History() []transaction.Record {
	return c.ledger.Records()
}
