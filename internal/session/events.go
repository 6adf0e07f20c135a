package session

import (
	"github.com/mrz1836/devwallet/internal/service/balance"
	"github.com/mrz1836/devwallet/internal/service/faucet"
	"github.com/mrz1836/devwallet/internal/service/transaction"
)

// Severity grades a controller notification.
type Severity string

// Notification severities.
const (
	SeverityInfo  Severity = "info"
	SeverityWarn  Severity = "warn"
	SeverityError Severity = "error"
)

// Listener receives controller-originated events. Implementations must not
// block; callbacks run on controller goroutines.
type Listener interface {
	// SessionChanged fires on connect, disconnect, and silent reconnect.
	SessionChanged(snap Snapshot)

	// BalanceChanged fires after every successful balance refresh.
	BalanceChanged(balances balance.Balances)

	// FaucetChanged fires on every cooldown tick and resync.
	FaucetChanged(state faucet.State)

	// LedgerAppended and LedgerUpdated track the transaction ledger.
	LedgerAppended(rec transaction.Record)
	LedgerUpdated(rec transaction.Record)

	// Notify carries out-of-band messages: network guard progress,
	// policy-driven reconnects, degraded reads.
	Notify(severity Severity, message string)
}

// NopListener discards all events. Embed it to implement only part of
// Listener.
type NopListener struct{}

// SessionChanged implements Listener.
func (NopListener) SessionChanged(Snapshot) {}

// BalanceChanged implements Listener.
func (NopListener) BalanceChanged(balance.Balances) {}

// FaucetChanged implements Listener.
func (NopListener) FaucetChanged(faucet.State) {}

// LedgerAppended implements Listener.
func (NopListener) LedgerAppended(transaction.Record) {}

// LedgerUpdated implements Listener.
func (NopListener) LedgerUpdated(transaction.Record) {}

// Notify implements Listener.
func (NopListener) Notify(Severity, string) {}
