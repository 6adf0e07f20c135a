// Package metrics provides application-level metrics collection.
// This is a lightweight metrics foundation using atomic counters.
package metrics

import (
	"sync/atomic"
	"time"
)

// Metrics holds application metrics using atomic counters for thread safety.
type Metrics struct {
	// Wallet RPC metrics
	rpcCallsTotal   atomic.Int64
	rpcErrorsTotal  atomic.Int64
	rpcLatencyNanos atomic.Int64

	// Transaction lifecycle metrics
	txSubmitted atomic.Int64
	txSettled   atomic.Int64
	txRejected  atomic.Int64
	txFailed    atomic.Int64

	// Synchronizer metrics
	balanceRefreshes    atomic.Int64
	balanceRefreshFails atomic.Int64

	// Allowance cache metrics
	allowanceHits   atomic.Int64
	allowanceMisses atomic.Int64
}

// Global is the global metrics instance.
//
//nolint:gochecknoglobals // Intentional global for metrics access
var Global = &Metrics{}

// RecordRPCCall records a wallet RPC call with its duration and outcome.
func (m *Metrics) RecordRPCCall(duration time.Duration, err error) {
	m.rpcCallsTotal.Add(1)
	m.rpcLatencyNanos.Add(duration.Nanoseconds())

	if err != nil {
		m.rpcErrorsTotal.Add(1)
	}
}

// RecordSubmission records a transaction handle being obtained.
func (m *Metrics) RecordSubmission() {
	m.txSubmitted.Add(1)
}

// RecordSettled records a confirmed transaction.
func (m *Metrics) RecordSettled() {
	m.txSettled.Add(1)
}

// RecordRejected records a submission that never obtained a handle.
func (m *Metrics) RecordRejected() {
	m.txRejected.Add(1)
}

// RecordFailed records a transaction that reverted after submission.
func (m *Metrics) RecordFailed() {
	m.txFailed.Add(1)
}

// RecordBalanceRefresh records a balance synchronization attempt.
func (m *Metrics) RecordBalanceRefresh(err error) {
	m.balanceRefreshes.Add(1)
	if err != nil {
		m.balanceRefreshFails.Add(1)
	}
}

// RecordAllowanceHit records a cached allowance lookup that found an entry.
func (m *Metrics) RecordAllowanceHit() {
	m.allowanceHits.Add(1)
}

// RecordAllowanceMiss records a cached allowance lookup that found nothing.
func (m *Metrics) RecordAllowanceMiss() {
	m.allowanceMisses.Add(1)
}

// Snapshot is a point-in-time copy of all metrics.
type Snapshot struct {
	RPCCallsTotal       int64
	RPCErrorsTotal      int64
	RPCLatencyNanos     int64
	TxSubmitted         int64
	TxSettled           int64
	TxRejected          int64
	TxFailed            int64
	BalanceRefreshes    int64
	BalanceRefreshFails int64
	AllowanceHits       int64
	AllowanceMisses     int64
}

// Snapshot returns a point-in-time copy of all metrics.
func (m *Metrics) Snapshot() Snapshot {
	return Snapshot{
		RPCCallsTotal:       m.rpcCallsTotal.Load(),
		RPCErrorsTotal:      m.rpcErrorsTotal.Load(),
		RPCLatencyNanos:     m.rpcLatencyNanos.Load(),
		TxSubmitted:         m.txSubmitted.Load(),
		TxSettled:           m.txSettled.Load(),
		TxRejected:          m.txRejected.Load(),
		TxFailed:            m.txFailed.Load(),
		BalanceRefreshes:    m.balanceRefreshes.Load(),
		BalanceRefreshFails: m.balanceRefreshFails.Load(),
		AllowanceHits:       m.allowanceHits.Load(),
		AllowanceMisses:     m.allowanceMisses.Load(),
	}
}

// RPCLatencyAvgMs returns the average wallet RPC latency in milliseconds.
// Returns 0 if no calls have been made.
func (m *Metrics) RPCLatencyAvgMs() float64 {
	calls := m.rpcCallsTotal.Load()
	if calls == 0 {
		return 0
	}
	nanos := m.rpcLatencyNanos.Load()
	return float64(nanos) / float64(calls) / 1e6
}

// Reset resets all metrics to zero. Useful for testing.
func (m *Metrics) Reset() {
	m.rpcCallsTotal.Store(0)
	m.rpcErrorsTotal.Store(0)
	m.rpcLatencyNanos.Store(0)
	m.txSubmitted.Store(0)
	m.txSettled.Store(0)
	m.txRejected.Store(0)
	m.txFailed.Store(0)
	m.balanceRefreshes.Store(0)
	m.balanceRefreshFails.Store(0)
	m.allowanceHits.Store(0)
	m.allowanceMisses.Store(0)
}
