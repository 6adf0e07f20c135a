package transaction

import (
	"math/big"
	"sync"
	"time"
)

// Status is a transaction lifecycle state.
type Status string

// Lifecycle states. Validating, Submitted and Confirming are transient;
// Settled, Rejected and Failed are terminal.
const (
	StatusValidating Status = "validating"
	StatusSubmitted  Status = "submitted"
	StatusConfirming Status = "confirming"
	StatusSettled    Status = "settled"
	StatusRejected   Status = "rejected"
	StatusFailed     Status = "failed"
)

// Terminal reports whether s is a final state.
func (s Status) Terminal() bool {
	return s == StatusSettled || s == StatusRejected || s == StatusFailed
}

// Record is one ledger entry. Amount is in base units; Hash is empty until
// the wallet returns a transaction handle.
type Record struct {
	ID     uint64
	Kind   Kind
	Status Status
	Hash   string

	From   string
	To     string
	Owner  string // transferFrom only: the account funds move out of
	Amount *big.Int

	FailureCode   string // error code for rejected/failed records
	FailureReason string // contract revert reason, when recovered

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Ledger is the session's in-memory transaction history, newest first. It
// never persists; a ledger's lifetime is bounded by the session.
type Ledger struct {
	mu      sync.RWMutex
	records []*Record
	nextID  uint64

	onAppend func(Record)
	onUpdate func(Record)
}

// NewLedger creates an empty ledger. The callbacks, if non-nil, fire after
// each append and update with a copy of the affected record.
func NewLedger(onAppend, onUpdate func(Record)) *Ledger {
	return &Ledger{
		nextID:   1,
		onAppend: onAppend,
		onUpdate: onUpdate,
	}
}

// Append adds a record at the head of the ledger and returns its assigned ID.
func (l *Ledger) Append(rec Record) uint64 {
	l.mu.Lock()
	rec.ID = l.nextID
	l.nextID++
	now := time.Now()
	rec.CreatedAt = now
	rec.UpdatedAt = now

	stored := rec
	l.records = append([]*Record{&stored}, l.records...)
	l.mu.Unlock()

	if l.onAppend != nil {
		l.onAppend(rec)
	}
	return rec.ID
}

// Update applies mutate to the record with the given ID. Records in a
// terminal state are immutable; updates against them are dropped.
func (l *Ledger) Update(id uint64, mutate func(*Record)) {
	l.mu.Lock()
	var updated *Record
	for _, rec := range l.records {
		if rec.ID == id {
			if rec.Status.Terminal() {
				l.mu.Unlock()
				return
			}
			mutate(rec)
			rec.UpdatedAt = time.Now()
			copied := *rec
			updated = &copied
			break
		}
	}
	l.mu.Unlock()

	if updated != nil && l.onUpdate != nil {
		l.onUpdate(*updated)
	}
}

// Records returns a copy of the ledger, newest first.
func (l *Ledger) Records() []Record {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]Record, len(l.records))
	for i, rec := range l.records {
		out[i] = *rec
	}
	return out
}

// Len returns the number of records.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.records)
}

// Clear drops all records. Called on session teardown when the clear-ledger
// policy is active.
func (l *Ledger) Clear() {
	l.mu.Lock()
	l.records = nil
	l.mu.Unlock()
}
