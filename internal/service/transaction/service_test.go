package transaction

import (
	"context"
	"errors"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/devwallet/internal/gateway"
	"github.com/mrz1836/devwallet/internal/service/balance"
	"github.com/mrz1836/devwallet/internal/service/faucet"
	walleterr "github.com/mrz1836/devwallet/pkg/errors"
)

const (
	testAccount   = "0xAb5801a7D398351b8bE11C439e05C5B3259aeC9B"
	testRecipient = "0x0000000000000000000000000000000000000001"
	testOwner     = "0x0000000000000000000000000000000000000002"
)

func tokens(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic("bad test amount " + s)
	}
	return v
}

// fakeToken scripts the contract binding.
type fakeToken struct {
	mu       sync.Mutex
	sends    []string   // methods dispatched to the wallet
	amounts  []*big.Int // amounts per send
	sendHash string
	sendErr  error

	cooldown *big.Int

	waitErr   error
	waitGate  chan struct{} // when non-nil, WaitMined blocks until closed
	waitCalls int
}

func (f *fakeToken) record(method string, amount *big.Int) (string, gateway.TxParams, error) {
	f.mu.Lock()
	f.sends = append(f.sends, method)
	f.amounts = append(f.amounts, amount)
	f.mu.Unlock()
	if f.sendErr != nil {
		return "", gateway.TxParams{}, f.sendErr
	}
	hash := f.sendHash
	if hash == "" {
		hash = "0xhash"
	}
	return hash, gateway.TxParams{From: testAccount}, nil
}

func (f *fakeToken) Transfer(_ context.Context, _, _ string, amount *big.Int) (string, gateway.TxParams, error) {
	return f.record("transfer", amount)
}

func (f *fakeToken) Approve(_ context.Context, _, _ string, amount *big.Int) (string, gateway.TxParams, error) {
	return f.record("approve", amount)
}

func (f *fakeToken) TransferFrom(_ context.Context, _, _, _ string, amount *big.Int) (string, gateway.TxParams, error) {
	return f.record("transferFrom", amount)
}

func (f *fakeToken) FaucetClaim(_ context.Context, _ string) (string, gateway.TxParams, error) {
	return f.record("faucet", nil)
}

func (f *fakeToken) FaucetCooldown(_ context.Context, _ string) (*big.Int, error) {
	if f.cooldown == nil {
		return big.NewInt(0), nil
	}
	return f.cooldown, nil
}

func (f *fakeToken) WaitMined(_ context.Context, hash string, _ time.Duration, _ gateway.TxParams) (*gateway.Receipt, error) {
	f.mu.Lock()
	f.waitCalls++
	gate := f.waitGate
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if f.waitErr != nil {
		return &gateway.Receipt{TxHash: hash, Status: 0}, f.waitErr
	}
	return &gateway.Receipt{TxHash: hash, BlockNumber: big.NewInt(1), Status: 1}, nil
}

func (f *fakeToken) sendCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sends)
}

// fakeReaders back a real balance.Service.
type fakeReaders struct {
	mu       sync.Mutex
	token    *big.Int
	native   *big.Int
	refreshN int
}

func (f *fakeReaders) BalanceOf(_ context.Context, _ string) (*big.Int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refreshN++
	return new(big.Int).Set(f.token), nil
}

func (f *fakeReaders) NativeBalance(_ context.Context, _ string) (*big.Int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return new(big.Int).Set(f.native), nil
}

// fakeAllowances scripts the allowance cache.
type fakeAllowances struct {
	mu      sync.Mutex
	cached  map[string]*big.Int
	checked []string
}

func (f *fakeAllowances) Cached(owner string) (*big.Int, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.cached[owner]
	return v, ok
}

func (f *fakeAllowances) Check(_ context.Context, owner string) (*big.Int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.checked = append(f.checked, owner)
	if v, ok := f.cached[owner]; ok {
		return v, nil
	}
	return big.NewInt(0), nil
}

// fakeFaucet scripts the faucet tracker.
type fakeFaucet struct {
	mu        sync.Mutex
	resyncs   int
	claimable bool
}

func (f *fakeFaucet) Current() faucet.State {
	return faucet.State{Claimable: f.claimable}
}

func (f *fakeFaucet) Resync(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resyncs++
	return nil
}

// fakeGuard scripts the session guard.
type fakeGuard struct {
	account string
	err     error
	alive   bool
}

func (f *fakeGuard) Account() (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.account, nil
}

func (f *fakeGuard) Epoch() uint64     { return 1 }
func (f *fakeGuard) Alive(uint64) bool { return f.alive }

type fixture struct {
	svc        *Service
	token      *fakeToken
	readers    *fakeReaders
	allowances *fakeAllowances
	faucet     *fakeFaucet
	guard      *fakeGuard
	ledger     *Ledger
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	readers := &fakeReaders{
		token:  tokens("100000000000000000000"), // 100
		native: tokens("1000000000000000000"),   // 1
	}
	balances := balance.NewService(readers, readers, nil)
	require.NoError(t, balances.Refresh(context.Background(), testAccount))

	token := &fakeToken{}
	allowances := &fakeAllowances{cached: map[string]*big.Int{}}
	fct := &fakeFaucet{claimable: true}
	guard := &fakeGuard{account: testAccount, alive: true}
	ledger := NewLedger(nil, nil)

	svc := NewService(token, balances, allowances, fct, ledger, guard, time.Millisecond, nil)

	return &fixture{
		svc:        svc,
		token:      token,
		readers:    readers,
		allowances: allowances,
		faucet:     fct,
		guard:      guard,
		ledger:     ledger,
	}
}

func TestSubmit_TransferSettles(t *testing.T) {
	t.Parallel()

	fx := newFixture(t)
	rec, err := fx.svc.Submit(context.Background(), Intent{
		Kind:   KindTransfer,
		To:     testRecipient,
		Amount: "1.5",
	})
	require.NoError(t, err)

	assert.Equal(t, StatusSettled, rec.Status)
	assert.Equal(t, "0xhash", rec.Hash)
	assert.Equal(t, tokens("1500000000000000000"), rec.Amount)
	require.Equal(t, 1, fx.token.sendCount())
	assert.Equal(t, "transfer", fx.token.sends[0])
}

func TestSubmit_TransferAllSendsFullBalance(t *testing.T) {
	t.Parallel()

	fx := newFixture(t)
	rec, err := fx.svc.Submit(context.Background(), Intent{
		Kind: KindTransferAll,
		To:   testRecipient,
	})
	require.NoError(t, err)

	assert.Equal(t, StatusSettled, rec.Status)
	require.Equal(t, 1, fx.token.sendCount())
	assert.Equal(t, 0, fx.token.amounts[0].Cmp(tokens("100000000000000000000")),
		"transfer all must send the exact balance")
}

func TestSubmit_ValidationRejectsBeforeWallet(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		intent   Intent
		sentinel *walleterr.WalletError
	}{
		{
			"invalid recipient",
			Intent{Kind: KindTransfer, To: "not-an-address", Amount: "1"},
			walleterr.ErrInvalidAddress,
		},
		{
			"missing amount",
			Intent{Kind: KindTransfer, To: testRecipient},
			walleterr.ErrAmountRequired,
		},
		{
			"zero amount",
			Intent{Kind: KindTransfer, To: testRecipient, Amount: "0"},
			walleterr.ErrInvalidAmount,
		},
		{
			"malformed amount",
			Intent{Kind: KindTransfer, To: testRecipient, Amount: "1.2.3"},
			walleterr.ErrInvalidAmount,
		},
		{
			"over balance",
			Intent{Kind: KindTransfer, To: testRecipient, Amount: "100.000000000000000001"},
			walleterr.ErrInsufficientBalance,
		},
		{
			"transferFrom without allowance check",
			Intent{Kind: KindTransferFrom, Owner: testOwner, To: testRecipient, Amount: "1"},
			walleterr.ErrNoAllowance,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fx := newFixture(t)
			rec, err := fx.svc.Submit(context.Background(), tt.intent)
			require.Error(t, err)
			assert.True(t, walleterr.Is(err, tt.sentinel), "got %v", err)
			assert.Equal(t, StatusRejected, rec.Status)
			assert.Equal(t, 0, fx.token.sendCount(), "wallet must not see invalid intents")
		})
	}
}

func TestSubmit_SelfTransferAllowed(t *testing.T) {
	t.Parallel()

	fx := newFixture(t)
	rec, err := fx.svc.Submit(context.Background(), Intent{
		Kind:   KindTransfer,
		To:     testAccount, // recipient == sender
		Amount: "1",
	})
	require.NoError(t, err)
	assert.Equal(t, StatusSettled, rec.Status)
}

func TestSubmit_ApproveHasNoBalanceCeiling(t *testing.T) {
	t.Parallel()

	fx := newFixture(t)
	rec, err := fx.svc.Submit(context.Background(), Intent{
		Kind:   KindApprove,
		To:     testRecipient,
		Amount: "1000000", // far beyond the 100 token balance
	})
	require.NoError(t, err)
	assert.Equal(t, StatusSettled, rec.Status)
	assert.Equal(t, "approve", fx.token.sends[0])
}

func TestSubmit_TransferFromWithinAllowance(t *testing.T) {
	t.Parallel()

	fx := newFixture(t)
	fx.allowances.cached[testOwner] = tokens("10000000000000000000") // 10

	rec, err := fx.svc.Submit(context.Background(), Intent{
		Kind:   KindTransferFrom,
		Owner:  testOwner,
		To:     testRecipient,
		Amount: "10",
	})
	require.NoError(t, err)
	assert.Equal(t, StatusSettled, rec.Status)

	// Settlement re-checks the owner's allowance.
	assert.Contains(t, fx.allowances.checked, testOwner)
}

func TestSubmit_TransferFromOverAllowance(t *testing.T) {
	t.Parallel()

	fx := newFixture(t)
	fx.allowances.cached[testOwner] = tokens("10000000000000000000") // 10

	rec, err := fx.svc.Submit(context.Background(), Intent{
		Kind:   KindTransferFrom,
		Owner:  testOwner,
		To:     testRecipient,
		Amount: "10.000000000000000001",
	})
	require.Error(t, err)
	assert.True(t, walleterr.Is(err, walleterr.ErrAllowanceExceeded))
	assert.Equal(t, StatusRejected, rec.Status)
	assert.Equal(t, 0, fx.token.sendCount())
}

func TestSubmit_FaucetClaimChecksChainCooldown(t *testing.T) {
	t.Parallel()

	fx := newFixture(t)
	fx.token.cooldown = big.NewInt(3600) // chain disagrees with local timer

	rec, err := fx.svc.Submit(context.Background(), Intent{Kind: KindFaucetClaim})
	require.Error(t, err)
	assert.True(t, walleterr.Is(err, walleterr.ErrCooldownActive))
	assert.Equal(t, StatusRejected, rec.Status)
	assert.Equal(t, 0, fx.token.sendCount())
}

func TestSubmit_FaucetClaimResyncsOnSettle(t *testing.T) {
	t.Parallel()

	fx := newFixture(t)
	rec, err := fx.svc.Submit(context.Background(), Intent{Kind: KindFaucetClaim})
	require.NoError(t, err)

	assert.Equal(t, StatusSettled, rec.Status)
	assert.Equal(t, "faucet", fx.token.sends[0])
	assert.Equal(t, 1, fx.faucet.resyncs)
}

func TestSubmit_UserRejectionRecordsRejected(t *testing.T) {
	t.Parallel()

	fx := newFixture(t)
	fx.token.sendErr = walleterr.ErrUserRejected

	rec, err := fx.svc.Submit(context.Background(), Intent{
		Kind:   KindTransfer,
		To:     testRecipient,
		Amount: "1",
	})
	require.Error(t, err)
	assert.True(t, walleterr.Is(err, walleterr.ErrUserRejected))
	assert.Equal(t, StatusRejected, rec.Status)
	assert.Equal(t, "USER_REJECTED", rec.FailureCode)
	assert.Empty(t, rec.Hash, "rejected submissions never obtain a handle")
}

func TestSubmit_RevertRecordsFailedWithReason(t *testing.T) {
	t.Parallel()

	fx := newFixture(t)
	fx.token.waitErr = walleterr.WithDetails(walleterr.ErrExecutionReverted, map[string]string{
		"reason": "Cooldown: wait before claiming again",
	})

	rec, err := fx.svc.Submit(context.Background(), Intent{
		Kind:   KindTransfer,
		To:     testRecipient,
		Amount: "1",
	})
	require.Error(t, err)
	assert.True(t, walleterr.Is(err, walleterr.ErrExecutionReverted))
	assert.Equal(t, StatusFailed, rec.Status)
	assert.Equal(t, "EXECUTION_REVERTED", rec.FailureCode)
	assert.Equal(t, "Cooldown: wait before claiming again", rec.FailureReason)
	assert.Equal(t, "0xhash", rec.Hash, "failed transactions keep their handle")
}

func TestSubmit_ConfirmationWatchFailureRecordsFailed(t *testing.T) {
	t.Parallel()

	fx := newFixture(t)
	fx.token.waitErr = errors.New("rpc: connection reset")
	refreshesBefore := fx.readers.refreshN

	rec, err := fx.svc.Submit(context.Background(), Intent{
		Kind:   KindTransfer,
		To:     testRecipient,
		Amount: "1",
	})
	require.Error(t, err)

	// The watch resolved with an error, so the record must land in a
	// terminal state rather than sit in confirming forever.
	assert.Equal(t, StatusFailed, rec.Status)
	assert.True(t, rec.Status.Terminal())
	assert.Equal(t, "GENERAL_ERROR", rec.FailureCode)
	assert.Equal(t, "0xhash", rec.Hash, "the handle stays for manual follow-up")
	assert.Greater(t, fx.readers.refreshN, refreshesBefore,
		"balances resync; the transaction may have landed before the watch broke")
}

func TestSubmit_SecondSubmissionWhileInFlight(t *testing.T) {
	t.Parallel()

	fx := newFixture(t)
	gate := make(chan struct{})
	fx.token.waitGate = gate

	done := make(chan error, 1)
	go func() {
		_, err := fx.svc.Submit(context.Background(), Intent{
			Kind:   KindTransfer,
			To:     testRecipient,
			Amount: "1",
		})
		done <- err
	}()

	// Wait until the first submission reaches the confirmation wait.
	require.Eventually(t, func() bool {
		fx.token.mu.Lock()
		defer fx.token.mu.Unlock()
		return fx.token.waitCalls == 1
	}, time.Second, time.Millisecond)

	_, err := fx.svc.Submit(context.Background(), Intent{
		Kind:   KindTransfer,
		To:     testRecipient,
		Amount: "1",
	})
	require.Error(t, err)
	assert.True(t, walleterr.Is(err, walleterr.ErrTxInFlight))

	close(gate)
	require.NoError(t, <-done)
}

func TestSubmit_SessionEndedDuringConfirmation(t *testing.T) {
	t.Parallel()

	fx := newFixture(t)
	fx.guard.alive = false // session tears down before the wait returns
	refreshesBefore := fx.readers.refreshN

	rec, err := fx.svc.Submit(context.Background(), Intent{
		Kind:   KindTransfer,
		To:     testRecipient,
		Amount: "1",
	})
	require.Error(t, err)
	assert.True(t, walleterr.Is(err, walleterr.ErrSessionEnded))

	// No settlement side effects cross the session boundary.
	assert.Equal(t, StatusConfirming, rec.Status)
	assert.Equal(t, refreshesBefore, fx.readers.refreshN)
}

func TestSubmit_NotConnected(t *testing.T) {
	t.Parallel()

	fx := newFixture(t)
	fx.guard.err = walleterr.ErrNotConnected

	_, err := fx.svc.Submit(context.Background(), Intent{
		Kind:   KindTransfer,
		To:     testRecipient,
		Amount: "1",
	})
	require.Error(t, err)
	assert.True(t, walleterr.Is(err, walleterr.ErrNotConnected))
	assert.Equal(t, 0, fx.ledger.Len(), "no record without a session")
}
