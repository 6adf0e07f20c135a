package faucet

import (
	"context"
	"math/big"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const account = "0xAb5801a7D398351b8bE11C439e05C5B3259aeC9B"

type fakeReader struct {
	mu       sync.Mutex
	grant    *big.Int
	cooldown *big.Int
}

func (f *fakeReader) FaucetAmount(_ context.Context) (*big.Int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return new(big.Int).Set(f.grant), nil
}

func (f *fakeReader) FaucetCooldown(_ context.Context, _ string) (*big.Int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return new(big.Int).Set(f.cooldown), nil
}

func newTestService(cooldown int64, onChange func(State)) *Service {
	reader := &fakeReader{
		grant:    new(big.Int).Mul(big.NewInt(100), new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)),
		cooldown: big.NewInt(cooldown),
	}
	return NewService(reader, account, nil, onChange)
}

func TestResync_TakesChainValue(t *testing.T) {
	t.Parallel()

	svc := newTestService(90, nil)
	require.NoError(t, svc.Resync(context.Background()))

	state := svc.Current()
	assert.Equal(t, int64(90), state.RemainingSeconds)
	assert.False(t, state.Claimable)
}

func TestTick_CountsDownAndClampsAtZero(t *testing.T) {
	t.Parallel()

	svc := newTestService(2, nil)
	require.NoError(t, svc.Resync(context.Background()))

	svc.tick()
	assert.Equal(t, int64(1), svc.Current().RemainingSeconds)
	assert.False(t, svc.Current().Claimable)

	svc.tick()
	assert.Equal(t, int64(0), svc.Current().RemainingSeconds)
	assert.True(t, svc.Current().Claimable)

	// Already zero: stays zero.
	svc.tick()
	assert.Equal(t, int64(0), svc.Current().RemainingSeconds)
}

func TestTick_NeverIncreasesBetweenResyncs(t *testing.T) {
	t.Parallel()

	svc := newTestService(5, nil)
	require.NoError(t, svc.Resync(context.Background()))

	last := svc.Current().RemainingSeconds
	for i := 0; i < 10; i++ {
		svc.tick()
		now := svc.Current().RemainingSeconds
		assert.LessOrEqual(t, now, last)
		last = now
	}
}

func TestOnChange_FiresOnTicksNotWhenIdle(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	var states []State
	svc := newTestService(1, func(s State) {
		mu.Lock()
		states = append(states, s)
		mu.Unlock()
	})
	require.NoError(t, svc.Resync(context.Background()))

	svc.tick() // 1 -> 0, fires
	svc.tick() // already 0, silent
	svc.tick() // already 0, silent

	mu.Lock()
	defer mu.Unlock()
	// One notification from the resync, one from the decrementing tick.
	require.Len(t, states, 2)
	assert.True(t, states[len(states)-1].Claimable)
}

func TestState_DisplayAmount(t *testing.T) {
	t.Parallel()

	svc := newTestService(0, nil)
	require.NoError(t, svc.Start(context.Background()))
	defer svc.Stop()

	state := svc.Current()
	assert.Equal(t, "100.0", state.DisplayAmount())
	assert.True(t, state.Claimable)
}

func TestStop_Idempotent(t *testing.T) {
	t.Parallel()

	svc := newTestService(0, nil)
	require.NoError(t, svc.Start(context.Background()))

	svc.Stop()
	svc.Stop()
}
