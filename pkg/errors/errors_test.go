package errors

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrap_PreservesCodeAndExit(t *testing.T) {
	t.Parallel()

	err := Wrap(ErrUserRejected, "connecting")
	assert.True(t, Is(err, ErrUserRejected))
	assert.Equal(t, "USER_REJECTED", Code(err))
	assert.Equal(t, ExitRejected, ExitCode(err))

	var we *WalletError
	require.True(t, As(err, &we))
	assert.Equal(t, "connecting: request rejected by user", we.Message)
}

func TestWrap_GenericError(t *testing.T) {
	t.Parallel()

	cause := stderrors.New("dial tcp: refused")
	err := Wrap(cause, "reading balance")

	assert.Equal(t, "GENERAL_ERROR", Code(err))
	assert.Equal(t, ExitGeneral, ExitCode(err))
	assert.True(t, stderrors.Is(err, cause))
}

func TestWrap_NilReturnsNil(t *testing.T) {
	t.Parallel()

	assert.NoError(t, Wrap(nil, "anything"))
	assert.NoError(t, WithDetails(nil, map[string]string{"a": "b"}))
	assert.NoError(t, WithSuggestion(nil, "hint"))
}

func TestWithDetails_KeepsSentinelIdentity(t *testing.T) {
	t.Parallel()

	err := WithDetails(ErrInsufficientBalance, map[string]string{
		"requested": "10",
		"available": "5",
	})
	assert.True(t, Is(err, ErrInsufficientBalance))

	var we *WalletError
	require.True(t, As(err, &we))
	assert.Equal(t, "10", we.Details["requested"])
}

func TestErrorString_DetailsSorted(t *testing.T) {
	t.Parallel()

	err := WithDetails(ErrValidation, map[string]string{
		"zeta":  "2",
		"alpha": "1",
	})
	// Sorted keys give deterministic messages.
	assert.Equal(t, "validation failed (alpha: 1) (zeta: 2)", err.Error())
}

func TestExitCode(t *testing.T) {
	t.Parallel()

	assert.Equal(t, ExitSuccess, ExitCode(nil))
	assert.Equal(t, ExitInput, ExitCode(ErrInvalidAmount))
	assert.Equal(t, ExitRejected, ExitCode(ErrUserRejected))
	assert.Equal(t, ExitNetwork, ExitCode(ErrGatewayUnavailable))
	assert.Equal(t, ExitReverted, ExitCode(ErrExecutionReverted))
	assert.Equal(t, ExitGeneral, ExitCode(stderrors.New("x")))
}

func TestIs_MatchesByCode(t *testing.T) {
	t.Parallel()

	clone := &WalletError{Code: "USER_REJECTED", Message: "different text"}
	assert.True(t, Is(clone, ErrUserRejected))
	assert.False(t, Is(ErrUserRejected, ErrRequestPending))
}
