// Package errors provides structured error handling for devwallet.
// It defines sentinel errors for the wallet/contract error taxonomy,
// exit codes, and helpers for adding context, details, and suggestions.
//
//nolint:revive // Package name intentionally shadows stdlib for domain-specific error handling
package errors

import (
	"errors"
	"fmt"
	"sort"
)

// Exit codes for the CLI surface.
const (
	ExitSuccess  = 0 // Successful execution
	ExitGeneral  = 1 // General/unknown error
	ExitInput    = 2 // Invalid input (validation failed before submission)
	ExitRejected = 3 // User rejected a wallet prompt
	ExitNetwork  = 4 // Network/gateway failure
	ExitReverted = 5 // Transaction reverted on chain
)

// WalletError is the structured error type for devwallet.
type WalletError struct {
	Code       string            // Machine-readable error code
	Message    string            // Human-readable message
	Details    map[string]string // Additional context
	Suggestion string            // Actionable suggestion for user
	Cause      error             // Underlying error
	ExitCode   int               // Exit code for CLI
}

func (e *WalletError) Error() string {
	msg := e.Message

	// Include details in error message (sorted for deterministic output)
	if len(e.Details) > 0 {
		keys := make([]string, 0, len(e.Details))
		for k := range e.Details {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			msg = fmt.Sprintf("%s (%s: %s)", msg, k, e.Details[k])
		}
	}

	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *WalletError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is for WalletError.
func (e *WalletError) Is(target error) bool {
	var t *WalletError
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// Sentinel errors.
var (
	ErrGeneral = &WalletError{
		Code:     "GENERAL_ERROR",
		Message:  "an error occurred",
		ExitCode: ExitGeneral,
	}

	// Gateway/wallet errors.
	ErrGatewayUnavailable = &WalletError{
		Code:     "GATEWAY_UNAVAILABLE",
		Message:  "no compatible wallet found",
		ExitCode: ExitNetwork,
	}

	ErrUserRejected = &WalletError{
		Code:     "USER_REJECTED",
		Message:  "request rejected by user",
		ExitCode: ExitRejected,
	}

	ErrRequestPending = &WalletError{
		Code:     "REQUEST_PENDING",
		Message:  "a wallet request is already pending",
		ExitCode: ExitRejected,
	}

	ErrNoAccounts = &WalletError{
		Code:     "NO_ACCOUNTS",
		Message:  "no accounts available in wallet",
		ExitCode: ExitRejected,
	}

	// Network guard errors.
	ErrUnknownNetwork = &WalletError{
		Code:     "UNKNOWN_NETWORK",
		Message:  "network is not registered with the wallet",
		ExitCode: ExitNetwork,
	}

	ErrNetworkSwitchFailed = &WalletError{
		Code:     "NETWORK_SWITCH_FAILED",
		Message:  "could not switch to the required network",
		ExitCode: ExitNetwork,
	}

	// Validation errors - reported before anything reaches the network.
	ErrValidation = &WalletError{
		Code:     "VALIDATION_ERROR",
		Message:  "validation failed",
		ExitCode: ExitInput,
	}

	ErrInvalidAddress = &WalletError{
		Code:     "INVALID_ADDRESS",
		Message:  "invalid address format",
		ExitCode: ExitInput,
	}

	ErrInvalidAmount = &WalletError{
		Code:     "INVALID_AMOUNT",
		Message:  "invalid amount format",
		ExitCode: ExitInput,
	}

	ErrAmountRequired = &WalletError{
		Code:     "AMOUNT_REQUIRED",
		Message:  "amount is required",
		ExitCode: ExitInput,
	}

	ErrInsufficientBalance = &WalletError{
		Code:     "INSUFFICIENT_BALANCE",
		Message:  "amount exceeds available balance",
		ExitCode: ExitInput,
	}

	ErrAllowanceExceeded = &WalletError{
		Code:     "ALLOWANCE_EXCEEDED",
		Message:  "amount exceeds approved allowance",
		ExitCode: ExitInput,
	}

	ErrNoAllowance = &WalletError{
		Code:     "NO_ALLOWANCE",
		Message:  "no allowance checked for this owner",
		ExitCode: ExitInput,
	}

	ErrCooldownActive = &WalletError{
		Code:     "COOLDOWN_ACTIVE",
		Message:  "faucet cooldown is still active",
		ExitCode: ExitInput,
	}

	// Transaction lifecycle errors.
	ErrExecutionReverted = &WalletError{
		Code:     "EXECUTION_REVERTED",
		Message:  "transaction reverted on chain",
		ExitCode: ExitReverted,
	}

	ErrTxInFlight = &WalletError{
		Code:     "TX_IN_FLIGHT",
		Message:  "a transaction is already in progress",
		ExitCode: ExitInput,
	}

	ErrSessionEnded = &WalletError{
		Code:     "SESSION_ENDED",
		Message:  "session ended before confirmation",
		ExitCode: ExitGeneral,
	}

	ErrNotConnected = &WalletError{
		Code:     "NOT_CONNECTED",
		Message:  "wallet is not connected",
		ExitCode: ExitInput,
	}

	// Read errors.
	ErrBalanceRead = &WalletError{
		Code:     "BALANCE_READ_ERROR",
		Message:  "failed to read balance",
		ExitCode: ExitNetwork,
	}

	ErrContractRead = &WalletError{
		Code:     "CONTRACT_READ_ERROR",
		Message:  "contract read failed",
		ExitCode: ExitNetwork,
	}

	// Config errors.
	ErrConfigNotFound = &WalletError{
		Code:     "CONFIG_NOT_FOUND",
		Message:  "configuration file not found",
		ExitCode: ExitGeneral,
	}

	ErrConfigInvalid = &WalletError{
		Code:     "CONFIG_INVALID",
		Message:  "configuration file is invalid",
		ExitCode: ExitInput,
	}

	ErrUnknownConfigKey = &WalletError{
		Code:     "UNKNOWN_CONFIG_KEY",
		Message:  "unknown config key",
		ExitCode: ExitInput,
	}
)

// New creates a new WalletError with the given code and message.
func New(code, message string) *WalletError {
	return &WalletError{
		Code:     code,
		Message:  message,
		ExitCode: ExitGeneral,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}

	msg := fmt.Sprintf(format, args...)

	var we *WalletError
	if errors.As(err, &we) {
		return &WalletError{
			Code:       we.Code,
			Message:    fmt.Sprintf("%s: %s", msg, we.Message),
			Details:    we.Details,
			Suggestion: we.Suggestion,
			Cause:      err,
			ExitCode:   we.ExitCode,
		}
	}

	return &WalletError{
		Code:     "GENERAL_ERROR",
		Message:  msg,
		Cause:    err,
		ExitCode: ExitGeneral,
	}
}

// WithDetails adds details to an error.
func WithDetails(err error, details map[string]string) error {
	if err == nil {
		return nil
	}

	var we *WalletError
	if errors.As(err, &we) {
		return &WalletError{
			Code:       we.Code,
			Message:    we.Message,
			Details:    details,
			Suggestion: we.Suggestion,
			Cause:      we.Cause,
			ExitCode:   we.ExitCode,
		}
	}

	return &WalletError{
		Code:     "GENERAL_ERROR",
		Message:  err.Error(),
		Details:  details,
		Cause:    err,
		ExitCode: ExitGeneral,
	}
}

// WithSuggestion adds a suggestion to an error.
func WithSuggestion(err error, suggestion string) error {
	if err == nil {
		return nil
	}

	var we *WalletError
	if errors.As(err, &we) {
		return &WalletError{
			Code:       we.Code,
			Message:    we.Message,
			Details:    we.Details,
			Suggestion: suggestion,
			Cause:      we.Cause,
			ExitCode:   we.ExitCode,
		}
	}

	return &WalletError{
		Code:       "GENERAL_ERROR",
		Message:    err.Error(),
		Suggestion: suggestion,
		Cause:      err,
		ExitCode:   ExitGeneral,
	}
}

// ExitCode returns the appropriate exit code for an error.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var we *WalletError
	if errors.As(err, &we) {
		return we.ExitCode
	}

	return ExitGeneral
}

// Code returns the error code for an error.
func Code(err error) string {
	var we *WalletError
	if errors.As(err, &we) {
		return we.Code
	}
	return "GENERAL_ERROR"
}

// Is wraps errors.Is for convenience.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As wraps errors.As for convenience.
func As(err error, target any) bool {
	return errors.As(err, target)
}
