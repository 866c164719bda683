// Package errors provides structured error handling for Aurum.
// It defines sentinel errors, exit codes, and helpers for adding
// context, details, and suggestions to errors.
//
//nolint:revive // Package name intentionally shadows stdlib for domain-specific error handling
package errors

import (
	"errors"
	"fmt"
	"sort"
)

// Exit codes returned by the CLI.
const (
	ExitSuccess     = 0 // Successful execution
	ExitGeneral     = 1 // General/unknown error
	ExitInput       = 2 // Invalid input
	ExitAuth        = 3 // Authentication failed
	ExitNotFound    = 4 // Resource not found
	ExitStorage     = 5 // Storage layer failure
	ExitUnavailable = 6 // Platform capability unavailable
)

// WalletError is the structured error type for Aurum.
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

	ErrInvalidInput = &WalletError{
		Code:     "INVALID_INPUT",
		Message:  "invalid input",
		ExitCode: ExitInput,
	}

	// ErrAuthentication covers wrong passwords, AEAD tag mismatches and
	// denied biometric assertions. The causes are deliberately not
	// distinguishable through the error code.
	ErrAuthentication = &WalletError{
		Code:     "AUTHENTICATION_FAILED",
		Message:  "invalid credentials",
		ExitCode: ExitAuth,
	}

	ErrNotFound = &WalletError{
		Code:     "NOT_FOUND",
		Message:  "resource not found",
		ExitCode: ExitNotFound,
	}

	// ErrStorage indicates the platform storage layer failed. Distinct from
	// ErrNotFound so callers can tell "no wallet yet" from "storage broken".
	ErrStorage = &WalletError{
		Code:     "STORAGE_FAILED",
		Message:  "storage operation failed",
		ExitCode: ExitStorage,
	}

	// ErrUnavailable indicates a platform capability (biometric hardware,
	// credential store) is absent. Callers should probe and hide the
	// feature rather than surface this to the user.
	ErrUnavailable = &WalletError{
		Code:     "CAPABILITY_UNAVAILABLE",
		Message:  "platform capability unavailable",
		ExitCode: ExitUnavailable,
	}

	// ErrExternal indicates a best-effort call to an external service
	// failed. Never blocks a wallet state transition.
	ErrExternal = &WalletError{
		Code:     "EXTERNAL_SERVICE_FAILED",
		Message:  "external service call failed",
		ExitCode: ExitGeneral,
	}

	// Wallet-specific errors.
	ErrWalletNotFound = &WalletError{
		Code:     "WALLET_NOT_FOUND",
		Message:  "no wallet exists",
		ExitCode: ExitNotFound,
	}

	ErrWalletExists = &WalletError{
		Code:     "WALLET_EXISTS",
		Message:  "a wallet already exists",
		ExitCode: ExitInput,
	}

	ErrInvalidMnemonic = &WalletError{
		Code:     "INVALID_MNEMONIC",
		Message:  "invalid recovery phrase",
		ExitCode: ExitInput,
	}

	ErrWalletLocked = &WalletError{
		Code:     "WALLET_LOCKED",
		Message:  "wallet is locked",
		ExitCode: ExitAuth,
	}

	// Backup-specific errors.
	ErrBackupNotFound = &WalletError{
		Code:     "BACKUP_NOT_FOUND",
		Message:  "backup file not found",
		ExitCode: ExitNotFound,
	}

	ErrBackupCorrupted = &WalletError{
		Code:     "BACKUP_CORRUPTED",
		Message:  "backup file is corrupted or the passphrase is wrong",
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

// ExitCode extracts the exit code from an error.
// Returns ExitSuccess for nil and ExitGeneral for unstructured errors.
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
