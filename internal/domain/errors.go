package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies the terminal outcome of a submission flow.
// Exactly one kind is assigned per failure, decided once - callers must not
// re-derive the classification from message text.
type ErrorKind string

const (
	// KindValidation covers malformed or non-positive amounts, excess
	// precision, unknown artworks and missing wallet identities.
	// Never retried; user-correctable.
	KindValidation ErrorKind = "VALIDATION"

	// KindInsufficientFunds means the local balance check failed before
	// submission. Never retried.
	KindInsufficientFunds ErrorKind = "INSUFFICIENT_FUNDS"

	// KindSigning means the user declined or the signing bridge lost its
	// session. Never retried; the user must reconnect.
	KindSigning ErrorKind = "SIGNING"

	// KindNetwork means the retry budget was exhausted on transient
	// failures (timeouts, 5xx, malformed responses).
	KindNetwork ErrorKind = "NETWORK"

	// KindLedgerRejected means a permanent ledger-side rejection
	// (bad sequence, underfunded at settlement, malformed operation).
	KindLedgerRejected ErrorKind = "LEDGER_REJECTED"

	// KindUnknown is the catch-all for unclassified failures. Always
	// logged with full context, never silently swallowed.
	KindUnknown ErrorKind = "UNKNOWN"
)

// FlowError is the error surfaced by the submission orchestrator.
// ResultCode carries the ledger's transaction result code for
// KindLedgerRejected failures and is empty otherwise.
type FlowError struct {
	Kind       ErrorKind
	Message    string
	ResultCode string
	Cause      error
}

// Error implements the error interface.
func (e *FlowError) Error() string {
	if e.ResultCode != "" {
		return fmt.Sprintf("%s: %s (result code %s)", e.Kind, e.Message, e.ResultCode)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes the underlying cause for errors.Is / errors.As chains.
func (e *FlowError) Unwrap() error {
	return e.Cause
}

// NewValidationError creates a terminal validation failure.
func NewValidationError(format string, args ...interface{}) *FlowError {
	return &FlowError{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// NewInsufficientFundsError creates a terminal insufficient-funds failure.
func NewInsufficientFundsError(format string, args ...interface{}) *FlowError {
	return &FlowError{Kind: KindInsufficientFunds, Message: fmt.Sprintf(format, args...)}
}

// NewSigningError creates a terminal signing failure.
func NewSigningError(cause error) *FlowError {
	return &FlowError{Kind: KindSigning, Message: "transaction signing failed", Cause: cause}
}

// NewNetworkError creates a terminal network failure carrying the last
// underlying cause after the retry budget is exhausted.
func NewNetworkError(cause error) *FlowError {
	return &FlowError{Kind: KindNetwork, Message: "retry budget exhausted", Cause: cause}
}

// NewLedgerRejectedError creates a terminal ledger rejection carrying the
// ledger's result code.
func NewLedgerRejectedError(resultCode string, cause error) *FlowError {
	return &FlowError{
		Kind:       KindLedgerRejected,
		Message:    "transaction rejected by the ledger",
		ResultCode: resultCode,
		Cause:      cause,
	}
}

// NewUnknownError wraps an unclassified failure.
func NewUnknownError(cause error) *FlowError {
	return &FlowError{Kind: KindUnknown, Message: "unclassified failure", Cause: cause}
}

// KindOf returns the FlowError kind of err, or KindUnknown when err is not a
// FlowError.
func KindOf(err error) ErrorKind {
	var fe *FlowError
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindUnknown
}
