package horizon

import (
	"errors"
	"fmt"
	"strings"
)

// Class tags a transport failure as retryable or not. The classification is
// decided once, here at the boundary - callers switch on the tag instead of
// inspecting message text.
type Class int

const (
	// ClassTransient marks gateway timeouts, 5xx responses, connection
	// errors and malformed response bodies. Worth retrying on another
	// endpoint.
	ClassTransient Class = iota + 1

	// ClassPermanent marks ledger-reported rejections (bad sequence,
	// underfunded, malformed operation). Retrying cannot help.
	ClassPermanent
)

// Error is the structured failure returned by the horizon client.
type Error struct {
	Class          Class
	Status         int
	ResultCode     string
	OperationCodes []string
	Err            error
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	if e.Class == ClassPermanent {
		b.WriteString("horizon rejected transaction")
	} else {
		b.WriteString("horizon request failed")
	}
	if e.Status != 0 {
		fmt.Fprintf(&b, " (status %d)", e.Status)
	}
	if e.ResultCode != "" {
		fmt.Fprintf(&b, ": %s", e.ResultCode)
	}
	if len(e.OperationCodes) > 0 {
		fmt.Fprintf(&b, " [%s]", strings.Join(e.OperationCodes, ", "))
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

// Unwrap exposes the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// IsTransient reports whether err is a classified transient horizon failure.
func IsTransient(err error) bool {
	var he *Error
	return errors.As(err, &he) && he.Class == ClassTransient
}

// IsPermanent reports whether err is a classified permanent ledger
// rejection.
func IsPermanent(err error) bool {
	var he *Error
	return errors.As(err, &he) && he.Class == ClassPermanent
}

// ResultCodeOf returns the ledger result code attached to err, or "".
func ResultCodeOf(err error) string {
	var he *Error
	if errors.As(err, &he) {
		return he.ResultCode
	}
	return ""
}

func transientErr(cause error) *Error {
	return &Error{Class: ClassTransient, Err: cause}
}

func transientStatus(status int, cause error) *Error {
	return &Error{Class: ClassTransient, Status: status, Err: cause}
}
