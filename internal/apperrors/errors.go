// Package apperrors defines the failure reasons surfaced to callers of the
// quoting and transaction layer.
package apperrors

import (
	"errors"
	"fmt"
)

var (
	// ErrUserRejected means the signer declined to sign. It is a cancellation, not a failure.
	ErrUserRejected = errors.New("user rejected")
	// ErrInsufficientBalance means the input amount exceeds the caller's holdings.
	ErrInsufficientBalance = errors.New("insufficient balance")
	// ErrInsufficientLiquidity means the pool cannot satisfy the requested size.
	ErrInsufficientLiquidity = errors.New("insufficient liquidity")
	// ErrSlippageExceeded means reserves moved past the minimum bound. Re-quote and resubmit.
	ErrSlippageExceeded = errors.New("slippage exceeded")
	// ErrNetwork is an RPC timeout or transient transport failure.
	ErrNetwork = errors.New("network error")
	// ErrInvalidAmount is malformed or non-positive numeric input.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrDeadlineExpired means the contract rejected a call past its deadline.
	ErrDeadlineExpired = errors.New("deadline expired")
	// ErrReverted is a revert that matched no other reason.
	ErrReverted = errors.New("transaction reverted")
	// ErrConfirmationPending means no receipt arrived and the state check was inconclusive.
	ErrConfirmationPending = errors.New("confirmation pending")
	ErrClaimClosed         = errors.New("claim is not open")
	ErrAlreadyClaimed      = errors.New("badge already claimed")
)

// Error is a classified failure of one operation.
type Error struct {
	Op   string
	Kind error
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Err)
}

// Unwrap exposes both the kind and the underlying cause to errors.Is/As.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// New builds a classified error with an explicit kind.
func New(op string, kind error, cause error) error {
	return &Error{Op: op, Kind: kind, Err: cause}
}

// KindOf returns the classified kind of err, or nil when err is unclassified.
func KindOf(err error) error {
	var classified *Error
	if errors.As(err, &classified) {
		return classified.Kind
	}
	return nil
}

// IsCancellation reports whether err should be shown as a cancellation rather than a failure.
func IsCancellation(err error) bool {
	return errors.Is(err, ErrUserRejected) || errors.Is(err, ErrDeadlineExpired)
}
