package models

import (
	"errors"
	"fmt"
)

// Kind classifies every failure the core can surface. The gateway maps raw
// provider errors into these kinds; nothing above it inspects provider errors
// directly.
type Kind string

const (
	KindNoProvider        Kind = "no_provider"
	KindUserRejected      Kind = "user_rejected"
	KindAlreadyPending    Kind = "already_pending"
	KindInvalidArgument   Kind = "invalid_argument"
	KindAlreadyLiked      Kind = "already_liked"
	KindInsufficientFunds Kind = "insufficient_funds"
	KindReverted          Kind = "reverted"
	KindTimeout           Kind = "timeout"
	KindTransportError    Kind = "transport_error"
	KindChainMismatch     Kind = "chain_mismatch"
)

// Error is a classified core error. Reason carries the revert reason or a
// human-readable detail; Err is the underlying cause, if any.
type Error struct {
	Kind   Kind
	Reason string
	Err    error
}

func (e *Error) Error() string {
	switch {
	case e.Reason != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Reason, e.Err)
	case e.Reason != "":
		return fmt.Sprintf("%s: %s", e.Kind, e.Reason)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// NewError creates a classified error with a human-readable reason.
func NewError(kind Kind, reason string) *Error {
	return &Error{Kind: kind, Reason: reason}
}

// WrapError classifies an underlying error.
func WrapError(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

// KindOf returns the classification of err, or the empty kind when err was
// never classified by the gateway or adapter.
func KindOf(err error) Kind {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return ""
}

// IsKind reports whether err carries the given classification.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
