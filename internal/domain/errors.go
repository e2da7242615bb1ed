package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies adaptor failures.
type ErrorKind string

const (
	// KindStore is any failure originating from the backing store.
	KindStore ErrorKind = "store"
	// KindTransaction is a failure of the retention sweep transaction.
	KindTransaction ErrorKind = "transaction"
)

// Kind sentinels, usable with errors.Is.
var (
	ErrStore       = &Error{Kind: KindStore}
	ErrTransaction = &Error{Kind: KindTransaction}
)

// Sentinel errors raised by the store or the services on top of it.
var (
	ErrEventExists     = errors.New("event already exists")
	ErrEventNotFound   = errors.New("event not found")
	ErrPersonNotFound  = errors.New("person not found")
	ErrPersonExists    = errors.New("person already exists")
	ErrInvalidPassword = errors.New("invalid password")
	ErrInvalidInput    = errors.New("invalid input")
)

// Error is the error type returned by every Adaptor operation.
type Error struct {
	Kind ErrorKind
	Op   string
	Err  error
	// Retryable is set when the store aborted the transaction because of a
	// deadlock or serialization conflict.
	Retryable bool
}

// NewStoreError wraps err as a store failure of op.
func NewStoreError(op string, err error) *Error {
	return &Error{Kind: KindStore, Op: op, Err: err}
}

// NewTransactionError wraps err as a transaction failure of op.
func NewTransactionError(op string, err error, retryable bool) *Error {
	return &Error{Kind: KindTransaction, Op: op, Err: err, Retryable: retryable}
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s error: %s", e.Kind, e.Op)
	}
	if e.Op == "" {
		return fmt.Sprintf("%s error: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s error: %s: %v", e.Kind, e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, so errors.Is(err, ErrStore) works.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Kind == t.Kind
}

// IsRetryable reports whether err is a transaction failure the caller may retry.
func IsRetryable(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == KindTransaction && e.Retryable
	}
	return false
}
