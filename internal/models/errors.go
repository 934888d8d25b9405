package models

import (
	"errors"
	"fmt"
)

// ErrorKind separates the failures that abort a single record.
type ErrorKind int

const (
	KindDataStore ErrorKind = iota + 1
	KindInvariant
)

var (
	// ErrDataStore matches any MatchError raised by a failed Data Store lookup.
	ErrDataStore = errors.New("data store error")
	// ErrInvariantViolation matches any MatchError raised for a malformed row or Query.
	ErrInvariantViolation = errors.New("invariant violation")
)

// MatchError is the only error a resolver returns. A resolver that simply
// finds nothing returns its input Query and a nil error.
type MatchError struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *MatchError) Error() string {
	return fmt.Sprintf("resolver: %s: %v: %v", e.Op, e.sentinel(), e.Err)
}

func (e *MatchError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match the kind sentinels.
func (e *MatchError) Is(target error) bool {
	return target == e.sentinel()
}

func (e *MatchError) sentinel() error {
	if e.Kind == KindInvariant {
		return ErrInvariantViolation
	}
	return ErrDataStore
}

// DataStoreError wraps a lookup failure.
func DataStoreError(op string, err error) error {
	return &MatchError{Kind: KindDataStore, Op: op, Err: err}
}

// InvariantError reports a self-contradictory row or Query.
func InvariantError(op, format string, args ...any) error {
	return &MatchError{Kind: KindInvariant, Op: op, Err: fmt.Errorf(format, args...)}
}
