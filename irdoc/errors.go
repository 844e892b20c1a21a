package irdoc

import (
	"errors"
	"fmt"
)

var (
	// ErrUnresolvedRef is returned when a name or reference string does
	// not resolve to a declared node.
	ErrUnresolvedRef = errors.New("irdoc: unresolved reference")

	// ErrUnknownOpcode is returned for an instruction name that is not a
	// SPIR-V opcode.
	ErrUnknownOpcode = errors.New("irdoc: unknown opcode")

	// ErrInvalid is returned for a malformed declaration.
	ErrInvalid = errors.New("irdoc: invalid declaration")
)

// DeclError locates a failure within a document, e.g. "function main,
// block entry, op 2".
type DeclError struct {
	Where string
	Err   error
}

func (e *DeclError) Error() string {
	return fmt.Sprintf("%s: %v", e.Where, e.Err)
}

func (e *DeclError) Unwrap() error { return e.Err }

func declError(where string, err error) error {
	if err == nil {
		return nil
	}
	return &DeclError{Where: where, Err: err}
}

func unresolved(kind, name string) error {
	return fmt.Errorf("%w: %s %q", ErrUnresolvedRef, kind, name)
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}
