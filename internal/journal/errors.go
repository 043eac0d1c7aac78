package journal

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation is returned when a submit is attempted without both a mood and a note.
	ErrValidation = errors.New("journal: mood and note are required")
	// ErrNoSession is returned when the composer holds no user identity.
	ErrNoSession = errors.New("journal: no active session")
	// ErrBusy is returned when a submit is already in flight.
	ErrBusy = errors.New("journal: submit already in progress")
	// ErrUnknownMood is returned by ParseMood.
	ErrUnknownMood = errors.New("journal: unknown mood")
)

// AuthError wraps a failing identity provider call.
type AuthError struct {
	Op  string
	Err error
}

func (e *AuthError) Error() string {
	if e.Err == nil {
		return "journal: auth " + e.Op + " failed"
	}
	return fmt.Sprintf("journal: auth %s: %v", e.Op, e.Err)
}

func (e *AuthError) Unwrap() error { return e.Err }

// StoreError wraps a failing insert.
type StoreError struct {
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("journal: store insert: %v", e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }
