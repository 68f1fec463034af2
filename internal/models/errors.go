package models

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict")
	ErrInvalidInvitation = errors.New("invalid invitation")
	ErrExpired           = errors.New("invitation expired")
	ErrAlreadyStarted    = errors.New("session already started")
	ErrAlreadyCompleted  = errors.New("session already completed")
	ErrDuplicateAnswer   = errors.New("question already answered")
	ErrInvalidAnswerList = errors.New("invalid answer list")
	ErrValidation        = errors.New("validation failed")
	ErrForbidden         = errors.New("forbidden")
)

// OpError adds the failing operation and a human readable message to one of
// the sentinel kinds above.
type OpError struct {
	Op   string
	Kind error
	Msg  string
}

func (e *OpError) Error() string {
	if e.Msg == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %s", e.Op, e.Kind, e.Msg)
}

func (e *OpError) Unwrap() error { return e.Kind }

func NewOpError(op string, kind error, format string, args ...any) error {
	return &OpError{Op: op, Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Message returns the message meant for API clients, falling back to the
// kind's text.
func Message(err error) string {
	var opErr *OpError
	if errors.As(err, &opErr) {
		if opErr.Msg != "" {
			return opErr.Msg
		}
		return opErr.Kind.Error()
	}
	return err.Error()
}

func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }
