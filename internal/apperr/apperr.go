package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a failure so the transport layer can map it to a
// status code without string matching.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindAuth
	KindForbidden
	KindNotFound
	KindConflict
)

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(kind Kind, message string) error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func Validation(message string) error { return New(KindValidation, message) }
func Auth(message string) error       { return New(KindAuth, message) }
func Forbidden(message string) error  { return New(KindForbidden, message) }
func NotFound(message string) error   { return New(KindNotFound, message) }
func Conflict(message string) error   { return New(KindConflict, message) }

// KindOf reports the kind of err, or KindInternal for anything that is
// not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
