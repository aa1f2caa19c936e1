// Package apperr classifies domain failures so transport layers can map them
// without knowing every sentinel of every package.
package apperr

import "errors"

type Kind string

const (
	KindValidation Kind = "validation"
	KindConflict   Kind = "conflict"
	KindNotFound   Kind = "not_found"
	KindForbidden  Kind = "forbidden"
	KindInvariant  Kind = "invariant"
)

type Error struct {
	Kind    Kind
	Code    string
	Message string
	// State is the current status of the entity when a precondition failed.
	State string
}

func (e *Error) Error() string {
	if e.State != "" {
		return e.Message + " (current state: " + e.State + ")"
	}
	return e.Message
}

// Is matches on kind and, when the target has one, on code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	return t.Code == "" || t.Code == e.Code
}

// WithState returns a copy of e carrying the entity's current state.
func (e *Error) WithState(state string) *Error {
	out := *e
	out.State = state
	return &out
}

// WithMessage returns a copy of e with a more specific message.
func (e *Error) WithMessage(message string) *Error {
	out := *e
	out.Message = message
	return &out
}

var (
	ErrValidation = &Error{Kind: KindValidation}
	ErrConflict   = &Error{Kind: KindConflict}
	ErrNotFound   = &Error{Kind: KindNotFound}
	ErrForbidden  = &Error{Kind: KindForbidden}
	ErrInvariant  = &Error{Kind: KindInvariant}
)

func Validation(code, message string) *Error {
	return &Error{Kind: KindValidation, Code: code, Message: message}
}

func Conflict(code, message string) *Error {
	return &Error{Kind: KindConflict, Code: code, Message: message}
}

func NotFound(code, message string) *Error {
	return &Error{Kind: KindNotFound, Code: code, Message: message}
}

func Forbidden(code, message string) *Error {
	return &Error{Kind: KindForbidden, Code: code, Message: message}
}

func Invariant(code, message string) *Error {
	return &Error{Kind: KindInvariant, Code: code, Message: message}
}

// KindOf returns the kind of the first *Error in err's chain, or "" for
// unclassified errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// As unwraps the first *Error in err's chain.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
