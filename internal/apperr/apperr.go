// Package apperr classifies failures so the HTTP layer can map them to a
// status code without inspecting messages.
package apperr

import (
	"errors"
	"net/http"
)

type Kind int

const (
	Internal Kind = iota
	Auth
	NotFound
	Validation
	Upstream
	Persistence
)

func (k Kind) String() string {
	switch k {
	case Auth:
		return "auth"
	case NotFound:
		return "not_found"
	case Validation:
		return "validation"
	case Upstream:
		return "upstream"
	case Persistence:
		return "persistence"
	default:
		return "internal"
	}
}

// Error carries a Kind, a message safe to show to callers, and an optional
// underlying cause that is only ever logged.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Msg
	}
	if e.Msg == "" {
		return e.Err.Error()
	}
	return e.Msg + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, msg string) error {
	return &Error{Kind: kind, Msg: msg}
}

func Wrap(kind Kind, err error, msg string) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// KindOf returns the Kind of the first *Error in err's chain, or Internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

// Public returns the message a client may see for err. Persistence and
// internal failures never expose their detail.
func Public(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return "internal error"
	}
	switch e.Kind {
	case Persistence, Internal:
		return "internal error"
	case Upstream:
		return "generation failed"
	}
	if e.Msg != "" {
		return e.Msg
	}
	return e.Kind.String()
}

func Status(kind Kind) int {
	switch kind {
	case Auth:
		return http.StatusUnauthorized
	case NotFound:
		return http.StatusNotFound
	case Validation:
		return http.StatusBadRequest
	case Upstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
