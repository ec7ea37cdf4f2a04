// Package apperror defines the error kinds shared by all modules and
// their mapping onto HTTP responses.
package apperror

import (
	"errors"
	"net/http"
)

// Kind classifies an error for callers and transport layers.
type Kind int

const (
	// Internal is any failure the caller cannot act on.
	Internal Kind = iota
	// NotFound means a referenced entity does not exist.
	NotFound
	// Forbidden means the caller lacks permission.
	Forbidden
	// Conflict means the operation would violate a uniqueness rule.
	Conflict
	// InvalidArgument means the input is malformed.
	InvalidArgument
	// InvalidState means the entity is in a state that does not allow the operation.
	InvalidState
	// Unauthenticated means the caller identity could not be established.
	Unauthenticated
)

var kindNames = map[Kind]string{
	Internal:        "INTERNAL",
	NotFound:        "NOT_FOUND",
	Forbidden:       "FORBIDDEN",
	Conflict:        "CONFLICT",
	InvalidArgument: "INVALID_ARGUMENT",
	InvalidState:    "INVALID_STATE",
	Unauthenticated: "UNAUTHENTICATED",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return kindNames[Internal]
}

// HTTPStatus maps the kind to a response status code.
func (k Kind) HTTPStatus() int {
	switch k {
	case NotFound:
		return http.StatusNotFound
	case Forbidden:
		return http.StatusForbidden
	case Conflict, InvalidState:
		return http.StatusConflict
	case InvalidArgument:
		return http.StatusBadRequest
	case Unauthenticated:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// Error is a classified error with a client-facing message.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

// New returns a classified error. Package-level sentinels are built with New
// and matched with errors.Is.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap classifies err, keeping it reachable through errors.Unwrap.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of the first *Error in err's chain, or Internal.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return Internal
}

// MessageOf returns the client-facing message for err. Unclassified and
// internal errors get a generic message.
func MessageOf(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) && appErr.Kind != Internal {
		return appErr.Message
	}
	return "internal server error"
}

// Is reports whether err is classified as kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
