package errs

import (
	"errors"
	"fmt"
)

// Kind classifies a failure so callers can pick a degraded path without
// string-matching error messages.
type Kind string

const (
	KindConfig            Kind = "config"
	KindNetwork           Kind = "network"
	KindAuth              Kind = "auth"
	KindRateLimit         Kind = "rate_limit"
	KindValidation        Kind = "validation"
	KindServerRejection   Kind = "server_rejection"
	KindUnsupportedSymbol Kind = "unsupported_symbol"
	KindCanceled          Kind = "canceled"
	KindUnknown           Kind = "unknown"
)

// Error is a classified application error.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a classified error.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap creates a classified error around an underlying one.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf extracts the classification from err, or KindUnknown when err was
// never classified.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsKind reports whether err carries the given classification.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
