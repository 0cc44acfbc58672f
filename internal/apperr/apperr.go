package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind string

const (
	KindUnauthenticated  Kind = "UNAUTHENTICATED"
	KindValidation       Kind = "VALIDATION_ERROR"
	KindNotFound         Kind = "NOT_FOUND"
	KindNoCounterpartYet Kind = "NO_COUNTERPART_YET"
	KindStorage          Kind = "STORAGE_ERROR"
	KindInternal         Kind = "INTERNAL_ERROR"
)

// Error carries a Kind that decides the HTTP status and a Reason that is safe
// to show to the caller. Err is the underlying cause, never exposed.
type Error struct {
	Kind   Kind
	Reason string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Kind, e.Reason)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Reason, e.Err)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func New(kind Kind, reason string, err error) *Error {
	return &Error{Kind: kind, Reason: reason, Err: err}
}

func Unauthenticated(reason string) *Error {
	return New(KindUnauthenticated, reason, nil)
}

func Validation(reason string) *Error {
	return New(KindValidation, reason, nil)
}

func NotFound(reason string) *Error {
	return New(KindNotFound, reason, nil)
}

func NoCounterpartYet(reason string) *Error {
	return New(KindNoCounterpartYet, reason, nil)
}

func Storage(reason string, err error) *Error {
	return New(KindStorage, reason, err)
}

// KindOf returns the Kind of the first *Error in err's chain, or
// KindInternal for anything else. A nil error has no kind.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}

// ReasonOf returns the caller-facing reason, or fallback when err carries none.
func ReasonOf(err error, fallback string) string {
	var e *Error
	if errors.As(err, &e) && e.Reason != "" {
		return e.Reason
	}
	return fallback
}

func HTTPStatus(kind Kind) int {
	switch kind {
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindValidation, KindNoCounterpartYet:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
