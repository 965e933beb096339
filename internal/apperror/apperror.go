// Package apperror defines the error kinds the expense and booking services
// surface to callers. These are business errors whose messages are safe to
// return to clients; they are never retried.
package apperror

import (
	"errors"
	"fmt"
)

// Kind classifies an application error.
type Kind int

const (
	// KindValidation marks malformed or inconsistent input.
	KindValidation Kind = iota
	// KindNotFound marks an unresolvable trip, expense, booking or user reference.
	KindNotFound
	// KindAuthorization marks an actor lacking rights for the operation.
	KindAuthorization
	// KindNoDebt marks a settlement request with nothing to settle.
	KindNoDebt
)

// Error is a typed application error.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Validationf creates a validation error.
func Validationf(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// NotFoundf creates a not-found error.
func NotFoundf(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// Authorizationf creates an authorization error.
func Authorizationf(format string, args ...any) *Error {
	return &Error{Kind: KindAuthorization, Message: fmt.Sprintf(format, args...)}
}

// NoDebtf creates a no-debt error.
func NoDebtf(format string, args ...any) *Error {
	return &Error{Kind: KindNoDebt, Message: fmt.Sprintf(format, args...)}
}

// IsKind reports whether err is an application error of the given kind.
func IsKind(err error, kind Kind) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Kind == kind
}
