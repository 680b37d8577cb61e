// Package apperr holds the error kinds the auth and task cores surface to
// the HTTP layer. Every error carries exactly one human readable message.
package apperr

import "errors"

type Kind string

const (
	KindValidation         Kind = "validation"
	KindDuplicateUser      Kind = "duplicate_user"
	KindInvalidCredentials Kind = "invalid_credentials"
	KindUnauthenticated    Kind = "unauthenticated"
	KindForbidden          Kind = "forbidden"
	KindNotFound           Kind = "not_found"
	KindLogoutFailure      Kind = "logout_failure"
	KindInternal           Kind = "internal"
)

type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

var (
	ErrDuplicateUser      = &Error{Kind: KindDuplicateUser, Message: "User already exists"}
	ErrInvalidCredentials = &Error{Kind: KindInvalidCredentials, Message: "Invalid credentials"}
	ErrUnauthenticated    = &Error{Kind: KindUnauthenticated, Message: "Not authenticated"}
	ErrForbidden          = &Error{Kind: KindForbidden, Message: "Invalid token"}
	ErrTaskNotFound       = &Error{Kind: KindNotFound, Message: "Task not found"}
	ErrLogoutFailure      = &Error{Kind: KindLogoutFailure, Message: "Failed to logout"}
)

// Validation builds a validation failure with the given message.
func Validation(msg string) error {
	return &Error{Kind: KindValidation, Message: msg}
}

// KindOf reports the kind of err, or KindInternal for anything that is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// MessageOf returns the client-safe message for err.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "Internal server error"
}
