package domain

import (
	"errors"
	"fmt"
)

// Error kinds. The HTTP layer maps each kind to a status code; concrete errors
// below wrap exactly one kind and carry the message shown to clients.
var (
	ErrValidation      = errors.New("validation failed")
	ErrBadCredentials  = errors.New("email or password is incorrect")
	ErrUnauthenticated = errors.New("invalid or missing token")
	ErrForbidden       = errors.New("you do not have access")
	ErrNotFound        = errors.New("resource not found")
	ErrConflict        = errors.New("resource conflict")
	ErrAlreadyApproved = errors.New("server request has already been approved")
	ErrInvalidState    = errors.New("server request is not in a valid state for this operation")
)

var (
	ErrUserNotFound    = newError(ErrNotFound, "user not found")
	ErrRequestNotFound = newError(ErrNotFound, "server request not found")
	ErrAccountNotFound = newError(ErrNotFound, "server account not found")

	ErrEmailTaken           = newError(ErrConflict, "email is already registered, use another email")
	ErrUsernameTaken        = newError(ErrConflict, "server account username is already taken")
	ErrAccountExists        = newError(ErrConflict, "server request already has an account")
	ErrConcurrentUpdate     = newError(ErrConflict, "server request was modified concurrently, retry the operation")
	ErrTransitionInProgress = newError(ErrConflict, "another operation on this server request is in progress")
	ErrExhaustedUsernames   = newError(ErrConflict, "no free server account username is left for this owner")

	ErrNotRequestOwner = newError(ErrForbidden, "you do not have permission to access this server request")
	ErrSelfDelete      = newError(ErrForbidden, "you cannot delete your own account")
	ErrSelfRoleChange  = newError(ErrForbidden, "you cannot change your own role")

	ErrNotPending  = newError(ErrInvalidState, "server request can only be edited while it is pending")
	ErrNotApproved = newError(ErrInvalidState, "only an approved server can be released")
	ErrNotReleased = newError(ErrInvalidState, "a server can only be terminated once it is released")
	ErrReleased    = newError(ErrInvalidState, "server has been released and awaits termination")

	ErrInvalidEmailDomain = newError(ErrValidation, "email domain is not allowed")
	ErrInvalidRole        = newError(ErrValidation, "role is not valid")
	ErrInvalidStatus      = newError(ErrValidation, "status filter is not valid")
	ErrEmptyPurpose       = newError(ErrValidation, "purpose is required")
	ErrWrongPassword      = newError(ErrValidation, "current password is incorrect")
)

// kindError is a client-facing error that belongs to one of the kinds above.
type kindError struct {
	kind error
	msg  string
}

func newError(kind error, msg string) error {
	return &kindError{kind: kind, msg: msg}
}

func (e *kindError) Error() string { return e.msg }

func (e *kindError) Unwrap() error { return e.kind }

// Validationf builds an ad-hoc validation error with a formatted message.
func Validationf(format string, args ...any) error {
	return newError(ErrValidation, fmt.Sprintf(format, args...))
}
