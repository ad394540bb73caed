// Package apperr defines the domain-rule failures services report to users.
package apperr

import "errors"

type Code string

const (
	CodeAssetUnavailable  Code = "ASSET_UNAVAILABLE"
	CodeInsufficientStock Code = "INSUFFICIENT_STOCK"
	CodeInvalidTransition Code = "INVALID_TRANSITION"
	CodeAssetInUse        Code = "ASSET_IN_USE"
	CodeSerialExhausted   Code = "SERIAL_EXHAUSTED"
	CodeUserNotPending    Code = "USER_NOT_PENDING"
)

// Error is a rule violation whose Message is safe to show to the user.
type Error struct {
	Code    Code
	Message string
}

func (e *Error) Error() string { return e.Message }

// Is matches any *Error with the same code, so callers can compare against
// the package sentinels even when messages differ.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

func New(code Code, msg string) *Error {
	return &Error{Code: code, Message: msg}
}

var (
	ErrAssetUnavailable  = New(CodeAssetUnavailable, "Asset is not available for borrowing.")
	ErrInsufficientStock = New(CodeInsufficientStock, "Not enough stock for the requested quantity.")
	ErrInvalidTransition = New(CodeInvalidTransition, "Borrow request is not in a state that allows this action.")
	ErrAssetInUse        = New(CodeAssetInUse, "Asset has active borrow requests and cannot be deleted.")
	ErrSerialExhausted   = New(CodeSerialExhausted, "Could not allocate a unique serial number, please retry.")
	ErrUserNotPending    = New(CodeUserNotPending, "User is already active.")
)

// As unwraps the domain error carried by err, if any.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// CodeOf returns the domain code carried by err, or "".
func CodeOf(err error) Code {
	if e, ok := As(err); ok {
		return e.Code
	}
	return ""
}
