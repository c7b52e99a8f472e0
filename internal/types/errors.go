package types

import (
	"errors"
	"fmt"
)

// ErrorCode represents a specific error type
type ErrorCode string

const (
	// Card construction errors
	ErrInvalidRank     ErrorCode = "INVALID_RANK"
	ErrInvalidSuit     ErrorCode = "INVALID_SUIT"
	ErrMissingValue    ErrorCode = "MISSING_VALUE"
	ErrUnknownValue    ErrorCode = "UNKNOWN_VALUE"
	ErrInvalidRotation ErrorCode = "INVALID_ROTATION"

	// Signing errors
	ErrSignatureConflict ErrorCode = "SIGNATURE_CONFLICT"
	ErrAlreadySigned     ErrorCode = "ALREADY_SIGNED"

	// Deck errors
	ErrDeckEmpty       ErrorCode = "DECK_EMPTY"
	ErrIndexOutOfRange ErrorCode = "INDEX_OUT_OF_RANGE"
	ErrDeckNotFound    ErrorCode = "DECK_NOT_FOUND"

	// Action errors
	ErrInvalidCommand  ErrorCode = "INVALID_COMMAND"
	ErrInvalidArgument ErrorCode = "INVALID_ARGUMENT"

	// System errors
	ErrInternal ErrorCode = "INTERNAL_ERROR"
	ErrNetwork  ErrorCode = "NETWORK_ERROR"
	ErrDatabase ErrorCode = "DATABASE_ERROR"
)

// CardError represents a card or deck related error
type CardError struct {
	Code    ErrorCode
	Message string
	Err     error // Underlying error, if any
}

// Error implements the error interface
func (e *CardError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *CardError) Unwrap() error {
	return e.Err
}

// NewCardError creates a new CardError
func NewCardError(code ErrorCode, message string) *CardError {
	return &CardError{
		Code:    code,
		Message: message,
	}
}

// Errorf creates a new CardError with a formatted message
func Errorf(code ErrorCode, format string, args ...interface{}) *CardError {
	return NewCardError(code, fmt.Sprintf(format, args...))
}

// WrapError wraps an existing error in a CardError
func WrapError(code ErrorCode, message string, err error) *CardError {
	return &CardError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// IsCardError checks if an error is a CardError and has a specific code
func IsCardError(err error, code ErrorCode) bool {
	var cardErr *CardError
	if err == nil {
		return false
	}
	if ok := As(err, &cardErr); !ok {
		return false
	}
	return cardErr.Code == code
}

// CodeOf returns the code of the first CardError in err's chain, or "" if none
func CodeOf(err error) ErrorCode {
	var cardErr *CardError
	if !As(err, &cardErr) {
		return ""
	}
	return cardErr.Code
}

// As finds the first CardError in err's chain
func As(err error, target **CardError) bool {
	if target == nil || err == nil {
		return false
	}
	return errors.As(err, target)
}
