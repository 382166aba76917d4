// Package errors defines the coded errors shared by the editor, the stores,
// the CLI and the HTTP API.
//
// Every failure that reaches a user carries a [Code]. Codes group into a
// [Class], which the HTTP API maps to a status and the CLI to an exit code:
//
//	err := errors.New(errors.ErrCodeInvalidKind, "unknown kind %q", k)
//	errors.Is(err, errors.ErrCodeInvalidKind)        // true
//	errors.GetCode(err).Class() == errors.ClassInput // true
//
// Causes are kept with [Wrap] and stay reachable through the standard
// library's errors.Is and errors.As.
package errors

import (
	"errors"
	"fmt"
)

// Code is a machine-readable error code.
type Code string

const (
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidKind   Code = "INVALID_KIND"
	ErrCodeInvalidHandle Code = "INVALID_HANDLE"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidID     Code = "INVALID_ID"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"

	ErrCodeNotFound          Code = "NOT_FOUND"
	ErrCodeStorylineNotFound Code = "STORYLINE_NOT_FOUND"
	ErrCodeEventNotFound     Code = "EVENT_NOT_FOUND"
	ErrCodeCatalogNotFound   Code = "CATALOG_ENTRY_NOT_FOUND"
	ErrCodeFileNotFound      Code = "FILE_NOT_FOUND"

	// ErrCodeValidationFailed means a save was refused because the storyline
	// has blocking issues.
	ErrCodeValidationFailed     Code = "VALIDATION_FAILED"
	ErrCodeConfirmationRequired Code = "CONFIRMATION_REQUIRED"
	ErrCodeRejected             Code = "REJECTED"

	ErrCodeStore   Code = "STORE_ERROR"
	ErrCodeTimeout Code = "TIMEOUT"

	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Class groups codes by how a caller should react.
type Class int

const (
	ClassInternal Class = iota
	ClassInput
	ClassNotFound
	// ClassConflict asks the caller to repeat the request with consent.
	ClassConflict
	// ClassRejected means the request was understood but the storyline does
	// not allow it.
	ClassRejected
	ClassUnavailable
	ClassUnsupported
)

var classes = map[Code]Class{
	ErrCodeInvalidInput:         ClassInput,
	ErrCodeInvalidKind:          ClassInput,
	ErrCodeInvalidHandle:        ClassInput,
	ErrCodeInvalidFormat:        ClassInput,
	ErrCodeInvalidID:            ClassInput,
	ErrCodeInvalidConfig:        ClassInput,
	ErrCodeNotFound:             ClassNotFound,
	ErrCodeStorylineNotFound:    ClassNotFound,
	ErrCodeEventNotFound:        ClassNotFound,
	ErrCodeCatalogNotFound:      ClassNotFound,
	ErrCodeFileNotFound:         ClassNotFound,
	ErrCodeConfirmationRequired: ClassConflict,
	ErrCodeValidationFailed:     ClassRejected,
	ErrCodeRejected:             ClassRejected,
	ErrCodeStore:                ClassUnavailable,
	ErrCodeTimeout:              ClassUnavailable,
	ErrCodeUnsupported:          ClassUnsupported,
}

// Class returns the class of c. Unknown codes are internal.
func (c Code) Class() Class { return classes[c] }

// Error is a coded error with an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

// Error formats as "CODE: message" or "CODE: message: cause".
func (e *Error) Error() string {
	if e.Cause == nil {
		return string(e.Code) + ": " + e.Message
	}
	return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns an error with code and a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap returns an error with code that keeps cause in the chain.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Is reports whether the outermost coded error in err's chain has code.
func Is(err error, code Code) bool {
	return err != nil && GetCode(err) == code
}

// GetCode returns the code of the outermost coded error in err's chain, or ""
// when there is none.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns err's text without codes: the message of the outermost
// coded error followed by the messages of its causes.
func UserMessage(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return err.Error()
	}
	if e.Cause == nil {
		return e.Message
	}
	return e.Message + ": " + UserMessage(e.Cause)
}
