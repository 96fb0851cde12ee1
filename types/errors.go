package types

import (
	"errors"
	"fmt"
)

// Error is the error returned by every builder, codec and parser operation. Code tells the
// four failure kinds apart.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
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

// Error codes
const (
	ErrValidation  = "VALIDATION_ERROR"
	ErrParse       = "PARSE_ERROR"
	ErrSigning     = "SIGNING_ERROR"
	ErrUnsupported = "UNSUPPORTED"
)

func NewValidationError(format string, args ...any) error {
	return &Error{Code: ErrValidation, Message: fmt.Sprintf(format, args...)}
}

func NewParseError(format string, args ...any) error {
	return &Error{Code: ErrParse, Message: fmt.Sprintf(format, args...)}
}

func NewSigningError(format string, args ...any) error {
	return &Error{Code: ErrSigning, Message: fmt.Sprintf(format, args...)}
}

func NewUnsupportedError(format string, args ...any) error {
	return &Error{Code: ErrUnsupported, Message: fmt.Sprintf(format, args...)}
}

// WrapError attaches a cause to a new error of the given code.
func WrapError(code string, err error, format string, args ...any) error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Err: err}
}

// ErrorCode returns the code of the first *Error in err's chain, or "" if there is none.
func ErrorCode(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

func IsValidationError(err error) bool  { return ErrorCode(err) == ErrValidation }
func IsParseError(err error) bool       { return ErrorCode(err) == ErrParse }
func IsSigningError(err error) bool     { return ErrorCode(err) == ErrSigning }
func IsUnsupportedError(err error) bool { return ErrorCode(err) == ErrUnsupported }
