package extraction

import "fmt"

// ErrorCode identifies a recoverable extraction failure.
type ErrorCode string

const (
	ErrNotNumeric       ErrorCode = "NOT_NUMERIC"
	ErrNoLineItemsFound ErrorCode = "NO_LINE_ITEMS_FOUND"
	ErrNoTotalFound     ErrorCode = "NO_TOTAL_FOUND"
	ErrInvalidDocument  ErrorCode = "INVALID_DOCUMENT"
)

// Error is a structured extraction error. Every failure in this package is
// recoverable: callers drop the offending field, row or document and carry on.
type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func newError(code ErrorCode, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}
