package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
)

// AppError is the unified application error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates if the operation can be retried.
	Retryable bool `json:"retryable"`
	// HTTPStatus is the recommended HTTP status code for this error.
	HTTPStatus int `json:"-"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetails merges the provided details into the error and returns the receiver.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError with automatic retryable detection.
func New(code ErrorCode, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Retryable:  IsRetryableCode(code),
	}
}

// --- Constructors ---

// MalformedQuery creates an AppError for a request that cannot be parsed into a query.
func MalformedQuery(reason string) *AppError {
	return &AppError{
		Code: ErrCodeMalformedQuery, Message: fmt.Sprintf("Malformed query: %s", reason),
		HTTPStatus: http.StatusBadRequest, Retryable: false,
	}
}

// UnsupportedEngine creates an AppError for an unknown engine name.
func UnsupportedEngine(name string, known []string) *AppError {
	return &AppError{
		Code: ErrCodeUnsupportedEngine,
		Message: fmt.Sprintf("Unsupported regex engine %q. Available: %s", name, strings.Join(known, ", ")),
		HTTPStatus: http.StatusBadRequest, Retryable: false,
		Details: map[string]any{"engine": name, "available": known},
	}
}

// InvalidInput creates a new AppError for invalid input.
func InvalidInput(field, reason string) *AppError {
	details := make(map[string]any)
	if field != "" {
		details["field"] = field
	}
	return &AppError{
		Code: ErrCodeInvalidInput, Message: fmt.Sprintf("Invalid input: %s", reason),
		HTTPStatus: http.StatusBadRequest, Retryable: false, Details: details,
	}
}

// Timeout creates a new AppError for an operation that ran past its deadline.
func Timeout(operation string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeTimeout, Message: fmt.Sprintf("The %s did not finish before its deadline.", operation),
		HTTPStatus: http.StatusGatewayTimeout, Retryable: true,
		Details: map[string]any{"operation": operation}, Cause: cause,
	}
}

// Busy creates a new AppError for work rejected by a concurrency limit.
func Busy(resource string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeBusy, Message: fmt.Sprintf("Too many concurrent %s; retry later.", resource),
		HTTPStatus: http.StatusServiceUnavailable, Retryable: true, Cause: cause,
	}
}

// Internal creates a new AppError for an internal error.
func Internal(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Message: "An unexpected error occurred.",
		HTTPStatus: http.StatusInternalServerError, Retryable: false, Cause: cause,
	}
}

// --- Inspection ---

// CodeOf returns the code of the first AppError in err's chain, or "" if none.
func CodeOf(err error) ErrorCode {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// Wrap converts err into an AppError. AppErrors anywhere in the chain are
// returned as-is; anything else becomes an internal error.
func Wrap(err error) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}
	return Internal(err)
}
