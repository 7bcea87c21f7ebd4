package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Request errors
const (
	// ErrCodeMalformedQuery indicates the request document does not fit the query shape.
	ErrCodeMalformedQuery ErrorCode = "MALFORMED_QUERY"
	// ErrCodeUnsupportedEngine indicates an unknown regex engine was requested.
	ErrCodeUnsupportedEngine ErrorCode = "UNSUPPORTED_ENGINE"
	// ErrCodeInvalidInput indicates the input is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
)

// Execution errors
const (
	// ErrCodeTimeout indicates a match deadline or caller deadline was exceeded.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
	// ErrCodeBusy indicates every evaluation slot is taken.
	ErrCodeBusy ErrorCode = "BUSY"
	// ErrCodeInternal indicates an unexpected failure.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeTimeout:  true,
	ErrCodeBusy:     true,
	ErrCodeInternal: false,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
