package heap

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode represents a category of error for metrics and logging.
type ErrorCode string

// Error codes for categorization.
const (
	ErrCodeConfig     ErrorCode = "CONFIG"     // Configuration errors
	ErrCodeValidation ErrorCode = "VALIDATION" // Argument validation errors
	ErrCodeAPI        ErrorCode = "API"        // API response errors
)

// HeapError is the common interface for errors produced by this package.
// Transport and network errors are returned unchanged and do not implement it.
//
// Example:
//
//	var heapErr heap.HeapError
//	if errors.As(err, &heapErr) {
//	    log.Printf("heap error %s: %v", heapErr.Code(), heapErr)
//	}
type HeapError interface {
	error

	// Code returns a machine-readable error code for categorization.
	Code() ErrorCode
}

// Sentinel causes wrapped by ValidationError.
var (
	ErrTooLong         = errors.New("heap: value too long")
	ErrUnsupportedType = errors.New("heap: unsupported type")
	ErrNotIterable     = errors.New("heap: properties object is not iterable")
	ErrInvalidFormat   = errors.New("heap: invalid format")
	ErrMissingValue    = errors.New("heap: missing value")
	ErrDuplicateKey    = errors.New("heap: duplicate property name")
)

// ErrNoResponse is returned when a Transport reports neither a response nor
// an error.
var ErrNoResponse = errors.New("heap: transport returned no response")

// Configuration errors.
var (
	ErrNilConfig            = errors.New("heap: config cannot be nil")
	ErrMissingAppID         = &ConfigError{Field: "app_id", Message: "not set"}
	ErrTransportInitialized = &ConfigError{Field: "transport", Message: "connection already initialized"}
	ErrNoDefaultClient      = &ConfigError{Field: "default_client", Message: "not set; call heap.SetDefault first"}
	ErrMissingBaseURL       = &ConfigError{Field: "base_url", Message: "is required"}
)

// Sentinel APIError values for use with errors.Is().
// These match on status code only.
var (
	ErrBadRequest   = &APIError{statusCode: http.StatusBadRequest}
	ErrUnauthorized = &APIError{statusCode: http.StatusUnauthorized}
	ErrNotFound     = &APIError{statusCode: http.StatusNotFound}
	ErrRateLimited  = &APIError{statusCode: http.StatusTooManyRequests}
)

// ConfigError reports a client that is not configured well enough to send.
type ConfigError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("heap: %s %s", e.Field, e.Message)
}

// Code implements HeapError.
func (e *ConfigError) Code() ErrorCode {
	return ErrCodeConfig
}

var _ HeapError = (*ConfigError)(nil)

// ValidationError reports caller-supplied data that violates the API limits.
// It is always returned before any request is sent.
type ValidationError struct {
	Field   string
	Message string
	Err     error // Underlying cause, one of the Err* sentinels
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("heap: validation error for field %q: %s", e.Field, e.Message)
}

// Unwrap returns the underlying error for error chain support.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Code implements HeapError.
func (e *ValidationError) Code() ErrorCode {
	return ErrCodeValidation
}

var _ HeapError = (*ValidationError)(nil)

// NewValidationError creates a new validation error.
func NewValidationError(field, message string, cause error) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
		Err:     cause,
	}
}

// APIError is returned when the Heap API answers with a non-2xx status.
// Its fields are read-only once constructed.
type APIError struct {
	statusCode int
	body       []byte
	header     http.Header
}

// NewAPIError wraps a failed response.
func NewAPIError(resp *Response) *APIError {
	e := &APIError{statusCode: resp.StatusCode}
	if resp.Body != nil {
		e.body = append([]byte(nil), resp.Body...)
	}
	if resp.Header != nil {
		e.header = resp.Header.Clone()
	}
	return e
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("heap: API server error: %d %s", e.statusCode, e.body)
}

// StatusCode returns the HTTP status of the failed response.
func (e *APIError) StatusCode() int {
	return e.statusCode
}

// Body returns a copy of the raw response body.
func (e *APIError) Body() []byte {
	return append([]byte(nil), e.body...)
}

// Header returns a copy of the response headers.
func (e *APIError) Header() http.Header {
	return e.header.Clone()
}

// Is matches on status code, allowing comparisons like:
//
//	if errors.Is(err, heap.ErrRateLimited) { ... }
func (e *APIError) Is(target error) bool {
	t, ok := target.(*APIError)
	if !ok {
		return false
	}
	return e.statusCode == t.statusCode
}

// IsServerError returns true if the error is a 5xx server error.
func (e *APIError) IsServerError() bool {
	return e.statusCode >= 500 && e.statusCode < 600
}

// Code implements HeapError.
func (e *APIError) Code() ErrorCode {
	return ErrCodeAPI
}

var _ HeapError = (*APIError)(nil)

// AsAPIError extracts an APIError from the error chain.
//
// Example:
//
//	if apiErr, ok := heap.AsAPIError(err); ok {
//	    log.Printf("heap rejected request: %d %s", apiErr.StatusCode(), apiErr.Body())
//	}
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// AsValidationError extracts a ValidationError from the error chain.
func AsValidationError(err error) (*ValidationError, bool) {
	var valErr *ValidationError
	if errors.As(err, &valErr) {
		return valErr, true
	}
	return nil, false
}

// AsConfigError extracts a ConfigError from the error chain.
func AsConfigError(err error) (*ConfigError, bool) {
	var cfgErr *ConfigError
	if errors.As(err, &cfgErr) {
		return cfgErr, true
	}
	return nil, false
}
