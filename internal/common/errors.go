package common

import (
	"errors"
	"fmt"
)

// Common error values used across the application
var (
	// ErrNotFound indicates a resource was not found
	ErrNotFound = errors.New("not found")
	// ErrInvalidConfiguration indicates configuration issues
	ErrInvalidConfiguration = errors.New("invalid configuration")
)

// WrapError wraps an error with additional context information
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// NewError creates a new error with a formatted message
func NewError(format string, args ...interface{}) error {
	return fmt.Errorf(format, args...)
}

// ValidationError represents validation errors with field-specific information
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for field '%s': %s (value: %v)", e.Field, e.Message, e.Value)
}

// NewValidationError creates a new validation error
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// NetworkError represents network-related errors
type NetworkError struct {
	URL     string
	Reason  string
	Wrapped error
}

func (e *NetworkError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("network error for '%s': %s: %v", e.URL, e.Reason, e.Wrapped)
	}
	return fmt.Sprintf("network error for '%s': %s", e.URL, e.Reason)
}

func (e *NetworkError) Unwrap() error {
	return e.Wrapped
}

// NewNetworkError creates a new network error
func NewNetworkError(url, reason string, wrapped error) *NetworkError {
	return &NetworkError{
		URL:     url,
		Reason:  reason,
		Wrapped: wrapped,
	}
}

// HTTPError represents an HTTP response with a non-success status code
type HTTPError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("http error for '%s': status %d: %s", e.URL, e.StatusCode, e.Body)
}

// NewHTTPError creates a new HTTP error
func NewHTTPError(url string, statusCode int, body string) *HTTPError {
	return &HTTPError{
		URL:        url,
		StatusCode: statusCode,
		Body:       body,
	}
}

// ExtractionError represents a failure to parse or normalize fetched markup
type ExtractionError struct {
	URL     string
	Wrapped error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extraction error for '%s': %v", e.URL, e.Wrapped)
}

func (e *ExtractionError) Unwrap() error {
	return e.Wrapped
}

// NewExtractionError creates a new extraction error
func NewExtractionError(url string, wrapped error) *ExtractionError {
	return &ExtractionError{
		URL:     url,
		Wrapped: wrapped,
	}
}
