package client

import "fmt"

// ValidationError reports a missing or non-coercible form field. It is
// terminal at the workflow boundary and rendered next to the offending
// control.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ReferentialIntegrityError reports a category/seller/brand reference
// the server could not resolve. Message carries the server's text
// verbatim so the operator can correct the exact offending field.
type ReferentialIntegrityError struct {
	Reference string
	Message   string
}

func (e *ReferentialIntegrityError) Error() string {
	return e.Message
}

// NetworkError marks a transport failure. Distinct from validation
// errors so the caller knows resubmission is safe.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// APIError carries any other structured server failure with its message
// preserved.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}
