package sparql

import (
	"errors"
	"fmt"
)

// EndpointError represents a failure while executing a query against a
// remote endpoint.
type EndpointError struct {
	// Code identifies the failure category.
	Code EndpointErrorCode

	// Message is a human-readable description.
	Message string

	// Status is the HTTP status code, when one was received.
	Status int

	// Err is the underlying error, when one exists.
	Err error
}

// EndpointErrorCode categorizes endpoint failures.
type EndpointErrorCode string

const (
	// ErrCodeRequestFailed indicates the HTTP request never completed.
	ErrCodeRequestFailed EndpointErrorCode = "REQUEST_FAILED"

	// ErrCodeBadStatus indicates a non-2xx response from the endpoint.
	ErrCodeBadStatus EndpointErrorCode = "BAD_STATUS"

	// ErrCodeBadEnvelope indicates the response body was not a valid
	// SPARQL JSON results envelope.
	ErrCodeBadEnvelope EndpointErrorCode = "BAD_ENVELOPE"
)

// Error implements the error interface.
func (e *EndpointError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: %s (status=%d)", e.Code, e.Message, e.Status)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *EndpointError) Unwrap() error {
	return e.Err
}

// IsBadStatus reports whether err is an endpoint error with a non-2xx
// HTTP status. Uses errors.As to handle wrapped errors.
func IsBadStatus(err error) bool {
	var ee *EndpointError
	if errors.As(err, &ee) {
		return ee.Code == ErrCodeBadStatus
	}
	return false
}

// IsBadEnvelope reports whether err is a malformed-envelope error.
// Uses errors.As to handle wrapped errors.
func IsBadEnvelope(err error) bool {
	var ee *EndpointError
	if errors.As(err, &ee) {
		return ee.Code == ErrCodeBadEnvelope
	}
	return false
}
