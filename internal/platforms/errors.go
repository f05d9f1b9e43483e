package platforms

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies gateway failures for response mapping
type ErrorKind string

const (
	ErrInvalidInput ErrorKind = "invalid_input" // 400
	ErrNotFound     ErrorKind = "not_found"     // 404
	ErrUpstream     ErrorKind = "upstream"      // upstream status forwarded
	ErrInternal     ErrorKind = "internal"      // 500
)

// APIError carries enough to reproduce an upstream failure to the caller:
// the platform, the upstream HTTP status, and the upstream message body.
type APIError struct {
	Kind     ErrorKind
	Platform Kind
	Status   int
	Message  string
}

func (e *APIError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: %s (status %d): %s", e.Kind, e.Platform, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", e.Kind, e.Platform, e.Message)
}

// HTTPStatus maps the error kind to the status code returned to the caller
func (e *APIError) HTTPStatus() int {
	switch e.Kind {
	case ErrInvalidInput:
		return http.StatusBadRequest
	case ErrNotFound:
		return http.StatusNotFound
	case ErrUpstream:
		if e.Status >= 400 {
			return e.Status
		}
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// InvalidInput builds a 400-class error for malformed or missing input
func InvalidInput(platform Kind, message string) *APIError {
	return &APIError{Kind: ErrInvalidInput, Platform: platform, Message: message}
}

// NotFound builds a 404-class error when no product or variant matched
func NotFound(platform Kind, message string) *APIError {
	return &APIError{Kind: ErrNotFound, Platform: platform, Message: message}
}

// UpstreamFailure wraps a non-2xx upstream response, preserving its status
func UpstreamFailure(platform Kind, status int, message string) *APIError {
	return &APIError{Kind: ErrUpstream, Platform: platform, Status: status, Message: message}
}

// Internal wraps transport and decode failures
func Internal(platform Kind, err error) *APIError {
	return &APIError{Kind: ErrInternal, Platform: platform, Message: err.Error()}
}

// AsAPIError extracts an *APIError from err, or classifies it as internal
func AsAPIError(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return &APIError{Kind: ErrInternal, Message: err.Error()}
}
