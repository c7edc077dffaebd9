// Package apierror defines the error taxonomy shared by the Mindshare API
// client, the Twitter client and the enhancement engine. Callers can use
// errors.As to branch on the concrete kind.
package apierror

import (
	"fmt"
	"time"
)

// ValidationError reports caller-supplied parameters that violate a
// precondition. It is raised before any network call and is never retried.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation: %s: %s", e.Field, e.Message)
	}
	return "validation: " + e.Message
}

// NewValidationError builds a ValidationError for a named field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// AuthenticationError is a 401 from either API.
type AuthenticationError struct {
	API     string // "mindshare" or "twitter"
	Message string
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("%s: authentication failed: %s", e.API, e.Message)
}

// RateLimitError is a 429. ResetAt carries the reset hint parsed from the
// x-rate-limit-reset (epoch seconds) or retry-after (delta seconds) header;
// it is the zero time when neither header was present.
type RateLimitError struct {
	API     string
	Message string
	ResetAt time.Time
}

func (e *RateLimitError) Error() string {
	if e.ResetAt.IsZero() {
		return fmt.Sprintf("%s: rate limited: %s", e.API, e.Message)
	}
	return fmt.Sprintf("%s: rate limited until %s: %s", e.API, e.ResetAt.Format(time.RFC3339), e.Message)
}

// APIError is any other non-2xx response. Message holds the error string
// parsed from the body when one was present.
type APIError struct {
	API        string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: api error (status %d): %s", e.API, e.StatusCode, e.Message)
}

// TransportError means no usable response was received: request construction
// failed or the network call errored after exhausting retries.
type TransportError struct {
	API string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: transport: %v", e.API, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// TwitterAPIError is raised when the Twitter API reports per-item errors in
// an otherwise successful (HTTP 200) lookup response. Callers treat it the
// same as a transport failure for fallback purposes.
type TwitterAPIError struct {
	Message string
}

func (e *TwitterAPIError) Error() string {
	return "twitter: api reported errors: " + e.Message
}

// EnhancementError wraps a secondary-API failure when fallback to source
// data is disabled (strict mode).
type EnhancementError struct {
	Err error
}

func (e *EnhancementError) Error() string {
	return fmt.Sprintf("enhancement failed: %v", e.Err)
}

func (e *EnhancementError) Unwrap() error { return e.Err }
