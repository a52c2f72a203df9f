package whoop

import (
	"errors"
	"fmt"
	"net/http"
	"unicode/utf8"
)

// maxErrorBodyLen caps how much of a response body is copied into an error message.
const maxErrorBodyLen = 1000

// unknownErrorMessage is used when a failed response carries no readable body
// and no reason phrase exists for its status code.
const unknownErrorMessage = "Unknown error"

var (
	// ErrNotFound is returned when the API responds with 404 Not Found.
	ErrNotFound = errors.New("whoop: resource not found")

	// ErrRateLimitExceeded is returned when the API responds with 429 Too Many Requests.
	// The concrete error is a *RateLimitError, which matches this sentinel via errors.Is.
	ErrRateLimitExceeded = errors.New("whoop: rate limit exceeded")

	// ErrNoNextPage is returned by NextPage when a page has no continuation cursor.
	ErrNoNextPage = errors.New("whoop: no next page available")
)

// TransportError reports a connection or network failure. No HTTP status was received.
type TransportError struct {
	Err error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	return fmt.Sprintf("whoop: http request failed: %v", e.Err)
}

// Unwrap implements errors.Unwrap so the underlying error can be extracted.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// SerializationError reports a response body that could not be decoded into
// the expected shape, or a request value that could not be encoded.
type SerializationError struct {
	Err error
}

// Error implements the error interface.
func (e *SerializationError) Error() string {
	return fmt.Sprintf("whoop: failed to decode response: %v", e.Err)
}

// Unwrap implements errors.Unwrap.
func (e *SerializationError) Unwrap() error {
	return e.Err
}

// AuthenticationError represents an authentication failure: a 401 from the API,
// a rejected token exchange or refresh, or a refresh attempted without a refresh token.
// StatusCode is zero when the failure did not come from an HTTP response.
type AuthenticationError struct {
	StatusCode int
	Message    string
}

// Error implements the error interface.
func (e *AuthenticationError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("whoop auth error: %s", e.Message)
	}
	return fmt.Sprintf("whoop auth error (%d): %s", e.StatusCode, e.Message)
}

// BadRequestError represents a 400 Bad Request response.
type BadRequestError struct {
	Message string
}

// Error implements the error interface.
func (e *BadRequestError) Error() string {
	return fmt.Sprintf("whoop bad request: %s", e.Message)
}

// RateLimitError represents a 429 response. The response body is discarded.
type RateLimitError struct {
	RetryAfter int // Seconds from the Retry-After header, 0 if absent or invalid
}

// Error implements the error interface.
func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("whoop rate limit exceeded: retry after %d seconds", e.RetryAfter)
	}
	return "whoop rate limit exceeded"
}

// Is reports whether target is ErrRateLimitExceeded.
func (e *RateLimitError) Is(target error) bool {
	return target == ErrRateLimitExceeded
}

// ServerError represents a 5xx response.
type ServerError struct {
	StatusCode int
	Message    string
}

// Error implements the error interface.
func (e *ServerError) Error() string {
	return fmt.Sprintf("whoop server error (%d): %s", e.StatusCode, e.Message)
}

// UnknownError represents any failed status the other error types do not cover.
type UnknownError struct {
	StatusCode int
	Message    string
}

// Error implements the error interface.
func (e *UnknownError) Error() string {
	return fmt.Sprintf("whoop api error (%d): %s", e.StatusCode, e.Message)
}

// mapStatus converts a non-successful status code and its (possibly empty) body
// into the matching error type. An empty body falls back to the reason phrase.
func mapStatus(status int, body string) error {
	msg := truncateBody(body)
	if msg == "" {
		msg = reasonPhrase(status)
	}

	switch {
	case status == http.StatusBadRequest:
		return &BadRequestError{Message: msg}
	case status == http.StatusUnauthorized:
		return &AuthenticationError{StatusCode: status, Message: msg}
	case status == http.StatusNotFound:
		return ErrNotFound
	case status == http.StatusTooManyRequests:
		return &RateLimitError{}
	case status >= 500 && status <= 599:
		return &ServerError{StatusCode: status, Message: msg}
	default:
		return &UnknownError{StatusCode: status, Message: msg}
	}
}

func reasonPhrase(status int) string {
	if text := http.StatusText(status); text != "" {
		return text
	}
	return unknownErrorMessage
}

// truncateBody cuts body at a rune boundary at or below maxErrorBodyLen bytes.
func truncateBody(body string) string {
	if len(body) <= maxErrorBodyLen {
		return body
	}
	cut := maxErrorBodyLen
	for cut > 0 && !utf8.RuneStart(body[cut]) {
		cut--
	}
	return body[:cut] + "..."
}
