package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"time"
)

// Error is the structured error returned by every client operation.
type Error struct {
	// Code classifies the error.
	Code ErrorCode `json:"code"`
	// Message is the human-readable message, taken from the server when available.
	Message string `json:"message"`
	// StatusCode is the HTTP status (0 when no response was received).
	StatusCode int `json:"statusCode,omitempty"`
	// APICode is the server's own error code string, if it sent one.
	APICode string `json:"apiCode,omitempty"`
	// Retryable indicates if the operation can be retried.
	Retryable bool `json:"retryable"`
	// RetryAfter is the server's back-off hint for rate-limited requests.
	RetryAfter time.Duration `json:"retryAfter,omitempty"`
	// Details carries structured validation details.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *Error) Error() string {
	msg := fmt.Sprintf("chatroutes: %s: %s", e.Code, e.Message)
	if e.StatusCode > 0 {
		msg = fmt.Sprintf("chatroutes: %s (HTTP %d): %s", e.Code, e.StatusCode, e.Message)
	}
	if e.Cause != nil {
		msg += fmt.Sprintf(" (cause: %v)", e.Cause)
	}
	return msg
}

// Unwrap returns the underlying cause of the error.
func (e *Error) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause and returns the receiver.
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// WithDetails merges the provided details into the error and returns the receiver.
func (e *Error) WithDetails(details map[string]any) *Error {
	if len(details) == 0 {
		return e
	}
	if e.Details == nil {
		e.Details = make(map[string]any, len(details))
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// New creates an Error with retryable detection from its code.
func New(code ErrorCode, message string, statusCode int) *Error {
	return &Error{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
		Retryable:  IsRetryableCode(code),
	}
}

// Authentication creates an error for rejected credentials.
func Authentication(message string) *Error {
	if message == "" {
		message = "Invalid or missing API key."
	}
	return New(ErrCodeAuthentication, message, http.StatusUnauthorized)
}

// Validation creates an error for a malformed request.
func Validation(message string) *Error {
	return New(ErrCodeValidation, message, 0)
}

// NotFound creates an error for a missing resource.
func NotFound(message string) *Error {
	if message == "" {
		message = "The requested resource was not found."
	}
	return New(ErrCodeNotFound, message, http.StatusNotFound)
}

// RateLimited creates an error for a throttled request.
func RateLimited(message string, retryAfter time.Duration) *Error {
	if message == "" {
		message = "Too many requests."
	}
	e := New(ErrCodeRateLimited, message, http.StatusTooManyRequests)
	e.RetryAfter = retryAfter
	return e
}

// Server creates an error for a remote-side failure.
func Server(statusCode int, message string) *Error {
	if message == "" {
		message = "The server encountered an error."
	}
	return New(ErrCodeServer, message, statusCode)
}

// Network creates an error for a transport failure.
func Network(cause error) *Error {
	msg := "network error"
	if cause != nil {
		msg = cause.Error()
	}
	return New(ErrCodeNetwork, msg, 0).WithCause(cause)
}

// API creates an error for an unclassified unsuccessful response.
func API(statusCode int, message string) *Error {
	if message == "" {
		message = "Request failed."
	}
	return New(ErrCodeAPI, message, statusCode)
}

// As extracts an *Error from an error chain.
func As(err error) (*Error, bool) {
	var e *Error
	if stderrors.As(err, &e) {
		return e, true
	}
	return nil, false
}

func hasCode(err error, code ErrorCode) bool {
	e, ok := As(err)
	return ok && e.Code == code
}

// IsAuthentication reports whether err is an authentication error.
func IsAuthentication(err error) bool { return hasCode(err, ErrCodeAuthentication) }

// IsValidation reports whether err is a validation error.
func IsValidation(err error) bool { return hasCode(err, ErrCodeValidation) }

// IsNotFound reports whether err is a not-found error.
func IsNotFound(err error) bool { return hasCode(err, ErrCodeNotFound) }

// IsRateLimit reports whether err is a rate-limit error.
func IsRateLimit(err error) bool { return hasCode(err, ErrCodeRateLimited) }

// IsServer reports whether err is a server error.
func IsServer(err error) bool { return hasCode(err, ErrCodeServer) }

// IsNetwork reports whether err is a network error.
func IsNetwork(err error) bool { return hasCode(err, ErrCodeNetwork) }

// IsRetryable reports whether err may succeed on retry.
func IsRetryable(err error) bool {
	e, ok := As(err)
	return ok && e.Retryable
}

// RetryAfter returns the server back-off hint carried by err, if any.
func RetryAfter(err error) (time.Duration, bool) {
	e, ok := As(err)
	if !ok || e.RetryAfter <= 0 {
		return 0, false
	}
	return e.RetryAfter, true
}
