package errors

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// ErrorEnvelope is the JSON body the API returns for unsuccessful requests.
// Servers have used both "message" and "error" for the text.
type ErrorEnvelope struct {
	Success    *bool          `json:"success,omitempty"`
	Message    string         `json:"message,omitempty"`
	Error      string         `json:"error,omitempty"`
	Code       string         `json:"code,omitempty"`
	Details    map[string]any `json:"details,omitempty"`
	RetryAfter float64        `json:"retryAfter,omitempty"`
}

// Text returns the human-readable message, preferring "message" over "error".
func (b *ErrorEnvelope) Text() string {
	if b.Message != "" {
		return b.Message
	}
	return b.Error
}

// ParseEnvelope decodes an error body. Non-JSON bodies are used verbatim as the message.
func ParseEnvelope(body []byte) ErrorEnvelope {
	var env ErrorEnvelope
	if len(body) == 0 {
		return env
	}
	if err := json.Unmarshal(body, &env); err != nil {
		env.Message = strings.TrimSpace(string(body))
	}
	return env
}

// FromStatus maps an HTTP status, its body and response headers to an *Error.
// It returns nil for 2xx statuses.
func FromStatus(statusCode int, body []byte, headers map[string]string) *Error {
	if statusCode >= 200 && statusCode < 300 {
		return nil
	}
	env := ParseEnvelope(body)
	msg := env.Text()

	var e *Error
	switch {
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		e = Authentication(msg)
	case statusCode == http.StatusNotFound:
		e = NotFound(msg)
	case statusCode == http.StatusTooManyRequests:
		e = RateLimited(msg, retryAfter(env, headers))
	case statusCode == http.StatusBadRequest || statusCode == http.StatusUnprocessableEntity:
		e = Validation(msg)
	case statusCode >= 500:
		e = Server(statusCode, msg)
	default:
		e = API(statusCode, msg)
	}
	e.StatusCode = statusCode
	e.APICode = env.Code
	return e.WithDetails(env.Details)
}

// FromEnvelope builds an error for a 2xx response whose envelope reports success:false.
func FromEnvelope(statusCode int, message, fallback string) *Error {
	if message == "" {
		message = fallback
	}
	return API(statusCode, message)
}

// retryAfter prefers the body hint (seconds) over the Retry-After header
// (delta-seconds or HTTP-date).
func retryAfter(env ErrorEnvelope, headers map[string]string) time.Duration {
	if env.RetryAfter > 0 {
		return time.Duration(env.RetryAfter * float64(time.Second))
	}
	v := headerValue(headers, "Retry-After")
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(v); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

func headerValue(headers map[string]string, key string) string {
	if v, ok := headers[key]; ok {
		return v
	}
	for k, v := range headers {
		if strings.EqualFold(k, key) {
			return v
		}
	}
	return ""
}
