package errors

// ErrorCode represents a machine-readable error kind.
type ErrorCode string

const (
	// ErrCodeAuthentication indicates invalid or missing credentials (401/403).
	ErrCodeAuthentication ErrorCode = "AUTHENTICATION_ERROR"
	// ErrCodeValidation indicates a malformed request (400/422 and local validation).
	ErrCodeValidation ErrorCode = "VALIDATION_ERROR"
	// ErrCodeNotFound indicates the referenced conversation, message or branch is absent.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeRateLimited indicates the request was throttled (429).
	ErrCodeRateLimited ErrorCode = "RATE_LIMIT_EXCEEDED"
	// ErrCodeServer indicates a remote-side failure (5xx, malformed payloads, stream error events).
	ErrCodeServer ErrorCode = "SERVER_ERROR"
	// ErrCodeNetwork indicates the exchange never produced a structured response.
	ErrCodeNetwork ErrorCode = "NETWORK_ERROR"
	// ErrCodeAPI covers any other unsuccessful status or a success:false envelope.
	ErrCodeAPI ErrorCode = "API_ERROR"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeRateLimited: true,
	ErrCodeServer:      true,
	ErrCodeNetwork:     true,
}

// IsRetryableCode returns true if errors of this kind may succeed on a later attempt.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
