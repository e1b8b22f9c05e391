package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"
)

func TestError_New_Retryable(t *testing.T) {
	err := New(ErrCodeServer, "boom", http.StatusBadGateway)
	if !err.Retryable {
		t.Error("SERVER_ERROR should be retryable")
	}
	if New(ErrCodeValidation, "bad", 0).Retryable {
		t.Error("VALIDATION_ERROR should not be retryable")
	}
}

func TestError_Error_Format(t *testing.T) {
	err := NotFound("conversation missing")
	got := err.Error()
	if !strings.Contains(got, "NOT_FOUND") || !strings.Contains(got, "HTTP 404") || !strings.Contains(got, "conversation missing") {
		t.Errorf("unexpected error string %q", got)
	}

	netErr := Network(fmt.Errorf("connection reset"))
	if !strings.Contains(netErr.Error(), "cause: connection reset") {
		t.Errorf("expected cause in %q", netErr.Error())
	}
}

func TestError_Unwrap_Success(t *testing.T) {
	cause := stderrors.New("dial tcp: refused")
	err := Network(cause)
	if !stderrors.Is(err, cause) {
		t.Error("expected errors.Is to find the cause")
	}
}

func TestError_WithDetails_Merge(t *testing.T) {
	err := Validation("bad").WithDetails(map[string]any{"a": 1})
	err.WithDetails(map[string]any{"b": 2})
	if err.Details["a"] != 1 || err.Details["b"] != 2 {
		t.Errorf("expected merged details, got %v", err.Details)
	}
	if Validation("x").WithDetails(nil).Details != nil {
		t.Error("expected nil details to stay nil")
	}
}

func TestFromStatus_Table(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		code   ErrorCode
		check  func(*testing.T, error)
	}{
		{"success", 200, "", "", nil},
		{"unauthorized", 401, `{"message":"bad key"}`, ErrCodeAuthentication, expectAuth},
		{"forbidden", 403, `{"error":"no access"}`, ErrCodeAuthentication, nil},
		{"not found", 404, `{"message":"no such conversation"}`, ErrCodeNotFound, nil},
		{"rate limited", 429, `{"message":"slow down","retryAfter":2}`, ErrCodeRateLimited, nil},
		{"bad request", 400, `{"message":"content required","details":{"field":"content"}}`, ErrCodeValidation, nil},
		{"unprocessable", 422, `{}`, ErrCodeValidation, nil},
		{"server", 503, `upstream down`, ErrCodeServer, nil},
		{"conflict", 409, `{"message":"conflict"}`, ErrCodeAPI, nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := FromStatus(tc.status, []byte(tc.body), nil)
			if tc.code == "" {
				if err != nil {
					t.Fatalf("expected nil, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error")
			}
			if err.Code != tc.code {
				t.Errorf("expected code %s, got %s", tc.code, err.Code)
			}
			if err.StatusCode != tc.status {
				t.Errorf("expected status %d, got %d", tc.status, err.StatusCode)
			}
			if tc.check != nil {
				tc.check(t, err)
			}
		})
	}
}

func expectAuth(t *testing.T, err error) {
	t.Helper()
	if !IsAuthentication(err) {
		t.Error("expected IsAuthentication")
	}
	e, _ := As(err)
	if e.Message != "bad key" {
		t.Errorf("expected server message, got %q", e.Message)
	}
}

func TestFromStatus_ValidationDetails(t *testing.T) {
	err := FromStatus(400, []byte(`{"message":"invalid","code":"BAD_CONTENT","details":{"field":"content"}}`), nil)
	if err.APICode != "BAD_CONTENT" {
		t.Errorf("expected api code BAD_CONTENT, got %q", err.APICode)
	}
	if err.Details["field"] != "content" {
		t.Errorf("expected details field=content, got %v", err.Details)
	}
}

func TestFromStatus_NonJSONBody(t *testing.T) {
	err := FromStatus(502, []byte("  Bad Gateway \n"), nil)
	if err.Message != "Bad Gateway" {
		t.Errorf("expected trimmed body as message, got %q", err.Message)
	}
}

func TestFromStatus_RetryAfter(t *testing.T) {
	t.Run("body hint wins", func(t *testing.T) {
		err := FromStatus(429, []byte(`{"retryAfter":1.5}`), map[string]string{"Retry-After": "30"})
		if err.RetryAfter != 1500*time.Millisecond {
			t.Errorf("expected 1.5s, got %v", err.RetryAfter)
		}
	})

	t.Run("header seconds", func(t *testing.T) {
		err := FromStatus(429, nil, map[string]string{"retry-after": "7"})
		if err.RetryAfter != 7*time.Second {
			t.Errorf("expected 7s, got %v", err.RetryAfter)
		}
		d, ok := RetryAfter(err)
		if !ok || d != 7*time.Second {
			t.Errorf("expected RetryAfter helper to report 7s, got %v %v", d, ok)
		}
	})

	t.Run("header date", func(t *testing.T) {
		when := time.Now().Add(time.Hour).UTC().Format(http.TimeFormat)
		err := FromStatus(429, nil, map[string]string{"Retry-After": when})
		if err.RetryAfter <= 0 || err.RetryAfter > time.Hour {
			t.Errorf("expected positive retry-after up to 1h, got %v", err.RetryAfter)
		}
	})

	t.Run("missing", func(t *testing.T) {
		err := FromStatus(429, nil, nil)
		if _, ok := RetryAfter(err); ok {
			t.Error("expected no retry-after hint")
		}
	})
}

func TestPredicates_WrappedError(t *testing.T) {
	err := fmt.Errorf("stream: %w", Server(500, "boom"))
	if !IsServer(err) {
		t.Error("expected IsServer through wrapping")
	}
	if !IsRetryable(err) {
		t.Error("expected server error to be retryable")
	}
	if IsNetwork(err) || IsNotFound(err) || IsRateLimit(err) || IsValidation(err) {
		t.Error("unexpected predicate match")
	}
	if _, ok := As(stderrors.New("plain")); ok {
		t.Error("expected As to fail on plain error")
	}
}

func TestFromEnvelope_Fallback(t *testing.T) {
	err := FromEnvelope(200, "", "Failed to send message")
	if err.Code != ErrCodeAPI || err.Message != "Failed to send message" {
		t.Errorf("unexpected error %+v", err)
	}
}
