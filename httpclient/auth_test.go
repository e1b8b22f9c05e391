package httpclient

import (
	"net/http"
	"testing"
)

func TestSchemeAuth(t *testing.T) {
	tests := []struct {
		name string
		auth *AuthConfig
		want string
	}{
		{"api key scheme", SchemeAuth("ApiKey", "cr_123"), "ApiKey cr_123"},
		{"bearer", BearerAuth("my-token"), "Bearer my-token"},
		{"empty scheme sends raw token", SchemeAuth("", "raw"), "raw"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := http.NewRequest("GET", "http://example.com", nil)
			tt.auth.apply(req)
			if got := req.Header.Get("Authorization"); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAPIKeyAuthHeader(t *testing.T) {
	req, _ := http.NewRequest("GET", "http://example.com", nil)
	APIKeyAuthHeader("secret-key", "X-Custom-Key").apply(req)
	if got := req.Header.Get("X-Custom-Key"); got != "secret-key" {
		t.Errorf("got %q, want %q", got, "secret-key")
	}

	req, _ = http.NewRequest("GET", "http://example.com", nil)
	APIKeyAuthHeader("secret-key", "").apply(req)
	if got := req.Header.Get("X-API-Key"); got != "secret-key" {
		t.Errorf("default header: got %q, want %q", got, "secret-key")
	}
}

func TestCustomAuth(t *testing.T) {
	auth := CustomAuth(func(req *http.Request) {
		req.Header.Set("X-Custom", "value")
	})
	req, _ := http.NewRequest("GET", "http://example.com", nil)
	auth.apply(req)
	if got := req.Header.Get("X-Custom"); got != "value" {
		t.Errorf("got %q, want %q", got, "value")
	}
}

func TestNilAuth(t *testing.T) {
	var auth *AuthConfig
	req, _ := http.NewRequest("GET", "http://example.com", nil)
	auth.apply(req)
	if got := req.Header.Get("Authorization"); got != "" {
		t.Errorf("expected no auth header, got %q", got)
	}
}
