package httpclient

import (
	"testing"
	"time"

	"github.com/chatroutes/chatroutes-go/errors"
)

func TestConfig_ApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	if cfg.Timeout != 30*time.Second {
		t.Errorf("expected default timeout 30s, got %v", cfg.Timeout)
	}

	cfg = Config{Timeout: 5 * time.Second}
	cfg.ApplyDefaults()
	if cfg.Timeout != 5*time.Second {
		t.Errorf("expected explicit timeout kept, got %v", cfg.Timeout)
	}
}

func TestConfig_Validate(t *testing.T) {
	cfg := Config{Timeout: -1}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for negative timeout")
	}
}

func TestDefaultRetryConfig(t *testing.T) {
	cfg := DefaultRetryConfig()
	if !cfg.RetryIf(errors.Server(503, "down")) {
		t.Error("expected server errors to be retried")
	}
	if cfg.RetryIf(errors.Validation("bad")) {
		t.Error("expected validation errors not to be retried")
	}
	if d, ok := cfg.DelayHint(errors.RateLimited("slow", 2*time.Second)); !ok || d != 2*time.Second {
		t.Errorf("DelayHint = %v, %v", d, ok)
	}
}

func TestNew_DefaultUserAgent(t *testing.T) {
	a, err := New(Config{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.GetConfig().UserAgent == "" {
		t.Error("expected a default user agent")
	}
}
