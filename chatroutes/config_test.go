package chatroutes

import (
	"testing"
	"time"

	"github.com/chatroutes/chatroutes-go/errors"
)

func TestConfigApplyDefaults(t *testing.T) {
	cfg := Config{APIKey: "k"}
	cfg.ApplyDefaults()

	if cfg.BaseURL != DefaultBaseURL {
		t.Errorf("expected default base URL, got %q", cfg.BaseURL)
	}
	if cfg.Timeout != 30*time.Second {
		t.Errorf("expected 30s timeout, got %v", cfg.Timeout)
	}
	if cfg.StreamShape != "choices" {
		t.Errorf("expected choices shape, got %q", cfg.StreamShape)
	}
	if cfg.MaxRetries != 0 {
		t.Errorf("expected retries off by default, got %d", cfg.MaxRetries)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid", Config{APIKey: "k"}, false},
		{"missing key", Config{}, true},
		{"blank key", Config{APIKey: "  "}, true},
		{"flat shape", Config{APIKey: "k", StreamShape: "flat"}, false},
		{"auto shape", Config{APIKey: "k", StreamShape: "auto"}, false},
		{"unknown shape", Config{APIKey: "k", StreamShape: "xml"}, true},
		{"negative retries", Config{APIKey: "k", MaxRetries: -1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			cfg.ApplyDefaults()
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.IsValidation(err) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	if _, err := New(Config{}); !errors.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
