package chatroutes

import (
	"time"

	"github.com/chatroutes/chatroutes-go/stream"
	"github.com/chatroutes/chatroutes-go/validation"
)

const (
	// DefaultBaseURL is the hosted API root.
	DefaultBaseURL = "https://api.chatroutes.com/api/v1"
	// DefaultTimeout bounds non-streaming calls.
	DefaultTimeout = 30 * time.Second

	authScheme = "ApiKey"
)

// Config holds configuration for creating a Client.
type Config struct {
	// APIKey is sent as "Authorization: ApiKey <key>". Required.
	APIKey string `yaml:"api_key" mapstructure:"api_key"`

	// BaseURL is the API root. Defaults to DefaultBaseURL.
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`

	// Timeout for non-streaming requests. Defaults to 30s. Streams are
	// bounded by their context only.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`

	// MaxRetries is the number of extra attempts for retryable failures of
	// non-streaming calls. 0 disables retry. Streams are never retried.
	MaxRetries int `yaml:"max_retries" mapstructure:"max_retries"`

	// StreamShape selects the chunk wire shape: "choices" (default), "flat" or "auto".
	StreamShape string `yaml:"stream_shape" mapstructure:"stream_shape"`

	// StrictIdentifiers refuses to synthesize message ids when a stream
	// carried none.
	StrictIdentifiers bool `yaml:"strict_identifiers" mapstructure:"strict_identifiers"`

	// Headers are sent with every request.
	Headers map[string]string `yaml:"headers" mapstructure:"headers"`
}

// ApplyDefaults fills in zero-value fields.
func (c *Config) ApplyDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.StreamShape == "" {
		c.StreamShape = stream.ShapeChoices
	}
}

// Validate checks the configuration. Call ApplyDefaults first.
func (c *Config) Validate() error {
	v := validation.New().
		Required("apiKey", c.APIKey).
		Required("baseUrl", c.BaseURL).
		Custom(c.Timeout > 0, "timeout", "must be positive").
		Custom(c.MaxRetries >= 0, "maxRetries", "must not be negative")
	if _, err := stream.Shape(c.StreamShape); err != nil {
		v.AddError("streamShape", err.Error())
	}
	return v.Validate()
}
