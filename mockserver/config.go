package mockserver

import (
	"fmt"
	"time"

	"github.com/chatroutes/chatroutes-go/stream"
)

// Config holds mock server configuration.
type Config struct {
	Host string `yaml:"host" mapstructure:"host"`
	// Port 0 binds a random free port.
	Port int `yaml:"port" mapstructure:"port"`
	// APIKey, when set, is required as "Authorization: ApiKey <key>" (or Bearer).
	APIKey string `yaml:"api_key" mapstructure:"api_key"`
	// Model is reported for replies when the request names none.
	Model string `yaml:"model" mapstructure:"model"`
	// StreamShape is the chunk shape emitted by the stream endpoint: "choices" or "flat".
	StreamShape string `yaml:"stream_shape" mapstructure:"stream_shape"`
	// ChunkDelay is slept between stream chunks.
	ChunkDelay time.Duration `yaml:"chunk_delay" mapstructure:"chunk_delay"`
	// OmitIdentifiers leaves message ids out of the stream.
	OmitIdentifiers bool `yaml:"omit_identifiers" mapstructure:"omit_identifiers"`
}

// ApplyDefaults sets default values for unset fields.
func (c *Config) ApplyDefaults() {
	if c.Host == "" {
		c.Host = "127.0.0.1"
	}
	if c.Model == "" {
		c.Model = "gpt-5"
	}
	if c.StreamShape == "" {
		c.StreamShape = stream.ShapeChoices
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("mockserver.port must be between 0 and 65535 (got: %d)", c.Port)
	}
	if c.StreamShape != stream.ShapeChoices && c.StreamShape != stream.ShapeFlat {
		return fmt.Errorf("mockserver.stream_shape must be %q or %q (got: %q)", stream.ShapeChoices, stream.ShapeFlat, c.StreamShape)
	}
	if c.ChunkDelay < 0 {
		return fmt.Errorf("mockserver.chunk_delay must be non-negative (got: %s)", c.ChunkDelay)
	}
	return nil
}
