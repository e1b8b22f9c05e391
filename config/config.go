package config

import (
	"fmt"
	"slices"

	"github.com/chatroutes/chatroutes-go/chatroutes"
	"github.com/chatroutes/chatroutes-go/logger"
	"github.com/chatroutes/chatroutes-go/mockserver"
	"github.com/chatroutes/chatroutes-go/observability"
)

// Environments accepted by Config.Environment.
var Environments = []string{"development", "staging", "production"}

// Config is the complete file and environment configuration.
type Config struct {
	Environment   string               `yaml:"environment" mapstructure:"environment"`
	Client        chatroutes.Config    `yaml:"client" mapstructure:"client"`
	Logging       logger.Config        `yaml:"logging" mapstructure:"logging"`
	Observability observability.Config `yaml:"observability" mapstructure:"observability"`
	Mock          mockserver.Config    `yaml:"mock" mapstructure:"mock"`
}

// ApplyDefaults applies default values to every section.
func (c *Config) ApplyDefaults() {
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Observability.Environment == "" {
		c.Observability.Environment = c.Environment
	}
	c.Client.ApplyDefaults()
	c.Logging.ApplyDefaults()
	c.Observability.ApplyDefaults()
	c.Mock.ApplyDefaults()
}

// Validate validates every section except the client, whose API key is only
// required by commands that call the API (see ValidateClient).
func (c *Config) Validate() error {
	if !slices.Contains(Environments, c.Environment) {
		return fmt.Errorf("config.environment must be one of %v (got: %s)", Environments, c.Environment)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("config.logging: %w", err)
	}
	if err := c.Observability.Validate(); err != nil {
		return fmt.Errorf("config.observability: %w", err)
	}
	if err := c.Mock.Validate(); err != nil {
		return fmt.Errorf("config.mock: %w", err)
	}
	return nil
}

// ValidateClient validates the client section.
func (c *Config) ValidateClient() error {
	if err := c.Client.Validate(); err != nil {
		return fmt.Errorf("config.client: %w", err)
	}
	return nil
}

// Redacted returns a copy safe to print: secrets are masked.
func (c Config) Redacted() Config {
	c.Client.APIKey = redact(c.Client.APIKey)
	c.Mock.APIKey = redact(c.Mock.APIKey)
	return c
}

func redact(secret string) string {
	switch {
	case secret == "":
		return ""
	case len(secret) <= 8:
		return "****"
	default:
		return secret[:4] + "****" + secret[len(secret)-2:]
	}
}
