package config

import (
	"fmt"

	"github.com/onlygrow/identity/internal/account"
	"github.com/onlygrow/identity/internal/google"
	"github.com/onlygrow/identity/internal/httpapi"
	"github.com/onlygrow/identity/internal/logger"
	"github.com/onlygrow/identity/internal/observability"
	"github.com/onlygrow/identity/internal/redis"
	"github.com/onlygrow/identity/internal/reset"
	"github.com/onlygrow/identity/internal/token"
)

// Config is the root configuration of the identity service.
type Config struct {
	Service       string               `yaml:"service" mapstructure:"service"`
	Server        httpapi.Config       `yaml:"server" mapstructure:"server"`
	Logging       logger.Config        `yaml:"logging" mapstructure:"logging"`
	Database      account.Config       `yaml:"database" mapstructure:"database"`
	Redis         redis.Config         `yaml:"redis" mapstructure:"redis"`
	Token         token.Config         `yaml:"token" mapstructure:"token"`
	Google        google.Config        `yaml:"google" mapstructure:"google"`
	Reset         reset.Config         `yaml:"reset" mapstructure:"reset"`
	Observability observability.Config `yaml:"observability" mapstructure:"observability"`
}

// ApplyDefaults fills every section's defaults.
func (c *Config) ApplyDefaults() {
	if c.Service == "" {
		c.Service = "identityd"
	}
	c.Server.ApplyDefaults()
	c.Logging.ApplyDefaults()
	c.Database.ApplyDefaults()
	c.Redis.ApplyDefaults()
	c.Token.ApplyDefaults()
	c.Google.ApplyDefaults()
	c.Reset.ApplyDefaults()
	c.Observability.ApplyDefaults()
}

// Validate checks every section and names the failing one.
func (c *Config) Validate() error {
	sections := []struct {
		name     string
		validate func() error
	}{
		{"server", c.Server.Validate},
		{"logging", c.Logging.Validate},
		{"database", c.Database.Validate},
		{"redis", c.Redis.Validate},
		{"token", c.Token.Validate},
		{"reset", c.Reset.Validate},
		{"observability", c.Observability.Validate},
	}
	for _, s := range sections {
		if err := s.validate(); err != nil {
			return fmt.Errorf("config: %s: %w", s.name, err)
		}
	}

	// Google sign-in is optional: without a client ID the endpoint is
	// disabled rather than the service refusing to start.
	if c.Google.ClientID != "" {
		if err := c.Google.Validate(); err != nil {
			return fmt.Errorf("config: google: %w", err)
		}
	}
	return nil
}

// GoogleEnabled reports whether federated sign-in is configured.
func (c *Config) GoogleEnabled() bool {
	return c.Google.ClientID != ""
}
