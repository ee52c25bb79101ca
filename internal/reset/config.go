package reset

import (
	"errors"
	"time"
)

// Config configures the reset-ticket maker.
type Config struct {
	// Secret is the HMAC signing key (required). Rotating it voids all
	// outstanding tickets.
	Secret string `yaml:"secret" mapstructure:"secret"`

	// TTL is how long a ticket stays valid (default: 24h).
	TTL time.Duration `yaml:"ttl" mapstructure:"ttl"`
}

// ApplyDefaults sets sensible defaults for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.TTL == 0 {
		c.TTL = 24 * time.Hour
	}
}

// Validate checks required fields.
func (c *Config) Validate() error {
	if c.Secret == "" {
		return errors.New("reset: secret is required")
	}
	return nil
}
