package token

import (
	"errors"
	"time"
)

// Config configures the token issuer.
type Config struct {
	// Secret is the HMAC signing key (required).
	Secret string `yaml:"secret" mapstructure:"secret"`

	// Issuer is the "iss" claim stamped on every token.
	Issuer string `yaml:"issuer" mapstructure:"issuer"`

	// AccessTTL is the lifetime of access tokens (default: 15m).
	AccessTTL time.Duration `yaml:"access_ttl" mapstructure:"access_ttl"`

	// RefreshTTL is the lifetime of refresh tokens (default: 168h).
	RefreshTTL time.Duration `yaml:"refresh_ttl" mapstructure:"refresh_ttl"`

	// VerifyTTL is the lifetime of email-verification tokens (default: 24h).
	VerifyTTL time.Duration `yaml:"verify_ttl" mapstructure:"verify_ttl"`
}

// ApplyDefaults sets sensible defaults for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.Issuer == "" {
		c.Issuer = "onlygrow-identity"
	}
	if c.AccessTTL == 0 {
		c.AccessTTL = 15 * time.Minute
	}
	if c.RefreshTTL == 0 {
		c.RefreshTTL = 7 * 24 * time.Hour
	}
	if c.VerifyTTL == 0 {
		c.VerifyTTL = 24 * time.Hour
	}
}

// Validate checks required fields.
func (c *Config) Validate() error {
	if c.Secret == "" {
		return errors.New("token: secret is required")
	}
	return nil
}
