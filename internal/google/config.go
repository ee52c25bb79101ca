package google

import (
	"errors"
	"net/http"
	"time"
)

// DefaultIssuer is Google's OpenID issuer.
const DefaultIssuer = "https://accounts.google.com"

// Config configures the Google ID-token verifier.
type Config struct {
	// ClientID is the OAuth client ID expected in the "aud" claim (required).
	ClientID string `yaml:"client_id" mapstructure:"client_id"`

	// Issuer is the OpenID issuer to discover against (default: Google's).
	Issuer string `yaml:"issuer" mapstructure:"issuer"`

	// JWKSCacheTTL controls how long signing keys are cached (default: 1h).
	JWKSCacheTTL time.Duration `yaml:"jwks_cache_ttl" mapstructure:"jwks_cache_ttl"`

	// HTTPClient is an optional client for discovery and JWKS requests.
	HTTPClient *http.Client `yaml:"-" mapstructure:"-"`
}

// ApplyDefaults sets sensible defaults for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.Issuer == "" {
		c.Issuer = DefaultIssuer
	}
	if c.JWKSCacheTTL == 0 {
		c.JWKSCacheTTL = time.Hour
	}
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: 10 * time.Second}
	}
}

// Validate checks required fields.
func (c *Config) Validate() error {
	if c.ClientID == "" {
		return errors.New("google: client_id is required")
	}
	return nil
}
