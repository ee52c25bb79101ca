package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of every environment override.
const EnvPrefix = "IDENTITY"

// LoaderOption configures Load.
type LoaderOption func(*loaderOptions)

type loaderOptions struct {
	configFile string
	envFile    string
}

// WithConfigFile sets an explicit config file path instead of searching.
func WithConfigFile(path string) LoaderOption {
	return func(o *loaderOptions) { o.configFile = path }
}

// WithEnvFile sets an explicit .env file path instead of searching.
func WithEnvFile(path string) LoaderOption {
	return func(o *loaderOptions) { o.envFile = path }
}

// Load reads the configuration, applies defaults, and validates it. The
// YAML file is the base, a .env file fills the process environment, and
// IDENTITY_-prefixed variables override individual keys.
func Load(opts ...LoaderOption) (*Config, error) {
	var o loaderOptions
	for _, opt := range opts {
		opt(&o)
	}
	if o.configFile == "" {
		o.configFile = findFile("config.yml")
	}
	if o.envFile == "" {
		o.envFile = findFile(".env")
	}

	if o.envFile != "" {
		if err := godotenv.Load(o.envFile); err != nil {
			return nil, fmt.Errorf("config: load env file %s: %w", o.envFile, err)
		}
	}

	v := viper.New()
	if o.configFile != "" {
		v.SetConfigFile(o.configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", o.configFile, err)
		}
	}
	bindEnvOverrides(v)

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// findFile searches the standard locations for a file and returns the
// first hit, or "".
func findFile(name string) string {
	for _, path := range []string{
		"./" + name,
		"./cmd/identityd/" + name,
		"../" + name,
		"../../" + name,
	} {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// bindEnvOverrides maps IDENTITY_-prefixed environment variables onto
// nested config keys. Underscores are ambiguous between nesting and field
// names (IDENTITY_TOKEN_ACCESS_TTL is token.access_ttl, not
// token.access.ttl), so every split is registered and the deepest-matching
// key wins in viper.
func bindEnvOverrides(v *viper.Viper) {
	for _, env := range os.Environ() {
		key, value, ok := strings.Cut(env, "=")
		if !ok || !strings.HasPrefix(key, EnvPrefix+"_") {
			continue
		}

		rest := strings.ToLower(strings.TrimPrefix(key, EnvPrefix+"_"))
		parts := strings.Split(rest, "_")
		for i := 1; i <= len(parts); i++ {
			candidate := strings.Join(parts[:i], ".")
			if i < len(parts) {
				candidate += "." + strings.Join(parts[i:], "_")
			}
			v.Set(candidate, value)
		}
		v.Set(rest, value)
	}
}
