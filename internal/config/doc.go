// Package config loads the identity service configuration: a YAML file as
// the base, an optional .env file, and IDENTITY_-prefixed environment
// variables overriding both. The result is one explicit Config struct the
// constructors receive; nothing reads the environment past startup.
//
// Environment keys map onto nested config keys by splitting on
// underscores, so IDENTITY_TOKEN_ACCESS_TTL overrides token.access_ttl and
// IDENTITY_DATABASE_DSN overrides database.dsn.
package config
