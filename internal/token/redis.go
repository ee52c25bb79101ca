package token

import (
	"context"
	"fmt"
	"time"

	"github.com/onlygrow/identity/internal/redis"
)

const revokedKeyPrefix = "revoked:"

// RedisRegistry implements Registry on Redis. The entry TTL matches the
// revoked token's remaining validity, so the set cleans itself up.
type RedisRegistry struct {
	client *redis.Client
}

// NewRedisRegistry creates a Registry backed by the given Redis client.
func NewRedisRegistry(client *redis.Client) *RedisRegistry {
	return &RedisRegistry{client: client}
}

func (r *RedisRegistry) Add(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl < time.Second {
		ttl = time.Second
	}
	if err := r.client.Set(ctx, revokedKeyPrefix+jti, "1", ttl); err != nil {
		return fmt.Errorf("revocation registry: add %q: %w", jti, err)
	}
	return nil
}

func (r *RedisRegistry) Contains(ctx context.Context, jti string) (bool, error) {
	n, err := r.client.Exists(ctx, revokedKeyPrefix+jti)
	if err != nil {
		return false, fmt.Errorf("revocation registry: lookup %q: %w", jti, err)
	}
	return n > 0, nil
}

// compile-time interface check
var _ Registry = (*RedisRegistry)(nil)
