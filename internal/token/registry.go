package token

import (
	"context"
	"sync"
	"time"
)

// Registry is the revocation registry consulted on every Refresh. Entries
// are keyed by the refresh token's jti and expire with the token itself.
//
// Implementations must be read-your-writes: an Add that has returned is
// visible to every Contains that starts afterwards.
type Registry interface {
	// Add records a jti as revoked for the given duration. Adding an
	// already-present jti is not an error.
	Add(ctx context.Context, jti string, ttl time.Duration) error

	// Contains reports whether the jti has been revoked.
	Contains(ctx context.Context, jti string) (bool, error)
}

// MemoryRegistry is a process-local Registry for tests and single-node
// development. Expired entries are pruned lazily on lookup.
type MemoryRegistry struct {
	mu      sync.RWMutex
	entries map[string]time.Time
}

// NewMemoryRegistry creates an empty in-memory registry.
func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{entries: make(map[string]time.Time)}
}

func (r *MemoryRegistry) Add(_ context.Context, jti string, ttl time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[jti]; !ok {
		r.entries[jti] = time.Now().Add(ttl)
	}
	return nil
}

func (r *MemoryRegistry) Contains(_ context.Context, jti string) (bool, error) {
	r.mu.RLock()
	expiry, ok := r.entries[jti]
	r.mu.RUnlock()
	if !ok {
		return false, nil
	}
	if time.Now().After(expiry) {
		r.mu.Lock()
		delete(r.entries, jti)
		r.mu.Unlock()
		return false, nil
	}
	return true, nil
}

// compile-time interface check
var _ Registry = (*MemoryRegistry)(nil)
