package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultIdempotencyTTL = 24 * time.Hour

// IdempotencyStore remembers which resource a client-supplied idempotency key
// created. Key format: idempotency:<scope>:<key>
type IdempotencyStore struct {
	client *redis.Client
	scope  string
}

// NewIdempotencyStore creates an IdempotencyStore for one kind of resource.
func NewIdempotencyStore(client *redis.Client, scope string) *IdempotencyStore {
	return &IdempotencyStore{client: client, scope: scope}
}

// Lookup returns the resource ID stored for key, or "" when the key is unknown.
func (s *IdempotencyStore) Lookup(ctx context.Context, key string) (string, error) {
	id, err := s.client.Get(ctx, s.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("idempotency lookup: %w", err)
	}
	return id, nil
}

// Remember stores resourceID under key. An existing mapping is kept.
func (s *IdempotencyStore) Remember(ctx context.Context, key, resourceID string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = defaultIdempotencyTTL
	}
	if err := s.client.SetNX(ctx, s.key(key), resourceID, ttl).Err(); err != nil {
		return fmt.Errorf("idempotency remember: %w", err)
	}
	return nil
}

func (s *IdempotencyStore) key(key string) string {
	return fmt.Sprintf("idempotency:%s:%s", s.scope, key)
}
