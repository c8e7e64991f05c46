package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// Store is the external key/value store holding lock entries. Both operations
// must be atomic on the store side.
type Store interface {
	// PutIfAbsent creates key with token and ttl unless it already exists.
	PutIfAbsent(ctx context.Context, key, token string, ttl time.Duration) (bool, error)
	// Delete removes key if it is still held by token. Missing keys are not an error.
	Delete(ctx context.Context, key, token string) error
}

// compare-and-delete so an expired holder never removes a successor's entry
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisStore implements Store on a single Redis node with SET NX PX
type RedisStore struct {
	client redis.Cmdable
}

func NewRedisStore(client redis.Cmdable) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) PutIfAbsent(ctx context.Context, key, token string, ttl time.Duration) (bool, error) {
	ok, err := s.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis setnx %s: %w", key, err)
	}
	return ok, nil
}

func (s *RedisStore) Delete(ctx context.Context, key, token string) error {
	if err := releaseScript.Run(ctx, s.client, []string{key}, token).Err(); err != nil && err != redis.Nil {
		return fmt.Errorf("redis release %s: %w", key, err)
	}
	return nil
}
