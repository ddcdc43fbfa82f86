package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/inkpress/inkpress/internal/repository"
)

// Lock implements repository.DistributedLock using Redis.
// Locks are keyed values holding an owner token; release and extend only
// succeed for the owner, via server-side scripts.
type Lock struct {
	client *redis.Client
	token  string
}

// releaseScript deletes the key only if it holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// extendScript refreshes the TTL only if the key holds our token.
var extendScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0
`)

// NewLock creates a new Redis-backed distributed lock.
// Each Lock instance has its own owner token.
func NewLock(client *redis.Client) *Lock {
	return &Lock{
		client: client,
		token:  uuid.NewString(),
	}
}

// Acquire attempts to acquire a lock.
func (l *Lock) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	acquired, err := l.client.SetNX(ctx, key, l.token, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire lock %q: %w", key, err)
	}
	return acquired, nil
}

// AcquireWithRetry attempts to acquire a lock with retries.
func (l *Lock) AcquireWithRetry(ctx context.Context, key string, ttl time.Duration, maxRetries int, retryDelay time.Duration) (bool, error) {
	for i := 0; i <= maxRetries; i++ {
		acquired, err := l.Acquire(ctx, key, ttl)
		if err != nil {
			return false, err
		}
		if acquired {
			return true, nil
		}

		// Don't sleep on the last attempt.
		if i < maxRetries {
			select {
			case <-ctx.Done():
				return false, ctx.Err()
			case <-time.After(retryDelay):
			}
		}
	}
	return false, nil
}

// Release releases a lock held by this instance.
func (l *Lock) Release(ctx context.Context, key string) (bool, error) {
	n, err := releaseScript.Run(ctx, l.client, []string{key}, l.token).Int()
	if err != nil {
		return false, fmt.Errorf("failed to release lock %q: %w", key, err)
	}
	return n == 1, nil
}

// Extend extends the TTL of a held lock.
func (l *Lock) Extend(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	n, err := extendScript.Run(ctx, l.client, []string{key}, l.token, ttl.Milliseconds()).Int()
	if err != nil {
		return false, fmt.Errorf("failed to extend lock %q: %w", key, err)
	}
	return n == 1, nil
}

// IsHeld checks if the lock is currently held by anyone.
func (l *Lock) IsHeld(ctx context.Context, key string) (bool, error) {
	n, err := l.client.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check lock %q: %w", key, err)
	}
	return n > 0, nil
}

// Ensure Lock implements repository.DistributedLock.
var _ repository.DistributedLock = (*Lock)(nil)
