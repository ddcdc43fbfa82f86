// Package lock provides distributed and local locking abstractions.
package lock

import (
	"context"
	"time"

	"github.com/inkpress/inkpress/internal/repository"
)

// RedisLocker adapts a repository.DistributedLock to the Locker
// interface, for deployments where username locks must hold across
// multiple server instances.
type RedisLocker struct {
	impl repository.DistributedLock
}

// NewRedisLocker wraps a DistributedLock implementation.
func NewRedisLocker(impl repository.DistributedLock) *RedisLocker {
	return &RedisLocker{impl: impl}
}

func (l *RedisLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return l.impl.Acquire(ctx, key, ttl)
}

func (l *RedisLocker) AcquireWithRetry(ctx context.Context, key string, ttl time.Duration, maxRetries int, retryDelay time.Duration) (bool, error) {
	return l.impl.AcquireWithRetry(ctx, key, ttl, maxRetries, retryDelay)
}

func (l *RedisLocker) Release(ctx context.Context, key string) (bool, error) {
	return l.impl.Release(ctx, key)
}

func (l *RedisLocker) Extend(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return l.impl.Extend(ctx, key, ttl)
}

func (l *RedisLocker) IsHeld(ctx context.Context, key string) (bool, error) {
	return l.impl.IsHeld(ctx, key)
}

// Ensure RedisLocker implements Locker.
var _ Locker = (*RedisLocker)(nil)
