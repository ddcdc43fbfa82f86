package lock

import (
	"context"
	"sync"
	"time"
)

// MemoryLocker implements Locker with process-local locks. Suitable for
// single-node deployments; locks do not survive restarts and are not
// shared between instances.
type MemoryLocker struct {
	mu        sync.Mutex
	deadlines map[string]time.Time
}

// NewMemoryLocker creates a new in-memory locker.
func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{deadlines: make(map[string]time.Time)}
}

// Acquire attempts to acquire a lock. An expired entry counts as free.
func (m *MemoryLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	if deadline, held := m.deadlines[key]; held && now.Before(deadline) {
		return false, nil
	}

	m.deadlines[key] = now.Add(ttl)
	m.purgeLocked(now)
	return true, nil
}

// AcquireWithRetry attempts to acquire a lock, retrying up to maxRetries
// times with retryDelay between attempts.
func (m *MemoryLocker) AcquireWithRetry(ctx context.Context, key string, ttl time.Duration, maxRetries int, retryDelay time.Duration) (bool, error) {
	for attempt := 0; ; attempt++ {
		acquired, err := m.Acquire(ctx, key, ttl)
		if acquired || err != nil {
			return acquired, err
		}
		if attempt >= maxRetries {
			return false, nil
		}

		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-time.After(retryDelay):
		}
	}
}

// Release releases a lock. Returns false if the lock was not held.
func (m *MemoryLocker) Release(ctx context.Context, key string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	deadline, held := m.deadlines[key]
	delete(m.deadlines, key)
	return held && time.Now().Before(deadline), nil
}

// Extend pushes out the deadline of a held lock.
func (m *MemoryLocker) Extend(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	if deadline, held := m.deadlines[key]; !held || now.After(deadline) {
		delete(m.deadlines, key)
		return false, nil
	}

	m.deadlines[key] = now.Add(ttl)
	return true, nil
}

// IsHeld reports whether the lock is currently held.
func (m *MemoryLocker) IsHeld(ctx context.Context, key string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	deadline, held := m.deadlines[key]
	if held && time.Now().After(deadline) {
		delete(m.deadlines, key)
		return false, nil
	}
	return held, nil
}

// purgeLocked drops expired entries so abandoned keys do not pile up.
// Callers must hold m.mu.
func (m *MemoryLocker) purgeLocked(now time.Time) {
	for key, deadline := range m.deadlines {
		if now.After(deadline) {
			delete(m.deadlines, key)
		}
	}
}

// Ensure MemoryLocker implements Locker.
var _ Locker = (*MemoryLocker)(nil)
