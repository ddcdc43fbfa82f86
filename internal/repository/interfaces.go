// Package repository defines data access interfaces for Inkpress.
// These interfaces abstract database operations, allowing for different
// implementations (PostgreSQL, SQLite, in-memory for testing) while keeping
// the service layer clean.
package repository

import (
	"context"
	"time"

	"github.com/inkpress/inkpress/internal/domain"
)

// =============================================================================
// User Repository
// =============================================================================

// UserRepository defines the interface for user data access.
type UserRepository interface {
	// Create creates a new user.
	// Returns ErrDuplicate if the username is already taken; the unique
	// index is the backstop for the check-then-write race.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by ID.
	GetByID(ctx context.Context, id string) (*domain.User, error)

	// GetByUsername retrieves a user by normalized username.
	GetByUsername(ctx context.Context, username string) (*domain.User, error)

	// Update updates an existing user. UpdatedAt is set by the repository.
	Update(ctx context.Context, user *domain.User) error

	// Delete deletes a user by ID. Used by the admin CLI only.
	Delete(ctx context.Context, id string) error

	// List returns all users ordered by descending creation time.
	List(ctx context.Context) ([]*domain.User, error)

	// ExistsByUsername checks if a user with the given username exists.
	ExistsByUsername(ctx context.Context, username string) (bool, error)
}

// =============================================================================
// Blog Repository
// =============================================================================

// BlogRepository defines the interface for blog data access.
type BlogRepository interface {
	// Create creates a new blog.
	Create(ctx context.Context, blog *domain.Blog) error

	// GetByID retrieves a blog by ID.
	GetByID(ctx context.Context, id string) (*domain.Blog, error)

	// List returns all blogs ordered by descending creation time.
	List(ctx context.Context) ([]*domain.Blog, error)

	// Update updates an existing blog. UpdatedAt is set by the repository.
	// Tags are replaced wholesale.
	Update(ctx context.Context, blog *domain.Blog) error

	// Delete deletes a blog by ID.
	Delete(ctx context.Context, id string) error
}

// =============================================================================
// Cache Interface
// =============================================================================

// Cache defines the interface for caching operations.
// Implemented by Redis for distributed deployments and by an in-memory
// cache for single-node ones.
type Cache interface {
	// Get retrieves a value by key.
	// Returns ErrCacheMiss if the key doesn't exist.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value with an optional TTL.
	// If ttl is 0, the value doesn't expire.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// SetNX sets a value only if the key doesn't exist.
	// Returns true if the value was set, false if the key already exists.
	SetNX(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error)

	// Delete removes a value by key.
	Delete(ctx context.Context, key string) error

	// Exists checks if a key exists.
	Exists(ctx context.Context, key string) (bool, error)
}

// =============================================================================
// Distributed Lock Interface
// =============================================================================

// DistributedLock defines the interface for distributed locking.
// Used to serialize username check-then-write critical sections across
// multiple server instances.
type DistributedLock interface {
	// Acquire attempts to acquire a lock.
	// Returns true if the lock was acquired, false if it's held elsewhere.
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// AcquireWithRetry attempts to acquire a lock with retries.
	AcquireWithRetry(ctx context.Context, key string, ttl time.Duration, maxRetries int, retryDelay time.Duration) (bool, error)

	// Release releases a lock.
	// Returns true if the lock was released, false if it wasn't held.
	Release(ctx context.Context, key string) (bool, error)

	// Extend extends the TTL of a held lock.
	Extend(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// IsHeld checks if the lock is currently held.
	IsHeld(ctx context.Context, key string) (bool, error)
}
