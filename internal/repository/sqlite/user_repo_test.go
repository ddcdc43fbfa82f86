package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/inkpress/inkpress/internal/domain"
	"github.com/inkpress/inkpress/internal/repository"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := NewDB(context.Background(), DefaultConfig(":memory:"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, db.Migrate(context.Background()))
	return db
}

func newTestUser(name, username string) *domain.User {
	return domain.NewUser(uuid.New().String(), name, username, "bcrypt-hash")
}

func TestUserRepository_CreateAndGet(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))
	ctx := context.Background()

	user := newTestUser("Ada Lovelace", "ada")
	user.ImageURL = "/uploads/user-images/user-1.png"
	require.NoError(t, repo.Create(ctx, user))

	byID, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, user.Username, byID.Username)
	require.Equal(t, user.Name, byID.Name)
	require.Equal(t, user.PasswordHash, byID.PasswordHash)
	require.Equal(t, user.ImageURL, byID.ImageURL)
	require.True(t, user.CreatedAt.Equal(byID.CreatedAt))

	byUsername, err := repo.GetByUsername(ctx, "ada")
	require.NoError(t, err)
	require.Equal(t, user.ID, byUsername.ID)

	_, err = repo.GetByID(ctx, uuid.New().String())
	require.ErrorIs(t, err, repository.ErrNotFound)

	_, err = repo.GetByUsername(ctx, "nobody")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUserRepository_CreateDuplicateUsername(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newTestUser("Ada Lovelace", "ada")))

	err := repo.Create(ctx, newTestUser("Impostor", "ada"))
	require.ErrorIs(t, err, repository.ErrDuplicate)
}

func TestUserRepository_Update(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))
	ctx := context.Background()

	user := newTestUser("Ada Lovelace", "ada")
	require.NoError(t, repo.Create(ctx, user))

	user.Name = "Countess of Lovelace"
	user.Username = "countess"
	require.NoError(t, repo.Update(ctx, user))

	got, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, "Countess of Lovelace", got.Name)
	require.Equal(t, "countess", got.Username)
	require.False(t, got.UpdatedAt.Before(got.CreatedAt))

	missing := newTestUser("Ghost", "ghost")
	require.ErrorIs(t, repo.Update(ctx, missing), repository.ErrNotFound)
}

func TestUserRepository_UpdateUsernameCollision(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newTestUser("Ada Lovelace", "ada")))
	grace := newTestUser("Grace Hopper", "grace")
	require.NoError(t, repo.Create(ctx, grace))

	grace.Username = "ada"
	require.ErrorIs(t, repo.Update(ctx, grace), repository.ErrDuplicate)
}

func TestUserRepository_Delete(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))
	ctx := context.Background()

	user := newTestUser("Ada Lovelace", "ada")
	require.NoError(t, repo.Create(ctx, user))
	require.NoError(t, repo.Delete(ctx, user.ID))

	_, err := repo.GetByID(ctx, user.ID)
	require.ErrorIs(t, err, repository.ErrNotFound)

	require.ErrorIs(t, repo.Delete(ctx, user.ID), repository.ErrNotFound)
}

func TestUserRepository_ListOrdering(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))
	ctx := context.Background()

	base := time.Now().UTC().Add(-time.Hour)
	for i, username := range []string{"ada", "grace", "radia"} {
		user := newTestUser("", username)
		user.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		user.UpdatedAt = user.CreatedAt
		require.NoError(t, repo.Create(ctx, user))
	}

	users, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 3)
	require.Equal(t, "radia", users[0].Username)
	require.Equal(t, "grace", users[1].Username)
	require.Equal(t, "ada", users[2].Username)
}

func TestUserRepository_ExistsByUsername(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))
	ctx := context.Background()

	exists, err := repo.ExistsByUsername(ctx, "ada")
	require.NoError(t, err)
	require.False(t, exists)

	require.NoError(t, repo.Create(ctx, newTestUser("Ada Lovelace", "ada")))

	exists, err = repo.ExistsByUsername(ctx, "ada")
	require.NoError(t, err)
	require.True(t, exists)
}
