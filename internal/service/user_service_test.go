package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/inkpress/inkpress/internal/domain"
)

func TestUserService_List(t *testing.T) {
	repo := NewMockUserRepository()
	svc := NewUserService(repo, zerolog.Nop())

	views, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Empty(t, views)

	base := time.Now().UTC().Add(-time.Hour)
	for i, username := range []string{"ada", "grace", "radia"} {
		user := domain.NewUser(uuid.New().String(), "", username, "hash")
		user.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		repo.users[user.ID] = user
	}

	views, err = svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, views, 3)
	require.Equal(t, "radia", views[0].Username)
	require.Equal(t, "grace", views[1].Username)
	require.Equal(t, "ada", views[2].Username)
}

func TestUserService_GetByID(t *testing.T) {
	repo := NewMockUserRepository()
	svc := NewUserService(repo, zerolog.Nop())

	user := domain.NewUser(uuid.New().String(), "Ada Lovelace", "ada", "hash")
	repo.users[user.ID] = user

	view, err := svc.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	require.Equal(t, "ada", view.Username)

	_, err = svc.GetByID(context.Background(), uuid.New().String())
	require.ErrorIs(t, err, domain.ErrUserNotFound)

	_, err = svc.GetByID(context.Background(), "not-a-uuid")
	require.ErrorIs(t, err, domain.ErrUserNotFound)
}
