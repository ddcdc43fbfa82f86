package service

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/inkpress/inkpress/internal/domain"
)

func TestTokenService_IssueAndVerify(t *testing.T) {
	svc := NewTokenService("test-secret", time.Hour, zerolog.Nop())
	user := domain.NewUser("user-1", "Ada Lovelace", "ada", "hash")

	token, err := svc.Issue(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	identity, err := svc.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "user-1", identity.UserID)
	require.Equal(t, "ada", identity.Username)
	require.Equal(t, "Ada Lovelace", identity.Name)
}

func TestTokenService_VerifyRejects(t *testing.T) {
	svc := NewTokenService("test-secret", time.Hour, zerolog.Nop())
	user := domain.NewUser("user-1", "Ada Lovelace", "ada", "hash")

	valid, err := svc.Issue(user)
	require.NoError(t, err)

	expired, err := NewTokenService("test-secret", -time.Minute, zerolog.Nop()).Issue(user)
	require.NoError(t, err)

	otherKey, err := NewTokenService("other-secret", time.Hour, zerolog.Nop()).Issue(user)
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{name: "garbage", token: "not-a-token", wantErr: domain.ErrInvalidToken},
		{name: "empty", token: "", wantErr: domain.ErrInvalidToken},
		{name: "wrong key", token: otherKey, wantErr: domain.ErrInvalidToken},
		{name: "expired", token: expired, wantErr: domain.ErrTokenExpired},
		{name: "truncated", token: valid[:len(valid)-5], wantErr: domain.ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Verify(tt.token)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}
