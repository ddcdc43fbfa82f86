package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/inkpress/inkpress/internal/domain"
	"github.com/inkpress/inkpress/internal/lock"
)

func newTestAuthService(userRepo *MockUserRepository, store *MockStorage) *AuthService {
	tokens := NewTokenService("test-secret", time.Hour, zerolog.Nop())
	// MinCost keeps the hashing fast in tests.
	return NewAuthService(userRepo, tokens, store, lock.NewMemoryLocker(), bcrypt.MinCost, zerolog.Nop())
}

func TestAuthService_SignUp(t *testing.T) {
	tests := []struct {
		name      string
		input     SignUpInput
		wantErr   error
		setupRepo func(*MockUserRepository)
	}{
		{
			name:    "success",
			input:   SignUpInput{Name: "Ada Lovelace", Username: "ada", Password: "secret1"},
			wantErr: nil,
		},
		{
			name:    "username is normalized",
			input:   SignUpInput{Name: "Ada Lovelace", Username: "  ADA  ", Password: "secret1"},
			wantErr: nil,
		},
		{
			name:    "weak password",
			input:   SignUpInput{Name: "Ada Lovelace", Username: "ada", Password: "12345"},
			wantErr: domain.ErrWeakPassword,
		},
		{
			name:    "name too short",
			input:   SignUpInput{Name: "A", Username: "ada", Password: "secret1"},
			wantErr: domain.ErrInvalidName,
		},
		{
			name:    "username too short",
			input:   SignUpInput{Name: "Ada Lovelace", Username: "ab", Password: "secret1"},
			wantErr: domain.ErrInvalidUsername,
		},
		{
			name:    "username taken",
			input:   SignUpInput{Name: "Ada Lovelace", Username: "ada", Password: "secret1"},
			wantErr: domain.ErrUsernameTaken,
			setupRepo: func(m *MockUserRepository) {
				m.users["u1"] = domain.NewUser("u1", "Other", "ada", "hash")
			},
		},
		{
			name:    "username taken case-insensitively",
			input:   SignUpInput{Name: "Ada Lovelace", Username: "AdA", Password: "secret1"},
			wantErr: domain.ErrUsernameTaken,
			setupRepo: func(m *MockUserRepository) {
				m.users["u1"] = domain.NewUser("u1", "Other", "ada", "hash")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := NewMockUserRepository()
			if tt.setupRepo != nil {
				tt.setupRepo(repo)
			}
			svc := newTestAuthService(repo, NewMockStorage())

			output, err := svc.SignUp(context.Background(), tt.input)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			require.NotEmpty(t, output.Token)
			require.Equal(t, "ada", output.User.Username)
			require.Equal(t, "Ada Lovelace", output.User.Name)
			require.NotEmpty(t, output.User.ID)
		})
	}
}

func TestAuthService_SignUpWithImage(t *testing.T) {
	repo := NewMockUserRepository()
	store := NewMockStorage()
	svc := newTestAuthService(repo, store)

	output, err := svc.SignUp(context.Background(), SignUpInput{
		Name:     "Ada Lovelace",
		Username: "ada",
		Password: "secret1",
		Image:    &ImageUpload{Filename: "me.png", Reader: strings.NewReader("img")},
	})
	require.NoError(t, err)
	require.NotEmpty(t, output.User.ImageURL)
	require.True(t, store.Has(output.User.ImageURL))
}

func TestAuthService_SignIn(t *testing.T) {
	repo := NewMockUserRepository()
	svc := newTestAuthService(repo, NewMockStorage())

	_, err := svc.SignUp(context.Background(), SignUpInput{
		Name: "Ada Lovelace", Username: "ada", Password: "secret1",
	})
	require.NoError(t, err)

	tests := []struct {
		name     string
		username string
		password string
		wantErr  error
	}{
		{name: "success", username: "ada", password: "secret1"},
		{name: "uppercase username", username: "ADA", password: "secret1"},
		{name: "wrong password", username: "ada", password: "wrong-pass", wantErr: domain.ErrInvalidCredentials},
		{name: "unknown user", username: "nobody", password: "secret1", wantErr: domain.ErrInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := svc.SignIn(context.Background(), SignInInput{
				Username: tt.username,
				Password: tt.password,
			})

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			require.NotEmpty(t, output.Token)
			require.Equal(t, "ada", output.User.Username)
		})
	}
}

func TestAuthService_SignInErrorsIndistinguishable(t *testing.T) {
	repo := NewMockUserRepository()
	svc := newTestAuthService(repo, NewMockStorage())

	_, err := svc.SignUp(context.Background(), SignUpInput{
		Name: "Ada Lovelace", Username: "ada", Password: "secret1",
	})
	require.NoError(t, err)

	_, errUnknown := svc.SignIn(context.Background(), SignInInput{Username: "nobody", Password: "secret1"})
	_, errWrongPass := svc.SignIn(context.Background(), SignInInput{Username: "ada", Password: "wrong-pass"})

	require.ErrorIs(t, errUnknown, domain.ErrInvalidCredentials)
	require.ErrorIs(t, errWrongPass, domain.ErrInvalidCredentials)
	require.Equal(t, errUnknown.Error(), errWrongPass.Error())
}

func TestAuthService_GetCurrentUser(t *testing.T) {
	repo := NewMockUserRepository()
	svc := newTestAuthService(repo, NewMockStorage())

	output, err := svc.SignUp(context.Background(), SignUpInput{
		Name: "Ada Lovelace", Username: "ada", Password: "secret1",
	})
	require.NoError(t, err)

	view, err := svc.GetCurrentUser(context.Background(), output.User.ID)
	require.NoError(t, err)
	require.Equal(t, "ada", view.Username)

	_, err = svc.GetCurrentUser(context.Background(), "missing-id")
	require.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestAuthService_UpdateUser(t *testing.T) {
	strPtr := func(s string) *string { return &s }

	tests := []struct {
		name    string
		input   UpdateUserInput
		wantErr error
		check   func(t *testing.T, view *domain.UserView)
	}{
		{
			name:  "rename display name",
			input: UpdateUserInput{Name: strPtr("  Grace Hopper  ")},
			check: func(t *testing.T, view *domain.UserView) {
				require.Equal(t, "Grace Hopper", view.Name)
				require.Equal(t, "ada", view.Username)
			},
		},
		{
			name:  "rename username is normalized",
			input: UpdateUserInput{Username: strPtr("  GRACE  ")},
			check: func(t *testing.T, view *domain.UserView) {
				require.Equal(t, "grace", view.Username)
			},
		},
		{
			name:  "same username is a no-op",
			input: UpdateUserInput{Username: strPtr("ADA")},
			check: func(t *testing.T, view *domain.UserView) {
				require.Equal(t, "ada", view.Username)
			},
		},
		{
			name:    "weak new password",
			input:   UpdateUserInput{Password: strPtr("123")},
			wantErr: domain.ErrWeakPassword,
		},
		{
			name:    "invalid new name",
			input:   UpdateUserInput{Name: strPtr(" x ")},
			wantErr: domain.ErrInvalidName,
		},
		{
			name:    "username collision",
			input:   UpdateUserInput{Username: strPtr("taken")},
			wantErr: domain.ErrUsernameTaken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := NewMockUserRepository()
			repo.users["u2"] = domain.NewUser("u2", "Other", "taken", "hash")
			svc := newTestAuthService(repo, NewMockStorage())

			signedUp, err := svc.SignUp(context.Background(), SignUpInput{
				Name: "Ada Lovelace", Username: "ada", Password: "secret1",
			})
			require.NoError(t, err)

			input := tt.input
			input.UserID = signedUp.User.ID
			view, err := svc.UpdateUser(context.Background(), input)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			tt.check(t, view)
		})
	}
}

func TestAuthService_UpdateUserPasswordChange(t *testing.T) {
	strPtr := func(s string) *string { return &s }

	repo := NewMockUserRepository()
	svc := newTestAuthService(repo, NewMockStorage())

	signedUp, err := svc.SignUp(context.Background(), SignUpInput{
		Name: "Ada Lovelace", Username: "ada", Password: "secret1",
	})
	require.NoError(t, err)

	_, err = svc.UpdateUser(context.Background(), UpdateUserInput{
		UserID:   signedUp.User.ID,
		Password: strPtr("new-secret"),
	})
	require.NoError(t, err)

	_, err = svc.SignIn(context.Background(), SignInInput{Username: "ada", Password: "secret1"})
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)

	output, err := svc.SignIn(context.Background(), SignInInput{Username: "ada", Password: "new-secret"})
	require.NoError(t, err)
	require.NotEmpty(t, output.Token)
}

func TestAuthService_UpdateUserImageReplacesOld(t *testing.T) {
	repo := NewMockUserRepository()
	store := NewMockStorage()
	svc := newTestAuthService(repo, store)

	signedUp, err := svc.SignUp(context.Background(), SignUpInput{
		Name:     "Ada Lovelace",
		Username: "ada",
		Password: "secret1",
		Image:    &ImageUpload{Filename: "one.png", Reader: strings.NewReader("a")},
	})
	require.NoError(t, err)
	firstImage := signedUp.User.ImageURL

	view, err := svc.UpdateUser(context.Background(), UpdateUserInput{
		UserID: signedUp.User.ID,
		Image:  &ImageUpload{Filename: "two.png", Reader: strings.NewReader("b")},
	})
	require.NoError(t, err)
	require.NotEqual(t, firstImage, view.ImageURL)
	require.True(t, store.Has(view.ImageURL))
	require.False(t, store.Has(firstImage), "old blob should be removed")
}
