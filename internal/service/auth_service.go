package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/inkpress/inkpress/internal/domain"
	"github.com/inkpress/inkpress/internal/lock"
	"github.com/inkpress/inkpress/internal/repository"
	"github.com/inkpress/inkpress/internal/storage"
)

// Username lock parameters. The critical section is a single uniqueness
// check plus insert, so contention windows are short.
const (
	usernameLockTTL      = 5 * time.Second
	usernameLockRetries  = 3
	usernameLockInterval = 100 * time.Millisecond
)

// ImageUpload is an uploaded image attached to a request.
type ImageUpload struct {
	Filename string
	Reader   io.Reader
}

// AuthService handles registration, login and profile management.
type AuthService struct {
	userRepo   repository.UserRepository
	tokens     *TokenService
	store      storage.Backend
	locker     lock.Locker
	bcryptCost int
	logger     zerolog.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(
	userRepo repository.UserRepository,
	tokens *TokenService,
	store storage.Backend,
	locker lock.Locker,
	bcryptCost int,
	logger zerolog.Logger,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		tokens:     tokens,
		store:      store,
		locker:     locker,
		bcryptCost: bcryptCost,
		logger:     logger.With().Str("service", "auth").Logger(),
	}
}

// =============================================================================
// Input/Output Structs
// =============================================================================

// SignUpInput contains the data needed to register a user.
type SignUpInput struct {
	Name     string
	Username string
	Password string
	Image    *ImageUpload // Optional
}

// SignUpOutput contains the result of a successful registration.
type SignUpOutput struct {
	Token string
	User  domain.UserView
}

// SignInInput contains the data needed to authenticate a user.
type SignInInput struct {
	Username string
	Password string
}

// SignInOutput contains the result of a successful login.
type SignInOutput struct {
	Token string
	User  domain.UserView
}

// UpdateUserInput contains the data needed to update a profile.
// Nil fields are left unchanged.
type UpdateUserInput struct {
	UserID   string
	Name     *string
	Username *string
	Password *string
	Image    *ImageUpload // Optional; replaces the current image
}

// =============================================================================
// Service Methods
// =============================================================================

// SignUp registers a new user and returns a signed token.
// The username uniqueness check runs under a per-username lock; the
// database unique index is the backstop for lock failures.
func (s *AuthService) SignUp(ctx context.Context, input SignUpInput) (*SignUpOutput, error) {
	if err := validateName(input.Name); err != nil {
		return nil, err
	}
	if err := validateUsername(input.Username); err != nil {
		return nil, err
	}
	if err := validatePassword(input.Password); err != nil {
		return nil, err
	}

	username := domain.NormalizeUsername(input.Username)

	acquired, err := s.locker.AcquireWithRetry(ctx, lock.Keys.Username(username), usernameLockTTL, usernameLockRetries, usernameLockInterval)
	if err != nil {
		s.logger.Error().Err(err).Str("username", username).Msg("failed to acquire username lock")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}
	if !acquired {
		return nil, ErrUsernameLocked
	}
	defer s.locker.Release(ctx, lock.Keys.Username(username))

	exists, err := s.userRepo.ExistsByUsername(ctx, username)
	if err != nil {
		s.logger.Error().Err(err).Str("username", username).Msg("failed to check username")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}
	if exists {
		return nil, domain.ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.bcryptCost)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to hash password")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	user := domain.NewUser(uuid.New().String(), input.Name, username, string(hash))

	if input.Image != nil {
		path, err := s.store.Save(ctx, storage.UserImages, input.Image.Filename, input.Image.Reader)
		if err != nil {
			s.logger.Error().Err(err).Msg("failed to store profile image")
			return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
		}
		user.ImageURL = path
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		s.removeImage(ctx, user.ImageURL)
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, domain.ErrUsernameTaken
		}
		s.logger.Error().Err(err).Str("username", username).Msg("failed to create user")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("user_id", user.ID).
		Str("username", user.Username).
		Msg("User registered")

	return &SignUpOutput{Token: token, User: user.View()}, nil
}

// SignIn authenticates a user by username and password. Unknown users
// and wrong passwords both yield domain.ErrInvalidCredentials so that
// responses cannot be used to enumerate usernames.
func (s *AuthService) SignIn(ctx context.Context, input SignInInput) (*SignInOutput, error) {
	username := domain.NormalizeUsername(input.Username)

	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		s.logger.Error().Err(err).Str("username", username).Msg("failed to get user")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("user_id", user.ID).
		Str("username", user.Username).
		Msg("User signed in")

	return &SignInOutput{Token: token, User: user.View()}, nil
}

// GetCurrentUser resolves the authenticated user's profile.
func (s *AuthService) GetCurrentUser(ctx context.Context, userID string) (*domain.UserView, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.ErrUserNotFound
		}
		s.logger.Error().Err(err).Str("user_id", userID).Msg("failed to get user")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	view := user.View()
	return &view, nil
}

// UpdateUser applies a partial update to the authenticated user's
// profile. Renames take the same per-username lock as signup; a new
// image replaces the old one, whose blob is removed best-effort.
func (s *AuthService) UpdateUser(ctx context.Context, input UpdateUserInput) (*domain.UserView, error) {
	user, err := s.userRepo.GetByID(ctx, input.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.ErrUserNotFound
		}
		s.logger.Error().Err(err).Str("user_id", input.UserID).Msg("failed to get user")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	if input.Name != nil {
		if err := validateName(*input.Name); err != nil {
			return nil, err
		}
		user.Name = strings.TrimSpace(*input.Name)
	}

	if input.Password != nil {
		if err := validatePassword(*input.Password); err != nil {
			return nil, err
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*input.Password), s.bcryptCost)
		if err != nil {
			s.logger.Error().Err(err).Msg("failed to hash password")
			return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
		}
		user.PasswordHash = string(hash)
	}

	if input.Username != nil {
		if err := validateUsername(*input.Username); err != nil {
			return nil, err
		}
		username := domain.NormalizeUsername(*input.Username)
		if username != user.Username {
			acquired, err := s.locker.AcquireWithRetry(ctx, lock.Keys.Username(username), usernameLockTTL, usernameLockRetries, usernameLockInterval)
			if err != nil {
				s.logger.Error().Err(err).Str("username", username).Msg("failed to acquire username lock")
				return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
			}
			if !acquired {
				return nil, ErrUsernameLocked
			}
			defer s.locker.Release(ctx, lock.Keys.Username(username))

			exists, err := s.userRepo.ExistsByUsername(ctx, username)
			if err != nil {
				s.logger.Error().Err(err).Str("username", username).Msg("failed to check username")
				return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
			}
			if exists {
				return nil, domain.ErrUsernameTaken
			}
			user.Username = username
		}
	}

	oldImage := ""
	if input.Image != nil {
		path, err := s.store.Save(ctx, storage.UserImages, input.Image.Filename, input.Image.Reader)
		if err != nil {
			s.logger.Error().Err(err).Msg("failed to store profile image")
			return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
		}
		oldImage = user.ImageURL
		user.ImageURL = path
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		if input.Image != nil {
			s.removeImage(ctx, user.ImageURL)
		}
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			return nil, domain.ErrUsernameTaken
		case errors.Is(err, repository.ErrNotFound):
			return nil, domain.ErrUserNotFound
		}
		s.logger.Error().Err(err).Str("user_id", user.ID).Msg("failed to update user")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	s.removeImage(ctx, oldImage)

	s.logger.Info().
		Str("user_id", user.ID).
		Str("username", user.Username).
		Msg("User profile updated")

	view := user.View()
	return &view, nil
}

// removeImage deletes a stored image blob. Failures are logged and
// swallowed; the owning record is already consistent.
func (s *AuthService) removeImage(ctx context.Context, publicPath string) {
	if publicPath == "" {
		return
	}
	if err := s.store.Remove(ctx, publicPath); err != nil && !errors.Is(err, storage.ErrBlobNotFound) {
		s.logger.Warn().Err(err).Str("path", publicPath).Msg("failed to remove image blob")
	}
}
