// Package auth provides bearer token authentication middleware.
// Tokens are verified cryptographically and the carried user is
// re-resolved on every request so that deleted users are locked out
// immediately even while their tokens are still within TTL.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/inkpress/inkpress/internal/repository"
	"github.com/inkpress/inkpress/internal/service"
)

type contextKey int

const identityKey contextKey = iota

// Middleware authenticates requests carrying a bearer token.
type Middleware struct {
	tokens   *service.TokenService
	userRepo repository.UserRepository
	logger   zerolog.Logger
}

// NewMiddleware creates a new authentication middleware.
func NewMiddleware(tokens *service.TokenService, userRepo repository.UserRepository, logger zerolog.Logger) *Middleware {
	return &Middleware{
		tokens:   tokens,
		userRepo: userRepo,
		logger:   logger.With().Str("component", "auth").Logger(),
	}
}

// RequireAuth rejects requests without a valid bearer token. On success
// the caller's identity is attached to the request context.
func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			m.unauthorized(w, "missing or malformed authorization header")
			return
		}

		identity, err := m.tokens.Verify(token)
		if err != nil {
			m.unauthorized(w, err.Error())
			return
		}

		// The token may outlive the user record.
		user, err := m.userRepo.GetByID(r.Context(), identity.UserID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				m.unauthorized(w, "user no longer exists")
				return
			}
			m.logger.Error().Err(err).Str("user_id", identity.UserID).Msg("failed to resolve token user")
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}

		// Claims may be stale after a rename; the record wins.
		identity.Username = user.Username
		identity.Name = user.Name

		ctx := context.WithValue(r.Context(), identityKey, identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// IdentityFromContext extracts the authenticated identity attached by
// RequireAuth. The boolean is false on requests that bypassed it.
func IdentityFromContext(ctx context.Context) (*service.Identity, bool) {
	identity, ok := ctx.Value(identityKey).(*service.Identity)
	return identity, ok
}

// bearerToken extracts the token from an "Authorization: Bearer <token>"
// header.
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}

	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}

	token = strings.TrimSpace(token)
	return token, token != ""
}

func (m *Middleware) unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
