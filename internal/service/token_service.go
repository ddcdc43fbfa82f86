package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/inkpress/inkpress/internal/domain"
)

// Identity is the authenticated caller extracted from a verified token.
type Identity struct {
	UserID   string
	Username string
	Name     string
}

// TokenService issues and verifies signed bearer tokens.
// Tokens are HMAC-signed JWTs carrying the user's ID, username and
// display name, valid for a configured lifetime.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	logger zerolog.Logger
}

// NewTokenService creates a new TokenService.
func NewTokenService(secret string, ttl time.Duration, logger zerolog.Logger) *TokenService {
	return &TokenService{
		secret: []byte(secret),
		ttl:    ttl,
		logger: logger.With().Str("service", "token").Logger(),
	}
}

type tokenClaims struct {
	Username string `json:"username"`
	Name     string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// Issue creates a signed token for the user.
func (s *TokenService) Issue(user *domain.User) (string, error) {
	now := time.Now()
	claims := tokenClaims{
		Username: user.Username,
		Name:     user.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to sign token")
		return "", fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	return signed, nil
}

// Verify parses and validates a signed token, returning the identity it
// carries. Returns domain.ErrTokenExpired for expired tokens and
// domain.ErrInvalidToken for any other defect.
func (s *TokenService) Verify(tokenString string) (*Identity, error) {
	var claims tokenClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrInvalidToken
	}

	if !token.Valid || claims.Subject == "" {
		return nil, domain.ErrInvalidToken
	}

	return &Identity{
		UserID:   claims.Subject,
		Username: claims.Username,
		Name:     claims.Name,
	}, nil
}
