// Package domain contains the core business entities for Inkpress.
// These are pure Go structs with no external dependencies, representing
// the fundamental concepts of the blog platform.
package domain

import (
	"strings"
	"time"
)

// User represents a registered user in the system.
// Users author blog posts and manage their own profile.
type User struct {
	// ID is the unique identifier for the user (UUID, generated at creation).
	ID string `json:"id"`

	// Name is the display name of the user.
	// Constraints: 2-50 characters after trimming.
	Name string `json:"name"`

	// Username is the unique handle for login.
	// Constraints: 3-30 characters, stored lowercase and trimmed.
	Username string `json:"username"`

	// PasswordHash is the bcrypt hash of the user's password.
	// This must never be exposed in API responses.
	PasswordHash string `json:"-"`

	// ImageURL is the optional public path of the user's profile image.
	ImageURL string `json:"imageUrl,omitempty"`

	// CreatedAt is the timestamp when the user was created.
	CreatedAt time.Time `json:"createdAt"`

	// UpdatedAt is the timestamp when the user was last updated.
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewUser creates a new User with normalized fields.
// The caller supplies the generated ID and password hash.
func NewUser(id, name, username, passwordHash string) *User {
	now := time.Now().UTC()
	return &User{
		ID:           id,
		Name:         strings.TrimSpace(name),
		Username:     NormalizeUsername(username),
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// NormalizeUsername lowercases and trims a username.
// All lookups and uniqueness checks operate on the normalized form.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// DisplayName returns the name to snapshot onto authored content.
// Falls back to the username, then to "Unknown".
func (u *User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	if u.Username != "" {
		return u.Username
	}
	return "Unknown"
}

// UserView is the public projection of a User.
// Fields are enumerated explicitly; the password hash is not part of
// the projection rather than being stripped after the fact.
type UserView struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Username  string    `json:"username"`
	ImageURL  string    `json:"imageUrl,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// View returns the public projection of the user.
func (u *User) View() UserView {
	return UserView{
		ID:        u.ID,
		Name:      u.Name,
		Username:  u.Username,
		ImageURL:  u.ImageURL,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
