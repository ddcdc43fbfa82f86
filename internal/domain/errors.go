// Package domain contains the core business entities for Inkpress.
package domain

import (
	"errors"
	"fmt"
)

// Domain errors - these represent business rule violations.
// They are distinct from infrastructure errors (database, filesystem, etc.).

var (
	// ===========================================
	// User Errors
	// ===========================================

	// ErrUserNotFound indicates the requested user does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrUsernameTaken indicates a user with the same username exists.
	ErrUsernameTaken = errors.New("username already exists")

	// ErrInvalidCredentials indicates authentication failed.
	// Deliberately generic: it does not distinguish a missing user from
	// a wrong password, to avoid username enumeration.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrWeakPassword indicates the password fails the minimum length rule.
	ErrWeakPassword = errors.New("password must be at least 6 characters long")

	// ErrInvalidName indicates the display name length is invalid.
	ErrInvalidName = errors.New("name must be between 2 and 50 characters")

	// ErrInvalidUsername indicates the username length is invalid.
	ErrInvalidUsername = errors.New("username must be between 3 and 30 characters")

	// ===========================================
	// Blog Errors
	// ===========================================

	// ErrBlogNotFound indicates the requested blog does not exist.
	ErrBlogNotFound = errors.New("blog not found")

	// ErrInvalidBlogID indicates the blog ID is not a well-formed identifier.
	ErrInvalidBlogID = errors.New("invalid blog ID format")

	// ErrEmptyTitle indicates the title is empty after trimming.
	ErrEmptyTitle = errors.New("title is required and cannot be empty")

	// ErrEmptyContent indicates the content is empty after trimming.
	ErrEmptyContent = errors.New("content is required and cannot be empty")

	// ErrTitleLength indicates the title length is outside 3-200 characters.
	ErrTitleLength = errors.New("title must be between 3 and 200 characters")

	// ErrContentLength indicates the content is shorter than 10 characters.
	ErrContentLength = errors.New("content must be at least 10 characters")

	// ErrCategoryLength indicates the category exceeds 50 characters.
	ErrCategoryLength = errors.New("category must be at most 50 characters")

	// ErrInvalidAuthor indicates the author ID does not resolve to a user.
	ErrInvalidAuthor = errors.New("invalid author ID")

	// ===========================================
	// Token Errors
	// ===========================================

	// ErrInvalidToken indicates the token signature or structure is invalid.
	ErrInvalidToken = errors.New("invalid token")

	// ErrTokenExpired indicates the token is past its expiration.
	ErrTokenExpired = errors.New("token has expired")
)

// DomainError wraps a domain error with additional context.
type DomainError struct {
	// Err is the underlying domain error.
	Err error

	// Message provides additional context.
	Message string

	// Resource identifies the affected resource (e.g., username, blog ID).
	Resource string
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Resource != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Err.Error(), e.Message, e.Resource)
	}
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Message)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error for errors.Is/errors.As.
func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError creates a new DomainError with context.
func NewDomainError(err error, message, resource string) *DomainError {
	return &DomainError{
		Err:      err,
		Message:  message,
		Resource: resource,
	}
}
