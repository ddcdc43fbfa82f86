package service

import (
	"strings"
	"unicode/utf8"

	"github.com/inkpress/inkpress/internal/domain"
)

// Validation limits for user and blog fields.
const (
	minPasswordLen = 6
	minNameLen     = 2
	maxNameLen     = 50
	minUsernameLen = 3
	maxUsernameLen = 30
	minTitleLen    = 3
	maxTitleLen    = 200
	minContentLen  = 10
	maxCategoryLen = 50
)

func validatePassword(password string) error {
	if len(password) < minPasswordLen {
		return domain.ErrWeakPassword
	}
	return nil
}

func validateName(name string) error {
	n := utf8.RuneCountInString(strings.TrimSpace(name))
	if n < minNameLen || n > maxNameLen {
		return domain.ErrInvalidName
	}
	return nil
}

func validateUsername(username string) error {
	n := utf8.RuneCountInString(domain.NormalizeUsername(username))
	if n < minUsernameLen || n > maxUsernameLen {
		return domain.ErrInvalidUsername
	}
	return nil
}

func validateTitle(title string) error {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return domain.ErrEmptyTitle
	}
	if n := utf8.RuneCountInString(trimmed); n < minTitleLen || n > maxTitleLen {
		return domain.ErrTitleLength
	}
	return nil
}

func validateContent(content string) error {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return domain.ErrEmptyContent
	}
	if utf8.RuneCountInString(trimmed) < minContentLen {
		return domain.ErrContentLength
	}
	return nil
}

func validateCategory(category string) error {
	if utf8.RuneCountInString(strings.TrimSpace(category)) > maxCategoryLen {
		return domain.ErrCategoryLength
	}
	return nil
}
