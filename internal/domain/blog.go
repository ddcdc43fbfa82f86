// Package domain contains the core business entities for Inkpress.
package domain

import (
	"strings"
	"time"
)

// Blog represents a single blog post.
type Blog struct {
	// ID is the unique identifier for the blog (UUID, generated at creation).
	ID string `json:"id"`

	// Title is the post title.
	// Constraints: 3-200 characters after trimming.
	Title string `json:"title"`

	// Content is the post body.
	// Constraints: at least 10 characters after trimming.
	Content string `json:"content"`

	// Author is the display name of the creating user, captured at
	// creation time. It is a snapshot and is not kept in sync with
	// later renames of the user.
	Author string `json:"author"`

	// AuthorID references the owning User. Required at creation;
	// reset to the current editor's ID on every update.
	AuthorID string `json:"authorId"`

	// ImageURL is the optional public path of the post's cover image.
	ImageURL string `json:"imageUrl,omitempty"`

	// Tags is an ordered list of tags. Order is preserved as provided
	// and the list is replaced wholesale on update.
	Tags []string `json:"tags"`

	// Category is an optional category label, at most 50 characters.
	Category string `json:"category,omitempty"`

	// Views is the view counter. Not mutated by any exposed operation.
	Views int64 `json:"views"`

	// Likes is the like counter. Not mutated by any exposed operation.
	Likes int64 `json:"likes"`

	// CreatedAt is the timestamp when the blog was created.
	CreatedAt time.Time `json:"createdAt"`

	// UpdatedAt is the timestamp when the blog was last updated.
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewBlog creates a new Blog authored by the given user. The author's
// display name is captured as a snapshot; it does not track later
// renames of the user.
func NewBlog(id, title, content string, author *User) *Blog {
	now := time.Now().UTC()
	return &Blog{
		ID:        id,
		Title:     strings.TrimSpace(title),
		Content:   strings.TrimSpace(content),
		Author:    author.DisplayName(),
		AuthorID:  author.ID,
		Tags:      []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// AuthorInfo is the resolved identity of a blog's author, joined in
// when listing or fetching blogs.
type AuthorInfo struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	ImageURL string `json:"imageUrl,omitempty"`
}

// BlogView is the public projection of a Blog with the author identity
// resolved against the current User record.
type BlogView struct {
	ID        string      `json:"id"`
	Title     string      `json:"title"`
	Content   string      `json:"content"`
	Author    string      `json:"author"`
	AuthorID  string      `json:"authorId"`
	AuthorRef *AuthorInfo `json:"authorInfo,omitempty"`
	ImageURL  string      `json:"imageUrl,omitempty"`
	Tags      []string    `json:"tags"`
	Category  string      `json:"category,omitempty"`
	Views     int64       `json:"views"`
	Likes     int64       `json:"likes"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// View returns the public projection of the blog. The author reference
// may be nil when the owning user no longer exists.
func (b *Blog) View(author *AuthorInfo) BlogView {
	tags := b.Tags
	if tags == nil {
		tags = []string{}
	}
	return BlogView{
		ID:        b.ID,
		Title:     b.Title,
		Content:   b.Content,
		Author:    b.Author,
		AuthorID:  b.AuthorID,
		AuthorRef: author,
		ImageURL:  b.ImageURL,
		Tags:      tags,
		Category:  b.Category,
		Views:     b.Views,
		Likes:     b.Likes,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}
