package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/inkpress/inkpress/internal/domain"
	"github.com/inkpress/inkpress/internal/repository"
)

func newTestBlog(author *domain.User, title string) *domain.Blog {
	blog := domain.NewBlog(uuid.New().String(), title, "Long enough content for a post.", author)
	blog.Tags = []string{"go", "notes"}
	blog.Category = "tech"
	return blog
}

func TestBlogRepository_CreateAndGet(t *testing.T) {
	db := newTestDB(t)
	userRepo := NewUserRepository(db)
	blogRepo := NewBlogRepository(db)
	ctx := context.Background()

	author := newTestUser("Ada Lovelace", "ada")
	require.NoError(t, userRepo.Create(ctx, author))

	blog := newTestBlog(author, "Notes on the Analytical Engine")
	blog.ImageURL = "/uploads/blog-images/blog-1.png"
	require.NoError(t, blogRepo.Create(ctx, blog))

	got, err := blogRepo.GetByID(ctx, blog.ID)
	require.NoError(t, err)
	require.Equal(t, blog.Title, got.Title)
	require.Equal(t, blog.Content, got.Content)
	require.Equal(t, "Ada Lovelace", got.Author)
	require.Equal(t, author.ID, got.AuthorID)
	require.Equal(t, []string{"go", "notes"}, got.Tags)
	require.Equal(t, "tech", got.Category)
	require.Equal(t, blog.ImageURL, got.ImageURL)
	require.Zero(t, got.Views)
	require.Zero(t, got.Likes)
	require.True(t, blog.CreatedAt.Equal(got.CreatedAt))

	_, err = blogRepo.GetByID(ctx, uuid.New().String())
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestBlogRepository_TagOrderPreserved(t *testing.T) {
	db := newTestDB(t)
	blogRepo := NewBlogRepository(db)
	ctx := context.Background()

	author := newTestUser("Ada Lovelace", "ada")
	require.NoError(t, NewUserRepository(db).Create(ctx, author))

	blog := newTestBlog(author, "Ordered tags")
	blog.Tags = []string{"zeta", "alpha", "mid", "alpha"}
	require.NoError(t, blogRepo.Create(ctx, blog))

	got, err := blogRepo.GetByID(ctx, blog.ID)
	require.NoError(t, err)
	require.Equal(t, []string{"zeta", "alpha", "mid", "alpha"}, got.Tags)
}

func TestBlogRepository_NilTagsStoredAsEmpty(t *testing.T) {
	db := newTestDB(t)
	blogRepo := NewBlogRepository(db)
	ctx := context.Background()

	author := newTestUser("Ada Lovelace", "ada")
	require.NoError(t, NewUserRepository(db).Create(ctx, author))

	blog := newTestBlog(author, "No tags")
	blog.Tags = nil
	require.NoError(t, blogRepo.Create(ctx, blog))

	got, err := blogRepo.GetByID(ctx, blog.ID)
	require.NoError(t, err)
	require.Equal(t, []string{}, got.Tags)
}

func TestBlogRepository_Update(t *testing.T) {
	db := newTestDB(t)
	userRepo := NewUserRepository(db)
	blogRepo := NewBlogRepository(db)
	ctx := context.Background()

	author := newTestUser("Ada Lovelace", "ada")
	editor := newTestUser("Grace Hopper", "grace")
	require.NoError(t, userRepo.Create(ctx, author))
	require.NoError(t, userRepo.Create(ctx, editor))

	blog := newTestBlog(author, "Original title")
	require.NoError(t, blogRepo.Create(ctx, blog))

	blog.Title = "Revised title"
	blog.Content = "Entirely rewritten content body."
	blog.Author = editor.DisplayName()
	blog.AuthorID = editor.ID
	blog.Tags = []string{"revised"}
	require.NoError(t, blogRepo.Update(ctx, blog))

	got, err := blogRepo.GetByID(ctx, blog.ID)
	require.NoError(t, err)
	require.Equal(t, "Revised title", got.Title)
	require.Equal(t, editor.ID, got.AuthorID)
	require.Equal(t, "Grace Hopper", got.Author)
	require.Equal(t, []string{"revised"}, got.Tags)
	require.True(t, blog.CreatedAt.Equal(got.CreatedAt))

	missing := newTestBlog(author, "Ghost post")
	require.ErrorIs(t, blogRepo.Update(ctx, missing), repository.ErrNotFound)
}

func TestBlogRepository_Delete(t *testing.T) {
	db := newTestDB(t)
	blogRepo := NewBlogRepository(db)
	ctx := context.Background()

	author := newTestUser("Ada Lovelace", "ada")
	require.NoError(t, NewUserRepository(db).Create(ctx, author))

	blog := newTestBlog(author, "Doomed post")
	require.NoError(t, blogRepo.Create(ctx, blog))
	require.NoError(t, blogRepo.Delete(ctx, blog.ID))

	_, err := blogRepo.GetByID(ctx, blog.ID)
	require.ErrorIs(t, err, repository.ErrNotFound)

	require.ErrorIs(t, blogRepo.Delete(ctx, blog.ID), repository.ErrNotFound)
}

func TestBlogRepository_ListOrdering(t *testing.T) {
	db := newTestDB(t)
	blogRepo := NewBlogRepository(db)
	ctx := context.Background()

	author := newTestUser("Ada Lovelace", "ada")
	require.NoError(t, NewUserRepository(db).Create(ctx, author))

	base := time.Now().UTC().Add(-time.Hour)
	for i, title := range []string{"first post", "second post", "third post"} {
		blog := newTestBlog(author, title)
		blog.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		blog.UpdatedAt = blog.CreatedAt
		require.NoError(t, blogRepo.Create(ctx, blog))
	}

	blogs, err := blogRepo.List(ctx)
	require.NoError(t, err)
	require.Len(t, blogs, 3)
	require.Equal(t, "third post", blogs[0].Title)
	require.Equal(t, "second post", blogs[1].Title)
	require.Equal(t, "first post", blogs[2].Title)
}
