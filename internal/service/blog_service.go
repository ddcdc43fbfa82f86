package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/inkpress/inkpress/internal/domain"
	"github.com/inkpress/inkpress/internal/repository"
	"github.com/inkpress/inkpress/internal/storage"
)

// Blog list cache parameters. The TTL is short because the list is
// invalidated explicitly on every write anyway; it only bounds staleness
// when an invalidation is lost.
const (
	blogListCacheKey = "blogs:all"
	blogListCacheTTL = 30 * time.Second
)

// BlogService handles blog post operations.
type BlogService struct {
	blogRepo repository.BlogRepository
	userRepo repository.UserRepository
	store    storage.Backend
	cache    repository.Cache
	logger   zerolog.Logger
}

// NewBlogService creates a new BlogService.
func NewBlogService(
	blogRepo repository.BlogRepository,
	userRepo repository.UserRepository,
	store storage.Backend,
	cache repository.Cache,
	logger zerolog.Logger,
) *BlogService {
	return &BlogService{
		blogRepo: blogRepo,
		userRepo: userRepo,
		store:    store,
		cache:    cache,
		logger:   logger.With().Str("service", "blog").Logger(),
	}
}

// =============================================================================
// Input/Output Structs
// =============================================================================

// CreateBlogInput contains the data needed to create a blog post.
type CreateBlogInput struct {
	Title    string
	Content  string
	AuthorID string
	Tags     []string
	Category string
	Image    *ImageUpload // Optional
}

// UpdateBlogInput contains the data needed to update a blog post.
// Title and Content are required; Tags are replaced wholesale.
type UpdateBlogInput struct {
	BlogID   string
	Title    string
	Content  string
	EditorID string
	Tags     []string
	Category string
	Image    *ImageUpload // Optional; replaces the current image
}

// DeleteBlogOutput confirms a deletion.
type DeleteBlogOutput struct {
	Deleted bool   `json:"deleted"`
	ID      string `json:"id"`
	Message string `json:"message"`
}

// =============================================================================
// Service Methods
// =============================================================================

// GetAll returns all blogs ordered by descending creation time, with
// each blog's author identity resolved against the current user record.
// The assembled list is served from cache when available; cache failures
// fall through to the database.
func (s *BlogService) GetAll(ctx context.Context) ([]domain.BlogView, error) {
	if cached, err := s.cache.Get(ctx, blogListCacheKey); err == nil {
		var views []domain.BlogView
		if err := json.Unmarshal(cached, &views); err == nil {
			return views, nil
		}
		// Unreadable entry, drop it and rebuild.
		_ = s.cache.Delete(ctx, blogListCacheKey)
	}

	blogs, err := s.blogRepo.List(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list blogs")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	authors := make(map[string]*domain.AuthorInfo)
	views := make([]domain.BlogView, 0, len(blogs))
	for _, b := range blogs {
		author, ok := authors[b.AuthorID]
		if !ok {
			author = s.resolveAuthor(ctx, b.AuthorID)
			authors[b.AuthorID] = author
		}
		views = append(views, b.View(author))
	}

	if data, err := json.Marshal(views); err == nil {
		if err := s.cache.Set(ctx, blogListCacheKey, data, blogListCacheTTL); err != nil {
			s.logger.Warn().Err(err).Msg("failed to cache blog list")
		}
	}

	return views, nil
}

// GetByID returns a single blog with its author identity resolved.
func (s *BlogService) GetByID(ctx context.Context, id string) (*domain.BlogView, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrInvalidBlogID
	}

	blog, err := s.blogRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.ErrBlogNotFound
		}
		s.logger.Error().Err(err).Str("blog_id", id).Msg("failed to get blog")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	view := blog.View(s.resolveAuthor(ctx, blog.AuthorID))
	return &view, nil
}

// Create creates a new blog post authored by the given user. The
// author's display name is captured as a snapshot at creation time.
func (s *BlogService) Create(ctx context.Context, input CreateBlogInput) (*domain.BlogView, error) {
	if err := validateTitle(input.Title); err != nil {
		return nil, err
	}
	if err := validateContent(input.Content); err != nil {
		return nil, err
	}
	if err := validateCategory(input.Category); err != nil {
		return nil, err
	}

	author, err := s.userRepo.GetByID(ctx, input.AuthorID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.ErrInvalidAuthor
		}
		s.logger.Error().Err(err).Str("author_id", input.AuthorID).Msg("failed to get author")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	blog := domain.NewBlog(uuid.New().String(), input.Title, input.Content, author)
	blog.Tags = normalizeTags(input.Tags)
	blog.Category = strings.TrimSpace(input.Category)

	if input.Image != nil {
		path, err := s.store.Save(ctx, storage.BlogImages, input.Image.Filename, input.Image.Reader)
		if err != nil {
			s.logger.Error().Err(err).Msg("failed to store blog image")
			return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
		}
		blog.ImageURL = path
	}

	if err := s.blogRepo.Create(ctx, blog); err != nil {
		s.removeImage(ctx, blog.ImageURL)
		s.logger.Error().Err(err).Str("blog_id", blog.ID).Msg("failed to create blog")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	s.invalidateList(ctx)

	s.logger.Info().
		Str("blog_id", blog.ID).
		Str("author_id", blog.AuthorID).
		Msg("Blog created")

	view := blog.View(authorInfo(author))
	return &view, nil
}

// Update replaces a blog's content. The blog is reassigned to the
// editing user and tags are replaced wholesale; a new image replaces the
// old one, whose blob is removed best-effort.
func (s *BlogService) Update(ctx context.Context, input UpdateBlogInput) (*domain.BlogView, error) {
	if _, err := uuid.Parse(input.BlogID); err != nil {
		return nil, domain.ErrInvalidBlogID
	}
	if err := validateTitle(input.Title); err != nil {
		return nil, err
	}
	if err := validateContent(input.Content); err != nil {
		return nil, err
	}
	if err := validateCategory(input.Category); err != nil {
		return nil, err
	}

	blog, err := s.blogRepo.GetByID(ctx, input.BlogID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.ErrBlogNotFound
		}
		s.logger.Error().Err(err).Str("blog_id", input.BlogID).Msg("failed to get blog")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	editor, err := s.userRepo.GetByID(ctx, input.EditorID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.ErrInvalidAuthor
		}
		s.logger.Error().Err(err).Str("editor_id", input.EditorID).Msg("failed to get editor")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	blog.Title = strings.TrimSpace(input.Title)
	blog.Content = strings.TrimSpace(input.Content)
	blog.AuthorID = editor.ID
	blog.Author = editor.DisplayName()
	blog.Tags = normalizeTags(input.Tags)
	blog.Category = strings.TrimSpace(input.Category)

	oldImage := ""
	if input.Image != nil {
		path, err := s.store.Save(ctx, storage.BlogImages, input.Image.Filename, input.Image.Reader)
		if err != nil {
			s.logger.Error().Err(err).Msg("failed to store blog image")
			return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
		}
		oldImage = blog.ImageURL
		blog.ImageURL = path
	}

	if err := s.blogRepo.Update(ctx, blog); err != nil {
		if input.Image != nil {
			s.removeImage(ctx, blog.ImageURL)
		}
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.ErrBlogNotFound
		}
		s.logger.Error().Err(err).Str("blog_id", blog.ID).Msg("failed to update blog")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	s.removeImage(ctx, oldImage)
	s.invalidateList(ctx)

	s.logger.Info().
		Str("blog_id", blog.ID).
		Str("editor_id", editor.ID).
		Msg("Blog updated")

	view := blog.View(authorInfo(editor))
	return &view, nil
}

// Delete removes a blog and, best-effort, its image blob.
func (s *BlogService) Delete(ctx context.Context, id string) (*DeleteBlogOutput, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrInvalidBlogID
	}

	blog, err := s.blogRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.ErrBlogNotFound
		}
		s.logger.Error().Err(err).Str("blog_id", id).Msg("failed to get blog")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	if err := s.blogRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.ErrBlogNotFound
		}
		s.logger.Error().Err(err).Str("blog_id", id).Msg("failed to delete blog")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	s.removeImage(ctx, blog.ImageURL)
	s.invalidateList(ctx)

	s.logger.Info().Str("blog_id", id).Msg("Blog deleted")

	return &DeleteBlogOutput{
		Deleted: true,
		ID:      id,
		Message: "Blog deleted successfully",
	}, nil
}

// =============================================================================
// Helpers
// =============================================================================

// resolveAuthor looks up a blog's author for the joined view. A missing
// user yields a nil reference, not an error; the stored snapshot still
// names the author.
func (s *BlogService) resolveAuthor(ctx context.Context, authorID string) *domain.AuthorInfo {
	user, err := s.userRepo.GetByID(ctx, authorID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.logger.Warn().Err(err).Str("author_id", authorID).Msg("failed to resolve author")
		}
		return nil
	}
	return authorInfo(user)
}

func authorInfo(user *domain.User) *domain.AuthorInfo {
	return &domain.AuthorInfo{
		ID:       user.ID,
		Name:     user.Name,
		Username: user.Username,
		ImageURL: user.ImageURL,
	}
}

func (s *BlogService) invalidateList(ctx context.Context) {
	if err := s.cache.Delete(ctx, blogListCacheKey); err != nil {
		s.logger.Warn().Err(err).Msg("failed to invalidate blog list cache")
	}
}

func (s *BlogService) removeImage(ctx context.Context, publicPath string) {
	if publicPath == "" {
		return
	}
	if err := s.store.Remove(ctx, publicPath); err != nil && !errors.Is(err, storage.ErrBlobNotFound) {
		s.logger.Warn().Err(err).Str("path", publicPath).Msg("failed to remove image blob")
	}
}

// normalizeTags returns a non-nil copy of the tag list, preserving order.
func normalizeTags(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	out := make([]string, len(tags))
	copy(out, tags)
	return out
}
