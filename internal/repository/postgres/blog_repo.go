package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/inkpress/inkpress/internal/domain"
	"github.com/inkpress/inkpress/internal/repository"
)

// blogRepository implements repository.BlogRepository for PostgreSQL.
// Tags are stored as a native text[] column, preserving order.
type blogRepository struct {
	db *DB
}

// NewBlogRepository creates a new PostgreSQL blog repository.
func NewBlogRepository(db *DB) repository.BlogRepository {
	return &blogRepository{db: db}
}

// Create creates a new blog.
func (r *blogRepository) Create(ctx context.Context, blog *domain.Blog) error {
	tags := blog.Tags
	if tags == nil {
		tags = []string{}
	}

	query := `
		INSERT INTO blogs (id, title, content, author, author_id, image_url, tags, category, views, likes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.db.Pool.Exec(ctx, query,
		blog.ID,
		blog.Title,
		blog.Content,
		blog.Author,
		blog.AuthorID,
		blog.ImageURL,
		tags,
		blog.Category,
		blog.Views,
		blog.Likes,
		blog.CreatedAt,
		blog.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create blog: %w", err)
	}

	return nil
}

// GetByID retrieves a blog by ID.
func (r *blogRepository) GetByID(ctx context.Context, id string) (*domain.Blog, error) {
	query := `
		SELECT id, title, content, author, author_id, image_url, tags, category, views, likes, created_at, updated_at
		FROM blogs
		WHERE id = $1
	`

	blog := &domain.Blog{}
	err := r.db.Pool.QueryRow(ctx, query, id).Scan(
		&blog.ID,
		&blog.Title,
		&blog.Content,
		&blog.Author,
		&blog.AuthorID,
		&blog.ImageURL,
		&blog.Tags,
		&blog.Category,
		&blog.Views,
		&blog.Likes,
		&blog.CreatedAt,
		&blog.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get blog: %w", err)
	}

	return blog, nil
}

// List returns all blogs ordered by descending creation time.
func (r *blogRepository) List(ctx context.Context) ([]*domain.Blog, error) {
	query := `
		SELECT id, title, content, author, author_id, image_url, tags, category, views, likes, created_at, updated_at
		FROM blogs
		ORDER BY created_at DESC
	`

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list blogs: %w", err)
	}
	defer rows.Close()

	var blogs []*domain.Blog
	for rows.Next() {
		blog := &domain.Blog{}
		if err := rows.Scan(
			&blog.ID,
			&blog.Title,
			&blog.Content,
			&blog.Author,
			&blog.AuthorID,
			&blog.ImageURL,
			&blog.Tags,
			&blog.Category,
			&blog.Views,
			&blog.Likes,
			&blog.CreatedAt,
			&blog.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan blog: %w", err)
		}
		blogs = append(blogs, blog)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate blogs: %w", err)
	}

	return blogs, nil
}

// Update updates an existing blog. Tags are replaced wholesale.
func (r *blogRepository) Update(ctx context.Context, blog *domain.Blog) error {
	tags := blog.Tags
	if tags == nil {
		tags = []string{}
	}

	blog.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE blogs
		SET title = $1, content = $2, author = $3, author_id = $4, image_url = $5, tags = $6, category = $7, updated_at = $8
		WHERE id = $9
	`

	tag, err := r.db.Pool.Exec(ctx, query,
		blog.Title,
		blog.Content,
		blog.Author,
		blog.AuthorID,
		blog.ImageURL,
		tags,
		blog.Category,
		blog.UpdatedAt,
		blog.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update blog: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// Delete deletes a blog by ID.
func (r *blogRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM blogs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete blog: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}
