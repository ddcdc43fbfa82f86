package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/inkpress/inkpress/internal/domain"
	"github.com/inkpress/inkpress/internal/repository"
)

// blogRepository implements repository.BlogRepository for SQLite.
// Tags are stored as a JSON array to preserve their order.
type blogRepository struct {
	db *DB
}

// NewBlogRepository creates a new SQLite blog repository.
func NewBlogRepository(db *DB) repository.BlogRepository {
	return &blogRepository{db: db}
}

// Create creates a new blog.
func (r *blogRepository) Create(ctx context.Context, blog *domain.Blog) error {
	tags, err := encodeTags(blog.Tags)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO blogs (id, title, content, author, author_id, image_url, tags, category, views, likes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.ExecContext(ctx, query,
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
		blog.CreatedAt.UTC().Format(timeLayout),
		blog.UpdatedAt.UTC().Format(timeLayout),
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
		WHERE id = ?
	`

	blog, err := scanBlog(r.db.QueryRowContext(ctx, query, id))
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

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list blogs: %w", err)
	}
	defer rows.Close()

	var blogs []*domain.Blog
	for rows.Next() {
		blog, err := scanBlog(rows)
		if err != nil {
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
	tags, err := encodeTags(blog.Tags)
	if err != nil {
		return err
	}

	blog.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE blogs
		SET title = ?, content = ?, author = ?, author_id = ?, image_url = ?, tags = ?, category = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		blog.Title,
		blog.Content,
		blog.Author,
		blog.AuthorID,
		blog.ImageURL,
		tags,
		blog.Category,
		blog.UpdatedAt.Format(timeLayout),
		blog.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update blog: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// Delete deletes a blog by ID.
func (r *blogRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM blogs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete blog: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// encodeTags serializes tags as a JSON array, preserving order.
func encodeTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	data, err := json.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("failed to encode tags: %w", err)
	}
	return string(data), nil
}

// scanBlog scans a single blog row.
func scanBlog(row interface {
	Scan(dest ...interface{}) error
}) (*domain.Blog, error) {
	blog := &domain.Blog{}
	var tags, createdAt, updatedAt string

	err := row.Scan(
		&blog.ID,
		&blog.Title,
		&blog.Content,
		&blog.Author,
		&blog.AuthorID,
		&blog.ImageURL,
		&tags,
		&blog.Category,
		&blog.Views,
		&blog.Likes,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(tags), &blog.Tags); err != nil {
		return nil, fmt.Errorf("failed to decode tags: %w", err)
	}
	blog.CreatedAt, _ = time.Parse(timeLayout, createdAt)
	blog.UpdatedAt, _ = time.Parse(timeLayout, updatedAt)

	return blog, nil
}
