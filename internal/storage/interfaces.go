// Package storage provides blob storage backends for uploaded images.
// The storage layer persists raw image bytes under generated,
// collision-resistant names and addresses them by public-relative paths.
package storage

import (
	"context"
	"errors"
	"io"
)

// ErrBlobNotFound indicates the referenced blob does not exist.
var ErrBlobNotFound = errors.New("blob not found")

// Category identifies where an uploaded image belongs.
// It determines both the storage subdirectory and the filename prefix.
type Category struct {
	// Dir is the subdirectory (or key prefix) for the category.
	Dir string

	// Prefix is the generated filename prefix.
	Prefix string
}

// Predefined upload categories.
var (
	// UserImages holds profile images.
	UserImages = Category{Dir: "user-images", Prefix: "user"}

	// BlogImages holds blog cover images.
	BlogImages = Category{Dir: "blog-images", Prefix: "blog"}
)

// Backend defines the interface for image blob storage.
// Implementations include the local filesystem and S3-compatible stores.
type Backend interface {
	// Save stores the content under a freshly generated name within the
	// category and returns the public-relative path of the stored blob
	// (e.g. "/uploads/user-images/user-1712345678901-4711.png").
	//
	// The original filename contributes only its extension.
	Save(ctx context.Context, category Category, originalFilename string, reader io.Reader) (string, error)

	// Remove deletes the blob addressed by a public path previously
	// returned from Save. Returns ErrBlobNotFound if the blob is absent.
	//
	// Callers treat removal as best-effort: failures are logged as
	// warnings and never propagate to the primary operation.
	Remove(ctx context.Context, publicPath string) error
}
