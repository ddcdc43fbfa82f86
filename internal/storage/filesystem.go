package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// Filesystem stores blobs on the local filesystem under a root directory.
// Blobs are laid out as <root>/<category.Dir>/<generated-name> and served
// by the HTTP layer under the configured public prefix.
type Filesystem struct {
	root         string
	publicPrefix string
	logger       zerolog.Logger
}

// NewFilesystem creates a filesystem backend rooted at dir. The root and
// category subdirectories are created eagerly so that startup fails fast
// on permission problems instead of the first upload.
func NewFilesystem(dir, publicPrefix string, logger zerolog.Logger) (*Filesystem, error) {
	for _, cat := range []Category{UserImages, BlogImages} {
		if err := os.MkdirAll(filepath.Join(dir, cat.Dir), 0o755); err != nil {
			return nil, fmt.Errorf("creating upload directory: %w", err)
		}
	}

	return &Filesystem{
		root:         dir,
		publicPrefix: strings.TrimSuffix(publicPrefix, "/"),
		logger:       logger.With().Str("storage", "filesystem").Logger(),
	}, nil
}

// Root returns the root directory blobs are stored under.
func (f *Filesystem) Root() string {
	return f.root
}

// Save writes the content to a new file within the category directory.
func (f *Filesystem) Save(ctx context.Context, category Category, originalFilename string, reader io.Reader) (string, error) {
	name := newObjectName(category.Prefix, originalFilename)
	dst := filepath.Join(f.root, category.Dir, name)

	file, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("creating blob file: %w", err)
	}

	if _, err := io.Copy(file, reader); err != nil {
		file.Close()
		os.Remove(dst)
		return "", fmt.Errorf("writing blob: %w", err)
	}

	if err := file.Close(); err != nil {
		os.Remove(dst)
		return "", fmt.Errorf("closing blob file: %w", err)
	}

	publicPath := f.publicPrefix + "/" + category.Dir + "/" + name
	f.logger.Debug().Str("path", publicPath).Msg("Blob stored")
	return publicPath, nil
}

// Remove deletes the file addressed by a public path.
func (f *Filesystem) Remove(ctx context.Context, publicPath string) error {
	rel, err := f.relativePath(publicPath)
	if err != nil {
		return err
	}

	if err := os.Remove(filepath.Join(f.root, filepath.FromSlash(rel))); err != nil {
		if os.IsNotExist(err) {
			return ErrBlobNotFound
		}
		return fmt.Errorf("removing blob: %w", err)
	}

	f.logger.Debug().Str("path", publicPath).Msg("Blob removed")
	return nil
}

// relativePath validates a public path and strips the public prefix,
// rejecting anything that would escape the storage root.
func (f *Filesystem) relativePath(publicPath string) (string, error) {
	rel, ok := strings.CutPrefix(publicPath, f.publicPrefix+"/")
	if !ok {
		return "", fmt.Errorf("path %q is outside the public prefix", publicPath)
	}

	rel = path.Clean(rel)
	if rel == "." || rel == ".." || strings.HasPrefix(rel, "../") || path.IsAbs(rel) {
		return "", fmt.Errorf("invalid blob path %q", publicPath)
	}

	return rel, nil
}
