package storage

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func newTestFilesystem(t *testing.T) *Filesystem {
	t.Helper()

	fs, err := NewFilesystem(t.TempDir(), "/uploads", zerolog.Nop())
	require.NoError(t, err)
	return fs
}

func TestFilesystemSave(t *testing.T) {
	fs := newTestFilesystem(t)
	ctx := context.Background()

	publicPath, err := fs.Save(ctx, UserImages, "avatar.PNG", strings.NewReader("image-bytes"))
	require.NoError(t, err)
	require.Regexp(t, regexp.MustCompile(`^/uploads/user-images/user-\d+-\d+\.png$`), publicPath)

	rel := strings.TrimPrefix(publicPath, "/uploads/")
	data, err := os.ReadFile(filepath.Join(fs.Root(), filepath.FromSlash(rel)))
	require.NoError(t, err)
	require.Equal(t, "image-bytes", string(data))
}

func TestFilesystemSaveCategories(t *testing.T) {
	fs := newTestFilesystem(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		category Category
		filename string
		pattern  string
	}{
		{
			name:     "user image",
			category: UserImages,
			filename: "me.jpg",
			pattern:  `^/uploads/user-images/user-\d+-\d+\.jpg$`,
		},
		{
			name:     "blog image",
			category: BlogImages,
			filename: "cover.jpeg",
			pattern:  `^/uploads/blog-images/blog-\d+-\d+\.jpeg$`,
		},
		{
			name:     "no extension",
			category: BlogImages,
			filename: "cover",
			pattern:  `^/uploads/blog-images/blog-\d+-\d+$`,
		},
		{
			name:     "client path is ignored",
			category: UserImages,
			filename: "../../etc/passwd.png",
			pattern:  `^/uploads/user-images/user-\d+-\d+\.png$`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			publicPath, err := fs.Save(ctx, tt.category, tt.filename, strings.NewReader("x"))
			require.NoError(t, err)
			require.Regexp(t, regexp.MustCompile(tt.pattern), publicPath)
		})
	}
}

func TestFilesystemRemove(t *testing.T) {
	fs := newTestFilesystem(t)
	ctx := context.Background()

	publicPath, err := fs.Save(ctx, BlogImages, "cover.png", strings.NewReader("x"))
	require.NoError(t, err)

	require.NoError(t, fs.Remove(ctx, publicPath))

	err = fs.Remove(ctx, publicPath)
	require.ErrorIs(t, err, ErrBlobNotFound)
}

func TestFilesystemRemoveRejectsEscapes(t *testing.T) {
	fs := newTestFilesystem(t)
	ctx := context.Background()

	tests := []struct {
		name string
		path string
	}{
		{name: "outside prefix", path: "/etc/passwd"},
		{name: "traversal", path: "/uploads/../secret.txt"},
		{name: "bare prefix", path: "/uploads/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := fs.Remove(ctx, tt.path)
			require.Error(t, err)
			require.NotErrorIs(t, err, ErrBlobNotFound)
		})
	}
}

func TestNewObjectNameUnique(t *testing.T) {
	seen := make(map[string]bool)
	for range 100 {
		name := newObjectName("user", "a.png")
		require.False(t, seen[name], "duplicate name %s", name)
		seen[name] = true
	}
}
