// Package filestore lists and opens files from a single directory on disk.
package filestore

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/okian/lightswitch/internal/domain/types"
)

// DefaultDownloadPath is the route download URLs point at.
const DefaultDownloadPath = "/api/download/v2"

// Store wraps one directory. Nothing is cached; every call reads the disk.
type Store struct {
	dir          string
	downloadPath string
}

// File is an open file ready to be served. Callers must Close it.
type File struct {
	*os.File
	Name    string
	Size    int64
	ModTime time.Time
}

// New creates a Store rooted at dir.
func New(dir string, opts ...Option) *Store {
	s := &Store{
		dir:          dir,
		downloadPath: DefaultDownloadPath,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dir returns the directory the store reads.
func (s *Store) Dir() string {
	return s.dir
}

// DownloadURL builds the download link for name, query-escaping it.
func (s *Store) DownloadURL(name string) string {
	return s.downloadPath + "?name=" + url.QueryEscape(name)
}

// List returns one entry per directory entry, subdirectories included,
// sorted by name.
func (s *Store) List(ctx context.Context) ([]types.FileEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	dirEntries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnreadable, err)
	}
	out := make([]types.FileEntry, 0, len(dirEntries))
	for _, e := range dirEntries {
		out = append(out, types.FileEntry{
			Name:        e.Name(),
			DownloadURL: s.DownloadURL(e.Name()),
		})
	}
	return out, nil
}

// Open resolves name inside the directory and opens it for reading.
// Names that leave the directory fail with ErrInvalidName; anything that
// cannot be opened as a regular file fails with ErrNotFound.
func (s *Store) Open(ctx context.Context, name string) (*File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !filepath.IsLocal(name) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}

	root, err := os.OpenRoot(s.dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	defer root.Close()

	// os.Root also rejects symlinks that point outside the directory.
	f, err := root.Open(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	if !info.Mode().IsRegular() {
		_ = f.Close()
		return nil, fmt.Errorf("%w: %q is not a regular file", ErrNotFound, name)
	}
	return &File{
		File:    f,
		Name:    filepath.Base(name),
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}, nil
}
