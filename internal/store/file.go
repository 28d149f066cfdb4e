package store

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"mission-control/internal/errors"
)

// FileAdapter implements Adapter with one JSON file per key inside a
// data directory. Writes go through a temp file and rename.
type FileAdapter struct {
	dir string
}

// NewFileAdapter creates the data directory if needed.
func NewFileAdapter(dir string) (*FileAdapter, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.NewStorageError("init", dir, err)
	}
	return &FileAdapter{dir: dir}, nil
}

// filename maps a key to a path inside the data directory. Key separators
// are flattened so keys never escape the directory.
func (f *FileAdapter) filename(key string) string {
	safe := strings.NewReplacer(":", "_", "/", "_", "\\", "_").Replace(key)
	return filepath.Join(f.dir, safe+".json")
}

// Get returns the blob stored under key, or errors.ErrDataNotFound.
func (f *FileAdapter) Get(_ context.Context, key string) ([]byte, error) {
	blob, err := os.ReadFile(f.filename(key))
	if os.IsNotExist(err) {
		return nil, errors.ErrDataNotFound
	}
	if err != nil {
		return nil, errors.NewStorageError("get", key, err)
	}
	return blob, nil
}

// Set stores blob under key, overwriting any previous value.
func (f *FileAdapter) Set(_ context.Context, key string, blob []byte) error {
	path := f.filename(key)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, blob, 0644); err != nil {
		return errors.NewStorageError("set", key, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return errors.NewStorageError("set", key, err)
	}
	return nil
}

// Ping verifies the data directory is accessible.
func (f *FileAdapter) Ping(_ context.Context) error {
	if _, err := os.Stat(f.dir); err != nil {
		return errors.NewStorageError("ping", f.dir, err)
	}
	return nil
}

// Close is a no-op for the file adapter.
func (f *FileAdapter) Close() error {
	return nil
}
