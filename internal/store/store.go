// Package store loads the compatibility matrix from its backing file and
// keeps a single read-only snapshot of it.
package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/opensubtitles/langcompat/internal/logging"
	"github.com/opensubtitles/langcompat/internal/model"
)

// Store provides the memoized matrix snapshot.
type Store interface {
	// Load returns the matrix. The first call reads the backing file;
	// later calls return the same snapshot, or the same error.
	Load(ctx context.Context) (*model.Matrix, error)

	// Path names the backing file.
	Path() string

	// Close releases resources held by the store.
	Close() error
}

// Open picks a store for path by extension: .db, .sqlite and .sqlite3 are
// SQLite snapshots, anything else is JSON. An empty path means the bundled
// dataset.
func Open(path string) Store {
	if path == "" {
		return NewEmbeddedStore()
	}
	if IsSQLitePath(path) {
		return NewSQLiteStore(path)
	}
	return NewJSONStore(path)
}

// IsSQLitePath reports whether path names a SQLite snapshot by extension.
func IsSQLitePath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return true
	}
	return false
}

// snapshot is the load-once cache shared by the store implementations.
type snapshot struct {
	mu   sync.Mutex
	done bool
	m    *model.Matrix
	err  error
}

func (s *snapshot) get(ctx context.Context, path string, read func() (*model.Matrix, error)) (*model.Matrix, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.done {
		return s.m, s.err
	}
	// A cancelled caller is not a property of the file, so it is not cached.
	if err := ctx.Err(); err != nil {
		return nil, &DataError{Path: path, Op: "load", Err: err}
	}

	start := time.Now()
	s.m, s.err = read()
	s.done = true
	if s.err != nil {
		logging.Warn("matrix_unavailable", "path", path, "error", s.err)
		return nil, s.err
	}
	logging.MatrixLoaded(path, s.m.Len(), s.m.Pairs(), time.Since(start))
	return s.m, nil
}

// replaceFile runs write against a temporary file next to path and renames
// it over path on success. On failure the temporary file is removed and
// path is left untouched.
func replaceFile(path string, write func(tmp string) error) error {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmp := f.Name()
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}

	if err := write(tmp); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Chmod(tmp, 0o644); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
