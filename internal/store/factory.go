package store

import (
	"fmt"
	"log/slog"
)

const (
	FileBackend   = "file"
	SQLiteBackend = "sqlite"
)

// Open constructs the configured store backend. The file backend is the
// default; SQLite is the heavier alternative for anyone who wants real
// queries under the same interface.
func Open(backend, path string) (Store, error) {
	switch backend {
	case FileBackend, "":
		s, err := NewFileStore(path)
		if err != nil {
			return nil, fmt.Errorf("open file store: %w", err)
		}
		slog.Info("Initialized file bill store", "path", path)
		return s, nil
	case SQLiteBackend:
		s, err := NewSQLiteStore(path)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		slog.Info("Initialized sqlite bill store", "path", path)
		return s, nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", backend)
	}
}
