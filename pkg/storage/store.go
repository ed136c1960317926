// Package storage provides the durable key-value byte stores that back the
// record logs.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/iwvelando/calcdash/pkg/constants"
	"go.uber.org/zap"
)

// ErrNotFound is returned by Read when nothing has been written under a key.
var ErrNotFound = errors.New("storage: key not found")

// ByteStore is a durable byte store addressed by key. Write replaces the full
// contents stored under the key.
type ByteStore interface {
	Read(ctx context.Context, key string) ([]byte, error)
	Write(ctx context.Context, key string, data []byte) error
	Close() error
}

// Options selects and configures a ByteStore backend.
type Options struct {
	Backend    string
	DataDir    string
	SQLitePath string
}

// Open creates the ByteStore named by opts.Backend.
func Open(opts Options, logger *zap.Logger) (ByteStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	switch opts.Backend {
	case "", constants.BackendFile:
		dir := opts.DataDir
		if dir == "" {
			dir = constants.DefaultDataDir
		}
		logger.Info("initialized file storage",
			zap.String("op", "storage.Open"),
			zap.String("dir", dir),
		)
		return NewFileStore(dir), nil
	case constants.BackendSQLite:
		path := opts.SQLitePath
		if path == "" {
			path = constants.DefaultSQLitePath
		}
		store, err := NewSQLiteStore(path)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize sqlite storage: %w", err)
		}
		logger.Info("initialized sqlite storage",
			zap.String("op", "storage.Open"),
			zap.String("path", path),
		)
		return store, nil
	case constants.BackendMemory:
		logger.Warn("using memory storage, records will not survive restarts",
			zap.String("op", "storage.Open"),
		)
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unsupported storage backend: %s", opts.Backend)
	}
}

func validateKey(key string) error {
	if key == "" {
		return errors.New("storage: empty key")
	}
	if strings.ContainsAny(key, `/\`) || strings.Contains(key, "..") {
		return fmt.Errorf("storage: invalid key %q", key)
	}
	return nil
}
