package session

import (
	"context"
	"fmt"
	"os"

	"github.com/fsnotify/fsnotify"
	"github.com/iwvelando/calcdash/pkg/storage"
	"go.uber.org/zap"
)

// Watch invalidates cached snapshots whenever a key file in the FileStore
// directory is changed by another program. It blocks until ctx is cancelled.
func (s *Session) Watch(ctx context.Context, store *storage.FileStore) error {
	if err := os.MkdirAll(store.Dir(), 0o755); err != nil {
		return fmt.Errorf("failed to create data directory %s: %w", store.Dir(), err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer func() {
		if closeErr := watcher.Close(); closeErr != nil {
			s.logger.Warn("failed to close file watcher",
				zap.String("op", "session.Watch"),
				zap.Error(closeErr),
			)
		}
	}()

	if err := watcher.Add(store.Dir()); err != nil {
		return fmt.Errorf("failed to watch %s: %w", store.Dir(), err)
	}
	s.logger.Info("watching data directory",
		zap.String("op", "session.Watch"),
		zap.String("dir", store.Dir()),
	)

	const changed = fsnotify.Write | fsnotify.Create | fsnotify.Rename | fsnotify.Remove
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(changed) {
				continue
			}
			if key, owned := store.KeyForPath(event.Name); owned {
				s.Invalidate(key)
			}
		case werr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn("file watcher error",
				zap.String("op", "session.Watch"),
				zap.Error(werr),
			)
		}
	}
}
