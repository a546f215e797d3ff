package notices

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch publishes the list to ticker subscribers whenever the backing file is
// changed outside this process, e.g. edited by hand or restored from backup.
// It blocks until ctx is cancelled. In-memory stores return immediately.
func (s *Service) Watch(ctx context.Context) error {
	path := s.store.Path()
	if path == ":memory:" {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("notices: create watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("notices: watch %s: %w", dir, err)
	}
	slog.Debug("notices: watching for external edits", "path", path)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Name != path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				s.publish(s.store.Board())
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("notices: watcher error", "err", err)
		}
	}
}
