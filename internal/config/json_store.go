package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/afours/eshipping-launcher/internal/models"
)

const noticesFileName = "notices.json"

// JSONStore keeps the notice list in a single JSON file. Writes go through a
// temp file and rename, serialized by a mutex and an advisory file lock so
// concurrent savers in other processes do not interleave.
type JSONStore struct {
	mu     sync.Mutex
	path   string
	policy EmptyPolicy
}

// NewJSONStore creates a new JSON store in the given data directory.
func NewJSONStore(dataDir string, policy EmptyPolicy) *JSONStore {
	return &JSONStore{
		path:   filepath.Join(dataDir, noticesFileName),
		policy: policy,
	}
}

// Path returns the file path used by this store.
func (s *JSONStore) Path() string { return s.path }

// Load reads the list from disk. Returns DefaultNotices on any failure.
func (s *JSONStore) Load() models.NoticeList {
	return s.Board().Notices
}

// Board reads the list from disk together with its revision.
func (s *JSONStore) Board() models.NoticeBoard {
	data, err := os.ReadFile(s.path)
	return s.decode(data, err)
}

// Save replaces the persisted list.
func (s *JSONStore) Save(list models.NoticeList) (models.NoticeBoard, error) {
	return s.Update(func(models.NoticeList, string) (models.NoticeList, error) {
		return list, nil
	})
}

// Update runs fn against the current file content and writes its result.
func (s *JSONStore) Update(fn UpdateFunc) (models.NoticeBoard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return models.NoticeBoard{}, err
	}
	unlock, err := lockFile(s.path + ".lock")
	if err != nil {
		return models.NoticeBoard{}, fmt.Errorf("lock %s: %w", s.path, err)
	}
	defer unlock()

	data, err := os.ReadFile(s.path)
	cur := s.decode(data, err)

	next, err := fn(cur.Notices.Clone(), cur.Revision)
	if err != nil {
		return models.NoticeBoard{}, err
	}
	next = s.policy.apply(next.Clean())

	out, err := encodeNotices(next)
	if err != nil {
		return models.NoticeBoard{}, err
	}
	if err := s.writeAtomic(out); err != nil {
		return models.NoticeBoard{}, err
	}
	slog.Debug("config: notices saved", "path", s.path, "count", len(next))
	return models.NoticeBoard{Notices: next, Revision: revisionOf(out)}, nil
}

func (s *JSONStore) decode(data []byte, readErr error) models.NoticeBoard {
	if readErr != nil {
		if !errors.Is(readErr, os.ErrNotExist) {
			slog.Warn("config: cannot read notices, using defaults", "path", s.path, "err", readErr)
		}
		return models.NoticeBoard{Notices: models.DefaultNotices(), Revision: unsavedRevision}
	}
	board := models.NoticeBoard{Revision: revisionOf(data)}
	list, ok := decodeNotices(data)
	if !ok {
		slog.Warn("config: corrupt notices file, using defaults", "path", s.path)
		board.Notices = models.DefaultNotices()
		return board
	}
	board.Notices = s.policy.apply(list)
	return board
}

func (s *JSONStore) writeAtomic(data []byte) error {
	// Write to temp file, then rename (atomic on Linux)
	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmpPath, s.path)
}

// Ensure JSONStore implements config.Store
var _ Store = (*JSONStore)(nil)
