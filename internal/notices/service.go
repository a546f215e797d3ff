// Package notices implements the notice-list operations behind the home
// ticker and the admin editor. Every mutation is a read-modify-write cycle on
// the store, followed by a ticker update to subscribers.
package notices

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/afours/eshipping-launcher/internal/config"
	"github.com/afours/eshipping-launcher/internal/events"
	"github.com/afours/eshipping-launcher/internal/models"
)

// errNoChange aborts a store update without writing.
var errNoChange = errors.New("no change")

// Service owns mutations of the persisted notice list.
type Service struct {
	store config.Store
	bus   *events.Bus

	mu      sync.Mutex
	lastRev string
}

// New creates a notice Service on top of store, publishing changes to bus.
func New(store config.Store, bus *events.Bus) *Service {
	return &Service{store: store, bus: bus}
}

// Load returns the persisted list, falling back to defaults.
func (s *Service) Load() models.NoticeList {
	return s.store.Load()
}

// Board returns the persisted list with its revision.
func (s *Service) Board() models.NoticeBoard {
	return s.store.Board()
}

// apply runs fn under the store lock, persists the result, and publishes it.
// The returned board records the revision fn was given in Previous.
func (s *Service) apply(fn config.UpdateFunc) (models.NoticeBoard, *models.AppError) {
	var prev string
	board, err := s.store.Update(func(current models.NoticeList, rev string) (models.NoticeList, error) {
		prev = rev
		return fn(current, rev)
	})
	if err != nil {
		if errors.Is(err, errNoChange) {
			return s.store.Board(), nil
		}
		if appErr, ok := err.(*models.AppError); ok {
			return models.NoticeBoard{}, appErr
		}
		slog.Error("notices: save failed", "path", s.store.Path(), "err", err)
		return models.NoticeBoard{}, models.ErrInternal("failed to save notices: " + err.Error())
	}
	s.publish(board)
	board.Previous = prev
	return board, nil
}

// Save replaces the persisted list with list. Entries are trimmed and blank
// ones dropped before writing.
func (s *Service) Save(ctx context.Context, list models.NoticeList) (models.NoticeBoard, *models.AppError) {
	return s.Replace(ctx, list, "")
}

// Replace is Save with an optional revision check: a non-empty ifRevision
// that no longer matches the persisted document yields a conflict.
func (s *Service) Replace(_ context.Context, list models.NoticeList, ifRevision string) (models.NoticeBoard, *models.AppError) {
	return s.apply(func(_ models.NoticeList, rev string) (models.NoticeList, error) {
		if err := checkRevision(rev, ifRevision); err != nil {
			return nil, err
		}
		return list, nil
	})
}

// Add appends a trimmed entry and persists. Blank input is rejected with
// models.ErrEmptyNotice and nothing is written.
func (s *Service) Add(_ context.Context, entry string) (models.NoticeBoard, *models.AppError) {
	entry = strings.TrimSpace(entry)
	if entry == "" {
		return models.NoticeBoard{}, models.ErrEmptyNotice
	}
	return s.apply(func(cur models.NoticeList, _ string) (models.NoticeList, error) {
		return append(cur, entry), nil
	})
}

// Update replaces the entry at index and persists. It reports false and
// writes nothing when index is out of range.
func (s *Service) Update(_ context.Context, index int, text string) (models.NoticeBoard, bool, *models.AppError) {
	if strings.TrimSpace(text) == "" {
		return models.NoticeBoard{}, false, models.ErrEmptyNotice
	}
	changed := false
	board, appErr := s.apply(func(cur models.NoticeList, _ string) (models.NoticeList, error) {
		if !cur.Edit(index, text) {
			return nil, errNoChange
		}
		changed = true
		return cur, nil
	})
	return board, changed, appErr
}

// ApplyEdits reconciles a buffer of positional edits against the persisted
// list and saves the result. Edits whose index no longer exists are skipped;
// an edit to blank text removes the entry when the list is cleaned on save.
func (s *Service) ApplyEdits(_ context.Context, edits map[int]string, ifRevision string) (models.NoticeBoard, *models.AppError) {
	return s.apply(func(cur models.NoticeList, rev string) (models.NoticeList, error) {
		if err := checkRevision(rev, ifRevision); err != nil {
			return nil, err
		}
		for i, v := range edits {
			cur.Edit(i, v)
		}
		return cur, nil
	})
}

// Delete removes the entry at index, shifting later entries down, and
// persists. It reports false and writes nothing when index is out of range.
func (s *Service) Delete(_ context.Context, index int) (models.NoticeBoard, bool, *models.AppError) {
	changed := false
	board, appErr := s.apply(func(cur models.NoticeList, _ string) (models.NoticeList, error) {
		next, ok := cur.Delete(index)
		if !ok {
			return nil, errNoChange
		}
		changed = true
		return next, nil
	})
	return board, changed, appErr
}

// Reset replaces the list with the built-in defaults and persists.
func (s *Service) Reset(_ context.Context) (models.NoticeBoard, *models.AppError) {
	return s.apply(func(models.NoticeList, string) (models.NoticeList, error) {
		return models.DefaultNotices(), nil
	})
}

func checkRevision(current, expected string) error {
	if expected != "" && expected != current {
		return models.ErrConflict("notices were changed by someone else; reload and try again")
	}
	return nil
}

// publish forwards board to ticker subscribers unless it was already sent.
func (s *Service) publish(board models.NoticeBoard) {
	s.mu.Lock()
	if board.Revision != "" && board.Revision == s.lastRev {
		s.mu.Unlock()
		return
	}
	s.lastRev = board.Revision
	s.mu.Unlock()
	if s.bus != nil {
		s.bus.Publish(board)
	}
}
