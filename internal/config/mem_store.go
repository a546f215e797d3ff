package config

import (
	"sync"

	"github.com/afours/eshipping-launcher/internal/models"
)

// MemStore is an in-memory Store for tests that never writes to disk.
// It applies the same cleaning, empty policy, and revision rules as JSONStore.
type MemStore struct {
	mu     sync.Mutex
	policy EmptyPolicy
	data   []byte
}

// NewMemStore returns a new in-memory store with nothing persisted
// (Load returns DefaultNotices until the first Save).
func NewMemStore(policy EmptyPolicy) *MemStore {
	return &MemStore{policy: policy}
}

// Load returns the stored list, or DefaultNotices if none has been saved yet.
func (m *MemStore) Load() models.NoticeList {
	return m.Board().Notices
}

// Board returns the stored list with its revision.
func (m *MemStore) Board() models.NoticeBoard {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.board()
}

func (m *MemStore) board() models.NoticeBoard {
	if m.data == nil {
		return models.NoticeBoard{Notices: models.DefaultNotices(), Revision: unsavedRevision}
	}
	board := models.NoticeBoard{Revision: revisionOf(m.data)}
	list, ok := decodeNotices(m.data)
	if !ok {
		board.Notices = models.DefaultNotices()
		return board
	}
	board.Notices = m.policy.apply(list)
	return board
}

// Save stores a cleaned copy of list.
func (m *MemStore) Save(list models.NoticeList) (models.NoticeBoard, error) {
	return m.Update(func(models.NoticeList, string) (models.NoticeList, error) {
		return list, nil
	})
}

// Update runs fn against the stored list under the store lock.
func (m *MemStore) Update(fn UpdateFunc) (models.NoticeBoard, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cur := m.board()
	next, err := fn(cur.Notices.Clone(), cur.Revision)
	if err != nil {
		return models.NoticeBoard{}, err
	}
	next = m.policy.apply(next.Clean())
	out, err := encodeNotices(next)
	if err != nil {
		return models.NoticeBoard{}, err
	}
	m.data = out
	return models.NoticeBoard{Notices: next, Revision: revisionOf(out)}, nil
}

// SetRaw replaces the stored document verbatim, bypassing cleaning.
// Tests use it to simulate corrupt or externally edited content.
func (m *MemStore) SetRaw(data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = append([]byte(nil), data...)
}

// Path returns ":memory:" to indicate this is an in-memory store.
func (m *MemStore) Path() string { return ":memory:" }

// Ensure MemStore implements config.Store
var _ Store = (*MemStore)(nil)
