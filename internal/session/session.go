// Package session keeps per-browser admin state: the authenticated flag,
// buffered notice edits, and a pending status message. Sessions are tracked
// by an opaque cookie and carried to handlers through the request context.
package session

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/afours/eshipping-launcher/internal/models"
)

const cookieName = "launcher-session"

type contextKey struct{}

// Session is the state of one interactive admin session.
type Session struct {
	ID string

	mu            sync.Mutex
	authenticated bool
	edits         map[int]string
	base          string
	flash         *models.Status
	lastSeen      time.Time
}

func newSession() *Session {
	return &Session{
		ID:       uuid.New().String(),
		edits:    make(map[int]string),
		lastSeen: time.Now(),
	}
}

// Authenticated reports whether the admin gate has been passed.
func (s *Session) Authenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authenticated
}

// MarkAuthenticated moves the session to the authenticated state.
// There is no way back within the session.
func (s *Session) MarkAuthenticated() {
	s.mu.Lock()
	s.authenticated = true
	s.mu.Unlock()
}

// StageEdit buffers a replacement for the entry at index.
func (s *Session) StageEdit(index int, value string) {
	if index < 0 {
		return
	}
	s.mu.Lock()
	s.edits[index] = value
	s.mu.Unlock()
}

// Edits returns a copy of the buffered edits keyed by index.
func (s *Session) Edits() map[int]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[int]string, len(s.edits))
	for i, v := range s.edits {
		out[i] = v
	}
	return out
}

// HasEdits reports whether any edit is buffered.
func (s *Session) HasEdits() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.edits) > 0
}

// ShiftEdits adjusts buffered edits after the entry at index was deleted:
// its own edit is dropped and edits after it move down by one.
func (s *Session) ShiftEdits(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	shifted := make(map[int]string, len(s.edits))
	for i, v := range s.edits {
		switch {
		case i < index:
			shifted[i] = v
		case i > index:
			shifted[i-1] = v
		}
	}
	s.edits = shifted
}

// ClearEdits drops every buffered edit.
func (s *Session) ClearEdits() {
	s.mu.Lock()
	s.edits = make(map[int]string)
	s.mu.Unlock()
}

// Base returns the revision the buffered edits were made against.
func (s *Session) Base() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.base
}

// SetBase records the revision the buffer is based on.
func (s *Session) SetBase(revision string) {
	s.mu.Lock()
	s.base = revision
	s.mu.Unlock()
}

// Flash stores a status message shown on the next admin render.
func (s *Session) Flash(level models.StatusLevel, msg string) {
	s.mu.Lock()
	s.flash = &models.Status{Level: level, Message: msg}
	s.mu.Unlock()
}

// TakeFlash returns and clears the pending status message, or nil.
func (s *Session) TakeFlash() *models.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	f := s.flash
	s.flash = nil
	return f
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// Manager tracks live sessions.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	secure   bool
}

// NewManager creates a session manager. secure marks the cookie Secure.
func NewManager(secure bool) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		secure:   secure,
	}
}

// Get returns the session with the given ID.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	return s, ok
}

// Create starts a new unauthenticated session.
func (m *Manager) Create() *Session {
	s := newSession()
	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	return s
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Prune forgets sessions idle for longer than maxIdle and returns how many
// were removed. Browsers drop the session cookie on close, so such entries
// are otherwise unreachable.
func (m *Manager) Prune(maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, s := range m.sessions {
		if s.idleSince().Before(cutoff) {
			delete(m.sessions, id)
			n++
		}
	}
	return n
}

// Middleware resolves the session cookie, starting a new session when the
// cookie is missing or unknown, and stores the session in the request context.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var s *Session
		if cookie, err := r.Cookie(cookieName); err == nil {
			s, _ = m.Get(cookie.Value)
		}
		if s == nil {
			s = m.Create()
			// No MaxAge: the session ends when the browser session ends.
			http.SetCookie(w, &http.Cookie{
				Name:     cookieName,
				Value:    s.ID,
				Path:     "/",
				HttpOnly: true,
				Secure:   m.secure,
				SameSite: http.SameSiteLaxMode,
			})
		}
		s.touch(time.Now())
		next.ServeHTTP(w, r.WithContext(NewContext(r.Context(), s)))
	})
}

// NewContext returns a copy of ctx carrying s.
func NewContext(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

// FromContext returns the session stored by Middleware, or nil.
func FromContext(ctx context.Context) *Session {
	s, _ := ctx.Value(contextKey{}).(*Session)
	return s
}
