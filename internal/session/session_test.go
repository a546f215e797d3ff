package session_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/afours/eshipping-launcher/internal/models"
	"github.com/afours/eshipping-launcher/internal/session"
)

func TestMiddleware_CreatesSessionAndCookie(t *testing.T) {
	m := session.NewManager(false)

	var got *session.Session
	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = session.FromContext(r.Context())
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/admin", nil))

	if got == nil {
		t.Fatal("no session in request context")
	}
	if got.Authenticated() {
		t.Error("new session is authenticated, want unauthenticated")
	}
	cookies := rr.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Value != got.ID {
		t.Fatalf("cookies = %+v, want one with session ID %q", cookies, got.ID)
	}
	if !cookies[0].HttpOnly {
		t.Error("session cookie is not HttpOnly")
	}
	if cookies[0].MaxAge != 0 || !cookies[0].Expires.IsZero() {
		t.Error("session cookie should not be persistent")
	}
}

func TestMiddleware_ReusesKnownSession(t *testing.T) {
	m := session.NewManager(false)
	existing := m.Create()
	existing.MarkAuthenticated()

	var got *session.Session
	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = session.FromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.AddCookie(&http.Cookie{Name: "launcher-session", Value: existing.ID})
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if got != existing {
		t.Fatal("middleware did not reuse the existing session")
	}
	if !got.Authenticated() {
		t.Error("authentication lost across requests")
	}
	if len(rr.Result().Cookies()) != 0 {
		t.Error("cookie re-issued for a known session")
	}
}

func TestMiddleware_UnknownCookieStartsFresh(t *testing.T) {
	m := session.NewManager(false)

	var got *session.Session
	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = session.FromContext(r.Context())
	}))
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.AddCookie(&http.Cookie{Name: "launcher-session", Value: "forged"})
	h.ServeHTTP(httptest.NewRecorder(), req)

	if got == nil || got.ID == "forged" || got.Authenticated() {
		t.Errorf("forged cookie produced session %+v", got)
	}
	if m.Count() != 1 {
		t.Errorf("Count() = %d, want 1", m.Count())
	}
}

func TestSession_EditBuffer(t *testing.T) {
	s := session.NewManager(false).Create()
	if s.HasEdits() {
		t.Fatal("new session has edits")
	}
	s.StageEdit(0, "zero")
	s.StageEdit(2, "two")
	s.StageEdit(3, "three")
	s.StageEdit(-1, "ignored")

	s.ShiftEdits(2)
	got := s.Edits()
	want := map[int]string{0: "zero", 2: "three"}
	if len(got) != len(want) {
		t.Fatalf("Edits() = %v, want %v", got, want)
	}
	for i, v := range want {
		if got[i] != v {
			t.Errorf("Edits()[%d] = %q, want %q", i, got[i], v)
		}
	}

	// Returned map is a copy.
	got[9] = "x"
	if _, ok := s.Edits()[9]; ok {
		t.Error("Edits() exposes internal map")
	}

	s.ClearEdits()
	if s.HasEdits() {
		t.Error("edits remain after ClearEdits")
	}
}

func TestSession_Flash(t *testing.T) {
	s := session.NewManager(false).Create()
	if s.TakeFlash() != nil {
		t.Fatal("new session has a flash")
	}
	s.Flash(models.StatusWarning, "비밀번호가 올바르지 않습니다.")
	f := s.TakeFlash()
	if f == nil || f.Level != models.StatusWarning {
		t.Fatalf("TakeFlash() = %+v", f)
	}
	if s.TakeFlash() != nil {
		t.Error("flash not cleared after TakeFlash")
	}
}

func TestManager_Prune(t *testing.T) {
	m := session.NewManager(false)
	m.Create()
	m.Create()
	if n := m.Prune(time.Hour); n != 0 {
		t.Errorf("Prune(1h) removed %d fresh sessions", n)
	}
	if n := m.Prune(-time.Second); n != 2 {
		t.Errorf("Prune(-1s) removed %d, want 2", n)
	}
	if m.Count() != 0 {
		t.Errorf("Count() = %d after prune", m.Count())
	}
}

func TestFromContext_Missing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if session.FromContext(req.Context()) != nil {
		t.Error("FromContext on bare context returned a session")
	}
}
