package config_test

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/afours/eshipping-launcher/internal/config"
	"github.com/afours/eshipping-launcher/internal/models"
)

// --- JSONStore tests ---

func newTempDir(t *testing.T) string {
	t.Helper()
	dir, err := os.MkdirTemp("", "launcher-config-test-*")
	if err != nil {
		t.Fatalf("MkdirTemp: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })
	return dir
}

func writeNoticesFile(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, "notices.json"), []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func requireDefaults(t *testing.T, got models.NoticeList) {
	t.Helper()
	if want := models.DefaultNotices(); !got.Equal(want) {
		t.Errorf("got %q, want defaults %q", got, want)
	}
}

func TestJSONStore_LoadMissingFile_ReturnsDefault(t *testing.T) {
	store := config.NewJSONStore(newTempDir(t), config.RestoreDefaults)
	requireDefaults(t, store.Load())
	rev := store.Board().Revision
	if rev == "" {
		t.Fatal("Revision of missing file is empty")
	}
	saved, err := store.Save(models.DefaultNotices())
	if err != nil {
		t.Fatal(err)
	}
	if saved.Revision == rev {
		t.Error("first save kept the missing-file revision")
	}
}

func TestJSONStore_LoadFallbacks(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"string value", `"not a list"`},
		{"object value", `{"notices": ["a"]}`},
		{"null", `null`},
		{"number", `42`},
		{"malformed", `["unterminated`},
		{"truncated write", `[` + "\n" + `  "첫 번째",` + "\n" + `  "두`},
		{"empty file", ``},
		{"only blanks", `["", "   ", "\t\n"]`},
		{"empty array", `[]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := newTempDir(t)
			writeNoticesFile(t, dir, tt.content)
			store := config.NewJSONStore(dir, config.RestoreDefaults)
			requireDefaults(t, store.Load())
		})
	}
}

func TestJSONStore_LoadFiltersBlankEntries(t *testing.T) {
	dir := newTempDir(t)
	writeNoticesFile(t, dir, `["  first  ", "", "   ", "second", 7, null, "third"]`)
	store := config.NewJSONStore(dir, config.RestoreDefaults)

	got := store.Load()
	want := models.NoticeList{"first", "second", "third"}
	if !got.Equal(want) {
		t.Errorf("Load() = %q, want %q", got, want)
	}
}

func TestJSONStore_SaveLoadRoundTrip(t *testing.T) {
	lists := []models.NoticeList{
		{"Restock on Monday"},
		{"a", "a", "b"},
		{"📦 오늘 출고 마감은 오후 3시입니다.", "합배송 <확인> & 검수", "tab\tinside  spaces"},
	}
	for i, list := range lists {
		t.Run(fmt.Sprint(i), func(t *testing.T) {
			store := config.NewJSONStore(newTempDir(t), config.RestoreDefaults)
			if _, err := store.Save(list); err != nil {
				t.Fatalf("Save() error = %v", err)
			}
			if got := store.Load(); !got.Equal(list) {
				t.Errorf("Load() = %q, want %q", got, list)
			}
		})
	}
}

func TestJSONStore_SaveTrimsAndDropsBlanks(t *testing.T) {
	store := config.NewJSONStore(newTempDir(t), config.RestoreDefaults)
	board, err := store.Save(models.NoticeList{"  a ", " ", "b"})
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	want := models.NoticeList{"a", "b"}
	if !board.Notices.Equal(want) {
		t.Errorf("Save() notices = %q, want %q", board.Notices, want)
	}
	if got := store.Load(); !got.Equal(want) {
		t.Errorf("Load() = %q, want %q", got, want)
	}
}

func TestJSONStore_FileFormat(t *testing.T) {
	dir := newTempDir(t)
	store := config.NewJSONStore(dir, config.RestoreDefaults)
	if _, err := store.Save(models.NoticeList{"가나다 <b>&</b>", "two"}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	data, err := os.ReadFile(store.Path())
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	want := "[\n  \"가나다 <b>&</b>\",\n  \"two\"\n]\n"
	if string(data) != want {
		t.Errorf("file content = %q, want %q", data, want)
	}
	if _, err := os.Stat(store.Path() + ".tmp"); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("temp file left behind: %v", err)
	}
}

func TestJSONStore_SaveOverwritesPreviousContent(t *testing.T) {
	store := config.NewJSONStore(newTempDir(t), config.RestoreDefaults)
	if _, err := store.Save(models.NoticeList{"a", "b", "c", "d"}); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Save(models.NoticeList{"z"}); err != nil {
		t.Fatal(err)
	}
	if got := store.Load(); !got.Equal(models.NoticeList{"z"}) {
		t.Errorf("Load() = %q, want [z]", got)
	}
}

func TestJSONStore_EmptyPolicy_RestoreDefaults(t *testing.T) {
	dir := newTempDir(t)
	store := config.NewJSONStore(dir, config.RestoreDefaults)

	board, err := store.Save(models.NoticeList{"  ", ""})
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	requireDefaults(t, board.Notices)

	data, err := os.ReadFile(store.Path())
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if strings.TrimSpace(string(data)) == "[]" {
		t.Error("empty list persisted under restore-defaults policy")
	}
	requireDefaults(t, store.Load())
}

func TestJSONStore_EmptyPolicy_KeepEmpty(t *testing.T) {
	dir := newTempDir(t)
	store := config.NewJSONStore(dir, config.KeepEmpty)

	board, err := store.Save(models.NoticeList{})
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if len(board.Notices) != 0 {
		t.Errorf("Save() notices = %q, want empty", board.Notices)
	}
	data, err := os.ReadFile(store.Path())
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if strings.TrimSpace(string(data)) != "[]" {
		t.Errorf("file = %q, want []", data)
	}
	if got := store.Load(); len(got) != 0 || got == nil {
		t.Errorf("Load() = %#v, want empty non-nil list", got)
	}
}

func TestJSONStore_EmptyPolicy_KeepEmptyStillFallsBackOnCorrupt(t *testing.T) {
	dir := newTempDir(t)
	writeNoticesFile(t, dir, `{broken`)
	store := config.NewJSONStore(dir, config.KeepEmpty)
	requireDefaults(t, store.Load())

	missing := config.NewJSONStore(newTempDir(t), config.KeepEmpty)
	requireDefaults(t, missing.Load())
}

func TestJSONStore_RevisionTracksContent(t *testing.T) {
	dir := newTempDir(t)
	store := config.NewJSONStore(dir, config.RestoreDefaults)

	b1, err := store.Save(models.NoticeList{"a"})
	if err != nil {
		t.Fatal(err)
	}
	if b1.Revision == "" {
		t.Fatal("Save() returned empty revision")
	}
	if got := store.Board().Revision; got != b1.Revision {
		t.Errorf("Board().Revision = %q, want %q", got, b1.Revision)
	}

	b2, err := store.Save(models.NoticeList{"b"})
	if err != nil {
		t.Fatal(err)
	}
	if b2.Revision == b1.Revision {
		t.Error("revision did not change after content change")
	}

	// An external edit changes the revision too.
	writeNoticesFile(t, dir, `["edited by hand"]`)
	if got := store.Board().Revision; got == b2.Revision {
		t.Error("revision did not change after external edit")
	}
}

func TestJSONStore_UpdateAbortLeavesFileUntouched(t *testing.T) {
	store := config.NewJSONStore(newTempDir(t), config.RestoreDefaults)
	before, err := store.Save(models.NoticeList{"keep me"})
	if err != nil {
		t.Fatal(err)
	}

	errAbort := errors.New("abort")
	_, err = store.Update(func(cur models.NoticeList, rev string) (models.NoticeList, error) {
		if rev != before.Revision {
			t.Errorf("Update saw revision %q, want %q", rev, before.Revision)
		}
		return nil, errAbort
	})
	if !errors.Is(err, errAbort) {
		t.Fatalf("Update() error = %v, want %v", err, errAbort)
	}
	if got := store.Board(); got.Revision != before.Revision || !got.Notices.Equal(before.Notices) {
		t.Errorf("Board() = %+v, want %+v", got, before)
	}
}

func TestJSONStore_UpdateSeesDefaultsWhenMissing(t *testing.T) {
	store := config.NewJSONStore(newTempDir(t), config.RestoreDefaults)
	_, err := store.Update(func(cur models.NoticeList, rev string) (models.NoticeList, error) {
		requireDefaults(t, cur)
		if rev != "" {
			t.Errorf("rev = %q, want empty", rev)
		}
		return cur, nil
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
}

func TestJSONStore_ConcurrentUpdatesSerialize(t *testing.T) {
	store := config.NewJSONStore(newTempDir(t), config.KeepEmpty)
	if _, err := store.Save(models.NoticeList{}); err != nil {
		t.Fatal(err)
	}

	const n = 20
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := store.Update(func(cur models.NoticeList, _ string) (models.NoticeList, error) {
				return append(cur, fmt.Sprintf("notice %d", i)), nil
			})
			if err != nil {
				t.Errorf("Update(%d): %v", i, err)
			}
		}(i)
	}
	wg.Wait()

	if got := store.Load(); len(got) != n {
		t.Errorf("len(Load()) = %d, want %d (lost updates)", len(got), n)
	}
}

func TestJSONStore_CreatesDataDir(t *testing.T) {
	dir := filepath.Join(newTempDir(t), "nested", "data")
	store := config.NewJSONStore(dir, config.RestoreDefaults)
	if _, err := store.Save(models.NoticeList{"x"}); err != nil {
		t.Fatalf("Save() into missing dir: %v", err)
	}
	if _, err := os.Stat(store.Path()); err != nil {
		t.Errorf("expected file at %q: %v", store.Path(), err)
	}
}

// --- EmptyPolicy tests ---

func TestParseEmptyPolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    config.EmptyPolicy
		wantErr bool
	}{
		{"", config.RestoreDefaults, false},
		{"restore-defaults", config.RestoreDefaults, false},
		{"keep-empty", config.KeepEmpty, false},
		{"bogus", "", true},
	}
	for _, tt := range tests {
		got, err := config.ParseEmptyPolicy(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseEmptyPolicy(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseEmptyPolicy(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// --- MemStore tests ---

func TestMemStore_DefaultsUntilSaved(t *testing.T) {
	m := config.NewMemStore(config.RestoreDefaults)
	requireDefaults(t, m.Load())
	if m.Path() != ":memory:" {
		t.Errorf("Path() = %q", m.Path())
	}
	file := config.NewJSONStore(newTempDir(t), config.RestoreDefaults)
	if mr, fr := m.Board().Revision, file.Board().Revision; mr == "" || mr != fr {
		t.Errorf("unsaved revisions: mem %q json %q, want equal and non-empty", mr, fr)
	}
}

func TestMemStore_MatchesJSONStoreSemantics(t *testing.T) {
	m := config.NewMemStore(config.RestoreDefaults)
	board, err := m.Save(models.NoticeList{" a ", "", "b"})
	if err != nil {
		t.Fatal(err)
	}
	if !board.Notices.Equal(models.NoticeList{"a", "b"}) {
		t.Errorf("Save() = %q", board.Notices)
	}

	m.SetRaw([]byte(`"not a list"`))
	requireDefaults(t, m.Load())

	j := config.NewJSONStore(newTempDir(t), config.RestoreDefaults)
	jb, _ := j.Save(models.NoticeList{"same"})
	mb, _ := m.Save(models.NoticeList{"same"})
	if jb.Revision != mb.Revision {
		t.Errorf("revisions differ for identical content: json %q mem %q", jb.Revision, mb.Revision)
	}
}

// --- Links tests ---

func TestLoadLinks_MissingFile_ReturnsDefault(t *testing.T) {
	links := config.LoadLinks(newTempDir(t))
	if len(links) != len(models.DefaultLinks()) {
		t.Errorf("LoadLinks() len = %d, want %d", len(links), len(models.DefaultLinks()))
	}
}

func TestLoadLinks_Override(t *testing.T) {
	dir := newTempDir(t)
	content := `[{"label":" 재고 조회 ","url":"https://stock.example.com"},{"label":"","url":"https://skip.example.com"}]`
	if err := os.WriteFile(config.LinksPath(dir), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	links := config.LoadLinks(dir)
	if len(links) != 1 {
		t.Fatalf("LoadLinks() len = %d, want 1", len(links))
	}
	if links[0].Label != "재고 조회" || links[0].URL != "https://stock.example.com" {
		t.Errorf("links[0] = %+v", links[0])
	}
}

func TestLoadLinks_Corrupt_ReturnsDefault(t *testing.T) {
	dir := newTempDir(t)
	if err := os.WriteFile(config.LinksPath(dir), []byte(`{nope`), 0644); err != nil {
		t.Fatal(err)
	}
	if got := config.LoadLinks(dir); len(got) != len(models.DefaultLinks()) {
		t.Errorf("LoadLinks() len = %d, want defaults", len(got))
	}
}
