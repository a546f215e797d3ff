package api

import (
	"bytes"
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/csrf"

	"github.com/afours/eshipping-launcher/internal/models"
	"github.com/afours/eshipping-launcher/internal/session"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = map[string]*template.Template{
	"home":  parsePage("home.html"),
	"admin": parsePage("admin.html"),
}

func parsePage(name string) *template.Template {
	return template.Must(template.New(name).ParseFS(templateFS, "templates/layout.html", "templates/"+name))
}

type pageData struct {
	PageTitle string
	Title     string
	Subtitle  string
	Footer    string

	// home
	Notices   models.NoticeList
	Links     []models.Link
	Logo      bool
	LogoWidth int

	// admin
	Flash         *models.Status
	Authenticated bool
	Rows          []noticeRow
	HasEdits      bool
	CSRFField     template.HTML
}

type noticeRow struct {
	Index  int
	Text   string
	Staged bool
}

func newPageData() pageData {
	return pageData{
		PageTitle: models.PageTitle,
		Title:     models.Title,
		Subtitle:  models.Subtitle,
		Footer:    models.Footer,
	}
}

// render executes a page into a buffer so template errors become a clean 500.
func render(w http.ResponseWriter, page string, data pageData) {
	var buf bytes.Buffer
	if err := pages[page].ExecuteTemplate(&buf, "layout", data); err != nil {
		slog.Error("api: render failed", "page", page, "err", err)
		http.Error(w, "Render error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = buf.WriteTo(w)
}

func (h *Handlers) homePage(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("page") == "admin" {
		http.Redirect(w, r, "/admin", http.StatusFound)
		return
	}
	data := newPageData()
	data.Notices = h.notices.Board().Notices
	data.Links = h.links()
	if h.logo != nil {
		data.Logo = true
		data.LogoWidth, _ = h.logo.Size()
	}
	render(w, "home", data)
}

func (h *Handlers) logoImage(w http.ResponseWriter, r *http.Request) {
	if h.logo == nil {
		http.NotFound(w, r)
		return
	}
	h.logo.ServeHTTP(w, r)
}

func (h *Handlers) adminPage(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	data := newPageData()
	data.Flash = sess.TakeFlash()
	data.Authenticated = sess.Authenticated()
	data.CSRFField = csrf.TemplateField(r)

	if data.Authenticated {
		board := h.notices.Board()
		if !sess.HasEdits() {
			sess.SetBase(board.Revision)
		}
		edits := sess.Edits()
		data.Rows = make([]noticeRow, len(board.Notices))
		for i, text := range board.Notices {
			row := noticeRow{Index: i, Text: text}
			if staged, ok := edits[i]; ok {
				row.Text, row.Staged = staged, true
			}
			data.Rows[i] = row
		}
		data.HasEdits = len(edits) > 0
	}
	render(w, "admin", data)
}

func (h *Handlers) adminLogin(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	if sess.Authenticated() {
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
		return
	}
	ok := h.gate.Authenticate(sess, r.FormValue("password"))
	slog.Info("auth: admin login attempt", "client", clientAddr(r), "ok", ok)
	if ok {
		sess.Flash(models.StatusSuccess, "인증되었습니다.")
	} else {
		sess.Flash(models.StatusWarning, "비밀번호가 올바르지 않습니다.")
	}
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

func (h *Handlers) adminAdd(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	board, appErr := h.notices.Add(r.Context(), r.FormValue("text"))
	switch {
	case appErr == models.ErrEmptyNotice:
		sess.Flash(models.StatusWarning, "공지 내용을 입력해주세요.")
	case appErr != nil:
		flashError(sess, appErr)
	default:
		rebase(sess, board.Previous, board.Revision)
		sess.Flash(models.StatusSuccess, "공지를 추가했습니다.")
	}
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

// adminStageEdit buffers an edit in the session; nothing is written until
// the admin saves.
func (h *Handlers) adminStageEdit(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	idx, err := intParam(r, "idx")
	if err != nil {
		sess.Flash(models.StatusWarning, "잘못된 요청입니다.")
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
		return
	}
	text := strings.TrimSpace(r.FormValue("text"))
	board := h.notices.Board()
	switch {
	case idx < 0 || idx >= len(board.Notices):
		sess.Flash(models.StatusInfo, "해당 공지를 찾을 수 없습니다.")
	case text == "":
		sess.Flash(models.StatusWarning, "공지 내용을 입력해주세요. 삭제하려면 삭제 버튼을 사용하세요.")
	default:
		if !sess.HasEdits() {
			sess.SetBase(board.Revision)
		}
		sess.StageEdit(idx, text)
		sess.Flash(models.StatusInfo, "수정 내용을 임시로 보관했습니다. '변경 내용 저장'을 눌러 반영하세요.")
	}
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

func (h *Handlers) adminDelete(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	idx, err := intParam(r, "idx")
	if err != nil {
		sess.Flash(models.StatusWarning, "잘못된 요청입니다.")
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
		return
	}
	board, changed, appErr := h.notices.Delete(r.Context(), idx)
	switch {
	case appErr != nil:
		flashError(sess, appErr)
	case !changed:
		sess.Flash(models.StatusInfo, "해당 공지를 찾을 수 없습니다.")
	default:
		sess.ShiftEdits(idx)
		rebase(sess, board.Previous, board.Revision)
		sess.Flash(models.StatusSuccess, "공지를 삭제했습니다.")
	}
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

func (h *Handlers) adminSave(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	edits := sess.Edits()
	if len(edits) == 0 {
		sess.Flash(models.StatusInfo, "변경된 내용이 없습니다.")
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
		return
	}
	board, appErr := h.notices.ApplyEdits(r.Context(), edits, sess.Base())
	switch {
	case appErr != nil && appErr.Status == http.StatusConflict:
		sess.ClearEdits()
		sess.SetBase(h.notices.Board().Revision)
		sess.Flash(models.StatusWarning, "다른 관리자가 공지를 변경했습니다. 최신 목록에서 다시 수정해주세요.")
	case appErr != nil:
		flashError(sess, appErr)
	default:
		sess.ClearEdits()
		sess.SetBase(board.Revision)
		sess.Flash(models.StatusSuccess, "저장되었습니다.")
	}
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

func (h *Handlers) adminReset(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	board, appErr := h.notices.Reset(r.Context())
	if appErr != nil {
		flashError(sess, appErr)
	} else {
		sess.ClearEdits()
		sess.SetBase(board.Revision)
		sess.Flash(models.StatusSuccess, "기본 공지로 초기화했습니다.")
	}
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

// rebase moves the edit buffer onto rev after this session's own write over
// prev, unless the buffer was already behind someone else's change.
func rebase(sess *session.Session, prev, rev string) {
	if !sess.HasEdits() || sess.Base() == prev {
		sess.SetBase(rev)
	}
}

func flashError(sess *session.Session, appErr *models.AppError) {
	sess.Flash(models.StatusWarning, "저장에 실패했습니다: "+appErr.Message)
}
