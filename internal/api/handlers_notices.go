package api

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/afours/eshipping-launcher/internal/models"
	"github.com/afours/eshipping-launcher/internal/session"
)

func (h *Handlers) getNotices(w http.ResponseWriter, r *http.Request) {
	board := h.notices.Board()
	w.Header().Set("ETag", `"`+board.Revision+`"`)
	writeJSON(w, http.StatusOK, board)
}

func (h *Handlers) getLinks(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.links())
}

func (h *Handlers) getInfo(w http.ResponseWriter, r *http.Request) {
	board := h.notices.Board()
	writeJSON(w, http.StatusOK, models.Info{
		Hostname: h.host,
		Version:  h.version,
		Notices:  len(board.Notices),
		Revision: board.Revision,
	})
}

func (h *Handlers) apiLogin(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if appErr := decodeJSON(w, r, &req); appErr != nil {
		writeError(w, appErr)
		return
	}
	sess := session.FromContext(r.Context())
	ok := sess.Authenticated() || h.gate.Authenticate(sess, req.Password)
	slog.Info("auth: api login attempt", "client", clientAddr(r), "ok", ok)
	if !ok {
		writeError(w, models.ErrWrongPassword)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"authenticated": true})
}

func (h *Handlers) addNotice(w http.ResponseWriter, r *http.Request) {
	var req models.NoticeCreate
	if appErr := decodeJSON(w, r, &req); appErr != nil {
		writeError(w, appErr)
		return
	}
	board, appErr := h.notices.Add(r.Context(), req.Text)
	if appErr != nil {
		writeError(w, appErr)
		return
	}
	writeBoard(w, http.StatusCreated, board)
}

// replaceNotices overwrites the whole list. The If-Match header, or the
// body's revision, turns the write into a compare-and-swap.
func (h *Handlers) replaceNotices(w http.ResponseWriter, r *http.Request) {
	var req models.NoticesReplace
	if appErr := decodeJSON(w, r, &req); appErr != nil {
		writeError(w, appErr)
		return
	}
	if req.Notices == nil {
		writeError(w, models.ErrBadRequest("missing notices"))
		return
	}
	rev := req.Revision
	if m := ifMatch(r); m != "" {
		rev = m
	}
	board, appErr := h.notices.Replace(r.Context(), req.Notices, rev)
	if appErr != nil {
		writeError(w, appErr)
		return
	}
	writeBoard(w, http.StatusOK, board)
}

// updateNotice replaces one entry. An index past the end is a no-op that
// returns the unchanged list.
func (h *Handlers) updateNotice(w http.ResponseWriter, r *http.Request) {
	idx, err := intParam(r, "idx")
	if err != nil {
		writeError(w, err)
		return
	}
	var req models.NoticeUpdate
	if appErr := decodeJSON(w, r, &req); appErr != nil {
		writeError(w, appErr)
		return
	}
	board, _, appErr := h.notices.Update(r.Context(), idx, req.Text)
	if appErr != nil {
		writeError(w, appErr)
		return
	}
	writeBoard(w, http.StatusOK, board)
}

func (h *Handlers) deleteNotice(w http.ResponseWriter, r *http.Request) {
	idx, err := intParam(r, "idx")
	if err != nil {
		writeError(w, err)
		return
	}
	board, _, appErr := h.notices.Delete(r.Context(), idx)
	if appErr != nil {
		writeError(w, appErr)
		return
	}
	writeBoard(w, http.StatusOK, board)
}

func (h *Handlers) resetNotices(w http.ResponseWriter, r *http.Request) {
	board, appErr := h.notices.Reset(r.Context())
	if appErr != nil {
		writeError(w, appErr)
		return
	}
	writeBoard(w, http.StatusOK, board)
}

// createBackup triggers an immediate backup and returns the file path.
func (h *Handlers) createBackup(w http.ResponseWriter, r *http.Request) {
	if h.backups == nil {
		writeError(w, models.ErrNotFound("backups are disabled"))
		return
	}
	file, err := h.backups.RunBackupNow()
	if err != nil {
		writeError(w, models.ErrInternal(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"file": file})
}

// listBackups returns the available backup files, oldest first.
func (h *Handlers) listBackups(w http.ResponseWriter, r *http.Request) {
	if h.backups == nil {
		writeError(w, models.ErrNotFound("backups are disabled"))
		return
	}
	files, err := h.backups.ListBackups()
	if err != nil {
		writeError(w, models.ErrInternal(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"backups": files})
}

func writeBoard(w http.ResponseWriter, status int, board models.NoticeBoard) {
	w.Header().Set("ETag", `"`+board.Revision+`"`)
	writeJSON(w, status, board)
}

// ifMatch returns the revision from an If-Match header, without quotes or a
// weak prefix. "*" is treated as absent.
func ifMatch(r *http.Request) string {
	v := strings.TrimSpace(r.Header.Get("If-Match"))
	v = strings.TrimPrefix(v, "W/")
	v = strings.Trim(v, `"`)
	if v == "*" {
		return ""
	}
	return v
}
