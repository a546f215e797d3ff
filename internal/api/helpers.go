// Package api implements the launcher's HTTP surface: the home and admin
// pages and the JSON API over the notice list.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/afours/eshipping-launcher/internal/auth"
	"github.com/afours/eshipping-launcher/internal/models"
)

// Handlers holds dependencies for all HTTP handlers.
type Handlers struct {
	notices Notices
	gate    *auth.Gate
	events  EventBus
	links   func() []models.Link
	logo    Logo
	backups Backups
	host    string
	version string
}

// Notices is the notice-list service the handlers drive.
type Notices interface {
	Board() models.NoticeBoard
	Add(ctx context.Context, entry string) (models.NoticeBoard, *models.AppError)
	Update(ctx context.Context, index int, text string) (models.NoticeBoard, bool, *models.AppError)
	Replace(ctx context.Context, list models.NoticeList, ifRevision string) (models.NoticeBoard, *models.AppError)
	ApplyEdits(ctx context.Context, edits map[int]string, ifRevision string) (models.NoticeBoard, *models.AppError)
	Delete(ctx context.Context, index int) (models.NoticeBoard, bool, *models.AppError)
	Reset(ctx context.Context) (models.NoticeBoard, *models.AppError)
}

// EventBus is the interface for subscribing to notice list changes.
type EventBus interface {
	Subscribe(id string) <-chan models.NoticeBoard
	Unsubscribe(id string)
}

// Logo serves the branding image.
type Logo interface {
	http.Handler
	Size() (width, height int)
}

// Backups exposes the notice file backups to admins.
type Backups interface {
	RunBackupNow() (string, error)
	ListBackups() ([]string, error)
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

// writeError writes an AppError as a JSON response.
func writeError(w http.ResponseWriter, err error) {
	if appErr, ok := err.(*models.AppError); ok {
		writeJSON(w, appErr.Status, appErr)
		return
	}
	writeJSON(w, http.StatusInternalServerError, models.ErrInternal(err.Error()))
}

// intParam reads an integer path parameter by name.
func intParam(r *http.Request, name string) (int, error) {
	s := chi.URLParam(r, name)
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, models.ErrBadRequest("invalid " + name + " parameter")
	}
	return n, nil
}

// decodeJSON decodes the request body into v, limited to 64 KiB.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) *models.AppError {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 64<<10))
	if err := dec.Decode(v); err != nil {
		return models.ErrBadRequest("invalid JSON: " + err.Error())
	}
	return nil
}
