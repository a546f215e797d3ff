// Package config persists the launcher notice list and its static settings.
package config

import "github.com/afours/eshipping-launcher/internal/models"

// UpdateFunc receives the current list and the revision it was read from,
// and returns the list to persist. Returning an error aborts the write.
type UpdateFunc func(current models.NoticeList, revision string) (models.NoticeList, error)

// Store is the interface for persisting the notice list.
type Store interface {
	// Load returns the persisted list. It never fails: missing, unreadable,
	// or malformed data yields models.DefaultNotices.
	Load() models.NoticeList

	// Board returns the persisted list with its revision.
	Board() models.NoticeBoard

	// Save cleans and persists list, replacing the previous content.
	Save(list models.NoticeList) (models.NoticeBoard, error)

	// Update runs a read-modify-write cycle while holding the store lock.
	Update(fn UpdateFunc) (models.NoticeBoard, error)

	// Path returns the file path used by this store.
	Path() string
}
