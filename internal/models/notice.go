// Package models defines the data structures shared by the launcher packages.
package models

import "strings"

// NoticeList is the ordered list of ticker notices. Entries have no identity
// beyond their position; duplicates are allowed.
type NoticeList []string

// NoticeBoard is a notice list together with the revision of the persisted
// document it was read from. A list that was never written still carries a
// fixed revision, distinct from that of any saved document.
type NoticeBoard struct {
	Notices  NoticeList `json:"notices"`
	Revision string     `json:"revision"`

	// Previous is the revision a write replaced. Set only on writes.
	Previous string `json:"-"`
}

// Clean returns a copy with every entry trimmed and blank entries removed.
// The result is never nil.
func (l NoticeList) Clean() NoticeList {
	out := make(NoticeList, 0, len(l))
	for _, n := range l {
		if n = strings.TrimSpace(n); n != "" {
			out = append(out, n)
		}
	}
	return out
}

// Clone returns an independent copy of the list.
func (l NoticeList) Clone() NoticeList {
	out := make(NoticeList, len(l))
	copy(out, l)
	return out
}

// Edit replaces the entry at index i with the trimmed value.
// It reports false and leaves the list untouched if i is out of range.
func (l NoticeList) Edit(i int, value string) bool {
	if i < 0 || i >= len(l) {
		return false
	}
	l[i] = strings.TrimSpace(value)
	return true
}

// Delete returns the list without the entry at index i, shifting later
// entries down by one. It reports false if i is out of range.
func (l NoticeList) Delete(i int) (NoticeList, bool) {
	if i < 0 || i >= len(l) {
		return l, false
	}
	out := make(NoticeList, 0, len(l)-1)
	out = append(out, l[:i]...)
	return append(out, l[i+1:]...), true
}

// Equal reports whether both lists hold the same entries in the same order.
func (l NoticeList) Equal(other NoticeList) bool {
	if len(l) != len(other) {
		return false
	}
	for i := range l {
		if l[i] != other[i] {
			return false
		}
	}
	return true
}
