package config

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/afours/eshipping-launcher/internal/models"
)

// encodeNotices serializes list as an indented JSON array. HTML escaping is
// disabled so the file keeps notice text byte-for-byte.
func encodeNotices(list models.NoticeList) ([]byte, error) {
	if list == nil {
		list = models.NoticeList{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(list); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// decodeNotices parses a persisted document. It reports false when data is
// not a JSON array. Non-string elements are skipped like blank ones.
func decodeNotices(data []byte) (models.NoticeList, bool) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, false
	}
	arr, ok := v.([]any)
	if !ok {
		return nil, false
	}
	list := make(models.NoticeList, 0, len(arr))
	for _, e := range arr {
		if s, ok := e.(string); ok {
			list = append(list, s)
		}
	}
	return list.Clean(), true
}

// unsavedRevision marks a list that has never been written. Every encoded
// document, even "[]", hashes to something else.
var unsavedRevision = revisionOf(nil)

// revisionOf returns the revision marker of a persisted document.
func revisionOf(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
