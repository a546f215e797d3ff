package config

import (
	"fmt"

	"github.com/afours/eshipping-launcher/internal/models"
)

// EmptyPolicy decides what happens to a notice list that ends up empty.
type EmptyPolicy string

const (
	// RestoreDefaults replaces an empty list with models.DefaultNotices on
	// both save and load. An admin who deletes every notice gets the
	// defaults back.
	RestoreDefaults EmptyPolicy = "restore-defaults"

	// KeepEmpty persists and loads an emptied list as empty. Missing or
	// corrupt files still fall back to the defaults.
	KeepEmpty EmptyPolicy = "keep-empty"
)

// ParseEmptyPolicy parses a policy name. The empty string selects RestoreDefaults.
func ParseEmptyPolicy(s string) (EmptyPolicy, error) {
	switch EmptyPolicy(s) {
	case "", RestoreDefaults:
		return RestoreDefaults, nil
	case KeepEmpty:
		return KeepEmpty, nil
	}
	return "", fmt.Errorf("unknown empty policy %q (want %q or %q)", s, RestoreDefaults, KeepEmpty)
}

// apply returns list, or the defaults if list is empty and the policy says so.
func (p EmptyPolicy) apply(list models.NoticeList) models.NoticeList {
	if len(list) == 0 && p != KeepEmpty {
		return models.DefaultNotices()
	}
	return list
}
