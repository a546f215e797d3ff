package config

import (
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/afours/eshipping-launcher/internal/models"
)

const linksFileName = "links.json"

// LinksPath returns the location of the optional menu override file.
func LinksPath(dataDir string) string {
	return filepath.Join(dataDir, linksFileName)
}

// LoadLinks reads the launcher menu from links.json in dataDir.
// Returns DefaultLinks if the file is missing, malformed, or has no usable entry.
func LoadLinks(dataDir string) []models.Link {
	path := LinksPath(dataDir)
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			slog.Warn("config: cannot read links, using defaults", "path", path, "err", err)
		}
		return models.DefaultLinks()
	}

	var raw []models.Link
	if err := json.Unmarshal(data, &raw); err != nil {
		slog.Warn("config: corrupt links file, using defaults", "path", path, "err", err)
		return models.DefaultLinks()
	}

	links := make([]models.Link, 0, len(raw))
	for _, l := range raw {
		l.Label = strings.TrimSpace(l.Label)
		l.URL = strings.TrimSpace(l.URL)
		if l.Label == "" || l.URL == "" {
			continue
		}
		links = append(links, l)
	}
	if len(links) == 0 {
		return models.DefaultLinks()
	}
	return links
}
