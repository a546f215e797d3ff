// Package identity reports who this launcher instance is: host name and
// software version.
package identity

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// DefaultVersion is the fallback version string when metadata.json is not found.
const DefaultVersion = "1.0.0"

// Info holds instance identity.
type Info struct {
	Hostname string
	Version  string
}

// Load collects identity for an instance whose data lives in dataDir.
func Load(dataDir string) Info {
	return Info{Hostname: GetHostname(), Version: GetVersionFromDir(dataDir)}
}

// GetHostname returns the system hostname.
func GetHostname() string {
	h, err := os.Hostname()
	if err != nil || h == "" {
		return "launcher"
	}
	return h
}

// GetVersionFromDir reads the version from dir/metadata.json.
// Falls back to DefaultVersion if the file is missing or unreadable.
func GetVersionFromDir(dir string) string {
	data, err := os.ReadFile(filepath.Join(dir, "metadata.json"))
	if err != nil {
		return DefaultVersion
	}

	var meta map[string]interface{}
	if err := json.Unmarshal(data, &meta); err != nil {
		return DefaultVersion
	}

	if v, ok := meta["version"].(string); ok && v != "" {
		return v
	}
	return DefaultVersion
}
