// Package maintenance runs the launcher's background housekeeping: a daily
// backup of the notice file and periodic pruning of idle admin sessions.
package maintenance

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const (
	backupPrefix = "notices-"
	backupSuffix = ".json"

	// BackupRetention is how long daily backups are kept.
	BackupRetention = 30 * 24 * time.Hour
	// SessionIdleLimit is how long an untouched admin session survives.
	SessionIdleLimit = 7 * 24 * time.Hour
)

// SessionPruner forgets sessions idle for longer than maxIdle.
type SessionPruner interface {
	Prune(maxIdle time.Duration) int
}

// Service manages background maintenance goroutines.
type Service struct {
	source    string // notices.json
	backupDir string
	sessions  SessionPruner
}

// New creates a maintenance Service that backs up source into
// <dataDir>/backups and prunes sessions (which may be nil).
func New(dataDir, source string, sessions SessionPruner) *Service {
	return &Service{
		source:    source,
		backupDir: filepath.Join(dataDir, "backups"),
		sessions:  sessions,
	}
}

// BackupDir returns the directory backups are written to.
func (s *Service) BackupDir() string { return s.backupDir }

// Start launches all background maintenance goroutines.
// Blocks until ctx is cancelled; all goroutines respect the context.
func (s *Service) Start(ctx context.Context) {
	go s.runBackup(ctx)
	go s.runPruneSessions(ctx)

	<-ctx.Done()
}

// RunBackupNow performs a backup immediately and returns the backup file path.
func (s *Service) RunBackupNow() (string, error) {
	return runBackup(s.source, s.backupDir, time.Now())
}

// ListBackups returns available backup files sorted by name (newest last).
func (s *Service) ListBackups() ([]string, error) {
	entries, err := os.ReadDir(s.backupDir)
	if os.IsNotExist(err) {
		return []string{}, nil
	}
	if err != nil {
		return nil, err
	}

	files := []string{}
	for _, e := range entries {
		if !e.IsDir() && isBackupName(e.Name()) {
			files = append(files, filepath.Join(s.backupDir, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

// runBackup performs daily backups at 2am.
func (s *Service) runBackup(ctx context.Context) {
	for {
		now := time.Now()
		next2am := time.Date(now.Year(), now.Month(), now.Day(), 2, 0, 0, 0, now.Location())
		if !next2am.After(now) {
			next2am = next2am.Add(24 * time.Hour)
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(next2am.Sub(now)):
			path, err := s.RunBackupNow()
			if err != nil {
				slog.Error("maintenance: backup failed", "err", err)
			} else if path != "" {
				slog.Info("maintenance: backup created", "file", path)
			}
		}
	}
}

// runPruneSessions drops idle admin sessions every hour.
func (s *Service) runPruneSessions(ctx context.Context) {
	if s.sessions == nil {
		return
	}
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.sessions.Prune(SessionIdleLimit); n > 0 {
				slog.Info("maintenance: pruned idle sessions", "count", n)
			}
		}
	}
}

// runBackup copies source to backupDir/notices-YYYY-MM-DD.json, replacing a
// backup from the same day. A missing source is not an error: there is
// nothing to back up yet and "" is returned.
func runBackup(source, backupDir string, now time.Time) (string, error) {
	data, err := os.ReadFile(source)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", source, err)
	}

	if err := os.MkdirAll(backupDir, 0755); err != nil {
		return "", fmt.Errorf("create backup dir: %w", err)
	}

	dest := filepath.Join(backupDir, backupPrefix+now.Format("2006-01-02")+backupSuffix)
	tmp := dest + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return "", fmt.Errorf("write backup: %w", err)
	}
	if err := os.Rename(tmp, dest); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("rename backup: %w", err)
	}

	pruneOldBackups(backupDir, now.Add(-BackupRetention))
	return dest, nil
}

func isBackupName(name string) bool {
	return strings.HasPrefix(name, backupPrefix) && strings.HasSuffix(name, backupSuffix)
}

// pruneOldBackups deletes backup files last modified before cutoff.
func pruneOldBackups(backupDir string, cutoff time.Time) {
	entries, err := os.ReadDir(backupDir)
	if err != nil {
		return
	}

	for _, e := range entries {
		if e.IsDir() || !isBackupName(e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			path := filepath.Join(backupDir, e.Name())
			if err := os.Remove(path); err != nil {
				slog.Warn("maintenance: failed to prune old backup", "file", path, "err", err)
			} else {
				slog.Info("maintenance: pruned old backup", "file", path)
			}
		}
	}
}
