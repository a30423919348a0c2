package workspace

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/dustin/go-humanize"
	"github.com/gofrs/flock"
	"golang.org/x/sys/unix"

	"capstan/internal/config"
	"capstan/internal/logging"
)

const (
	lockFileName = "capstan.lock"

	exportTimeFormat = "20060102T150405Z"

	// MinDownloadFree is the free-space floor the workspace filesystem
	// must satisfy before a rendered video download starts.
	MinDownloadFree uint64 = 1 << 30
)

// statfsFunc allows tests to stub filesystem stats.
type statfsFunc func(path string) (total uint64, free uint64, err error)

// Manager coordinates access to the workspace directory.
type Manager struct {
	root     string
	lockPath string
	lock     *flock.Flock
	logger   *slog.Logger
	statfs   statfsFunc
}

// Open prepares the workspace directory and claims its advisory lock.
// A second concurrent capstan process fails here rather than racing the
// first over export files and the ledger database.
func Open(cfg *config.Config, logger *slog.Logger) (*Manager, error) {
	if cfg == nil {
		return nil, errors.New("workspace requires config")
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, err
	}

	root := cfg.Paths.WorkspaceDir
	if strings.TrimSpace(root) == "" {
		return nil, errors.New("workspace directory not configured")
	}

	lockPath := filepath.Join(root, lockFileName)
	lock := flock.New(lockPath)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire workspace lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("another capstan instance is already using %s", root)
	}

	m := &Manager{
		root:     root,
		lockPath: lockPath,
		lock:     lock,
		logger:   logging.NewComponentLogger(logger, "workspace"),
		statfs:   realStatfs,
	}
	m.logger.Debug("workspace locked", logging.String("path", root))
	return m, nil
}

// Root returns the workspace directory.
func (m *Manager) Root() string {
	return m.root
}

// LockPath returns the path of the advisory lock file.
func (m *Manager) LockPath() string {
	return m.lockPath
}

// ExportPath returns the workspace path for a captions export derived
// from the video title and the given timestamp.
func (m *Manager) ExportPath(title string, ts time.Time) string {
	name := fmt.Sprintf("%s-captions-%s.srt", titleSlug(title), ts.UTC().Format(exportTimeFormat))
	return filepath.Join(m.root, name)
}

// DownloadPath returns the workspace path for a downloaded video named
// after the title and timestamp. An empty extension defaults to .mp4.
func (m *Manager) DownloadPath(title string, ts time.Time, ext string) string {
	ext = strings.TrimSpace(ext)
	if ext == "" {
		ext = ".mp4"
	} else if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	name := fmt.Sprintf("%s-video-%s%s", titleSlug(title), ts.UTC().Format(exportTimeFormat), ext)
	return filepath.Join(m.root, name)
}

// WriteExport writes caption text at path, creating parent directories
// as needed.
func (m *Manager) WriteExport(path, text string) error {
	if strings.TrimSpace(path) == "" {
		return errors.New("export path is required")
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("ensure export directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	m.logger.Info("captions exported",
		logging.String("path", path),
		logging.Int("bytes", len(text)),
	)
	return nil
}

// FreeSpace reports the free bytes available on the workspace filesystem.
func (m *Manager) FreeSpace() (uint64, error) {
	_, free, err := m.statfs(m.root)
	if err != nil {
		return 0, fmt.Errorf("stat workspace filesystem: %w", err)
	}
	return free, nil
}

// EnsureDownloadSpace fails when the workspace filesystem is below the
// free-space floor for video downloads.
func (m *Manager) EnsureDownloadSpace() error {
	free, err := m.FreeSpace()
	if err != nil {
		return err
	}
	if free < MinDownloadFree {
		return fmt.Errorf("workspace %s has %s free, need at least %s for video downloads",
			m.root, humanize.Bytes(free), humanize.Bytes(MinDownloadFree))
	}
	return nil
}

// Release drops the workspace lock. Safe to call more than once.
func (m *Manager) Release() {
	if m == nil || m.lock == nil {
		return
	}
	if err := m.lock.Unlock(); err != nil {
		m.logger.Warn("failed to release workspace lock", logging.Error(err))
	}
	m.lock = nil
}

func titleSlug(title string) string {
	slug := sanitizeSlug(title)
	if slug == "" {
		return "untitled"
	}
	return slug
}

func sanitizeSlug(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	var builder strings.Builder
	builder.Grow(len(value))
	lastDash := false
	for _, r := range value {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			builder.WriteRune(r)
			lastDash = false
		case r >= 'A' && r <= 'Z':
			builder.WriteRune(unicode.ToLower(r))
			lastDash = false
		default:
			if !lastDash {
				builder.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.Trim(builder.String(), "-")
}

func realStatfs(path string) (uint64, uint64, error) {
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return 0, 0, err
	}
	total := stat.Blocks * uint64(stat.Bsize)
	free := stat.Bavail * uint64(stat.Bsize)
	return total, free, nil
}
