package workspace

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"capstan/internal/config"
	"capstan/internal/logging"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	base := t.TempDir()
	cfg.Paths.WorkspaceDir = filepath.Join(base, "workspace")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	return &cfg
}

func mustOpen(t *testing.T, cfg *config.Config) *Manager {
	t.Helper()
	m, err := Open(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(m.Release)
	return m
}

func TestOpenEnsuresDirectoriesAndLock(t *testing.T) {
	cfg := testConfig(t)
	m := mustOpen(t, cfg)

	info, err := os.Stat(m.Root())
	if err != nil || !info.IsDir() {
		t.Fatalf("workspace dir not created: %v", err)
	}
	if _, err := os.Stat(m.LockPath()); err != nil {
		t.Fatalf("lock file not created: %v", err)
	}
}

func TestOpenRejectsSecondInstance(t *testing.T) {
	cfg := testConfig(t)
	mustOpen(t, cfg)

	if _, err := Open(cfg, logging.NewNop()); err == nil {
		t.Fatal("expected second open to fail")
	} else if !strings.Contains(err.Error(), "another capstan instance") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestReleaseAllowsReopen(t *testing.T) {
	cfg := testConfig(t)
	first, err := Open(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	first.Release()

	second := mustOpen(t, cfg)
	if second.Root() != cfg.Paths.WorkspaceDir {
		t.Fatalf("unexpected root %q", second.Root())
	}
}

func TestExportPathSlugsTitle(t *testing.T) {
	cfg := testConfig(t)
	m := mustOpen(t, cfg)

	ts := time.Date(2024, 1, 31, 12, 0, 0, 0, time.UTC)
	got := m.ExportPath("My Talk: Part 2!", ts)
	want := filepath.Join(m.Root(), "my-talk-part-2-captions-20240131T120000Z.srt")
	if got != want {
		t.Fatalf("ExportPath = %q, want %q", got, want)
	}
}

func TestExportPathFallsBackForEmptyTitle(t *testing.T) {
	cfg := testConfig(t)
	m := mustOpen(t, cfg)

	ts := time.Date(2024, 1, 31, 12, 0, 0, 0, time.UTC)
	got := filepath.Base(m.ExportPath("!!!", ts))
	if got != "untitled-captions-20240131T120000Z.srt" {
		t.Fatalf("unexpected export name %q", got)
	}
}

func TestDownloadPathNormalizesExtension(t *testing.T) {
	cfg := testConfig(t)
	m := mustOpen(t, cfg)
	ts := time.Date(2024, 1, 31, 12, 0, 0, 0, time.UTC)

	if got := filepath.Base(m.DownloadPath("Talk", ts, "")); got != "talk-video-20240131T120000Z.mp4" {
		t.Fatalf("default extension wrong: %q", got)
	}
	if got := filepath.Base(m.DownloadPath("Talk", ts, "mkv")); got != "talk-video-20240131T120000Z.mkv" {
		t.Fatalf("bare extension wrong: %q", got)
	}
	if got := filepath.Base(m.DownloadPath("Talk", ts, ".avi")); got != "talk-video-20240131T120000Z.avi" {
		t.Fatalf("dotted extension wrong: %q", got)
	}
}

func TestWriteExportCreatesParents(t *testing.T) {
	cfg := testConfig(t)
	m := mustOpen(t, cfg)

	path := filepath.Join(m.Root(), "nested", "captions.srt")
	text := "1\n00:00:01,000 --> 00:00:02,000\nHello\n"
	if err := m.WriteExport(path, text); err != nil {
		t.Fatalf("WriteExport failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if string(data) != text {
		t.Fatalf("export content mismatch: %q", data)
	}
}

func TestFreeSpaceUsesStatfs(t *testing.T) {
	cfg := testConfig(t)
	m := mustOpen(t, cfg)
	m.statfs = func(string) (uint64, uint64, error) {
		return 100 << 30, 40 << 30, nil
	}

	free, err := m.FreeSpace()
	if err != nil {
		t.Fatalf("FreeSpace failed: %v", err)
	}
	if free != 40<<30 {
		t.Fatalf("FreeSpace = %d, want %d", free, uint64(40<<30))
	}
}

func TestEnsureDownloadSpaceShortfall(t *testing.T) {
	cfg := testConfig(t)
	m := mustOpen(t, cfg)
	m.statfs = func(string) (uint64, uint64, error) {
		return 100 << 30, MinDownloadFree - 1, nil
	}

	err := m.EnsureDownloadSpace()
	if err == nil {
		t.Fatal("expected shortfall error")
	}
	if !strings.Contains(err.Error(), "need at least") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestEnsureDownloadSpaceOK(t *testing.T) {
	cfg := testConfig(t)
	m := mustOpen(t, cfg)
	m.statfs = func(string) (uint64, uint64, error) {
		return 100 << 30, MinDownloadFree, nil
	}

	if err := m.EnsureDownloadSpace(); err != nil {
		t.Fatalf("EnsureDownloadSpace failed: %v", err)
	}
}

func TestFreeSpacePropagatesStatfsError(t *testing.T) {
	cfg := testConfig(t)
	m := mustOpen(t, cfg)
	m.statfs = func(string) (uint64, uint64, error) {
		return 0, 0, errors.New("boom")
	}

	if _, err := m.FreeSpace(); err == nil {
		t.Fatal("expected statfs error to propagate")
	}
}
