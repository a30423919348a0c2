package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"capstan/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantWorkspace := filepath.Join(tempHome, ".local", "share", "capstan")
	if cfg.Paths.WorkspaceDir != wantWorkspace {
		t.Fatalf("unexpected workspace dir: got %q want %q", cfg.Paths.WorkspaceDir, wantWorkspace)
	}
	if cfg.Paths.LogDir != filepath.Join(wantWorkspace, "logs") {
		t.Fatalf("unexpected log dir: %q", cfg.Paths.LogDir)
	}
	if cfg.Backend.BaseURL != "http://127.0.0.1:5000" {
		t.Fatalf("unexpected backend url: %q", cfg.Backend.BaseURL)
	}
	if cfg.Workflow.PollInterval != 1 {
		t.Fatalf("unexpected poll interval: %d", cfg.Workflow.PollInterval)
	}
	if cfg.Workflow.ErrorRetryInterval != 2 {
		t.Fatalf("unexpected retry interval: %d", cfg.Workflow.ErrorRetryInterval)
	}
	if cfg.Workflow.MaxPollAttempts != 300 {
		t.Fatalf("unexpected poll attempt cap: %d", cfg.Workflow.MaxPollAttempts)
	}
	if cfg.Defaults.Language != "auto" {
		t.Fatalf("unexpected default language: %q", cfg.Defaults.Language)
	}
	if cfg.Defaults.Model != "base" {
		t.Fatalf("unexpected default model: %q", cfg.Defaults.Model)
	}
	if !cfg.Defaults.RenderVideo {
		t.Fatal("expected render_video enabled by default")
	}
	if cfg.Style.FontFamily != "Arial" || cfg.Style.FontSize != 24 {
		t.Fatalf("unexpected style defaults: %+v", cfg.Style)
	}
	if !cfg.Style.Shadow {
		t.Fatal("expected shadow enabled by default")
	}
	if cfg.Style.Underline {
		t.Fatal("expected underline disabled by default")
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}

	for _, dir := range []string{cfg.Paths.WorkspaceDir, cfg.Paths.LogDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be directory", dir)
		}
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "capstan.toml")

	type payload struct {
		Backend struct {
			BaseURL       string `toml:"base_url"`
			UploadTimeout int    `toml:"upload_timeout"`
		} `toml:"backend"`
		Workflow struct {
			PollInterval    int `toml:"poll_interval"`
			MaxPollAttempts int `toml:"max_poll_attempts"`
		} `toml:"workflow"`
		Defaults struct {
			Language string `toml:"language"`
		} `toml:"defaults"`
	}
	custom := payload{}
	custom.Backend.BaseURL = "https://captions.example.com"
	custom.Backend.UploadTimeout = 1200
	custom.Workflow.PollInterval = 3
	custom.Workflow.MaxPollAttempts = 50
	custom.Defaults.Language = "hinglish"
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if cfg.Backend.BaseURL != "https://captions.example.com" {
		t.Fatalf("expected backend url from file, got %q", cfg.Backend.BaseURL)
	}
	if cfg.Backend.UploadTimeout != 1200 {
		t.Fatalf("expected upload timeout override, got %d", cfg.Backend.UploadTimeout)
	}
	if cfg.Workflow.PollInterval != 3 {
		t.Fatalf("expected poll interval 3, got %d", cfg.Workflow.PollInterval)
	}
	if cfg.Workflow.MaxPollAttempts != 50 {
		t.Fatalf("expected poll attempt cap 50, got %d", cfg.Workflow.MaxPollAttempts)
	}
	if cfg.Defaults.Language != "hinglish" {
		t.Fatalf("expected language hinglish, got %q", cfg.Defaults.Language)
	}
	// Untouched sections keep their defaults.
	if cfg.Backend.RequestTimeout != config.Default().Backend.RequestTimeout {
		t.Fatalf("unexpected request timeout: %d", cfg.Backend.RequestTimeout)
	}
	if cfg.Style.FontFamily != "Arial" {
		t.Fatalf("unexpected font family: %q", cfg.Style.FontFamily)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "capstan.toml")
	body := "[backend]\nbase_url = \"http://127.0.0.1:5000\"\nverify_tls = true\n"
	if err := os.WriteFile(configPath, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, _, _, err := config.Load(configPath); err == nil {
		t.Fatal("expected error for unknown key")
	}
}

func TestEnvVarOverridesConfigFileForBackendURL(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "capstan.toml")

	body := "[backend]\nbase_url = \"http://file-host:5000\"\n"
	if err := os.WriteFile(configPath, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("CAPSTAN_BACKEND_URL", "http://env-host:9000/")

	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Backend.BaseURL != "http://env-host:9000" {
		t.Fatalf("expected backend url from env with trailing slash trimmed, got %q", cfg.Backend.BaseURL)
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(contents), "http://127.0.0.1:5000") {
		t.Fatalf("sample config missing backend url: %s", contents)
	}

	// Validate it decodes into the canonical shape.
	var cfg config.Config
	if err := toml.Unmarshal(contents, &cfg); err != nil {
		t.Fatalf("unmarshal sample: %v", err)
	}
	if cfg.Defaults.Model != "base" {
		t.Fatalf("expected sample model base, got %q", cfg.Defaults.Model)
	}
}

func TestValidateDetectsInvalidValues(t *testing.T) {
	cfg := config.Default()
	cfg.Backend.BaseURL = "not-a-url"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for malformed backend url")
	}

	cfg = config.Default()
	cfg.Backend.UploadTimeout = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for non-positive timeout")
	}

	cfg = config.Default()
	cfg.Workflow.MaxPollAttempts = -1
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for negative poll attempts")
	}

	cfg = config.Default()
	cfg.Defaults.Language = "klingon"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown language")
	}

	cfg = config.Default()
	cfg.Defaults.Model = "enormous"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown model")
	}

	cfg = config.Default()
	cfg.Style.FontSize = 4
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for out-of-range font size")
	}

	cfg = config.Default()
	cfg.Logging.Format = "xml"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown log format")
	}
}

func TestExpandPathHandlesTilde(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	got, err := config.ExpandPath("~/captions")
	if err != nil {
		t.Fatalf("ExpandPath returned error: %v", err)
	}
	if got != filepath.Join(tempHome, "captions") {
		t.Fatalf("unexpected expansion: %q", got)
	}
}
