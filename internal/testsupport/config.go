package testsupport

import (
	"path/filepath"
	"testing"

	"capstan/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.WorkspaceDir = filepath.Join(base, "workspace")
	cfg.Paths.LogDir = filepath.Join(base, "logs")

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithBackendURL points the test config at the supplied backend address,
// typically an httptest server.
func WithBackendURL(url string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Backend.BaseURL = url
	}
}

// WithPolling overrides the polling cadence for fast tests.
func WithPolling(interval, retry, maxAttempts int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Workflow.PollInterval = interval
		cfg.Workflow.ErrorRetryInterval = retry
		cfg.Workflow.MaxPollAttempts = maxAttempts
	}
}
